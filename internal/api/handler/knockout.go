package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/knockout/internal/api/request"
	"github.com/mcoot/knockout/internal/api/response"
	"github.com/mcoot/knockout/internal/config"
	"github.com/mcoot/knockout/internal/model"
	"github.com/mcoot/knockout/internal/storage"
)

const (
	defaultHistoryLimit     = 20
	defaultLeaderboardLimit = 10
	maxLimit                = 100
)

// Knockout is the running knockout as the API sees it
type Knockout interface {
	Dispatch(ctx context.Context, cb model.Callback) error
	Snapshot(ctx context.Context) (model.KnockoutSnapshot, error)
	Settings(ctx context.Context) (config.Settings, error)
}

// KnockoutHandler handles callbacks from the host and knockout queries
type KnockoutHandler struct {
	knockout Knockout
	storage  storage.Storage
}

// NewKnockoutHandler creates a new knockout handler
func NewKnockoutHandler(knockout Knockout, storage storage.Storage) *KnockoutHandler {
	return &KnockoutHandler{
		knockout: knockout,
		storage:  storage,
	}
}

// Callback handles POST /api/v1/callbacks
func (h *KnockoutHandler) Callback(w http.ResponseWriter, r *http.Request) {
	var req request.CallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}

	if err := h.knockout.Dispatch(r.Context(), req.ToModel()); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Get handles GET /api/v1/knockout
func (h *KnockoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.knockout.Snapshot(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	settings, err := h.knockout.Settings(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.KnockoutStateFromModel(snap, settings))
}

// ListResults handles GET /api/v1/knockouts
func (h *KnockoutHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, defaultHistoryLimit, maxLimit)
	if err != nil {
		WriteError(w, err)
		return
	}

	results, err := h.storage.ListResults(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ResultListFromModel(results))
}

// GetResult handles GET /api/v1/knockouts/{id}
func (h *KnockoutHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	id := model.KnockoutID(mux.Vars(r)["id"])

	result, err := h.storage.GetResult(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ResultFromModel(result))
}

// Leaderboard handles GET /api/v1/leaderboard
func (h *KnockoutHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, defaultLeaderboardLimit, maxLimit)
	if err != nil {
		WriteError(w, err)
		return
	}

	counts, err := h.storage.Leaderboard(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(counts))
}
