package host

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mcoot/knockout/internal/model"
)

// Querier sends a named method call to the dedicated server and returns the raw result
type Querier interface {
	Query(ctx context.Context, method string, params ...any) (json.RawMessage, error)
}

// Server method names
const (
	MethodForceSpectator    = "ForceSpectator"
	MethodRestartMap        = "RestartMap"
	MethodNextMap           = "NextMap"
	MethodRestartRound      = "ForceRestartRound"
	MethodStopWarmUp        = "StopWarmUp"
	MethodGetGameMode       = "GetGameMode"
	MethodGetWarmUp         = "GetWarmUp"
	MethodGetRoundsPerMap   = "GetRoundsPerMap"
	MethodSetRoundsPerMap   = "SetRoundsPerMap"
	MethodGetPlayerList     = "GetPlayerList"
	MethodGetCurrentMapInfo = "GetCurrentMapInfo"
	MethodGetNextMapInfo    = "GetNextMapInfo"
)

type wirePlayer struct {
	Login       string `json:"Login"`
	NickName    string `json:"NickName"`
	IsSpectator bool   `json:"IsSpectator"`
}

type wireMap struct {
	UID        string `json:"UId"`
	Name       string `json:"Name"`
	Author     string `json:"Author"`
	AuthorTime int    `json:"AuthorTime"`
}

// Client implements Server on top of a Querier
type Client struct {
	querier Querier
	logger  *slog.Logger
}

var _ Server = (*Client)(nil)

// NewClient creates a Server backed by querier
func NewClient(querier Querier, logger *slog.Logger) *Client {
	return &Client{
		querier: querier,
		logger:  logger.With(slog.String("component", "host-client")),
	}
}

func (c *Client) call(ctx context.Context, method string, params ...any) error {
	_, err := c.query(ctx, method, params...)
	return err
}

func (c *Client) query(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	raw, err := c.querier.Query(ctx, method, params...)
	if err != nil {
		c.logger.Warn("server query failed", slog.String("method", method), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %s: %w", model.ErrQueryFailed, method, err)
	}
	return raw, nil
}

func decode[T any](c *Client, ctx context.Context, method string, params ...any) (T, error) {
	var out T
	raw, err := c.query(ctx, method, params...)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("%w: %s: decoding result: %w", model.ErrQueryFailed, method, err)
	}
	return out, nil
}

func (c *Client) ForceSpectator(ctx context.Context, login string, mode model.SpectatorMode) error {
	return c.call(ctx, MethodForceSpectator, login, int(mode))
}

func (c *Client) RestartTrack(ctx context.Context, withWarmup bool) error {
	return c.call(ctx, MethodRestartMap, withWarmup)
}

func (c *Client) SkipTrack(ctx context.Context) error {
	return c.call(ctx, MethodNextMap)
}

func (c *Client) RestartRound(ctx context.Context) error {
	return c.call(ctx, MethodRestartRound)
}

func (c *Client) EndWarmup(ctx context.Context) error {
	return c.call(ctx, MethodStopWarmUp)
}

func (c *Client) GameMode(ctx context.Context) (model.GameMode, error) {
	mode, err := decode[int](c, ctx, MethodGetGameMode)
	return model.GameMode(mode), err
}

func (c *Client) IsWarmup(ctx context.Context) (bool, error) {
	return decode[bool](c, ctx, MethodGetWarmUp)
}

func (c *Client) RoundsPerTrack(ctx context.Context) (int, error) {
	return decode[int](c, ctx, MethodGetRoundsPerMap)
}

func (c *Client) SetRoundsPerTrack(ctx context.Context, rounds int) error {
	return c.call(ctx, MethodSetRoundsPerMap, rounds)
}

func (c *Client) Players(ctx context.Context) ([]model.ServerPlayer, error) {
	wire, err := decode[[]wirePlayer](c, ctx, MethodGetPlayerList)
	if err != nil {
		return nil, err
	}
	players := make([]model.ServerPlayer, len(wire))
	for i, p := range wire {
		players[i] = model.ServerPlayer{Login: p.Login, Nickname: p.NickName, IsSpectator: p.IsSpectator}
	}
	return players, nil
}

func (c *Client) CurrentTrack(ctx context.Context) (model.TrackInfo, error) {
	return c.track(ctx, MethodGetCurrentMapInfo)
}

func (c *Client) NextTrack(ctx context.Context) (model.TrackInfo, error) {
	return c.track(ctx, MethodGetNextMapInfo)
}

func (c *Client) track(ctx context.Context, method string) (model.TrackInfo, error) {
	m, err := decode[wireMap](c, ctx, method)
	if err != nil {
		return model.TrackInfo{}, err
	}
	return model.TrackInfo{UID: m.UID, Name: m.Name, Author: m.Author, AuthorTime: m.AuthorTime}, nil
}
