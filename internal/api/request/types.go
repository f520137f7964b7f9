package request

import (
	"errors"

	"github.com/mcoot/knockout/internal/model"
)

// CallbackRequest is the request body the host relay posts for every server callback
type CallbackRequest struct {
	Type        string `json:"type"`
	Status      int    `json:"status,omitempty"`
	Login       string `json:"login,omitempty"`
	Nickname    string `json:"nickname,omitempty"`
	IsSpectator bool   `json:"is_spectator,omitempty"`
	Time        int    `json:"time,omitempty"`
	Text        string `json:"text,omitempty"`
	IsAdmin     bool   `json:"is_admin,omitempty"`
	PromptID    string `json:"prompt_id,omitempty"`
	Accepted    bool   `json:"accepted,omitempty"`
}

// Validate checks the fields each callback type needs. Unknown types are left
// to the knockout to reject.
func (r CallbackRequest) Validate() error {
	if r.Type == "" {
		return errors.New("type is required")
	}

	switch model.CallbackType(r.Type) {
	case model.CallbackStatusChanged:
		if r.Status < int(model.ServerStatusWaiting) || r.Status > int(model.ServerStatusExit) {
			return errors.New("status must be between 1 and 6")
		}
	case model.CallbackPlayerConnect, model.CallbackPlayerDisconnect, model.CallbackPlayerFinish,
		model.CallbackPlayerInfoChanged, model.CallbackPlayerChat:
		if r.Login == "" {
			return errors.New("login is required")
		}
		if r.Time < 0 {
			return errors.New("time must not be negative")
		}
	case model.CallbackPromptAnswer:
		if r.Login == "" || r.PromptID == "" {
			return errors.New("login and prompt_id are required")
		}
	}
	return nil
}

// ToModel converts the request to a model.Callback
func (r CallbackRequest) ToModel() model.Callback {
	return model.Callback{
		Type:        model.CallbackType(r.Type),
		Status:      model.ServerStatus(r.Status),
		Login:       r.Login,
		Nickname:    r.Nickname,
		IsSpectator: r.IsSpectator,
		Time:        r.Time,
		Text:        r.Text,
		IsAdmin:     r.IsAdmin,
		PromptID:    r.PromptID,
		Accepted:    r.Accepted,
	}
}
