package mocks

import (
	"context"
	"strings"
	"sync"

	"github.com/mcoot/knockout/internal/host"
)

// ChatMessage is a recorded chat line
type ChatMessage struct {
	To      host.Audience
	Message string
}

// MockPresenter records everything shown to players
type MockPresenter struct {
	mu          sync.Mutex
	Statuses    []host.StatusView
	Scoreboards []host.ScoreboardView
	Dialogs     []host.Dialog
	Prompts     []host.Prompt
	Messages    []ChatMessage
}

var _ host.Presenter = (*MockPresenter)(nil)

// NewMockPresenter creates an empty MockPresenter
func NewMockPresenter() *MockPresenter {
	return &MockPresenter{}
}

func (p *MockPresenter) ShowStatus(_ context.Context, _ host.Audience, view host.StatusView) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Statuses = append(p.Statuses, view)
}

func (p *MockPresenter) ShowScoreboard(_ context.Context, _ host.Audience, view host.ScoreboardView) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Scoreboards = append(p.Scoreboards, view)
}

func (p *MockPresenter) ShowDialog(_ context.Context, _ host.Audience, dialog host.Dialog) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Dialogs = append(p.Dialogs, dialog)
}

func (p *MockPresenter) Prompt(_ context.Context, _ host.Audience, prompt host.Prompt) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Prompts = append(p.Prompts, prompt)
}

func (p *MockPresenter) Chat(_ context.Context, to host.Audience, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Messages = append(p.Messages, ChatMessage{To: to, Message: message})
}

// LastScoreboard returns the most recent scoreboard
func (p *MockPresenter) LastScoreboard() (host.ScoreboardView, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Scoreboards) == 0 {
		return host.ScoreboardView{}, false
	}
	return p.Scoreboards[len(p.Scoreboards)-1], true
}

// ChatContains reports whether any chat message contains substr
func (p *MockPresenter) ChatContains(substr string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, m := range p.Messages {
		if strings.Contains(m.Message, substr) {
			return true
		}
	}
	return false
}

// MessagesTo returns the chat messages whose audience includes login
func (p *MockPresenter) MessagesTo(login string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, m := range p.Messages {
		if m.To.Includes(login) {
			out = append(out, m.Message)
		}
	}
	return out
}
