package host_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/knockout/internal/dependencies/mocks"
	"github.com/mcoot/knockout/internal/host"
)

func TestFanoutShowsOnEveryPresenter(t *testing.T) {
	a, b := mocks.NewMockPresenter(), mocks.NewMockPresenter()
	fanout := host.Fanout{a, b}
	ctx := context.Background()

	fanout.Chat(ctx, host.To("alice"), "hi")
	fanout.ShowStatus(ctx, host.Everyone(), host.StatusView{State: "Running"})
	fanout.ShowScoreboard(ctx, host.Everyone(), host.ScoreboardView{Round: 2})
	fanout.ShowDialog(ctx, host.To("alice"), host.Dialog{Title: "Help"})
	fanout.Prompt(ctx, host.To("alice"), host.Prompt{ID: "p"})

	for _, p := range []*mocks.MockPresenter{a, b} {
		assert.Equal(t, []string{"hi"}, p.MessagesTo("alice"))
		assert.Len(t, p.Statuses, 1)
		assert.Len(t, p.Scoreboards, 1)
		assert.Len(t, p.Dialogs, 1)
		assert.Len(t, p.Prompts, 1)
	}
}
