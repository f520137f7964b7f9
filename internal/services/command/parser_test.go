package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/knockout/internal/services/elimination"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Command
	}{
		{"bare ko", "/ko", Command{Kind: KindHelp}},
		{"help", "/ko help", Command{Kind: KindHelp}},
		{"help flag", "/ko --help", Command{Kind: KindHelp}},
		{"start", "/ko start", Command{Kind: KindStart}},
		{"start now", "/ko start now", Command{Kind: KindStart, Now: true}},
		{"case insensitive", "/KO Start", Command{Kind: KindStart}},
		{"stop", "/ko stop", Command{Kind: KindStop}},
		{"skip", "/ko skip", Command{Kind: KindSkip}},
		{"skip warmup", "/ko skip warmup", Command{Kind: KindSkip, Warmup: true}},
		{"restart warmup", "/ko restart warmup", Command{Kind: KindRestart, Warmup: true}},
		{"add", "/ko add alice", Command{Kind: KindAdd, Login: "alice"}},
		{"remove", "/ko remove bob", Command{Kind: KindRemove, Login: "bob"}},
		{"spec alias", "/ko spec bob", Command{Kind: KindRemove, Login: "bob"}},
		{"default lives", "/ko lives 3", Command{Kind: KindLives, Lives: 3}},
		{"player lives", "/ko lives alice 2", Command{Kind: KindLives, Login: "alice", Lives: 2}},
		{"multi none", "/ko multi none", Command{Kind: KindMulti, Mode: elimination.ModeNone}},
		{"multi bare number", "/ko multi 2", Command{Kind: KindMulti, Mode: elimination.ModeConstant, Value: 2}},
		{"multi constant", "/ko multi constant 3", Command{Kind: KindMulti, Mode: elimination.ModeConstant, Value: 3}},
		{"multi extra", "/ko multi extra 4", Command{Kind: KindMulti, Mode: elimination.ModeExtra, Value: 4}},
		{"multi dynamic", "/ko multi dynamic 10", Command{Kind: KindMulti, Mode: elimination.ModeDynamic, Value: 10}},
		{"rounds", "/ko rounds 5", Command{Kind: KindRounds, Count: 5}},
		{"openwarmup on", "/ko openwarmup on", Command{Kind: KindOpenWarmup, Enabled: true}},
		{"openwarmup off", "/ko openwarmup off", Command{Kind: KindOpenWarmup}},
		{"falsestart", "/ko falsestart 2", Command{Kind: KindFalseStart, Count: 2}},
		{"falsestart disabled", "/ko falsestart 0", Command{Kind: KindFalseStart}},
		{"tiebreaker", "/ko tiebreaker on", Command{Kind: KindTiebreaker, Enabled: true}},
		{"authorskip", "/ko authorskip 4", Command{Kind: KindAuthorSkip, Count: 4}},
		{"settings", "/ko settings", Command{Kind: KindSettings}},
		{"status", "/ko status", Command{Kind: KindStatus}},
		{"opt in", "/opt in", Command{Kind: KindOptIn}},
		{"opt out", "/opt OUT", Command{Kind: KindOptOut}},
		{"extra whitespace", "  /ko   lives   alice   4 ", Command{Kind: KindLives, Login: "alice", Lives: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantUsage string
	}{
		{"unknown subcommand", "/ko dance", "/ko <subcommand> [args...]"},
		{"start extra word", "/ko start later", "/ko start [now]"},
		{"stop with args", "/ko stop please", "/ko stop"},
		{"add missing login", "/ko add", "/ko add <login>"},
		{"lives not a number", "/ko lives many", "/ko lives [login] <lives>"},
		{"lives zero", "/ko lives 0", "/ko lives [login] <lives>"},
		{"lives negative", "/ko lives -1", "/ko lives [login] <lives>"},
		{"lives too many args", "/ko lives a b c", "/ko lives [login] <lives>"},
		{"multi unknown mode", "/ko multi lots 2", "/ko multi <none|constant k|extra x|dynamic n|k>"},
		{"multi missing value", "/ko multi extra", "/ko multi <none|constant k|extra x|dynamic n|k>"},
		{"multi zero", "/ko multi 0", "/ko multi <none|constant k|extra x|dynamic n|k>"},
		{"multi tiebreaker is internal", "/ko multi tiebreaker 2", "/ko multi <none|constant k|extra x|dynamic n|k>"},
		{"rounds zero", "/ko rounds 0", "/ko rounds <n>"},
		{"openwarmup garbage", "/ko openwarmup maybe", "/ko openwarmup <on|off>"},
		{"falsestart negative", "/ko falsestart -2", "/ko falsestart <max>"},
		{"opt nothing", "/opt", "/opt <in|out>"},
		{"opt sideways", "/opt sideways", "/opt <in|out>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.line)
			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, tt.wantUsage, syntaxErr.Usage)
			assert.Contains(t, syntaxErr.Error(), tt.wantUsage)
		})
	}
}

func TestParseNotCommand(t *testing.T) {
	for _, line := range []string{"", "   ", "gg", "/kok start", "ko start"} {
		_, err := Parse(line)
		assert.ErrorIs(t, err, ErrNotCommand, line)
	}
}

func TestKindIsAdmin(t *testing.T) {
	assert.True(t, KindStart.IsAdmin())
	assert.True(t, KindMulti.IsAdmin())
	assert.False(t, KindStatus.IsAdmin())
	assert.False(t, KindOptOut.IsAdmin())
	assert.False(t, KindHelp.IsAdmin())
}

func TestHelpPagesNotEmpty(t *testing.T) {
	require.NotEmpty(t, HelpPages)
	for _, page := range HelpPages {
		assert.NotEmpty(t, page)
	}
}
