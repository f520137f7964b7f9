package command

import "github.com/MakeNowJust/heredoc/v2"

// HelpPages is the /ko help dialog, one entry per page
var HelpPages = []string{
	heredoc.Doc(`
		Knockout: each round the slowest players lose a life.
		The last player standing wins.

		/opt out        sit out the next knockout
		/opt in         take part again
		/ko status      show the current round
		/ko settings    show the knockout settings
		/ko help        show this help
	`),
	heredoc.Doc(`
		Running a knockout (admins):

		/ko start [now]       start, optionally restarting the track
		/ko stop              stop the knockout
		/ko skip [warmup]     skip the track or the warmup
		/ko restart [warmup]  restart the track, optionally with warmup
		/ko add <login>       add a player mid-knockout
		/ko remove <login>    knock a player out (alias: spec)
	`),
	heredoc.Doc(`
		Settings (admins):

		/ko lives [login] <n>   lives for everyone, or one player
		/ko multi none          one knockout per round
		/ko multi <k>           k knockouts per round
		/ko multi extra <x>     one knockout per x players
		/ko multi dynamic <n>   spread knockouts over n rounds
		/ko rounds <n>          rounds per track
	`),
	heredoc.Doc(`
		More settings (admins):

		/ko openwarmup <on|off>  let knocked out players drive the warmup
		/ko falsestart <max>     restarts allowed for false starts, 0 disables
		/ko tiebreaker <on|off>  replay ties instead of knocking out everyone tied
		/ko authorskip <n>       skip warmup when at most n players remain
		                         and one of them beats the author time
	`),
}
