package command

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/knockout/internal/services/elimination"
)

// Parse turns a chat line into a Command. Lines not starting with /ko or /opt
// return ErrNotCommand; malformed commands return a *SyntaxError.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, ErrNotCommand
	}

	switch strings.ToLower(fields[0]) {
	case "/ko":
		if len(fields) == 1 {
			return Command{Kind: KindHelp}, nil
		}
		fields[1] = strings.ToLower(fields[1])
		return execute(newKnockoutCmd, fields[1:])
	case "/opt":
		for i := 1; i < len(fields); i++ {
			fields[i] = strings.ToLower(fields[i])
		}
		return execute(newOptCmd, fields[1:])
	default:
		return Command{}, ErrNotCommand
	}
}

type result struct {
	cmd Command
	ok  bool
}

func (r *result) set(cmd Command) {
	r.cmd = cmd
	r.ok = true
}

func execute(build func(*result) *cobra.Command, args []string) (Command, error) {
	var res result
	root := build(&res)
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	cmd, err := root.ExecuteC()
	if err != nil {
		return Command{}, &SyntaxError{Usage: usage(cmd), Err: err}
	}
	if !res.ok {
		// --help and friends
		return Command{Kind: KindHelp}, nil
	}
	return res.cmd, nil
}

func usage(cmd *cobra.Command) string {
	if cmd == nil {
		return "/ko help"
	}
	return "/" + cmd.UseLine()
}

func newRoot(use string) *cobra.Command {
	root := &cobra.Command{
		Use:                   use,
		Args:                  cobra.NoArgs,
		SilenceErrors:         true,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		DisableSuggestions:    true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	return root
}

func leaf(use string, args cobra.PositionalArgs, run func(args []string) error) *cobra.Command {
	return &cobra.Command{
		Use:                   use,
		Args:                  args,
		DisableFlagParsing:    true,
		DisableFlagsInUseLine: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(args)
		},
	}
}

func newKnockoutCmd(res *result) *cobra.Command {
	root := newRoot("ko <subcommand> [args...]")
	root.RunE = func(_ *cobra.Command, _ []string) error {
		res.set(Command{Kind: KindHelp})
		return nil
	}

	root.SetHelpCommand(leaf("help", cobra.NoArgs, func([]string) error {
		res.set(Command{Kind: KindHelp})
		return nil
	}))

	root.AddCommand(
		leaf("start [now]", cobra.MaximumNArgs(1), func(args []string) error {
			now, err := optionalKeyword(args, "now")
			if err != nil {
				return err
			}
			res.set(Command{Kind: KindStart, Now: now})
			return nil
		}),
		leaf("stop", cobra.NoArgs, func([]string) error {
			res.set(Command{Kind: KindStop})
			return nil
		}),
		leaf("skip [warmup]", cobra.MaximumNArgs(1), func(args []string) error {
			warmup, err := optionalKeyword(args, "warmup")
			if err != nil {
				return err
			}
			res.set(Command{Kind: KindSkip, Warmup: warmup})
			return nil
		}),
		leaf("restart [warmup]", cobra.MaximumNArgs(1), func(args []string) error {
			warmup, err := optionalKeyword(args, "warmup")
			if err != nil {
				return err
			}
			res.set(Command{Kind: KindRestart, Warmup: warmup})
			return nil
		}),
		leaf("add <login>", cobra.ExactArgs(1), func(args []string) error {
			res.set(Command{Kind: KindAdd, Login: args[0]})
			return nil
		}),
		withAliases(leaf("remove <login>", cobra.ExactArgs(1), func(args []string) error {
			res.set(Command{Kind: KindRemove, Login: args[0]})
			return nil
		}), "spec"),
		leaf("lives [login] <lives>", cobra.RangeArgs(1, 2), func(args []string) error {
			cmd := Command{Kind: KindLives}
			if len(args) == 2 {
				cmd.Login = args[0]
			}
			lives, err := parseCount(args[len(args)-1], 1)
			if err != nil {
				return err
			}
			cmd.Lives = lives
			res.set(cmd)
			return nil
		}),
		leaf("multi <none|constant k|extra x|dynamic n|k>", cobra.RangeArgs(1, 2), func(args []string) error {
			cmd, err := parseMulti(args)
			if err != nil {
				return err
			}
			res.set(cmd)
			return nil
		}),
		leaf("rounds <n>", cobra.ExactArgs(1), func(args []string) error {
			n, err := parseCount(args[0], 1)
			if err != nil {
				return err
			}
			res.set(Command{Kind: KindRounds, Count: n})
			return nil
		}),
		leaf("openwarmup <on|off>", cobra.ExactArgs(1), func(args []string) error {
			on, err := parseSwitch(args[0])
			if err != nil {
				return err
			}
			res.set(Command{Kind: KindOpenWarmup, Enabled: on})
			return nil
		}),
		leaf("falsestart <max>", cobra.ExactArgs(1), func(args []string) error {
			n, err := parseCount(args[0], 0)
			if err != nil {
				return err
			}
			res.set(Command{Kind: KindFalseStart, Count: n})
			return nil
		}),
		leaf("tiebreaker <on|off>", cobra.ExactArgs(1), func(args []string) error {
			on, err := parseSwitch(args[0])
			if err != nil {
				return err
			}
			res.set(Command{Kind: KindTiebreaker, Enabled: on})
			return nil
		}),
		leaf("authorskip <players>", cobra.ExactArgs(1), func(args []string) error {
			n, err := parseCount(args[0], 0)
			if err != nil {
				return err
			}
			res.set(Command{Kind: KindAuthorSkip, Count: n})
			return nil
		}),
		leaf("settings", cobra.NoArgs, func([]string) error {
			res.set(Command{Kind: KindSettings})
			return nil
		}),
		leaf("status", cobra.NoArgs, func([]string) error {
			res.set(Command{Kind: KindStatus})
			return nil
		}),
	)

	return root
}

func newOptCmd(res *result) *cobra.Command {
	root := newRoot("opt <in|out>")
	root.Args = cobra.ExactArgs(1)
	root.RunE = func(_ *cobra.Command, args []string) error {
		switch args[0] {
		case "in":
			res.set(Command{Kind: KindOptIn})
		case "out":
			res.set(Command{Kind: KindOptOut})
		default:
			return fmt.Errorf("expected in or out, got %q", args[0])
		}
		return nil
	}
	return root
}

func withAliases(cmd *cobra.Command, aliases ...string) *cobra.Command {
	cmd.Aliases = aliases
	return cmd
}

func optionalKeyword(args []string, keyword string) (bool, error) {
	if len(args) == 0 {
		return false, nil
	}
	if strings.EqualFold(args[0], keyword) {
		return true, nil
	}
	return false, fmt.Errorf("unexpected argument %q", args[0])
}

func parseCount(arg string, floor int) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", arg)
	}
	if n < floor {
		return 0, fmt.Errorf("%d is too small, minimum is %d", n, floor)
	}
	return n, nil
}

func parseSwitch(arg string) (bool, error) {
	switch strings.ToLower(arg) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", arg)
	}
}

func parseMulti(args []string) (Command, error) {
	// A bare number is shorthand for constant
	if n, err := strconv.Atoi(args[0]); err == nil {
		if len(args) != 1 {
			return Command{}, errors.New("too many arguments")
		}
		if err := elimination.Validate(elimination.ModeConstant, n); err != nil {
			return Command{}, err
		}
		return Command{Kind: KindMulti, Mode: elimination.ModeConstant, Value: n}, nil
	}

	mode, ok := elimination.ParseMode(args[0])
	if !ok {
		return Command{}, fmt.Errorf("unknown elimination mode %q", args[0])
	}

	if !mode.HasValue() {
		if len(args) != 1 {
			return Command{}, errors.New("too many arguments")
		}
		return Command{Kind: KindMulti, Mode: mode}, nil
	}

	if len(args) != 2 {
		return Command{}, fmt.Errorf("%s needs a value", mode)
	}
	value, err := strconv.Atoi(args[1])
	if err != nil {
		return Command{}, fmt.Errorf("%q is not a number", args[1])
	}
	if err := elimination.Validate(mode, value); err != nil {
		return Command{}, err
	}
	return Command{Kind: KindMulti, Mode: mode, Value: value}, nil
}
