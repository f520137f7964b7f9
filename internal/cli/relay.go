package cli

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	var admin bool

	cmd := &cobra.Command{
		Use:   "chat <login> <message...>",
		Short: "Send a chat line as a player",
		Long: heredoc.Doc(`
			Post a player_chat callback, as the host relay does for every chat line.
			Knockout commands start with /ko, for example:

			  kocli chat admin /ko start now
			  kocli chat racer01 /opt out
		`),
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cb := Callback{
				Type:    "player_chat",
				Login:   args[0],
				Text:    strings.Join(args[1:], " "),
				IsAdmin: admin,
			}
			if err := client.Callback(cmd.Context(), cb); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage("Sent")
			return nil
		},
	}

	cmd.Flags().BoolVar(&admin, "admin", false, "Mark the player as a host admin")

	return cmd
}

func newCallbackCmd() *cobra.Command {
	var cb Callback

	cmd := &cobra.Command{
		Use:   "callback <type>",
		Short: "Post a raw server callback",
		Long: heredoc.Doc(`
			Post a callback as the host relay would. Types:

			  status_changed       --status (1 waiting .. 6 exit)
			  begin_match, end_match, begin_round, end_round
			  player_connect       --login --nickname [--spectator]
			  player_disconnect    --login
			  player_finish        --login --time (ms, 0 retires)
			  player_info_changed  --login --nickname [--spectator]
			  player_chat          --login --text [--admin]
			  prompt_answer        --login --prompt-id [--accepted]
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cb.Type = args[0]
			if err := client.Callback(cmd.Context(), cb); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage(fmt.Sprintf("Posted %s", cb.Type))
			return nil
		},
	}

	cmd.Flags().IntVar(&cb.Status, "status", 0, "Server status code")
	cmd.Flags().StringVar(&cb.Login, "login", "", "Player login")
	cmd.Flags().StringVar(&cb.Nickname, "nickname", "", "Player nickname")
	cmd.Flags().BoolVar(&cb.IsSpectator, "spectator", false, "Player is spectating")
	cmd.Flags().IntVar(&cb.Time, "time", 0, "Finish time or score")
	cmd.Flags().StringVar(&cb.Text, "text", "", "Chat text")
	cmd.Flags().BoolVar(&cb.IsAdmin, "admin", false, "Player is a host admin")
	cmd.Flags().StringVar(&cb.PromptID, "prompt-id", "", "Prompt being answered")
	cmd.Flags().BoolVar(&cb.Accepted, "accepted", false, "Prompt was accepted")

	return cmd
}

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the stored bridge token",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <token>",
		Short: "Save the bridge token to the token file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.SaveToken(args[0]); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			NewOutput(cfg.Output).PrintMessage("Token saved to " + cfg.TokenFile)
			return nil
		},
	})

	return cmd
}
