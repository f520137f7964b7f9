package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var (
		login      string
		relay      bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Stream knockout events",
		Long: heredoc.Doc(`
			Connect to the bridge's SSE endpoint and stream what the knockout shows
			players in real time.

			Events:
			  status      the status line for the round
			  scoreboard  the ranked round results
			  dialog      a dialog, such as help or settings
			  prompt      a yes/no question, such as confirming a stop
			  chat        a chat message

			Without --login only events addressed to everyone are shown. --relay
			streams every event, as the host relay receives them, and needs the
			bridge token.

			Press Ctrl+C to disconnect.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/events"
			if relay {
				path = "/api/v1/relay/events"
			} else if login != "" {
				path += "?login=" + url.QueryEscape(login)
			}
			return streamEvents(cmd.Context(), path, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&login, "login", "", "Show events addressed to this player too")
	cmd.Flags().BoolVar(&relay, "relay", false, "Stream every event as the host relay")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// SSEEvent represents a parsed SSE event
type SSEEvent struct {
	Time  time.Time       `json:"time"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func streamEvents(ctx context.Context, path string, jsonOutput bool) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	body, err := client.Stream(ctx, path)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()

	err = readEvents(body, func(event, data string) {
		printEvent(os.Stdout, time.Now(), event, data, jsonOutput)
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("stream error: %w", err)
	}

	if !jsonOutput {
		fmt.Println("Disconnected")
	}
	return nil
}

// readEvents parses an SSE stream, calling fn for each complete event
func readEvents(r io.Reader, fn func(event, data string)) error {
	scanner := bufio.NewScanner(r)
	var currentEvent string
	var dataLines []string

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event: "):
			currentEvent = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		case line == "":
			if currentEvent != "" {
				fn(currentEvent, strings.Join(dataLines, "\n"))
			}
			currentEvent = ""
			dataLines = nil
		}
	}
	return scanner.Err()
}

// envelope mirrors the event data the bridge sends
type envelope struct {
	To struct {
		All    bool     `json:"all"`
		Logins []string `json:"logins"`
	} `json:"to"`
	Data json.RawMessage `json:"data"`
}

func printEvent(w io.Writer, now time.Time, event, data string, jsonOutput bool) {
	if jsonOutput {
		line, _ := json.Marshal(SSEEvent{Time: now, Event: event, Data: json.RawMessage(data)})
		_, _ = fmt.Fprintln(w, string(line))
		return
	}

	display := data
	var env envelope
	if err := json.Unmarshal([]byte(data), &env); err == nil && env.Data != nil {
		display = string(env.Data)
		if !env.To.All {
			event += " @" + strings.Join(env.To.Logins, ",")
		}
		var chat struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(env.Data, &chat); err == nil && chat.Message != "" {
			display = chat.Message
		}
	}

	if len(display) > 100 {
		display = display[:100] + "..."
	}
	display = strings.ReplaceAll(display, "\n", " ")
	_, _ = fmt.Fprintf(w, "[%s] %s: %s\n", now.Format("2006-01-02 15:04:05"), event, display)
}
