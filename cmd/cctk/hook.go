package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cctk-dev/cctk/internal/hook"
	"github.com/cctk-dev/cctk/internal/render"
)

func hookCmd() *cobra.Command {
	var event string
	var tool string
	var toolInput string
	var toolResponse string
	var transcriptPath string
	var sessionID string
	var message string
	var title string
	var stopActive bool
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "hook <executable> [args...]",
		Short: "Run a hook executable against a synthetic event",
		Long: `Builds a hook event payload, pipes it to the executable on stdin, and
reports the exit code, decision, and captured output. Exit code 0 means
success, 2 means block; anything else is a hook failure.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := buildHookInput(hook.Event(event), hookInputParams{
				sessionID:      sessionID,
				transcriptPath: transcriptPath,
				tool:           tool,
				toolInput:      toolInput,
				toolResponse:   toolResponse,
				message:        message,
				title:          title,
				stopActive:     stopActive,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Event: %s\n", event)
			fmt.Println("Input:")
			fmt.Println(indent(render.HighlightJSON(payload), "  "))

			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			proc := exec.CommandContext(ctx, args[0], args[1:]...)
			proc.Stdin = bytes.NewReader(payload)
			var stdout, stderr bytes.Buffer
			proc.Stdout = &stdout
			proc.Stderr = &stderr

			runErr := proc.Run()
			exitCode := 0
			if runErr != nil {
				ee, ok := runErr.(*exec.ExitError)
				if !ok {
					return fmt.Errorf("run hook: %w", runErr)
				}
				exitCode = ee.ExitCode()
			}

			fmt.Printf("\nExit code: %d", exitCode)
			switch exitCode {
			case hook.ExitSuccess:
				fmt.Println(" (success)")
			case hook.ExitBlock:
				fmt.Println(" (block)")
			default:
				fmt.Println(" (failure)")
			}

			if out := strings.TrimSpace(stdout.String()); out != "" {
				fmt.Println("Stdout:")
				if json.Valid([]byte(out)) {
					fmt.Println(indent(render.HighlightJSON([]byte(out)), "  "))
					reportDecision([]byte(out))
				} else {
					fmt.Println(indent(out, "  "))
				}
			}
			if errOut := strings.TrimSpace(stderr.String()); errOut != "" {
				fmt.Println("Stderr:")
				fmt.Println(indent(errOut, "  "))
			}

			if exitCode != hook.ExitSuccess && exitCode != hook.ExitBlock {
				return fmt.Errorf("hook failed with exit code %d", exitCode)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&event, "event", string(hook.EventPreToolUse), "Hook event (PreToolUse/PostToolUse/Notification/Stop/SubagentStop)")
	cmd.Flags().StringVar(&tool, "tool", "Bash", "Tool name for tool events")
	cmd.Flags().StringVar(&toolInput, "input", "{}", "Tool input JSON for tool events")
	cmd.Flags().StringVar(&toolResponse, "response", "{}", "Tool response JSON for PostToolUse")
	cmd.Flags().StringVar(&transcriptPath, "transcript", "", "Transcript path to pass to the hook")
	cmd.Flags().StringVar(&sessionID, "session", "test-session", "Session ID to pass to the hook")
	cmd.Flags().StringVar(&message, "message", "", "Notification message")
	cmd.Flags().StringVar(&title, "title", "", "Notification title")
	cmd.Flags().BoolVar(&stopActive, "stop-active", false, "Set stop_hook_active for Stop events")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Kill the hook after this duration (0 = no limit)")

	return cmd
}

type hookInputParams struct {
	sessionID      string
	transcriptPath string
	tool           string
	toolInput      string
	toolResponse   string
	message        string
	title          string
	stopActive     bool
}

func buildHookInput(event hook.Event, p hookInputParams) ([]byte, error) {
	parseObj := func(name, s string) (map[string]json.RawMessage, error) {
		var m map[string]json.RawMessage
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		return m, nil
	}

	switch event {
	case hook.EventPreToolUse:
		ti, err := parseObj("--input", p.toolInput)
		if err != nil {
			return nil, err
		}
		return json.Marshal(hook.PreToolUseInput{
			SessionID:      p.sessionID,
			TranscriptPath: p.transcriptPath,
			ToolName:       p.tool,
			ToolInput:      ti,
		})
	case hook.EventPostToolUse:
		ti, err := parseObj("--input", p.toolInput)
		if err != nil {
			return nil, err
		}
		tr, err := parseObj("--response", p.toolResponse)
		if err != nil {
			return nil, err
		}
		return json.Marshal(hook.PostToolUseInput{
			SessionID:      p.sessionID,
			TranscriptPath: p.transcriptPath,
			ToolName:       p.tool,
			ToolInput:      ti,
			ToolResponse:   tr,
		})
	case hook.EventNotification:
		return json.Marshal(hook.NotificationInput{
			SessionID:      p.sessionID,
			TranscriptPath: p.transcriptPath,
			Message:        p.message,
			Title:          p.title,
		})
	case hook.EventStop:
		return json.Marshal(hook.StopInput{
			SessionID:      p.sessionID,
			TranscriptPath: p.transcriptPath,
			StopHookActive: p.stopActive,
		})
	case hook.EventSubagentStop:
		return json.Marshal(hook.SubagentStopInput{
			SessionID:      p.sessionID,
			TranscriptPath: p.transcriptPath,
			StopHookActive: p.stopActive,
		})
	default:
		return nil, fmt.Errorf("unknown hook event %q", event)
	}
}

// reportDecision decodes the decision field from hook stdout, if present.
func reportDecision(out []byte) {
	var probe struct {
		Decision string `json:"decision"`
		Reason   string `json:"reason"`
	}
	if err := json.Unmarshal(out, &probe); err != nil || probe.Decision == "" {
		return
	}
	if probe.Reason != "" {
		fmt.Printf("Decision: %s (%s)\n", probe.Decision, probe.Reason)
	} else {
		fmt.Printf("Decision: %s\n", probe.Decision)
	}
}
