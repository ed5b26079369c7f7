// Package hook models the stdin/stdout contract between Claude Code and
// hook executables: a typed input event on stdin, an optional decision
// object on stdout, and a small exit-code protocol. The package only maps
// bytes to values; deciding exit codes and terminating is the caller's job.
package hook

import (
	"encoding/json"
	"fmt"
	"io"
)

// Exit codes understood by Claude Code.
const (
	// ExitSuccess: stdout is shown to the user in transcript mode.
	ExitSuccess = 0
	// ExitBlock: stderr is fed back to Claude. Blocks the tool call for
	// PreToolUse, blocks stoppage for Stop.
	ExitBlock = 2
)

// Event names the hook lifecycle points.
type Event string

const (
	EventPreToolUse   Event = "PreToolUse"
	EventPostToolUse  Event = "PostToolUse"
	EventNotification Event = "Notification"
	EventStop         Event = "Stop"
	EventSubagentStop Event = "SubagentStop"
)

// PreToolUseInput arrives after Claude prepares tool parameters and before
// the tool runs.
type PreToolUseInput struct {
	SessionID      string                     `json:"session_id"`
	TranscriptPath string                     `json:"transcript_path"`
	ToolName       string                     `json:"tool_name"`
	ToolInput      map[string]json.RawMessage `json:"tool_input"`
}

// PostToolUseInput arrives after a tool has already completed.
type PostToolUseInput struct {
	SessionID      string                     `json:"session_id"`
	TranscriptPath string                     `json:"transcript_path"`
	ToolName       string                     `json:"tool_name"`
	ToolInput      map[string]json.RawMessage `json:"tool_input"`
	ToolResponse   map[string]json.RawMessage `json:"tool_response"`
}

// NotificationInput arrives when Claude Code sends a user notification.
type NotificationInput struct {
	SessionID      string `json:"session_id"`
	TranscriptPath string `json:"transcript_path"`
	Message        string `json:"message"`
	Title          string `json:"title"`
}

// StopInput arrives when Claude has finished responding. StopHookActive is
// true when a previous stop hook already forced continuation; hooks must
// check it to avoid loops.
type StopInput struct {
	SessionID      string `json:"session_id"`
	TranscriptPath string `json:"transcript_path"`
	StopHookActive bool   `json:"stop_hook_active"`
}

// SubagentStopInput arrives when a subagent task finishes.
type SubagentStopInput struct {
	SessionID      string `json:"session_id"`
	TranscriptPath string `json:"transcript_path"`
	StopHookActive bool   `json:"stop_hook_active"`
}

// Read decodes a hook input of the given type from r.
func Read[T any](r io.Reader) (*T, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read hook input: %w", err)
	}
	var in T
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parse hook input: %w", err)
	}
	return &in, nil
}

// Respond writes a hook output object as a single JSON line on w.
func Respond(w io.Writer, out any) error {
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("serialize hook output: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write hook output: %w", err)
	}
	return nil
}
