package hook

import (
	"bytes"
	"strings"
	"testing"
)

func TestReadPreToolUseInput(t *testing.T) {
	in := strings.NewReader(`{"session_id":"s1","transcript_path":"/tmp/t.jsonl","tool_name":"Bash","tool_input":{"command":"ls -la"}}`)
	got, err := Read[PreToolUseInput](in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SessionID != "s1" || got.ToolName != "Bash" {
		t.Errorf("session=%q tool=%q", got.SessionID, got.ToolName)
	}
	if string(got.ToolInput["command"]) != `"ls -la"` {
		t.Errorf("tool_input command = %s", got.ToolInput["command"])
	}
}

func TestReadRejectsMalformedInput(t *testing.T) {
	_, err := Read[StopInput](strings.NewReader(`{"stop_hook_active":`))
	if err == nil {
		t.Fatal("expected error for truncated input")
	}
	if !strings.Contains(err.Error(), "parse hook input") {
		t.Errorf("error = %q", err)
	}
}

func TestRespondZeroValueIsEmptyObject(t *testing.T) {
	var buf bytes.Buffer
	if err := Respond(&buf, PreToolUseOutput{}); err != nil {
		t.Fatalf("respond: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "{}" {
		t.Errorf("zero-value output = %q, want {}", got)
	}
}

func TestRespondDecisions(t *testing.T) {
	var buf bytes.Buffer
	if err := Respond(&buf, Approve("validated")); err != nil {
		t.Fatalf("respond: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"decision":"approve"`) || !strings.Contains(out, `"reason":"validated"`) {
		t.Errorf("approve output = %q", out)
	}

	buf.Reset()
	if err := Respond(&buf, Block("dangerous command")); err != nil {
		t.Fatalf("respond: %v", err)
	}
	if !strings.Contains(buf.String(), `"decision":"block"`) {
		t.Errorf("block output = %q", buf.String())
	}
}

func TestStopOutputFieldNames(t *testing.T) {
	var buf bytes.Buffer
	cont := false
	out := StopOutput{Continue: &cont, StopReason: "manual stop", SuppressOutput: true}
	if err := Respond(&buf, out); err != nil {
		t.Fatalf("respond: %v", err)
	}
	s := buf.String()
	for _, want := range []string{`"continue":false`, `"stopReason":"manual stop"`, `"suppressOutput":true`} {
		if !strings.Contains(s, want) {
			t.Errorf("output %q missing %q", s, want)
		}
	}
}
