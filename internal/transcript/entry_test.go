package transcript

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

const userLine = `{"type":"user","message":{"role":"user","content":"hello"},"uuid":"u1","timestamp":"t","cwd":"/x","sessionId":"s","version":"1","userType":"external","isSidechain":false,"parentUuid":null}`

const assistantLine = `{"type":"assistant","uuid":"a1","timestamp":"t","cwd":"/x","sessionId":"s","version":"1","userType":"external","isSidechain":false,"parentUuid":"u1","requestId":"req_1","message":{"role":"assistant","id":"msg_1","type":"message","model":"claude-sonnet-4","content":[{"type":"text","text":"hi there"}],"stop_reason":null,"stop_sequence":null,"usage":{"input_tokens":7,"cache_read_input_tokens":11543,"output_tokens":63,"service_tier":"standard"}}}`

const systemLine = `{"type":"system","uuid":"sy1","timestamp":"t","content":"tool ran","cwd":"/x","sessionId":"s","version":"1","userType":"external","isSidechain":false,"parentUuid":"u1","isMeta":false,"level":"info","toolUseID":"toolu_1"}`

const summaryLine = `{"type":"summary","summary":"Fixing the build","leafUuid":"leaf-1"}`

func TestUnmarshalEntryUser(t *testing.T) {
	entry, err := UnmarshalEntry([]byte(userLine))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ue, ok := entry.(*UserEntry)
	if !ok {
		t.Fatalf("expected *UserEntry, got %T", entry)
	}
	if ue.UUID != "u1" || ue.SessionID != "s" || ue.Cwd != "/x" {
		t.Errorf("identity fields = %q %q %q", ue.UUID, ue.SessionID, ue.Cwd)
	}
	if ue.ParentUUID != nil {
		t.Errorf("expected nil parentUuid, got %q", *ue.ParentUUID)
	}
	if got := ue.Message.Content().AsText(); got != "hello" {
		t.Errorf("content = %q, want %q", got, "hello")
	}
}

func TestUnmarshalEntryAssistant(t *testing.T) {
	entry, err := UnmarshalEntry([]byte(assistantLine))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ae, ok := entry.(*AssistantEntry)
	if !ok {
		t.Fatalf("expected *AssistantEntry, got %T", entry)
	}
	if ae.ParentUUID != "u1" || ae.RequestID != "req_1" {
		t.Errorf("parentUuid=%q requestId=%q", ae.ParentUUID, ae.RequestID)
	}
	m, ok := ae.Message.(*AssistantMessage)
	if !ok {
		t.Fatalf("expected *AssistantMessage, got %T", ae.Message)
	}
	if m.ID != "msg_1" || m.Model != "claude-sonnet-4" {
		t.Errorf("message id=%q model=%q", m.ID, m.Model)
	}
	if m.StopReason != nil {
		t.Errorf("expected nil stop_reason, got %q", *m.StopReason)
	}
	if m.Usage.InputTokens == nil || *m.Usage.InputTokens != 7 {
		t.Errorf("input_tokens = %v", m.Usage.InputTokens)
	}
	if m.Usage.ServiceTier != "standard" {
		t.Errorf("service_tier = %q", m.Usage.ServiceTier)
	}
}

func TestUnmarshalEntrySystemAndSummary(t *testing.T) {
	entry, err := UnmarshalEntry([]byte(systemLine))
	if err != nil {
		t.Fatalf("system: %v", err)
	}
	se, ok := entry.(*SystemEntry)
	if !ok {
		t.Fatalf("expected *SystemEntry, got %T", entry)
	}
	if se.Level != "info" || se.ToolUseID != "toolu_1" {
		t.Errorf("level=%q toolUseID=%q", se.Level, se.ToolUseID)
	}

	entry, err = UnmarshalEntry([]byte(summaryLine))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	sum, ok := entry.(*SummaryEntry)
	if !ok {
		t.Fatalf("expected *SummaryEntry, got %T", entry)
	}
	if sum.Summary != "Fixing the build" || sum.LeafUUID != "leaf-1" {
		t.Errorf("summary=%q leafUuid=%q", sum.Summary, sum.LeafUUID)
	}
}

func TestUnmarshalEntryOptionalFieldsAbsent(t *testing.T) {
	// A system entry from a revision that predates level and toolUseID.
	line := `{"type":"system","uuid":"sy1","timestamp":"t","content":"x","cwd":"/x","sessionId":"s","version":"1","userType":"external","isSidechain":false,"parentUuid":"u1","isMeta":true}`
	entry, err := UnmarshalEntry([]byte(line))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	se := entry.(*SystemEntry)
	if se.Level != "" || se.ToolUseID != "" {
		t.Errorf("expected absent optional fields, got level=%q toolUseID=%q", se.Level, se.ToolUseID)
	}

	// A synthetic assistant error entry: no requestId, flagged instead.
	line = `{"type":"assistant","uuid":"a1","timestamp":"t","cwd":"/x","sessionId":"s","version":"1","userType":"external","isSidechain":false,"parentUuid":"u1","isApiErrorMessage":true,"message":{"role":"assistant","id":"msg_e","type":"message","model":"synthetic","stop_reason":null,"stop_sequence":null,"usage":{}}}`
	entry, err = UnmarshalEntry([]byte(line))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ae := entry.(*AssistantEntry)
	if ae.RequestID != "" {
		t.Errorf("requestId = %q, want absent", ae.RequestID)
	}
	if ae.IsAPIErrorMessage == nil || !*ae.IsAPIErrorMessage {
		t.Errorf("isApiErrorMessage = %v, want true", ae.IsAPIErrorMessage)
	}
}

func TestUnmarshalEntryInfersKindFromRole(t *testing.T) {
	// Later revisions drop the root type tag.
	line := `{"message":{"role":"user","content":"untagged"},"uuid":"u2","timestamp":"t","cwd":"/x","sessionId":"s","version":"2","userType":"external","isSidechain":false,"parentUuid":null}`
	entry, err := UnmarshalEntry([]byte(line))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Kind() != KindUser {
		t.Errorf("kind = %q, want user", entry.Kind())
	}

	line = `{"message":{"role":"assistant","id":"m1","type":"message","model":"x","stop_reason":null,"stop_sequence":null,"usage":{}},"uuid":"a2","timestamp":"t","cwd":"/x","sessionId":"s","version":"2","userType":"external","isSidechain":false,"parentUuid":"u2"}`
	entry, err = UnmarshalEntry([]byte(line))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Kind() != KindAssistant {
		t.Errorf("kind = %q, want assistant", entry.Kind())
	}
}

func TestUnmarshalEntryFailures(t *testing.T) {
	cases := []struct {
		name string
		line string
		want string
	}{
		{"unknown type", `{"type":"result","status":"ok"}`, "unrecognized entry type"},
		{"no type no role", `{"uuid":"x"}`, "no type tag"},
		{"missing required", `{"type":"summary","summary":"x"}`, `"leafUuid"`},
		{"null required", `{"type":"summary","summary":null,"leafUuid":"y"}`, `"summary" is null`},
		{"missing message", `{"type":"user","uuid":"u","timestamp":"t","cwd":"/x","sessionId":"s","version":"1","userType":"e","isSidechain":false}`, `"message"`},
		{"unknown block", `{"type":"user","message":{"role":"user","content":[{"type":"video","url":"v"}]},"uuid":"u","timestamp":"t","cwd":"/x","sessionId":"s","version":"1","userType":"e","isSidechain":false,"parentUuid":null}`, "unknown content block type"},
		{"wrong type for flag", `{"type":"summary","summary":"x","leafUuid":"y","extra":1}` + "x", "invalid character"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := UnmarshalEntry([]byte(tc.line))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error = %q, want substring %q", err, tc.want)
			}
		})
	}
}

func TestEntryRoundTrip(t *testing.T) {
	for _, line := range []string{userLine, assistantLine, systemLine, summaryLine} {
		entry, err := UnmarshalEntry([]byte(line))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		out, err := json.Marshal(entry)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var got, want map[string]any
		if err := json.Unmarshal(out, &got); err != nil {
			t.Fatalf("reparse marshaled: %v", err)
		}
		if err := json.Unmarshal([]byte(line), &want); err != nil {
			t.Fatalf("reparse original: %v", err)
		}
		if !equalJSON(got, want) {
			t.Errorf("round trip mismatch:\n got %s\nwant %s", out, line)
		}
	}
}

func TestToolResultArrayContent(t *testing.T) {
	// Real-world tool_result line whose content is an item array and whose
	// toolUseResult payload is carried opaquely.
	line := `{"parentUuid":"p1","isSidechain":false,"userType":"external","cwd":"/x","sessionId":"s","version":"1.0.43","type":"user","message":{"role":"user","content":[{"tool_use_id":"toolu_01","type":"tool_result","content":[{"type":"text","text":"created the file"}]}]},"uuid":"u9","timestamp":"t","toolUseResult":{"totalDurationMs":10185,"wasInterrupted":false}}`
	entry, err := UnmarshalEntry([]byte(line))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ue := entry.(*UserEntry)
	content := ue.Message.Content()
	if got := content.CountToolResults(); got != 1 {
		t.Errorf("tool results = %d, want 1", got)
	}
	if got := content.AsText(); got != "created the file" {
		t.Errorf("flattened = %q", got)
	}
	if len(ue.ToolUseResult) == 0 {
		t.Error("toolUseResult payload not retained")
	}

	out, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got, want map[string]any
	json.Unmarshal(out, &got)
	json.Unmarshal([]byte(line), &want)
	if !equalJSON(got, want) {
		t.Errorf("round trip mismatch:\n got %s\nwant %s", out, line)
	}
}

func TestContentQueries(t *testing.T) {
	c := BlockContent(
		&TextBlock{Text: "run it"},
		&ToolUseBlock{ID: "t1", Name: "Bash", Input: json.RawMessage(`{"command":"ls"}`)},
		&ToolUseBlock{ID: "t2", Name: "Read", Input: json.RawMessage(`{"path":"/etc/hosts"}`)},
		&ToolResultBlock{ToolUseID: "t1", ResultContent: ToolResultText("ok")},
	)
	if !c.HasToolUses() {
		t.Error("HasToolUses = false")
	}
	if got := c.CountToolUses(); got != 2 {
		t.Errorf("CountToolUses = %d, want 2", got)
	}
	if got := c.CountToolResults(); got != 1 {
		t.Errorf("CountToolResults = %d, want 1", got)
	}

	bare := TextContent("just text")
	if bare.HasToolUses() || bare.CountToolUses() != 0 || bare.CountToolResults() != 0 {
		t.Error("bare string content should report no tool activity")
	}
}

// equalJSON compares decoded JSON trees.
func equalJSON(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
