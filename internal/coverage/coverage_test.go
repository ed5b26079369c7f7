package coverage

import (
	"reflect"
	"testing"

	"github.com/cctk-dev/cctk/internal/transcript"
)

func parseLine(t *testing.T, line string) transcript.Entry {
	t.Helper()
	entry, err := transcript.ParseLine(line)
	if err != nil {
		t.Fatalf("parse %q: %v", line, err)
	}
	return entry
}

func TestMissingNoneForFullyModeledEntry(t *testing.T) {
	lines := []string{
		`{"type":"summary","summary":"x","leafUuid":"y"}`,
		`{"type":"user","message":{"role":"user","content":"hello"},"uuid":"u1","timestamp":"t","cwd":"/x","sessionId":"s","version":"1","userType":"external","isSidechain":false,"parentUuid":null}`,
		`{"type":"assistant","uuid":"a1","timestamp":"t","cwd":"/x","sessionId":"s","version":"1","userType":"external","isSidechain":false,"parentUuid":"u1","requestId":"r1","message":{"role":"assistant","id":"m1","type":"message","model":"c","content":[{"type":"text","text":"hi"}],"stop_reason":null,"stop_sequence":null,"usage":{"input_tokens":1,"output_tokens":2}}}`,
		`{"type":"system","uuid":"s1","timestamp":"t","content":"c","cwd":"/x","sessionId":"s","version":"1","userType":"external","isSidechain":false,"parentUuid":"u1","isMeta":false,"level":"info"}`,
	}
	for _, line := range lines {
		entry := parseLine(t, line)
		missing, err := Missing([]byte(line), entry)
		if err != nil {
			t.Fatalf("Missing(%q): %v", line, err)
		}
		if len(missing) != 0 {
			t.Errorf("Missing(%q) = %v, want none", line, missing)
		}
	}
}

func TestMissingDetectsRootLevelGap(t *testing.T) {
	raw := `{"type":"summary","summary":"x","leafUuid":"y","extra":"z"}`
	entry := parseLine(t, raw)
	missing, err := Missing([]byte(raw), entry)
	if err != nil {
		t.Fatalf("Missing: %v", err)
	}
	if !reflect.DeepEqual(missing, []string{"extra"}) {
		t.Errorf("missing = %v, want [extra]", missing)
	}
}

func TestMissingReportsNestedPaths(t *testing.T) {
	raw := `{"type":"user","message":{"role":"user","content":"hi","unknownNested":"v"},"uuid":"u1","timestamp":"t","cwd":"/x","sessionId":"s","version":"1","userType":"external","isSidechain":false,"parentUuid":null}`
	entry := parseLine(t, raw)
	missing, err := Missing([]byte(raw), entry)
	if err != nil {
		t.Fatalf("Missing: %v", err)
	}
	if !reflect.DeepEqual(missing, []string{"message.unknownNested"}) {
		t.Errorf("missing = %v, want [message.unknownNested]", missing)
	}
}

func TestMissingReportsArrayElementGaps(t *testing.T) {
	// Block 0 carries a field the text block type does not model; block 1 is
	// fully covered and must not produce a spurious finding.
	raw := `{"type":"user","message":{"role":"user","content":[{"type":"text","text":"a","extra":"f"},{"type":"text","text":"b"}]},"uuid":"u1","timestamp":"t","cwd":"/x","sessionId":"s","version":"1","userType":"external","isSidechain":false,"parentUuid":null}`
	entry := parseLine(t, raw)
	missing, err := Missing([]byte(raw), entry)
	if err != nil {
		t.Fatalf("Missing: %v", err)
	}
	if !reflect.DeepEqual(missing, []string{"message.content.[0].extra"}) {
		t.Errorf("missing = %v, want [message.content.[0].extra]", missing)
	}
}

func TestMissingReportsRawElementsBeyondTypedLength(t *testing.T) {
	// The typed entry models one block; the raw line carries two. The
	// surplus element is reported in full, not per-field.
	raw := `{"type":"user","message":{"role":"user","content":[{"type":"text","text":"a"},{"type":"text","text":"b"}]},"uuid":"u1","timestamp":"t","cwd":"/x","sessionId":"s","version":"1","userType":"external","isSidechain":false,"parentUuid":null}`
	entry := &transcript.UserEntry{
		UUID:      "u1",
		Timestamp: "t",
		Message:   &transcript.UserMessage{MessageContent: transcript.BlockContent(&transcript.TextBlock{Text: "a"})},
		Cwd:       "/x",
		SessionID: "s",
		Version:   "1",
		UserType:  "external",
	}
	missing, err := Missing([]byte(raw), entry)
	if err != nil {
		t.Fatalf("Missing: %v", err)
	}
	if !reflect.DeepEqual(missing, []string{"message.content.[1]"}) {
		t.Errorf("missing = %v, want [message.content.[1]]", missing)
	}
}

func TestMissingIgnoresRawNulls(t *testing.T) {
	// requestId is modeled but optional; it serializes away when empty, and
	// a raw null must not be flagged. A raw non-null unmodeled field still is.
	raw := `{"type":"assistant","uuid":"a1","timestamp":"t","cwd":"/x","sessionId":"s","version":"1","userType":"external","isSidechain":false,"parentUuid":"u1","requestId":null,"gizmo":null,"widget":1,"message":{"role":"assistant","id":"m1","type":"message","model":"c","stop_reason":null,"stop_sequence":null,"usage":{}}}`
	entry := parseLine(t, raw)
	missing, err := Missing([]byte(raw), entry)
	if err != nil {
		t.Fatalf("Missing: %v", err)
	}
	if !reflect.DeepEqual(missing, []string{"widget"}) {
		t.Errorf("missing = %v, want [widget]", missing)
	}
}

func TestMissingStructuralMismatchIsNotAGap(t *testing.T) {
	// toolUseResult is opaque raw JSON, preserved as-is, so whatever shape
	// it has is covered. Force a mismatch via a hand-built entry whose
	// message content shape differs from the raw line.
	raw := `{"type":"summary","summary":{"nested":"object"},"leafUuid":"y"}`
	entry := &transcript.SummaryEntry{Summary: "plain", LeafUUID: "y"}
	missing, err := Missing([]byte(raw), entry)
	if err != nil {
		t.Fatalf("Missing: %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("missing = %v, want none (coverage, not equality)", missing)
	}
}

func TestMissingOpaquePayloadsAreCovered(t *testing.T) {
	raw := `{"parentUuid":"p1","isSidechain":false,"userType":"external","cwd":"/x","sessionId":"s","version":"1.0.43","type":"user","message":{"role":"user","content":[{"tool_use_id":"t1","type":"tool_result","content":[{"type":"text","text":"ok"}]}]},"uuid":"u9","timestamp":"t","toolUseResult":{"totalDurationMs":10185,"usage":{"input_tokens":7},"wasInterrupted":false}}`
	entry := parseLine(t, raw)
	missing, err := Missing([]byte(raw), entry)
	if err != nil {
		t.Fatalf("Missing: %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("missing = %v, want none", missing)
	}
}
