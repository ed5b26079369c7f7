package transcript

import (
	"strings"
	"testing"
)

func TestParseIsolatesMalformedLines(t *testing.T) {
	content := strings.Join([]string{
		userLine,
		`{not json at all`,
		assistantLine,
		`{"type":"ghost"}`,
		summaryLine,
	}, "\n") + "\n"

	res := Parse(content)
	if len(res.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(res.Entries))
	}
	if len(res.Errors) != 2 {
		t.Fatalf("errors = %d, want 2", len(res.Errors))
	}
	if res.Errors[0].Line != 2 || res.Errors[1].Line != 4 {
		t.Errorf("error lines = %d, %d, want 2, 4", res.Errors[0].Line, res.Errors[1].Line)
	}
	if res.Errors[0].Content != `{not json at all` {
		t.Errorf("verbatim line not preserved: %q", res.Errors[0].Content)
	}
	// order preserved: user, assistant, summary
	kinds := []Kind{KindUser, KindAssistant, KindSummary}
	for i, e := range res.Entries {
		if e.Kind() != kinds[i] {
			t.Errorf("entry %d kind = %q, want %q", i, e.Kind(), kinds[i])
		}
	}
}

func TestParseSkipsBlankLinesWithoutShiftingNumbers(t *testing.T) {
	content := "\n" + userLine + "\n\n" + `bad` + "\n\n" + summaryLine + "\n"

	res := Parse(content)
	if len(res.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(res.Entries))
	}
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(res.Errors))
	}
	// the bad line is physically line 4
	if res.Errors[0].Line != 4 {
		t.Errorf("error line = %d, want 4", res.Errors[0].Line)
	}
}

func TestParseEmptyInput(t *testing.T) {
	res := Parse("")
	if len(res.Entries) != 0 || len(res.Errors) != 0 {
		t.Errorf("empty input: entries=%d errors=%d", len(res.Entries), len(res.Errors))
	}
}

func TestParseErrorOffset(t *testing.T) {
	res := Parse(`{"type":"user","message":`)
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(res.Errors))
	}
	off, ok := res.Errors[0].Offset()
	if !ok {
		t.Fatal("expected an offset from the syntax error")
	}
	if off <= 0 {
		t.Errorf("offset = %d, want > 0", off)
	}
	if !strings.Contains(res.Errors[0].Error(), "line 1") {
		t.Errorf("error string = %q", res.Errors[0].Error())
	}
}

func TestParseWithRawPairsSourceLines(t *testing.T) {
	content := userLine + "\n" + "oops\n" + summaryLine + "\n"
	res := ParseWithRaw(content)
	if len(res.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(res.Entries))
	}
	if res.Entries[0].Raw != userLine || res.Entries[0].Line != 1 {
		t.Errorf("entry 0 raw/line mismatch: line=%d", res.Entries[0].Line)
	}
	if res.Entries[1].Raw != summaryLine || res.Entries[1].Line != 3 {
		t.Errorf("entry 1 raw/line mismatch: line=%d", res.Entries[1].Line)
	}
	if len(res.Errors) != 1 || res.Errors[0].Line != 2 {
		t.Fatalf("errors = %v", res.Errors)
	}
}

func TestParseCRLF(t *testing.T) {
	res := Parse(userLine + "\r\n" + summaryLine + "\r\n")
	if len(res.Errors) != 0 {
		t.Fatalf("errors = %v", res.Errors)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(res.Entries))
	}
}

func TestFormatLineForDebug(t *testing.T) {
	pretty := FormatLineForDebug(`{"a":1}`)
	if !strings.Contains(pretty, "\n") {
		t.Errorf("expected indented output, got %q", pretty)
	}
	if got := FormatLineForDebug("not json"); got != "not json" {
		t.Errorf("invalid JSON should pass through, got %q", got)
	}
}
