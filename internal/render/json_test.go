package render

import (
	"strings"
	"testing"
)

func TestPrettyJSON(t *testing.T) {
	out := PrettyJSON([]byte(`{"a":1,"b":[true,null]}`))
	want := "{\n  \"a\": 1,\n  \"b\": [\n    true,\n    null\n  ]\n}"
	if out != want {
		t.Errorf("PrettyJSON = %q, want %q", out, want)
	}
}

func TestPrettyJSONInvalidPassthrough(t *testing.T) {
	in := `{"a": truncated`
	if out := PrettyJSON([]byte(in)); out != in {
		t.Errorf("invalid input should pass through, got %q", out)
	}
}

func TestHighlightJSONColorsTokens(t *testing.T) {
	out := HighlightJSON([]byte(`{"key":"value","n":42,"ok":true,"nothing":null}`))

	if !strings.Contains(out, colorKey+`"key"`+colorReset) {
		t.Errorf("object key not colored as key: %q", out)
	}
	if !strings.Contains(out, colorString+`"value"`+colorReset) {
		t.Errorf("string value not colored: %q", out)
	}
	if !strings.Contains(out, colorNumber+"42"+colorReset) {
		t.Errorf("number not colored: %q", out)
	}
	if !strings.Contains(out, colorBool+"true"+colorReset) {
		t.Errorf("true not colored: %q", out)
	}
	if !strings.Contains(out, colorBool+"null"+colorReset) {
		t.Errorf("null not colored: %q", out)
	}
}

func TestHighlightJSONEscapedQuotes(t *testing.T) {
	out := HighlightJSON([]byte(`{"msg":"say \"hi\""}`))
	if !strings.Contains(out, colorString+`"say \"hi\""`+colorReset) {
		t.Errorf("escaped quotes broke string scan: %q", out)
	}
}

func TestHighlightJSONInvalidPassthrough(t *testing.T) {
	in := "not json at all"
	if out := HighlightJSON([]byte(in)); out != in {
		t.Errorf("invalid input should pass through, got %q", out)
	}
}

func TestHighlightJSONStringContainingLiterals(t *testing.T) {
	// "true" inside a string must be colored as a string, not a literal
	out := HighlightJSON([]byte(`{"s":"true"}`))
	if !strings.Contains(out, colorString+`"true"`+colorReset) {
		t.Errorf("string containing literal mis-colored: %q", out)
	}
}
