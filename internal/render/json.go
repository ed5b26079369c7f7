package render

import (
	"bytes"
	"encoding/json"
	"strings"
)

const (
	colorKey    = "\033[36m"   // cyan for object keys
	colorString = "\033[32m"   // green
	colorNumber = "\033[33m"   // yellow
	colorBool   = "\033[1;35m" // bold magenta for true/false/null
)

// PrettyJSON re-indents a JSON value. Invalid input is returned as-is.
func PrettyJSON(data []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return string(data)
	}
	return buf.String()
}

// HighlightJSON adds ANSI colors to pretty-printed JSON. Keys, strings,
// numbers and literals get distinct colors. Input that is not valid JSON
// is returned unchanged.
func HighlightJSON(data []byte) string {
	pretty := PrettyJSON(data)
	if !json.Valid(data) {
		return pretty
	}

	var b strings.Builder
	i := 0
	for i < len(pretty) {
		c := pretty[i]
		switch {
		case c == '"':
			end := scanString(pretty, i)
			lit := pretty[i:end]
			if isKey(pretty, end) {
				b.WriteString(colorKey + lit + colorReset)
			} else {
				b.WriteString(colorString + lit + colorReset)
			}
			i = end
		case c == '-' || (c >= '0' && c <= '9'):
			end := scanNumber(pretty, i)
			b.WriteString(colorNumber + pretty[i:end] + colorReset)
			i = end
		case hasLiteral(pretty, i, "true"):
			b.WriteString(colorBool + "true" + colorReset)
			i += 4
		case hasLiteral(pretty, i, "false"):
			b.WriteString(colorBool + "false" + colorReset)
			i += 5
		case hasLiteral(pretty, i, "null"):
			b.WriteString(colorBool + "null" + colorReset)
			i += 4
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// scanString returns the index just past the closing quote of the string
// literal starting at i.
func scanString(s string, i int) int {
	j := i + 1
	for j < len(s) {
		switch s[j] {
		case '\\':
			j += 2
		case '"':
			return j + 1
		default:
			j++
		}
	}
	return j
}

func scanNumber(s string, i int) int {
	j := i
	for j < len(s) {
		c := s[j]
		if (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E' {
			j++
			continue
		}
		break
	}
	return j
}

// isKey reports whether the string ending at end is followed by a colon,
// which makes it an object key.
func isKey(s string, end int) bool {
	for j := end; j < len(s); j++ {
		switch s[j] {
		case ' ', '\t':
			continue
		case ':':
			return true
		default:
			return false
		}
	}
	return false
}

func hasLiteral(s string, i int, lit string) bool {
	return strings.HasPrefix(s[i:], lit)
}
