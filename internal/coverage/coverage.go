// Package coverage detects silent data loss in the transcript model: wire
// fields present in a line's raw JSON that vanish when the typed entry is
// serialized back, because the type definitions have not caught up with the
// schema.
package coverage

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cctk-dev/cctk/internal/transcript"
)

// Missing round-trips the typed entry back to JSON and returns the paths of
// raw fields with no counterpart in the round-tripped tree. The check is
// one-directional: extra typed fields and value mismatches are never
// reported, only existence gaps. A non-nil error means re-serialization
// failed, which is a distinct outcome from finding gaps.
func Missing(raw []byte, entry transcript.Entry) ([]string, error) {
	roundTripped, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("round-trip entry: %w", err)
	}

	var rawVal, typedVal any
	if err := json.Unmarshal(raw, &rawVal); err != nil {
		return nil, fmt.Errorf("decode raw line: %w", err)
	}
	if err := json.Unmarshal(roundTripped, &typedVal); err != nil {
		return nil, fmt.Errorf("decode round-tripped entry: %w", err)
	}

	return findMissing(rawVal, typedVal, ""), nil
}

// findMissing walks the raw tree and the round-tripped tree in lock-step.
// Scalars and structural mismatches terminate the walk without findings:
// this validator checks coverage, not equality.
func findMissing(raw, typed any, prefix string) []string {
	switch raw := raw.(type) {
	case map[string]any:
		typedObj, ok := typed.(map[string]any)
		if !ok {
			return nil
		}
		return findMissingKeys(raw, typedObj, prefix)
	case []any:
		typedArr, ok := typed.([]any)
		if !ok {
			return nil
		}
		var missing []string
		for i, el := range raw {
			if i >= len(typedArr) {
				missing = append(missing, fmt.Sprintf("%s[%d]", prefix, i))
				continue
			}
			missing = append(missing, findMissing(el, typedArr[i], fmt.Sprintf("%s[%d].", prefix, i))...)
		}
		return missing
	default:
		return nil
	}
}

func findMissingKeys(raw, typed map[string]any, prefix string) []string {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var missing []string
	for _, k := range keys {
		rawVal := raw[k]
		typedVal, present := typed[k]
		if !present {
			// Optional modeled fields serialize away when empty, so a raw
			// null is indistinguishable from unmodeled schema and is not a
			// gap. Anything non-null is.
			if rawVal != nil {
				missing = append(missing, prefix+k)
			}
			continue
		}
		if isContainer(rawVal) || isContainer(typedVal) {
			missing = append(missing, findMissing(rawVal, typedVal, prefix+k+".")...)
		}
	}
	return missing
}

func isContainer(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}
