// Package transcript models Claude Code transcript files: append-only JSONL
// logs whose lines are one of four entry kinds (user, assistant, system,
// summary) spread across several incompatible schema revisions. Decoding is
// version-tolerant: fields every revision agrees on are required, everything
// else is optional, and a value re-serializes to the JSON shape it was
// parsed from.
package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind discriminates the entry union.
type Kind string

const (
	KindUser      Kind = "user"
	KindAssistant Kind = "assistant"
	KindSystem    Kind = "system"
	KindSummary   Kind = "summary"
)

// Entry is one decoded transcript line. The concrete types are *UserEntry,
// *AssistantEntry, *SystemEntry and *SummaryEntry.
type Entry interface {
	Kind() Kind
	Describe() string
	entry()
}

// UserEntry is a user turn, optionally carrying the opaque result payload
// Claude attaches after a tool invocation.
type UserEntry struct {
	UUID          string          `json:"uuid"`
	Timestamp     string          `json:"timestamp"`
	Message       Message         `json:"message"`
	Cwd           string          `json:"cwd"`
	SessionID     string          `json:"sessionId"`
	Version       string          `json:"version"`
	UserType      string          `json:"userType"`
	IsSidechain   bool            `json:"isSidechain"`
	ParentUUID    *string         `json:"parentUuid"`
	ToolUseResult json.RawMessage `json:"toolUseResult,omitempty"`
}

func (e *UserEntry) Kind() Kind { return KindUser }
func (e *UserEntry) entry()     {}

// AssistantEntry is an assistant turn. Synthetic error entries lack a
// request id and carry the API-error flag instead.
type AssistantEntry struct {
	UUID              string  `json:"uuid"`
	Timestamp         string  `json:"timestamp"`
	Message           Message `json:"message"`
	Cwd               string  `json:"cwd"`
	SessionID         string  `json:"sessionId"`
	Version           string  `json:"version"`
	UserType          string  `json:"userType"`
	IsSidechain       bool    `json:"isSidechain"`
	ParentUUID        string  `json:"parentUuid"`
	RequestID         string  `json:"requestId,omitempty"`
	IsAPIErrorMessage *bool   `json:"isApiErrorMessage,omitempty"`
}

func (e *AssistantEntry) Kind() Kind { return KindAssistant }
func (e *AssistantEntry) entry()     {}

// SystemEntry is a free-text system notice. Level and the tool-use
// correlation id appeared in later schema revisions and may be absent.
type SystemEntry struct {
	UUID        string `json:"uuid"`
	Timestamp   string `json:"timestamp"`
	Content     string `json:"content"`
	Cwd         string `json:"cwd"`
	SessionID   string `json:"sessionId"`
	Version     string `json:"version"`
	UserType    string `json:"userType"`
	IsSidechain bool   `json:"isSidechain"`
	ParentUUID  string `json:"parentUuid"`
	IsMeta      bool   `json:"isMeta"`
	Level       string `json:"level,omitempty"`
	ToolUseID   string `json:"toolUseID,omitempty"`
}

func (e *SystemEntry) Kind() Kind { return KindSystem }
func (e *SystemEntry) entry()     {}

// SummaryEntry is the minimal record linking a conversation summary to the
// leaf entry it summarizes. It carries none of the identity fields.
type SummaryEntry struct {
	Summary  string `json:"summary"`
	LeafUUID string `json:"leafUuid"`
}

func (e *SummaryEntry) Kind() Kind { return KindSummary }
func (e *SummaryEntry) entry()     {}

// UnmarshalEntry decodes one transcript line into the entry union. The root
// "type" key is authoritative when present; when a later-revision line omits
// it, the kind is inferred from message.role. A line with neither fails.
func UnmarshalEntry(data []byte) (Entry, error) {
	var probe struct {
		Type    string `json:"type"`
		Message *struct {
			Role string `json:"role"`
		} `json:"message"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}

	kind := probe.Type
	if kind == "" {
		if probe.Message == nil || probe.Message.Role == "" {
			return nil, fmt.Errorf("entry has no type tag and no message role")
		}
		kind = probe.Message.Role
	}

	switch Kind(kind) {
	case KindUser:
		var e UserEntry
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return &e, nil
	case KindAssistant:
		var e AssistantEntry
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return &e, nil
	case KindSystem:
		var e SystemEntry
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return &e, nil
	case KindSummary:
		var e SummaryEntry
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return &e, nil
	default:
		return nil, fmt.Errorf("unrecognized entry type %q", kind)
	}
}

func (e *UserEntry) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	if err := requireKeys(fields, "user entry",
		"uuid", "timestamp", "message", "cwd", "sessionId", "version", "userType", "isSidechain"); err != nil {
		return err
	}
	type alias UserEntry
	aux := struct {
		Message json.RawMessage `json:"message"`
		*alias
	}{alias: (*alias)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	msg, err := unmarshalMessage(aux.Message)
	if err != nil {
		return fmt.Errorf("user entry message: %w", err)
	}
	e.Message = msg
	return nil
}

func (e *AssistantEntry) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	if err := requireKeys(fields, "assistant entry",
		"uuid", "timestamp", "message", "cwd", "sessionId", "version", "userType", "isSidechain", "parentUuid"); err != nil {
		return err
	}
	type alias AssistantEntry
	aux := struct {
		Message json.RawMessage `json:"message"`
		*alias
	}{alias: (*alias)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	msg, err := unmarshalMessage(aux.Message)
	if err != nil {
		return fmt.Errorf("assistant entry message: %w", err)
	}
	e.Message = msg
	return nil
}

func (e *SystemEntry) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	if err := requireKeys(fields, "system entry",
		"uuid", "timestamp", "content", "cwd", "sessionId", "version", "userType", "isSidechain", "parentUuid", "isMeta"); err != nil {
		return err
	}
	type alias SystemEntry
	return json.Unmarshal(data, (*alias)(e))
}

func (e *SummaryEntry) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	if err := requireKeys(fields, "summary entry", "summary", "leafUuid"); err != nil {
		return err
	}
	type alias SummaryEntry
	return json.Unmarshal(data, (*alias)(e))
}

func (e *UserEntry) MarshalJSON() ([]byte, error) {
	type alias UserEntry
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{KindUser, (*alias)(e)})
}

func (e *AssistantEntry) MarshalJSON() ([]byte, error) {
	type alias AssistantEntry
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{KindAssistant, (*alias)(e)})
}

func (e *SystemEntry) MarshalJSON() ([]byte, error) {
	type alias SystemEntry
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{KindSystem, (*alias)(e)})
}

func (e *SummaryEntry) MarshalJSON() ([]byte, error) {
	type alias SummaryEntry
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{KindSummary, (*alias)(e)})
}

// objectFields decodes the top level of a JSON object without touching the
// values, for required-key checks.
func objectFields(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

var jsonNull = []byte("null")

// requireKeys fails when a key every schema revision agrees on is absent or
// explicitly null. encoding/json reports wrong-type failures on its own.
func requireKeys(fields map[string]json.RawMessage, context string, keys ...string) error {
	for _, k := range keys {
		v, ok := fields[k]
		if !ok {
			return fmt.Errorf("%s: missing required field %q", context, k)
		}
		if bytes.Equal(bytes.TrimSpace(v), jsonNull) {
			return fmt.Errorf("%s: required field %q is null", context, k)
		}
	}
	return nil
}
