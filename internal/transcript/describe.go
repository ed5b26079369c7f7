package transcript

import (
	"fmt"
	"strings"
)

// previewLen bounds the user-content preview in descriptions.
const previewLen = 50

// Describe returns a one-line classification for diagnostic display.
func (e *SystemEntry) Describe() string {
	level := e.Level
	if level == "" {
		level = "unknown"
	}
	return fmt.Sprintf("System[%s]", level)
}

func (e *UserEntry) Describe() string {
	var text string
	if e.Message != nil {
		text = e.Message.Content().AsText()
	}
	if text == "" {
		return "User: No content"
	}
	runes := []rune(text)
	if len(runes) > previewLen {
		return "User: " + string(runes[:previewLen]) + "..."
	}
	return "User: " + text
}

func (e *AssistantEntry) Describe() string {
	parts := []string{"Assistant"}
	if m, ok := e.Message.(*AssistantMessage); ok {
		if m.HasThinking() {
			parts = append(parts, "with thinking")
		}
		if n := m.ToolUseCount(); n > 0 {
			parts = append(parts, fmt.Sprintf("%d tool uses", n))
		}
		if n := len(m.CodeOutputs); n > 0 {
			parts = append(parts, fmt.Sprintf("%d code outputs", n))
		}
	}
	return strings.Join(parts, ": ")
}

func (e *SummaryEntry) Describe() string {
	return "Summary: " + e.Summary
}
