package transcript

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Message is the role-tagged payload of a user or assistant entry.
// The concrete types are *UserMessage and *AssistantMessage.
type Message interface {
	Role() string
	Content() *MessageContent
	message()
}

type UserMessage struct {
	MessageContent *MessageContent `json:"content,omitempty"`
}

func (m *UserMessage) Role() string { return "user" }
func (m *UserMessage) Content() *MessageContent { return m.MessageContent }
func (m *UserMessage) message() {}

func (m *UserMessage) MarshalJSON() ([]byte, error) {
	type alias UserMessage
	return json.Marshal(struct {
		Role string `json:"role"`
		*alias
	}{"user", (*alias)(m)})
}

type AssistantMessage struct {
	ID             string          `json:"id"`
	Type           string          `json:"type"`
	Model          string          `json:"model"`
	MessageContent *MessageContent `json:"content,omitempty"`
	Thinking       *string         `json:"thinking,omitempty"`
	ToolUses       []ToolUse       `json:"tool_uses,omitempty"`
	CodeOutputs    []CodeOutput    `json:"code_outputs,omitempty"`
	StopReason     *string         `json:"stop_reason"`
	StopSequence   *string         `json:"stop_sequence"`
	Usage          Usage           `json:"usage"`
}

func (m *AssistantMessage) Role() string { return "assistant" }
func (m *AssistantMessage) Content() *MessageContent { return m.MessageContent }
func (m *AssistantMessage) message() {}

func (m *AssistantMessage) MarshalJSON() ([]byte, error) {
	type alias AssistantMessage
	return json.Marshal(struct {
		Role string `json:"role"`
		*alias
	}{"assistant", (*alias)(m)})
}

// HasThinking reports whether the message carries internal reasoning, either
// as the dedicated thinking field or as a thinking content block.
func (m *AssistantMessage) HasThinking() bool {
	if m.Thinking != nil {
		return true
	}
	if m.MessageContent == nil {
		return false
	}
	for _, b := range m.MessageContent.Blocks() {
		if _, ok := b.(*ThinkingBlock); ok {
			return true
		}
	}
	return false
}

// ToolUseCount sums the dedicated tool-use list and tool_use content blocks.
func (m *AssistantMessage) ToolUseCount() int {
	n := len(m.ToolUses)
	if m.MessageContent != nil {
		n += m.MessageContent.CountToolUses()
	}
	return n
}

// unmarshalMessage dispatches on the role tag.
func unmarshalMessage(data []byte) (Message, error) {
	var probe struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	switch probe.Role {
	case "user":
		var m UserMessage
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return &m, nil
	case "assistant":
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, err
		}
		if err := requireKeys(fields, "assistant message", "id", "type", "model", "usage"); err != nil {
			return nil, err
		}
		var m AssistantMessage
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return &m, nil
	case "":
		return nil, fmt.Errorf("message has no role")
	default:
		return nil, fmt.Errorf("unrecognized message role %q", probe.Role)
	}
}

// MessageContent is either a bare string or an ordered list of content
// blocks. The wire format carries no discriminant; the JSON shape decides.
type MessageContent struct {
	text   *string
	blocks []ContentBlock
}

// TextContent builds the bare-string shape.
func TextContent(s string) *MessageContent {
	return &MessageContent{text: &s}
}

// BlockContent builds the block-list shape.
func BlockContent(blocks ...ContentBlock) *MessageContent {
	return &MessageContent{blocks: blocks}
}

// IsText reports whether the content was the bare-string shape.
func (c *MessageContent) IsText() bool { return c.text != nil }

// Blocks returns the block list, nil for the bare-string shape.
func (c *MessageContent) Blocks() []ContentBlock { return c.blocks }

// AsText flattens the content to a single string for diagnostic previews.
// Text blocks and textual tool results contribute; thinking and tool
// invocations do not.
func (c *MessageContent) AsText() string {
	if c == nil {
		return ""
	}
	if c.text != nil {
		return *c.text
	}
	var parts []string
	for _, b := range c.blocks {
		switch b := b.(type) {
		case *TextBlock:
			parts = append(parts, b.Text)
		case *ToolResultBlock:
			if t := b.ResultContent.AsText(); t != "" {
				parts = append(parts, t)
			}
		}
	}
	return strings.Join(parts, "\n")
}

func (c *MessageContent) HasToolUses() bool { return c.CountToolUses() > 0 }

func (c *MessageContent) CountToolUses() int {
	n := 0
	for _, b := range c.blocks {
		if _, ok := b.(*ToolUseBlock); ok {
			n++
		}
	}
	return n
}

func (c *MessageContent) CountToolResults() int {
	n := 0
	for _, b := range c.blocks {
		if _, ok := b.(*ToolResultBlock); ok {
			n++
		}
	}
	return n
}

func (c *MessageContent) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.text = &s
		c.blocks = nil
		return nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return fmt.Errorf("content is neither string nor block array: %w", err)
	}
	blocks := make([]ContentBlock, 0, len(raws))
	for i, r := range raws {
		b, err := unmarshalBlock(r)
		if err != nil {
			return fmt.Errorf("content block %d: %w", i, err)
		}
		blocks = append(blocks, b)
	}
	c.text = nil
	c.blocks = blocks
	return nil
}

func (c *MessageContent) MarshalJSON() ([]byte, error) {
	if c.text != nil {
		return json.Marshal(*c.text)
	}
	if c.blocks == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.blocks)
}

// ContentBlock is the type-tagged union of message body units. The concrete
// types are *TextBlock, *ToolUseBlock, *ToolResultBlock and *ThinkingBlock.
type ContentBlock interface {
	BlockType() string
	block()
}

type TextBlock struct {
	Text string `json:"text"`
}

func (b *TextBlock) BlockType() string { return "text" }
func (b *TextBlock) block()            {}

type ToolUseBlock struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

func (b *ToolUseBlock) BlockType() string { return "tool_use" }
func (b *ToolUseBlock) block()            {}

type ToolResultBlock struct {
	ToolUseID     string            `json:"tool_use_id"`
	ResultContent ToolResultContent `json:"content"`
	IsError       *bool             `json:"is_error,omitempty"`
}

func (b *ToolResultBlock) BlockType() string { return "tool_result" }
func (b *ToolResultBlock) block()            {}

type ThinkingBlock struct {
	Thinking  string `json:"thinking"`
	Signature string `json:"signature,omitempty"`
}

func (b *ThinkingBlock) BlockType() string { return "thinking" }
func (b *ThinkingBlock) block()            {}

func (b *TextBlock) MarshalJSON() ([]byte, error) {
	type alias TextBlock
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{"text", (*alias)(b)})
}

func (b *ToolUseBlock) MarshalJSON() ([]byte, error) {
	type alias ToolUseBlock
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{"tool_use", (*alias)(b)})
}

func (b *ToolResultBlock) MarshalJSON() ([]byte, error) {
	type alias ToolResultBlock
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{"tool_result", (*alias)(b)})
}

func (b *ThinkingBlock) MarshalJSON() ([]byte, error) {
	type alias ThinkingBlock
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{"thinking", (*alias)(b)})
}

// unmarshalBlock dispatches on the block type tag. Unknown tags are a decode
// failure, not a silently ignored variant.
func unmarshalBlock(data []byte) (ContentBlock, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	switch probe.Type {
	case "text":
		var b TextBlock
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		return &b, nil
	case "tool_use":
		var b ToolUseBlock
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		return &b, nil
	case "tool_result":
		var b ToolResultBlock
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		return &b, nil
	case "thinking":
		var b ThinkingBlock
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		return &b, nil
	case "":
		return nil, fmt.Errorf("content block has no type")
	default:
		return nil, fmt.Errorf("unknown content block type %q", probe.Type)
	}
}

// ToolResultContent is either a bare string or a list of typed text items.
type ToolResultContent struct {
	text  *string
	items []ToolResultItem
}

type ToolResultItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func ToolResultText(s string) ToolResultContent {
	return ToolResultContent{text: &s}
}

func ToolResultItems(items ...ToolResultItem) ToolResultContent {
	return ToolResultContent{items: items}
}

func (c *ToolResultContent) IsText() bool { return c.text != nil }
func (c *ToolResultContent) Items() []ToolResultItem { return c.items }

func (c *ToolResultContent) AsText() string {
	if c.text != nil {
		return *c.text
	}
	var parts []string
	for _, it := range c.items {
		if it.Text != "" {
			parts = append(parts, it.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func (c *ToolResultContent) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.text = &s
		c.items = nil
		return nil
	}
	var items []ToolResultItem
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("tool result content is neither string nor item array: %w", err)
	}
	c.text = nil
	c.items = items
	return nil
}

func (c ToolResultContent) MarshalJSON() ([]byte, error) {
	if c.text != nil {
		return json.Marshal(*c.text)
	}
	if c.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.items)
}

// ToolUse is one entry of an assistant message's dedicated tool-use list.
type ToolUse struct {
	ToolName   string          `json:"tool_name"`
	ToolInput  json.RawMessage `json:"tool_input"`
	ToolOutput json.RawMessage `json:"tool_output,omitempty"`
}

// CodeOutput is one entry of an assistant message's code-output list.
type CodeOutput struct {
	Code     string `json:"code"`
	Output   string `json:"output,omitempty"`
	Language string `json:"language,omitempty"`
}

// Usage holds the token accounting attached to every assistant message.
type Usage struct {
	CacheCreationInputTokens *uint64 `json:"cache_creation_input_tokens,omitempty"`
	CacheReadInputTokens     *uint64 `json:"cache_read_input_tokens,omitempty"`
	InputTokens              *uint64 `json:"input_tokens,omitempty"`
	OutputTokens             *uint64 `json:"output_tokens,omitempty"`
	ServiceTier              string  `json:"service_tier,omitempty"`
}
