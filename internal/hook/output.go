package hook

// Decision controls whether an operation proceeds.
type Decision string

const (
	// DecisionApprove bypasses the permission system (PreToolUse only).
	DecisionApprove Decision = "approve"
	// DecisionBlock prevents the operation and feeds the reason to Claude.
	DecisionBlock Decision = "block"
)

// PreToolUseOutput is the response for a PreToolUse event. A zero value
// means "follow the normal permission flow".
type PreToolUseOutput struct {
	Decision       Decision `json:"decision,omitempty"`
	Reason         string   `json:"reason,omitempty"`
	Continue       *bool    `json:"continue,omitempty"`
	StopReason     string   `json:"stopReason,omitempty"`
	SuppressOutput bool     `json:"suppressOutput,omitempty"`
}

// Approve builds an approval response. The reason is shown to the user, not
// to Claude.
func Approve(reason string) PreToolUseOutput {
	return PreToolUseOutput{Decision: DecisionApprove, Reason: reason}
}

// Block builds a blocking response. The reason is shown to Claude.
func Block(reason string) PreToolUseOutput {
	return PreToolUseOutput{Decision: DecisionBlock, Reason: reason}
}

// PostToolUseOutput is the response for a PostToolUse event. Only block is
// meaningful since the tool already ran.
type PostToolUseOutput struct {
	Decision       Decision `json:"decision,omitempty"`
	Reason         string   `json:"reason,omitempty"`
	Continue       *bool    `json:"continue,omitempty"`
	StopReason     string   `json:"stopReason,omitempty"`
	SuppressOutput bool     `json:"suppressOutput,omitempty"`
}

// BlockPostToolUse builds feedback that prompts Claude with the reason.
func BlockPostToolUse(reason string) PostToolUseOutput {
	return PostToolUseOutput{Decision: DecisionBlock, Reason: reason}
}

// NotificationOutput is the response for a Notification event.
type NotificationOutput struct {
	Continue       *bool  `json:"continue,omitempty"`
	StopReason     string `json:"stopReason,omitempty"`
	SuppressOutput bool   `json:"suppressOutput,omitempty"`
}

// StopOutput is the response for Stop and SubagentStop events.
type StopOutput struct {
	Decision       Decision `json:"decision,omitempty"`
	Reason         string   `json:"reason,omitempty"`
	Continue       *bool    `json:"continue,omitempty"`
	StopReason     string   `json:"stopReason,omitempty"`
	SuppressOutput bool     `json:"suppressOutput,omitempty"`
}

// BlockStop builds a response that prevents Claude from stopping. The reason
// tells Claude how to proceed.
func BlockStop(reason string) StopOutput {
	return StopOutput{Decision: DecisionBlock, Reason: reason}
}
