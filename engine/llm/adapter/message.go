package llmadapter

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Role constants for message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message represents a conversation message as sent to the model API.
type Message struct {
	Role    string  `json:"role"`
	Content Content `json:"content"`
}

// Content holds either plain text (Parts == nil) or an ordered list of parts.
type Content struct {
	Text  string
	Parts []Part
}

// Part is one element of a multi-part message. The set of implementations is
// closed: TextPart, ToolCallPart and ToolResultPart.
type Part interface {
	isPart()
}

// TextPart carries plain text inside a multi-part message.
type TextPart struct {
	Text string
}

// ToolCallPart is a tool invocation requested by the assistant.
type ToolCallPart struct {
	ToolCallID string
	ToolName   string
	// Arguments is the raw JSON input; nil once the payload was redacted.
	Arguments json.RawMessage
}

// ToolResultPart is the runtime's answer to a ToolCallPart with the same ID.
type ToolResultPart struct {
	ToolCallID string
	ToolName   string
	// Output is the raw JSON output; nil once the payload was redacted.
	Output  json.RawMessage
	IsError bool
}

func (TextPart) isPart()       {}
func (ToolCallPart) isPart()   {}
func (ToolResultPart) isPart() {}

func TextContent(text string) Content {
	return Content{Text: text}
}

func PartsContent(parts ...Part) Content {
	if parts == nil {
		parts = []Part{}
	}
	return Content{Parts: parts}
}

func SystemMessage(text string) Message {
	return Message{Role: RoleSystem, Content: TextContent(text)}
}

func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: TextContent(text)}
}

func AssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Content: TextContent(text)}
}

// AssistantToolCalls builds an assistant message requesting the given calls.
func AssistantToolCalls(calls ...ToolCallPart) Message {
	parts := make([]Part, 0, len(calls))
	for _, call := range calls {
		parts = append(parts, call)
	}
	return Message{Role: RoleAssistant, Content: PartsContent(parts...)}
}

// ToolMessage builds a tool message carrying the given results.
func ToolMessage(results ...ToolResultPart) Message {
	parts := make([]Part, 0, len(results))
	for _, result := range results {
		parts = append(parts, result)
	}
	return Message{Role: RoleTool, Content: PartsContent(parts...)}
}

// IsMultipart reports whether the content is a part list rather than plain text.
func (c Content) IsMultipart() bool {
	return c.Parts != nil
}

// ToolCallIDs returns the call identifiers requested by this message, in order.
func (m *Message) ToolCallIDs() []string {
	var ids []string
	for _, part := range m.Content.Parts {
		if call, ok := part.(ToolCallPart); ok {
			ids = append(ids, call.ToolCallID)
		}
	}
	return ids
}

// ToolResultIDs returns the call identifiers answered by this message, in order.
func (m *Message) ToolResultIDs() []string {
	var ids []string
	for _, part := range m.Content.Parts {
		if result, ok := part.(ToolResultPart); ok {
			ids = append(ids, result.ToolCallID)
		}
	}
	return ids
}

// ToolNames returns the tool names referenced by call or result parts.
func (m *Message) ToolNames() []string {
	var names []string
	for _, part := range m.Content.Parts {
		switch p := part.(type) {
		case ToolCallPart:
			names = append(names, p.ToolName)
		case ToolResultPart:
			names = append(names, p.ToolName)
		case TextPart:
		}
	}
	return names
}

// IsEmpty reports whether the message carries nothing for the model to read.
func (m *Message) IsEmpty() bool {
	if !m.Content.IsMultipart() {
		return strings.TrimSpace(m.Content.Text) == ""
	}
	for _, part := range m.Content.Parts {
		switch p := part.(type) {
		case TextPart:
			if strings.TrimSpace(p.Text) != "" {
				return false
			}
		case ToolCallPart, ToolResultPart:
			return false
		}
	}
	return true
}

// CloneMessages returns a deep copy so callers can mutate the result freely.
func CloneMessages(messages []Message) []Message {
	if messages == nil {
		return nil
	}
	out := make([]Message, len(messages))
	for i := range messages {
		out[i] = CloneMessage(messages[i])
	}
	return out
}

// CloneMessage copies msg, including its tool payload bytes.
func CloneMessage(msg Message) Message {
	cloned := Message{Role: msg.Role, Content: Content{Text: msg.Content.Text}}
	if msg.Content.Parts == nil {
		return cloned
	}
	cloned.Content.Parts = make([]Part, len(msg.Content.Parts))
	for i, part := range msg.Content.Parts {
		switch p := part.(type) {
		case ToolCallPart:
			p.Arguments = slices.Clone(p.Arguments)
			cloned.Content.Parts[i] = p
		case ToolResultPart:
			p.Output = slices.Clone(p.Output)
			cloned.Content.Parts[i] = p
		default:
			cloned.Content.Parts[i] = part
		}
	}
	return cloned
}

// RoleViolations lists messages whose role cannot carry the tool parts they
// hold. Tool calls belong to assistants and tool results to tool messages.
func RoleViolations(messages []Message) []string {
	var issues []string
	for i := range messages {
		m := &messages[i]
		if m.Role != RoleAssistant && len(m.ToolCallIDs()) > 0 {
			issues = append(issues, fmt.Sprintf("message[%d]: role %q cannot contain tool calls", i, m.Role))
		}
		if m.Role != RoleTool && len(m.ToolResultIDs()) > 0 {
			issues = append(issues, fmt.Sprintf("message[%d]: role %q cannot contain tool results", i, m.Role))
		}
	}
	return issues
}
