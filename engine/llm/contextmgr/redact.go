package contextmgr

import (
	llmadapter "github.com/compozy/ctxkeeper/engine/llm/adapter"
)

// RedactionPolicy controls the payload-stripping pre-pass.
type RedactionPolicy struct {
	// PreserveRecent trailing messages keep their tool payloads.
	PreserveRecent int
	// RemoveEmpty drops messages that carry no content at all.
	RemoveEmpty bool
}

// Redact strips tool-call arguments and tool-result outputs from every
// message except the last PreserveRecent ones. Roles, part kinds, tool names
// and call identifiers are kept so pairing can still be validated. The input
// slice is never modified.
func Redact(messages []llmadapter.Message, policy RedactionPolicy) []llmadapter.Message {
	cutoff := max(len(messages)-max(policy.PreserveRecent, 0), 0)
	out := make([]llmadapter.Message, 0, len(messages))
	for i := range messages {
		msg := messages[i]
		if i < cutoff {
			msg = stripPayloads(msg)
		}
		if policy.RemoveEmpty && msg.IsEmpty() {
			continue
		}
		out = append(out, msg)
	}
	return out
}

func stripPayloads(msg llmadapter.Message) llmadapter.Message {
	if !msg.Content.IsMultipart() {
		return msg
	}
	parts := make([]llmadapter.Part, len(msg.Content.Parts))
	for i, part := range msg.Content.Parts {
		switch p := part.(type) {
		case llmadapter.ToolCallPart:
			p.Arguments = nil
			parts[i] = p
		case llmadapter.ToolResultPart:
			p.Output = nil
			parts[i] = p
		default:
			parts[i] = part
		}
	}
	return llmadapter.Message{Role: msg.Role, Content: llmadapter.PartsContent(parts...)}
}
