package llmadapter

import (
	"encoding/json"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// ToLangChain converts messages into langchaingo MessageContent values so a
// trimmed history can be handed straight to an llms.Model.
func ToLangChain(messages []Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(messages))
	for i := range messages {
		msg := &messages[i]
		content := llms.MessageContent{Role: mapMessageRole(msg.Role)}
		if !msg.Content.IsMultipart() {
			content.Parts = []llms.ContentPart{llms.TextContent{Text: msg.Content.Text}}
			out = append(out, content)
			continue
		}
		content.Parts = make([]llms.ContentPart, 0, len(msg.Content.Parts))
		for _, part := range msg.Content.Parts {
			switch p := part.(type) {
			case TextPart:
				content.Parts = append(content.Parts, llms.TextContent{Text: p.Text})
			case ToolCallPart:
				content.Parts = append(content.Parts, llms.ToolCall{
					ID:   p.ToolCallID,
					Type: "function",
					FunctionCall: &llms.FunctionCall{
						Name:      p.ToolName,
						Arguments: rawOrEmptyObject(p.Arguments),
					},
				})
			case ToolResultPart:
				content.Parts = append(content.Parts, llms.ToolCallResponse{
					ToolCallID: p.ToolCallID,
					Name:       p.ToolName,
					Content:    toolOutputText(p.Output),
				})
			}
		}
		out = append(out, content)
	}
	return out
}

// FromLangChain converts langchaingo messages back into the provider-neutral model.
// Part kinds langchaingo supports but the model does not (images, binary) are dropped.
func FromLangChain(contents []llms.MessageContent) []Message {
	out := make([]Message, 0, len(contents))
	for _, content := range contents {
		msg := Message{Role: roleFromLangChain(content.Role)}
		if len(content.Parts) == 1 {
			if text, ok := content.Parts[0].(llms.TextContent); ok {
				msg.Content = TextContent(text.Text)
				out = append(out, msg)
				continue
			}
		}
		parts := make([]Part, 0, len(content.Parts))
		for _, part := range content.Parts {
			switch p := part.(type) {
			case llms.TextContent:
				parts = append(parts, TextPart{Text: p.Text})
			case llms.ToolCall:
				call := ToolCallPart{ToolCallID: p.ID}
				if p.FunctionCall != nil {
					call.ToolName = p.FunctionCall.Name
					if p.FunctionCall.Arguments != "" {
						call.Arguments = json.RawMessage(p.FunctionCall.Arguments)
					}
				}
				parts = append(parts, call)
			case llms.ToolCallResponse:
				parts = append(parts, ToolResultPart{
					ToolCallID: p.ToolCallID,
					ToolName:   p.Name,
					Output:     textToolOutput(p.Content),
				})
			}
		}
		msg.Content = PartsContent(parts...)
		out = append(out, msg)
	}
	return out
}

// DecodeLangChainMessages parses a JSON array in langchaingo's MessageContent
// encoding and converts it into the provider-neutral model.
func DecodeLangChainMessages(data []byte) ([]Message, error) {
	var contents []llms.MessageContent
	if err := json.Unmarshal(data, &contents); err != nil {
		return nil, fmt.Errorf("decode langchain messages: %w", err)
	}
	return FromLangChain(contents), nil
}

// mapMessageRole maps our role to langchain ChatMessageType
func mapMessageRole(role string) llms.ChatMessageType {
	switch role {
	case RoleSystem:
		return llms.ChatMessageTypeSystem
	case RoleUser:
		return llms.ChatMessageTypeHuman
	case RoleAssistant:
		return llms.ChatMessageTypeAI
	case RoleTool:
		return llms.ChatMessageTypeTool
	default:
		return llms.ChatMessageTypeHuman
	}
}

func roleFromLangChain(role llms.ChatMessageType) string {
	switch role {
	case llms.ChatMessageTypeSystem:
		return RoleSystem
	case llms.ChatMessageTypeAI:
		return RoleAssistant
	case llms.ChatMessageTypeTool, llms.ChatMessageTypeFunction:
		return RoleTool
	default:
		return RoleUser
	}
}

func rawOrEmptyObject(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	return string(raw)
}

// toolOutputText unwraps JSON string outputs so the model sees plain text.
func toolOutputText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	return string(raw)
}

func textToolOutput(text string) json.RawMessage {
	if text == "" {
		return nil
	}
	if json.Valid([]byte(text)) {
		return json.RawMessage(text)
	}
	encoded, err := json.Marshal(text)
	if err != nil {
		return nil
	}
	return encoded
}
