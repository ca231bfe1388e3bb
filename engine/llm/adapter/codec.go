package llmadapter

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// Wire discriminators for message parts.
const (
	PartTypeText       = "text"
	PartTypeToolCall   = "tool-call"
	PartTypeToolResult = "tool-result"
)

var ErrInvalidContent = errors.New("invalid message content")

type wireTextPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type wireToolCallPart struct {
	Type       string          `json:"type"`
	ToolCallID string          `json:"toolCallId"`
	ToolName   string          `json:"toolName"`
	Input      json.RawMessage `json:"input,omitempty"`
}

type wireToolResultPart struct {
	Type       string          `json:"type"`
	ToolCallID string          `json:"toolCallId"`
	ToolName   string          `json:"toolName"`
	Output     json.RawMessage `json:"output,omitempty"`
	IsError    bool            `json:"isError,omitempty"`
}

// MarshalJSON encodes text content as a JSON string and part lists as a tagged array.
func (c Content) MarshalJSON() ([]byte, error) {
	if !c.IsMultipart() {
		return json.Marshal(c.Text)
	}
	wire := make([]any, 0, len(c.Parts))
	for i, part := range c.Parts {
		switch p := part.(type) {
		case TextPart:
			wire = append(wire, wireTextPart{Type: PartTypeText, Text: p.Text})
		case ToolCallPart:
			wire = append(wire, wireToolCallPart{
				Type:       PartTypeToolCall,
				ToolCallID: p.ToolCallID,
				ToolName:   p.ToolName,
				Input:      p.Arguments,
			})
		case ToolResultPart:
			wire = append(wire, wireToolResultPart{
				Type:       PartTypeToolResult,
				ToolCallID: p.ToolCallID,
				ToolName:   p.ToolName,
				Output:     p.Output,
				IsError:    p.IsError,
			})
		default:
			return nil, fmt.Errorf("%w: part[%d] has unsupported type %T", ErrInvalidContent, i, part)
		}
	}
	return json.Marshal(wire)
}

// UnmarshalJSON accepts either a JSON string or an array of tagged parts.
func (c *Content) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: malformed JSON", ErrInvalidContent)
	}
	result := gjson.ParseBytes(data)
	switch {
	case result.Type == gjson.Null:
		*c = Content{}
		return nil
	case result.Type == gjson.String:
		*c = Content{Text: result.String()}
		return nil
	case result.IsArray():
		parts := make([]Part, 0, len(result.Array()))
		var decodeErr error
		result.ForEach(func(key, value gjson.Result) bool {
			part, err := decodePart(value)
			if err != nil {
				decodeErr = fmt.Errorf("part[%d]: %w", key.Int(), err)
				return false
			}
			parts = append(parts, part)
			return true
		})
		if decodeErr != nil {
			return decodeErr
		}
		*c = Content{Parts: parts}
		return nil
	default:
		return fmt.Errorf("%w: expected string or array, got %s", ErrInvalidContent, result.Type)
	}
}

func decodePart(value gjson.Result) (Part, error) {
	if !value.IsObject() {
		return nil, fmt.Errorf("%w: part must be an object", ErrInvalidContent)
	}
	partType := value.Get("type").String()
	switch partType {
	case PartTypeText:
		return TextPart{Text: value.Get("text").String()}, nil
	case PartTypeToolCall:
		return ToolCallPart{
			ToolCallID: value.Get("toolCallId").String(),
			ToolName:   value.Get("toolName").String(),
			Arguments:  rawField(value, "input"),
		}, nil
	case PartTypeToolResult:
		return ToolResultPart{
			ToolCallID: value.Get("toolCallId").String(),
			ToolName:   value.Get("toolName").String(),
			Output:     rawField(value, "output"),
			IsError:    value.Get("isError").Bool(),
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown part type %q", ErrInvalidContent, partType)
	}
}

func rawField(value gjson.Result, field string) json.RawMessage {
	fieldValue := value.Get(field)
	if !fieldValue.Exists() {
		return nil
	}
	return json.RawMessage(fieldValue.Raw)
}

// DecodeMessages parses a JSON array of messages.
func DecodeMessages(data []byte) ([]Message, error) {
	var messages []Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	if messages == nil {
		messages = []Message{}
	}
	return messages, nil
}
