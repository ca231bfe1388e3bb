package tokens

import (
	"context"
	"fmt"
	"sync"

	llmadapter "github.com/compozy/ctxkeeper/engine/llm/adapter"
	"github.com/pkoukk/tiktoken-go"
)

const (
	DefaultEncoding = "cl100k_base"
	// messageOverhead approximates role markers and framing per message.
	messageOverhead = 4
)

// Counter counts tokens for text and whole message lists.
type Counter interface {
	CountTokens(ctx context.Context, text string) (int, error)
	CountMessages(ctx context.Context, messages []llmadapter.Message) (int, error)
}

// TiktokenCounter implements Counter using the tiktoken-go library.
type TiktokenCounter struct {
	encodingName string
	tke          *tiktoken.Tiktoken
	mu           sync.RWMutex
}

// NewTiktokenCounter creates a counter for the given model or encoding name,
// falling back to cl100k_base when neither resolves.
func NewTiktokenCounter(modelOrEncoding string) (*TiktokenCounter, error) {
	if modelOrEncoding == "" {
		modelOrEncoding = DefaultEncoding
	}
	tke, err := tiktoken.GetEncoding(modelOrEncoding)
	if err != nil {
		tke, err = tiktoken.EncodingForModel(modelOrEncoding)
		if err != nil {
			tke, err = tiktoken.GetEncoding(DefaultEncoding)
			if err != nil {
				return nil, fmt.Errorf("failed to get default encoding '%s': %w", DefaultEncoding, err)
			}
			modelOrEncoding = DefaultEncoding
		}
	}
	return &TiktokenCounter{
		encodingName: modelOrEncoding,
		tke:          tke,
	}, nil
}

// CountTokens counts the number of tokens in the given text.
func (tc *TiktokenCounter) CountTokens(_ context.Context, text string) (int, error) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	if tc.tke == nil {
		return 0, fmt.Errorf("tiktoken encoder is not initialized for encoding %s", tc.encodingName)
	}
	return len(tc.tke.Encode(text, nil, nil)), nil
}

// CountMessages sums text, tool names and tool payloads across messages.
func (tc *TiktokenCounter) CountMessages(ctx context.Context, messages []llmadapter.Message) (int, error) {
	total := 0
	for i := range messages {
		n, err := tc.CountTokens(ctx, messageText(&messages[i]))
		if err != nil {
			return 0, fmt.Errorf("count message[%d]: %w", i, err)
		}
		total += n + messageOverhead
	}
	return total, nil
}

// GetEncoding returns the name of the encoding being used by this counter.
func (tc *TiktokenCounter) GetEncoding() string {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.encodingName
}

func messageText(msg *llmadapter.Message) string {
	if !msg.Content.IsMultipart() {
		return msg.Role + " " + msg.Content.Text
	}
	text := msg.Role
	for _, part := range msg.Content.Parts {
		switch p := part.(type) {
		case llmadapter.TextPart:
			text += " " + p.Text
		case llmadapter.ToolCallPart:
			text += " " + p.ToolName + " " + string(p.Arguments)
		case llmadapter.ToolResultPart:
			text += " " + p.ToolName + " " + string(p.Output)
		}
	}
	return text
}
