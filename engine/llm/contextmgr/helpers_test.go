package contextmgr

import (
	"context"
	"encoding/json"
	"fmt"

	llmadapter "github.com/compozy/ctxkeeper/engine/llm/adapter"
	contextmetrics "github.com/compozy/ctxkeeper/engine/llm/contextmgr/metrics"
)

func sys(text string) llmadapter.Message       { return llmadapter.SystemMessage(text) }
func user(text string) llmadapter.Message      { return llmadapter.UserMessage(text) }
func assistant(text string) llmadapter.Message { return llmadapter.AssistantMessage(text) }

func call(id, name string) llmadapter.ToolCallPart {
	return llmadapter.ToolCallPart{ToolCallID: id, ToolName: name}
}

func result(id, name string) llmadapter.ToolResultPart {
	return llmadapter.ToolResultPart{ToolCallID: id, ToolName: name}
}

func calls(parts ...llmadapter.ToolCallPart) llmadapter.Message {
	return llmadapter.AssistantToolCalls(parts...)
}

func results(parts ...llmadapter.ToolResultPart) llmadapter.Message {
	return llmadapter.ToolMessage(parts...)
}

// toolTurn is user, assistant tool call, tool result, assistant answer.
func toolTurn(n int, tool string) []llmadapter.Message {
	id := fmt.Sprintf("call-%d", n)
	return []llmadapter.Message{
		user(fmt.Sprintf("question %d", n)),
		calls(call(id, tool)),
		results(result(id, tool)),
		assistant(fmt.Sprintf("answer %d", n)),
	}
}

func concat(groups ...[]llmadapter.Message) []llmadapter.Message {
	var out []llmadapter.Message
	for _, group := range groups {
		out = append(out, group...)
	}
	return out
}

func withPayloads(msg llmadapter.Message) llmadapter.Message {
	parts := make([]llmadapter.Part, len(msg.Content.Parts))
	for i, part := range msg.Content.Parts {
		switch p := part.(type) {
		case llmadapter.ToolCallPart:
			p.Arguments = json.RawMessage(`{"url":"https://example.com"}`)
			parts[i] = p
		case llmadapter.ToolResultPart:
			p.Output = json.RawMessage(`"<html>large page body</html>"`)
			parts[i] = p
		default:
			parts[i] = part
		}
	}
	return llmadapter.Message{Role: msg.Role, Content: llmadapter.PartsContent(parts...)}
}

type failingStore struct {
	readErr   error
	removeErr error
}

func (s *failingStore) DiscoveredTools(context.Context) ([]string, error) {
	return nil, s.readErr
}

func (s *failingStore) RemoveTools(context.Context, []string) error {
	return s.removeErr
}

type fakeCounter struct{}

func (fakeCounter) CountTokens(_ context.Context, text string) (int, error) {
	return len(text), nil
}

func (fakeCounter) CountMessages(_ context.Context, messages []llmadapter.Message) (int, error) {
	return 10 * len(messages), nil
}

type captureRecorder struct {
	outcomes []contextmetrics.Outcome
}

func (r *captureRecorder) RecordTrim(_ context.Context, outcome contextmetrics.Outcome) {
	r.outcomes = append(r.outcomes, outcome)
}
