package contextmgr

import (
	llmadapter "github.com/compozy/ctxkeeper/engine/llm/adapter"
)

// Flatten reassembles the system message and turns into the linear order
// the model API expects. It inverts ParseTurns.
func Flatten(system *llmadapter.Message, turns []*ConversationTurn) []llmadapter.Message {
	size := 0
	if system != nil {
		size++
	}
	for _, turn := range turns {
		size += turn.MessageCount
	}
	out := make([]llmadapter.Message, 0, size)
	if system != nil {
		out = append(out, *system)
	}
	for _, turn := range turns {
		if turn.UserMessage != nil {
			out = append(out, *turn.UserMessage)
		}
		for _, exchange := range turn.Exchanges {
			out = append(out, exchange.AssistantMessage)
			if exchange.ToolMessage != nil {
				out = append(out, *exchange.ToolMessage)
			}
		}
	}
	return out
}
