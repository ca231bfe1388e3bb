package contextmgr

import (
	"maps"
	"slices"

	llmadapter "github.com/compozy/ctxkeeper/engine/llm/adapter"
)

// ToolNames returns the sorted set of tool names referenced by any tool-call
// or tool-result part in messages.
func ToolNames(messages []llmadapter.Message) []string {
	set := make(map[string]struct{})
	for i := range messages {
		addToolNames(set, &messages[i])
	}
	return sortedKeys(set)
}

// TurnToolNames is ToolNames over the messages held by turns.
func TurnToolNames(turns []*ConversationTurn) []string {
	set := make(map[string]struct{})
	for _, turn := range turns {
		if turn.UserMessage != nil {
			addToolNames(set, turn.UserMessage)
		}
		for _, exchange := range turn.Exchanges {
			addToolNames(set, &exchange.AssistantMessage)
			if exchange.ToolMessage != nil {
				addToolNames(set, exchange.ToolMessage)
			}
		}
	}
	return sortedKeys(set)
}

// DiffTools returns the names in before that are absent from after, sorted.
func DiffTools(before, after []string) []string {
	remaining := make(map[string]struct{}, len(after))
	for _, name := range after {
		remaining[name] = struct{}{}
	}
	removed := make(map[string]struct{})
	for _, name := range before {
		if _, ok := remaining[name]; !ok {
			removed[name] = struct{}{}
		}
	}
	return sortedKeys(removed)
}

func addToolNames(set map[string]struct{}, msg *llmadapter.Message) {
	for _, name := range msg.ToolNames() {
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return []string{}
	}
	return slices.Sorted(maps.Keys(set))
}
