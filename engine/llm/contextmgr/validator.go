package contextmgr

import (
	"fmt"
)

// ValidateExchange checks that the requested call IDs and the returned
// result IDs form a bijection. It sets e.IsValid and returns the issues found.
func ValidateExchange(e *AssistantExchange) []string {
	issues := exchangeIssues(e)
	e.IsValid = len(issues) == 0
	return issues
}

func exchangeIssues(e *AssistantExchange) []string {
	callIDs := e.ToolCallIDs()
	resultIDs := e.ToolResultIDs()
	if len(callIDs) == 0 {
		// An attached tool message without results references nothing.
		if e.ToolMessage != nil && len(resultIDs) > 0 {
			return []string{"Tool results exist but assistant has no tool calls"}
		}
		return nil
	}
	if e.ToolMessage == nil {
		return []string{fmt.Sprintf("Assistant has %d tool call(s) but no tool message follows", len(callIDs))}
	}
	calls := idSet(callIDs)
	results := idSet(resultIDs)
	var issues []string
	for _, id := range callIDs {
		if _, ok := results[id]; !ok {
			issues = append(issues, fmt.Sprintf("Missing tool result for call ID: %s", id))
		}
	}
	for _, id := range resultIDs {
		if _, ok := calls[id]; !ok {
			issues = append(issues, fmt.Sprintf("Orphaned tool result with ID: %s", id))
		}
	}
	return issues
}

// ValidateTurn validates every exchange of a turn. The turn is valid iff all
// of its exchanges are; issues are tagged with their exchange index.
func ValidateTurn(t *ConversationTurn) []string {
	var issues []string
	for i, exchange := range t.Exchanges {
		for _, issue := range ValidateExchange(exchange) {
			issues = append(issues, fmt.Sprintf("exchange[%d]: %s", i, issue))
		}
	}
	t.IsValid = len(issues) == 0
	return issues
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
