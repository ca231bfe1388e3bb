package contextmgr

import (
	"context"
	"fmt"

	llmadapter "github.com/compozy/ctxkeeper/engine/llm/adapter"
	"github.com/compozy/ctxkeeper/pkg/logger"
)

// ValidationReport describes whether a history satisfies the tool pairing contract.
type ValidationReport struct {
	IsValid          bool                 `json:"isValid"`
	Issues           []string             `json:"issues"`
	OrphanedMessages []llmadapter.Message `json:"orphanedMessages"`
	TurnCount        int                  `json:"turnCount"`
	InvalidTurns     int                  `json:"invalidTurns"`
}

// ValidateMessages parses and validates messages without pruning anything.
func ValidateMessages(ctx context.Context, messages []llmadapter.Message) (*ValidationReport, error) {
	if messages == nil {
		return nil, fmt.Errorf("%w: messages cannot be nil", ErrInvalidArgument)
	}
	parsed := ParseTurns(messages)
	report := &ValidationReport{
		Issues:           []string{},
		OrphanedMessages: parsed.OrphanedMessages,
		TurnCount:        len(parsed.Turns),
	}
	if report.OrphanedMessages == nil {
		report.OrphanedMessages = []llmadapter.Message{}
	}
	if n := len(parsed.OrphanedMessages); n > 0 {
		report.Issues = append(report.Issues, fmt.Sprintf("Found %d orphaned message(s) with no preceding assistant", n))
	}
	for i, turn := range parsed.Turns {
		issues := ValidateTurn(turn)
		if turn.IsValid {
			continue
		}
		report.InvalidTurns++
		for _, issue := range issues {
			report.Issues = append(report.Issues, fmt.Sprintf("turn[%d]: %s", i, issue))
		}
	}
	report.Issues = append(report.Issues, llmadapter.RoleViolations(messages)...)
	report.IsValid = len(report.Issues) == 0
	if !report.IsValid {
		logger.FromContext(ctx).Debug("Message history failed validation", "issues", len(report.Issues))
	}
	return report, nil
}
