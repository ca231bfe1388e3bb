package contextmgr

import (
	"context"

	llmadapter "github.com/compozy/ctxkeeper/engine/llm/adapter"
	"github.com/compozy/ctxkeeper/pkg/logger"
)

// RemoveInvalidTurns keeps the turns that pass validation and drops the rest
// whole. A single bad exchange condemns its entire turn.
func RemoveInvalidTurns(ctx context.Context, turns []*ConversationTurn) ([]*ConversationTurn, int) {
	log := logger.FromContext(ctx)
	valid := make([]*ConversationTurn, 0, len(turns))
	removed := 0
	for i, turn := range turns {
		issues := ValidateTurn(turn)
		if turn.IsValid {
			valid = append(valid, turn)
			continue
		}
		removed++
		log.Warn(
			"Dropping invalid conversation turn",
			"turn_index", i,
			"messages", turn.MessageCount,
			"issues", issues,
		)
	}
	return valid, removed
}

// PruneResult is the outcome of budget pruning.
type PruneResult struct {
	Turns   []*ConversationTurn
	Removed int
	// MessageTotal counts the system message plus every kept turn's messages.
	MessageTotal int
}

// PruneToBudget drops the oldest turns until the message total fits
// maxMessages or only minTurnsToKeep turns remain, whichever comes first.
// The floor wins: the result may still exceed the budget.
func PruneToBudget(
	ctx context.Context,
	system *llmadapter.Message,
	turns []*ConversationTurn,
	maxMessages int,
	minTurnsToKeep int,
) PruneResult {
	total := 0
	if system != nil {
		total++
	}
	for _, turn := range turns {
		total += turn.MessageCount
	}
	if total <= maxMessages {
		return PruneResult{Turns: turns, MessageTotal: total}
	}
	floor := max(minTurnsToKeep, 0)
	kept := turns
	removed := 0
	for total > maxMessages && len(kept) > floor {
		total -= kept[0].MessageCount
		kept = kept[1:]
		removed++
	}
	logger.FromContext(ctx).Info(
		"Pruned conversation turns to fit message budget",
		"turns_removed", removed,
		"turns_kept", len(kept),
		"message_total", total,
		"max_messages", maxMessages,
	)
	return PruneResult{Turns: kept, Removed: removed, MessageTotal: total}
}
