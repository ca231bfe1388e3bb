package contextmgr

import (
	"testing"

	llmadapter "github.com/compozy/ctxkeeper/engine/llm/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveInvalidTurns(t *testing.T) {
	t.Run("Should drop the whole turn when one exchange is broken", func(t *testing.T) {
		parsed := ParseTurns(concat(
			toolTurn(1, "search"),
			[]llmadapter.Message{
				user("broken"),
				calls(call("a", "x"), call("b", "y"), call("c", "z")),
				results(result("a", "x"), result("b", "y")),
				assistant("partial"),
			},
			toolTurn(3, "search"),
		))

		valid, removed := RemoveInvalidTurns(t.Context(), parsed.Turns)

		assert.Equal(t, 1, removed)
		require.Len(t, valid, 2)
		assert.Equal(t, "question 1", valid[0].UserMessage.Content.Text)
		assert.Equal(t, "question 3", valid[1].UserMessage.Content.Text)
	})

	t.Run("Should keep every valid turn", func(t *testing.T) {
		parsed := ParseTurns(concat(toolTurn(1, "a"), toolTurn(2, "b")))

		valid, removed := RemoveInvalidTurns(t.Context(), parsed.Turns)

		assert.Zero(t, removed)
		assert.Len(t, valid, 2)
	})
}

func TestPruneToBudget(t *testing.T) {
	tenTurns := func() []*ConversationTurn {
		var messages []llmadapter.Message
		for i := range 10 {
			messages = append(messages, toolTurn(i, "search")...)
		}
		return ParseTurns(messages).Turns
	}

	t.Run("Should not prune when the total fits", func(t *testing.T) {
		turns := tenTurns()
		system := sys("rules")

		pruned := PruneToBudget(t.Context(), &system, turns, 41, 2)

		assert.Zero(t, pruned.Removed)
		assert.Equal(t, 41, pruned.MessageTotal)
		assert.Len(t, pruned.Turns, 10)
	})

	t.Run("Should count the system message against the budget", func(t *testing.T) {
		turns := tenTurns()
		system := sys("rules")

		pruned := PruneToBudget(t.Context(), &system, turns, 40, 2)

		assert.Equal(t, 1, pruned.Removed)
		assert.Equal(t, 37, pruned.MessageTotal)
	})

	t.Run("Should remove the oldest turns first", func(t *testing.T) {
		pruned := PruneToBudget(t.Context(), nil, tenTurns(), 12, 1)

		assert.Equal(t, 7, pruned.Removed)
		require.Len(t, pruned.Turns, 3)
		assert.Equal(t, "question 7", pruned.Turns[0].UserMessage.Content.Text)
		assert.Equal(t, 12, pruned.MessageTotal)
	})

	t.Run("Should stop at the turn floor even when over budget", func(t *testing.T) {
		pruned := PruneToBudget(t.Context(), nil, tenTurns(), 5, 2)

		assert.Equal(t, 8, pruned.Removed)
		assert.Len(t, pruned.Turns, 2)
		assert.Equal(t, 8, pruned.MessageTotal)
	})
}
