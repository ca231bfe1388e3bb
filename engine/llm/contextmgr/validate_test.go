package contextmgr

import (
	"testing"

	llmadapter "github.com/compozy/ctxkeeper/engine/llm/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMessages(t *testing.T) {
	t.Run("Should report an orphaned tool message", func(t *testing.T) {
		report, err := ValidateMessages(t.Context(), []llmadapter.Message{
			user("Hi"),
			results(result("99", "getPage")),
		})

		require.NoError(t, err)
		assert.False(t, report.IsValid)
		assert.Len(t, report.OrphanedMessages, 1)
		require.Len(t, report.Issues, 1)
		assert.Contains(t, report.Issues[0], "1 orphaned message")
	})

	t.Run("Should accept a well-formed history", func(t *testing.T) {
		report, err := ValidateMessages(t.Context(), concat(
			[]llmadapter.Message{sys("rules")},
			toolTurn(1, "search"),
			toolTurn(2, "getPage"),
		))

		require.NoError(t, err)
		assert.True(t, report.IsValid)
		assert.Equal(t, []string{}, report.Issues)
		assert.Equal(t, []llmadapter.Message{}, report.OrphanedMessages)
		assert.Equal(t, 2, report.TurnCount)
		assert.Zero(t, report.InvalidTurns)
	})

	t.Run("Should prefix issues with turn and exchange", func(t *testing.T) {
		report, err := ValidateMessages(t.Context(), concat(
			toolTurn(1, "search"),
			[]llmadapter.Message{
				user("broken"),
				calls(call("a", "x"), call("b", "y"), call("c", "z")),
				results(result("a", "x"), result("b", "y")),
			},
		))

		require.NoError(t, err)
		assert.False(t, report.IsValid)
		assert.Equal(t, 1, report.InvalidTurns)
		assert.Equal(t, []string{"turn[1]: exchange[0]: Missing tool result for call ID: c"}, report.Issues)
	})

	t.Run("Should report tool parts carried by the wrong role", func(t *testing.T) {
		misplaced := llmadapter.Message{
			Role:    llmadapter.RoleUser,
			Content: llmadapter.PartsContent(call("a", "getPage")),
		}

		report, err := ValidateMessages(t.Context(), []llmadapter.Message{misplaced, assistant("ok")})

		require.NoError(t, err)
		assert.False(t, report.IsValid)
		assert.Zero(t, report.InvalidTurns)
		assert.Equal(t, []string{`message[0]: role "user" cannot contain tool calls`}, report.Issues)
	})

	t.Run("Should reject nil messages", func(t *testing.T) {
		_, err := ValidateMessages(t.Context(), nil)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}
