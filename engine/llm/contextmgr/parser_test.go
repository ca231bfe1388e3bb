package contextmgr

import (
	"testing"

	llmadapter "github.com/compozy/ctxkeeper/engine/llm/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTurns(t *testing.T) {
	t.Run("Should group messages into turns and exchanges", func(t *testing.T) {
		messages := []llmadapter.Message{
			sys("be helpful"),
			user("Hi"),
			calls(call("1", "getPage")),
			results(result("1", "getPage")),
			assistant("Here is the page"),
			user("thanks"),
			assistant("you're welcome"),
		}

		parsed := ParseTurns(messages)

		require.NotNil(t, parsed.SystemMessage)
		assert.Equal(t, "be helpful", parsed.SystemMessage.Content.Text)
		require.Len(t, parsed.Turns, 2)
		assert.Empty(t, parsed.OrphanedMessages)

		first := parsed.Turns[0]
		require.Len(t, first.Exchanges, 2)
		assert.Equal(t, 4, first.MessageCount)
		assert.NotNil(t, first.Exchanges[0].ToolMessage)
		assert.Equal(t, []string{"1"}, first.Exchanges[0].ToolCallIDs())
		assert.Equal(t, []string{"1"}, first.Exchanges[0].ToolResultIDs())
		assert.Nil(t, first.Exchanges[1].ToolMessage)

		second := parsed.Turns[1]
		assert.Equal(t, "thanks", second.UserMessage.Content.Text)
		assert.Equal(t, 2, second.MessageCount)
	})

	t.Run("Should open a preamble turn for assistant activity before any user message", func(t *testing.T) {
		parsed := ParseTurns([]llmadapter.Message{
			assistant("welcome"),
			user("Hi"),
		})

		require.Len(t, parsed.Turns, 2)
		assert.True(t, parsed.Turns[0].IsPreamble())
		assert.Equal(t, 1, parsed.Turns[0].MessageCount)
		assert.False(t, parsed.Turns[1].IsPreamble())
	})

	t.Run("Should orphan tool messages without a pending assistant", func(t *testing.T) {
		parsed := ParseTurns([]llmadapter.Message{
			user("Hi"),
			results(result("99", "getPage")),
		})

		require.Len(t, parsed.OrphanedMessages, 1)
		require.Len(t, parsed.Turns, 1)
		assert.Equal(t, 1, parsed.Turns[0].MessageCount)
	})

	t.Run("Should orphan a second tool message after the pair is complete", func(t *testing.T) {
		parsed := ParseTurns([]llmadapter.Message{
			user("Hi"),
			calls(call("1", "a")),
			results(result("1", "a")),
			results(result("2", "b")),
		})

		assert.Len(t, parsed.OrphanedMessages, 1)
		assert.Equal(t, 3, parsed.Turns[0].MessageCount)
	})

	t.Run("Should orphan messages with unknown roles", func(t *testing.T) {
		parsed := ParseTurns([]llmadapter.Message{
			user("Hi"),
			{Role: "developer", Content: llmadapter.TextContent("note")},
		})

		assert.Len(t, parsed.OrphanedMessages, 1)
	})

	t.Run("Should keep the last system message when duplicated", func(t *testing.T) {
		parsed := ParseTurns([]llmadapter.Message{sys("first"), user("Hi"), sys("second")})

		require.NotNil(t, parsed.SystemMessage)
		assert.Equal(t, "second", parsed.SystemMessage.Content.Text)
		assert.Len(t, parsed.Turns, 1)
	})

	t.Run("Should finalize consecutive assistants as tool-less exchanges", func(t *testing.T) {
		parsed := ParseTurns([]llmadapter.Message{
			user("Hi"),
			assistant("one"),
			assistant("two"),
		})

		require.Len(t, parsed.Turns, 1)
		assert.Len(t, parsed.Turns[0].Exchanges, 2)
		assert.Equal(t, 3, parsed.Turns[0].MessageCount)
	})

	t.Run("Should return no turns for empty input", func(t *testing.T) {
		parsed := ParseTurns([]llmadapter.Message{})

		assert.Nil(t, parsed.SystemMessage)
		assert.Empty(t, parsed.Turns)
	})
}

func TestAssistantExchange_IDs(t *testing.T) {
	t.Run("Should deduplicate identifiers", func(t *testing.T) {
		exchange := &AssistantExchange{AssistantMessage: calls(call("1", "a"), call("1", "a"), call("2", "b"))}

		assert.Equal(t, []string{"1", "2"}, exchange.ToolCallIDs())
		assert.Nil(t, exchange.ToolResultIDs())
	})
}
