package contextmgr

import (
	llmadapter "github.com/compozy/ctxkeeper/engine/llm/adapter"
)

// AssistantExchange pairs an assistant message with the tool message that
// immediately follows it, if any.
type AssistantExchange struct {
	AssistantMessage llmadapter.Message
	ToolMessage      *llmadapter.Message
	IsValid          bool
}

// ToolCallIDs returns the distinct call identifiers requested by the assistant.
func (e *AssistantExchange) ToolCallIDs() []string {
	return uniqueIDs(e.AssistantMessage.ToolCallIDs())
}

// ToolResultIDs returns the distinct call identifiers answered by the tool message.
func (e *AssistantExchange) ToolResultIDs() []string {
	if e.ToolMessage == nil {
		return nil
	}
	return uniqueIDs(e.ToolMessage.ToolResultIDs())
}

func (e *AssistantExchange) messageCount() int {
	if e.ToolMessage != nil {
		return 2
	}
	return 1
}

// ConversationTurn is one user message and every exchange before the next
// user message. A nil UserMessage marks a preamble turn: assistant activity
// seen before any user message.
type ConversationTurn struct {
	UserMessage  *llmadapter.Message
	Exchanges    []*AssistantExchange
	IsValid      bool
	MessageCount int
}

func (t *ConversationTurn) IsPreamble() bool {
	return t.UserMessage == nil
}

func (t *ConversationTurn) addExchange(exchange *AssistantExchange) {
	t.Exchanges = append(t.Exchanges, exchange)
	t.MessageCount += exchange.messageCount()
}

// ParseResult is a segmented message history.
type ParseResult struct {
	SystemMessage    *llmadapter.Message
	Turns            []*ConversationTurn
	OrphanedMessages []llmadapter.Message
}

type turnParser struct {
	result  ParseResult
	current *ConversationTurn
	pending *llmadapter.Message
}

// ParseTurns groups a flat message list into conversation turns.
func ParseTurns(messages []llmadapter.Message) *ParseResult {
	p := &turnParser{}
	for i := range messages {
		msg := messages[i]
		switch msg.Role {
		case llmadapter.RoleSystem:
			p.result.SystemMessage = &msg
		case llmadapter.RoleUser:
			p.flushPending()
			p.closeTurn()
			p.current = &ConversationTurn{UserMessage: &msg, MessageCount: 1}
		case llmadapter.RoleAssistant:
			if p.current == nil {
				p.current = &ConversationTurn{}
			}
			p.flushPending()
			p.pending = &msg
		case llmadapter.RoleTool:
			if p.pending == nil {
				p.result.OrphanedMessages = append(p.result.OrphanedMessages, msg)
				continue
			}
			p.current.addExchange(&AssistantExchange{AssistantMessage: *p.pending, ToolMessage: &msg})
			p.pending = nil
		default:
			p.result.OrphanedMessages = append(p.result.OrphanedMessages, msg)
		}
	}
	p.flushPending()
	p.closeTurn()
	return &p.result
}

// flushPending records a waiting assistant message as a tool-less exchange.
func (p *turnParser) flushPending() {
	if p.pending == nil {
		return
	}
	p.current.addExchange(&AssistantExchange{AssistantMessage: *p.pending})
	p.pending = nil
}

func (p *turnParser) closeTurn() {
	if p.current == nil {
		return
	}
	p.result.Turns = append(p.result.Turns, p.current)
	p.current = nil
}

func uniqueIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
