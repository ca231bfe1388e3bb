package contextmgr

import (
	"context"
	"fmt"
	"time"

	llmadapter "github.com/compozy/ctxkeeper/engine/llm/adapter"
	contextmetrics "github.com/compozy/ctxkeeper/engine/llm/contextmgr/metrics"
	"github.com/compozy/ctxkeeper/engine/llm/tokens"
	"github.com/compozy/ctxkeeper/pkg/logger"
)

// ToolStore is the tool-activation store the trimmer keeps in sync with the
// retained history.
type ToolStore interface {
	DiscoveredTools(ctx context.Context) ([]string, error)
	RemoveTools(ctx context.Context, names []string) error
}

// TrimResult is the outcome of TrimContext.
type TrimResult struct {
	Messages            []llmadapter.Message `json:"messages"`
	RemovedTools        []string             `json:"removedTools"`
	ActiveTools         []string             `json:"activeTools"`
	MessagesRemoved     int                  `json:"messagesRemoved"`
	TurnsRemoved        int                  `json:"turnsRemoved"`
	InvalidTurnsRemoved int                  `json:"invalidTurnsRemoved"`
	OrphanedMessages    int                  `json:"orphanedMessages"`
	// OverBudget is set when the turn floor kept more messages than the budget.
	OverBudget   bool `json:"overBudget"`
	FastPath     bool `json:"fastPath"`
	TokensBefore int  `json:"tokensBefore,omitempty"`
	TokensAfter  int  `json:"tokensAfter,omitempty"`
}

// Trimmer trims message histories for one agent session.
type Trimmer struct {
	cfg      Config
	store    ToolStore
	counter  tokens.Counter
	recorder contextmetrics.Recorder
}

// Option configures a Trimmer.
type Option func(*Trimmer)

// WithTokenCounter reports token totals before and after trimming.
func WithTokenCounter(counter tokens.Counter) Option {
	return func(t *Trimmer) {
		t.counter = counter
	}
}

// WithRecorder sends trim outcomes to recorder. A nil recorder keeps the no-op default.
func WithRecorder(recorder contextmetrics.Recorder) Option {
	return func(t *Trimmer) {
		if recorder != nil {
			t.recorder = recorder
		}
	}
}

// NewTrimmer validates cfg and binds the trimmer to a session tool store.
func NewTrimmer(cfg Config, store ToolStore, opts ...Option) (*Trimmer, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: tool store is required", ErrInvalidArgument)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &Trimmer{
		cfg:      cfg,
		store:    store,
		recorder: contextmetrics.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// TrimContext builds a Trimmer for a single call.
func TrimContext(
	ctx context.Context,
	messages []llmadapter.Message,
	store ToolStore,
	cfg Config,
) (*TrimResult, error) {
	trimmer, err := NewTrimmer(cfg, store)
	if err != nil {
		return nil, err
	}
	return trimmer.TrimContext(ctx, messages)
}

// TrimContext returns a contract-valid history that fits the message budget
// and deactivates tools whose evidence was pruned away. Histories already
// within budget are returned untouched.
func (t *Trimmer) TrimContext(ctx context.Context, messages []llmadapter.Message) (*TrimResult, error) {
	if messages == nil {
		return nil, fmt.Errorf("%w: messages cannot be nil", ErrInvalidArgument)
	}
	start := time.Now()
	if len(messages) <= t.cfg.MaxMessages {
		return t.fastPath(ctx, messages, start)
	}
	log := logger.FromContext(ctx)
	toolsBefore := ToolNames(messages)
	redacted := Redact(messages, t.cfg.redactionPolicy())
	parsed := ParseTurns(redacted)
	if len(parsed.OrphanedMessages) > 0 {
		log.Warn("Discarding orphaned messages", "count", len(parsed.OrphanedMessages))
	}
	valid, invalidRemoved := RemoveInvalidTurns(ctx, parsed.Turns)
	pruned := PruneToBudget(ctx, parsed.SystemMessage, valid, t.cfg.MaxMessages, t.cfg.MinTurnsToKeep)
	trimmed := llmadapter.CloneMessages(Flatten(parsed.SystemMessage, pruned.Turns))
	removedTools := DiffTools(toolsBefore, TurnToolNames(pruned.Turns))
	if len(removedTools) > 0 {
		if err := t.store.RemoveTools(ctx, removedTools); err != nil {
			return nil, fmt.Errorf("deactivate tools: %w", err)
		}
		log.Info("Deactivated tools no longer visible in context", "tools", removedTools)
	}
	active, err := t.store.DiscoveredTools(ctx)
	if err != nil {
		return nil, fmt.Errorf("read active tools: %w", err)
	}
	result := &TrimResult{
		Messages:            trimmed,
		RemovedTools:        removedTools,
		ActiveTools:         active,
		MessagesRemoved:     len(messages) - len(trimmed),
		TurnsRemoved:        pruned.Removed,
		InvalidTurnsRemoved: invalidRemoved,
		OrphanedMessages:    len(parsed.OrphanedMessages),
		OverBudget:          len(trimmed) > t.cfg.MaxMessages,
	}
	if result.OverBudget {
		log.Warn(
			"Context still exceeds message budget at the minimum turn floor",
			"messages", len(trimmed),
			"max_messages", t.cfg.MaxMessages,
			"min_turns_to_keep", t.cfg.MinTurnsToKeep,
		)
	}
	t.countTokens(ctx, messages, result)
	t.recorder.RecordTrim(ctx, contextmetrics.Outcome{
		Path:                contextmetrics.PathFull,
		MessagesRemoved:     result.MessagesRemoved,
		TurnsRemoved:        result.TurnsRemoved,
		InvalidTurnsRemoved: result.InvalidTurnsRemoved,
		ToolsDeactivated:    len(removedTools),
		OverBudget:          result.OverBudget,
		Duration:            time.Since(start),
	})
	log.Debug(
		"Context trimmed",
		"messages_in", len(messages),
		"messages_out", len(trimmed),
		"turns_removed", result.TurnsRemoved,
		"invalid_turns_removed", result.InvalidTurnsRemoved,
	)
	return result, nil
}

func (t *Trimmer) fastPath(ctx context.Context, messages []llmadapter.Message, start time.Time) (*TrimResult, error) {
	active, err := t.store.DiscoveredTools(ctx)
	if err != nil {
		return nil, fmt.Errorf("read active tools: %w", err)
	}
	result := &TrimResult{
		Messages:     messages,
		RemovedTools: []string{},
		ActiveTools:  active,
		FastPath:     true,
	}
	t.countTokens(ctx, messages, result)
	t.recorder.RecordTrim(ctx, contextmetrics.Outcome{
		Path:     contextmetrics.PathFast,
		Duration: time.Since(start),
	})
	return result, nil
}

// countTokens fills the token diagnostics; failures only cost the numbers.
func (t *Trimmer) countTokens(ctx context.Context, original []llmadapter.Message, result *TrimResult) {
	if t.counter == nil {
		return
	}
	before, err := t.counter.CountMessages(ctx, original)
	if err != nil {
		logger.FromContext(ctx).Warn("Failed to count context tokens", "error", err)
		return
	}
	after := before
	if !result.FastPath {
		after, err = t.counter.CountMessages(ctx, result.Messages)
		if err != nil {
			logger.FromContext(ctx).Warn("Failed to count context tokens", "error", err)
			return
		}
	}
	result.TokensBefore = before
	result.TokensAfter = after
}
