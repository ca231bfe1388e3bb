package contextmetrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	PathFast = "fast"
	PathFull = "full"

	metricTrimTotal           = "ctxkeeper_trim_total"
	metricMessagesRemoved     = "ctxkeeper_messages_removed_total"
	metricTurnsRemoved        = "ctxkeeper_turns_removed_total"
	metricInvalidTurnsRemoved = "ctxkeeper_invalid_turns_removed_total"
	metricToolsDeactivated    = "ctxkeeper_tools_deactivated_total"
	metricTrimDuration        = "ctxkeeper_trim_duration_seconds"
)

// Outcome summarizes one trim invocation for metrics purposes.
type Outcome struct {
	Path                string
	MessagesRemoved     int
	TurnsRemoved        int
	InvalidTurnsRemoved int
	ToolsDeactivated    int
	OverBudget          bool
	Duration            time.Duration
}

// Recorder captures context trimming metrics.
type Recorder interface {
	RecordTrim(ctx context.Context, outcome Outcome)
}

type recorder struct {
	trims               metric.Int64Counter
	messagesRemoved     metric.Int64Counter
	turnsRemoved        metric.Int64Counter
	invalidTurnsRemoved metric.Int64Counter
	toolsDeactivated    metric.Int64Counter
	duration            metric.Float64Histogram
}

// NewRecorder builds the OpenTelemetry instruments on the given meter.
func NewRecorder(meter metric.Meter) (Recorder, error) {
	if meter == nil {
		return Nop(), nil
	}
	trims, err := meter.Int64Counter(
		metricTrimTotal,
		metric.WithDescription("Context trim invocations by path"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricTrimTotal, err)
	}
	messagesRemoved, err := meter.Int64Counter(
		metricMessagesRemoved,
		metric.WithDescription("Messages dropped from the model context"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricMessagesRemoved, err)
	}
	turnsRemoved, err := meter.Int64Counter(
		metricTurnsRemoved,
		metric.WithDescription("Valid turns pruned to fit the message budget"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricTurnsRemoved, err)
	}
	invalidTurnsRemoved, err := meter.Int64Counter(
		metricInvalidTurnsRemoved,
		metric.WithDescription("Turns dropped for violating tool call pairing"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricInvalidTurnsRemoved, err)
	}
	toolsDeactivated, err := meter.Int64Counter(
		metricToolsDeactivated,
		metric.WithDescription("Tools deactivated because their evidence left the context"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricToolsDeactivated, err)
	}
	duration, err := meter.Float64Histogram(
		metricTrimDuration,
		metric.WithDescription("Context trim latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricTrimDuration, err)
	}
	return &recorder{
		trims:               trims,
		messagesRemoved:     messagesRemoved,
		turnsRemoved:        turnsRemoved,
		invalidTurnsRemoved: invalidTurnsRemoved,
		toolsDeactivated:    toolsDeactivated,
		duration:            duration,
	}, nil
}

func (r *recorder) RecordTrim(ctx context.Context, outcome Outcome) {
	attrs := metric.WithAttributes(
		attribute.String("path", outcome.Path),
		attribute.Bool("over_budget", outcome.OverBudget),
	)
	r.trims.Add(ctx, 1, attrs)
	r.duration.Record(ctx, outcome.Duration.Seconds(), attrs)
	if outcome.MessagesRemoved > 0 {
		r.messagesRemoved.Add(ctx, int64(outcome.MessagesRemoved))
	}
	if outcome.TurnsRemoved > 0 {
		r.turnsRemoved.Add(ctx, int64(outcome.TurnsRemoved))
	}
	if outcome.InvalidTurnsRemoved > 0 {
		r.invalidTurnsRemoved.Add(ctx, int64(outcome.InvalidTurnsRemoved))
	}
	if outcome.ToolsDeactivated > 0 {
		r.toolsDeactivated.Add(ctx, int64(outcome.ToolsDeactivated))
	}
}

type nopRecorder struct{}

// Nop returns a Recorder that discards everything.
func Nop() Recorder {
	return nopRecorder{}
}

func (nopRecorder) RecordTrim(context.Context, Outcome) {}
