package contextmetrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRecorder_RecordsMetrics(t *testing.T) {
	ctx := t.Context()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	recorder, err := NewRecorder(provider.Meter("test"))
	require.NoError(t, err)

	recorder.RecordTrim(ctx, Outcome{Path: PathFast, Duration: time.Millisecond})
	recorder.RecordTrim(ctx, Outcome{
		Path:                PathFull,
		MessagesRemoved:     12,
		TurnsRemoved:        3,
		InvalidTurnsRemoved: 1,
		ToolsDeactivated:    2,
		Duration:            5 * time.Millisecond,
	})

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	sums := map[string]int64{}
	histograms := 0
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			case metricdata.Histogram[float64]:
				require.NotEmpty(t, data.DataPoints)
				histograms++
			}
		}
	}
	assert.Equal(t, int64(2), sums[metricTrimTotal])
	assert.Equal(t, int64(12), sums[metricMessagesRemoved])
	assert.Equal(t, int64(3), sums[metricTurnsRemoved])
	assert.Equal(t, int64(1), sums[metricInvalidTurnsRemoved])
	assert.Equal(t, int64(2), sums[metricToolsDeactivated])
	assert.Equal(t, 1, histograms)
}

func TestRecorder_NilMeterFallsBackToNop(t *testing.T) {
	recorder, err := NewRecorder(nil)
	require.NoError(t, err)
	recorder.RecordTrim(t.Context(), Outcome{Path: PathFull})
}

func TestRecorder_NopDoesNothing(t *testing.T) {
	Nop().RecordTrim(t.Context(), Outcome{Path: PathFast, MessagesRemoved: 1})
}
