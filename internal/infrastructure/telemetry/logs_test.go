package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type memoryExporter struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (e *memoryExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.records = append(e.records, r.Clone())
	}
	return nil
}

func (e *memoryExporter) Shutdown(context.Context) error   { return nil }
func (e *memoryExporter) ForceFlush(context.Context) error { return nil }

func (e *memoryExporter) bodies() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.records))
	for _, r := range e.records {
		out = append(out, r.Body().AsString())
	}
	return out
}

func TestNewLoggerProvider_Disabled(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{ServiceName: "settlement"}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.ForceFlush(context.Background()))
	assert.NoError(t, lp.Shutdown(context.Background()))

	core := lp.Core(zapcore.InfoLevel)
	assert.False(t, core.Enabled(zapcore.ErrorLevel))
}

func TestLoggerProvider_CoreFiltersByLevel(t *testing.T) {
	exporter := &memoryExporter{}
	lp := newLoggerProviderWith(LogsConfig{ServiceName: "settlement"}, zap.NewNop(), sdklog.NewSimpleProcessor(exporter))
	t.Cleanup(func() { _ = lp.Shutdown(context.Background()) })

	logger := zap.New(lp.Core(zapcore.WarnLevel)).With(zap.String("order_id", "o-1"))
	logger.Info("settled")
	logger.Warn("negative stock")
	logger.Error("posting failed")
	require.NoError(t, lp.ForceFlush(context.Background()))

	assert.Equal(t, []string{"negative stock", "posting failed"}, exporter.bodies())

	exporter.mu.Lock()
	defer exporter.mu.Unlock()
	assert.Equal(t, log.SeverityWarn, exporter.records[0].Severity())
	var found bool
	exporter.records[0].WalkAttributes(func(kv log.KeyValue) bool {
		if kv.Key == "order_id" && kv.Value.AsString() == "o-1" {
			found = true
		}
		return true
	})
	assert.True(t, found, "fields bound with With must be exported")
}
