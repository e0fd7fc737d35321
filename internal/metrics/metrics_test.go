package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordMetadataLoad("store", "success")
		m.SetCatalogSize(1, 2)
		m.RecordSelectionEvent("drawing_clicked")
		m.RecordAssetRequest("MEMORY", "hit", time.Millisecond)
		m.SetActiveSessions(3)
		m.RecordStream(10, time.Millisecond)
	})
}

func TestMetrics_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordMetadataLoad("http", "failure")
	m.RecordMetadataLoad("http", "failure")
	m.SetCatalogSize(7, 3)
	m.RecordAssetRequest("REDIS", "hit", 2*time.Millisecond)
	m.RecordStream(1024, 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.metadataLoads.WithLabelValues("http", "failure")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.drawings))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.disciplines))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.assetRequests.WithLabelValues("REDIS", "hit")))
	assert.Equal(t, 1024.0, testutil.ToFloat64(m.streamedBytes))

	count, err := testutil.GatherAndCount(reg, "drawing_asset_latency_ms")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAssetTrace_ServerTiming(t *testing.T) {
	trace := NewAssetTrace("drawings/a.png")

	trace.Attempt("MEMORY")(false, nil)
	trace.Attempt("REDIS")(false, errors.New("connection refused"))
	trace.Attempt("STORE")(false, nil)
	trace.Finish("STORE", 42)

	assert.Equal(t, "STORE", trace.LayerUsed)
	assert.False(t, trace.CacheHit)
	assert.Equal(t, int64(42), trace.Size)
	require.Len(t, trace.Layers, 3)
	assert.Equal(t, "connection refused", trace.Layers[1].Error)

	parts := strings.Split(trace.ServerTiming(), ", ")
	require.Len(t, parts, 4)
	assert.True(t, strings.HasPrefix(parts[0], "memory;dur="))
	assert.True(t, strings.HasPrefix(parts[1], "redis;dur="))
	assert.True(t, strings.HasPrefix(parts[3], "total;dur="))
}

func TestAssetTrace_FirstHitWins(t *testing.T) {
	trace := NewAssetTrace("k")
	trace.Attempt("FILESYSTEM")(true, nil)
	trace.Finish("STORE", 1)

	assert.True(t, trace.CacheHit)
	assert.Equal(t, "FILESYSTEM", trace.LayerUsed)
}

func TestWarmupReport_Summary(t *testing.T) {
	report := NewWarmupReport(4)
	report.Layer("MEMORY").SuccessCount = 2
	report.Layer("STORE").FailedCount = 1
	report.Layer("FILESYSTEM").SkippedCount = 1
	report.ErrorCount = 1
	report.TotalSize = 2 << 20
	report.Finish()

	summary := report.GetSummary()
	assert.Contains(t, summary, "4 objects (75.00% success)")
	assert.Contains(t, summary, "Total Size: 2.00 MB")

	fs := strings.Index(summary, "FILESYSTEM Layer")
	mem := strings.Index(summary, "MEMORY Layer")
	store := strings.Index(summary, "STORE Layer: 0 success, 1 failed, 0 skipped")
	assert.True(t, fs >= 0 && fs < mem && mem < store, summary)
}
