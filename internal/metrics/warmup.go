package metrics

import (
	"fmt"
	"sort"
	"time"
)

// WarmupReport summarizes a cache warm-up run over the catalog's images.
type WarmupReport struct {
	StartTime      time.Time                      `json:"-"`
	TotalLatencyMs float64                        `json:"totalLatencyMs"`
	ObjectCount    int                            `json:"objectCount"`
	TotalSize      int64                          `json:"totalSize"`
	ErrorCount     int                            `json:"errorCount"`
	LayerMetrics   map[string]*WarmupLayerMetrics `json:"layerMetrics"`
}

type WarmupLayerMetrics struct {
	LayerName    string `json:"layerName"`
	SuccessCount int    `json:"successCount"`
	FailedCount  int    `json:"failedCount"`
	SkippedCount int    `json:"skippedCount"`
	TotalSize    int64  `json:"totalSize"`
}

func NewWarmupReport(objectCount int) *WarmupReport {
	return &WarmupReport{
		StartTime:    time.Now(),
		ObjectCount:  objectCount,
		LayerMetrics: make(map[string]*WarmupLayerMetrics),
	}
}

// Layer returns the entry for layerName, creating it on first use.
func (r *WarmupReport) Layer(layerName string) *WarmupLayerMetrics {
	layer, ok := r.LayerMetrics[layerName]
	if !ok {
		layer = &WarmupLayerMetrics{LayerName: layerName}
		r.LayerMetrics[layerName] = layer
	}
	return layer
}

func (r *WarmupReport) Finish() {
	r.TotalLatencyMs = millis(time.Since(r.StartTime))
}

// GetSummary returns a human-readable summary for the log.
func (r *WarmupReport) GetSummary() string {
	successRate := 100.0
	if r.ObjectCount > 0 {
		successRate = float64(r.ObjectCount-r.ErrorCount) / float64(r.ObjectCount) * 100
	}

	summary := fmt.Sprintf(
		"Warm-up Summary: %d objects (%.2f%% success), Total Size: %.2f MB, Duration: %.2f ms",
		r.ObjectCount, successRate, float64(r.TotalSize)/(1024*1024), r.TotalLatencyMs,
	)

	names := make([]string, 0, len(r.LayerMetrics))
	for name := range r.LayerMetrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		layer := r.LayerMetrics[name]
		summary += fmt.Sprintf("\n  %s Layer: %d success, %d failed, %d skipped",
			name, layer.SuccessCount, layer.FailedCount, layer.SkippedCount)
	}
	return summary
}
