package metrics

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// AssetTrace records the latency of each cache layer consulted while
// serving one asset.
type AssetTrace struct {
	mu sync.Mutex

	start          time.Time
	Key            string         `json:"key"`
	Layers         []LayerAttempt `json:"layers"`
	LayerUsed      string         `json:"layerUsed"`
	CacheHit       bool           `json:"cacheHit"`
	Size           int64          `json:"size"`
	TotalLatencyMs float64        `json:"totalLatencyMs"`
}

type LayerAttempt struct {
	LayerName string  `json:"layerName"`
	LatencyMs float64 `json:"latencyMs"`
	Hit       bool    `json:"hit"`
	Error     string  `json:"error,omitempty"`
}

func NewAssetTrace(key string) *AssetTrace {
	return &AssetTrace{
		start:  time.Now(),
		Key:    key,
		Layers: make([]LayerAttempt, 0, 4),
	}
}

// Attempt starts timing a layer. The returned func ends it.
func (t *AssetTrace) Attempt(layerName string) func(hit bool, err error) {
	started := time.Now()
	return func(hit bool, err error) {
		attempt := LayerAttempt{
			LayerName: layerName,
			LatencyMs: millis(time.Since(started)),
			Hit:       hit,
		}
		if err != nil {
			attempt.Error = err.Error()
		}

		t.mu.Lock()
		defer t.mu.Unlock()
		t.Layers = append(t.Layers, attempt)
		if hit && !t.CacheHit {
			t.CacheHit = true
			t.LayerUsed = layerName
		}
	}
}

// Finish closes the trace. layer names the source when no cache layer hit.
func (t *AssetTrace) Finish(layer string, size int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.LayerUsed == "" {
		t.LayerUsed = layer
	}
	t.Size = size
	t.TotalLatencyMs = millis(time.Since(t.start))
}

func (t *AssetTrace) Elapsed() time.Duration {
	return time.Since(t.start)
}

// ServerTiming renders the trace as a Server-Timing header value.
func (t *AssetTrace) ServerTiming() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	parts := make([]string, 0, len(t.Layers)+1)
	for _, layer := range t.Layers {
		parts = append(parts, fmt.Sprintf("%s;dur=%.3f", strings.ToLower(layer.LayerName), layer.LatencyMs))
	}
	parts = append(parts, fmt.Sprintf("total;dur=%.3f", t.TotalLatencyMs))
	return strings.Join(parts, ", ")
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
