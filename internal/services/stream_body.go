package services

import (
	"io"
	"sync"
	"time"

	"drawing-service/internal/metrics"
)

// countingReadCloser wraps an uncached store body and reports the streamed
// bytes and read time once the body is closed.
type countingReadCloser struct {
	rc        io.ReadCloser
	metrics   *metrics.Metrics
	bytes     int64
	sumRead   time.Duration
	closeOnce sync.Once
}

func newCountingRC(rc io.ReadCloser, m *metrics.Metrics) *countingReadCloser {
	return &countingReadCloser{rc: rc, metrics: m}
}

func (c *countingReadCloser) Read(p []byte) (int, error) {
	t0 := time.Now()
	n, err := c.rc.Read(p)
	c.sumRead += time.Since(t0)
	c.bytes += int64(n)
	return n, err
}

func (c *countingReadCloser) Close() error {
	err := c.rc.Close()
	c.closeOnce.Do(func() {
		c.metrics.RecordStream(c.bytes, c.sumRead)
	})
	return err
}

func (c *countingReadCloser) Stats() (bytes int64, readTime time.Duration) {
	return c.bytes, c.sumRead
}
