package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	importSucceededTotal atomic.Uint64
	importFailedTotal    atomic.Uint64
	importRowsTotal      atomic.Uint64
	lockAcquiredTotal    atomic.Uint64
	lockContendedTotal   atomic.Uint64

	importDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncImportSucceeded increments the committed-batch counter.
func IncImportSucceeded() {
	importSucceededTotal.Add(1)
}

// IncImportFailed increments the rejected-batch counter.
func IncImportFailed() {
	importFailedTotal.Add(1)
}

// AddImportRows adds the rows of a committed batch.
func AddImportRows(n int) {
	if n > 0 {
		importRowsTotal.Add(uint64(n))
	}
}

// IncLockAcquired increments the edit-lock acquisition counter.
func IncLockAcquired() {
	lockAcquiredTotal.Add(1)
}

// IncLockContended increments the counter of lock attempts refused
// because another operator held the record.
func IncLockContended() {
	lockContendedTotal.Add(1)
}

// ObserveImportDurationMs records an import duration in milliseconds.
func ObserveImportDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	importDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "import_succeeded_total", "Total import batches committed", importSucceededTotal.Load())
	writeCounter(&buf, "import_failed_total", "Total import batches rejected", importFailedTotal.Load())
	writeCounter(&buf, "import_rows_total", "Total candidate rows imported", importRowsTotal.Load())
	writeCounter(&buf, "lock_acquired_total", "Total edit locks acquired", lockAcquiredTotal.Load())
	writeCounter(&buf, "lock_contended_total", "Total edit lock attempts refused", lockContendedTotal.Load())
	writeHistogram(&buf, "import_duration_ms", "Import duration in milliseconds", importDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// NowMillis returns current time in milliseconds, useful for callers without time utilities.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
