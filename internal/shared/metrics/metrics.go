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
	rfqSubmittedTotal     atomic.Uint64
	matchCompletedTotal   atomic.Uint64
	matchFailedTotal      atomic.Uint64
	matchNeedsReviewTotal atomic.Uint64

	matchJobsReceivedTotal      atomic.Uint64
	matchJobsDeletedUnrecovered atomic.Uint64

	matchDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncRFQSubmitted increments the submitted-RFQ counter.
func IncRFQSubmitted() {
	rfqSubmittedTotal.Add(1)
}

// IncMatchCompleted increments the completed auto-match counter.
func IncMatchCompleted() {
	matchCompletedTotal.Add(1)
}

// IncMatchFailed increments the failed auto-match counter.
func IncMatchFailed() {
	matchFailedTotal.Add(1)
}

// IncMatchNeedsReview increments the zero-candidate auto-match counter.
func IncMatchNeedsReview() {
	matchNeedsReviewTotal.Add(1)
}

// IncMatchJobsReceived increments the queue-job-received counter.
func IncMatchJobsReceived() {
	matchJobsReceivedTotal.Add(1)
}

// IncMatchJobsDeletedUnrecoverable increments the counter of queue jobs
// dropped because they can never succeed (empty or malformed payloads).
func IncMatchJobsDeletedUnrecoverable() {
	matchJobsDeletedUnrecovered.Add(1)
}

// ObserveMatchDurationMs records an auto-match duration in milliseconds.
func ObserveMatchDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	matchDuration.Observe(value)
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
	writeCounter(&buf, "rfq_submitted_total", "Total RFQs submitted", rfqSubmittedTotal.Load())
	writeCounter(&buf, "rfq_match_completed_total", "Total auto-matches completed", matchCompletedTotal.Load())
	writeCounter(&buf, "rfq_match_failed_total", "Total auto-matches failed", matchFailedTotal.Load())
	writeCounter(&buf, "rfq_match_needs_review_total", "Total auto-matches escalated for admin review", matchNeedsReviewTotal.Load())
	writeCounter(&buf, "rfq_match_jobs_received_total", "Total auto-match queue jobs received", matchJobsReceivedTotal.Load())
	writeCounter(&buf, "rfq_match_jobs_deleted_unrecoverable_total", "Total unrecoverable queue jobs dropped", matchJobsDeletedUnrecovered.Load())
	writeHistogram(&buf, "rfq_match_duration_ms", "Auto-match duration in milliseconds", matchDuration.Snapshot())
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
