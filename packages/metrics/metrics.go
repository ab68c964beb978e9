// Package metrics collects per-request latency and outcome counters
// for a rest.Client via its response hook.
package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/fubar/jrac/packages/rest"
)

// Recorder aggregates request outcomes. Safe for concurrent use.
type Recorder struct {
	mu sync.Mutex

	totalRequests atomic.Int64
	errorRequests atomic.Int64

	// Latency histogram (in microseconds for precision)
	histogram *hdrhistogram.Histogram

	startTime time.Time
}

// Summary is a point-in-time view of collected metrics.
type Summary struct {
	Count   int64
	Errors  int64
	Min     time.Duration
	Max     time.Duration
	Mean    time.Duration
	P50     time.Duration
	P95     time.Duration
	P99     time.Duration
	Elapsed time.Duration
	RPS     float64
}

// NewRecorder creates a new Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		// Histogram: 1us to 60s range, 3 significant digits
		histogram: hdrhistogram.New(1, 60_000_000, 3),
		startTime: time.Now(),
	}
}

// Record adds one exchange to the counters and histogram.
func (r *Recorder) Record(duration time.Duration, err error) {
	r.totalRequests.Add(1)
	if err != nil {
		r.errorRequests.Add(1)
	}

	r.mu.Lock()
	_ = r.histogram.RecordValue(duration.Microseconds())
	r.mu.Unlock()
}

// Hook adapts the recorder to a rest.ResponseHook.
func (r *Recorder) Hook() rest.ResponseHook {
	return func(req *http.Request, resp *rest.Response, err error, duration time.Duration) {
		r.Record(duration, err)
	}
}

// Summary captures the current aggregates.
func (r *Recorder) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	elapsed := time.Since(r.startTime)
	count := r.totalRequests.Load()

	s := Summary{
		Count:   count,
		Errors:  r.errorRequests.Load(),
		Elapsed: elapsed,
	}
	if count > 0 {
		s.Min = time.Duration(r.histogram.Min()) * time.Microsecond
		s.Max = time.Duration(r.histogram.Max()) * time.Microsecond
		s.Mean = time.Duration(r.histogram.Mean()) * time.Microsecond
		s.P50 = time.Duration(r.histogram.ValueAtQuantile(50)) * time.Microsecond
		s.P95 = time.Duration(r.histogram.ValueAtQuantile(95)) * time.Microsecond
		s.P99 = time.Duration(r.histogram.ValueAtQuantile(99)) * time.Microsecond
	}
	if elapsed > 0 {
		s.RPS = float64(count) / elapsed.Seconds()
	}
	return s
}

// Reset clears all counters and restarts the elapsed clock.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.totalRequests.Store(0)
	r.errorRequests.Store(0)
	r.histogram.Reset()
	r.startTime = time.Now()
}
