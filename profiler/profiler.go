// Package profiler - Rolling timing and metric summaries for the capture loop.
package profiler

import (
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the samples currently held for one metric or operation.
// Operation summaries are in milliseconds.
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	P50    float64
	P95    float64
}

// ProfilingOptions configures the runtime profiler.
type ProfilingOptions struct {
	// ReportInterval specifies how often to emit status reports (default: 2s)
	ReportInterval time.Duration
	// MaxSamples specifies maximum number of samples to keep per series (default: 600)
	MaxSamples int
}

// RuntimeProfiler tracks operation timings and custom metrics over a rolling
// window and periodically logs their summaries. It is safe for concurrent use.
type RuntimeProfiler struct {
	reportInterval time.Duration
	maxSamples     int
	clock          clock.Clock
	logger         *zap.Logger

	mu         sync.RWMutex
	startTime  time.Time
	metrics    map[string][]float64
	operations map[string][]float64

	running bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewRuntimeProfiler creates a new runtime profiler with the specified options.
//
// Arguments:
// - opts: Configuration options for the profiler
// - logger: Destination for periodic reports, nil disables them
// - clk: Time source, nil uses the wall clock
//
// Returns:
// - A configured RuntimeProfiler instance
func NewRuntimeProfiler(opts ProfilingOptions, logger *zap.Logger, clk clock.Clock) *RuntimeProfiler {
	if opts.ReportInterval <= 0 {
		opts.ReportInterval = 2 * time.Second
	}
	if opts.MaxSamples <= 0 {
		opts.MaxSamples = 600
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if clk == nil {
		clk = clock.New()
	}

	return &RuntimeProfiler{
		reportInterval: opts.ReportInterval,
		maxSamples:     opts.MaxSamples,
		clock:          clk,
		logger:         logger,
		startTime:      clk.Now(),
		metrics:        make(map[string][]float64),
		operations:     make(map[string][]float64),
	}
}

// Start begins emitting periodic reports. Calling Start on a running
// profiler does nothing.
func (rp *RuntimeProfiler) Start() {
	rp.mu.Lock()
	defer rp.mu.Unlock()

	if rp.running {
		return
	}
	rp.running = true
	rp.startTime = rp.clock.Now()
	rp.done = make(chan struct{})

	ticker := rp.clock.Ticker(rp.reportInterval)
	done := rp.done

	rp.wg.Add(1)
	go func() {
		defer rp.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				rp.emitStatusReport()
			}
		}
	}()
}

// Stop stops reporting and waits for the report goroutine to exit.
func (rp *RuntimeProfiler) Stop() {
	rp.mu.Lock()
	if !rp.running {
		rp.mu.Unlock()
		return
	}
	rp.running = false
	close(rp.done)
	rp.mu.Unlock()

	rp.wg.Wait()
}

// RecordMetric records a custom metric value.
//
// Arguments:
// - name: The name of the metric
// - value: The metric value to record
func (rp *RuntimeProfiler) RecordMetric(name string, value float64) {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	rp.metrics[name] = rp.push(rp.metrics[name], value)
}

// StartOperation begins timing an operation.
//
// Arguments:
// - name: The name of the operation to track
//
// Returns:
// - A function to call when the operation completes
//
// @example
// stop := profiler.StartOperation("process")
// result, err := p.Process(frame)
// stop()
func (rp *RuntimeProfiler) StartOperation(name string) func() {
	start := rp.clock.Now()
	return func() {
		elapsed := rp.clock.Since(start)
		rp.mu.Lock()
		defer rp.mu.Unlock()
		rp.operations[name] = rp.push(rp.operations[name], float64(elapsed)/float64(time.Millisecond))
	}
}

func (rp *RuntimeProfiler) push(values []float64, v float64) []float64 {
	values = append(values, v)
	if len(values) > rp.maxSamples {
		values = values[len(values)-rp.maxSamples:]
	}
	return values
}

// Metric returns the summary of a custom metric.
func (rp *RuntimeProfiler) Metric(name string) (Summary, bool) {
	rp.mu.RLock()
	defer rp.mu.RUnlock()
	values, ok := rp.metrics[name]
	if !ok {
		return Summary{}, false
	}
	return summarize(values), true
}

// Operation returns the timing summary of an operation, in milliseconds.
func (rp *RuntimeProfiler) Operation(name string) (Summary, bool) {
	rp.mu.RLock()
	defer rp.mu.RUnlock()
	values, ok := rp.operations[name]
	if !ok {
		return Summary{}, false
	}
	return summarize(values), true
}

// summarize computes the summary of values without modifying them.
func summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	if len(sorted) < 2 {
		std = 0
	}
	return Summary{
		Count:  len(sorted),
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
		P50:    stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P95:    stat.Quantile(0.95, stat.Empirical, sorted, nil),
	}
}

func summaryFields(name string, s Summary) []zap.Field {
	return []zap.Field{
		zap.String("name", name),
		zap.Int("count", s.Count),
		zap.Float64("mean", s.Mean),
		zap.Float64("stddev", s.StdDev),
		zap.Float64("min", s.Min),
		zap.Float64("max", s.Max),
		zap.Float64("p50", s.P50),
		zap.Float64("p95", s.P95),
	}
}

// emitStatusReport logs one record for runtime state and one per series.
func (rp *RuntimeProfiler) emitStatusReport() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	rp.mu.RLock()
	defer rp.mu.RUnlock()

	rp.logger.Info("profiler report",
		zap.Duration("uptime", rp.clock.Since(rp.startTime).Truncate(time.Millisecond)),
		zap.Int("goroutines", runtime.NumGoroutine()),
		zap.Int64("cgo_calls", runtime.NumCgoCall()),
		zap.Uint64("heap_alloc", mem.HeapAlloc),
		zap.Uint32("gc_cycles", mem.NumGC))

	for name, values := range rp.operations {
		rp.logger.Info("operation timing", summaryFields(name, summarize(values))...)
	}
	for name, values := range rp.metrics {
		rp.logger.Info("metric", summaryFields(name, summarize(values))...)
	}
}
