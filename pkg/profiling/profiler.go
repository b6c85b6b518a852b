// Package profiling instruments core operations against the latency and memory budgets named in
// §4.8: it runs an operation a fixed number of times, optionally with bounded concurrency, and
// reports p50/p95/max latency plus whether the result stays within budget.
package profiling

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Report summarizes one profiling run's latency distribution.
type Report struct {
	Name    string
	Samples int
	P50     time.Duration
	P95     time.Duration
	Max     time.Duration
}

// WithinBudget reports whether r's P95 latency meets b's ceiling; §4.8 budgets are phrased as
// per-call costs under controlled test positions, so P95 (which, unlike Max, tolerates a few slow
// outliers) is the number judged against them.
func (r Report) WithinBudget(b Budget) bool {
	return r.P95 <= b.Max
}

func (r Report) String() string {
	return fmt.Sprintf("%v: n=%v p50=%v p95=%v max=%v", r.Name, r.Samples, r.P50, r.P95, r.Max)
}

// Sample runs fn n times under up to concurrency simultaneous workers (§5: the engine itself is
// single-threaded, but a profiling harness measuring a thread-safe operation like movegen or the
// evaluator benefits from concurrent sampling to amortize wall-clock cost), timing each call
// individually, and returns the aggregate latency distribution. The first error from fn aborts
// the remaining samples and is returned.
func Sample(ctx context.Context, name string, n, concurrency int, fn func(ctx context.Context) error) (Report, error) {
	if concurrency <= 0 {
		concurrency = 1
	}

	var mu sync.Mutex
	durations := make([]time.Duration, 0, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err // an earlier sample failed (or ctx ended): skip this one.
			}
			start := time.Now()
			if err := fn(gctx); err != nil {
				return err
			}
			d := time.Since(start)

			mu.Lock()
			durations = append(durations, d)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	return summarize(name, durations), nil
}

func summarize(name string, durations []time.Duration) Report {
	if len(durations) == 0 {
		return Report{Name: name}
	}

	sorted := append([]time.Duration(nil), durations...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	percentile := func(p float64) time.Duration {
		idx := int(p * float64(len(sorted)-1))
		return sorted[idx]
	}

	return Report{
		Name:    name,
		Samples: len(sorted),
		P50:     percentile(0.50),
		P95:     percentile(0.95),
		Max:     sorted[len(sorted)-1],
	}
}

// MemoryReport is a point-in-time reading of the process's resident memory, checked against
// §4.8's engine-wide ≤2GB ceiling.
type MemoryReport struct {
	HeapAllocBytes uint64
	SysBytes       uint64
}

// WithinBudget reports whether the process's system-reserved memory stays under max.
func (m MemoryReport) WithinBudget(max uint64) bool {
	return m.SysBytes <= max
}

// ReadMemory snapshots current Go runtime memory statistics.
func ReadMemory() MemoryReport {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return MemoryReport{HeapAllocBytes: ms.HeapAlloc, SysBytes: ms.Sys}
}
