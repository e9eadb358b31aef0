package obs

import (
	"sync/atomic"
	"time"
)

// Metrics collects counters and task-duration stats for one batch run.
type Metrics struct {
	tasksOK     uint64
	tasksFailed uint64
	recordsIn   uint64
	recordsOut  uint64
	warnings    uint64

	taskLatency LatencyStats
}

// LatencyStats aggregates duration samples in nanoseconds.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// Snapshot captures the current metrics values.
type Snapshot struct {
	TasksOK     uint64
	TasksFailed uint64
	RecordsIn   uint64
	RecordsOut  uint64
	Warnings    uint64
	TaskLatency LatencySnapshot
}

// NewMetrics allocates a metrics container.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// ObserveTask records one finished task with its duration.
func (m *Metrics) ObserveTask(d time.Duration, err error) {
	if m == nil {
		return
	}
	if err != nil {
		atomic.AddUint64(&m.tasksFailed, 1)
	} else {
		atomic.AddUint64(&m.tasksOK, 1)
	}
	m.taskLatency.Observe(d)
}

// AddRecords accumulates the record flow of one task.
func (m *Metrics) AddRecords(in, out uint64) {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.recordsIn, in)
	atomic.AddUint64(&m.recordsOut, out)
}

// IncWarning counts a non-fatal anomaly such as a truncated tail or a
// header count mismatch.
func (m *Metrics) IncWarning() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.warnings, 1)
}

// Snapshot returns a copy of the current metrics values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	return Snapshot{
		TasksOK:     atomic.LoadUint64(&m.tasksOK),
		TasksFailed: atomic.LoadUint64(&m.tasksFailed),
		RecordsIn:   atomic.LoadUint64(&m.recordsIn),
		RecordsOut:  atomic.LoadUint64(&m.recordsOut),
		Warnings:    atomic.LoadUint64(&m.warnings),
		TaskLatency: m.taskLatency.Snapshot(),
	}
}

// Observe folds one duration sample into the stats.
func (l *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	nanos := uint64(d)
	atomic.AddUint64(&l.count, 1)
	atomic.AddUint64(&l.sum, nanos)

	for {
		min := atomic.LoadUint64(&l.min)
		if min != 0 && nanos >= min {
			break
		}
		if atomic.CompareAndSwapUint64(&l.min, min, nanos) {
			break
		}
	}

	for {
		max := atomic.LoadUint64(&l.max)
		if nanos <= max {
			break
		}
		if atomic.CompareAndSwapUint64(&l.max, max, nanos) {
			break
		}
	}
}

// Snapshot returns the aggregated latency stats.
func (l *LatencyStats) Snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&l.count)
	if count == 0 {
		return LatencySnapshot{}
	}
	sum := atomic.LoadUint64(&l.sum)
	min := atomic.LoadUint64(&l.min)
	max := atomic.LoadUint64(&l.max)
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(min),
		Max:   time.Duration(max),
		Avg:   time.Duration(sum / count),
	}
}
