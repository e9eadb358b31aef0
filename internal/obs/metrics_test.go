package obs

import (
	"errors"
	"testing"
	"time"
)

func TestMetricsCounts(t *testing.T) {
	m := NewMetrics()
	m.ObserveTask(10*time.Millisecond, nil)
	m.ObserveTask(30*time.Millisecond, nil)
	m.ObserveTask(20*time.Millisecond, errors.New("boom"))
	m.AddRecords(100, 40)
	m.AddRecords(50, 10)
	m.IncWarning()

	s := m.Snapshot()
	if s.TasksOK != 2 || s.TasksFailed != 1 {
		t.Fatalf("task counts: got %d/%d want 2/1", s.TasksOK, s.TasksFailed)
	}
	if s.RecordsIn != 150 || s.RecordsOut != 50 {
		t.Fatalf("record counts: got %d/%d want 150/50", s.RecordsIn, s.RecordsOut)
	}
	if s.Warnings != 1 {
		t.Fatalf("warnings: got %d want 1", s.Warnings)
	}
	if s.TaskLatency.Count != 3 {
		t.Fatalf("latency count: got %d want 3", s.TaskLatency.Count)
	}
	if s.TaskLatency.Min != 10*time.Millisecond || s.TaskLatency.Max != 30*time.Millisecond {
		t.Fatalf("latency bounds: got %v/%v", s.TaskLatency.Min, s.TaskLatency.Max)
	}
	if s.TaskLatency.Avg != 20*time.Millisecond {
		t.Fatalf("latency avg: got %v want 20ms", s.TaskLatency.Avg)
	}
}

func TestNilMetricsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveTask(time.Second, nil)
	m.AddRecords(1, 1)
	m.IncWarning()
	if s := m.Snapshot(); s.TasksOK != 0 {
		t.Fatalf("nil metrics snapshot must be zero")
	}
}
