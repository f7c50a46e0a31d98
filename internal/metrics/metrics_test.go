package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestCounter(t *testing.T) {
	counter := NewCounter("test_counter")

	if counter.Get() != 0 {
		t.Errorf("Expected initial value 0, got %d", counter.Get())
	}

	counter.Inc()
	if counter.Get() != 1 {
		t.Errorf("Expected value 1 after Inc(), got %d", counter.Get())
	}

	counter.Add(5)
	if counter.Get() != 6 {
		t.Errorf("Expected value 6 after Add(5), got %d", counter.Get())
	}

	counter.Reset()
	if counter.Get() != 0 {
		t.Errorf("Expected value 0 after Reset(), got %d", counter.Get())
	}

	if counter.Name() != "test_counter" {
		t.Errorf("Expected name 'test_counter', got %s", counter.Name())
	}
}

func TestCounterConcurrent(t *testing.T) {
	counter := NewCounter("concurrent")
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				counter.Inc()
			}
		}()
	}
	wg.Wait()

	if counter.Get() != 1000 {
		t.Errorf("Expected 1000, got %d", counter.Get())
	}
}

func TestGauge(t *testing.T) {
	gauge := NewGauge("test_gauge")

	if gauge.Get() != 0 {
		t.Errorf("Expected initial value 0, got %f", gauge.Get())
	}

	gauge.Set(10.5)
	if gauge.Get() != 10.5 {
		t.Errorf("Expected value 10.5 after Set(10.5), got %f", gauge.Get())
	}
}

func TestTimer(t *testing.T) {
	timer := NewTimer("test_timer")

	if timer.Count() != 0 {
		t.Errorf("Expected initial count 0, got %d", timer.Count())
	}
	if timer.MinTime() != 0 {
		t.Errorf("Expected min time 0 before any record, got %v", timer.MinTime())
	}

	timer.Record(10 * time.Millisecond)
	timer.Record(30 * time.Millisecond)
	timer.Record(20 * time.Millisecond)

	if timer.Count() != 3 {
		t.Errorf("Expected count 3, got %d", timer.Count())
	}
	if timer.MinTime() != 10*time.Millisecond {
		t.Errorf("Expected min 10ms, got %v", timer.MinTime())
	}
	if timer.MaxTime() != 30*time.Millisecond {
		t.Errorf("Expected max 30ms, got %v", timer.MaxTime())
	}
	if timer.LastTime() != 20*time.Millisecond {
		t.Errorf("Expected last 20ms, got %v", timer.LastTime())
	}
	if timer.AvgTime() != 20*time.Millisecond {
		t.Errorf("Expected avg 20ms, got %v", timer.AvgTime())
	}

	timer.Reset()
	if timer.Count() != 0 || timer.TotalTime() != 0 || timer.MinTime() != 0 {
		t.Errorf("Expected zeroed timer after Reset()")
	}
}

func TestTimerTime(t *testing.T) {
	timer := NewTimer("fn")
	ran := false
	timer.Time(func() { ran = true })

	if !ran {
		t.Error("Expected fn to run")
	}
	if timer.Count() != 1 {
		t.Errorf("Expected 1 measurement, got %d", timer.Count())
	}
}

func TestReloadStatsSnapshot(t *testing.T) {
	stats := NewReloadStats()
	stats.Reloads.Inc()
	stats.Batches.Add(3)
	stats.Edits.Add(7)
	stats.Interrupts.Inc()
	stats.CommittedRows.Set(12)
	stats.DiffTime.Record(time.Millisecond)

	snap := stats.Snapshot()
	if snap.Reloads != 1 || snap.Batches != 3 || snap.Edits != 7 || snap.Interrupts != 1 {
		t.Errorf("Unexpected snapshot %+v", snap)
	}
	if snap.CommittedRows != 12 {
		t.Errorf("Expected 12 committed rows, got %d", snap.CommittedRows)
	}
	if snap.LastDiff != time.Millisecond {
		t.Errorf("Expected last diff 1ms, got %v", snap.LastDiff)
	}

	stats.Reset()
	if s := stats.Snapshot(); s.Reloads != 0 || s.CommittedRows != 0 {
		t.Errorf("Expected zeroed snapshot after Reset(), got %+v", s)
	}
}
