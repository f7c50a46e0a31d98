package metrics

import "time"

// ReloadStats groups the metrics recorded while reconciling a list
type ReloadStats struct {
	Reloads       *Counter
	Batches       *Counter
	Edits         *Counter
	Interrupts    *Counter
	FullReloads   *Counter
	Coalesced     *Counter
	DiffTime      *Timer
	CommittedRows *Gauge
}

// NewReloadStats creates a zeroed set of reload metrics
func NewReloadStats() *ReloadStats {
	return &ReloadStats{
		Reloads:       NewCounter("reloads"),
		Batches:       NewCounter("batches"),
		Edits:         NewCounter("edits"),
		Interrupts:    NewCounter("interrupts"),
		FullReloads:   NewCounter("full_reloads"),
		Coalesced:     NewCounter("coalesced"),
		DiffTime:      NewTimer("diff_time"),
		CommittedRows: NewGauge("committed_rows"),
	}
}

// Snapshot is a point-in-time copy of ReloadStats
type Snapshot struct {
	Reloads       int64         `json:"reloads"`
	Batches       int64         `json:"batches"`
	Edits         int64         `json:"edits"`
	Interrupts    int64         `json:"interrupts"`
	FullReloads   int64         `json:"full_reloads"`
	Coalesced     int64         `json:"coalesced"`
	LastDiff      time.Duration `json:"last_diff_ns"`
	AvgDiff       time.Duration `json:"avg_diff_ns"`
	CommittedRows int           `json:"committed_rows"`
}

// Snapshot copies the current values
func (s *ReloadStats) Snapshot() Snapshot {
	return Snapshot{
		Reloads:       s.Reloads.Get(),
		Batches:       s.Batches.Get(),
		Edits:         s.Edits.Get(),
		Interrupts:    s.Interrupts.Get(),
		FullReloads:   s.FullReloads.Get(),
		Coalesced:     s.Coalesced.Get(),
		LastDiff:      s.DiffTime.LastTime(),
		AvgDiff:       s.DiffTime.AvgTime(),
		CommittedRows: int(s.CommittedRows.Get()),
	}
}

// Reset zeroes every metric
func (s *ReloadStats) Reset() {
	s.Reloads.Reset()
	s.Batches.Reset()
	s.Edits.Reset()
	s.Interrupts.Reset()
	s.FullReloads.Reset()
	s.Coalesced.Reset()
	s.DiffTime.Reset()
	s.CommittedRows.Set(0)
}
