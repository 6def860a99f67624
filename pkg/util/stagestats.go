package util

import (
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

// StageStats snapshots memory and wall-clock state at the start of one
// compilation stage (AST lowering, codegen) so Log can report how much that
// stage cost once it finishes. Grounded on the teacher's allocation-snapshot
// technique (runtime.MemStats captured at start and again at Log time), tied
// here to the named stages of spec.md §4.6/§4.7 rather than a generic prefix
// string.
type StageStats struct {
	stage     string
	startTime time.Time
	startMem  uint64
	startGc   uint32
}

// NewStageStats begins tracking stage, snapshotting the current allocation
// counters.
func NewStageStats(stage string) *StageStats {
	var m runtime.MemStats

	runtime.ReadMemStats(&m)

	return &StageStats{stage: stage, startTime: time.Now(), startMem: m.TotalAlloc, startGc: m.NumGC}
}

// Log emits a structured summary of the stage's cost since NewStageStats was
// called: wall-clock seconds, megabytes allocated, and GC cycles triggered.
func (p *StageStats) Log() {
	var m runtime.MemStats

	runtime.ReadMemStats(&m)

	logrus.WithFields(logrus.Fields{
		"stage":     p.stage,
		"seconds":   time.Since(p.startTime).Seconds(),
		"alloc_mb":  (m.TotalAlloc - p.startMem) / 1024 / 1024,
		"gc_events": m.NumGC - p.startGc,
		"heap_mb":   m.Alloc / 1024 / 1024,
	}).Debug("compilation stage finished")
}
