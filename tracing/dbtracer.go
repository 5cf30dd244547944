package tracing

import (
	"sync"

	"github.com/tebeka/atexit"

	"github.com/DHRUVJ2003/brian2/datarecording"
	"github.com/DHRUVJ2003/brian2/sim"
	"github.com/DHRUVJ2003/brian2/spikegen"
)

type scheduleTableEntry struct {
	ScheduleID string
	Generator  string
	NumSpikes  int
	Period     float64
	ReplacedAt float64
}

type runStartTableEntry struct {
	ScheduleID string
	Generator  string
	Now        float64
	DT         float64
	Cursor     int
	Skipped    int
}

// DBTracer stores generator lifecycle events in a database. DBTracers can
// connect with different backends so that the events can be stored in
// different types of databases (e.g., SQLite files or a ClickHouse server).
type DBTracer struct {
	mu         sync.Mutex
	timeTeller sim.TimeTeller
	backend    datarecording.DataRecorder
}

// NewDBTracer creates a DBTracer that writes into the given recorder. The
// time teller stamps schedule replacements with the simulated time they
// happened at.
func NewDBTracer(
	timeTeller sim.TimeTeller,
	dataRecorder datarecording.DataRecorder,
) *DBTracer {
	dataRecorder.CreateTable("spike_schedules", scheduleTableEntry{})
	dataRecorder.CreateTable("run_starts", runStartTableEntry{})

	t := &DBTracer{
		timeTeller: timeTeller,
		backend:    dataRecorder,
	}

	atexit.Register(func() {
		t.backend.Flush()
	})

	return t
}

// ScheduleReplaced records the schedule that was swapped in.
func (t *DBTracer) ScheduleReplaced(
	generator string,
	update spikegen.ScheduleUpdate,
) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.backend.InsertData("spike_schedules", scheduleTableEntry{
		ScheduleID: update.ScheduleID,
		Generator:  generator,
		NumSpikes:  update.NumSpikes,
		Period:     float64(update.Period),
		ReplacedAt: float64(t.timeTeller.CurrentTime()),
	})
}

// RunStarted records a completed run-start validation.
func (t *DBTracer) RunStarted(generator string, start spikegen.RunStart) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.backend.InsertData("run_starts", runStartTableEntry{
		ScheduleID: start.ScheduleID,
		Generator:  generator,
		Now:        float64(start.Now),
		DT:         float64(start.DT),
		Cursor:     start.Cursor,
		Skipped:    start.Skipped,
	})
}
