package datarecording

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

const execLogTable = "exec_info"

type execInfo struct {
	Property string
	Value    string
}

// execRecorder logs the execution of the program into the recording, so
// that a recording file can always tell what produced it.
type execRecorder struct {
	recorder DataRecorder
	entries  []execInfo
}

func newExecRecorder(recorder DataRecorder) *execRecorder {
	e := &execRecorder{recorder: recorder}

	e.recorder.CreateTable(execLogTable, execInfo{})

	return e
}

// Start captures the start time, the command line, and the working
// directory of the current execution.
func (e *execRecorder) Start() {
	startTime := time.Now().Format("2006-01-02 15:04:05.000000000")
	e.entries = append(e.entries, execInfo{"Start Time", startTime})

	cmd := strings.Join(os.Args, " ")
	e.entries = append(e.entries, execInfo{"Command", cmd})

	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}

	cwd := filepath.Dir(ex)
	e.entries = append(e.entries, execInfo{"Working Directory", cwd})
}

// End writes the collected entries along with the program exit time.
func (e *execRecorder) End() {
	for _, entry := range e.entries {
		e.recorder.InsertData(execLogTable, entry)
	}

	endTime := time.Now().Format("2006-01-02 15:04:05.000000000")
	e.recorder.InsertData(execLogTable, execInfo{"End Time", endTime})

	e.entries = nil

	e.recorder.Flush()
}
