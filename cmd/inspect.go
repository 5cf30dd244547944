package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/DHRUVJ2003/brian2/datarecording"
)

var (
	inspectRecordingPath string
	inspectTable         string
	inspectWhere         string
	inspectOrderBy       string
	inspectLimit         int
	inspectOffset        int
)

// scheduleInspectEntry mirrors the spike_schedules table written by the
// lifecycle tracer.
type scheduleInspectEntry struct {
	ScheduleID string
	Generator  string
	NumSpikes  int
	Period     float64
	ReplacedAt float64
}

// runStartInspectEntry mirrors the run_starts table written by the
// lifecycle tracer.
type runStartInspectEntry struct {
	ScheduleID string
	Generator  string
	Now        float64
	DT         float64
	Cursor     int
	Skipped    int
}

// execInspectEntry mirrors the exec_info provenance table every recording
// carries.
type execInspectEntry struct {
	Property string
	Value    string
}

// inspectableTables maps each known table to a sample row struct.
var inspectableTables = map[string]any{
	"emissions":       spikeEmissionEntry{},
	"spike_schedules": scheduleInspectEntry{},
	"run_starts":      runStartInspectEntry{},
	"exec_info":       execInspectEntry{},
}

// inspectCmd reads rows back from a recording produced by the replay
// command.
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect a SQLite recording produced by the replay command",
	Run: func(_ *cobra.Command, _ []string) {
		sample, known := inspectableTables[inspectTable]
		if !known {
			logrus.Errorf("Unknown table %q, one of %v expected",
				inspectTable, inspectableTableNames())
			os.Exit(1)
		}

		reader := datarecording.NewReader(inspectRecordingPath)
		defer reader.Close()

		reader.MapTable(inspectTable, sample)

		rows, total, err := reader.Query(
			context.Background(),
			inspectTable,
			datarecording.QueryParams{
				Where:   inspectWhere,
				OrderBy: inspectOrderBy,
				Limit:   inspectLimit,
				Offset:  inspectOffset,
			})
		if err != nil {
			logrus.Fatalf("Failed to query the recording: %s", err)
		}

		for _, row := range rows {
			fmt.Printf("%+v\n", row)
		}

		logrus.Infof("%d of %d rows in %s", len(rows), total, inspectTable)
	},
}

func inspectableTableNames() []string {
	names := make([]string, 0, len(inspectableTables))
	for name := range inspectableTables {
		names = append(names, name)
	}

	return names
}

func init() {
	inspectCmd.Flags().StringVar(&inspectRecordingPath, "recording", "",
		"Path to the .sqlite3 recording file")
	inspectCmd.Flags().StringVar(&inspectTable, "table", "emissions",
		"Table to read (emissions, spike_schedules, run_starts, exec_info)")
	inspectCmd.Flags().StringVar(&inspectWhere, "where", "",
		"SQL WHERE clause without the keyword")
	inspectCmd.Flags().StringVar(&inspectOrderBy, "order-by", "",
		"SQL ORDER BY clause without the keywords")
	inspectCmd.Flags().IntVar(&inspectLimit, "limit", 20,
		"Maximum number of rows to print, 0 for all")
	inspectCmd.Flags().IntVar(&inspectOffset, "offset", 0,
		"Number of rows to skip")
	_ = inspectCmd.MarkFlagRequired("recording")

	rootCmd.AddCommand(inspectCmd)
}
