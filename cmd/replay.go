package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/DHRUVJ2003/brian2/datarecording"
	"github.com/DHRUVJ2003/brian2/replay"
	"github.com/DHRUVJ2003/brian2/sim"
	"github.com/DHRUVJ2003/brian2/tracing"
)

var (
	replaySchedulePath string
	replayDT           float64
	replayUntil        float64
	replayRecord       string
	replayClickHouse   string
)

// spikeEmissionEntry is one replayed spike, as stored in the emissions
// table.
type spikeEmissionEntry struct {
	Step   int64
	Time   float64
	Neuron int32
}

// replayCmd steps a schedule to a time horizon, logging every emission.
var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a spike schedule over a discrete-timestep clock",
	Run: func(cmd *cobra.Command, _ []string) {
		gen, err := buildGenerator(replaySchedulePath, replayDT)
		if err != nil {
			logrus.Errorf("Schedule is invalid: %s", err)
			os.Exit(validationExitCode(err))
		}

		var recorder datarecording.DataRecorder
		if cmd.Flags().Changed("clickhouse") {
			dsn := replayClickHouse
			if dsn == "" {
				dsn = os.Getenv("BRIAN2_CLICKHOUSE_DSN")
			}

			recorder = datarecording.NewDataRecorderWithConfig(
				datarecording.RecorderConfig{
					Type:    "clickhouse",
					ConnStr: dsn,
				})
		} else if replayRecord != "" {
			recorder = datarecording.NewDataRecorder(replayRecord)
		}

		if recorder != nil {
			recorder.CreateTable("emissions", spikeEmissionEntry{})

			tracer := tracing.NewDBTracer(gen.Clock(), recorder)
			tracing.CollectTrace(gen, tracer)
		}

		if err := gen.BeforeRun(); err != nil {
			logrus.Errorf("Schedule is invalid: %s", err)
			atexit.Exit(validationExitCode(err))
		}

		emitted := 0
		dt := gen.Clock().DT()
		stepper := replay.NewStepper(gen)
		stepper.RunUntil(
			sim.VTimeInSec(replayUntil),
			func(now sim.VTimeInSec, neurons []int32) {
				logrus.Debugf("t = %gs: neurons %v", now, neurons)
				emitted += len(neurons)

				if recorder == nil {
					return
				}

				for _, n := range neurons {
					recorder.InsertData("emissions", spikeEmissionEntry{
						Step:   sim.TimeStep(now, dt),
						Time:   float64(now),
						Neuron: n,
					})
				}
			})

		logrus.Infof("%s replayed %d spikes in %d timesteps, t = %gs",
			gen.Name(), emitted, gen.Clock().TimeStep(),
			gen.Clock().CurrentTime())

		if recorder != nil {
			if err := recorder.Close(); err != nil {
				logrus.Fatalf("Failed to close the recorder: %s", err)
			}
		}
	},
}

func init() {
	replayCmd.Flags().StringVar(&replaySchedulePath, "schedule", "",
		"Path to the schedule YAML file")
	replayCmd.Flags().Float64Var(&replayDT, "dt", 0,
		"Timestep in seconds, overriding the schedule file")
	replayCmd.Flags().Float64Var(&replayUntil, "until", 0,
		"Time in seconds to replay to")
	replayCmd.Flags().StringVar(&replayRecord, "record", "",
		"Record emissions into the named SQLite database")
	replayCmd.Flags().StringVar(&replayClickHouse, "clickhouse", "",
		"Record emissions into ClickHouse at the given DSN "+
			"(BRIAN2_CLICKHOUSE_DSN when empty)")
	_ = replayCmd.MarkFlagRequired("schedule")
	_ = replayCmd.MarkFlagRequired("until")

	rootCmd.AddCommand(replayCmd)
}
