package cmd

import (
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/DHRUVJ2003/brian2/metrics"
	"github.com/DHRUVJ2003/brian2/monitoring"
)

var (
	serveSchedulePath string
	serveDT           float64
	servePort         int
	serveOpen         bool
)

// serveCmd loads a schedule and serves the monitoring dashboard over it.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the monitoring dashboard over a spike schedule",
	Run: func(_ *cobra.Command, _ []string) {
		spec, err := LoadScheduleSpec(serveSchedulePath)
		if err != nil {
			logrus.Fatalf("Failed to load the schedule: %s", err)
		}

		if serveDT != 0 {
			spec.DT = serveDT
			spec.Frequency = 0
		}

		builder, err := spec.Builder()
		if err != nil {
			logrus.Fatalf("Failed to load the schedule: %s", err)
		}

		registry := prometheus.NewRegistry()
		sink := metrics.NewPrometheusSink(registry)

		gen, err := builder.WithMetricsSink(sink).Build(spec.GeneratorName())
		if err != nil {
			logrus.Errorf("Schedule is invalid: %s", err)
			os.Exit(validationExitCode(err))
		}

		if err := gen.BeforeRun(); err != nil {
			logrus.Errorf("Schedule is invalid: %s", err)
			os.Exit(validationExitCode(err))
		}

		m := monitoring.NewMonitor()
		m.RegisterTimeTeller(gen.Clock())
		m.RegisterGenerator(gen)
		m.WithMetricsHandler(promhttp.HandlerFor(
			registry, promhttp.HandlerOpts{}))

		if servePort != 0 {
			m.WithPortNumber(servePort)
		}

		if serveOpen {
			m.WithBrowserOpening()
		}

		m.StartServer()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		<-sig
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveSchedulePath, "schedule", "",
		"Path to the schedule YAML file")
	serveCmd.Flags().Float64Var(&serveDT, "dt", 0,
		"Timestep in seconds, overriding the schedule file")
	serveCmd.Flags().IntVar(&servePort, "port", 0,
		"Port of the monitoring server, random when 0")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false,
		"Open the dashboard in the system browser")
	_ = serveCmd.MarkFlagRequired("schedule")

	rootCmd.AddCommand(serveCmd)
}
