package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dcsdes/desim"
	"github.com/dcsdes/desim/demo/qnet"
	"github.com/dcsdes/desim/diagnostics"
	"github.com/dcsdes/desim/monitor"
)

var (
	runDuration    float64
	runArrivalRate float64
	runServiceRate float64
	runThinkTime   float64
	runSeed        int64
	runMonitor     bool
	runMonitorPort int
	runOpenBrowser bool
	runRecordPath  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bundled queueing-network demo to completion.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.SilenceUsage = true

		e := desim.NewEngine().WithDiagnostic(desim.NewStdlibDiagnostic(nil))
		network := qnet.NewNetwork(e,
			desim.VTimeInSec(runArrivalRate),
			desim.VTimeInSec(runServiceRate),
			desim.VTimeInSec(runThinkTime),
			runSeed,
		)

		e.BeginOfSimEventSource().Connect(desim.SinkFunc(func(ev *desim.Event, ctx *desim.Context) {
			if err := ctx.StopAtTime(desim.VTimeInSec(runDuration)); err != nil {
				fmt.Println("desimctl: run:", err)
			}
		}))

		if runRecordPath != "" {
			rec, err := diagnostics.NewRecorder(runRecordPath)
			if err != nil {
				fmt.Println("desimctl: run: opening recorder:", err)

				return
			}

			defer rec.Close()

			e.AfterOfEventFiringSource().Connect(rec.Sink())
		}

		if runMonitor {
			m := monitor.NewMonitor().WithPortNumber(runMonitorPort)
			m.RegisterEngine(e)
			m.RegisterProbe("network", network)

			if err := m.StartServer(runOpenBrowser); err != nil {
				fmt.Println("desimctl: run: starting monitor:", err)

				return
			}
		}

		start := time.Now()

		if err := e.Run(); err != nil {
			fmt.Println("desimctl: run:", err)

			return
		}

		fmt.Printf("completed %d customers in %v simulated seconds (wall clock %v)\n",
			network.CompletedCustomers(), runDuration, time.Since(start))
		fmt.Printf("average sojourn time: %.4fs\n", float64(network.AverageSojournTime()))
	},
}

func init() {
	runCmd.Flags().Float64Var(&runDuration, "duration", 100, "simulated seconds to run for")
	runCmd.Flags().Float64Var(&runArrivalRate, "arrival-rate", 1.0, "mean customer arrivals per simulated second")
	runCmd.Flags().Float64Var(&runServiceRate, "service-rate", 2.0, "mean service completions per simulated second")
	runCmd.Flags().Float64Var(&runThinkTime, "think-time", 0, "mean think-time delay before service, 0 to disable")
	runCmd.Flags().Int64Var(&runSeed, "seed", 1, "random seed for arrival/service sampling")
	runCmd.Flags().BoolVar(&runMonitor, "monitor", false, "serve a live HTTP monitor while running")
	runCmd.Flags().IntVar(&runMonitorPort, "monitor-port", 0, "monitor port, 0 for a random port")
	runCmd.Flags().BoolVar(&runOpenBrowser, "open-browser", false, "open the monitor's base URL in a browser")
	runCmd.Flags().StringVar(&runRecordPath, "record", "", "SQLite file to record the dispatch trace to")

	rootCmd.AddCommand(runCmd)
}
