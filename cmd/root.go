// Package cmd wires the CLI entrypoints.
package cmd

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/DougMackenzie/energy-optimizer/config"
	corebackend "github.com/DougMackenzie/energy-optimizer/core/backend"
	coremetrics "github.com/DougMackenzie/energy-optimizer/core/metrics"
	"github.com/DougMackenzie/energy-optimizer/core/model"
	infrabackend "github.com/DougMackenzie/energy-optimizer/infra/backend"
	"github.com/DougMackenzie/energy-optimizer/infra/logger"
	"github.com/DougMackenzie/energy-optimizer/pkg/export"
)

var (
	cfgPath string
	outPath string
	outFmt  string
)

var rootCmd = &cobra.Command{
	Use:   "energy-optimizer",
	Short: "Capacity planning and dispatch optimization for datacenter power",
	RunE:  runDefault,
}

// runDefault dispatches to the engine named in the config when no
// subcommand is given.
func runDefault(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if cfg.Optimizer.Engine == "representative-period" {
		return runOptimize(cmd, args)
	}
	return runPlan(cmd, args)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVarP(&outPath, "out", "o", "", "result output file (stdout when empty)")
	rootCmd.PersistentFlags().StringVar(&outFmt, "format", "json", "output format: json or csv")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// resolveSnapshot loads config-driven parameters, falling back to defaults
// when no store is reachable.
func resolveSnapshot(ctx context.Context, cfg *config.Config, log logger.Logger) corebackend.Snapshot {
	var store corebackend.Store
	if cfg.Backend.URL != "" {
		store = infrabackend.NewHTTPStore(cfg.Backend)
	}
	return corebackend.NewResolver(store, log).Resolve(ctx)
}

// emitResult exports the result and pushes run metrics, including the final
// year's dispatch series when the sink stores time series.
func emitResult(res *model.OptimizationResult, sink coremetrics.MetricsSink, log logger.Logger) error {
	ev := coremetrics.RunEvent{
		RunID:          res.RunID,
		Engine:         res.Engine,
		Feasible:       res.Feasible,
		LCOE:           res.Economics.LCOE,
		CoveragePct:    res.LoadCoveragePct,
		UnservedMWh:    res.TotalUnservedMWh,
		TimelineMonths: res.TimelineMonths,
		BindingPrimary: res.PrimaryBinding,
		SolveTime:      res.SolveTime,
		Time:           time.Now(),
	}
	if err := sink.RecordRun(ev); err != nil {
		log.Warnf("record run metrics: %v", err)
	}
	if rec, ok := sink.(coremetrics.DispatchSeriesRecorder); ok {
		if final, found := res.FinalFleet(); found {
			if sched := res.DispatchByYear[final.Year]; sched != nil {
				sev := coremetrics.DispatchSeriesEvent{RunID: res.RunID, Schedule: sched, Time: time.Now()}
				if err := rec.RecordDispatchSeries(sev); err != nil {
					log.Warnf("record dispatch series: %v", err)
				}
			}
		}
	}

	w := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if outFmt == "csv" {
		return export.WriteFleetCSV(w, res)
	}
	return export.WriteJSON(w, res)
}
