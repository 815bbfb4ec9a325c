package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/DougMackenzie/energy-optimizer/config"
	"github.com/DougMackenzie/energy-optimizer/core/model"
	"github.com/DougMackenzie/energy-optimizer/core/planner"
	"github.com/DougMackenzie/energy-optimizer/infra/logger"
	inframetrics "github.com/DougMackenzie/energy-optimizer/infra/metrics"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build a multi-year capacity plan with the staged heuristic",
	RunE:  runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New("plan")
	snap := resolveSnapshot(ctx, cfg, log)
	sink, err := inframetrics.NewSink(cfg.Metrics)
	if err != nil {
		return err
	}

	p := planner.New(cfg.Site, cfg.Limits, snap, log)
	res, err := p.Plan(ctx, cfg.Trajectory.ToModel(), planner.Options{
		Seed:                  cfg.Optimizer.Seed,
		Brownfield:            brownfieldFleet(cfg),
		DRProductID:           cfg.Optimizer.DRProduct,
		DREventHours:          cfg.Optimizer.DREventHours,
		CurtailBudgetFraction: cfg.Optimizer.CurtailBudgetFraction,
	})
	if err != nil {
		return err
	}
	if !res.Feasible {
		log.Warnf("plan infeasible: %d violation(s)", len(res.Violations))
	}
	return emitResult(res, sink, log)
}

func brownfieldFleet(cfg *config.Config) model.Fleet {
	return model.Fleet{
		Recips:     cfg.Optimizer.ExistingRecips,
		Turbines:   cfg.Optimizer.ExistingTurbines,
		StorageMW:  cfg.Optimizer.ExistingStorageMW,
		StorageMWh: cfg.Optimizer.ExistingStorageMWh,
		SolarMW:    cfg.Optimizer.ExistingSolarMW,
	}
}
