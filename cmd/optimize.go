package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/DougMackenzie/energy-optimizer/config"
	"github.com/DougMackenzie/energy-optimizer/core/repopt"
	"github.com/DougMackenzie/energy-optimizer/infra/logger"
	inframetrics "github.com/DougMackenzie/energy-optimizer/infra/metrics"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Size the fleet with the representative-period LP engine",
	RunE:  runOptimize,
}

func init() {
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New("optimize")
	snap := resolveSnapshot(ctx, cfg, log)
	sink, err := inframetrics.NewSink(cfg.Metrics)
	if err != nil {
		return err
	}

	o := repopt.New(cfg.Site, cfg.Limits, snap, nil, log)
	res, err := o.Optimize(ctx, cfg.Trajectory.ToModel(), repopt.Options{
		Seed:                  cfg.Optimizer.Seed,
		Brownfield:            brownfieldFleet(cfg),
		DRProductID:           cfg.Optimizer.DRProduct,
		DREventHours:          cfg.Optimizer.DREventHours,
		CurtailBudgetFraction: cfg.Optimizer.CurtailBudgetFraction,
		SolveTimeout:          time.Duration(cfg.Optimizer.SolveTimeoutSeconds) * time.Second,
		Metrics:               sink,
	})
	if err != nil {
		return err
	}
	if !res.Feasible {
		log.Warnf("optimization infeasible: %d violation(s)", len(res.Violations))
	}
	return emitResult(res, sink, log)
}
