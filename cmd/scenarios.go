package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/DougMackenzie/energy-optimizer/infra/logger"
	"github.com/DougMackenzie/energy-optimizer/qa/scenarios"
)

var scenariosDir string

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "Run the QA scenario suite and report expectation failures",
	RunE:  runScenarios,
}

func init() {
	scenariosCmd.Flags().StringVar(&scenariosDir, "dir", "qa/scenarios", "directory holding scenario YAML files")
	rootCmd.AddCommand(scenariosCmd)
}

func runScenarios(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.New("scenarios")

	paths, err := filepath.Glob(filepath.Join(scenariosDir, "*.yaml"))
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no scenario files in %s", scenariosDir)
	}
	sort.Strings(paths)

	failed := 0
	for _, path := range paths {
		sc, err := scenarios.Load(path)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		res, err := scenarios.Run(ctx, sc)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		fails := scenarios.Check(sc, res)
		if len(fails) == 0 {
			log.Infof("scenario %s: ok (lcoe=%.2f)", sc.Name, res.Economics.LCOE)
			continue
		}
		failed++
		for _, msg := range fails {
			log.Errorf("scenario %s: %s", sc.Name, msg)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(paths))
	}
	log.Infof("%d scenarios passed", len(paths))
	return nil
}
