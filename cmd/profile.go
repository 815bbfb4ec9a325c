package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/DougMackenzie/energy-optimizer/config"
	"github.com/DougMackenzie/energy-optimizer/core/loadmodel"
)

var profileYear int

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Generate the hourly demand profile for one trajectory year",
	RunE:  runProfile,
}

func init() {
	profileCmd.Flags().IntVar(&profileYear, "year", 0, "trajectory year (defaults to the last)")
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	traj := cfg.Trajectory.ToModel()
	year := profileYear
	if year == 0 {
		year = traj.EndYear()
	}
	peak, ok := traj.PeakMWByYear[year]
	if !ok {
		return fmt.Errorf("year %d not in trajectory", year)
	}

	gen := loadmodel.Generator{Seed: cfg.Optimizer.Seed}
	p, err := gen.Profile(traj, peak, loadmodel.HoursPerYear)
	if err != nil {
		return err
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

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"hour", "total_mw", "it_mw", "cooling_mw", "firm_mw", "flex_mw"}); err != nil {
		return err
	}
	for h := 0; h < p.Len(); h++ {
		rec := []string{
			strconv.Itoa(h),
			strconv.FormatFloat(p.TotalMW[h], 'f', 3, 64),
			strconv.FormatFloat(p.ITMW[h], 'f', 3, 64),
			strconv.FormatFloat(p.CoolingMW[h], 'f', 3, 64),
			strconv.FormatFloat(p.FirmMW[h], 'f', 3, 64),
			strconv.FormatFloat(p.FlexTotalMW(h), 'f', 3, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
