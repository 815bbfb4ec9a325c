// Package export serializes optimization results for downstream tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"sort"
	"strconv"

	"github.com/DougMackenzie/energy-optimizer/core/model"
)

// WriteJSON writes the full result to w in JSON format.
func WriteJSON(w io.Writer, res *model.OptimizationResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteFleetCSV writes the year-by-year build plan.
func WriteFleetCSV(w io.Writer, res *model.OptimizationResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"year", "recips", "turbines", "storage_mw", "storage_mwh", "solar_mw", "grid_mw",
	}); err != nil {
		return err
	}

	years := make([]int, 0, len(res.FleetByYear))
	for y := range res.FleetByYear {
		years = append(years, y)
	}
	sort.Ints(years)

	for _, y := range years {
		f := res.FleetByYear[y]
		rec := []string{
			strconv.Itoa(y),
			strconv.Itoa(f.Recips),
			strconv.Itoa(f.Turbines),
			fmtFloat(f.StorageMW),
			fmtFloat(f.StorageMWh),
			fmtFloat(f.SolarMW),
			fmtFloat(f.GridMW),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDispatchCSV writes one year's hourly dispatch.
func WriteDispatchCSV(w io.Writer, sched *model.DispatchSchedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"hour", "load_mw", "solar_mw", "storage_charge_mw", "storage_discharge_mw",
		"storage_soc_mwh", "recip_mw", "turbine_mw", "grid_mw", "curtail_mw", "unserved_mw",
	}); err != nil {
		return err
	}
	for h := 0; h < sched.Len(); h++ {
		rec := []string{
			strconv.Itoa(h),
			fmtFloat(sched.LoadMW[h]),
			fmtFloat(sched.SolarMW[h]),
			fmtFloat(sched.StorageChargeMW[h]),
			fmtFloat(sched.StorageDischargeMW[h]),
			fmtFloat(sched.StorageSoCMWh[h]),
			fmtFloat(sched.RecipMW[h]),
			fmtFloat(sched.TurbineMW[h]),
			fmtFloat(sched.GridMW[h]),
			fmtFloat(sched.CurtailTotalMW(h)),
			fmtFloat(sched.UnservedMW[h]),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
