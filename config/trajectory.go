package config

import (
	"fmt"

	"github.com/DougMackenzie/energy-optimizer/core/model"
)

// TrajectoryConfig is the on-disk form of the load trajectory. Keys are
// strings because YAML/JSON object keys always are; ToModel converts them.
type TrajectoryConfig struct {
	PeakMWByYear map[int]float64    `json:"peak_mw_by_year"`
	WorkloadMix  map[string]float64 `json:"workload_mix"`

	Flexibility map[string]FlexConfig `json:"flexibility"`

	CoolingFlex float64 `json:"cooling_flex"`
	PUE         float64 `json:"pue"`
	LoadFactor  float64 `json:"load_factor"`
}

// FlexConfig mirrors model.FlexibilitySpec for file loading.
type FlexConfig struct {
	Fraction        float64 `json:"fraction"`
	ResponseMinutes float64 `json:"response_minutes"`
	MinRunHours     float64 `json:"min_run_hours"`
}

// DefaultFlexibility is the curtailment assumption per workload class used
// when the config leaves flexibility unset.
var DefaultFlexibility = map[model.WorkloadCategory]model.FlexibilitySpec{
	model.WorkloadPreTraining:       {Fraction: 0.30, ResponseMinutes: 15, MinRunHours: 4},
	model.WorkloadFineTuning:        {Fraction: 0.50, ResponseMinutes: 10, MinRunHours: 1},
	model.WorkloadBatchInference:    {Fraction: 0.90, ResponseMinutes: 5},
	model.WorkloadRealtimeInference: {Fraction: 0.05, ResponseMinutes: 1},
	model.WorkloadRLTraining:        {Fraction: 0.40, ResponseMinutes: 15, MinRunHours: 2},
	model.WorkloadCloudHPC:          {Fraction: 0.25, ResponseMinutes: 30, MinRunHours: 4},
}

// DefaultCoolingFlex is the curtailable fraction of cooling load assumed
// when unset.
const DefaultCoolingFlex = 0.25

// Validate checks the trajectory section.
func (c TrajectoryConfig) Validate() error {
	if len(c.PeakMWByYear) == 0 {
		return fmt.Errorf("trajectory.peak_mw_by_year is required")
	}
	for y, mw := range c.PeakMWByYear {
		if mw < 0 {
			return fmt.Errorf("trajectory peak for %d is negative", y)
		}
	}
	for name := range c.WorkloadMix {
		if !validCategory(name) {
			return fmt.Errorf("unknown workload category %q", name)
		}
	}
	for name := range c.Flexibility {
		if !validCategory(name) {
			return fmt.Errorf("unknown workload category %q in flexibility", name)
		}
	}
	return nil
}

// ToModel converts the config into the core trajectory type, filling in
// default flexibility for categories the file does not mention.
func (c TrajectoryConfig) ToModel() model.LoadTrajectory {
	t := model.LoadTrajectory{
		PeakMWByYear: c.PeakMWByYear,
		WorkloadMix:  make(map[model.WorkloadCategory]float64, len(c.WorkloadMix)),
		Flexibility:  make(map[model.WorkloadCategory]model.FlexibilitySpec),
		CoolingFlex:  c.CoolingFlex,
		PUE:          c.PUE,
		LoadFactor:   c.LoadFactor,
	}
	for name, pct := range c.WorkloadMix {
		t.WorkloadMix[model.WorkloadCategory(name)] = pct
	}
	for w, spec := range DefaultFlexibility {
		t.Flexibility[w] = spec
	}
	for name, f := range c.Flexibility {
		t.Flexibility[model.WorkloadCategory(name)] = model.FlexibilitySpec{
			Fraction:        f.Fraction,
			ResponseMinutes: f.ResponseMinutes,
			MinRunHours:     f.MinRunHours,
		}
	}
	if t.CoolingFlex == 0 {
		t.CoolingFlex = DefaultCoolingFlex
	}
	if t.PUE == 0 {
		t.PUE = 1.25
	}
	if t.LoadFactor == 0 {
		t.LoadFactor = 0.85
	}
	return t
}

func validCategory(name string) bool {
	for _, w := range model.WorkloadCategories {
		if string(w) == name {
			return true
		}
	}
	return false
}
