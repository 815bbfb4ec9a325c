package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/DougMackenzie/energy-optimizer/core/model"
)

type SiteDef struct {
	Name      string  `yaml:"name"`
	LandAcres float64 `yaml:"land_acres"`
}

type LimitsDef struct {
	NOxTonsPerYear    float64 `yaml:"nox_tons_per_year"`
	CO2TonsPerYear    float64 `yaml:"co2_tons_per_year"`
	GasMCFPerDay      float64 `yaml:"gas_mcf_per_day"`
	GridAvailableYear int     `yaml:"grid_available_year"`
	GridCapacityMW    float64 `yaml:"grid_capacity_mw"`
	MaxRecips         int     `yaml:"max_recips"`
	MaxTurbines       int     `yaml:"max_turbines"`
}

func (l LimitsDef) ToModel() model.Limits {
	return model.Limits{
		NOxTonsPerYear:    l.NOxTonsPerYear,
		CO2TonsPerYear:    l.CO2TonsPerYear,
		GasMCFPerDay:      l.GasMCFPerDay,
		GridAvailableYear: l.GridAvailableYear,
		GridCapacityMW:    l.GridCapacityMW,
		MaxRecips:         l.MaxRecips,
		MaxTurbines:       l.MaxTurbines,
	}
}

type TrajectoryDef struct {
	PeakMWByYear map[int]float64    `yaml:"peak_mw_by_year"`
	WorkloadMix  map[string]float64 `yaml:"workload_mix"`
	PUE          float64            `yaml:"pue"`
	LoadFactor   float64            `yaml:"load_factor"`
}

func (d TrajectoryDef) ToModel() model.LoadTrajectory {
	t := model.LoadTrajectory{
		PeakMWByYear: d.PeakMWByYear,
		WorkloadMix:  make(map[model.WorkloadCategory]float64, len(d.WorkloadMix)),
		Flexibility: map[model.WorkloadCategory]model.FlexibilitySpec{
			model.WorkloadPreTraining:       {Fraction: 0.30},
			model.WorkloadFineTuning:        {Fraction: 0.50},
			model.WorkloadBatchInference:    {Fraction: 0.90},
			model.WorkloadRealtimeInference: {Fraction: 0.05},
			model.WorkloadRLTraining:        {Fraction: 0.40},
			model.WorkloadCloudHPC:          {Fraction: 0.25},
		},
		CoolingFlex: 0.25,
		PUE:         d.PUE,
		LoadFactor:  d.LoadFactor,
	}
	for name, pct := range d.WorkloadMix {
		t.WorkloadMix[model.WorkloadCategory(name)] = pct
	}
	return t
}

type Expected struct {
	Feasible   bool    `yaml:"feasible"`
	MaxLCOE    float64 `yaml:"max_lcoe,omitempty"`
	MinLCOE    float64 `yaml:"min_lcoe,omitempty"`
	GridZeroBy int     `yaml:"grid_zero_before,omitempty"`
}

type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Engine      string        `yaml:"engine"`
	Seed        int64         `yaml:"seed"`
	Site        SiteDef       `yaml:"site"`
	Limits      LimitsDef     `yaml:"limits"`
	Trajectory  TrajectoryDef `yaml:"trajectory"`
	Expected    Expected      `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
