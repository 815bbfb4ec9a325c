package config

import "fmt"

// OptimizerConfig selects the engine and its knobs.
type OptimizerConfig struct {
	// Engine is "heuristic" or "representative-period".
	Engine string `json:"engine"`

	Seed int64 `json:"seed"`

	DRProduct    string  `json:"dr_product"`
	DREventHours float64 `json:"dr_event_hours"`

	CurtailBudgetFraction float64 `json:"curtail_budget_fraction"`

	// SolveTimeoutSeconds bounds the LP engine; zero means no limit.
	SolveTimeoutSeconds int `json:"solve_timeout_seconds"`

	// Brownfield lower bounds, all optional.
	ExistingRecips     int     `json:"existing_recips"`
	ExistingTurbines   int     `json:"existing_turbines"`
	ExistingStorageMW  float64 `json:"existing_storage_mw"`
	ExistingStorageMWh float64 `json:"existing_storage_mwh"`
	ExistingSolarMW    float64 `json:"existing_solar_mw"`
}

// SetDefaults applies sane defaults.
func (c *OptimizerConfig) SetDefaults() {
	if c.Engine == "" {
		c.Engine = "heuristic"
	}
	if c.DREventHours == 0 {
		c.DREventHours = 40
	}
}

// Validate checks the engine selection.
func (c OptimizerConfig) Validate() error {
	if c.Engine != "heuristic" && c.Engine != "representative-period" {
		return fmt.Errorf("unknown optimizer engine %q", c.Engine)
	}
	if c.CurtailBudgetFraction < 0 || c.CurtailBudgetFraction > 1 {
		return fmt.Errorf("curtail_budget_fraction must be in [0,1]")
	}
	return nil
}
