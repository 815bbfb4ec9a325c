package model

// Site is the facility under study.
type Site struct {
	Name      string  `json:"name"`
	Location  string  `json:"location"`
	LandAcres float64 `json:"land_acres"`
}

// Limits are the site's permit and interconnection constraints. A zero
// value for an optional limit means the limit is not enforced.
type Limits struct {
	NOxTonsPerYear float64 `json:"nox_tons_per_year"`
	CO2TonsPerYear float64 `json:"co2_tons_per_year"`
	GasMCFPerDay   float64 `json:"gas_mcf_per_day"`
	LandAcres      float64 `json:"land_acres"`

	// GridAvailableYear is the first year grid import may be non-zero.
	// Zero means no interconnection is ever available.
	GridAvailableYear int     `json:"grid_available_year"`
	GridCapacityMW    float64 `json:"grid_capacity_mw"`

	// Planner search bounds.
	MaxRecips   int `json:"max_recips"`
	MaxTurbines int `json:"max_turbines"`
}

// GridAvailable reports whether grid import is permitted in the given year.
func (l Limits) GridAvailable(year int) bool {
	return l.GridAvailableYear > 0 && year >= l.GridAvailableYear && l.GridCapacityMW > 0
}
