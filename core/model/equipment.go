package model

// EquipmentCategory identifies the broad class of a generation asset.
type EquipmentCategory string

const (
	CategoryThermalRecip   EquipmentCategory = "thermal-recip"
	CategoryThermalTurbine EquipmentCategory = "thermal-turbine"
	CategoryStorage        EquipmentCategory = "storage"
	CategorySolar          EquipmentCategory = "solar"
	CategoryGrid           EquipmentCategory = "grid"
)

// EquipmentType holds the immutable reference data for one equipment class.
// It is loaded once per run from the parameter store (or defaults) and never
// mutated by the optimization core.
type EquipmentType struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Category EquipmentCategory `json:"category"`

	UnitMW  float64 `json:"unit_mw"`  // nameplate capacity per discrete unit
	UnitMWh float64 `json:"unit_mwh"` // energy capacity per unit (storage only)

	HeatRateBTUPerKWh float64 `json:"heat_rate_btu_per_kwh"`
	NOxRateLbPerMMBTU float64 `json:"nox_rate_lb_per_mmbtu"`
	GasMCFPerMWh      float64 `json:"gas_mcf_per_mwh"` // fuel coefficient, used directly for the gas check

	CapexPerMW       float64 `json:"capex_per_mw"`
	CapexPerMWh      float64 `json:"capex_per_mwh"` // storage energy capex
	FixedOMPerMWYear float64 `json:"fixed_om_per_mw_year"`
	VarOMPerMWh      float64 `json:"var_om_per_mwh"`

	Availability   float64 `json:"availability"` // steady-state availability [0,1]
	RampPctPerMin  float64 `json:"ramp_pct_per_min"`
	LeadTimeMonths int     `json:"lead_time_months"`
	LandAcresPerMW float64 `json:"land_acres_per_mw"`
	LifetimeYears  int     `json:"lifetime_years"`
	CapacityFactor float64 `json:"capacity_factor"` // solar only
}

// EquipmentSpecs is the full reference table for a run. One entry per
// technology the planner can deploy.
type EquipmentSpecs struct {
	Recip   EquipmentType `json:"recip"`
	Turbine EquipmentType `json:"turbine"`
	Storage EquipmentType `json:"storage"`
	Solar   EquipmentType `json:"solar"`
	Grid    EquipmentType `json:"grid"`
}
