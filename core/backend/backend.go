// Package backend resolves equipment specifications and global parameters
// for an optimization run. Values come from an external parameter store when
// one is configured; otherwise documented defaults are substituted and a
// warning is attached so the fallback is never silent.
package backend

import (
	"context"

	"github.com/DougMackenzie/energy-optimizer/core/model"
	"github.com/DougMackenzie/energy-optimizer/infra/logger"
)

// Params holds the run-global economic and siting parameters.
type Params struct {
	DiscountRate     float64 `json:"discount_rate"`
	AnalysisYears    int     `json:"analysis_period_years"`
	ElectricityPrice float64 `json:"electricity_price"` // $/MWh
	GasPrice         float64 `json:"gas_price"`         // $/MCF
	CapacityPrice    float64 `json:"capacity_price"`    // $/kW-year

	DefaultAvailability float64 `json:"default_availability"`
	NMinus1Required     bool    `json:"n_minus_1_required"`

	DatacenterMWPerAcre     float64 `json:"datacenter_mw_per_acre"`
	SubstationAcres         float64 `json:"substation_acres"`
	InfrastructureFraction  float64 `json:"infrastructure_fraction"` // share of total site land
	SolarLandThresholdAcres float64 `json:"solar_land_threshold_acres"`

	StorageCapacityCredit  float64 `json:"storage_capacity_credit"`
	StorageDurationHours   float64 `json:"storage_duration_hours"`
	StorageReserveFraction float64 `json:"storage_reserve_fraction"` // min SoC as fraction of capacity

	VarOMPerMWh float64 `json:"var_om_per_mwh"`
	VoLL        float64 `json:"voll_penalty"` // $/MWh unserved
}

// Store is the external parameter source. Implementations must be safe for
// a single Resolve call per run; the core performs no retries.
type Store interface {
	EquipmentSpecs(ctx context.Context) (model.EquipmentSpecs, error)
	Params(ctx context.Context) (Params, error)
}

// Snapshot is the immutable input bundle a run operates on.
type Snapshot struct {
	Specs    model.EquipmentSpecs
	Params   Params
	Warnings []string
}

// Resolver loads a Snapshot from a Store, falling back to defaults per
// section on failure.
type Resolver struct {
	store Store
	log   logger.Logger
}

// NewResolver returns a Resolver. A nil store resolves straight to
// defaults, which is the offline/test path and still produces warnings.
func NewResolver(store Store, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Resolver{store: store, log: log}
}

// Resolve produces the run snapshot. Failures degrade to defaults with a
// warning; they never abort the run.
func (r *Resolver) Resolve(ctx context.Context) Snapshot {
	snap := Snapshot{Specs: DefaultSpecs(), Params: DefaultParams()}

	if r.store == nil {
		snap.Warnings = append(snap.Warnings,
			"no parameter store configured: using built-in equipment and parameter defaults")
		r.log.Warnf("no parameter store configured, using defaults")
		return snap
	}

	specs, err := r.store.EquipmentSpecs(ctx)
	if err != nil {
		snap.Warnings = append(snap.Warnings,
			"equipment specs unavailable from parameter store, using defaults: "+err.Error())
		r.log.Warnf("equipment specs fallback: %v", err)
	} else {
		snap.Specs = specs
	}

	params, err := r.store.Params(ctx)
	if err != nil {
		snap.Warnings = append(snap.Warnings,
			"global parameters unavailable from parameter store, using defaults: "+err.Error())
		r.log.Warnf("global parameters fallback: %v", err)
	} else {
		snap.Params = params
	}

	return snap
}
