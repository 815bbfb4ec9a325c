package backend

import "github.com/DougMackenzie/energy-optimizer/core/model"

// DefaultSpecs returns the built-in equipment reference table used when the
// parameter store is unreachable. Figures match the planning team's
// published equipment sheet.
func DefaultSpecs() model.EquipmentSpecs {
	return model.EquipmentSpecs{
		Recip: model.EquipmentType{
			ID:                "recip_engine",
			Name:              "Reciprocating Engine",
			Category:          model.CategoryThermalRecip,
			UnitMW:            10,
			HeatRateBTUPerKWh: 8500,
			NOxRateLbPerMMBTU: 0.15,
			GasMCFPerMWh:      7.2,
			CapexPerMW:        1_800_000,
			FixedOMPerMWYear:  45_000,
			VarOMPerMWh:       5,
			Availability:      0.97,
			RampPctPerMin:     100,
			LeadTimeMonths:    24,
			LandAcresPerMW:    0.5,
			LifetimeYears:     25,
		},
		Turbine: model.EquipmentType{
			ID:                "gas_turbine",
			Name:              "Gas Turbine",
			Category:          model.CategoryThermalTurbine,
			UnitMW:            50,
			HeatRateBTUPerKWh: 10500,
			NOxRateLbPerMMBTU: 0.10,
			GasMCFPerMWh:      8.5,
			CapexPerMW:        1_200_000,
			FixedOMPerMWYear:  35_000,
			VarOMPerMWh:       5,
			Availability:      0.95,
			RampPctPerMin:     50,
			LeadTimeMonths:    30,
			LandAcresPerMW:    0.5,
			LifetimeYears:     25,
		},
		Storage: model.EquipmentType{
			ID:               "bess",
			Name:             "Battery Storage",
			Category:         model.CategoryStorage,
			UnitMW:           1,
			UnitMWh:          4,
			CapexPerMW:       250_000,
			CapexPerMWh:      350_000,
			FixedOMPerMWYear: 5_000,
			Availability:     0.98,
			RampPctPerMin:    100,
			LeadTimeMonths:   6,
			LandAcresPerMW:   0.25,
			LifetimeYears:    15,
		},
		Solar: model.EquipmentType{
			ID:               "solar_pv",
			Name:             "Solar PV",
			Category:         model.CategorySolar,
			UnitMW:           1,
			CapexPerMW:       1_000_000,
			FixedOMPerMWYear: 12_000,
			Availability:     1.0,
			LeadTimeMonths:   12,
			LandAcresPerMW:   5.0,
			LifetimeYears:    30,
			CapacityFactor:   0.25,
		},
		Grid: model.EquipmentType{
			ID:             "grid",
			Name:           "Grid Import",
			Category:       model.CategoryGrid,
			UnitMW:         1,
			CapexPerMW:     500_000, // interconnection cost
			Availability:   0.999,
			RampPctPerMin:  100,
			LeadTimeMonths: 60,
			LandAcresPerMW: 0.1,
			LifetimeYears:  50,
		},
	}
}

// DefaultParams returns the built-in global parameters.
func DefaultParams() Params {
	return Params{
		DiscountRate:     0.08,
		AnalysisYears:    15,
		ElectricityPrice: 80,
		GasPrice:         5,
		CapacityPrice:    150,

		DefaultAvailability: 0.95,
		NMinus1Required:     true,

		DatacenterMWPerAcre:     3,
		SubstationAcres:         10,
		InfrastructureFraction:  0.10,
		SolarLandThresholdAcres: 800,

		StorageCapacityCredit:  0.25,
		StorageDurationHours:   4,
		StorageReserveFraction: 0.10,

		VarOMPerMWh: 5,
		VoLL:        50_000,
	}
}

// RoundTripEfficiency is the storage AC round-trip efficiency assumed when
// no spec overrides it.
const RoundTripEfficiency = 0.90
