// Package constraint evaluates a fleet and dispatch against the site's
// permit, reliability and physical limits. Each check yields a
// model.ConstraintResult; hard violations mark the configuration-year
// infeasible, soft violations are annotated only.
package constraint

// CO2LbPerMMBTU is the combustion emission factor for pipeline natural gas.
const CO2LbPerMMBTU = 117.0

// NOxTons returns annual NOx mass in short tons for the given generation.
//
//	tons = MWh * (BTU/kWh) / 1000 [MMBTU] * (lb/MMBTU) / 2000
func NOxTons(generationMWh, heatRateBTUPerKWh, noxRateLbPerMMBTU float64) float64 {
	mmbtu := generationMWh * heatRateBTUPerKWh / 1000
	return mmbtu * noxRateLbPerMMBTU / 2000
}

// CO2Tons returns annual CO2 mass in short tons for the given generation.
func CO2Tons(generationMWh, heatRateBTUPerKWh float64) float64 {
	mmbtu := generationMWh * heatRateBTUPerKWh / 1000
	return mmbtu * CO2LbPerMMBTU / 2000
}

// GasMCFPerDay converts annual fuel use to an average daily draw. The
// consumption coefficient comes from the equipment sheet, not re-derived
// from heat rate.
func GasMCFPerDay(generationMWhAnnual, gasMCFPerMWh float64) float64 {
	return generationMWhAnnual * gasMCFPerMWh / 365
}
