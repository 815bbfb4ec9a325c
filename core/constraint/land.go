package constraint

import (
	"github.com/DougMackenzie/energy-optimizer/core/backend"
	"github.com/DougMackenzie/energy-optimizer/core/model"
)

// AllocateLand assigns the site's acreage in fixed priority order: the
// datacenter itself, the substation, general infrastructure, then thermal
// and storage equipment. Whatever remains is offered to solar, but only when
// the residual clears the utility-scale threshold; scattering panels over a
// small remnant is not worth the interconnection.
func AllocateLand(site model.Site, fleet model.Fleet, specs model.EquipmentSpecs, params backend.Params, peakMW float64) model.LandAllocation {
	alloc := model.LandAllocation{}

	if params.DatacenterMWPerAcre > 0 {
		alloc.DatacenterAcres = peakMW / params.DatacenterMWPerAcre
	}
	alloc.SubstationAcres = params.SubstationAcres
	alloc.InfrastructureAcres = site.LandAcres * params.InfrastructureFraction
	alloc.ThermalAcres = fleet.RecipMW(specs)*specs.Recip.LandAcresPerMW +
		fleet.TurbineMW(specs)*specs.Turbine.LandAcresPerMW
	alloc.StorageAcres = fleet.StorageMW * specs.Storage.LandAcresPerMW

	alloc.TotalUsedAcres = alloc.DatacenterAcres + alloc.SubstationAcres +
		alloc.InfrastructureAcres + alloc.ThermalAcres + alloc.StorageAcres

	remaining := site.LandAcres - alloc.TotalUsedAcres
	if remaining >= params.SolarLandThresholdAcres {
		alloc.SolarAvailableAcres = remaining
	}
	if fleet.SolarMW > 0 {
		solarAcres := fleet.SolarMW * specs.Solar.LandAcresPerMW
		alloc.TotalUsedAcres += solarAcres
		remaining -= solarAcres
	}
	alloc.RemainingAcres = remaining

	return alloc
}

// MaxSolarMW returns the largest solar capacity the allocation can host.
func MaxSolarMW(alloc model.LandAllocation, specs model.EquipmentSpecs) float64 {
	if alloc.SolarAvailableAcres <= 0 || specs.Solar.LandAcresPerMW <= 0 {
		return 0
	}
	return alloc.SolarAvailableAcres / specs.Solar.LandAcresPerMW
}
