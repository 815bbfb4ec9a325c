// Package dispatchsim simulates hourly operation of a fixed fleet against a
// demand profile. Sources are committed in merit order each step, storage
// state of charge carries across the year, and shortfall that survives
// curtailment lands in UnservedMW instead of being silently dropped.
package dispatchsim

import (
	"math"

	"github.com/DougMackenzie/energy-optimizer/core/backend"
	"github.com/DougMackenzie/energy-optimizer/core/model"
	"github.com/DougMackenzie/energy-optimizer/infra/logger"
)

// BTUPerMCF converts between heat rate and pipeline gas volume.
const BTUPerMCF = 1_037_000

// DefaultCurtailBudgetFraction caps annual curtailed energy at 1% of the
// required energy. Flexibility is for shaving events, not for planning a
// fleet that never serves the load.
const DefaultCurtailBudgetFraction = 0.01

// Simulator runs one year of hourly dispatch.
type Simulator struct {
	snap   backend.Snapshot
	limits model.Limits
	log    logger.Logger

	// CurtailBudgetFraction overrides the default annual curtailment budget
	// when positive.
	CurtailBudgetFraction float64
}

// New returns a Simulator for the given run snapshot.
func New(snap backend.Snapshot, limits model.Limits, log logger.Logger) *Simulator {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Simulator{snap: snap, limits: limits, log: log}
}

// MarginalCost returns a thermal unit's short-run cost in $/MWh.
func MarginalCost(t model.EquipmentType, gasPrice float64) float64 {
	return t.HeatRateBTUPerKWh*1000/BTUPerMCF*gasPrice + t.VarOMPerMWh
}

// Run dispatches the fleet over the profile. The solar series must have the
// same length as the profile; pass nil when the fleet has no solar.
func (s *Simulator) Run(fleet model.Fleet, profile *model.HourlyProfile, solar []float64) *model.DispatchSchedule {
	specs := s.snap.Specs
	params := s.snap.Params
	n := profile.Len()

	sched := &model.DispatchSchedule{
		Year:               fleet.Year,
		StepHours:          1,
		LoadMW:             make([]float64, n),
		SolarMW:            make([]float64, n),
		StorageChargeMW:    make([]float64, n),
		StorageDischargeMW: make([]float64, n),
		StorageSoCMWh:      make([]float64, n),
		RecipMW:            make([]float64, n),
		TurbineMW:          make([]float64, n),
		GridMW:             make([]float64, n),
		UnservedMW:         make([]float64, n),
		CoolingCurtailMW:   make([]float64, n),
		CurtailMW:          make(map[model.WorkloadCategory][]float64, len(model.WorkloadCategories)),
		GenerationBySource: make(map[string]float64),
		CapacityFactors:    make(map[string]float64),
	}
	for _, w := range model.WorkloadCategories {
		sched.CurtailMW[w] = make([]float64, n)
	}

	recipCap := fleet.RecipMW(specs) * specs.Recip.Availability
	turbineCap := fleet.TurbineMW(specs) * specs.Turbine.Availability
	gridCap := 0.0
	if s.limits.GridAvailable(fleet.Year) {
		gridCap = math.Min(fleet.GridMW, s.limits.GridCapacityMW)
	}

	// Grid import displaces recips when it is the cheaper marginal source.
	gridFirst := gridCap > 0 && params.ElectricityPrice < MarginalCost(specs.Recip, params.GasPrice)

	storCap := fleet.StorageMWh
	reserve := storCap * params.StorageReserveFraction
	soc := storCap * 0.5
	oneWayEff := math.Sqrt(backend.RoundTripEfficiency)

	budget := s.CurtailBudgetFraction
	if budget <= 0 {
		budget = DefaultCurtailBudgetFraction
	}
	curtailBudgetMWh := profile.EnergyMWh() * budget / profile.ScaleFactor
	curtailedMWh := 0.0

	for h := 0; h < n; h++ {
		load := profile.TotalMW[h]
		sched.LoadMW[h] = load
		remaining := load

		// Solar is must-take.
		solarAvail := 0.0
		if solar != nil {
			solarAvail = solar[h]
		}
		solarUsed := math.Min(solarAvail, remaining)
		sched.SolarMW[h] = solarUsed
		remaining -= solarUsed
		solarExcess := solarAvail - solarUsed

		// Storage discharge covers what solar cannot.
		if remaining > 0 && storCap > 0 {
			usable := (soc - reserve) * oneWayEff
			discharge := math.Min(remaining, math.Min(fleet.StorageMW, math.Max(usable, 0)))
			if discharge > 0 {
				soc -= discharge / oneWayEff
				sched.StorageDischargeMW[h] = discharge
				remaining -= discharge
			}
		}

		// Dispatchable sources in economic order.
		dispatch := func(cap float64, out *float64) {
			if remaining <= 0 || cap <= 0 {
				return
			}
			use := math.Min(cap, remaining)
			*out += use
			remaining -= use
		}
		if gridFirst {
			dispatch(gridCap, &sched.GridMW[h])
			dispatch(recipCap, &sched.RecipMW[h])
			dispatch(turbineCap, &sched.TurbineMW[h])
		} else {
			dispatch(recipCap, &sched.RecipMW[h])
			dispatch(turbineCap, &sched.TurbineMW[h])
			dispatch(gridCap, &sched.GridMW[h])
		}

		// Shortfall: curtail flexible load within the annual budget before
		// counting anything as unserved.
		if remaining > 0 {
			headroom := curtailBudgetMWh - curtailedMWh
			for _, w := range model.WorkloadCategories {
				if remaining <= 0 || headroom <= 0 {
					break
				}
				cut := math.Min(remaining, math.Min(profile.FlexMW[w][h], headroom))
				if cut > 0 {
					sched.CurtailMW[w][h] = cut
					remaining -= cut
					headroom -= cut
					curtailedMWh += cut
				}
			}
			if remaining > 0 && headroom > 0 {
				cut := math.Min(remaining, math.Min(profile.CoolingFlexMW[h], headroom))
				if cut > 0 {
					sched.CoolingCurtailMW[h] = cut
					remaining -= cut
					curtailedMWh += cut
				}
			}
		}

		if remaining > 0 {
			sched.UnservedMW[h] = remaining
			sched.HoursWithUnserved++
			if remaining > sched.PeakUnservedMW {
				sched.PeakUnservedMW = remaining
			}
		}

		// Reliability charging: top the battery back up from excess solar
		// first, then from idle dispatchable headroom.
		if storCap > 0 && soc < storCap {
			room := (storCap - soc) / oneWayEff
			charge := math.Min(fleet.StorageMW, room)

			fromSolar := math.Min(charge, solarExcess)
			idle := 0.0
			if gridCap > 0 {
				idle += gridCap - sched.GridMW[h]
			}
			idle += recipCap - sched.RecipMW[h] + turbineCap - sched.TurbineMW[h]
			fromThermal := math.Min(charge-fromSolar, idle)

			total := fromSolar + fromThermal
			if total > 0 {
				soc += total * oneWayEff
				sched.StorageChargeMW[h] = total
				// Charging energy drawn from thermal or grid counts toward
				// that source's generation.
				s.allocateCharge(sched, h, fromThermal, recipCap, turbineCap, gridCap, gridFirst)
				sched.SolarMW[h] += fromSolar
			}
		}
		if soc < reserve {
			soc = reserve
		}
		if soc > storCap {
			soc = storCap
		}
		sched.StorageSoCMWh[h] = soc
	}

	s.aggregate(fleet, profile, sched, recipCap, turbineCap)
	return sched
}

// allocateCharge books battery charging energy against the cheapest idle
// sources in the same order used for serving load.
func (s *Simulator) allocateCharge(sched *model.DispatchSchedule, h int, mw, recipCap, turbineCap, gridCap float64, gridFirst bool) {
	take := func(cap float64, out *float64) {
		if mw <= 0 {
			return
		}
		headroom := cap - *out
		if headroom <= 0 {
			return
		}
		use := math.Min(mw, headroom)
		*out += use
		mw -= use
	}
	if gridFirst {
		take(gridCap, &sched.GridMW[h])
		take(recipCap, &sched.RecipMW[h])
		take(turbineCap, &sched.TurbineMW[h])
	} else {
		take(recipCap, &sched.RecipMW[h])
		take(turbineCap, &sched.TurbineMW[h])
		take(gridCap, &sched.GridMW[h])
	}
}

func (s *Simulator) aggregate(fleet model.Fleet, profile *model.HourlyProfile, sched *model.DispatchSchedule, recipCap, turbineCap float64) {
	scale := profile.ScaleFactor
	var solar, storage, recip, turbine, grid, unserved, curtailed float64
	maxDelta := 0.0
	for h := 0; h < sched.Len(); h++ {
		solar += sched.SolarMW[h]
		storage += sched.StorageDischargeMW[h]
		recip += sched.RecipMW[h]
		turbine += sched.TurbineMW[h]
		grid += sched.GridMW[h]
		unserved += sched.UnservedMW[h]
		curtailed += sched.CurtailTotalMW(h)
		if h > 0 {
			if d := math.Abs(sched.LoadMW[h] - sched.LoadMW[h-1]); d > maxDelta {
				maxDelta = d
			}
		}
	}

	sched.EnergyRequiredMWh = profile.EnergyMWh()
	sched.UnservedMWh = unserved * scale
	sched.CurtailedMWh = curtailed * scale
	sched.EnergyDeliveredMWh = sched.EnergyRequiredMWh - sched.UnservedMWh - sched.CurtailedMWh

	sched.GenerationBySource["solar"] = solar * scale
	sched.GenerationBySource["storage"] = storage * scale
	sched.GenerationBySource["recip"] = recip * scale
	sched.GenerationBySource["turbine"] = turbine * scale
	sched.GenerationBySource["grid"] = grid * scale

	hours := float64(sched.Len())
	if recipCap > 0 {
		sched.CapacityFactors["recip"] = recip / (recipCap * hours)
	}
	if turbineCap > 0 {
		sched.CapacityFactors["turbine"] = turbine / (turbineCap * hours)
	}
	if fleet.SolarMW > 0 {
		sched.CapacityFactors["solar"] = solar / (fleet.SolarMW * hours)
	}
	if fleet.GridMW > 0 {
		sched.CapacityFactors["grid"] = grid / (fleet.GridMW * hours)
	}

	// Worst observed hour-to-hour step, assumed to arrive over five minutes.
	sched.MaxRampMWPerMin = maxDelta / 5

	if sched.UnservedMWh > 0 {
		s.log.Debugf("year %d: %.1f MWh unserved over %d hours (peak %.1f MW)",
			fleet.Year, sched.UnservedMWh, sched.HoursWithUnserved, sched.PeakUnservedMW)
	}
}
