package loadmodel

import (
	"fmt"
	"math"

	"github.com/DougMackenzie/energy-optimizer/core/model"
)

// PeakWindow is the daily window (hours of day, inclusive) during which
// credited demand-response capacity must be deliverable every hour.
var PeakWindow = [2]int{16, 21}

// InPeakWindow reports whether an hour-of-day falls in the DR peak window.
func InPeakWindow(hourOfDay int) bool {
	return hourOfDay >= PeakWindow[0] && hourOfDay <= PeakWindow[1]
}

// DRProduct is a contractual curtailment service with its own response-time
// requirement and payment terms.
type DRProduct struct {
	ID                 string
	ResponseMinutes    float64
	CapacityPayment    float64 // $/MW-hr of enrollment
	ActivationPayment  float64 // $/MWh curtailed on activation
	MaxEventsPerYear   int
	Compatible         []model.WorkloadCategory
	CoolingParticipant bool
}

// Products returns the demand-response product catalog.
func Products() []DRProduct {
	return []DRProduct{
		{
			ID: "spinning_reserve", ResponseMinutes: 10,
			CapacityPayment: 15, ActivationPayment: 50, MaxEventsPerYear: 50,
			Compatible: []model.WorkloadCategory{model.WorkloadFineTuning, model.WorkloadBatchInference},
		},
		{
			ID: "non_spinning_reserve", ResponseMinutes: 30,
			CapacityPayment: 8, ActivationPayment: 40, MaxEventsPerYear: 100,
			Compatible: []model.WorkloadCategory{
				model.WorkloadPreTraining, model.WorkloadFineTuning, model.WorkloadBatchInference,
			},
		},
		{
			ID: "economic_dr", ResponseMinutes: 60,
			CapacityPayment: 5, ActivationPayment: 100, MaxEventsPerYear: 200,
			Compatible: []model.WorkloadCategory{
				model.WorkloadPreTraining, model.WorkloadFineTuning, model.WorkloadBatchInference,
			},
			CoolingParticipant: true,
		},
		{
			ID: "emergency_dr", ResponseMinutes: 120,
			CapacityPayment: 3, ActivationPayment: 200, MaxEventsPerYear: 20,
			Compatible: []model.WorkloadCategory{
				model.WorkloadPreTraining, model.WorkloadFineTuning, model.WorkloadBatchInference,
			},
			CoolingParticipant: true,
		},
	}
}

// ProductByID looks up a catalog product.
func ProductByID(id string) (DRProduct, error) {
	for _, p := range Products() {
		if p.ID == id {
			return p, nil
		}
	}
	return DRProduct{}, fmt.Errorf("unknown DR product: %s", id)
}

// DREconomics summarizes the revenue potential of one product against a
// profile.
type DREconomics struct {
	Product           string
	GuaranteedMW      float64 // minimum compatible flexibility across peak-window hours
	AverageMW         float64
	CapacityRevenue   float64
	ActivationRevenue float64
	TotalRevenue      float64
}

// Economics computes the revenue potential for one DR product. Credited
// capacity is the minimum compatible flexibility across every peak-window
// hour, not the average: ISOs require the capacity to be deliverable in all
// of them.
func Economics(p *model.HourlyProfile, product DRProduct, eventHours float64) DREconomics {
	guaranteed := math.Inf(1)
	sum := 0.0
	for h := 0; h < p.Len(); h++ {
		flex := 0.0
		for _, w := range product.Compatible {
			flex += p.FlexMW[w][h]
		}
		if product.CoolingParticipant {
			flex += p.CoolingFlexMW[h]
		}
		sum += flex
		if InPeakWindow(h%24) && flex < guaranteed {
			guaranteed = flex
		}
	}
	if math.IsInf(guaranteed, 1) {
		guaranteed = 0
	}

	capacityRev := guaranteed * float64(HoursPerYear) * product.CapacityPayment
	activationRev := guaranteed * eventHours * product.ActivationPayment
	return DREconomics{
		Product:           product.ID,
		GuaranteedMW:      guaranteed,
		AverageMW:         sum / float64(p.Len()),
		CapacityRevenue:   capacityRev,
		ActivationRevenue: activationRev,
		TotalRevenue:      capacityRev + activationRev,
	}
}
