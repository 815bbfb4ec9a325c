package model

import "sort"

// WorkloadCategory is a class of datacenter compute with its own load shape
// and curtailment flexibility.
type WorkloadCategory string

const (
	WorkloadPreTraining       WorkloadCategory = "pre_training"
	WorkloadFineTuning        WorkloadCategory = "fine_tuning"
	WorkloadBatchInference    WorkloadCategory = "batch_inference"
	WorkloadRealtimeInference WorkloadCategory = "realtime_inference"
	WorkloadRLTraining        WorkloadCategory = "rl_training"
	WorkloadCloudHPC          WorkloadCategory = "cloud_hpc"
)

// WorkloadCategories lists all categories in a stable order.
var WorkloadCategories = []WorkloadCategory{
	WorkloadPreTraining,
	WorkloadFineTuning,
	WorkloadBatchInference,
	WorkloadRealtimeInference,
	WorkloadRLTraining,
	WorkloadCloudHPC,
}

// FlexibilitySpec bounds how much of a workload category can be curtailed
// and how quickly it responds.
type FlexibilitySpec struct {
	Fraction        float64 // curtailable share of the category's load [0,1]
	ResponseMinutes float64
	MinRunHours     float64
}

// LoadTrajectory is the multi-year demand input: peak facility load per
// year plus the workload composition that determines flexibility.
// Read-only to the optimization core.
type LoadTrajectory struct {
	PeakMWByYear map[int]float64

	// WorkloadMix holds percentages (0-100) per category. Must sum to 100
	// within MixTolerance.
	WorkloadMix map[WorkloadCategory]float64

	Flexibility map[WorkloadCategory]FlexibilitySpec

	CoolingFlex float64 // curtailable fraction of cooling load
	PUE         float64
	LoadFactor  float64 // average utilization relative to peak
}

// MixTolerance is the allowed deviation of the workload mix sum from 100%.
const MixTolerance = 0.5

// Years returns the planning years in ascending order.
func (t LoadTrajectory) Years() []int {
	years := make([]int, 0, len(t.PeakMWByYear))
	for y := range t.PeakMWByYear {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// StartYear returns the first planning year.
func (t LoadTrajectory) StartYear() int {
	years := t.Years()
	if len(years) == 0 {
		return 0
	}
	return years[0]
}

// EndYear returns the last planning year.
func (t LoadTrajectory) EndYear() int {
	years := t.Years()
	if len(years) == 0 {
		return 0
	}
	return years[len(years)-1]
}

// PeakMW returns the highest peak load across all years.
func (t LoadTrajectory) PeakMW() float64 {
	peak := 0.0
	for _, mw := range t.PeakMWByYear {
		if mw > peak {
			peak = mw
		}
	}
	return peak
}

// MixSum returns the sum of workload mix percentages.
func (t LoadTrajectory) MixSum() float64 {
	sum := 0.0
	for _, pct := range t.WorkloadMix {
		sum += pct
	}
	return sum
}

// FlexFraction returns the flexibility fraction for a category, zero when
// unspecified.
func (t LoadTrajectory) FlexFraction(w WorkloadCategory) float64 {
	return t.Flexibility[w].Fraction
}
