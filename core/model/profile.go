package model

// HourlyProfile is an hourly demand series with its flexibility breakdown.
// It may cover a full year (8760 steps) or a reduced representative set, in
// which case ScaleFactor maps sums back to annual totals.
type HourlyProfile struct {
	Seed        int64
	ScaleFactor float64 // full-year hours / represented hours (1.0 for 8760)

	TotalMW   []float64
	ITMW      []float64
	CoolingMW []float64
	FirmMW    []float64

	FlexMW        map[WorkloadCategory][]float64
	CoolingFlexMW []float64
}

// Len returns the number of hourly steps.
func (p *HourlyProfile) Len() int { return len(p.TotalMW) }

// FlexTotalMW returns the total curtailable load at step h, cooling
// included.
func (p *HourlyProfile) FlexTotalMW(h int) float64 {
	flex := p.CoolingFlexMW[h]
	for _, series := range p.FlexMW {
		flex += series[h]
	}
	return flex
}

// EnergyMWh returns the annual energy requirement represented by the
// profile, scaled to a full year.
func (p *HourlyProfile) EnergyMWh() float64 {
	sum := 0.0
	for _, mw := range p.TotalMW {
		sum += mw
	}
	return sum * p.ScaleFactor
}

// Scale returns a copy with every series multiplied by factor. Used to grow
// a reference-year profile along the load trajectory.
func (p *HourlyProfile) Scale(factor float64) *HourlyProfile {
	out := &HourlyProfile{
		Seed:          p.Seed,
		ScaleFactor:   p.ScaleFactor,
		TotalMW:       scaled(p.TotalMW, factor),
		ITMW:          scaled(p.ITMW, factor),
		CoolingMW:     scaled(p.CoolingMW, factor),
		FirmMW:        scaled(p.FirmMW, factor),
		CoolingFlexMW: scaled(p.CoolingFlexMW, factor),
		FlexMW:        make(map[WorkloadCategory][]float64, len(p.FlexMW)),
	}
	for w, series := range p.FlexMW {
		out.FlexMW[w] = scaled(series, factor)
	}
	return out
}

func scaled(src []float64, factor float64) []float64 {
	dst := make([]float64, len(src))
	for i, v := range src {
		dst[i] = v * factor
	}
	return dst
}
