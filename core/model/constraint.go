package model

// ConstraintKind separates blocking limits from advisory ones.
type ConstraintKind string

const (
	ConstraintHard ConstraintKind = "hard"
	ConstraintSoft ConstraintKind = "soft"
)

// ConstraintStatus classifies how close a measured value sits to its limit.
type ConstraintStatus string

const (
	StatusSlack       ConstraintStatus = "SLACK"
	StatusNearBinding ConstraintStatus = "NEAR_BINDING"
	StatusBinding     ConstraintStatus = "BINDING"
	StatusViolated    ConstraintStatus = "VIOLATED"
)

// ConstraintResult is one constraint check for one configuration-year.
// A violated hard constraint makes the year infeasible; soft violations are
// reported only.
type ConstraintResult struct {
	Name      string
	Value     float64
	Limit     float64
	Unit      string
	Kind      ConstraintKind
	Tolerance float64 // fractional band above the limit before Violated
}

// Utilization is value relative to limit; zero when the limit is not set.
func (c ConstraintResult) Utilization() float64 {
	if c.Limit <= 0 {
		return 0
	}
	return c.Value / c.Limit
}

// Violated reports whether the value exceeds the tolerated limit.
func (c ConstraintResult) Violated() bool {
	return c.Value > c.Limit*(1+c.Tolerance)
}

// Binding reports utilization at or above 95%.
func (c ConstraintResult) Binding() bool {
	return c.Utilization() >= 0.95
}

// Status derives the classification from utilization and tolerance.
func (c ConstraintResult) Status() ConstraintStatus {
	switch {
	case c.Violated():
		return StatusViolated
	case c.Binding():
		return StatusBinding
	case c.Utilization() > 0.80:
		return StatusNearBinding
	default:
		return StatusSlack
	}
}
