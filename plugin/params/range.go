package params

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-delay/dsp/core"
)

// Range maps plain parameter values to the normalised [0, 1] domain used by
// host automation. Step 0 means continuous. Skew below 1 gives more of the
// normalised range to low values.
type Range struct {
	Min, Max float64
	Step     float64
	Skew     float64
}

func (r Range) validate() error {
	if !(r.Max > r.Min) || !core.IsFinite(r.Min) || !core.IsFinite(r.Max) {
		return fmt.Errorf("parameter range must satisfy min < max: [%g, %g]", r.Min, r.Max)
	}
	if r.Step < 0 {
		return fmt.Errorf("parameter step must be >= 0: %g", r.Step)
	}
	if r.Skew < 0 {
		return fmt.Errorf("parameter skew must be >= 0: %g", r.Skew)
	}
	return nil
}

func (r Range) skew() float64 {
	if r.Skew == 0 {
		return 1
	}
	return r.Skew
}

// Legal clamps v into the range and snaps it to the step grid. NaN maps to
// Min.
func (r Range) Legal(v float64) float64 {
	if math.IsNaN(v) {
		return r.Min
	}
	v = core.Clamp(v, r.Min, r.Max)
	if r.Step <= 0 {
		return v
	}

	n := math.Round((v - r.Min) / r.Step)
	snapped := r.Min + n*r.Step
	// Values already on the grid are kept verbatim.
	if math.Abs(snapped-v) <= 1e-9*r.Step {
		return v
	}
	return core.Clamp(snapped, r.Min, r.Max)
}

// Normalize maps a plain value to [0, 1].
func (r Range) Normalize(v float64) float64 {
	p := (core.Clamp(v, r.Min, r.Max) - r.Min) / (r.Max - r.Min)
	if s := r.skew(); s != 1 && p > 0 {
		p = math.Exp(math.Log(p) * s)
	}
	return p
}

// Denormalize maps p in [0, 1] to a legal plain value.
func (r Range) Denormalize(p float64) float64 {
	p = core.Clamp(p, 0, 1)
	if s := r.skew(); s != 1 && p > 0 {
		p = math.Exp(math.Log(p) / s)
	}
	return r.Legal(r.Min + (r.Max-r.Min)*p)
}
