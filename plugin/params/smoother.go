package params

import "math"

// LinearSmoother ramps towards its target in a fixed number of equal steps
// and lands on the target exactly.
type LinearSmoother struct {
	current, target float64
	step             float64
	steps            int
	countdown        int
}

// Reset sets the ramp length to rampSeconds at sampleRate and jumps to the
// current target.
func (s *LinearSmoother) Reset(sampleRate, rampSeconds float64) {
	steps := 0
	if sampleRate > 0 && rampSeconds > 0 {
		steps = int(math.Floor(rampSeconds * sampleRate))
	}
	s.steps = steps
	s.SetCurrentAndTarget(s.target)
}

// SetCurrentAndTarget jumps to v without ramping.
func (s *LinearSmoother) SetCurrentAndTarget(v float64) {
	s.current = v
	s.target = v
	s.countdown = 0
	s.step = 0
}

// SetTarget starts a ramp from the current value to v. Setting the same
// target again does not restart the ramp.
func (s *LinearSmoother) SetTarget(v float64) {
	if v == s.target {
		return
	}
	if s.steps <= 0 {
		s.SetCurrentAndTarget(v)
		return
	}
	s.target = v
	s.countdown = s.steps
	s.step = (s.target - s.current) / float64(s.countdown)
}

// Next advances one sample and returns the new current value.
func (s *LinearSmoother) Next() float64 {
	if s.countdown <= 0 {
		return s.target
	}
	s.countdown--
	if s.countdown > 0 {
		s.current += s.step
	} else {
		s.current = s.target
	}
	return s.current
}

// Current returns the value without advancing.
func (s *LinearSmoother) Current() float64 { return s.current }

// Target returns the ramp destination.
func (s *LinearSmoother) Target() float64 { return s.target }

// IsSmoothing reports whether a ramp is in progress.
func (s *LinearSmoother) IsSmoothing() bool { return s.countdown > 0 }

// OnePole is an exponential smoother: current += (target-current)*coeff.
type OnePole struct {
	Current, Target float64
	coeff           float64
}

// OnePoleCoefficient returns 1 - exp(-1/(timeConstant*sampleRate)).
func OnePoleCoefficient(sampleRate, timeConstant float64) float64 {
	if sampleRate <= 0 || timeConstant <= 0 {
		return 1
	}
	return 1 - math.Exp(-1/(timeConstant*sampleRate))
}

// SetTimeConstant sets the coefficient for timeConstant seconds at
// sampleRate. A non-positive argument makes the smoother follow its
// target immediately.
func (s *OnePole) SetTimeConstant(sampleRate, timeConstant float64) {
	s.coeff = OnePoleCoefficient(sampleRate, timeConstant)
}

// Coefficient returns the per-sample coefficient.
func (s *OnePole) Coefficient() float64 { return s.coeff }

// Next advances one sample and returns the new current value.
func (s *OnePole) Next() float64 {
	s.Current += (s.Target - s.Current) * s.coeff
	return s.Current
}
