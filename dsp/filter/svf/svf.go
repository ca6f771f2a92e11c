package svf

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-delay/dsp/core"
)

// Type selects the filter response.
type Type int

const (
	// Lowpass passes content below the cutoff.
	Lowpass Type = iota
	// Highpass passes content above the cutoff.
	Highpass
	// Bandpass passes content around the cutoff.
	Bandpass
)

// String implements fmt.Stringer.
func (t Type) String() string {
	switch t {
	case Lowpass:
		return "lowpass"
	case Highpass:
		return "highpass"
	case Bandpass:
		return "bandpass"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// DefaultResonance is the Butterworth damping 1/sqrt(2).
const DefaultResonance = 1 / math.Sqrt2

const (
	defaultCutoff   = 1000.0
	maxCutoffRatio  = 0.49
	minCutoffHz     = 1e-3
)

// Filter is a state-variable filter with per-channel state.
type Filter struct {
	typ        Type
	sampleRate float64
	cutoff     float64
	resonance  float64

	g, r2, h float64

	s1, s2 []float64
}

// New returns a filter prepared for sampleRate and channels.
func New(typ Type, sampleRate float64, channels int) (*Filter, error) {
	f := &Filter{typ: typ, cutoff: defaultCutoff, resonance: DefaultResonance}
	if err := f.Prepare(sampleRate, channels); err != nil {
		return nil, err
	}
	return f, nil
}

// Prepare sets the sample rate and channel count and clears state.
// It allocates and must not be called from the audio thread.
func (f *Filter) Prepare(sampleRate float64, channels int) error {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("svf sample rate must be > 0: %f", sampleRate)
	}
	if channels <= 0 {
		return fmt.Errorf("svf channel count must be > 0: %d", channels)
	}
	if f.resonance == 0 {
		f.resonance = DefaultResonance
	}
	if f.cutoff == 0 {
		f.cutoff = defaultCutoff
	}

	f.sampleRate = sampleRate
	if len(f.s1) != channels {
		f.s1 = make([]float64, channels)
		f.s2 = make([]float64, channels)
	}
	f.Reset()
	f.update()
	return nil
}

// Type returns the filter response type.
func (f *Filter) Type() Type { return f.typ }

// SetType switches the response. State is kept.
func (f *Filter) SetType(typ Type) { f.typ = typ }

// Cutoff returns the cutoff frequency in Hz after clamping.
func (f *Filter) Cutoff() float64 { return f.cutoff }

// SetCutoff sets the cutoff frequency in Hz. Values are clamped to
// (0, 0.49*sampleRate]. Safe to call per sample.
func (f *Filter) SetCutoff(hz float64) {
	if !core.IsFinite(hz) {
		return
	}
	maxHz := defaultCutoff
	if f.sampleRate > 0 {
		maxHz = maxCutoffRatio * f.sampleRate
	}
	f.cutoff = core.Clamp(hz, minCutoffHz, maxHz)
	f.update()
}

// SetResonance sets the damping term; 1/sqrt(2) gives a flat passband.
func (f *Filter) SetResonance(resonance float64) error {
	if resonance <= 0 || !core.IsFinite(resonance) {
		return fmt.Errorf("svf resonance must be > 0: %f", resonance)
	}
	f.resonance = resonance
	f.update()
	return nil
}

// Reset clears the integrator state of all channels.
func (f *Filter) Reset() {
	for i := range f.s1 {
		f.s1[i] = 0
		f.s2[i] = 0
	}
}

// ProcessSample filters one sample of channel ch.
func (f *Filter) ProcessSample(ch int, x float64) float64 {
	if ch < 0 || ch >= len(f.s1) {
		core.Violation("svf: channel %d outside [0, %d)", ch, len(f.s1))
		return x
	}

	s1, s2 := f.s1[ch], f.s2[ch]

	hp := f.h * (x - s1*(f.g+f.r2) - s2)
	bp := hp*f.g + s1
	lp := bp*f.g + s2

	f.s1[ch] = core.FlushDenormals(hp*f.g + bp)
	f.s2[ch] = core.FlushDenormals(bp*f.g + lp)

	switch f.typ {
	case Highpass:
		return hp
	case Bandpass:
		return bp
	default:
		return lp
	}
}

// ProcessBlock filters buf in place on channel ch.
func (f *Filter) ProcessBlock(ch int, buf []float64) {
	for i, x := range buf {
		buf[i] = f.ProcessSample(ch, x)
	}
}

func (f *Filter) update() {
	if f.sampleRate <= 0 {
		return
	}
	f.g = math.Tan(math.Pi * f.cutoff / f.sampleRate)
	f.r2 = 1 / f.resonance
	f.h = 1 / (1 + f.r2*f.g + f.g*f.g)
}
