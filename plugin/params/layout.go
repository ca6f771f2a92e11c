package params

import (
	"fmt"

	"github.com/cwbudde/algo-delay/dsp/tempo"
)

// Delay time limits in milliseconds.
const (
	MinDelayTime = 5.0
	MaxDelayTime = 5000.0
)

// Gain limits in dB.
const (
	MinGainDB = -12.0
	MaxGainDB = 12.0
)

// Tone filter limits in Hz.
const (
	MinCutoff = 20.0
	MaxCutoff = 20000.0
)

// NewLayout returns a store holding the delay effect's parameters at their
// defaults.
func NewLayout() (*Store, error) {
	var (
		errs   []error
		params []Parameter
	)
	addFloat := func(id ID, name string, rng Range, def float64, opts ...FloatOption) {
		p, err := NewFloat(id, name, rng, def, opts...)
		if err != nil {
			errs = append(errs, err)
			return
		}
		params = append(params, p)
	}

	addFloat(GainID, "Output Gain", Range{Min: MinGainDB, Max: MaxGainDB}, 0,
		WithFormatter(StringFromDecibels))
	addFloat(DelayTimeID, "Delay Time", Range{Min: MinDelayTime, Max: MaxDelayTime, Step: 0.001, Skew: 0.25}, 100,
		WithFormatter(StringFromMilliseconds), WithParser(MillisecondsFromString))
	addFloat(MixID, "Mix", Range{Min: 0, Max: 100, Step: 1}, 100,
		WithFormatter(StringFromPercent))
	addFloat(FeedbackID, "Feedback", Range{Min: -100, Max: 100, Step: 1}, 0,
		WithFormatter(StringFromPercent))
	addFloat(StereoID, "Stereo", Range{Min: -100, Max: 100, Step: 1}, 0,
		WithFormatter(StringFromPercent))
	addFloat(LowCutID, "Low Cut", Range{Min: MinCutoff, Max: MaxCutoff, Step: 1, Skew: 0.3}, MinCutoff,
		WithFormatter(StringFromHz), WithParser(HzFromString))
	addFloat(HighCutID, "High Cut", Range{Min: MinCutoff, Max: MaxCutoff, Step: 1, Skew: 0.3}, MaxCutoff,
		WithFormatter(StringFromHz), WithParser(HzFromString))

	syncParam, err := NewBool(TempoSyncID, "Tempo Sync", false)
	if err != nil {
		errs = append(errs, err)
	} else {
		params = append(params, syncParam)
	}

	note, err := NewChoice(DelayNoteID, "Delay Note", tempo.NoteNames(), tempo.QuarterNote)
	if err != nil {
		errs = append(errs, err)
	} else {
		params = append(params, note)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("delay layout: %w", errs[0])
	}
	return NewStore(params...)
}
