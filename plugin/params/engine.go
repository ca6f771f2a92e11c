package params

import (
	"fmt"

	"github.com/cwbudde/algo-delay/dsp/core"
)

const (
	// RampSeconds is the linear smoothing time of gain, mix, feedback,
	// stereo and the tone cutoffs.
	RampSeconds = 0.02
	// DelayTimeConstant is the one-pole time constant of delay-time
	// changes, in seconds.
	DelayTimeConstant = 0.2
)

// Engine turns store values into smoothed per-sample coefficients.
//
// The exported fields hold the values for the current sample after the
// last Smoothen call. Engine is owned by the audio thread.
type Engine struct {
	Gain      float64 // linear
	DelayTime float64 // ms; 0 until the first Update
	Mix       float64 // 0..1
	Feedback  float64 // -1..1
	PanL      float64
	PanR      float64
	LowCut    float64 // Hz
	HighCut   float64 // Hz
	DelayNote int
	TempoSync bool

	gainParam      *FloatParam
	delayTimeParam *FloatParam
	mixParam       *FloatParam
	feedbackParam  *FloatParam
	stereoParam    *FloatParam
	lowCutParam    *FloatParam
	highCutParam   *FloatParam
	tempoSyncParam *BoolParam
	delayNoteParam *ChoiceParam

	gainSmoother     LinearSmoother
	mixSmoother      LinearSmoother
	feedbackSmoother LinearSmoother
	stereoSmoother   LinearSmoother
	lowCutSmoother   LinearSmoother
	highCutSmoother  LinearSmoother
	delayTime        OnePole
}

// NewEngine resolves the delay parameters in s. It fails if any is missing
// or has the wrong type.
func NewEngine(s *Store) (*Engine, error) {
	if s == nil {
		return nil, fmt.Errorf("parameter engine: nil store")
	}

	e := &Engine{}
	var err error
	floats := []struct {
		id  ID
		dst **FloatParam
	}{
		{GainID, &e.gainParam},
		{DelayTimeID, &e.delayTimeParam},
		{MixID, &e.mixParam},
		{FeedbackID, &e.feedbackParam},
		{StereoID, &e.stereoParam},
		{LowCutID, &e.lowCutParam},
		{HighCutID, &e.highCutParam},
	}
	for _, f := range floats {
		if *f.dst, err = s.Float(f.id); err != nil {
			return nil, fmt.Errorf("parameter engine: %w", err)
		}
	}
	if e.tempoSyncParam, err = s.Bool(TempoSyncID); err != nil {
		return nil, fmt.Errorf("parameter engine: %w", err)
	}
	if e.delayNoteParam, err = s.Choice(DelayNoteID); err != nil {
		return nil, fmt.Errorf("parameter engine: %w", err)
	}

	e.Reset()
	return e, nil
}

// PrepareToPlay sets ramp lengths and the delay-time coefficient for
// sampleRate.
func (e *Engine) PrepareToPlay(sampleRate float64) {
	e.gainSmoother.Reset(sampleRate, RampSeconds)
	e.mixSmoother.Reset(sampleRate, RampSeconds)
	e.feedbackSmoother.Reset(sampleRate, RampSeconds)
	e.stereoSmoother.Reset(sampleRate, RampSeconds)
	e.lowCutSmoother.Reset(sampleRate, RampSeconds)
	e.highCutSmoother.Reset(sampleRate, RampSeconds)
	e.delayTime.SetTimeConstant(sampleRate, DelayTimeConstant)
}

// DelayTimeCoefficient returns the one-pole coefficient of delay-time
// smoothing.
func (e *Engine) DelayTimeCoefficient() float64 { return e.delayTime.Coefficient() }

// Reset jumps every smoother to the stored value so playback starts
// without ramps. The delay time is left unset and snaps to its target on
// the next Update.
func (e *Engine) Reset() {
	e.gainSmoother.SetCurrentAndTarget(core.DBToLinear(e.gainParam.Get()))
	e.mixSmoother.SetCurrentAndTarget(e.mixParam.Get() * 0.01)
	e.feedbackSmoother.SetCurrentAndTarget(e.feedbackParam.Get() * 0.01)
	e.stereoSmoother.SetCurrentAndTarget(e.stereoParam.Get() * 0.01)
	e.lowCutSmoother.SetCurrentAndTarget(e.lowCutParam.Get())
	e.highCutSmoother.SetCurrentAndTarget(e.highCutParam.Get())

	e.delayTime.Current = 0
	e.delayTime.Target = 0

	e.Gain = e.gainSmoother.Current()
	e.DelayTime = 0
	e.Mix = e.mixSmoother.Current()
	e.Feedback = e.feedbackSmoother.Current()
	e.PanL, e.PanR = core.PanEqualPower(e.stereoSmoother.Current())
	e.LowCut = e.lowCutSmoother.Current()
	e.HighCut = e.highCutSmoother.Current()
	e.DelayNote = e.delayNoteParam.Index()
	e.TempoSync = e.tempoSyncParam.Get()
}

// Update copies the stored values into the smoother targets. Call once per
// block. Note index and tempo sync apply from the next sample unsmoothed.
func (e *Engine) Update() {
	e.gainSmoother.SetTarget(core.DBToLinear(e.gainParam.Get()))

	e.delayTime.Target = e.delayTimeParam.Get()
	if e.delayTime.Current == 0 {
		e.delayTime.Current = e.delayTime.Target
		e.DelayTime = e.delayTime.Current
	}

	e.mixSmoother.SetTarget(e.mixParam.Get() * 0.01)
	e.feedbackSmoother.SetTarget(e.feedbackParam.Get() * 0.01)
	e.stereoSmoother.SetTarget(e.stereoParam.Get() * 0.01)
	e.lowCutSmoother.SetTarget(e.lowCutParam.Get())
	e.highCutSmoother.SetTarget(e.highCutParam.Get())

	e.DelayNote = e.delayNoteParam.Index()
	e.TempoSync = e.tempoSyncParam.Get()
}

// Smoothen advances every smoother by one sample.
func (e *Engine) Smoothen() {
	e.Gain = e.gainSmoother.Next()
	e.DelayTime = e.delayTime.Next()
	e.Mix = e.mixSmoother.Next()
	e.Feedback = e.feedbackSmoother.Next()
	e.PanL, e.PanR = core.PanEqualPower(e.stereoSmoother.Next())
	e.LowCut = e.lowCutSmoother.Next()
	e.HighCut = e.highCutSmoother.Next()
}
