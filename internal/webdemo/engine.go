// Package webdemo hosts the delay processor for the browser demo. It keeps
// all DSP and parameter handling in Go so the wasm entry point only
// converts between JavaScript values and these methods.
package webdemo

import (
	"fmt"

	"github.com/cwbudde/algo-delay/dsp/buffer"
	"github.com/cwbudde/algo-delay/dsp/tempo"
	"github.com/cwbudde/algo-delay/measure/response"
	"github.com/cwbudde/algo-delay/plugin/params"
	"github.com/cwbudde/algo-delay/plugin/processor"
)

// Quantum is the render size of a Web Audio worklet.
const Quantum = 128

const responseFFTSize = 1 << 13

// ParamInfo describes one parameter for the UI.
type ParamInfo struct {
	ID         string
	Name       string
	Kind       string
	Text       string
	Normalized float64
	Choices    []string
}

// Engine runs the delay on planar float32 audio.
type Engine struct {
	sampleRate float64
	store      *params.Store
	proc       *processor.Processor
	transport  tempo.Transport

	in, out  *buffer.Block
	inViews  [][]float64
	outViews [][]float64
}

// NewEngine creates a prepared engine at sampleRate with default
// parameters.
func NewEngine(sampleRate float64) (*Engine, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be > 0: %f", sampleRate)
	}
	store, err := params.NewLayout()
	if err != nil {
		return nil, err
	}
	proc, err := processor.New(store)
	if err != nil {
		return nil, err
	}
	if err := proc.Prepare(sampleRate, Quantum); err != nil {
		return nil, err
	}
	return &Engine{
		sampleRate: sampleRate,
		store:      store,
		proc:       proc,
		in:         buffer.New(2, Quantum),
		out:        buffer.New(2, Quantum),
	}, nil
}

// SetTransport reports bpm to the processor; bpm <= 0 removes the
// transport.
func (e *Engine) SetTransport(bpm float64) {
	if bpm <= 0 {
		e.transport = nil
		return
	}
	e.transport = tempo.FixedTransport(bpm)
}

// SetParam sets a parameter from display text.
func (e *Engine) SetParam(id, text string) error {
	p, err := e.store.Lookup(params.ID(id))
	if err != nil {
		return err
	}
	return p.SetText(text)
}

// SetNormalized sets a parameter from a [0, 1] slider position.
func (e *Engine) SetNormalized(id string, v float64) error {
	p, err := e.store.Lookup(params.ID(id))
	if err != nil {
		return err
	}
	p.SetNormalized(v)
	return nil
}

// Params returns the current parameter values in layout order.
func (e *Engine) Params() []ParamInfo {
	all := e.store.Params()
	infos := make([]ParamInfo, 0, len(all))
	for _, p := range all {
		info := ParamInfo{
			ID:         string(p.ID()),
			Name:       p.Name(),
			Kind:       p.Kind().String(),
			Text:       p.Text(),
			Normalized: p.Normalized(),
		}
		if c, ok := p.(*params.ChoiceParam); ok {
			info.Choices = c.Choices()
		}
		infos = append(infos, info)
	}
	return infos
}

// Reset restores default parameters and clears the delay lines.
func (e *Engine) Reset() {
	e.store.ResetToDefaults()
	e.proc.Reset()
}

// Process runs the delay over left and right in place. Both slices must
// have the same length; a mono source passes the same slice twice.
func (e *Engine) Process(left, right []float32) {
	n := min(len(left), len(right))
	for start := 0; start < n; start += Quantum {
		end := min(start+Quantum, n)
		frames := end - start

		inL, inR := e.in.Channel(0), e.in.Channel(1)
		for i := range frames {
			inL[i] = float64(left[start+i])
			inR[i] = float64(right[start+i])
		}

		e.inViews = e.in.View(0, frames, e.inViews)
		e.outViews = e.out.View(0, frames, e.outViews)
		e.proc.Process(e.inViews, e.outViews, e.transport)

		outL, outR := e.outViews[0], e.outViews[1]
		for i := range frames {
			left[start+i] = float32(outL[i])
			right[start+i] = float32(outR[i])
		}
	}
}

// Levels returns and resets the output peaks since the previous call.
func (e *Engine) Levels() (left, right float64) {
	l, r := e.proc.Levels()
	return l.ReadAndReset(), r.ReadAndReset()
}

// ResponseCurveDB returns the per-repeat gain of the feedback filters at
// the current cutoffs.
func (e *Engine) ResponseCurveDB(freqs []float64) ([]float32, error) {
	low, err := e.store.Float(params.LowCutID)
	if err != nil {
		return nil, err
	}
	high, err := e.store.Float(params.HighCutID)
	if err != nil {
		return nil, err
	}
	db, err := response.ToneResponse(low.Get(), high.Get(), e.sampleRate, freqs, responseFFTSize)
	if err != nil {
		return nil, err
	}
	out := make([]float32, len(db))
	for i, v := range db {
		out[i] = float32(v)
	}
	return out, nil
}

// State serializes the parameters.
func (e *Engine) State() ([]byte, error) { return e.store.MarshalState() }

// LoadState restores parameters written by State.
func (e *Engine) LoadState(data []byte) error { return e.store.UnmarshalState(data) }
