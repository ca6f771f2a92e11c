package processor

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/dsp/delay"
	"github.com/cwbudde/algo-delay/dsp/filter/svf"
	"github.com/cwbudde/algo-delay/dsp/tempo"
	"github.com/cwbudde/algo-delay/measure/peak"
	"github.com/cwbudde/algo-delay/plugin/params"
)

// Processor is the delay signal path.
type Processor struct {
	cfg    core.ProcessorConfig
	logger *slog.Logger

	store  *params.Store
	engine *params.Engine
	clock  *tempo.Clock

	delayL, delayR delay.Line
	lowCut         *svf.Filter
	highCut        *svf.Filter

	feedbackL, feedbackR float64

	// Cutoffs last applied to the tone filters; -1 forces an update.
	lastLowCut, lastHighCut float64

	levelL, levelR peak.Meter

	prepared bool
}

// New returns a processor reading its parameters from store, which must
// hold the layout created by params.NewLayout. The processor outputs
// silence until Prepare is called.
func New(store *params.Store, opts ...core.ProcessorOption) (*Processor, error) {
	cfg := core.ApplyProcessorOptions(opts...)

	engine, err := params.NewEngine(store)
	if err != nil {
		return nil, fmt.Errorf("processor: %w", err)
	}

	lowCut, err := svf.New(svf.Highpass, cfg.SampleRate, 2)
	if err != nil {
		return nil, fmt.Errorf("processor low cut: %w", err)
	}
	highCut, err := svf.New(svf.Lowpass, cfg.SampleRate, 2)
	if err != nil {
		return nil, fmt.Errorf("processor high cut: %w", err)
	}

	return &Processor{
		cfg:         cfg,
		logger:      cfg.Logger,
		store:       store,
		engine:      engine,
		clock:       tempo.NewClock(),
		lowCut:      lowCut,
		highCut:     highCut,
		lastLowCut:  -1,
		lastHighCut: -1,
	}, nil
}

// SupportsLayout reports whether the processor accepts in input and out
// output channels: mono to mono, mono to stereo or stereo to stereo.
func SupportsLayout(in, out int) bool {
	switch {
	case in == 1 && out == 1:
		return true
	case in == 1 && out == 2:
		return true
	case in == 2 && out == 2:
		return true
	default:
		return false
	}
}

// SupportsLayout reports whether Process accepts the channel counts.
func (p *Processor) SupportsLayout(in, out int) bool { return SupportsLayout(in, out) }

// Prepare sizes the delay lines for the configured maximum delay time at
// sampleRate and clears all state. It allocates and must not run
// concurrently with Process.
func (p *Processor) Prepare(sampleRate float64, blockSize int) error {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("processor sample rate must be > 0: %f", sampleRate)
	}
	if blockSize <= 0 {
		return fmt.Errorf("processor block size must be > 0: %d", blockSize)
	}

	p.cfg.SampleRate = sampleRate
	p.cfg.BlockSize = blockSize

	p.engine.PrepareToPlay(sampleRate)
	p.engine.Reset()

	maxDelaySamples := int(math.Ceil(p.cfg.MaxDelayMs / 1000 * sampleRate))
	if err := p.delayL.SetMaximumDelayInSamples(maxDelaySamples); err != nil {
		return fmt.Errorf("processor left delay: %w", err)
	}
	if err := p.delayR.SetMaximumDelayInSamples(maxDelaySamples); err != nil {
		return fmt.Errorf("processor right delay: %w", err)
	}
	p.delayL.Reset()
	p.delayR.Reset()

	p.feedbackL = 0
	p.feedbackR = 0

	if err := p.lowCut.Prepare(sampleRate, 2); err != nil {
		return fmt.Errorf("processor low cut: %w", err)
	}
	if err := p.highCut.Prepare(sampleRate, 2); err != nil {
		return fmt.Errorf("processor high cut: %w", err)
	}
	p.lastLowCut = -1
	p.lastHighCut = -1

	p.clock.Reset()
	p.levelL.Reset()
	p.levelR.Reset()

	p.prepared = true
	p.logger.Info("processor prepared",
		"sample_rate", sampleRate,
		"block_size", blockSize,
		"max_delay_samples", maxDelaySamples)
	return nil
}

// Reset clears delay lines, feedback and filter state without resizing.
// Like Prepare it must not run concurrently with Process.
func (p *Processor) Reset() {
	p.engine.Reset()
	p.delayL.Reset()
	p.delayR.Reset()
	p.feedbackL = 0
	p.feedbackR = 0
	p.lowCut.Reset()
	p.highCut.Reset()
	p.lastLowCut = -1
	p.lastHighCut = -1
	p.clock.Reset()
}

// Process renders one block. in holds one or two input channels and out
// one or two output channels; the block length is len(out[0]). Output
// channels without a matching input are cleared first. A mono output
// carries the right channel of the stereo result.
//
// transport may be nil. Process must only be called from a single
// goroutine and does not allocate.
func (p *Processor) Process(in, out [][]float64, transport tempo.Transport) {
	if len(out) == 0 {
		return
	}
	if !p.prepared || !SupportsLayout(len(in), len(out)) {
		if p.prepared {
			core.Violation("processor: unsupported layout %d -> %d", len(in), len(out))
		}
		for _, ch := range out {
			clear(ch)
		}
		return
	}

	n := len(out[0])
	for _, ch := range out[1:] {
		n = min(n, len(ch))
	}
	for _, ch := range in {
		n = min(n, len(ch))
	}

	for ch := len(in); ch < len(out); ch++ {
		clear(out[ch])
	}

	p.engine.Update()
	p.clock.Update(transport)

	syncedTime := p.clock.MillisecondsForNoteLength(p.engine.DelayNote)
	if syncedTime > p.cfg.MaxDelayMs {
		syncedTime = p.cfg.MaxDelayMs
	}

	sampleRate := p.cfg.SampleRate
	maxDelay := p.delayL.MaxDelay()

	inL := in[0]
	inR := in[len(in)-1]
	outL := out[0]
	outR := out[len(out)-1]

	var maxL, maxR float64
	for i := 0; i < n; i++ {
		p.engine.Smoothen()

		delayTime := p.engine.DelayTime
		if p.engine.TempoSync {
			delayTime = syncedTime
		}
		delayInSamples := core.Clamp(delayTime/1000*sampleRate, delay.MinDelay, maxDelay)

		if p.engine.LowCut != p.lastLowCut {
			p.lowCut.SetCutoff(p.engine.LowCut)
			p.lastLowCut = p.engine.LowCut
		}
		if p.engine.HighCut != p.lastHighCut {
			p.highCut.SetCutoff(p.engine.HighCut)
			p.lastHighCut = p.engine.HighCut
		}

		dryL := inL[i]
		dryR := inR[i]

		mono := (dryL + dryR) * 0.5

		p.delayL.Write(mono*p.engine.PanL + p.feedbackR)
		p.delayR.Write(mono*p.engine.PanR + p.feedbackL)

		wetL := p.delayL.Read(delayInSamples)
		wetR := p.delayR.Read(delayInSamples)

		p.feedbackL = wetL * p.engine.Feedback
		p.feedbackL = p.lowCut.ProcessSample(0, p.feedbackL)
		p.feedbackL = p.highCut.ProcessSample(0, p.feedbackL)

		p.feedbackR = wetR * p.engine.Feedback
		p.feedbackR = p.lowCut.ProcessSample(1, p.feedbackR)
		p.feedbackR = p.highCut.ProcessSample(1, p.feedbackR)

		l := (dryL + wetL*p.engine.Mix) * p.engine.Gain
		r := (dryR + wetR*p.engine.Mix) * p.engine.Gain

		outL[i] = l
		outR[i] = r

		maxL = math.Max(maxL, math.Abs(l))
		maxR = math.Max(maxR, math.Abs(r))
	}

	if p.cfg.SafetyGuard {
		ProtectOutput(out, p.logger)
	}

	p.levelL.UpdateIfGreater(maxL)
	p.levelR.UpdateIfGreater(maxR)
}

// Levels returns the left and right output peak meters.
func (p *Processor) Levels() (left, right *peak.Meter) {
	return &p.levelL, &p.levelR
}

// Engine returns the smoothed parameter view driven by Process.
func (p *Processor) Engine() *params.Engine { return p.engine }

// Params returns the parameter store the processor reads.
func (p *Processor) Params() *params.Store { return p.store }

// Clock returns the tempo clock updated at the start of every block.
func (p *Processor) Clock() *tempo.Clock { return p.clock }

// SampleRate returns the rate of the last successful Prepare, or the
// configured default before that.
func (p *Processor) SampleRate() float64 { return p.cfg.SampleRate }

// Prepared reports whether Prepare has succeeded.
func (p *Processor) Prepared() bool { return p.prepared }

// TailLength estimates, in seconds, how long the output keeps ringing after
// the input stops: one delay period per echo until the feedback has
// decayed by 60 dB. transport supplies the tempo used when tempo sync is
// on and may be nil.
func (p *Processor) TailLength(transport tempo.Transport) float64 {
	var clock tempo.Clock
	clock.Update(transport)

	delayMs := p.storeFloat(params.DelayTimeID)
	if sync, err := p.store.Bool(params.TempoSyncID); err == nil && sync.Get() {
		if note, err := p.store.Choice(params.DelayNoteID); err == nil {
			delayMs = math.Min(clock.MillisecondsForNoteLength(note.Index()), p.cfg.MaxDelayMs)
		}
	}

	fb := math.Abs(p.storeFloat(params.FeedbackID)) * 0.01
	echoes := 1.0
	switch {
	case fb >= 1:
		return math.Inf(1)
	case fb > 0:
		echoes += math.Ceil(math.Log(1e-3) / math.Log(fb))
	}
	return echoes * delayMs / 1000
}

func (p *Processor) storeFloat(id params.ID) float64 {
	f, err := p.store.Float(id)
	if err != nil {
		return 0
	}
	return f.Get()
}
