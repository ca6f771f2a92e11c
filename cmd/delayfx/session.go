package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-delay/dsp/buffer"
	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/dsp/tempo"
	"github.com/cwbudde/algo-delay/internal/automation"
	"github.com/cwbudde/algo-delay/internal/wavio"
	"github.com/cwbudde/algo-delay/plugin/params"
	"github.com/cwbudde/algo-delay/plugin/processor"
)

// maxAutoTail bounds the estimated tail, which is infinite at full
// feedback.
const maxAutoTail = 30.0

type session struct {
	cfg       *config
	logger    *slog.Logger
	store     *params.Store
	proc      *processor.Processor
	transport tempo.Transport
	input     *wavio.File
	script    *automation.Script
}

func newSession(cfg *config, logger *slog.Logger) (*session, error) {
	store, err := params.NewLayout()
	if err != nil {
		return nil, err
	}

	if cfg.loadState != "" {
		data, err := os.ReadFile(cfg.loadState)
		if err != nil {
			return nil, fmt.Errorf("load state: %w", err)
		}
		if err := store.UnmarshalState(data); err != nil {
			return nil, fmt.Errorf("load state %s: %w", cfg.loadState, err)
		}
	}
	if err := applySettings(store, cfg.settings); err != nil {
		return nil, err
	}

	input, err := wavio.Open(cfg.input)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", cfg.input, err)
	}
	channels := input.Audio.Channels()
	if !processor.SupportsLayout(channels, 2) {
		return nil, fmt.Errorf("%s: unsupported channel count %d", cfg.input, channels)
	}

	proc, err := processor.New(store,
		core.WithMaxDelayMs(cfg.maxDelayMs),
		core.WithSafetyGuard(!cfg.noGuard),
		core.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if err := proc.Prepare(float64(input.SampleRate), cfg.blockSize); err != nil {
		return nil, err
	}

	s := &session{
		cfg:    cfg,
		logger: logger,
		store:  store,
		proc:   proc,
		input:  input,
	}
	if cfg.bpm > 0 {
		s.transport = tempo.FixedTransport(cfg.bpm)
	}

	if cfg.automation != "" {
		s.script, err = automation.LoadFile(cfg.automation, store, float64(input.SampleRate), logger)
		if err != nil {
			return nil, err
		}
	}

	logger.Info("session ready",
		"input", cfg.input,
		"sample_rate", input.SampleRate,
		"channels", channels,
		"frames", input.Audio.Frames())
	return s, nil
}

func applySettings(store *params.Store, settings []paramSetting) error {
	for _, set := range settings {
		p, err := store.Lookup(set.id)
		if err != nil {
			return err
		}
		if err := p.SetText(set.text); err != nil {
			return fmt.Errorf("-%s: %w", set.id, err)
		}
	}
	return nil
}

func (s *session) close() {
	if s.script != nil {
		s.script.Close()
	}
}

// tailSeconds returns the configured tail or the processor's estimate.
func (s *session) tailSeconds() float64 {
	if s.cfg.tail >= 0 {
		return s.cfg.tail
	}
	return math.Min(s.proc.TailLength(s.transport), maxAutoTail)
}

type summary struct {
	output   string
	frames   int
	duration time.Duration
	peaks    []float64
}

func (s summary) print(w io.Writer) {
	fmt.Fprintf(w, "wrote %s: %d frames (%s)\n", s.output, s.frames, s.duration.Round(time.Millisecond))
	for ch, peak := range s.peaks {
		fmt.Fprintf(w, "  channel %d peak: %s\n", ch, params.StringFromDecibels(core.LinearToDB(peak)))
	}
}

// render processes the whole input plus its tail and writes the output
// file. The automation script, if any, runs before every block.
func (s *session) render(ctx context.Context) (summary, error) {
	fs := float64(s.input.SampleRate)
	in := s.input.Audio
	inFrames := in.Frames()
	total := inFrames + int(math.Ceil(s.tailSeconds()*fs))
	in.Resize(total)

	out := buffer.New(2, total)
	var inViews, outViews [][]float64
	blockSize := s.cfg.blockSize

	for start := 0; start < total; start += blockSize {
		if err := ctx.Err(); err != nil {
			return summary{}, err
		}
		if s.script != nil {
			if err := s.script.Apply(ctx, float64(start)/fs); err != nil {
				return summary{}, err
			}
		}
		end := min(start+blockSize, total)
		inViews = in.View(start, end, inViews)
		outViews = out.View(start, end, outViews)
		s.proc.Process(inViews, outViews, s.transport)
	}

	bitDepth := s.cfg.bitDepth
	if bitDepth == 0 {
		bitDepth = s.input.BitDepth
		if bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
			bitDepth = 24
		}
	}
	if err := wavio.WriteFile(s.cfg.output, &wavio.File{
		SampleRate: s.input.SampleRate,
		BitDepth:   bitDepth,
		Audio:      out,
	}); err != nil {
		return summary{}, fmt.Errorf("write %s: %w", s.cfg.output, err)
	}

	sum := summary{
		output:   s.cfg.output,
		frames:   total,
		duration: time.Duration(float64(total) / fs * float64(time.Second)),
	}
	for ch := range out.Channels() {
		sum.peaks = append(sum.peaks, vecmath.MaxAbs(out.Channel(ch)))
	}
	s.logger.Info("render finished", "output", s.cfg.output, "frames", total, "tail_frames", total-inFrames)
	return sum, nil
}

func (s *session) saveState() error {
	if s.cfg.saveState == "" {
		return nil
	}
	data, err := s.store.MarshalState()
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.cfg.saveState, data, 0o644); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	s.logger.Info("state saved", "path", s.cfg.saveState)
	return nil
}
