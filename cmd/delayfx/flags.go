package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/plugin/params"
)

type paramSetting struct {
	id   params.ID
	text string
}

type config struct {
	input  string
	output string

	play       bool
	loop       bool
	bpm        float64
	blockSize  int
	bitDepth   int
	tail       float64
	maxDelayMs float64
	noGuard    bool

	automation string
	loadState  string
	saveState  string
	logLevel   string

	settings []paramSetting
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	layout, err := params.NewLayout()
	if err != nil {
		return nil, err
	}

	cfg := &config{}
	fs := flag.NewFlagSet("delayfx", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.BoolVar(&cfg.play, "play", false, "play through the default audio device instead of writing a file")
	fs.BoolVar(&cfg.loop, "loop", false, "loop the input while playing")
	fs.Float64Var(&cfg.bpm, "bpm", 0, "host tempo reported to the delay; 0 means no transport")
	fs.IntVar(&cfg.blockSize, "block", 512, "processing block size in frames")
	fs.IntVar(&cfg.bitDepth, "bits", 0, "output bit depth (16, 24 or 32); 0 keeps the input depth")
	fs.Float64Var(&cfg.tail, "tail", -1, "seconds rendered after the input ends; negative estimates it from the feedback")
	fs.Float64Var(&cfg.maxDelayMs, "max-delay", core.DefaultMaxDelayMs, "delay line capacity in milliseconds")
	fs.BoolVar(&cfg.noGuard, "no-guard", false, "disable the output safety guard")
	fs.StringVar(&cfg.automation, "automation", "", "Lua script defining automate(t)")
	fs.StringVar(&cfg.loadState, "load-state", "", "restore parameters from a state file before applying flags")
	fs.StringVar(&cfg.saveState, "save-state", "", "write the final parameters to a state file")
	fs.StringVar(&cfg.logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	var names []string
	for _, p := range layout.Params() {
		id := p.ID()
		names = append(names, string(id))
		usage := fmt.Sprintf("%s (default %q)", p.Name(), p.Text())
		fs.Func(string(id), usage, func(text string) error {
			cfg.settings = append(cfg.settings, paramSetting{id: id, text: text})
			return nil
		})
	}

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: delayfx [flags] input.(wav|mp3) [output.wav]\n\n")
		fmt.Fprintf(stderr, "Runs audio through the stereo tempo-sync delay.\n")
		fmt.Fprintf(stderr, "Parameter flags: %s\n\n", strings.Join(names, ", "))
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch fs.NArg() {
	case 1:
		cfg.input = fs.Arg(0)
	case 2:
		cfg.input, cfg.output = fs.Arg(0), fs.Arg(1)
	default:
		fs.Usage()
		return nil, errors.New("expected an input file and an optional output file")
	}

	for _, path := range []*string{&cfg.input, &cfg.output, &cfg.automation, &cfg.loadState, &cfg.saveState} {
		expanded, err := homedir.Expand(*path)
		if err != nil {
			return nil, err
		}
		*path = expanded
	}

	if !cfg.play && cfg.output == "" {
		return nil, errors.New("an output file is required unless -play is set")
	}
	if cfg.blockSize <= 0 {
		return nil, fmt.Errorf("block size must be > 0: %d", cfg.blockSize)
	}
	switch cfg.bitDepth {
	case 0, 16, 24, 32:
	default:
		return nil, fmt.Errorf("bit depth must be 16, 24 or 32: %d", cfg.bitDepth)
	}
	if cfg.maxDelayMs <= 0 {
		return nil, fmt.Errorf("max delay must be > 0: %g", cfg.maxDelayMs)
	}

	return cfg, nil
}

func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
