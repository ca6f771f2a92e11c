package core

import (
	"io"
	"log/slog"
)

// DefaultMaxDelayMs is the longest delay time the processing buffers are
// sized for.
const DefaultMaxDelayMs = 5000.0

// ProcessorConfig defines common DSP processing settings.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
	MaxDelayMs float64

	// SafetyGuard mutes output blocks containing non-finite or
	// catastrophically loud samples.
	SafetyGuard bool

	Logger *slog.Logger
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns sensible defaults for offline and streaming use.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate:  48000,
		BlockSize:   512,
		MaxDelayMs:  DefaultMaxDelayMs,
		SafetyGuard: debugChecks,
		Logger:      discardLogger,
	}
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger { return discardLogger }

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the processing block size.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithMaxDelayMs sets the longest delay time, in milliseconds, that delay
// buffers must hold.
func WithMaxDelayMs(ms float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if ms > 0 && IsFinite(ms) {
			cfg.MaxDelayMs = ms
		}
	}
}

// WithSafetyGuard enables or disables the output safety guard.
func WithSafetyGuard(enabled bool) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		cfg.SafetyGuard = enabled
	}
}

// WithLogger sets the logger used outside the per-sample loop.
func WithLogger(logger *slog.Logger) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if logger != nil {
			cfg.Logger = logger
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
