package processor

import (
	"log/slog"
	"math"
)

const (
	// ClipLevel is the nominal full-scale magnitude.
	ClipLevel = 1.0
	// DangerLevel is the magnitude above which a block is muted.
	DangerLevel = 2.0
)

// Verdict is the outcome of an output scan.
type Verdict int

const (
	// Clean means every sample was within ClipLevel.
	Clean Verdict = iota
	// Clipped means some samples exceeded ClipLevel but none exceeded
	// DangerLevel. The block is passed through.
	Clipped
	// Muted means a non-finite sample or one beyond DangerLevel was found
	// and the whole block was zeroed.
	Muted
)

func (v Verdict) String() string {
	switch v {
	case Clean:
		return "clean"
	case Clipped:
		return "clipped"
	case Muted:
		return "muted"
	default:
		return "unknown"
	}
}

// ProtectOutput scans out channel by channel. The first NaN, Inf or
// sample beyond DangerLevel zeroes every channel and ends the scan. The
// first sample between ClipLevel and DangerLevel is logged; later ones in
// the same block are not.
func ProtectOutput(out [][]float64, logger *slog.Logger) Verdict {
	verdict := Clean
	for ch, data := range out {
		for i, x := range data {
			var reason string
			switch {
			case math.IsNaN(x):
				reason = "nan"
			case math.IsInf(x, 0):
				reason = "inf"
			case x < -DangerLevel || x > DangerLevel:
				reason = "out of range"
			case x < -ClipLevel || x > ClipLevel:
				if verdict == Clean {
					verdict = Clipped
					if logger != nil {
						logger.Debug("output above full scale", "channel", ch, "index", i, "value", x)
					}
				}
				continue
			default:
				continue
			}

			for _, c := range out {
				clear(c)
			}
			if logger != nil {
				logger.Warn("silencing output block", "reason", reason, "channel", ch, "index", i)
			}
			return Muted
		}
	}
	return verdict
}
