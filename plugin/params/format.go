package params

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// StringFromMilliseconds formats a delay time: "4.25 ms", "42.5 ms",
// "425 ms", then seconds from 1000 ms up.
func StringFromMilliseconds(ms float64) string {
	switch {
	case ms < 10:
		return fmt.Sprintf("%.2f ms", ms)
	case ms < 100:
		return fmt.Sprintf("%.1f ms", ms)
	case ms < 1000:
		return fmt.Sprintf("%d ms", int(ms))
	default:
		return fmt.Sprintf("%.2f s", ms*0.001)
	}
}

// MillisecondsFromString parses a delay time. Text ending in "s" but not
// "ms", and bare numbers below MinDelayTime, are read as seconds.
func MillisecondsFromString(text string) float64 {
	v := leadingFloat(text)
	t := strings.ToLower(strings.TrimSpace(text))
	if !strings.HasSuffix(t, "ms") {
		if strings.HasSuffix(t, "s") || v < MinDelayTime {
			return v * 1000
		}
	}
	return v
}

// StringFromDecibels formats a gain as "N.N dB".
func StringFromDecibels(db float64) string {
	return fmt.Sprintf("%.1f dB", db)
}

// StringFromPercent formats a percentage as "N %".
func StringFromPercent(pct float64) string {
	return fmt.Sprintf("%d %%", int(pct))
}

// StringFromHz formats a frequency: "N Hz" below 1 kHz, "N.NN k" below
// 10 kHz and "N.N k" above.
func StringFromHz(hz float64) string {
	switch {
	case hz < 1000:
		return fmt.Sprintf("%d Hz", int(hz))
	case hz < 10000:
		return fmt.Sprintf("%.2f k", hz/1000)
	default:
		return fmt.Sprintf("%.1f k", hz/1000)
	}
}

// HzFromString parses a frequency; numbers below 20 are read as kHz.
func HzFromString(text string) float64 {
	v := leadingFloat(text)
	if v < 20 {
		return v * 1000
	}
	return v
}

// leadingFloat parses the longest numeric prefix of s, ignoring leading
// space. It returns NaN when there is no number.
func leadingFloat(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	for i, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == 'e' || r == 'E' ||
			((r == '-' || r == '+') && (i == 0 || s[i-1] == 'e' || s[i-1] == 'E')) {
			end = i + 1
			continue
		}
		break
	}
	for ; end > 0; end-- {
		if v, err := strconv.ParseFloat(s[:end], 64); err == nil && !math.IsInf(v, 0) {
			return v
		}
	}
	return math.NaN()
}
