package processor

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/cwbudde/algo-delay/internal/testutil"
	"github.com/stretchr/testify/require"
)

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestProtectOutputClean(t *testing.T) {
	out := [][]float64{{0.5, -1, 1}, {0, 0.25, -0.75}}
	want := [][]float64{{0.5, -1, 1}, {0, 0.25, -0.75}}

	var logs bytes.Buffer
	require.Equal(t, Clean, ProtectOutput(out, bufferLogger(&logs)))
	require.Equal(t, want, out)
	require.Empty(t, logs.String())
}

func TestProtectOutputMutes(t *testing.T) {
	tests := []struct {
		name   string
		bad    float64
		reason string
	}{
		{name: "nan", bad: math.NaN(), reason: "nan"},
		{name: "inf", bad: math.Inf(-1), reason: "inf"},
		{name: "loud", bad: 2.5, reason: "out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := [][]float64{{0.1, 0.2, 0.3}, {0.4, tt.bad, 0.6}}

			var logs bytes.Buffer
			require.Equal(t, Muted, ProtectOutput(out, bufferLogger(&logs)))
			testutil.RequireSilent(t, out[0])
			testutil.RequireSilent(t, out[1])
			require.Contains(t, logs.String(), "silencing output block")
			require.Contains(t, logs.String(), tt.reason)
		})
	}
}

func TestProtectOutputSoftClipLoggedOnce(t *testing.T) {
	out := [][]float64{{1.5, -1.2, 0}, {1.9, 0, 0}}

	var logs bytes.Buffer
	require.Equal(t, Clipped, ProtectOutput(out, bufferLogger(&logs)))
	require.Equal(t, 1.5, out[0][0], "soft clips pass through")
	require.Equal(t, 1.9, out[1][0])
	require.Equal(t, 1, strings.Count(logs.String(), "output above full scale"))
}

func TestProtectOutputStopsAtFirstFatalSample(t *testing.T) {
	out := [][]float64{{1.5, 3}, {math.NaN(), 0}}

	var logs bytes.Buffer
	require.Equal(t, Muted, ProtectOutput(out, bufferLogger(&logs)))
	require.Equal(t, 1, strings.Count(logs.String(), "silencing output block"))
	require.Contains(t, logs.String(), "out of range")
}

func TestProtectOutputNilLogger(t *testing.T) {
	out := [][]float64{{math.Inf(1)}}
	require.Equal(t, Muted, ProtectOutput(out, nil))
	require.Equal(t, 0.0, out[0][0])
}

func TestVerdictString(t *testing.T) {
	require.Equal(t, "clean", Clean.String())
	require.Equal(t, "clipped", Clipped.String())
	require.Equal(t, "muted", Muted.String())
	require.Equal(t, "unknown", Verdict(9).String())
}
