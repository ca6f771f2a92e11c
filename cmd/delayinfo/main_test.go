package main

import (
	"bytes"
	"flag"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseHz(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"20", 20},
		{"440 Hz", 440},
		{"1k", 1000},
		{"1.5k", 1500},
		{"20K", 20000},
		{"2", 2000},
	}
	for _, tt := range tests {
		require.InDelta(t, tt.want, parseHz(tt.in), 1e-9, tt.in)
	}
	require.True(t, math.IsNaN(parseHz("fastk")))
}

func TestParseFreqs(t *testing.T) {
	freqs, err := parseFreqs("100, 1k,,10k")
	require.NoError(t, err)
	require.Equal(t, []float64{100, 1000, 10000}, freqs)

	_, err = parseFreqs(" , ")
	require.Error(t, err)
	_, err = parseFreqs("100,loud")
	require.Error(t, err)
}

func TestPrintNotes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printNotes(&buf, 120))
	out := buf.String()

	require.Contains(t, out, "Time @ 120.0 BPM")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2+16)

	var quarter string
	for _, l := range lines {
		if f := strings.Fields(l); len(f) > 1 && f[0] == "1/4" && f[1] == "1" {
			quarter = l
		}
	}
	require.Contains(t, quarter, "500 ms")
	require.Contains(t, quarter, "24000")
}

func TestPrintTone(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printTone(&buf, 200, 4000, 48000, []float64{50, 1000, 15000}, 1<<14))
	out := buf.String()
	require.Contains(t, out, "low cut 200 Hz, high cut 4.00 k")
	require.Contains(t, out, "1.00 k")

	require.Error(t, printTone(io.Discard, 200, 4000, 48000, []float64{1000}, 1000))
}

func TestRun(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-bpm", "60", "-freqs", "1k"}, &out, io.Discard))
	require.Contains(t, out.String(), "Time @ 60.0 BPM")
	require.Contains(t, out.String(), "Gain per repeat")

	out.Reset()
	require.NoError(t, run([]string{"-tone=false"}, &out, io.Discard))
	require.NotContains(t, out.String(), "Tone response")

	require.Error(t, run([]string{"-low", "abc"}, io.Discard, io.Discard))
	require.ErrorIs(t, run([]string{"-h"}, io.Discard, io.Discard), flag.ErrHelp)
}
