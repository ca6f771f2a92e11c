package response

import (
	"math"
	"testing"
)

func TestEchoesPicksWindowPeak(t *testing.T) {
	ir := make([]float64, 40)
	ir[2] = 0.2
	ir[3] = -0.9
	ir[4] = 0.1
	ir[20] = 0.5
	ir[30] = 0.001

	got := Echoes(ir, 0.01, 8)
	if len(got) != 2 {
		t.Fatalf("got %d echoes %+v, want 2", len(got), got)
	}
	if got[0].Index != 3 || got[0].Level != 0.9 {
		t.Fatalf("first echo = %+v", got[0])
	}
	if got[1].Index != 20 || got[1].Level != 0.5 {
		t.Fatalf("second echo = %+v", got[1])
	}
	if math.Abs(got[1].LevelDB()-20*math.Log10(0.5)) > 1e-12 {
		t.Fatalf("LevelDB = %v", got[1].LevelDB())
	}
	if Echoes(nil, 0.1, 8) != nil {
		t.Fatal("empty input should give no echoes")
	}
}

func TestSpacing(t *testing.T) {
	if Spacing(nil) != 0 || Spacing([]Echo{{Index: 4}}) != 0 {
		t.Fatal("fewer than two echoes should give 0")
	}
	got := Spacing([]Echo{{Index: 100}, {Index: 200}, {Index: 301}})
	if got != 100.5 {
		t.Fatalf("Spacing = %v, want 100.5", got)
	}
}

func TestSchroederNormalised(t *testing.T) {
	curve := Schroeder([]float64{1, 0, 1})
	if curve[0] != 0 {
		t.Fatalf("curve[0] = %v, want 0 dB", curve[0])
	}
	if math.Abs(curve[1]-10*math.Log10(0.5)) > 1e-12 {
		t.Fatalf("curve[1] = %v, want -3 dB", curve[1])
	}
	for _, v := range Schroeder(make([]float64, 4)) {
		if v != FloorDB {
			t.Fatalf("silent curve = %v, want floor", v)
		}
	}
}

func TestDecayTimeExponential(t *testing.T) {
	const (
		fs  = 48000.0
		rt  = 0.5
		dur = 1.5
	)
	ir := make([]float64, int(fs*dur))
	rate := math.Log(1000) / rt
	for i := range ir {
		ir[i] = math.Exp(-rate * float64(i) / fs)
	}

	got := DecayTime(ir, fs)
	if math.Abs(got-rt) > 0.01*rt {
		t.Fatalf("DecayTime = %v, want %v", got, rt)
	}
	if DecayTime(ir, 0) != 0 {
		t.Fatal("zero sample rate should give 0")
	}
	if DecayTime([]float64{1}, fs) != 0 {
		t.Fatal("a single sample does not decay")
	}
}
