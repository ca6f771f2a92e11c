package params

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) (*Store, *Engine) {
	t.Helper()
	s, err := NewLayout()
	require.NoError(t, err)
	e, err := NewEngine(s)
	require.NoError(t, err)
	e.PrepareToPlay(48000)
	return s, e
}

func TestNewEngineRequiresLayout(t *testing.T) {
	_, err := NewEngine(nil)
	require.Error(t, err)

	mix, err := NewFloat(MixID, "Mix", Range{Min: 0, Max: 100}, 100)
	require.NoError(t, err)
	s, err := NewStore(mix)
	require.NoError(t, err)
	_, err = NewEngine(s)
	require.ErrorIs(t, err, ErrUnknownParameter)
}

func TestEngineResetUsesStoredValues(t *testing.T) {
	_, e := newTestEngine(t)

	require.Equal(t, 1.0, e.Gain)
	require.Equal(t, 1.0, e.Mix)
	require.Equal(t, 0.0, e.Feedback)
	require.InDelta(t, math.Sqrt2/2, e.PanL, 1e-12)
	require.InDelta(t, math.Sqrt2/2, e.PanR, 1e-12)
	require.Equal(t, 20.0, e.LowCut)
	require.Equal(t, 20000.0, e.HighCut)
	require.Equal(t, 9, e.DelayNote)
	require.False(t, e.TempoSync)
	require.Equal(t, 0.0, e.DelayTime)
}

func TestEngineResetIsIdempotent(t *testing.T) {
	s, e := newTestEngine(t)
	require.NoError(t, s.Set(StereoID, 40))
	require.NoError(t, s.Set(GainID, -6))

	e.Reset()
	first := *e
	e.Reset()
	require.Equal(t, first.Gain, e.Gain)
	require.Equal(t, first.PanL, e.PanL)
	require.Equal(t, first.PanR, e.PanR)
	require.InDelta(t, core.DBToLinear(-6), e.Gain, 1e-12)
}

func TestEngineFirstUpdateSnapsDelayTime(t *testing.T) {
	s, e := newTestEngine(t)
	require.NoError(t, s.Set(DelayTimeID, 250))

	e.Update()
	require.Equal(t, 250.0, e.DelayTime)
	e.Smoothen()
	require.Equal(t, 250.0, e.DelayTime)

	// Later changes glide.
	require.NoError(t, s.Set(DelayTimeID, 350))
	e.Update()
	e.Smoothen()
	want := 250 + 100*e.DelayTimeCoefficient()
	require.InDelta(t, want, e.DelayTime, 1e-9)
}

func TestEngineRampsLandOnTargets(t *testing.T) {
	s, e := newTestEngine(t)
	e.Update()

	require.NoError(t, s.Set(GainID, 6))
	require.NoError(t, s.Set(MixID, 30))
	require.NoError(t, s.Set(FeedbackID, -50))
	require.NoError(t, s.Set(LowCutID, 200))
	e.Update()

	e.Smoothen()
	require.Greater(t, e.Gain, 1.0)
	require.Less(t, e.Gain, core.DBToLinear(6))

	for i := 1; i < int(RampSeconds*48000); i++ {
		e.Smoothen()
	}
	require.Equal(t, core.DBToLinear(6), e.Gain)
	require.InDelta(t, 0.3, e.Mix, 1e-15)
	require.InDelta(t, -0.5, e.Feedback, 1e-15)
	require.Equal(t, 200.0, e.LowCut)
}

func TestEnginePanExtremes(t *testing.T) {
	tests := []struct {
		stereo      float64
		left, right float64
	}{
		{stereo: -100, left: 1, right: 0},
		{stereo: 0, left: math.Sqrt2 / 2, right: math.Sqrt2 / 2},
		{stereo: 100, left: 0, right: 1},
	}
	for _, tt := range tests {
		s, e := newTestEngine(t)
		require.NoError(t, s.Set(StereoID, tt.stereo))
		e.Reset()
		require.InDelta(t, tt.left, e.PanL, 1e-12, "stereo %v", tt.stereo)
		require.InDelta(t, tt.right, e.PanR, 1e-12, "stereo %v", tt.stereo)
		require.InDelta(t, 1, e.PanL*e.PanL+e.PanR*e.PanR, 1e-12)
	}
}

func TestEngineUpdatePicksUpSwitches(t *testing.T) {
	s, e := newTestEngine(t)
	require.NoError(t, s.Set(TempoSyncID, 1))
	require.NoError(t, s.Set(DelayNoteID, 4))
	e.Update()
	require.True(t, e.TempoSync)
	require.Equal(t, 4, e.DelayNote)
}
