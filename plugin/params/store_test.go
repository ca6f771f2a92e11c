package params

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewStoreRejectsDuplicates(t *testing.T) {
	a, err := NewBool("a", "A", false)
	require.NoError(t, err)
	b, err := NewBool("a", "B", true)
	require.NoError(t, err)

	_, err = NewStore(a, b)
	require.Error(t, err)
}

func TestStoreLookupErrors(t *testing.T) {
	s, err := NewLayout()
	require.NoError(t, err)

	_, err = s.Lookup("wet")
	require.True(t, errors.Is(err, ErrUnknownParameter))

	_, err = s.Float(TempoSyncID)
	require.True(t, errors.Is(err, ErrParameterType))
	_, err = s.Bool(GainID)
	require.True(t, errors.Is(err, ErrParameterType))
	_, err = s.Choice(MixID)
	require.True(t, errors.Is(err, ErrParameterType))

	require.True(t, errors.Is(s.Set("wet", 1), ErrUnknownParameter))
}

func TestLayoutDefaults(t *testing.T) {
	s, err := NewLayout()
	require.NoError(t, err)

	want := map[ID]float64{
		GainID:      0,
		DelayTimeID: 100,
		MixID:       100,
		FeedbackID:  0,
		StereoID:    0,
		LowCutID:    20,
		HighCutID:   20000,
		TempoSyncID: 0,
		DelayNoteID: 9,
	}
	ps := s.Params()
	require.Len(t, ps, len(want))
	for _, p := range ps {
		v, ok := want[p.ID()]
		require.True(t, ok, "unexpected parameter %s", p.ID())
		require.Equal(t, v, p.Value(), "default of %s", p.ID())
	}

	note, err := s.Choice(DelayNoteID)
	require.NoError(t, err)
	require.Equal(t, "1/4", note.Text())
	require.Len(t, note.Choices(), 16)
}

func TestStoreResetToDefaults(t *testing.T) {
	s, err := NewLayout()
	require.NoError(t, err)

	require.NoError(t, s.Set(GainID, 6))
	require.NoError(t, s.Set(TempoSyncID, 1))
	require.NoError(t, s.Set(DelayNoteID, 3))
	s.ResetToDefaults()

	for _, p := range s.Params() {
		require.Equal(t, p.DefaultValue(), p.Value(), "%s", p.ID())
	}
}

func TestStoreSubscribe(t *testing.T) {
	s, err := NewLayout()
	require.NoError(t, err)

	changes, cancel := s.Subscribe(4)
	require.NoError(t, s.Set(MixID, 50))
	require.NoError(t, s.Set(MixID, 50)) // unchanged, not announced
	require.NoError(t, s.Set(TempoSyncID, 1))

	require.Equal(t, Change{ID: MixID, Value: 50}, <-changes)
	require.Equal(t, Change{ID: TempoSyncID, Value: 1}, <-changes)

	cancel()
	cancel()
	_, open := <-changes
	require.False(t, open)

	// Setting after cancel must not panic on the closed queue.
	require.NoError(t, s.Set(MixID, 10))
}

func TestStoreSubscribeDropsWhenFull(t *testing.T) {
	s, err := NewLayout()
	require.NoError(t, err)

	changes, cancel := s.Subscribe(1)
	defer cancel()

	require.NoError(t, s.Set(FeedbackID, 10))
	require.NoError(t, s.Set(FeedbackID, 20))
	require.NoError(t, s.Set(FeedbackID, 30))

	require.Equal(t, Change{ID: FeedbackID, Value: 10}, <-changes)
	select {
	case c := <-changes:
		t.Fatalf("unexpected queued change %+v", c)
	default:
	}
}
