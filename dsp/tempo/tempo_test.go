package tempo

import (
	"errors"
	"math"
	"testing"
)

type stubTransport struct {
	pos Position
	ok  bool
}

func (s stubTransport) Position() (Position, bool) { return s.pos, s.ok }

func TestQuarterNoteAt120(t *testing.T) {
	c := NewClock()
	if got := c.MillisecondsForNoteLength(QuarterNote); got != 500 {
		t.Fatalf("quarter note at 120 bpm: got %v want 500", got)
	}
}

func TestDoublingTempoHalvesEveryNote(t *testing.T) {
	slow := NewClock()
	fast := NewClock()
	fast.Update(FixedTransport(240))

	for i := 0; i < NoteCount; i++ {
		s := slow.MillisecondsForNoteLength(i)
		f := fast.MillisecondsForNoteLength(i)
		if math.Abs(f-s/2) > 1e-9 {
			t.Fatalf("index %d: %v at 240 bpm, want %v", i, f, s/2)
		}
	}
}

func TestNoteTableIsAscending(t *testing.T) {
	c := NewClock()
	prev := 0.0
	for i := 0; i < NoteCount; i++ {
		ms := c.MillisecondsForNoteLength(i)
		if ms <= prev {
			t.Fatalf("index %d: %v not above %v", i, ms, prev)
		}
		prev = ms
	}
	if got := c.MillisecondsForNoteLength(NoteCount - 1); got != 2000 {
		t.Fatalf("whole note at 120 bpm: got %v want 2000", got)
	}
	if got := c.MillisecondsForNoteLength(0); got != 62.5 {
		t.Fatalf("1/32 at 120 bpm: got %v want 62.5", got)
	}
}

func TestUpdateFallsBackToDefault(t *testing.T) {
	tests := []struct {
		name      string
		transport Transport
	}{
		{name: "nil transport", transport: nil},
		{name: "no position", transport: stubTransport{ok: false}},
		{name: "no bpm", transport: stubTransport{ok: true, pos: Position{BPM: 90}}},
		{name: "zero bpm", transport: FixedTransport(0)},
		{name: "negative bpm", transport: FixedTransport(-80)},
		{name: "nan bpm", transport: FixedTransport(math.NaN())},
		{name: "inf bpm", transport: FixedTransport(math.Inf(1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClock()
			c.Update(FixedTransport(90))
			c.Update(tt.transport)
			if c.BPM() != DefaultBPM {
				t.Fatalf("BPM = %v, want %v", c.BPM(), DefaultBPM)
			}
		})
	}
}

func TestUpdateAdoptsHostTempo(t *testing.T) {
	c := NewClock()
	c.Update(stubTransport{ok: true, pos: Position{BPM: 93.5, HasBPM: true}})
	if c.BPM() != 93.5 {
		t.Fatalf("BPM = %v, want 93.5", c.BPM())
	}
}

func TestZeroClockUsesDefault(t *testing.T) {
	var c Clock
	if got := c.MillisecondsForNoteLength(QuarterNote); got != 500 {
		t.Fatalf("zero clock: got %v want 500", got)
	}
}

func TestNoteLength(t *testing.T) {
	if v, err := NoteLength(QuarterNote); err != nil || v != 1 {
		t.Fatalf("NoteLength(QuarterNote) = %v, %v", v, err)
	}
	for _, bad := range []int{-1, NoteCount} {
		if _, err := NoteLength(bad); !errors.Is(err, ErrNoteIndex) {
			t.Fatalf("NoteLength(%d): err = %v, want ErrNoteIndex", bad, err)
		}
	}
}

func TestNoteNames(t *testing.T) {
	n := NoteNames()
	if len(n) != NoteCount || n[QuarterNote] != "1/4" || n[0] != "1/32" {
		t.Fatalf("unexpected names: %v", n)
	}
	n[0] = "changed"
	if NoteNames()[0] != "1/32" {
		t.Fatal("NoteNames exposes internal table")
	}
}
