// Package tempo tracks the host tempo and converts musical note lengths to
// delay times.
package tempo

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-delay/dsp/core"
)

// DefaultBPM is the tempo used when the host does not report one.
const DefaultBPM = 120.0

// NoteCount is the number of selectable note lengths.
const NoteCount = 16

// QuarterNote is the index of the plain 1/4 note.
const QuarterNote = 9

// ErrNoteIndex is returned for a note index outside [0, NoteCount).
var ErrNoteIndex = errors.New("note index out of range")

// multipliers holds note lengths in quarter notes, shortest first.
var multipliers = [NoteCount]float64{
	0.125,     // 1/32
	0.5 / 3.0, // 1/16 triplet
	0.1875,    // 1/32 dotted
	0.25,      // 1/16
	1.0 / 3.0, // 1/8 triplet
	0.375,     // 1/16 dotted
	0.5,       // 1/8
	2.0 / 3.0, // 1/4 triplet
	0.75,      // 1/8 dotted
	1.0,       // 1/4
	4.0 / 3.0, // 1/2 triplet
	1.5,       // 1/4 dotted
	2.0,       // 1/2
	8.0 / 3.0, // 1/1 triplet
	3.0,       // 1/2 dotted
	4.0,       // 1/1
}

var names = [NoteCount]string{
	"1/32", "1/16 trip", "1/32 dot", "1/16",
	"1/8 trip", "1/16 dot", "1/8", "1/4 trip",
	"1/8 dot", "1/4", "1/2 trip", "1/4 dot",
	"1/2", "1/1 trip", "1/2 dot", "1/1",
}

// NoteNames returns the display names of all note lengths in index order.
func NoteNames() []string {
	out := make([]string, NoteCount)
	copy(out, names[:])
	return out
}

// NoteLength returns the length of note index in quarter notes.
func NoteLength(index int) (float64, error) {
	if index < 0 || index >= NoteCount {
		return 0, fmt.Errorf("%w: %d not in [0, %d]", ErrNoteIndex, index, NoteCount-1)
	}
	return multipliers[index], nil
}

// Position is the subset of host transport state the clock consumes.
type Position struct {
	BPM    float64
	HasBPM bool
}

// Transport is queried once per block for the host position. ok is false
// when the host has no position to report.
type Transport interface {
	Position() (pos Position, ok bool)
}

// FixedTransport reports a constant tempo.
type FixedTransport float64

// Position implements Transport.
func (f FixedTransport) Position() (Position, bool) {
	return Position{BPM: float64(f), HasBPM: true}, true
}

// Clock holds the current tempo. The zero value is not ready; use
// NewClock or call Reset.
type Clock struct {
	bpm float64
}

// NewClock returns a clock at DefaultBPM.
func NewClock() *Clock {
	return &Clock{bpm: DefaultBPM}
}

// Reset restores DefaultBPM.
func (c *Clock) Reset() {
	c.bpm = DefaultBPM
}

// BPM returns the current tempo.
func (c *Clock) BPM() float64 {
	return c.bpm
}

// Update resets to DefaultBPM and then adopts the host tempo if the
// transport reports one. Non-positive and non-finite host tempos are
// ignored so the clock always holds a positive value.
func (c *Clock) Update(t Transport) {
	c.Reset()

	if t == nil {
		return
	}

	pos, ok := t.Position()
	if !ok || !pos.HasBPM {
		return
	}

	if pos.BPM > 0 && core.IsFinite(pos.BPM) {
		c.bpm = pos.BPM
	}
}

// MillisecondsForNoteLength converts note index to milliseconds at the
// current tempo: 60000 * multiplier / bpm.
//
// index must be in [0, NoteCount). Out-of-range indices are clamped; builds
// tagged dspdebug panic instead.
func (c *Clock) MillisecondsForNoteLength(index int) float64 {
	if index < 0 || index >= NoteCount {
		core.Violation("tempo: note index %d outside [0, %d]", index, NoteCount-1)
		index = core.ClampInt(index, 0, NoteCount-1)
	}

	bpm := c.bpm
	if bpm <= 0 {
		bpm = DefaultBPM
	}
	return 60000.0 * multipliers[index] / bpm
}
