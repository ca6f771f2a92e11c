package delay

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/dsp/interp"
)

// padding is the number of extra slots kept beyond the maximum delay.
const padding = 2

// MinDelay is the shortest delay, in samples, Read accepts.
const MinDelay = 1.0

// ErrCapacity is returned when a non-positive delay capacity is requested.
var ErrCapacity = errors.New("delay capacity must be > 0")

// Line is a circular delay line with fractional reads.
//
// The zero value is an empty line; size it with SetMaximumDelayInSamples
// before use.
type Line struct {
	buffer []float64
	// writeIndex holds the slot of the most recent write.
	writeIndex int
}

// New returns a reset delay line able to delay by up to maxDelay samples.
func New(maxDelay int) (*Line, error) {
	d := &Line{}
	if err := d.SetMaximumDelayInSamples(maxDelay); err != nil {
		return nil, err
	}
	d.Reset()
	return d, nil
}

// SetMaximumDelayInSamples makes room for delays of up to n samples.
//
// The buffer only ever grows; when it does, previous contents are
// discarded. This is the only allocating method and must not run
// concurrently with audio processing.
func (d *Line) SetMaximumDelayInSamples(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d", ErrCapacity, n)
	}

	length := n + padding
	if len(d.buffer) < length {
		d.buffer = make([]float64, length)
		d.writeIndex = length - 1
	}
	return nil
}

// Len returns the internal buffer length including padding.
func (d *Line) Len() int {
	return len(d.buffer)
}

// MaxDelay returns the longest delay, in samples, Read accepts.
func (d *Line) MaxDelay() float64 {
	return float64(len(d.buffer) - padding)
}

// Reset silences the line and rewinds the cursor so the next write lands
// at index 0.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writeIndex = len(d.buffer) - 1
}

// Write advances the cursor and stores one sample.
func (d *Line) Write(sample float64) {
	size := len(d.buffer)
	if size == 0 {
		core.Violation("delay: write to unsized line")
		return
	}

	d.writeIndex++
	if d.writeIndex >= size {
		d.writeIndex = 0
	}
	d.buffer[d.writeIndex] = sample
}

// CheckDelay reports whether delay is a valid Read argument.
func (d *Line) CheckDelay(delay float64) error {
	if len(d.buffer) == 0 {
		return errors.New("delay line is not sized")
	}
	if !(delay >= MinDelay && delay <= d.MaxDelay()) {
		return fmt.Errorf("delay must be in [%g, %g]: %g", MinDelay, d.MaxDelay(), delay)
	}
	return nil
}

// Read returns the sample delay samples behind the most recent write,
// interpolating between stored samples with Hermite4. An integer delay k
// returns exactly the sample written k writes before the latest one.
//
// delay must lie in [MinDelay, MaxDelay()]. Out-of-range values are clamped;
// builds tagged dspdebug panic instead.
func (d *Line) Read(delay float64) float64 {
	size := len(d.buffer)
	if size == 0 {
		return 0
	}

	maxDelay := float64(size - padding)
	if !(delay >= MinDelay && delay <= maxDelay) {
		core.Violation("delay: read at %g outside [%g, %g]", delay, MinDelay, maxDelay)
		if math.IsNaN(delay) || delay < MinDelay {
			delay = MinDelay
		} else {
			delay = maxDelay
		}
	}

	k := int(delay)
	t := delay - float64(k)

	newer := wrap(d.writeIndex-k+1, size)
	x0 := wrap(d.writeIndex-k, size)
	x1 := wrap(d.writeIndex-k-1, size)
	older := wrap(d.writeIndex-k-2, size)

	return interp.Hermite4(t, d.buffer[newer], d.buffer[x0], d.buffer[x1], d.buffer[older])
}

// wrap maps an index in [-size, size) into [0, size).
func wrap(i, size int) int {
	if i < 0 {
		return i + size
	}
	return i
}
