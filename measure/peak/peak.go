// Package peak provides a lock-free "peak since last read" level meter.
//
// The audio thread publishes block peaks with [Meter.UpdateIfGreater]; a
// polling reader (meter display, UI timer) collects them with
// [Meter.ReadAndReset]. Neither side blocks or takes a lock.
package peak

import (
	"math"
	"sync/atomic"
)

// Meter holds the largest value published since the last read. The zero
// value reads 0 and is ready to use.
type Meter struct {
	bits atomic.Uint64
}

// Reset stores 0.
func (m *Meter) Reset() {
	m.bits.Store(0)
}

// Load returns the stored value without clearing it.
func (m *Meter) Load() float64 {
	return math.Float64frombits(m.bits.Load())
}

// UpdateIfGreater publishes v if it is strictly greater than the stored
// value. NaN is never published.
func (m *Meter) UpdateIfGreater(v float64) {
	for {
		old := m.bits.Load()
		if !(v > math.Float64frombits(old)) {
			return
		}
		if m.bits.CompareAndSwap(old, math.Float64bits(v)) {
			return
		}
	}
}

// ReadAndReset returns the stored value and atomically replaces it with 0.
func (m *Meter) ReadAndReset() float64 {
	return math.Float64frombits(m.bits.Swap(0))
}
