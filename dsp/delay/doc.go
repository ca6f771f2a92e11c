// Package delay provides a circular fractional delay line for feedback
// delay effects.
//
// A [Line] stores its history in a buffer two samples longer than the
// longest requested delay so a 4-point [interp.Hermite4] read has valid taps
// at both ends of the range. Sizing happens once, outside the audio thread,
// via [Line.SetMaximumDelayInSamples]; [Line.Write] and [Line.Read] never
// allocate.
package delay
