// Package processor runs the stereo tempo-synced delay over blocks of
// planar float64 audio.
//
// A Processor owns two fractional delay lines cross-fed through a
// highpass/lowpass tone stage, a tempo clock and a pair of peak meters. It
// is driven by one real-time goroutine: Prepare sizes everything, then
// Process is called once per block and never allocates or blocks.
// Parameter values arrive through a [params.Store] that other goroutines
// may mutate at any time; peaks leave through [peak.Meter].
package processor
