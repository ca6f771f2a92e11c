// Package svf provides a topology-preserving-transform (zero-delay
// feedback) state-variable filter.
//
// The filter keeps independent integrator state per channel and a single
// shared coefficient set, so one [Filter] serves a stereo feedback path.
// Cutoff changes are cheap (one tan call) and keep the integrator state,
// which makes the filter suitable for per-sample modulated cutoffs.
package svf
