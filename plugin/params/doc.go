// Package params holds the delay effect's parameter store and the engine
// that turns stored values into per-sample smoothed coefficients.
//
// The [Store] is the control-side view: typed parameters with ranges,
// defaults, display formatting, normalised host automation values and
// persisted state. Setters are safe to call from any goroutine; changes
// are announced through subscription queues rather than callbacks.
//
// The [Engine] is the audio-side view. It resolves typed handles once at
// construction, copies store values into smoother targets once per block
// ([Engine.Update]) and advances the smoothers once per sample
// ([Engine.Smoothen]). Scalar reads are individually atomic; values read
// in one Update are not a consistent snapshot across parameters.
package params
