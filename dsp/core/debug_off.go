//go:build !dspdebug

package core

// debugChecks turns hot-path precondition violations into panics. Builds
// tagged dspdebug enable it; other builds clamp and keep running.
const debugChecks = false
