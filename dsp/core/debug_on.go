//go:build dspdebug

package core

const debugChecks = true
