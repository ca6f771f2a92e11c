//go:build dspdebug

package core

import "testing"

func TestViolationPanicsWithDebugTag(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic")
		}
	}()
	Violation("index %d out of range", 42)
}
