package core

import "fmt"

// DebugChecks reports whether the binary was built with the dspdebug tag.
func DebugChecks() bool { return debugChecks }

// Violation reports a hot-path precondition violation. Builds tagged
// dspdebug panic with the formatted message; other builds return and the
// caller clamps. Call it only on the violating branch so the arguments are
// never boxed on the regular path.
func Violation(format string, args ...any) {
	if debugChecks {
		panic(fmt.Sprintf(format, args...))
	}
}
