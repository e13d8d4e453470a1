//go:build release

package assert

// That is a no-op in release builds.
func That(bool, string, ...any) {}

// Enabled reports whether contract checks are compiled in.
const Enabled = false
