//go:build !release

// Package assert holds the contract checks used across the store. A violated contract is a bug in
// the caller, so the check panics instead of returning an error.
package assert

import "fmt"

// That panics with the formatted message when cond is false.
func That(cond bool, format string, args ...any) { //nolint:goprintffuncname // it's ok
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}

// Enabled reports whether contract checks are compiled in.
const Enabled = true
