package testutils

import (
	"testing"

	"github.com/edwinsyarief/soaecs/internal/assert"
	testify "github.com/stretchr/testify/assert"
)

// RequireContractPanic fails the test unless fn panics. Release builds compile contract checks out,
// so the test is skipped there.
func RequireContractPanic(t *testing.T, fn func(), msgAndArgs ...any) {
	t.Helper()
	if !assert.Enabled {
		t.Skip("contract checks are disabled in release builds")
	}
	if !testify.Panics(t, fn, msgAndArgs...) {
		t.FailNow()
	}
}
