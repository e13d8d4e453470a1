//go:build !release

package assert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThat(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() { That(true, "never") })
	assert.PanicsWithValue(t, "row 7 out of range [0, 4)", func() {
		That(false, "row %d out of range [0, %d)", 7, 4)
	})
}
