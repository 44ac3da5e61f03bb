package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKize(t *testing.T) {
	assert.Equal(t, "  0.00K", Kize(0))
	assert.Equal(t, "  0.41K", Kize(410))
	assert.Equal(t, "  4.17K", Kize(4170))
	assert.Equal(t, "1000.00K", Kize(1_000_000))
}

func TestKize_Shape(t *testing.T) {
	for _, n := range []int{0, 1, 999, 1000, 123456, 98765432} {
		s := Kize(n)
		assert.True(t, strings.HasSuffix(s, "K"), "Kize(%d) = %q", n, s)
		dot := strings.IndexByte(s, '.')
		assert.Equal(t, len(s)-4, dot, "Kize(%d) = %q should have two decimals", n, s)
	}
}

func TestFormatLabels(t *testing.T) {
	assert.Equal(t, "", FormatLabels(nil))
	assert.Equal(t, "(97.00%) Dog", FormatLabels([]Label{{Description: "Dog", Score: 0.97}}))

	// Service order is preserved, not re-sorted.
	got := FormatLabels([]Label{
		{Description: "Dog", Score: 0.97},
		{Description: "Mammal", Score: 0.835},
		{Description: "Pet", Score: 0.99},
	})
	assert.Equal(t, "(97.00%) Dog, (83.50%) Mammal, (99.00%) Pet", got)
}
