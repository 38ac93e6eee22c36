package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_OnLimitsFor_ShouldFallBackToDefault(t *testing.T) {
	limits := Limits{Dining: 150}

	assert.Equal(t, 150.0, limits.For(Dining))
	assert.Equal(t, DefaultLimit, limits.For(Groceries))
	assert.Equal(t, DefaultLimit, limits.For("Vacation"))
}

func Test_OnDefaultLimits_ShouldCoverEveryCategory(t *testing.T) {
	limits := DefaultLimits()

	assert.Len(t, limits, len(Categories))
	for _, cat := range Categories {
		assert.Equal(t, DefaultLimit, limits[cat])
		assert.True(t, IsKnownCategory(cat))
	}
	assert.False(t, IsKnownCategory("Vacation"))
}
