package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildForecastKey(t *testing.T) {
	base := buildForecastKey("Latte", "Bangkok", "2025-06-10")

	assert.Equal(t, base, buildForecastKey(" latte ", "BANGKOK", "2025-06-10"),
		"keys are case and whitespace insensitive for filters")

	assert.NotEqual(t, base, buildForecastKey("Latte", "Bangkok", "2025-06-11"),
		"a new anchor day must produce a new key")
	assert.NotEqual(t, base, buildForecastKey("Mocha", "Bangkok", "2025-06-10"))
	assert.NotEqual(t, base, buildForecastKey("Latte", "Chiang Mai", "2025-06-10"))
}
