package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestHealthIndex(t *testing.T) {
	got := HealthIndex(70, f(175))
	require.NotNil(t, got)
	assert.Equal(t, 22.9, *got)

	got = HealthIndex(80, f(180))
	require.NotNil(t, got)
	assert.Equal(t, 24.7, *got)
}

func TestHealthIndexNotComputable(t *testing.T) {
	assert.Nil(t, HealthIndex(70, nil))
	assert.Nil(t, HealthIndex(70, f(0)))
	assert.Nil(t, HealthIndex(70, f(-170)))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "-", FormatValue(nil))
	assert.Equal(t, "62.5", FormatValue(f(62.5)))
	assert.Equal(t, "0", FormatValue(f(0)))
	assert.Equal(t, "140", FormatValue(f(140)))
}
