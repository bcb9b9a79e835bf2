package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatLabel(t *testing.T) {
	tests := []struct {
		year, number int
		want         string
	}{
		{2025, 1, "A2025-0001"},
		{2025, 99, "A2025-0099"},
		{2026, 12345, "A2026-12345"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatLabel(tt.year, tt.number))
	}
}

func TestParseLabel(t *testing.T) {
	year, number, err := ParseLabel("A2025-0007")
	require.NoError(t, err)
	assert.Equal(t, 2025, year)
	assert.Equal(t, 7, number)

	for _, bad := range []string{"", "2025-0007", "B2025-0007", "A2025", "Axxxx-0001", "A2025-x", "A2025-0000"} {
		_, _, err := ParseLabel(bad)
		assert.Error(t, err, bad)
	}
}

func TestLabel(t *testing.T) {
	v := chairs(t, "2025-04-30")
	assert.Empty(t, Label(v))

	require.NoError(t, v.File(12, created))
	assert.Equal(t, "A2025-0012", Label(v))

	year, number, err := ParseLabel(Label(v))
	require.NoError(t, err)
	assert.Equal(t, 2025, year)
	assert.Equal(t, 12, number)
}
