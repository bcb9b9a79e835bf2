package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneySplit(t *testing.T) {
	out, _, err := execute(t, "money", "split", "10.00", "SEK", "0.3333", "0.3333", "0.3334")
	require.NoError(t, err)
	assert.Equal(t, "3.34 SEK\n3.33 SEK\n3.33 SEK\n", out)
}

func TestMoneySplit_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad fraction", []string{"10", "SEK", "half", "0.5"}},
		{"bad code", []string{"10", "QQQ", "0.5", "0.5"}},
		{"too few args", []string{"10", "SEK", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, append([]string{"money", "split"}, tt.args...)...)
			assert.Error(t, err)
		})
	}
}

func TestMoneyCompare_SameCurrency(t *testing.T) {
	out, _, err := execute(t, "money", "compare", "5", "SEK", "7", "SEK")
	require.NoError(t, err)
	assert.Equal(t, "5.00 SEK < 7.00 SEK\n", out)

	out, _, err = execute(t, "money", "compare", "7", "SEK", "7.00", "SEK")
	require.NoError(t, err)
	assert.Equal(t, "7.00 SEK = 7.00 SEK\n", out)
}

func TestMoneyCompare_ConvertsToLocal(t *testing.T) {
	dir := initBooks(t)
	_, _, err := execute(t, "rates", "set", "2025-03-14", "USD", "SEK", "10.5", "--books", dir)
	require.NoError(t, err)

	out, _, err := execute(t, "money", "compare", "100", "USD", "1000", "SEK", "--date", "2025-03-14", "--books", dir)
	require.NoError(t, err)
	assert.Equal(t, "100.00 USD (1050.00 SEK) > 1000.00 SEK\n", out)
}

func TestMoneyConvert(t *testing.T) {
	dir := initBooks(t)
	_, _, err := execute(t, "rates", "set", "2025-03-14", "USD", "SEK", "10.5", "--books", dir)
	require.NoError(t, err)

	out, _, err := execute(t, "money", "convert", "100", "USD", "SEK", "--date", "2025-03-14", "--books", dir)
	require.NoError(t, err)
	assert.Equal(t, "100.00 USD (1050.00 SEK)\n", out)

	_, _, err = execute(t, "money", "convert", "100", "USD", "SEK", "--date", "2025-03-15", "--books", dir)
	assert.Error(t, err)
}
