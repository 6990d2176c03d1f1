package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarChartScalesToMax(t *testing.T) {
	chart := NewBarChart("По часам")
	chart.MaxWidth = 10
	chart.Add("09", 10)
	chart.Add("10", 5)
	chart.Add("11", 0)

	out := chart.View(DefaultStyles())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4) // title plus three bars

	assert.Equal(t, 10, strings.Count(lines[1], "█"))
	assert.Equal(t, 5, strings.Count(lines[2], "█"))
	assert.Equal(t, 0, strings.Count(lines[3], "█"))
}

func TestBarChartNonzeroGetsAtLeastOneCell(t *testing.T) {
	chart := NewBarChart("")
	chart.MaxWidth = 10
	chart.Add("a", 100)
	chart.Add("b", 1)

	out := chart.View(DefaultStyles())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, 1, strings.Count(lines[1], "█"))
}

func TestBarChartEmpty(t *testing.T) {
	assert.Empty(t, NewBarChart("x").View(DefaultStyles()))
}

func TestShadeBuckets(t *testing.T) {
	assert.Equal(t, Chart5, shade(10, 10))
	assert.Equal(t, Chart1, shade(1, 10))
	assert.Equal(t, Chart1, shade(0, 0))
	assert.Equal(t, Chart3, shade(5, 10))
}
