package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BarChart renders a horizontal bar per labeled value, used for the
// orders-per-hour panel on the dashboard.
type BarChart struct {
	Title    string
	Labels   []string
	Values   []int
	MaxWidth int // bar area width in cells; defaults to 30
}

// NewBarChart creates an empty chart.
func NewBarChart(title string) *BarChart {
	return &BarChart{Title: title, MaxWidth: 30}
}

// Add appends one labeled value.
func (b *BarChart) Add(label string, value int) {
	b.Labels = append(b.Labels, label)
	b.Values = append(b.Values, value)
}

// shade picks a bar color by how close the value is to the maximum.
func shade(value, max int) lipgloss.Color {
	if max == 0 {
		return Chart1
	}
	switch ratio := float64(value) / float64(max); {
	case ratio > 0.8:
		return Chart5
	case ratio > 0.6:
		return Chart4
	case ratio > 0.4:
		return Chart3
	case ratio > 0.2:
		return Chart2
	default:
		return Chart1
	}
}

// View renders the chart.
func (b *BarChart) View(styles Styles) string {
	if len(b.Values) == 0 {
		return ""
	}
	width := b.MaxWidth
	if width <= 0 {
		width = 30
	}

	max := 0
	labelWidth := 0
	for i, v := range b.Values {
		if v > max {
			max = v
		}
		if w := lipgloss.Width(b.Labels[i]); w > labelWidth {
			labelWidth = w
		}
	}

	var sb strings.Builder
	if b.Title != "" {
		sb.WriteString(styles.Title.Render(b.Title))
		sb.WriteString("\n")
	}
	for i, v := range b.Values {
		cells := 0
		if max > 0 {
			cells = v * width / max
		}
		if v > 0 && cells == 0 {
			cells = 1
		}
		bar := lipgloss.NewStyle().Foreground(shade(v, max)).Render(strings.Repeat("█", cells))
		label := styles.Muted.Width(labelWidth).Render(b.Labels[i])
		sb.WriteString(fmt.Sprintf("%s %s %s\n", label, bar, styles.Bold.Render(fmt.Sprintf("%d", v))))
	}
	return sb.String()
}
