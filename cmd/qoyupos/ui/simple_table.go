package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SimpleTable renders static tabular data: order lists, option groups,
// recent-order panels. Columns size to their widest cell.
type SimpleTable struct {
	Title   string
	Headers []string
	Rows    [][]string

	// Right marks columns to right-align, typically amounts.
	Right map[int]bool
}

// NewSimpleTable creates a SimpleTable with the given title and headers.
func NewSimpleTable(title string, headers []string) *SimpleTable {
	return &SimpleTable{
		Title:   title,
		Headers: headers,
		Rows:    make([][]string, 0),
		Right:   make(map[int]bool),
	}
}

// AlignRight right-aligns the given column indices.
func (t *SimpleTable) AlignRight(cols ...int) *SimpleTable {
	for _, c := range cols {
		t.Right[c] = true
	}
	return t
}

// AddRow adds a row to the table.
func (t *SimpleTable) AddRow(row ...string) {
	t.Rows = append(t.Rows, row)
}

// View renders the table using the provided styles.
func (t *SimpleTable) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder

	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}

	colWidths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		colWidths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(colWidths) {
				if w := lipgloss.Width(cell); w > colWidths[i] {
					colWidths[i] = w
				}
			}
		}
	}
	for i := range colWidths {
		colWidths[i] += 2
	}

	cellStyle := func(base lipgloss.Style, col int) lipgloss.Style {
		s := base.Padding(0, 1).Width(colWidths[col])
		if t.Right[col] {
			s = s.Align(lipgloss.Right)
		}
		return s
	}
	sepStyle := styles.Muted

	for i, h := range t.Headers {
		sb.WriteString(cellStyle(styles.Bold, i).Render(h))
		if i < len(t.Headers)-1 {
			sb.WriteString(sepStyle.Render("│"))
		}
	}
	sb.WriteString("\n")

	totalWidth := len(t.Headers) - 1
	for _, w := range colWidths {
		totalWidth += w
	}
	sb.WriteString(sepStyle.Render(strings.Repeat("─", totalWidth)) + "\n")

	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(colWidths) {
				sb.WriteString(cellStyle(styles.Body, i).Render(cell))
				if i < len(row)-1 {
					sb.WriteString(sepStyle.Render("│"))
				}
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
