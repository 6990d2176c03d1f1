package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimpleTableRendersRows(t *testing.T) {
	table := NewSimpleTable("Последние заказы", []string{"#", "Имя", "Сумма"})
	table.AlignRight(2)
	table.AddRow("12", "Айгерим", "1 520")
	table.AddRow("13", "Дамир", "700")

	out := table.View(DefaultStyles())

	assert.Contains(t, out, "Последние заказы")
	assert.Contains(t, out, "Айгерим")
	assert.Contains(t, out, "1 520")

	// Right-aligned column pads on the left.
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Дамир") {
			assert.Contains(t, line, " 700")
		}
	}
}

func TestSimpleTableEmptyRendersNothing(t *testing.T) {
	table := NewSimpleTable("Пусто", []string{"a", "b"})
	assert.Empty(t, table.View(DefaultStyles()))
}
