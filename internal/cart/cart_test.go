package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"qoyupos/internal/catalog"
)

func latte(discount int) Line {
	line := Line{
		ProductID:     7,
		Name:          "Латте",
		Quantity:      1,
		UnitBase:      1120,
		UnitTotal:     1520,
		UnitOriginal:  1900,
		OptionItemIDs: []int64{11, 20},
		OptionLabels:  []string{"400 мл", "Карамель"},
		DiscountPct:   discount,
	}
	if discount > 0 {
		line.NameSuffix = " [-20%]"
	}
	return line
}

func TestLineKey(t *testing.T) {
	assert.Equal(t, "7|11,20|1120|20", LineKey(7, []int64{11, 20}, 1120, 20))
	assert.Equal(t, "7||1500|0", LineKey(7, nil, 1500, 0))
}

func TestAddMerges(t *testing.T) {
	c := New()
	c.Add(latte(20))
	c.Add(latte(20))

	lines := c.Lines()
	assert.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, catalog.Money(3040), lines[0].Subtotal())
	assert.Equal(t, catalog.Money(3800), lines[0].OriginalSubtotal())
}

func TestAddDistinguishesByDiscount(t *testing.T) {
	c := New()
	c.Add(latte(20))

	plain := latte(0)
	plain.UnitBase = 1500
	plain.UnitTotal = 1900
	c.Add(plain)

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 2, c.Units())
	assert.Equal(t, catalog.Money(1520+1900), c.Total())
}

func TestIncrementDecrement(t *testing.T) {
	c := New()
	line := latte(0)
	c.Add(line)
	key := c.Lines()[0].Key

	c.Increment(key)
	assert.Equal(t, 2, c.Lines()[0].Quantity)

	c.Decrement(key)
	c.Decrement(key)
	assert.Equal(t, 0, c.Len(), "line is dropped at zero quantity")
}

func TestRemoveAndClear(t *testing.T) {
	c := New()
	c.Add(latte(0))
	c.Add(latte(20))
	assert.Equal(t, 2, c.Len())

	c.Remove(c.Lines()[0].Key)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, catalog.Money(0), c.Total())
}

func TestDisplayName(t *testing.T) {
	line := latte(20)
	assert.Equal(t, "Латте (400 мл, Карамель) [-20%]", line.DisplayName())

	bare := Line{Name: "Эспрессо"}
	assert.Equal(t, "Эспрессо", bare.DisplayName())
}
