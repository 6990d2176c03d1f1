package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"qoyupos/internal/catalog"
)

func sizeGroup() catalog.OptionGroup {
	return catalog.OptionGroup{
		ID:         1,
		Name:       "Размер",
		SelectType: catalog.SelectSingle,
		IsRequired: true,
		IsSize:     true,
		Items: []catalog.OptionItem{
			{ID: 10, Name: "250 мл", Price: 0},
			{ID: 11, Name: "400 мл", Price: 300},
		},
	}
}

func syrupGroup() catalog.OptionGroup {
	return catalog.OptionGroup{
		ID:         2,
		Name:       "Сиропы",
		SelectType: catalog.SelectMulti,
		Items: []catalog.OptionItem{
			{ID: 20, Name: "Карамель", Price: 100},
			{ID: 21, Name: "Ваниль", Price: 100},
		},
	}
}

func TestIsSizeGroup(t *testing.T) {
	t.Run("structured flag wins", func(t *testing.T) {
		g := catalog.OptionGroup{Name: "Объем", IsSize: true}
		assert.True(t, IsSizeGroup(g, "размер"))
	})

	t.Run("name prefix fallback is case-insensitive", func(t *testing.T) {
		g := catalog.OptionGroup{Name: "РАЗМЕР стакана"}
		assert.True(t, IsSizeGroup(g, "размер"))
	})

	t.Run("unrelated group", func(t *testing.T) {
		g := catalog.OptionGroup{Name: "Сиропы"}
		assert.False(t, IsSizeGroup(g, "размер"))
	})

	t.Run("empty prefix disables fallback", func(t *testing.T) {
		g := catalog.OptionGroup{Name: "Размер"}
		assert.False(t, IsSizeGroup(g, ""))
	})
}

func TestSelectionToggle(t *testing.T) {
	size := sizeGroup()
	syrups := syrupGroup()

	t.Run("single replaces previous pick", func(t *testing.T) {
		sel := NewSelection()
		sel.Toggle(size, 10)
		sel.Toggle(size, 11)
		assert.False(t, sel.Has(size.ID, 10))
		assert.True(t, sel.Has(size.ID, 11))
		assert.Equal(t, 1, sel.GroupCount(size.ID))
	})

	t.Run("single re-pick keeps the pick", func(t *testing.T) {
		sel := NewSelection()
		sel.Toggle(size, 10)
		sel.Toggle(size, 10)
		assert.True(t, sel.Has(size.ID, 10))
		assert.Equal(t, 1, sel.GroupCount(size.ID))
	})

	t.Run("multi toggles membership", func(t *testing.T) {
		sel := NewSelection()
		sel.Toggle(syrups, 20)
		sel.Toggle(syrups, 21)
		assert.Equal(t, 2, sel.GroupCount(syrups.ID))
		sel.Toggle(syrups, 20)
		assert.False(t, sel.Has(syrups.ID, 20))
		assert.True(t, sel.Has(syrups.ID, 21))
	})

	t.Run("item IDs are sorted across groups", func(t *testing.T) {
		sel := NewSelection()
		sel.Toggle(syrups, 21)
		sel.Toggle(size, 11)
		sel.Toggle(syrups, 20)
		assert.Equal(t, []int64{11, 20, 21}, sel.ItemIDs())
	})
}

func TestMissingRequired(t *testing.T) {
	size := sizeGroup()
	toppings := catalog.OptionGroup{
		ID:         3,
		Name:       "Топпинги",
		SelectType: catalog.SelectMulti,
		IsRequired: true,
		Items:      []catalog.OptionItem{{ID: 30, Name: "Корица", Price: 50}},
	}
	groups := []catalog.OptionGroup{size, toppings, syrupGroup()}

	sel := NewSelection()
	missing := sel.MissingRequired(groups)
	assert.Len(t, missing, 2)

	// A required multi-select blocks until at least one item is chosen.
	sel.Toggle(size, 10)
	missing = sel.MissingRequired(groups)
	assert.Len(t, missing, 1)
	assert.Equal(t, toppings.ID, missing[0].ID)

	sel.Toggle(toppings, 30)
	assert.Empty(t, sel.MissingRequired(groups))
}

func TestCompute(t *testing.T) {
	size := sizeGroup()
	syrups := syrupGroup()
	groups := []catalog.OptionGroup{size, syrups}

	t.Run("base 1500 plus 300 size plus 100 syrup at 20 percent", func(t *testing.T) {
		sel := NewSelection()
		sel.Toggle(size, 11)   // +300
		sel.Toggle(syrups, 20) // +100
		q := Compute(1500, groups, sel, 20, "размер")

		assert.Equal(t, catalog.Money(1500), q.Base)
		assert.Equal(t, catalog.Money(300), q.SizeAddon)
		assert.Equal(t, catalog.Money(100), q.OtherAddons)
		assert.Equal(t, catalog.Money(1900), q.FullBefore)
		assert.Equal(t, catalog.Money(1520), q.Total)
		assert.Equal(t, catalog.Money(1120), q.ServerBase)
	})

	t.Run("no discount passes through", func(t *testing.T) {
		sel := NewSelection()
		sel.Toggle(size, 11)
		q := Compute(1500, groups, sel, 0, "размер")
		assert.Equal(t, catalog.Money(1800), q.Total)
		assert.Equal(t, catalog.Money(1500), q.ServerBase)
	})

	t.Run("rounding is half up", func(t *testing.T) {
		sel := NewSelection()
		// 1010 * 0.7 = 707 exactly; 1015 * 0.7 = 710.5 -> 711
		q := Compute(1015, nil, sel, 30, "размер")
		assert.Equal(t, catalog.Money(711), q.Total)
	})

	t.Run("deep discount clamps server base at zero", func(t *testing.T) {
		sel := NewSelection()
		sel.Toggle(size, 11)
		sel.Toggle(syrups, 20)
		sel.Toggle(syrups, 21)
		// full = 100+300+200 = 600, total = 300, addons = 500
		q := Compute(100, groups, sel, 50, "размер")
		assert.Equal(t, catalog.Money(300), q.Total)
		assert.Equal(t, catalog.Money(0), q.ServerBase)
	})

	t.Run("hundred percent discount", func(t *testing.T) {
		sel := NewSelection()
		q := Compute(1500, nil, sel, 100, "размер")
		assert.Equal(t, catalog.Money(0), q.Total)
		assert.Equal(t, catalog.Money(0), q.ServerBase)
	})

	t.Run("free size option", func(t *testing.T) {
		sel := NewSelection()
		sel.Toggle(size, 10) // price 0
		q := Compute(1500, groups, sel, 0, "размер")
		assert.Equal(t, catalog.Money(0), q.SizeAddon)
		assert.Equal(t, catalog.Money(1500), q.Total)
	})
}

func TestDiscountSuffix(t *testing.T) {
	assert.Equal(t, "", DiscountSuffix(0))
	assert.Equal(t, " [-20%]", DiscountSuffix(20))
	assert.Equal(t, " [-50%]", DiscountSuffix(50))
}
