package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyDecodesFloatsAndInts(t *testing.T) {
	var m Money
	require.NoError(t, json.Unmarshal([]byte(`1500.0`), &m))
	assert.Equal(t, Money(1500), m)

	require.NoError(t, json.Unmarshal([]byte(`1520`), &m))
	assert.Equal(t, Money(1520), m)

	require.NoError(t, json.Unmarshal([]byte(`1499.6`), &m))
	assert.Equal(t, Money(1500), m, "rounds to the nearest tenge")

	require.NoError(t, json.Unmarshal([]byte(`null`), &m))
	assert.Equal(t, Money(0), m)

	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &m))
}

func TestMoneyMarshalsAsInteger(t *testing.T) {
	data, err := json.Marshal(Money(1520))
	require.NoError(t, err)
	assert.Equal(t, "1520", string(data))
}

func TestMoneyFormat(t *testing.T) {
	assert.Equal(t, "0", Money(0).Format())
	assert.Equal(t, "950", Money(950).Format())
	assert.Equal(t, "1 520", Money(1520).Format())
	assert.Equal(t, "12 345 678", Money(12345678).Format())
	assert.Equal(t, "-1 520", Money(-1520).Format())
}

func TestOrderDecodesBackendShape(t *testing.T) {
	body := `{
		"id": 14,
		"customer_name": "Айгерим",
		"take_away": true,
		"total": 3040.0,
		"created_at": "2026-08-28T10:15:00Z",
		"items": [{"name": "Латте (400 мл, Карамель) [-20%]", "quantity": 2}]
	}`
	var o Order
	require.NoError(t, json.Unmarshal([]byte(body), &o))
	assert.Equal(t, int64(14), o.ID)
	assert.True(t, o.TakeAway)
	assert.Equal(t, Money(3040), o.Total)
	require.Len(t, o.Items, 1)
	assert.Equal(t, 2, o.Items[0].Quantity)
}

func TestSplitInlineOptions(t *testing.T) {
	t.Run("trailing parenthetical", func(t *testing.T) {
		base, labels := SplitInlineOptions("Латте (Большой; Кокосовое)")
		assert.Equal(t, "Латте", base)
		assert.Equal(t, []string{"Большой", "Кокосовое"}, labels)
	})

	t.Run("comma separated", func(t *testing.T) {
		base, labels := SplitInlineOptions("Раф (400 мл, Ваниль)")
		assert.Equal(t, "Раф", base)
		assert.Equal(t, []string{"400 мл", "Ваниль"}, labels)
	})

	t.Run("no parenthetical", func(t *testing.T) {
		base, labels := SplitInlineOptions("Эспрессо")
		assert.Equal(t, "Эспрессо", base)
		assert.Nil(t, labels)
	})

	t.Run("separator residue trimmed from base", func(t *testing.T) {
		base, _ := SplitInlineOptions("Капучино - (250 мл)")
		assert.Equal(t, "Капучино", base)
	})
}

func TestSortOptionLabels(t *testing.T) {
	got := SortOptionLabels([]string{"Ваниль", "400 мл", "Карамель", "250  мл", "Ваниль"})
	assert.Equal(t, []string{"250 мл", "400 мл", "Ваниль", "Карамель"}, got)
}
