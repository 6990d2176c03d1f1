package feed

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qoyupos/internal/catalog"
)

func TestDecodeOrders(t *testing.T) {
	t.Run("orders frame", func(t *testing.T) {
		raw := json.RawMessage(`{
			"type": "orders",
			"active": [{"id": 5, "customer_name": "Дамир", "total": 1520.0, "items": []}],
			"recent_closed": [{"id": 4, "total": 700}]
		}`)
		msg, ok := DecodeOrders(raw)
		require.True(t, ok)

		want := []catalog.Order{{ID: 5, CustomerName: "Дамир", Total: 1520, Items: []catalog.OrderItem{}}}
		if diff := cmp.Diff(want, msg.Active); diff != "" {
			t.Errorf("active orders mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, int64(4), msg.ClosedOrders()[0].ID)
	})

	t.Run("closed list variant", func(t *testing.T) {
		raw := json.RawMessage(`{"type": "orders", "active": [], "closed": [{"id": 9}]}`)
		msg, ok := DecodeOrders(raw)
		require.True(t, ok)
		require.Len(t, msg.ClosedOrders(), 1)
		assert.Equal(t, int64(9), msg.ClosedOrders()[0].ID)
	})

	t.Run("clear_closed frame", func(t *testing.T) {
		msg, ok := DecodeOrders(json.RawMessage(`{"type": "clear_closed"}`))
		require.True(t, ok)
		assert.Equal(t, "clear_closed", msg.Type)
		assert.Empty(t, msg.ClosedOrders())
	})

	t.Run("foreign frame type rejected", func(t *testing.T) {
		_, ok := DecodeOrders(json.RawMessage(`{"type": "ping"}`))
		assert.False(t, ok)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, ok := DecodeOrders(json.RawMessage(`[1,2,3]`))
		assert.False(t, ok)
	})
}

func TestDecodeProducts(t *testing.T) {
	raw := json.RawMessage(`{"by_category": {"Кофе": [{"id": 1, "name": "Латте", "price": 1500}]}}`)
	msg, ok := DecodeProducts(raw)
	require.True(t, ok)

	want := map[string][]catalog.Product{"Кофе": {{ID: 1, Name: "Латте", Price: 1500}}}
	if diff := cmp.Diff(want, msg.ByCategory); diff != "" {
		t.Errorf("catalog mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeOptions(t *testing.T) {
	raw := json.RawMessage(`{
		"type": "options",
		"groups": [{"id": 1, "name": "Размер напитка", "select_type": "single", "is_required": true,
			"items": [{"id": 11, "name": "400 мл", "price": 300}]}]
	}`)
	msg, ok := DecodeOptions(raw)
	require.True(t, ok)
	require.Len(t, msg.Groups, 1)
	assert.Equal(t, catalog.SelectSingle, msg.Groups[0].SelectType)
	assert.True(t, msg.Groups[0].IsRequired)
}

func TestDecodeDashboard(t *testing.T) {
	raw := json.RawMessage(`{
		"stats": {"day_sales": 15200, "day_orders": 12, "month_sales": 420000, "month_orders": 310},
		"hourly": [{"hour": 9, "orders": 3}],
		"recent": [{"id": 12, "customer_name": "Айгерим", "total": 1520}]
	}`)
	msg, ok := DecodeDashboard(raw)
	require.True(t, ok)

	want := DashboardMessage{
		Stats:  catalog.DashboardStats{DaySales: 15200, DayOrders: 12, MonthSales: 420000, MonthOrders: 310},
		Hourly: []catalog.HourPoint{{Hour: 9, Orders: 3}},
		Recent: []catalog.RecentOrder{{ID: 12, CustomerName: "Айгерим", Total: 1520}},
	}
	if diff := cmp.Diff(want, msg); diff != "" {
		t.Errorf("dashboard mismatch (-want +got):\n%s", diff)
	}
}
