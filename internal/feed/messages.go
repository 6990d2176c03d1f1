package feed

import (
	"encoding/json"

	"qoyupos/internal/catalog"
)

// Channel paths on the backend.
const (
	PathOrders    = "/orders/ws"
	PathProducts  = "/products/ws"
	PathOptions   = "/options/ws"
	PathDashboard = "/dashboard/ws"
)

// OrdersMessage is a frame on the orders channel. Some backend builds send
// the closed list under "closed" instead of "recent_closed"; both are kept.
// Type "clear_closed" empties the closed list.
type OrdersMessage struct {
	Type         string          `json:"type"`
	Active       []catalog.Order `json:"active"`
	RecentClosed []catalog.Order `json:"recent_closed"`
	Closed       []catalog.Order `json:"closed"`
}

// ClosedOrders returns whichever closed list the frame carried.
func (m OrdersMessage) ClosedOrders() []catalog.Order {
	if len(m.RecentClosed) > 0 {
		return m.RecentClosed
	}
	return m.Closed
}

// ProductsMessage is a frame on the products channel.
type ProductsMessage struct {
	ByCategory map[string][]catalog.Product `json:"by_category"`
}

// OptionsMessage is a frame on the options channel.
type OptionsMessage struct {
	Type   string                `json:"type"`
	Groups []catalog.OptionGroup `json:"groups"`
}

// DashboardMessage is a frame on the dashboard channel.
type DashboardMessage struct {
	Stats  catalog.DashboardStats `json:"stats"`
	Hourly []catalog.HourPoint    `json:"hourly"`
	Recent []catalog.RecentOrder  `json:"recent"`
}

// DecodeOrders parses an orders frame. ok is false for frames of another
// type or frames that do not parse.
func DecodeOrders(raw json.RawMessage) (OrdersMessage, bool) {
	var m OrdersMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return OrdersMessage{}, false
	}
	if m.Type != "orders" && m.Type != "clear_closed" {
		return OrdersMessage{}, false
	}
	return m, true
}

// DecodeProducts parses a products frame.
func DecodeProducts(raw json.RawMessage) (ProductsMessage, bool) {
	var m ProductsMessage
	if err := json.Unmarshal(raw, &m); err != nil || m.ByCategory == nil {
		return ProductsMessage{}, false
	}
	return m, true
}

// DecodeOptions parses an options frame.
func DecodeOptions(raw json.RawMessage) (OptionsMessage, bool) {
	var m OptionsMessage
	if err := json.Unmarshal(raw, &m); err != nil || m.Type != "options" {
		return OptionsMessage{}, false
	}
	return m, true
}

// DecodeDashboard parses a dashboard frame.
func DecodeDashboard(raw json.RawMessage) (DashboardMessage, bool) {
	var m DashboardMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return DashboardMessage{}, false
	}
	return m, true
}
