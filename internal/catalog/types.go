// Package catalog defines the wire-level data model shared by the API client
// and the TUI pages: products, option groups, orders, users and dashboard
// aggregates. Field names match the backend JSON contract.
package catalog

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Money is an amount in tenge. The currency has no subunits, but the backend
// serializes amounts as JSON floats, so decoding rounds to the nearest whole
// tenge.
type Money int64

// UnmarshalJSON accepts both integer and float payloads.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*m = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*m = Money(math.Round(f))
	return nil
}

// MarshalJSON emits a plain integer.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(m))
}

// Format renders the amount with thin thousands separators, e.g. "1 520".
func (m Money) Format() string {
	s := strconv.FormatInt(int64(m), 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, " ")
	if neg {
		out = "-" + out
	}
	return out
}

// Role of an authenticated user.
type Role string

const (
	RoleCashier Role = "cashier"
	RoleAdmin   Role = "admin"
)

// User is the session identity returned by /auth/me.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether admin-only pages are visible to the user.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Category groups products on the menu.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product is the short product view used on menu grids, already grouped by
// category name by the /products endpoint.
type Product struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    Money  `json:"price"`
	ImageURL string `json:"image_url,omitempty"`
}

// ProductInfo is the detail view from /products/:id, carrying the option
// groups the product participates in.
type ProductInfo struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	BasePrice      Money   `json:"base_price"`
	Description    string  `json:"description,omitempty"`
	CategoryName   string  `json:"category_name,omitempty"`
	ImageURL       string  `json:"image_url,omitempty"`
	OptionGroupIDs []int64 `json:"option_group_ids"`
}

// SelectType is an option group's selection mode.
type SelectType string

const (
	SelectSingle SelectType = "single"
	SelectMulti  SelectType = "multi"
)

// OptionItem is a selectable add-on. The price delta may be negative, zero or
// positive.
type OptionItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    Money  `json:"price"`
	ImageURL string `json:"image_url,omitempty"`
}

// OptionGroup is a named set of add-ons, e.g. "Size" or "Milk".
type OptionGroup struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	SelectType SelectType   `json:"select_type"`
	IsRequired bool         `json:"is_required"`
	// IsSize marks the serving-size group explicitly. Backends that predate the
	// flag omit it; callers fall back to a name-prefix match then.
	IsSize bool         `json:"is_size,omitempty"`
	Items  []OptionItem `json:"items"`
}

// OrderStatus of an order in the kitchen queue.
type OrderStatus string

const (
	OrderActive OrderStatus = "active"
	OrderClosed OrderStatus = "closed"
)

// OrderItem is a snapshot line inside an order. Name may carry the selected
// option labels as a trailing parenthetical, e.g. "Латте (Большой, Кокосовое)".
type OrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Order as listed by /orders. ID is the guest-facing daily sequence number.
type Order struct {
	ID           int64       `json:"id"`
	CustomerName string      `json:"customer_name"`
	TakeAway     bool        `json:"take_away"`
	Status       OrderStatus `json:"status,omitempty"`
	Total        Money       `json:"total"`
	CreatedAt    time.Time   `json:"created_at"`
	Items        []OrderItem `json:"items"`
}

// OrdersFeed is the combined snapshot from /orders/feed and the orders socket.
type OrdersFeed struct {
	Active       []Order `json:"active"`
	RecentClosed []Order `json:"recent_closed"`
}

// DashboardStats are the KPI tiles.
type DashboardStats struct {
	DaySales    Money `json:"day_sales"`
	MonthSales  Money `json:"month_sales"`
	DayOrders   int   `json:"day_orders"`
	MonthOrders int   `json:"month_orders"`
}

// HourPoint is one bar of the per-hour order histogram.
type HourPoint struct {
	Hour   int `json:"hour"`
	Orders int `json:"orders"`
}

// RecentOrder is a row of the dashboard's latest-orders panel.
type RecentOrder struct {
	ID           int64     `json:"id"`
	CustomerName string    `json:"customer_name"`
	Total        Money     `json:"total"`
	CreatedAt    time.Time `json:"created_at"`
}
