package api

import (
	"context"
	"fmt"

	"qoyupos/internal/catalog"
)

// OrderItemIn is one line of an order submission. UnitPriceBase overrides the
// product's base price when a discount was applied at the counter; the server
// adds option prices on top of it. NameSuffix bakes the discount marker into
// the ticket snapshot.
type OrderItemIn struct {
	ProductID     int64          `json:"product_id"`
	Quantity      int            `json:"qty"`
	OptionItemIDs []int64        `json:"option_item_ids,omitempty"`
	UnitPriceBase *catalog.Money `json:"unit_price_base,omitempty"`
	NameSuffix    string         `json:"name_suffix,omitempty"`
}

// OrderIn is the POST /orders payload.
type OrderIn struct {
	CustomerName string        `json:"customer_name"`
	TakeAway     bool          `json:"take_away"`
	Items        []OrderItemIn `json:"items"`
}

// SubmitOrder creates an order and returns the server's snapshot of it.
func (c *Client) SubmitOrder(ctx context.Context, in OrderIn) (catalog.Order, error) {
	var out catalog.Order
	err := c.postJSON(ctx, "/orders", in, &out)
	return out, err
}

// Orders lists orders by status. Active orders come oldest-first, closed
// orders newest-first.
func (c *Client) Orders(ctx context.Context, status catalog.OrderStatus, limit int) ([]catalog.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	var orders []catalog.Order
	err := c.getJSON(ctx, fmt.Sprintf("/orders?status=%s&limit=%d", status, limit), &orders)
	return orders, err
}

// OrdersFeed fetches the combined active and recently-closed snapshot.
func (c *Client) OrdersFeed(ctx context.Context, recent int) (catalog.OrdersFeed, error) {
	if recent <= 0 {
		recent = 10
	}
	var feed catalog.OrdersFeed
	err := c.getJSON(ctx, fmt.Sprintf("/orders/feed?recent=%d", recent), &feed)
	return feed, err
}

// CloseOrder marks an order done. Closing an already-closed order is not an
// error server-side.
func (c *Client) CloseOrder(ctx context.Context, id int64) (catalog.Order, error) {
	var out catalog.Order
	err := c.doJSON(ctx, "PATCH", fmt.Sprintf("/orders/%d/close", id), nil, "", &out)
	return out, err
}

// ClearClosed deletes all closed orders.
func (c *Client) ClearClosed(ctx context.Context) error {
	return c.doJSON(ctx, "DELETE", "/orders/closed", nil, "", nil)
}
