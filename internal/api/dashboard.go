package api

import (
	"context"
	"fmt"

	"qoyupos/internal/catalog"
)

// DashboardStats fetches the KPI tiles (day/month sales and counts).
func (c *Client) DashboardStats(ctx context.Context) (catalog.DashboardStats, error) {
	var s catalog.DashboardStats
	err := c.getJSON(ctx, "/dashboard/stats", &s)
	return s, err
}

// HourlySummary fetches the orders-per-hour histogram.
func (c *Client) HourlySummary(ctx context.Context) ([]catalog.HourPoint, error) {
	var points []catalog.HourPoint
	err := c.getJSON(ctx, "/dashboard/hourly-summary", &points)
	return points, err
}

// RecentOrders fetches the latest orders panel. Note the IDs here are the
// guest-facing daily sequence numbers, not database IDs.
func (c *Client) RecentOrders(ctx context.Context, limit int) ([]catalog.RecentOrder, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []catalog.RecentOrder
	err := c.getJSON(ctx, fmt.Sprintf("/dashboard/recent-orders?limit=%d", limit), &rows)
	return rows, err
}
