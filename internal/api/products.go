package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"qoyupos/internal/catalog"
)

// ProductsByCategory fetches the menu grid, keyed by category name.
func (c *Client) ProductsByCategory(ctx context.Context) (map[string][]catalog.Product, error) {
	out := make(map[string][]catalog.Product)
	if err := c.getJSON(ctx, "/products", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Product fetches the detail view with option group bindings.
func (c *Client) Product(ctx context.Context, id int64) (catalog.ProductInfo, error) {
	var p catalog.ProductInfo
	err := c.getJSON(ctx, fmt.Sprintf("/products/%d", id), &p)
	return p, err
}

// Categories lists all known categories, sorted by name server-side.
func (c *Client) Categories(ctx context.Context) ([]catalog.Category, error) {
	var cats []catalog.Category
	err := c.getJSON(ctx, "/categories", &cats)
	return cats, err
}

// ProductUpsert carries the admin form for creating or updating a product.
// Image uploads are deliberately left out; ImageURL stays managed server-side.
type ProductUpsert struct {
	Name           string
	BasePrice      catalog.Money
	CategoryName   string
	Description    string
	OptionGroupIDs []int64
}

func (p ProductUpsert) form() url.Values {
	form := url.Values{}
	form.Set("name", p.Name)
	form.Set("base_price", strconv.FormatInt(int64(p.BasePrice), 10))
	form.Set("category_name", p.CategoryName)
	if p.Description != "" {
		form.Set("description", p.Description)
	}
	ids := make([]string, len(p.OptionGroupIDs))
	for i, id := range p.OptionGroupIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	form.Set("option_group_ids", strings.Join(ids, ","))
	return form
}

// CreateProduct adds a product; a new category name creates the category.
func (c *Client) CreateProduct(ctx context.Context, p ProductUpsert) (catalog.ProductInfo, error) {
	var out catalog.ProductInfo
	err := c.doForm(ctx, "POST", "/products", p.form(), &out)
	return out, err
}

// UpdateProduct replaces a product's fields and option group bindings.
func (c *Client) UpdateProduct(ctx context.Context, id int64, p ProductUpsert) (catalog.ProductInfo, error) {
	var out catalog.ProductInfo
	err := c.doForm(ctx, "PUT", fmt.Sprintf("/products/%d", id), p.form(), &out)
	return out, err
}

// DeleteProduct removes a product from the menu.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.doJSON(ctx, "DELETE", fmt.Sprintf("/products/%d", id), nil, "", nil)
}
