package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"qoyupos/internal/catalog"
)

// OptionGroups lists every option group with its items.
func (c *Client) OptionGroups(ctx context.Context) ([]catalog.OptionGroup, error) {
	var groups []catalog.OptionGroup
	err := c.getJSON(ctx, "/options/groups", &groups)
	return groups, err
}

// GroupUpsert is the admin form for creating or updating an option group.
type GroupUpsert struct {
	Name       string
	SelectType catalog.SelectType
	IsRequired bool
	IsSize     bool
}

func (g GroupUpsert) form() url.Values {
	form := url.Values{}
	form.Set("name", g.Name)
	form.Set("select_type", string(g.SelectType))
	form.Set("is_required", strconv.FormatBool(g.IsRequired))
	form.Set("is_size", strconv.FormatBool(g.IsSize))
	return form
}

// CreateOptionGroup adds a group. The backend rejects duplicate names.
func (c *Client) CreateOptionGroup(ctx context.Context, g GroupUpsert) (catalog.OptionGroup, error) {
	var out catalog.OptionGroup
	err := c.doForm(ctx, "POST", "/options/groups", g.form(), &out)
	return out, err
}

// UpdateOptionGroup replaces a group's name and selection rules.
func (c *Client) UpdateOptionGroup(ctx context.Context, id int64, g GroupUpsert) (catalog.OptionGroup, error) {
	var out catalog.OptionGroup
	err := c.doForm(ctx, "PUT", fmt.Sprintf("/options/groups/%d", id), g.form(), &out)
	return out, err
}

// DeleteOptionGroup removes a group and its items.
func (c *Client) DeleteOptionGroup(ctx context.Context, id int64) error {
	return c.doJSON(ctx, "DELETE", fmt.Sprintf("/options/groups/%d", id), nil, "", nil)
}

// CreateOptionItem adds an add-on to a group.
func (c *Client) CreateOptionItem(ctx context.Context, groupID int64, name string, price catalog.Money) (catalog.OptionItem, error) {
	form := url.Values{}
	form.Set("name", name)
	form.Set("price", strconv.FormatInt(int64(price), 10))
	var out catalog.OptionItem
	err := c.doForm(ctx, "POST", fmt.Sprintf("/options/groups/%d/items", groupID), form, &out)
	return out, err
}

// UpdateOptionItem renames or reprices an add-on.
func (c *Client) UpdateOptionItem(ctx context.Context, id int64, name string, price catalog.Money) (catalog.OptionItem, error) {
	form := url.Values{}
	form.Set("name", name)
	form.Set("price", strconv.FormatInt(int64(price), 10))
	var out catalog.OptionItem
	err := c.doForm(ctx, "PUT", fmt.Sprintf("/options/items/%d", id), form, &out)
	return out, err
}

// DeleteOptionItem removes an add-on.
func (c *Client) DeleteOptionItem(ctx context.Context, id int64) error {
	return c.doJSON(ctx, "DELETE", fmt.Sprintf("/options/items/%d", id), nil, "", nil)
}
