package app

import (
	"context"
	"encoding/json"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"qoyupos/internal/api"
	"qoyupos/internal/catalog"
	"qoyupos/internal/feed"
)

// Commands wrap backend calls into tea.Cmds. Each one uses the model's
// long-lived context so an app shutdown cancels in-flight requests.

func (m *Model) resolveSessionCmd() tea.Cmd {
	return func() tea.Msg {
		return sessionResolvedMsg{snap: m.gate.Resolve(m.ctx)}
	}
}

func (m *Model) loginCmd(phone, password string) tea.Cmd {
	return func() tea.Msg {
		snap, err := m.gate.Login(m.ctx, phone, password)
		return authResultMsg{snap: snap, err: err}
	}
}

func (m *Model) registerCmd(name, phone, password string) tea.Cmd {
	return func() tea.Msg {
		snap, err := m.gate.Register(m.ctx, name, phone, password)
		return authResultMsg{snap: snap, err: err}
	}
}

func (m *Model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		m.gate.Logout(m.ctx)
		return loggedOutMsg{}
	}
}

// loadMenuCmd fetches the product grid and option groups concurrently; the
// order builder needs both before the first render.
func (m *Model) loadMenuCmd() tea.Cmd {
	return func() tea.Msg {
		var (
			byCategory map[string][]catalog.Product
			groups     []catalog.OptionGroup
		)
		g, ctx := errgroup.WithContext(m.ctx)
		g.Go(func() error {
			var err error
			byCategory, err = m.client.ProductsByCategory(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			groups, err = m.client.OptionGroups(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return menuLoadedMsg{err: err}
		}
		return menuLoadedMsg{byCategory: byCategory, groups: groups}
	}
}

func (m *Model) loadProductCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		info, err := m.client.Product(m.ctx, id)
		return productInfoMsg{info: info, err: err}
	}
}

func (m *Model) submitOrderCmd(in api.OrderIn) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, m.cfg.GetSubmitTimeout())
		defer cancel()
		order, err := m.client.SubmitOrder(ctx, in)
		return orderSubmittedMsg{order: order, err: err}
	}
}

func (m *Model) closeOrderCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		_, err := m.client.CloseOrder(m.ctx, id)
		return orderClosedMsg{id: id, err: err}
	}
}

func (m *Model) clearClosedCmd() tea.Cmd {
	return func() tea.Msg {
		return closedClearedMsg{err: m.client.ClearClosed(m.ctx)}
	}
}

// loadDashboardCmd does the initial fetch before the socket takes over.
func (m *Model) loadDashboardCmd() tea.Cmd {
	return func() tea.Msg {
		var data feed.DashboardMessage
		g, ctx := errgroup.WithContext(m.ctx)
		g.Go(func() error {
			var err error
			data.Stats, err = m.client.DashboardStats(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			data.Hourly, err = m.client.HourlySummary(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			data.Recent, err = m.client.RecentOrders(ctx, 5)
			return err
		})
		if err := g.Wait(); err != nil {
			return dashboardLoadedMsg{err: err}
		}
		return dashboardLoadedMsg{data: data}
	}
}

func (m *Model) loadGroupsCmd() tea.Cmd {
	return func() tea.Msg {
		groups, err := m.client.OptionGroups(m.ctx)
		return groupsLoadedMsg{groups: groups, err: err}
	}
}

func (m *Model) saveProductCmd(id int64, up api.ProductUpsert) tea.Cmd {
	return func() tea.Msg {
		var (
			info catalog.ProductInfo
			err  error
		)
		if id == 0 {
			info, err = m.client.CreateProduct(m.ctx, up)
		} else {
			info, err = m.client.UpdateProduct(m.ctx, id, up)
		}
		return productSavedMsg{info: info, err: err}
	}
}

func (m *Model) deleteProductCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		return productDeletedMsg{id: id, err: m.client.DeleteProduct(m.ctx, id)}
	}
}

func (m *Model) saveGroupCmd(id int64, up api.GroupUpsert) tea.Cmd {
	return func() tea.Msg {
		var err error
		if id == 0 {
			_, err = m.client.CreateOptionGroup(m.ctx, up)
		} else {
			_, err = m.client.UpdateOptionGroup(m.ctx, id, up)
		}
		return groupSavedMsg{err: err}
	}
}

func (m *Model) deleteGroupCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		return groupSavedMsg{err: m.client.DeleteOptionGroup(m.ctx, id)}
	}
}

func (m *Model) saveItemCmd(groupID, itemID int64, name string, price catalog.Money) tea.Cmd {
	return func() tea.Msg {
		var err error
		if itemID == 0 {
			_, err = m.client.CreateOptionItem(m.ctx, groupID, name, price)
		} else {
			_, err = m.client.UpdateOptionItem(m.ctx, itemID, name, price)
		}
		return itemSavedMsg{err: err}
	}
}

func (m *Model) deleteItemCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		return itemSavedMsg{err: m.client.DeleteOptionItem(m.ctx, id)}
	}
}

// awaitOrdersCmd blocks on the poller channel and re-arms itself from the
// update loop after each snapshot.
func awaitOrdersCmd(p *feed.Poller, d *feed.Detector) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-p.Updates()
		if !ok {
			return nil
		}
		return ordersSnapshotMsg{snap: snap, fresh: d.Observe(snap.Active)}
	}
}

// awaitSocketCmd blocks on a socket's frame channel.
func awaitSocketCmd(channel string, s *feed.Socket) tea.Cmd {
	return func() tea.Msg {
		raw, ok := <-s.Messages()
		if !ok {
			return socketGoneMsg{channel: channel}
		}
		return socketFrameMsg{channel: channel, raw: json.RawMessage(raw)}
	}
}

func clockTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}
