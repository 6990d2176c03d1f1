package app

import (
	"encoding/json"
	"time"

	"qoyupos/internal/catalog"
	"qoyupos/internal/config"
	"qoyupos/internal/feed"
	"qoyupos/internal/session"
)

// Messages flowing through the update loop. Every backend call resolves to
// exactly one of these; errors ride inside rather than failing the page.

type sessionResolvedMsg struct {
	snap session.Snapshot
}

type authResultMsg struct {
	snap session.Snapshot
	err  error
}

type loggedOutMsg struct{}

// menuLoadedMsg carries the create-order bootstrap: grid plus option groups.
type menuLoadedMsg struct {
	byCategory map[string][]catalog.Product
	groups     []catalog.OptionGroup
	err        error
}

type productInfoMsg struct {
	info catalog.ProductInfo
	err  error
}

type orderSubmittedMsg struct {
	order catalog.Order
	err   error
}

type ordersSnapshotMsg struct {
	snap  catalog.OrdersFeed
	fresh bool // at least one order ID not seen in the previous snapshot
}

type orderClosedMsg struct {
	id  int64
	err error
}

type closedClearedMsg struct {
	err error
}

type dashboardLoadedMsg struct {
	data feed.DashboardMessage
	err  error
}

// socketFrameMsg is one raw frame from a websocket subscription; channel is
// one of the feed.Path constants.
type socketFrameMsg struct {
	channel string
	raw     json.RawMessage
}

type socketGoneMsg struct {
	channel string
}

type productSavedMsg struct {
	info catalog.ProductInfo
	err  error
}

type productDeletedMsg struct {
	id  int64
	err error
}

type groupsLoadedMsg struct {
	groups []catalog.OptionGroup
	err    error
}

type groupSavedMsg struct {
	err error
}

type itemSavedMsg struct {
	err error
}

type clockTickMsg time.Time

// configReloadedMsg arrives when the config file changes on disk.
type configReloadedMsg struct {
	cfg *config.Config
}
