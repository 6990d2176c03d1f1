// Package pricing implements option selection and price computation for the
// order builder. All amounts are whole tenge. The backend stores an order
// item as a discounted base price plus undiscounted option add-ons, so the
// discount applied at the counter has to be folded back into the base before
// submission; Quote carries both the display total and that server base.
package pricing

import (
	"fmt"
	"sort"
	"strings"

	"qoyupos/internal/catalog"
)

// IsSizeGroup reports whether a group is the size selector for a product.
// The structured flag wins; older backends are covered by a case-insensitive
// name prefix match (prefix comes from config, default "размер").
func IsSizeGroup(g catalog.OptionGroup, prefix string) bool {
	if g.IsSize {
		return true
	}
	if prefix == "" {
		return false
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(g.Name)), strings.ToLower(prefix))
}

// Selection tracks chosen option items per group for one product.
type Selection struct {
	chosen map[int64]map[int64]bool // group ID -> item ID set
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{chosen: make(map[int64]map[int64]bool)}
}

// Toggle applies a pick to the selection. Single-select groups work like a
// radio row: the pick replaces the previous one and re-picking it keeps it,
// so a group never goes back to empty. Multi-select groups toggle membership.
func (s *Selection) Toggle(g catalog.OptionGroup, itemID int64) {
	set := s.chosen[g.ID]
	if set == nil {
		set = make(map[int64]bool)
		s.chosen[g.ID] = set
	}
	if g.SelectType == catalog.SelectSingle {
		for id := range set {
			delete(set, id)
		}
		set[itemID] = true
		return
	}
	if set[itemID] {
		delete(set, itemID)
	} else {
		set[itemID] = true
	}
}

// Has reports whether an item is currently chosen.
func (s *Selection) Has(groupID, itemID int64) bool {
	return s.chosen[groupID][itemID]
}

// GroupCount returns the number of chosen items in a group.
func (s *Selection) GroupCount(groupID int64) int {
	return len(s.chosen[groupID])
}

// ItemIDs returns every chosen item ID, ascending. The order is stable so
// the IDs double as a merge-key component.
func (s *Selection) ItemIDs() []int64 {
	var ids []int64
	for _, set := range s.chosen {
		for id := range set {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// MissingRequired returns the required groups with no pick, in the order the
// groups were given. Both single and multi required groups block the add.
func (s *Selection) MissingRequired(groups []catalog.OptionGroup) []catalog.OptionGroup {
	var missing []catalog.OptionGroup
	for _, g := range groups {
		if g.IsRequired && len(s.chosen[g.ID]) == 0 {
			missing = append(missing, g)
		}
	}
	return missing
}

// Quote is the price breakdown for one unit of a configured product.
type Quote struct {
	Base        catalog.Money // product base price, before options
	SizeAddon   catalog.Money // add-on from the size group pick
	OtherAddons catalog.Money // sum of all non-size option add-ons
	FullBefore  catalog.Money // base + all add-ons, before discount
	DiscountPct int           // 0 means no discount
	Total       catalog.Money // discounted unit price shown to the cashier
	ServerBase  catalog.Money // Total minus add-ons; what POST /orders carries
}

// Addons returns the combined option add-on amount.
func (q Quote) Addons() catalog.Money { return q.SizeAddon + q.OtherAddons }

// Compute prices one unit of a product with the given selection and discount.
// The discount applies to the full pre-discount price, then the undiscounted
// add-ons are subtracted back out to produce the base the server expects.
// Every intermediate clamps at zero.
func Compute(base catalog.Money, groups []catalog.OptionGroup, sel *Selection, discountPct int, sizePrefix string) Quote {
	q := Quote{Base: base, DiscountPct: discountPct}

	for _, g := range groups {
		isSize := IsSizeGroup(g, sizePrefix)
		for _, item := range g.Items {
			if !sel.Has(g.ID, item.ID) {
				continue
			}
			if isSize {
				q.SizeAddon += item.Price
			} else {
				q.OtherAddons += item.Price
			}
		}
	}

	full := base + q.SizeAddon + q.OtherAddons
	if full < 0 {
		full = 0
	}
	q.FullBefore = full

	q.Total = applyDiscount(full, discountPct)
	serverBase := q.Total - q.Addons()
	if serverBase < 0 {
		serverBase = 0
	}
	q.ServerBase = serverBase
	return q
}

// applyDiscount rounds half up; amounts are never negative here.
func applyDiscount(amount catalog.Money, pct int) catalog.Money {
	if pct <= 0 {
		return amount
	}
	if pct >= 100 {
		return 0
	}
	return (amount*catalog.Money(100-pct) + 50) / 100
}

// DiscountSuffix returns the marker appended to an item name on the ticket,
// e.g. " [-20%]". Empty for no discount.
func DiscountSuffix(pct int) string {
	if pct <= 0 {
		return ""
	}
	return fmt.Sprintf(" [-%d%%]", pct)
}
