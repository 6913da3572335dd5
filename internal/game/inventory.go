package game

import (
	"sort"

	"github.com/shopspring/decimal"
)

// LegOffer is one bookable leg contributed by exactly one provider.
type LegOffer struct {
	Pair       string          `json:"pair"`
	ProviderID int64           `json:"provider_id"`
	Cost       decimal.Decimal `json:"cost"`
}

func (o LegOffer) Equal(other LegOffer) bool {
	return o.Pair == other.Pair && o.ProviderID == other.ProviderID && o.Cost.Equal(other.Cost)
}

// Inventory maps canonical pair keys to the pooled offers for that pair.
// Every offer it holds is also present in its provider's HeldRoutes.
type Inventory struct {
	routes map[string][]LegOffer
}

func NewInventory() *Inventory {
	return &Inventory{routes: map[string][]LegOffer{}}
}

// Ingest appends offers returned by a provider's reset or add call to both
// the pair lists and the provider's held list. Offers with an invalid pair
// are skipped; the number ingested is returned.
func (inv *Inventory) Ingest(p *Provider, offers []LegOffer) int {
	n := 0
	for _, o := range offers {
		key, err := CanonicalPair(o.Pair)
		if err != nil {
			continue
		}
		o.Pair = key
		o.ProviderID = p.ID
		inv.routes[key] = append(inv.routes[key], o)
		p.HeldRoutes = append(p.HeldRoutes, o)
		n++
	}
	return n
}

// Find returns the position of the offer matching pair, provider and cost, or -1.
func (inv *Inventory) Find(pair string, providerID int64, cost decimal.Decimal) int {
	for i, o := range inv.routes[pair] {
		if o.ProviderID == providerID && o.Cost.Equal(cost) {
			return i
		}
	}
	return -1
}

// Remove deletes the offer at pos, dropping the pair entry when it was the last one.
func (inv *Inventory) Remove(pair string, pos int) (LegOffer, bool) {
	offers := inv.routes[pair]
	if pos < 0 || pos >= len(offers) {
		return LegOffer{}, false
	}
	removed := offers[pos]
	if len(offers) == 1 {
		delete(inv.routes, pair)
		return removed, true
	}
	inv.routes[pair] = append(offers[:pos:pos], offers[pos+1:]...)
	return removed, true
}

// Routes returns a copy of the full map.
func (inv *Inventory) Routes() map[string][]LegOffer {
	out := make(map[string][]LegOffer, len(inv.routes))
	for k, v := range inv.routes {
		out[k] = append([]LegOffer(nil), v...)
	}
	return out
}

// Pairs returns the pair keys in sorted order.
func (inv *Inventory) Pairs() []string {
	out := make([]string, 0, len(inv.routes))
	for k := range inv.routes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Len counts offers across all pairs.
func (inv *Inventory) Len() int {
	n := 0
	for _, v := range inv.routes {
		n += len(v)
	}
	return n
}

func (inv *Inventory) Clear() {
	inv.routes = map[string][]LegOffer{}
}
