package domain

import (
	"hash/fnv"
	"sort"
	"strconv"
	"time"
)

// Entry ID prefixes. Distinct prefixes keep plain and customized keys in
// separate namespaces so they can never collide.
const (
	plainEntryPrefix      = "base::"
	customizedEntryPrefix = "cstm::"
)

// Customization holds the user-chosen modifications to a menu item. It is
// immutable once attached to a cart entry. TotalPrice, when set, overrides
// the base item price as the authoritative unit price in rupees.
type Customization struct {
	Size                string `json:"size,omitempty"`
	SpiceLevel          string `json:"spice_level,omitempty"`
	SpecialInstructions string `json:"special_instructions,omitempty"`
	TotalPrice          *int64 `json:"total_price,omitempty"`
}

// CartEntry is one line in the cart, keyed by item plus customization.
type CartEntry struct {
	EntryID       string         `json:"entry_id"`
	Item          MenuItem       `json:"item"`
	Quantity      int            `json:"quantity"`
	Customization *Customization `json:"customization,omitempty"`
}

// CartState is the aggregate cart for one user. TotalItems and TotalAmount
// are derived from Entries and recomputed on every transition.
type CartState struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Entries     []CartEntry `json:"entries"`
	TotalItems  int         `json:"total_items"`
	TotalAmount int64       `json:"total_amount"`
	Version     int         `json:"version"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	ExpiresAt   time.Time   `json:"expires_at"`
}

// EntryID derives the stable identity key for an (item, customization)
// pair. Without a customization the key depends only on the item ID, so
// repeated plain additions of the same item collapse into one entry. With
// a customization the key mixes in an FNV-1a hash of the (size, spice
// level, special instructions) triplet; TotalPrice does not participate in
// identity. Pure: equal inputs always yield equal keys.
func EntryID(itemID string, c *Customization) string {
	if c == nil {
		return plainEntryPrefix + itemID
	}
	h := fnv.New64a()
	h.Write([]byte(c.Size))
	h.Write([]byte{0})
	h.Write([]byte(c.SpiceLevel))
	h.Write([]byte{0})
	h.Write([]byte(c.SpecialInstructions))
	return customizedEntryPrefix + itemID + "::" + strconv.FormatUint(h.Sum64(), 16)
}

// Add returns a new entry slice with qty units of the item added. If an
// entry with the same derived ID exists its quantity is incremented,
// otherwise a new entry is appended, preserving insertion order. A qty of
// zero or less is a no-op. The input slice is never mutated.
func Add(entries []CartEntry, item MenuItem, qty int, c *Customization) []CartEntry {
	if qty <= 0 {
		return cloneEntries(entries)
	}
	id := EntryID(item.ID, c)
	out := cloneEntries(entries)
	for i := range out {
		if out[i].EntryID == id {
			out[i].Quantity += qty
			return out
		}
	}
	return append(out, CartEntry{
		EntryID:       id,
		Item:          item,
		Quantity:      qty,
		Customization: c,
	})
}

// Remove returns a new entry slice without the entry matching entryID.
// Removing an absent ID is a no-op.
func Remove(entries []CartEntry, entryID string) []CartEntry {
	out := make([]CartEntry, 0, len(entries))
	for _, e := range entries {
		if e.EntryID != entryID {
			out = append(out, e)
		}
	}
	return out
}

// SetQuantity returns a new entry slice with the matching entry's quantity
// replaced. A qty of zero or less removes the entry; an absent ID is a
// no-op.
func SetQuantity(entries []CartEntry, entryID string, qty int) []CartEntry {
	if qty <= 0 {
		return Remove(entries, entryID)
	}
	out := cloneEntries(entries)
	for i := range out {
		if out[i].EntryID == entryID {
			out[i].Quantity = qty
			break
		}
	}
	return out
}

// Find returns the entry matching entryID.
func Find(entries []CartEntry, entryID string) (CartEntry, bool) {
	for _, e := range entries {
		if e.EntryID == entryID {
			return e, true
		}
	}
	return CartEntry{}, false
}

// QuantityOf returns the quantity of the entry matching entryID, or 0.
func QuantityOf(entries []CartEntry, entryID string) int {
	e, ok := Find(entries, entryID)
	if !ok {
		return 0
	}
	return e.Quantity
}

// IsEmpty reports whether the entry collection holds no entries.
func IsEmpty(entries []CartEntry) bool {
	return len(entries) == 0
}

// ForRestaurant returns the entries belonging to the given restaurant,
// preserving insertion order.
func ForRestaurant(entries []CartEntry, restaurantID string) []CartEntry {
	out := make([]CartEntry, 0, len(entries))
	for _, e := range entries {
		if e.Item.RestaurantID == restaurantID {
			out = append(out, e)
		}
	}
	return out
}

// GroupByRestaurant buckets entries by restaurant ID, preserving insertion
// order within each bucket.
func GroupByRestaurant(entries []CartEntry) map[string][]CartEntry {
	groups := make(map[string][]CartEntry)
	for _, e := range entries {
		groups[e.Item.RestaurantID] = append(groups[e.Item.RestaurantID], e)
	}
	return groups
}

// SortByCategory returns a new entry slice stably sorted by the given
// category order. Entries with categories not in the order sort after all
// known categories, keeping their relative order.
func SortByCategory(entries []CartEntry, order []string) []CartEntry {
	rank := make(map[string]int, len(order))
	for i, c := range order {
		rank[c] = i
	}
	out := cloneEntries(entries)
	sort.SliceStable(out, func(i, j int) bool {
		ri, iok := rank[out[i].Item.Category]
		rj, jok := rank[out[j].Item.Category]
		if iok && jok {
			return ri < rj
		}
		return iok && !jok
	})
	return out
}

// ItemCount returns the total number of units across all entries.
func ItemCount(entries []CartEntry) int {
	var n int
	for _, e := range entries {
		n += e.Quantity
	}
	return n
}

// TotalAmount returns the total price in rupees across all entries.
func TotalAmount(entries []CartEntry) int64 {
	var total int64
	for _, e := range entries {
		total += UnitPrice(e) * int64(e.Quantity)
	}
	return total
}

func cloneEntries(entries []CartEntry) []CartEntry {
	out := make([]CartEntry, len(entries))
	copy(out, entries)
	return out
}
