// Package addons holds the extras catalog and the per-booking selection.
package addons

import (
	"sort"

	"golang.org/x/exp/maps"
)

// Item is one purchasable extra.
type Item struct {
	Id          string
	Category    string
	Title       string
	Description string
	Price       float64
}

// Catalog is an ordered list of extras.
type Catalog []Item

// DefaultCatalog is the fixed set of extras offered at checkout.
func DefaultCatalog() Catalog {
	return Catalog{
		{Id: "baggage-15", Category: "Extra Baggage", Title: "15kg Checked Bag", Description: "Add an extra 15kg checked bag", Price: 45},
		{Id: "baggage-25", Category: "Extra Baggage", Title: "25kg Checked Bag", Description: "Add an extra 25kg checked bag", Price: 70},
		{Id: "meal-veg", Category: "In-flight Meals", Title: "Vegetarian Meal", Description: "Fresh vegetarian meal with dessert", Price: 15},
		{Id: "meal-nonveg", Category: "In-flight Meals", Title: "Non-Vegetarian Meal", Description: "Chicken or fish with sides and dessert", Price: 18},
		{Id: "wifi", Category: "Comfort & Services", Title: "In-flight Wi-Fi", Description: "Stay connected throughout your flight", Price: 12},
		{Id: "priority", Category: "Comfort & Services", Title: "Priority Boarding", Description: "Board first and settle in early", Price: 25},
	}
}

func (c Catalog) Lookup(id string) (Item, bool) {
	for _, item := range c {
		if item.Id == id {
			return item, true
		}
	}
	return Item{}, false
}

// Group is a category with its items, in catalog order.
type Group struct {
	Category string
	Items    []Item
}

// Grouped buckets items by category, keeping categories in first-appearance
// order.
func (c Catalog) Grouped() []Group {
	var groups []Group
	index := map[string]int{}
	for _, item := range c {
		i, ok := index[item.Category]
		if !ok {
			i = len(groups)
			index[item.Category] = i
			groups = append(groups, Group{Category: item.Category})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// Selection maps an item id to a positive quantity. Absent keys mean zero.
type Selection map[string]int

// Adjust changes a quantity by delta, clamping at zero. A zero quantity
// removes the key.
func (s Selection) Adjust(id string, delta int) {
	next := s[id] + delta
	if next <= 0 {
		delete(s, id)
		return
	}
	s[id] = next
}

func (s Selection) Quantity(id string) int {
	return s[id]
}

// Total sums quantity times unit price. Ids missing from the catalog add
// nothing.
func (s Selection) Total(catalog Catalog) float64 {
	var total float64
	for id, qty := range s {
		item, ok := catalog.Lookup(id)
		if !ok || qty <= 0 {
			continue
		}
		total += float64(qty) * item.Price
	}
	return total
}

// Count is the number of items selected across all ids.
func (s Selection) Count() int {
	n := 0
	for _, qty := range s {
		n += qty
	}
	return n
}

// Clone copies the selection so a payload never shares a map with a page.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	maps.Copy(out, s)
	return out
}

// Line is one selected extra priced for a summary.
type Line struct {
	Item     Item
	Quantity int
	Subtotal float64
}

// Lines lists the selected items in catalog order, then unknown ids sorted.
func (s Selection) Lines(catalog Catalog) []Line {
	lines := make([]Line, 0, len(s))
	seen := map[string]bool{}
	for _, item := range catalog {
		qty := s[item.Id]
		if qty <= 0 {
			continue
		}
		seen[item.Id] = true
		lines = append(lines, Line{Item: item, Quantity: qty, Subtotal: float64(qty) * item.Price})
	}
	ids := maps.Keys(s)
	sort.Strings(ids)
	for _, id := range ids {
		if seen[id] || s[id] <= 0 {
			continue
		}
		lines = append(lines, Line{Item: Item{Id: id, Title: id}, Quantity: s[id]})
	}
	return lines
}
