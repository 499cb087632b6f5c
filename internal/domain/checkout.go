package domain

import "fmt"

// ValidationResult is the collected outcome of checkout validation.
// Callers decide whether to block submission; validation never fails with
// a Go error.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ValidateItem checks the structural soundness of a single cart entry:
// non-empty item ID and name, a resolvable unit price, and a positive
// quantity. Returns human-readable problems, empty when the entry is
// sound.
func ValidateItem(e CartEntry) []string {
	var problems []string
	if e.Item.ID == "" {
		problems = append(problems, "item is missing an id")
	}
	if e.Item.Name == "" {
		problems = append(problems, fmt.Sprintf("item %q is missing a name", e.Item.ID))
	}
	if e.Quantity < 1 {
		problems = append(problems, fmt.Sprintf("%q has a non-positive quantity", e.Item.Name))
	}
	if e.Customization == nil || e.Customization.TotalPrice == nil {
		if _, ok := ParsePrice(e.Item.Price); !ok {
			problems = append(problems, fmt.Sprintf("%q has an unreadable price %q", e.Item.Name, e.Item.Price))
		}
	}
	return problems
}

// ValidateForCheckout gates order submission. It fails when the cart is
// empty, when any entry is structurally invalid, or when any entry's base
// item is marked unavailable.
func ValidateForCheckout(entries []CartEntry) ValidationResult {
	if len(entries) == 0 {
		return ValidationResult{Errors: []string{"cart is empty"}}
	}

	var errs []string
	for _, e := range entries {
		errs = append(errs, ValidateItem(e)...)
		if !e.Item.IsAvailable {
			errs = append(errs, fmt.Sprintf("%q is currently unavailable", e.Item.Name))
		}
	}
	if len(errs) > 0 {
		return ValidationResult{Errors: errs}
	}
	return ValidationResult{Valid: true}
}

// OrderLine is one line item of an order draft sent to the order service.
type OrderLine struct {
	ItemID        string         `json:"item_id"`
	Name          string         `json:"name"`
	Price         int64          `json:"price"`
	Quantity      int            `json:"quantity"`
	Customization *Customization `json:"customization,omitempty"`
	TotalPrice    int64          `json:"total_price"`
}

// OrderDraft is the serialized cart handed to the order service at
// checkout.
type OrderDraft struct {
	UserID         string      `json:"user_id"`
	RestaurantID   string      `json:"restaurant_id"`
	RestaurantName string      `json:"restaurant_name"`
	Lines          []OrderLine `json:"lines"`
	Subtotal       int64       `json:"subtotal"`
	DeliveryFee    int64       `json:"delivery_fee"`
	Total          int64       `json:"total"`
}

// FeePolicy decides the delivery fee for an order: a flat fee in rupees,
// waived once the subtotal reaches FreeDeliveryOver (0 disables the
// waiver).
type FeePolicy struct {
	DeliveryFee      int64
	FreeDeliveryOver int64
}

// Fee returns the delivery fee for the given subtotal.
func (p FeePolicy) Fee(subtotal int64) int64 {
	if p.FreeDeliveryOver > 0 && subtotal >= p.FreeDeliveryOver {
		return 0
	}
	return p.DeliveryFee
}

// BuildOrderDraft serializes cart entries into an order draft for the
// given restaurant, computing line totals, subtotal, delivery fee, and
// grand total.
func BuildOrderDraft(userID string, entries []CartEntry, r Restaurant, policy FeePolicy) OrderDraft {
	lines := make([]OrderLine, 0, len(entries))
	var subtotal int64
	for _, e := range entries {
		unit := UnitPrice(e)
		lineTotal := unit * int64(e.Quantity)
		lines = append(lines, OrderLine{
			ItemID:        e.Item.ID,
			Name:          e.Item.Name,
			Price:         unit,
			Quantity:      e.Quantity,
			Customization: e.Customization,
			TotalPrice:    lineTotal,
		})
		subtotal += lineTotal
	}

	fee := policy.Fee(subtotal)
	return OrderDraft{
		UserID:         userID,
		RestaurantID:   r.ID,
		RestaurantName: r.Name,
		Lines:          lines,
		Subtotal:       subtotal,
		DeliveryFee:    fee,
		Total:          subtotal + fee,
	}
}
