package domain

// Action is the closed set of cart state transitions. Each variant carries
// a typed payload; the reducer accepts nothing else.
type Action interface {
	isAction()
}

// AddItem adds Quantity units of Item, merging with an existing entry when
// the derived entry ID matches.
type AddItem struct {
	Item          MenuItem
	Quantity      int
	Customization *Customization
}

// RemoveItem drops the entry matching EntryID.
type RemoveItem struct {
	EntryID string
}

// UpdateQuantity replaces the quantity of the entry matching EntryID.
// A quantity of zero or less removes the entry.
type UpdateQuantity struct {
	EntryID  string
	Quantity int
}

// ClearCart empties the cart.
type ClearCart struct{}

func (AddItem) isAction()        {}
func (RemoveItem) isAction()     {}
func (UpdateQuantity) isAction() {}
func (ClearCart) isAction()      {}

// Reduce folds an action into the cart state and returns the new state.
// Transitions are atomic and synchronous; totals are recomputed from the
// entries on every call so they can never drift. Invalid actions (unknown
// entry IDs, non-positive add quantities) are absorbed as no-ops; the
// reducer never panics and performs no I/O.
func Reduce(state CartState, action Action) CartState {
	next := state
	switch a := action.(type) {
	case AddItem:
		next.Entries = Add(state.Entries, a.Item, a.Quantity, a.Customization)
	case RemoveItem:
		next.Entries = Remove(state.Entries, a.EntryID)
	case UpdateQuantity:
		next.Entries = SetQuantity(state.Entries, a.EntryID, a.Quantity)
	case ClearCart:
		next.Entries = []CartEntry{}
	default:
		return state
	}
	next.TotalItems = ItemCount(next.Entries)
	next.TotalAmount = TotalAmount(next.Entries)
	return next
}
