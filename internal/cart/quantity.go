package cart

// Unbounded disables the stock ceiling on increments.
const Unbounded int32 = -1

// QuantityMap maps product ids to positive quantities. Entries never hold a
// value <= 0: a decrement that would reach zero removes the entry instead.
// The map itself does not synchronize; stores wrap it in their own locking.
type QuantityMap map[string]int32

// Add increments the quantity for id by one, clamped to max when max >= 0.
// A missing entry starts from zero, so the first Add initializes to one
// (or to max when the ceiling is lower). Add and Increase share a single
// contract; both names exist because the storefront exposes both actions.
func (m QuantityMap) Add(id string, max int32) {
	m.Increase(id, max)
}

// Increase applies the clamped increment: min(current+1, max). When the
// result is <= 0 (a zero-stock ceiling), no entry is kept.
func (m QuantityMap) Increase(id string, max int32) {
	next := m[id] + 1
	if max >= 0 && next > max {
		next = max
	}
	if next <= 0 {
		delete(m, id)
		return
	}
	m[id] = next
}

// Decrease decrements the quantity for id, removing the entry when the
// result is <= 0.
func (m QuantityMap) Decrease(id string) {
	next := m[id] - 1
	if next <= 0 {
		delete(m, id)
		return
	}
	m[id] = next
}

// Count is the sum of all quantities.
func (m QuantityMap) Count() int32 {
	var total int32
	for _, q := range m {
		total += q
	}
	return total
}

// Clone copies the map so callers can read it without holding store locks.
func (m QuantityMap) Clone() QuantityMap {
	out := make(QuantityMap, len(m))
	for id, q := range m {
		out[id] = q
	}
	return out
}
