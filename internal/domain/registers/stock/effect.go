package stock

import (
	"sort"

	"comercia/internal/core/entity"
	"comercia/internal/core/id"
)

// Key identifies a stock dimension: a product, optionally narrowed to one
// of its variants. The nil UUID stands for "no variant".
type Key struct {
	ProductID id.ID
	VariantID id.ID
}

// KeyFor builds a Key from a product and optional variant.
func KeyFor(productID id.ID, variantID *id.ID) Key {
	k := Key{ProductID: productID}
	if variantID != nil {
		k.VariantID = *variantID
	}
	return k
}

// Variant returns the variant pointer form of the key, nil when absent.
func (k Key) Variant() *id.ID {
	if id.IsNil(k.VariantID) {
		return nil
	}
	v := k.VariantID
	return &v
}

// Effect is a net signed stock effect per dimension key.
type Effect map[Key]int64

// Add accumulates a signed quantity for a key.
func (e Effect) Add(key Key, quantity int64) {
	e[key] += quantity
}

// CurrentEffect sums committed ledger rows into their net effect per key.
// Feeding it all movements of one transaction yields what that transaction
// has already done to stock.
func CurrentEffect(movements []entity.StockMovement) Effect {
	e := make(Effect, len(movements))
	for _, m := range movements {
		e.Add(KeyFor(m.ProductID, m.VariantID), m.Quantity)
	}
	return e
}

// Delta is one required correction produced by Diff.
type Delta struct {
	Key      Key
	Quantity int64
}

// Diff computes the corrections that take stock from the current effect to
// the desired one. Keys present only in current are fully reversed. The
// result is sorted for deterministic application and locking order.
//
// Diffing desired against current rather than replaying history makes the
// final stock state depend only on the transaction's current content, no
// matter how many times it was edited.
func Diff(desired, current Effect) []Delta {
	deltas := make([]Delta, 0, len(desired)+len(current))

	for key, want := range desired {
		if d := want - current[key]; d != 0 {
			deltas = append(deltas, Delta{Key: key, Quantity: d})
		}
	}
	for key, have := range current {
		if _, ok := desired[key]; ok {
			continue
		}
		if have != 0 {
			deltas = append(deltas, Delta{Key: key, Quantity: -have})
		}
	}

	sort.Slice(deltas, func(i, j int) bool {
		a, b := deltas[i].Key, deltas[j].Key
		if a.ProductID != b.ProductID {
			return a.ProductID.String() < b.ProductID.String()
		}
		return a.VariantID.String() < b.VariantID.String()
	})
	return deltas
}
