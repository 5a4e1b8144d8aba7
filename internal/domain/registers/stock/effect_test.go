package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comercia/internal/core/entity"
	"comercia/internal/core/id"
)

func movement(productID id.ID, variantID *id.ID, qty int64) entity.StockMovement {
	return entity.NewStockMovement(entity.MovementSale, productID, variantID, nil, nil, qty, "")
}

func TestCurrentEffect_GroupsByProductAndVariant(t *testing.T) {
	p1 := id.New()
	p2 := id.New()
	v1 := id.New()

	movs := []entity.StockMovement{
		movement(p1, nil, -5),
		movement(p1, nil, 2),
		movement(p1, &v1, -3),
		movement(p2, nil, 8),
	}

	e := CurrentEffect(movs)

	assert.Equal(t, int64(-3), e[KeyFor(p1, nil)])
	assert.Equal(t, int64(-3), e[KeyFor(p1, &v1)])
	assert.Equal(t, int64(8), e[KeyFor(p2, nil)])
}

func TestDiff_EmitsOnlyTheDelta(t *testing.T) {
	p := id.New()
	key := KeyFor(p, nil)

	// Sold 5, now the transaction wants 3 sold.
	current := Effect{key: -5}
	desired := Effect{key: -3}

	deltas := Diff(desired, current)

	require.Len(t, deltas, 1)
	assert.Equal(t, key, deltas[0].Key)
	assert.Equal(t, int64(2), deltas[0].Quantity)
}

func TestDiff_Idempotent(t *testing.T) {
	p := id.New()
	v := id.New()
	desired := Effect{
		KeyFor(p, nil): -4,
		KeyFor(p, &v):  -1,
	}

	// First reconciliation from empty current.
	first := Diff(desired, Effect{})
	require.Len(t, first, 2)

	// Apply the deltas, diff again: nothing left to do.
	current := make(Effect)
	for _, d := range first {
		current.Add(d.Key, d.Quantity)
	}
	second := Diff(desired, current)
	assert.Empty(t, second)
}

func TestDiff_ReversesKeysAbsentFromDesired(t *testing.T) {
	p1 := id.New()
	p2 := id.New()

	current := Effect{
		KeyFor(p1, nil): -5,
		KeyFor(p2, nil): 7,
	}
	// Line for p2 was removed from the transaction.
	desired := Effect{KeyFor(p1, nil): -5}

	deltas := Diff(desired, current)

	require.Len(t, deltas, 1)
	assert.Equal(t, KeyFor(p2, nil), deltas[0].Key)
	assert.Equal(t, int64(-7), deltas[0].Quantity)
}

func TestDiff_EmptyDesiredNeutralizesEverything(t *testing.T) {
	p1 := id.New()
	p2 := id.New()
	v := id.New()

	current := Effect{
		KeyFor(p1, nil): -5,
		KeyFor(p2, &v):  3,
	}

	deltas := Diff(Effect{}, current)

	require.Len(t, deltas, 2)
	net := make(Effect)
	for k, q := range current {
		net.Add(k, q)
	}
	for _, d := range deltas {
		net.Add(d.Key, d.Quantity)
	}
	for k, q := range net {
		assert.Zerof(t, q, "key %v should net to zero", k)
	}
}

func TestDiff_SortedDeterministically(t *testing.T) {
	desired := make(Effect)
	for i := 0; i < 10; i++ {
		desired[KeyFor(id.New(), nil)] = int64(i + 1)
	}

	a := Diff(desired, Effect{})
	b := Diff(desired, Effect{})
	assert.Equal(t, a, b)
}

func TestDiff_ZeroNetCurrentProducesNoReversal(t *testing.T) {
	p := id.New()
	// A fully neutralized key nets to zero; reversing it again would
	// only add ledger noise.
	current := Effect{KeyFor(p, nil): 0}

	deltas := Diff(Effect{}, current)
	assert.Empty(t, deltas)
}
