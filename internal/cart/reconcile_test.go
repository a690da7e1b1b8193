package cart_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldbasket/internal/cart"
	"fieldbasket/internal/domain"
)

func snap(pairs map[string]int) domain.Snapshot {
	s := make(domain.Snapshot, len(pairs))
	for code, stock := range pairs {
		s[code] = domain.StockPrice{Stock: stock, Price: 100}
	}
	return s
}

func TestReconcileClampAndFlagLifecycle(t *testing.T) {
	c := domain.Cart{"TEA": {Qty: 10, Price: 100, Stock: 10}}

	// stock drops to 4: clamp, flag, remember the original ask
	got, events := cart.Reconcile(c, snap(map[string]int{"TEA": 4}))
	require.Len(t, events, 1)
	assert.Equal(t, domain.Adjustment{Code: "TEA", Stock: 4}, events[0])
	line := got["TEA"]
	assert.Equal(t, 4, line.Qty)
	assert.True(t, line.Adjusted)
	assert.Equal(t, 10, line.OriginalQty)

	// stock recovers to 8: still short of the original 10, stays flagged
	got, events = cart.Reconcile(got, snap(map[string]int{"TEA": 8}))
	assert.Empty(t, events)
	line = got["TEA"]
	assert.Equal(t, 4, line.Qty)
	assert.True(t, line.Adjusted)
	assert.Equal(t, 10, line.OriginalQty)

	// stock recovers to 12: flag clears, original ask forgotten
	got, _ = cart.Reconcile(got, snap(map[string]int{"TEA": 12}))
	line = got["TEA"]
	assert.Equal(t, 4, line.Qty)
	assert.False(t, line.Adjusted)
	assert.Zero(t, line.OriginalQty)
}

func TestReconcileOriginalQtyCapturedOnce(t *testing.T) {
	c := domain.Cart{"TEA": {Qty: 10}}
	got, _ := cart.Reconcile(c, snap(map[string]int{"TEA": 6}))
	got, _ = cart.Reconcile(got, snap(map[string]int{"TEA": 3}))
	line := got["TEA"]
	assert.Equal(t, 3, line.Qty)
	assert.Equal(t, 10, line.OriginalQty, "first ask survives repeated clamps")
}

func TestReconcileSoldOutIsTerminal(t *testing.T) {
	c := domain.Cart{"HONEY": {Qty: 2, OriginalQty: 5, Adjusted: true}}
	got, events := cart.Reconcile(c, snap(map[string]int{"HONEY": 0}))
	assert.Empty(t, events)
	line := got["HONEY"]
	assert.Zero(t, line.Qty)
	assert.True(t, line.OutOfStock)
	assert.False(t, line.Adjusted)
	assert.Zero(t, line.OriginalQty)

	// stock coming back does not resurrect the line
	got, _ = cart.Reconcile(got, snap(map[string]int{"HONEY": 7}))
	line = got["HONEY"]
	assert.Zero(t, line.Qty)
	assert.True(t, line.OutOfStock)
}

func TestReconcileUntrackedCodeLeftAlone(t *testing.T) {
	orig := domain.CartLine{Qty: 3, Price: 450, Stock: 9}
	c := domain.Cart{"GONE": orig, "DISPLAY": {Qty: 1}}
	got, events := cart.Reconcile(c, snap(map[string]int{"DISPLAY": -1}))
	assert.Empty(t, events)
	assert.Equal(t, orig, got["GONE"])
	assert.Equal(t, domain.CartLine{Qty: 1}, got["DISPLAY"])
}

func TestReconcileIdempotent(t *testing.T) {
	c := domain.Cart{
		"A": {Qty: 10},
		"B": {Qty: 2},
		"C": {Qty: 1},
	}
	s := snap(map[string]int{"A": 4, "B": 0, "C": 5})

	once, _ := cart.Reconcile(c, s)
	twice, events := cart.Reconcile(once, s)
	assert.Equal(t, once, twice)
	assert.Empty(t, events)
}

func TestReconcileNeverRemovesLines(t *testing.T) {
	c := domain.Cart{"A": {Qty: 1}, "B": {Qty: 2}, "C": {Qty: 3}}
	got, _ := cart.Reconcile(c, snap(map[string]int{"A": 0, "B": 1}))
	assert.Len(t, got, 3)
}

func TestOrderableItems(t *testing.T) {
	c := domain.Cart{
		"A": {Qty: 2},
		"B": {Qty: 0, OutOfStock: true},
	}
	assert.Equal(t, map[string]int{"A": 2}, cart.OrderableItems(c))
	assert.Nil(t, cart.OrderableItems(domain.Cart{"B": {Qty: 0}}))
}
