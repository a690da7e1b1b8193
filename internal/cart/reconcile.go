// Package cart re-validates a client-held cart against a fresh ledger
// snapshot: quantities above current stock are clamped and flagged,
// sold-out lines become terminal markers. Reconciliation never removes
// a line; deletion is an explicit user action.
package cart

import (
	"sort"

	"fieldbasket/internal/domain"
)

// Reconcile returns a reconciled copy of c against snap plus the list
// of clamp adjustments to surface to the buyer. It depends only on its
// inputs and is idempotent: reconciling the result against the same
// snapshot is a no-op.
func Reconcile(c domain.Cart, snap domain.Snapshot) (domain.Cart, []domain.Adjustment) {
	out := make(domain.Cart, len(c))
	var events []domain.Adjustment

	for _, code := range sortedCodes(c) {
		line := c[code]
		sp, ok := snap[code]
		if !ok || sp.Stock < 0 {
			// Product no longer tracked (or display-only): trust the
			// last known state rather than guessing.
			out[code] = line
			continue
		}

		switch {
		case sp.Stock == 0:
			// Terminal: the only valid next action is deletion.
			line.Qty = 0
			line.Stock = 0
			line.OutOfStock = true
			line.Adjusted = false
			line.OriginalQty = 0

		case line.Qty == 0:
			// Already a sold-out marker from an earlier pass. Stock
			// reappearing does not resurrect the line.
			line.Stock = sp.Stock

		case line.Qty > sp.Stock:
			if line.OriginalQty == 0 {
				line.OriginalQty = line.Qty
			}
			line.Qty = sp.Stock
			line.Stock = sp.Stock
			line.Adjusted = true
			line.OutOfStock = false
			events = append(events, domain.Adjustment{Code: code, Stock: sp.Stock})

		default:
			line.Stock = sp.Stock
			line.OutOfStock = false
			if line.OriginalQty > 0 && line.OriginalQty > sp.Stock {
				// Stock has not recovered to the buyer's original ask.
				line.Adjusted = true
			} else {
				line.Adjusted = false
				line.OriginalQty = 0
			}
		}
		out[code] = line
	}
	return out, events
}

// OrderableItems extracts the code->qty mapping of lines worth
// committing (qty > 0). Returns nil if nothing is orderable.
func OrderableItems(c domain.Cart) map[string]int {
	var items map[string]int
	for code, line := range c {
		if line.Qty > 0 {
			if items == nil {
				items = make(map[string]int)
			}
			items[code] = line.Qty
		}
	}
	return items
}

func sortedCodes(c domain.Cart) []string {
	codes := make([]string, 0, len(c))
	for code := range c {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
