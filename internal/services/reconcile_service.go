package services

import (
	"context"

	"fieldbasket/internal/cart"
	"fieldbasket/internal/domain"
	"fieldbasket/internal/repos"
)

// ReconcileService serves the client's reconciliation loop: fresh
// stock snapshots and cart re-validation against them.
type ReconcileService struct {
	Inv *repos.InventoryRepo
}

func NewReconcileService(inv *repos.InventoryRepo) *ReconcileService {
	return &ReconcileService{Inv: inv}
}

// Snapshot returns the code -> stock map the storefront polls,
// including display-only (-1) rows.
func (s *ReconcileService) Snapshot(ctx context.Context) (map[string]int, error) {
	snap, err := s.Inv.GetStock(ctx)
	if err != nil {
		return nil, ledgerErr(err)
	}
	out := make(map[string]int, len(snap))
	for code, sp := range snap {
		out[code] = sp.Stock
	}
	return out, nil
}

// Reconcile re-validates a client cart against a fresh snapshot.
func (s *ReconcileService) Reconcile(ctx context.Context, c domain.Cart) (domain.Cart, []domain.Adjustment, error) {
	snap, err := s.Inv.GetStock(ctx)
	if err != nil {
		return nil, nil, ledgerErr(err)
	}
	reconciled, events := cart.Reconcile(c, snap)
	return reconciled, events, nil
}
