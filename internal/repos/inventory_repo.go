package repos

import (
	"context"
	"sort"

	"github.com/jmoiron/sqlx"

	"fieldbasket/internal/domain"
)

type InventoryRepo struct{ db *sqlx.DB }

func NewInventoryRepo(db *sqlx.DB) *InventoryRepo { return &InventoryRepo{db: db} }

type inventoryRow struct {
	Code  string `db:"code"`
	Stock int    `db:"stock"`
	Price int    `db:"price"`
}

// GetStock reads the full inventory as of this call. Display-only rows
// (stock -1) are included; callers decide how to treat them.
func (r *InventoryRepo) GetStock(ctx context.Context) (domain.Snapshot, error) {
	var rows []inventoryRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT code, stock, price FROM inventory`); err != nil {
		return nil, err
	}
	snap := make(domain.Snapshot, len(rows))
	for _, row := range rows {
		snap[row.Code] = domain.StockPrice{Stock: row.Stock, Price: row.Price}
	}
	return snap, nil
}

// DecrementIfSufficient subtracts every requested quantity inside one
// write transaction. Every item is checked with a stock >= qty guard;
// the first shortage aborts the whole batch with no mutation visible,
// returning *domain.InsufficientStockError. Unknown codes return
// domain.ErrProductNotFound.
func (r *InventoryRepo) DecrementIfSufficient(ctx context.Context, items map[string]int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Fixed order keeps concurrent batches from deadlocking and makes
	// the shortage reported deterministic.
	codes := make([]string, 0, len(items))
	for code := range items {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		qty := items[code]
		if qty <= 0 {
			return &domain.InvalidQuantityError{Code: code, Qty: qty}
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE inventory
			SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
			WHERE code = ? AND stock >= ?
		`, qty, code, qty)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			var avail int
			if err := tx.GetContext(ctx, &avail, `SELECT stock FROM inventory WHERE code = ?`, code); err != nil {
				return domain.ErrProductNotFound
			}
			return &domain.InsufficientStockError{Code: code, Available: avail}
		}
	}
	return tx.Commit()
}

// UpsertStock sets stock and price for a code, creating the row if
// needed. Used by seeding and tests; live stock is maintained
// externally.
func (r *InventoryRepo) UpsertStock(ctx context.Context, code string, stock, price int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inventory(code, stock, price, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(code) DO UPDATE SET
		  stock = excluded.stock, price = excluded.price, updated_at = CURRENT_TIMESTAMP
	`, code, stock, price)
	return err
}
