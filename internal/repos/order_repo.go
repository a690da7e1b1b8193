package repos

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"fieldbasket/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// ErrIDTaken signals a short-id collision; the caller regenerates and
// retries with a fresh id.
var ErrIDTaken = errors.New("order id already taken")

// Append writes one immutable order row.
func (r *OrderRepo) Append(ctx context.Context, o domain.Order) error {
	_, err := r.db.ExecContext(ctx, `
	  INSERT INTO orders
	    (id, customer_name, phone, email, address, account_last5, facebook, remark, summary, total, created_at)
	  VALUES
	    (?,  ?,             ?,     ?,     ?,       ?,             ?,        ?,      ?,       ?,     ?)
	`, o.ID, o.Name, o.Phone, o.Email, o.Address, o.AccountLast5, o.Facebook, o.Remark, o.Summary, o.Total, o.CreatedAt)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint") {
		return ErrIDTaken
	}
	return err
}

func (r *OrderRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	var o domain.Order
	err := r.db.GetContext(ctx, &o, `
		SELECT id, customer_name, phone, email, address, account_last5, facebook, remark, summary, total, created_at
		FROM orders WHERE id = ?
	`, id)
	if err == sql.ErrNoRows {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return o, err
}
