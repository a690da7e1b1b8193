package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"fieldbasket/internal/domain"
	"fieldbasket/internal/notify"
	"fieldbasket/internal/repos"
	"fieldbasket/internal/services"
)

func memdbAll(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// each :memory: connection would be its own database
	db.SetMaxOpenConns(1)
	if err := repos.EnsureSchema(db); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// chanNotifier lets tests observe the async dispatch.
type chanNotifier struct{ ch chan domain.Order }

func (n *chanNotifier) Notify(_ context.Context, o domain.Order) error {
	n.ch <- o
	return nil
}

func newCheckout(t *testing.T, db *sqlx.DB, notifiers ...notify.Notifier) (*services.CheckoutService, *repos.InventoryRepo) {
	t.Helper()
	inv := repos.NewInventoryRepo(db)
	svc := services.NewCheckoutService(inv, repos.NewOrderRepo(db), repos.NewDraftRepo(db),
		notifiers, 65, time.UTC, 2*time.Second)
	return svc, inv
}

func seed(t *testing.T, inv *repos.InventoryRepo, code string, stock, price int) {
	t.Helper()
	if err := inv.UpsertStock(context.Background(), code, stock, price); err != nil {
		t.Fatal(err)
	}
}

var buyer = domain.Buyer{
	Name: "Tester", Phone: "0912345678", Email: "t@example.com",
	Address: "1 Farm Rd", AccountLast5: "12345",
}

func TestCheckout_SubmitConfirmCommit(t *testing.T) {
	db := memdbAll(t)
	sink := &chanNotifier{ch: make(chan domain.Order, 1)}
	svc, inv := newCheckout(t, db, sink)
	seed(t, inv, "TEA", 5, 50)
	ctx := context.Background()

	d, err := svc.SubmitDraft(ctx, "sid-1", buyer, map[string]int{"TEA": 3})
	if err != nil {
		t.Fatal(err)
	}
	if d.Token == "" {
		t.Fatal("no token issued")
	}
	// 3 x 50 + 65 shipping
	if d.Total != 215 {
		t.Fatalf("want total 215, got %d", d.Total)
	}

	orderID, err := svc.Confirm(ctx, "sid-1", d.Token, "confirm")
	if err != nil {
		t.Fatal(err)
	}
	if len(orderID) != 5 {
		t.Fatalf("want 5-char order id, got %q", orderID)
	}

	snap, err := inv.GetStock(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if snap["TEA"].Stock != 2 {
		t.Fatalf("want stock 2 after commit, got %d", snap["TEA"].Stock)
	}

	o, err := svc.QueryOrder(ctx, orderID)
	if err != nil {
		t.Fatal(err)
	}
	if o.Total != 215 || o.Name != "Tester" {
		t.Fatalf("bad order record: %+v", o)
	}

	select {
	case got := <-sink.ch:
		if got.ID != orderID {
			t.Fatalf("notified about wrong order: %s", got.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was never invoked")
	}

	// replaying the spent token must be rejected, not re-committed
	if _, err := svc.Confirm(ctx, "sid-1", d.Token, "confirm"); !errors.Is(err, domain.ErrDuplicateSubmission) {
		t.Fatalf("want ErrDuplicateSubmission on replay, got %v", err)
	}
	snap, _ = inv.GetStock(ctx)
	if snap["TEA"].Stock != 2 {
		t.Fatalf("replay decremented stock: %d", snap["TEA"].Stock)
	}
}

func TestCheckout_CancelSpendsTokenWithoutMutation(t *testing.T) {
	db := memdbAll(t)
	svc, inv := newCheckout(t, db)
	seed(t, inv, "TEA", 5, 50)
	ctx := context.Background()

	d, err := svc.SubmitDraft(ctx, "sid-1", buyer, map[string]int{"TEA": 2})
	if err != nil {
		t.Fatal(err)
	}

	orderID, err := svc.Confirm(ctx, "sid-1", d.Token, "cancel")
	if err != nil {
		t.Fatal(err)
	}
	if orderID != "" {
		t.Fatalf("cancel produced an order id: %q", orderID)
	}

	snap, _ := inv.GetStock(ctx)
	if snap["TEA"].Stock != 5 {
		t.Fatalf("cancel mutated stock: %d", snap["TEA"].Stock)
	}

	if _, err := svc.Confirm(ctx, "sid-1", d.Token, "confirm"); !errors.Is(err, domain.ErrDuplicateSubmission) {
		t.Fatalf("want ErrDuplicateSubmission after cancel, got %v", err)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	svc, _ := newCheckout(t, memdbAll(t))

	_, err := svc.SubmitDraft(context.Background(), "sid-1", buyer, map[string]int{"TEA": 0})
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("want ErrEmptyCart, got %v", err)
	}
}

func TestCheckout_UnknownAndDisplayOnlyProducts(t *testing.T) {
	db := memdbAll(t)
	svc, inv := newCheckout(t, db)
	seed(t, inv, "DISPLAY", -1, 0)
	ctx := context.Background()

	if _, err := svc.SubmitDraft(ctx, "sid-1", buyer, map[string]int{"NOPE": 1}); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound for unknown code, got %v", err)
	}
	if _, err := svc.SubmitDraft(ctx, "sid-1", buyer, map[string]int{"DISPLAY": 1}); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound for display-only code, got %v", err)
	}
}

func TestCheckout_StaleDraftRevalidatedAtConfirm(t *testing.T) {
	db := memdbAll(t)
	svc, inv := newCheckout(t, db)
	seed(t, inv, "TEA", 5, 50)
	ctx := context.Background()

	d, err := svc.SubmitDraft(ctx, "sid-1", buyer, map[string]int{"TEA": 4})
	if err != nil {
		t.Fatal(err)
	}

	// someone else bought in the meantime
	seed(t, inv, "TEA", 1, 50)

	_, err = svc.Confirm(ctx, "sid-1", d.Token, "confirm")
	var short *domain.InsufficientStockError
	if !errors.As(err, &short) {
		t.Fatalf("want InsufficientStockError, got %v", err)
	}
	if short.Code != "TEA" || short.Available != 1 {
		t.Fatalf("want (TEA, 1), got (%s, %d)", short.Code, short.Available)
	}

	snap, _ := inv.GetStock(ctx)
	if snap["TEA"].Stock != 1 {
		t.Fatalf("rejected commit mutated stock: %d", snap["TEA"].Stock)
	}
}

func TestCheckout_PriceRecomputedFromFreshSnapshot(t *testing.T) {
	db := memdbAll(t)
	svc, inv := newCheckout(t, db)
	seed(t, inv, "TEA", 5, 50)
	ctx := context.Background()

	d, err := svc.SubmitDraft(ctx, "sid-1", buyer, map[string]int{"TEA": 2})
	if err != nil {
		t.Fatal(err)
	}
	if d.Total != 2*50+65 {
		t.Fatalf("draft total: %d", d.Total)
	}

	// price changed between draft and confirm; the server total wins
	seed(t, inv, "TEA", 5, 80)

	orderID, err := svc.Confirm(ctx, "sid-1", d.Token, "confirm")
	if err != nil {
		t.Fatal(err)
	}
	o, err := svc.QueryOrder(ctx, orderID)
	if err != nil {
		t.Fatal(err)
	}
	if o.Total != 2*80+65 {
		t.Fatalf("want recomputed total %d, got %d", 2*80+65, o.Total)
	}
}

func TestCheckout_NewDraftSupersedesOld(t *testing.T) {
	db := memdbAll(t)
	svc, inv := newCheckout(t, db)
	seed(t, inv, "TEA", 5, 50)
	ctx := context.Background()

	d1, err := svc.SubmitDraft(ctx, "sid-1", buyer, map[string]int{"TEA": 1})
	if err != nil {
		t.Fatal(err)
	}
	d2, err := svc.SubmitDraft(ctx, "sid-1", buyer, map[string]int{"TEA": 2})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Confirm(ctx, "sid-1", d1.Token, "confirm"); !errors.Is(err, domain.ErrDuplicateSubmission) {
		t.Fatalf("superseded token should be dead, got %v", err)
	}
	if _, err := svc.Confirm(ctx, "sid-1", d2.Token, "confirm"); err != nil {
		t.Fatalf("live token rejected: %v", err)
	}
}
