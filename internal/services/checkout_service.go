package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"fieldbasket/internal/domain"
	applog "fieldbasket/internal/log"
	"fieldbasket/internal/notify"
	"fieldbasket/internal/repos"
)

const orderIDLen = 5

// CheckoutService turns a reconciled cart into a durable order. It
// owns the commit protocol: consume the single-use token, re-validate
// every quantity against a fresh ledger snapshot, decrement stock
// all-or-nothing, append the order row, then notify out of band.
type CheckoutService struct {
	Inv       *repos.InventoryRepo
	Orders    *repos.OrderRepo
	Drafts    *repos.DraftRepo
	Notifiers []notify.Notifier

	ShippingFee   int
	Loc           *time.Location
	LedgerTimeout time.Duration
}

func NewCheckoutService(inv *repos.InventoryRepo, orders *repos.OrderRepo, drafts *repos.DraftRepo,
	notifiers []notify.Notifier, shippingFee int, loc *time.Location, ledgerTimeout time.Duration) *CheckoutService {
	if loc == nil {
		loc = time.UTC
	}
	if ledgerTimeout <= 0 {
		ledgerTimeout = 15 * time.Second
	}
	return &CheckoutService{
		Inv: inv, Orders: orders, Drafts: drafts, Notifiers: notifiers,
		ShippingFee: shippingFee, Loc: loc, LedgerTimeout: ledgerTimeout,
	}
}

// SubmitDraft validates the ordered items, prices them from a fresh
// snapshot and issues a new single-use token for the session. Any
// prior pending draft for the session is silently superseded. Lines
// with qty 0 are dropped; negative quantities are rejected.
func (s *CheckoutService) SubmitDraft(ctx context.Context, sessionID string, buyer domain.Buyer, items map[string]int) (domain.Draft, error) {
	ordered := make(map[string]int, len(items))
	for code, qty := range items {
		if qty < 0 {
			return domain.Draft{}, &domain.InvalidQuantityError{Code: code, Qty: qty}
		}
		if qty > 0 {
			ordered[code] = qty
		}
	}
	if len(ordered) == 0 {
		return domain.Draft{}, domain.ErrEmptyCart
	}

	snap, err := s.Inv.GetStock(ctx)
	if err != nil {
		return domain.Draft{}, ledgerErr(err)
	}
	for code := range ordered {
		if sp, ok := snap[code]; !ok || sp.Stock < 0 {
			return domain.Draft{}, fmt.Errorf("%s: %w", code, domain.ErrProductNotFound)
		}
	}

	summary, total := s.priceItems(ordered, snap)
	token, err := gonanoid.New()
	if err != nil {
		return domain.Draft{}, err
	}

	d := domain.Draft{
		Token:     token,
		SessionID: sessionID,
		Buyer:     buyer,
		Items:     ordered,
		Summary:   summary,
		Total:     total,
		CreatedAt: time.Now(),
	}
	if err := s.Drafts.Put(ctx, d); err != nil {
		return domain.Draft{}, ledgerErr(err)
	}
	return d, nil
}

// Confirm consumes the session's pending token and either commits the
// draft (action "confirm") or discards it (action "cancel"). On
// commit it returns the new order id. The token is invalidated before
// anything else happens, so a retried or concurrent request with the
// same token gets ErrDuplicateSubmission, and a draft whose commit
// fails mid-way is unrecoverable by design: the buyer starts over.
func (s *CheckoutService) Confirm(ctx context.Context, sessionID, token, action string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.LedgerTimeout)
	defer cancel()

	d, err := s.Drafts.Consume(ctx, sessionID, token)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateSubmission) {
			return "", err
		}
		return "", ledgerErr(err)
	}

	if action != "confirm" {
		// Cancel: token is spent, nothing is mutated.
		return "", nil
	}

	// Never trust the snapshot the draft was priced against; it may be
	// minutes stale by now.
	snap, err := s.Inv.GetStock(ctx)
	if err != nil {
		return "", ledgerErr(err)
	}
	for _, code := range sortedCodes(d.Items) {
		sp, ok := snap[code]
		if !ok || sp.Stock < 0 {
			return "", fmt.Errorf("%s: %w", code, domain.ErrProductNotFound)
		}
		if d.Items[code] > sp.Stock {
			return "", &domain.InsufficientStockError{Code: code, Available: sp.Stock}
		}
	}
	// Server-side totals are authoritative; a mismatch with what the
	// draft showed is not an error.
	summary, total := s.priceItems(d.Items, snap)

	if err := s.Inv.DecrementIfSufficient(ctx, d.Items); err != nil {
		var short *domain.InsufficientStockError
		if errors.As(err, &short) {
			// Raced another commit between the snapshot and the
			// decrement. A normal rejection, not a fault.
			return "", err
		}
		if errors.Is(err, domain.ErrProductNotFound) {
			return "", err
		}
		return "", ledgerErr(err)
	}

	order := domain.Order{
		Name:         d.Buyer.Name,
		Phone:        d.Buyer.Phone,
		Email:        d.Buyer.Email,
		Address:      d.Buyer.Address,
		AccountLast5: d.Buyer.AccountLast5,
		Facebook:     d.Buyer.Facebook,
		Remark:       d.Buyer.Remark,
		Summary:      summary,
		Total:        total,
		CreatedAt:    time.Now().In(s.Loc).Format("2006/01/02 15:04:05"),
	}
	if err := s.appendWithFreshID(ctx, &order); err != nil {
		return "", ledgerErr(err)
	}

	go s.dispatchNotifications(order)

	return order.ID, nil
}

// QueryOrder looks up a committed order by id.
func (s *CheckoutService) QueryOrder(ctx context.Context, id string) (domain.Order, error) {
	o, err := s.Orders.Get(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrOrderNotFound) {
		return domain.Order{}, ledgerErr(err)
	}
	return o, err
}

// appendWithFreshID generates a short random order id and retries a
// couple of times if it collides with an existing row.
func (s *CheckoutService) appendWithFreshID(ctx context.Context, o *domain.Order) error {
	for attempt := 0; attempt < 3; attempt++ {
		id, err := gonanoid.New(orderIDLen)
		if err != nil {
			return err
		}
		o.ID = id
		err = s.Orders.Append(ctx, *o)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repos.ErrIDTaken) {
			return err
		}
	}
	return fmt.Errorf("could not allocate a unique order id")
}

// dispatchNotifications runs after a successful commit with its own
// deadline and failure domain. Errors are logged, never surfaced.
func (s *CheckoutService) dispatchNotifications(o domain.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, n := range s.Notifiers {
		if err := n.Notify(ctx, o); err != nil {
			applog.Error(nil, "notify.fail", err, map[string]any{"order_id": o.ID})
		}
	}
}

// priceItems recomputes the summary text and total from snapshot
// prices, plus the flat shipping fee.
func (s *CheckoutService) priceItems(items map[string]int, snap domain.Snapshot) (string, int) {
	total := 0
	lines := make([]string, 0, len(items)+1)
	for _, code := range sortedCodes(items) {
		qty := items[code]
		unit := snap[code].Price
		sub := qty * unit
		total += sub
		lines = append(lines, fmt.Sprintf("%s: %d x %d = %d", code, qty, unit, sub))
	}
	total += s.ShippingFee
	lines = append(lines, fmt.Sprintf("Shipping: %d", s.ShippingFee))
	return strings.Join(lines, "\n"), total
}

func sortedCodes(items map[string]int) []string {
	codes := make([]string, 0, len(items))
	for code := range items {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func ledgerErr(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrLedgerUnavailable, err)
}
