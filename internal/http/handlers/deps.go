package handlers

import (
	"time"

	"github.com/jmoiron/sqlx"

	"fieldbasket/internal/config"
	"fieldbasket/internal/notify"
	"fieldbasket/internal/repos"
	"fieldbasket/internal/services"
)

type Deps struct {
	InventoryHandler *InventoryHandler
	CartHandler      *CartHandler
	OrderHandler     *OrderHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	invRepo := repos.NewInventoryRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	draftRepo := repos.NewDraftRepo(db)

	var notifiers []notify.Notifier
	if cfg.DiscordWebhookURL != "" {
		notifiers = append(notifiers, notify.NewWebhookNotifier(cfg.DiscordWebhookURL))
	}
	if cfg.SMTPHost != "" {
		notifiers = append(notifiers, &notify.MailNotifier{
			Host: cfg.SMTPHost, Port: cfg.SMTPPort,
			User: cfg.SMTPUser, Pass: cfg.SMTPPass,
			From: cfg.MailFrom, LookupBase: cfg.OrderLookupBase,
		})
	}

	loc, err := time.LoadLocation(cfg.OrderTZ)
	if err != nil {
		loc = time.UTC
	}

	recSvc := services.NewReconcileService(invRepo)
	checkoutSvc := services.NewCheckoutService(invRepo, orderRepo, draftRepo,
		notifiers, cfg.ShippingFee, loc, cfg.LedgerTimeout)

	return &Deps{
		InventoryHandler: &InventoryHandler{Rec: recSvc},
		CartHandler:      &CartHandler{Rec: recSvc},
		OrderHandler:     &OrderHandler{Checkout: checkoutSvc},
	}
}
