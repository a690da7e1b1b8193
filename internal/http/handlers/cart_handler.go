package handlers

import (
	"github.com/gofiber/fiber/v2"

	"fieldbasket/internal/domain"
	applog "fieldbasket/internal/log"
	"fieldbasket/internal/services"
	"fieldbasket/internal/validate"
)

type CartHandler struct {
	Rec *services.ReconcileService
}

type reconcileRequest struct {
	Cart domain.Cart `json:"cart"`
}

type reconcileResponse struct {
	Cart        domain.Cart         `json:"cart"`
	Adjustments []domain.Adjustment `json:"adjustments"`
}

// Reconcile re-validates a client-held cart against current stock and
// returns the clamped cart plus the adjustments made. The cart stays
// client-owned: nothing is persisted here.
func (h *CartHandler) Reconcile(c *fiber.Ctx) error {
	var req reconcileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid_body", "request body must be JSON with a cart object")
	}
	for code, line := range req.Cart {
		if _, ok := validate.Code(code); !ok {
			return badRequest(c, "invalid_code", "invalid product code: "+code)
		}
		if line.Qty < 0 {
			return badRequest(c, "invalid_quantity", "quantity must not be negative: "+code)
		}
	}

	reconciled, events, err := h.Rec.Reconcile(c.Context(), req.Cart)
	if err != nil {
		applog.Error(c, "cart.reconcile.fail", err, nil)
		return respondErr(c, err)
	}
	if len(events) > 0 {
		applog.Info(c, "cart.reconcile.adjusted", map[string]any{"adjustments": len(events)})
	}
	if reconciled == nil {
		reconciled = domain.Cart{}
	}
	return c.JSON(reconcileResponse{Cart: reconciled, Adjustments: events})
}
