package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "fieldbasket/internal/log"
	"fieldbasket/internal/services"
)

type InventoryHandler struct {
	Rec *services.ReconcileService
}

// Snapshot returns the current code -> stock map. Idempotent and
// side-effect free; the storefront polls it to drive reconciliation.
func (h *InventoryHandler) Snapshot(c *fiber.Ctx) error {
	snap, err := h.Rec.Snapshot(c.Context())
	if err != nil {
		applog.Error(c, "inventory.snapshot.fail", err, nil)
		return respondErr(c, err)
	}
	return c.JSON(snap)
}
