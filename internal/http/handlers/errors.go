package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"fieldbasket/internal/domain"
)

// respondErr maps every domain error to a distinct, specific response
// so the buyer knows whether to edit quantities, wait and retry, or
// treat the order as already placed. No generic "error occurred".
func respondErr(c *fiber.Ctx, err error) error {
	var short *domain.InsufficientStockError
	var badQty *domain.InvalidQuantityError
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return badRequest(c, "empty_cart", "your basket is empty; add at least one item with quantity above zero")
	case errors.As(err, &badQty):
		return badRequest(c, "invalid_quantity", badQty.Error())
	case errors.Is(err, domain.ErrProductNotFound):
		return badRequest(c, "product_not_found", err.Error())
	case errors.Is(err, domain.ErrDuplicateSubmission):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   "duplicate_submission",
			"message": "this order was already submitted; do not submit it again",
		})
	case errors.As(err, &short):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":     "insufficient_stock",
			"message":   "someone beat you to it; adjust your basket and try again",
			"code":      short.Code,
			"available": short.Available,
		})
	case errors.Is(err, domain.ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "not_found", "message": "no order with that id",
		})
	case errors.Is(err, domain.ErrLedgerUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":   "ledger_unavailable",
			"message": "the stock ledger is not responding; wait a moment and start over",
		})
	default:
		return fiber.ErrInternalServerError
	}
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": code, "message": msg})
}
