package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"fieldbasket/internal/domain"
	applog "fieldbasket/internal/log"
	"fieldbasket/internal/services"
	"fieldbasket/internal/validate"
)

type OrderHandler struct {
	Checkout *services.CheckoutService
}

func (h *OrderHandler) ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable true behind TLS
		})
	}
	return sid
}

type draftRequest struct {
	domain.Buyer
	Items map[string]int `json:"items"`
}

type draftResponse struct {
	Token   string         `json:"token"`
	Summary string         `json:"summary"`
	Total   int            `json:"total"`
	Items   map[string]int `json:"items"`
}

// Draft validates buyer details, prices the ordered items server-side
// and issues the single-use commitment token for this session.
func (h *OrderHandler) Draft(c *fiber.Ctx) error {
	sid := h.ensureSID(c)

	var req draftRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid_body", "request body must be JSON")
	}

	buyer, msg, ok := validBuyer(req.Buyer)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"detail": msg})
		return badRequest(c, "invalid_field", msg)
	}

	d, err := h.Checkout.SubmitDraft(c.Context(), sid, buyer, req.Items)
	if err != nil {
		applog.Info(c, "order.draft.reject", map[string]any{"error": err.Error()})
		return respondErr(c, err)
	}

	applog.Audit(c, "order.draft", map[string]any{"total": d.Total, "items": len(d.Items)})
	return c.JSON(draftResponse{Token: d.Token, Summary: d.Summary, Total: d.Total, Items: d.Items})
}

type confirmRequest struct {
	Token  string `json:"token"`
	Action string `json:"action"`
}

// Confirm spends the commitment token. Action "confirm" commits the
// draft into an order; "cancel" discards it. Either way the token is
// gone and a replay gets the duplicate-submission response.
func (h *OrderHandler) Confirm(c *fiber.Ctx) error {
	sid := h.ensureSID(c)

	var req confirmRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid_body", "request body must be JSON")
	}
	if req.Token == "" {
		return badRequest(c, "invalid_field", "token is required")
	}
	if req.Action != "confirm" && req.Action != "cancel" {
		return badRequest(c, "invalid_field", `action must be "confirm" or "cancel"`)
	}

	orderID, err := h.Checkout.Confirm(c.Context(), sid, req.Token, req.Action)
	if err != nil {
		applog.Info(c, "order.confirm.reject", map[string]any{"action": req.Action, "error": err.Error()})
		return respondErr(c, err)
	}

	if req.Action == "cancel" {
		applog.Audit(c, "order.cancel", nil)
		return c.JSON(fiber.Map{"canceled": true})
	}
	applog.Audit(c, "order.commit", map[string]any{"order_id": orderID})
	return c.JSON(fiber.Map{"orderId": orderID})
}

// Query returns a committed order by its public id.
func (h *OrderHandler) Query(c *fiber.Ctx) error {
	id, ok := validate.OrderID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "not_found", "message": "no order with that id",
		})
	}
	o, err := h.Checkout.QueryOrder(c.Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(o)
}

func validBuyer(b domain.Buyer) (domain.Buyer, string, bool) {
	var ok bool
	if b.Name, ok = validate.Name(b.Name); !ok {
		return b, "name must be 1-40 characters", false
	}
	if b.Phone, ok = validate.Phone(b.Phone); !ok {
		return b, "enter a valid phone number", false
	}
	if b.Email, ok = validate.Email(b.Email); !ok {
		return b, "enter a valid email address", false
	}
	if b.Address, ok = validate.Address(b.Address); !ok {
		return b, "address must be 1-120 characters", false
	}
	if b.AccountLast5, ok = validate.Last5(b.AccountLast5); !ok {
		return b, "account digits must be exactly 5 numbers", false
	}
	b.Facebook = validate.Optional(b.Facebook, 60)
	b.Remark = validate.Optional(b.Remark, 200)
	return b, "", true
}
