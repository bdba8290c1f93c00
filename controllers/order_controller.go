package controllers

import (
	"errors"

	"restaurant-pos/models"
	"restaurant-pos/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// OrderController handles HTTP requests related to orders.
type OrderController struct {
	orderService services.IOrderService
}

// NewOrderController creates a new OrderController instance.
func NewOrderController(svc services.IOrderService) *OrderController {
	return &OrderController{orderService: svc}
}

// statusForError maps a domain error kind to an HTTP status code.
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrBranchNotFound),
		errors.Is(err, models.ErrTableNotFound),
		errors.Is(err, models.ErrMenuItemNotFound),
		errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrTicketNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrTableNotAvailable),
		errors.Is(err, models.ErrOrderFinalized):
		return fiber.StatusConflict
	case errors.Is(err, models.ErrInvalidInput):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// CreateOrder handles the POST /orders endpoint.
func (c *OrderController) CreateOrder(ctx *fiber.Ctx) error {
	var request struct {
		BranchID string  `json:"branch_id"`
		TableID  *string `json:"table_id"`
		Type     string  `json:"type"`
	}
	if err := ctx.BodyParser(&request); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body format"})
	}
	if request.BranchID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "branch_id is required"})
	}
	orderType, ok := models.ParseOrderType(request.Type)
	if !ok {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "type must be one of: dine-in, takeout, delivery"})
	}

	order, err := c.orderService.OpenOrder(request.BranchID, request.TableID, orderType)
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(order)
}

// AddItem handles the POST /orders/:id/items endpoint.
func (c *OrderController) AddItem(ctx *fiber.Ctx) error {
	var request struct {
		MenuItemID    string           `json:"menu_item_id"`
		Qty           *int             `json:"qty"`
		PriceOverride *decimal.Decimal `json:"price_override"`
		Notes         string           `json:"notes"`
	}
	if err := ctx.BodyParser(&request); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body format"})
	}
	if request.MenuItemID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "menu_item_id is required"})
	}
	qty := 1
	if request.Qty != nil {
		qty = *request.Qty
	}

	item, err := c.orderService.AddItem(ctx.Params("id"), request.MenuItemID, qty, request.PriceOverride, request.Notes)
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(item)
}

// TakePayment handles the POST /orders/:id/payments endpoint.
func (c *OrderController) TakePayment(ctx *fiber.Ctx) error {
	var request struct {
		Method   string           `json:"method"`
		Amount   decimal.Decimal  `json:"amount"`
		TaxLines []models.TaxLine `json:"tax_lines"`
		Tip      *decimal.Decimal `json:"tip"`
		Close    bool             `json:"close"`
	}
	if err := ctx.BodyParser(&request); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body format"})
	}
	method, ok := models.ParsePaymentMethod(request.Method)
	if !ok {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "method must be one of: cash, card"})
	}

	payment, err := c.orderService.TakePayment(ctx.Params("id"), method, request.Amount, request.TaxLines, request.Tip, request.Close)
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(payment)
}

// GetOrder handles the GET /orders/:id endpoint.
func (c *OrderController) GetOrder(ctx *fiber.Ctx) error {
	order, err := c.orderService.GetOrder(ctx.Params("id"))
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(order)
}
