package controllers

import (
	"restaurant-pos/services"

	"github.com/gofiber/fiber/v2"
)

// TicketController handles HTTP requests for the kitchen display.
type TicketController struct {
	ticketService services.ITicketService
}

// NewTicketController creates a new TicketController instance.
func NewTicketController(svc services.ITicketService) *TicketController {
	return &TicketController{ticketService: svc}
}

// ListTickets handles the GET /kds/tickets endpoint.
func (c *TicketController) ListTickets(ctx *fiber.Ctx) error {
	tickets, err := c.ticketService.ListActiveTickets()
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(tickets)
}

// StartTicket handles the POST /kds/tickets/:id/start endpoint.
func (c *TicketController) StartTicket(ctx *fiber.Ctx) error {
	order, err := c.ticketService.StartTicket(ctx.Params("id"))
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(order)
}

// ServeTicket handles the POST /kds/tickets/:id/serve endpoint.
func (c *TicketController) ServeTicket(ctx *fiber.Ctx) error {
	order, err := c.ticketService.ServeTicket(ctx.Params("id"))
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(order)
}
