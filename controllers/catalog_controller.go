package controllers

import (
	"restaurant-pos/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogController handles read-only browse endpoints.
type CatalogController struct {
	catalogService services.ICatalogService
}

// NewCatalogController creates a new CatalogController instance.
func NewCatalogController(svc services.ICatalogService) *CatalogController {
	return &CatalogController{catalogService: svc}
}

// ListRestaurants handles the GET /restaurants endpoint.
func (c *CatalogController) ListRestaurants(ctx *fiber.Ctx) error {
	restaurants, err := c.catalogService.ListRestaurants()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(restaurants)
}

// ListMenuItems handles the GET /menus endpoint.
func (c *CatalogController) ListMenuItems(ctx *fiber.Ctx) error {
	items, err := c.catalogService.ListMenuItems()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(items)
}
