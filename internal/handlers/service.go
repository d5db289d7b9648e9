package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pawnest/pawnest-backend/internal/models"
	"github.com/pawnest/pawnest-backend/internal/storage"
)

// ServiceHandler handles the service catalog
type ServiceHandler struct {
	store storage.Store
}

// NewServiceHandler creates a new service catalog handler
func NewServiceHandler(store storage.Store) *ServiceHandler {
	return &ServiceHandler{store: store}
}

// ListServices returns the active catalog entries
func (h *ServiceHandler) ListServices(c *fiber.Ctx) error {
	services, err := h.store.GetActiveServices()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve services",
		})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"services": services,
	})
}

// CreateService adds a catalog entry
func (h *ServiceHandler) CreateService(c *fiber.Ctx) error {
	var req struct {
		Name            string  `json:"name"`
		Price           float64 `json:"price"`
		DurationMinutes int     `json:"durationMinutes"`
		Category        string  `json:"category"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name == "" || req.Price <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Service name and a positive price are required",
		})
	}

	svc, err := h.store.CreateService(&models.Service{
		Name:            req.Name,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		Category:        req.Category,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create service",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"service": svc,
	})
}

// UpdateService edits a catalog entry, including deactivation
func (h *ServiceHandler) UpdateService(c *fiber.Ctx) error {
	svc, err := h.store.GetService(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Service not found",
		})
	}

	var req struct {
		Name            string   `json:"name"`
		Price           *float64 `json:"price"`
		DurationMinutes *int     `json:"durationMinutes"`
		Category        string   `json:"category"`
		IsActive        *bool    `json:"isActive"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name != "" {
		svc.Name = req.Name
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.DurationMinutes != nil {
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.Category != "" {
		svc.Category = req.Category
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}

	if err := h.store.UpdateService(svc); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update service",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"service": svc,
	})
}
