package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pawnest/pawnest-backend/internal/middleware"
	"github.com/pawnest/pawnest-backend/internal/storage"
)

// SitterHandler handles the public sitter directory and sitter
// profile updates
type SitterHandler struct {
	store storage.Store
}

// NewSitterHandler creates a new sitter handler
func NewSitterHandler(store storage.Store) *SitterHandler {
	return &SitterHandler{store: store}
}

// ListSitters returns all sitters, best rated first
func (h *SitterHandler) ListSitters(c *fiber.Ctx) error {
	sitters, err := h.store.GetAllSitters()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve sitters",
		})
	}

	views := make([]fiber.Map, 0, len(sitters))
	for _, sitter := range sitters {
		view := fiber.Map{
			"id":              sitter.SitterID,
			"rating":          sitter.Rating,
			"experienceYears": sitter.ExperienceYears,
			"bio":             sitter.Bio,
			"totalServices":   sitter.TotalServices,
			"available":       sitter.Available,
			"name":            "PawNest sitter",
		}
		if user, err := h.store.GetUserByID(sitter.UserID); err == nil {
			view["name"] = user.Name
		}
		views = append(views, view)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"sitters": views,
	})
}

// GetSitter retrieves one sitter by ID
func (h *SitterHandler) GetSitter(c *fiber.Ctx) error {
	sitterID := c.Params("id")
	if sitterID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Sitter ID is required",
		})
	}

	sitter, err := h.store.GetSitter(sitterID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Sitter not found",
		})
	}

	return c.JSON(sitter)
}

// UpdateSitterProfile updates the authenticated sitter's extension
func (h *SitterHandler) UpdateSitterProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	sitter, err := h.store.GetSitterByUserID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Sitter profile not found",
		})
	}

	var req struct {
		Bio             string `json:"bio"`
		ExperienceYears int    `json:"experienceYears"`
		Available       *bool  `json:"available"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Bio != "" {
		sitter.Bio = req.Bio
	}
	if req.ExperienceYears != 0 {
		sitter.ExperienceYears = req.ExperienceYears
	}
	if req.Available != nil {
		sitter.Available = *req.Available
	}

	if err := h.store.UpdateSitter(sitter); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update sitter profile",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"sitter":  sitter,
	})
}
