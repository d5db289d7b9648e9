package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/pawnest/pawnest-backend/internal/middleware"
	"github.com/pawnest/pawnest-backend/internal/storage"
)

// ProfileHandler manages the authenticated user's profile
type ProfileHandler struct {
	store storage.Store
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(store storage.Store) *ProfileHandler {
	return &ProfileHandler{store: store}
}

// GetProfile returns the authenticated user's profile
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	user, err := h.store.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load profile",
		})
	}

	data := fiber.Map{
		"id":          user.UserID,
		"phone":       user.Phone,
		"name":        user.Name,
		"email":       user.Email,
		"address":     user.Address,
		"userType":    user.UserType,
		"isOnboarded": user.IsOnboarded,
	}

	// Sitter accounts carry their profile extension
	if user.IsSitter() {
		if sitter, err := h.store.GetSitterByUserID(user.UserID); err == nil {
			data["sitter"] = fiber.Map{
				"id":              sitter.SitterID,
				"rating":          sitter.Rating,
				"experienceYears": sitter.ExperienceYears,
				"bio":             sitter.Bio,
				"totalServices":   sitter.TotalServices,
				"available":       sitter.Available,
			}
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// UpdateProfile updates the authenticated user's profile fields and
// marks the account onboarded once a name is on file
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Address string `json:"address"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, err := h.store.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load profile",
		})
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Address != "" {
		user.Address = req.Address
	}
	if user.Name != "" {
		user.IsOnboarded = true
	}

	if err := h.store.UpdateUser(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update profile",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":          user.UserID,
			"name":        user.Name,
			"email":       user.Email,
			"address":     user.Address,
			"isOnboarded": user.IsOnboarded,
		},
	})
}
