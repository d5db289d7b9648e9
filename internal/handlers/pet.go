package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/pawnest/pawnest-backend/internal/middleware"
	"github.com/pawnest/pawnest-backend/internal/models"
	"github.com/pawnest/pawnest-backend/internal/storage"
)

// PetHandler handles pet CRUD for the authenticated owner
type PetHandler struct {
	store storage.Store
}

// NewPetHandler creates a new pet handler
func NewPetHandler(store storage.Store) *PetHandler {
	return &PetHandler{store: store}
}

// CreatePet registers a pet under the authenticated owner
func (h *PetHandler) CreatePet(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req struct {
		Name                string  `json:"name"`
		Type                string  `json:"type"`
		Breed               string  `json:"breed"`
		Age                 int     `json:"age"`
		Weight              float64 `json:"weight"`
		SpecialInstructions string  `json:"specialInstructions"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name == "" || req.Type == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Pet name and type are required",
		})
	}

	pet, err := h.store.CreatePet(&models.Pet{
		OwnerID:             userID,
		Name:                req.Name,
		Type:                req.Type,
		Breed:               req.Breed,
		Age:                 req.Age,
		Weight:              req.Weight,
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create pet",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"pet":     pet,
	})
}

// ListPets returns the authenticated owner's pets
func (h *PetHandler) ListPets(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	pets, err := h.store.GetPetsByOwner(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve pets",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"pets":    pets,
	})
}

// GetPet retrieves one pet by ID
func (h *PetHandler) GetPet(c *fiber.Ctx) error {
	petID := c.Params("id")
	if petID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Pet ID is required",
		})
	}

	pet, err := h.store.GetPet(petID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Pet not found",
		})
	}

	return c.JSON(pet)
}

// UpdatePet updates a pet owned by the authenticated user
func (h *PetHandler) UpdatePet(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	pet, err := h.store.GetPet(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Pet not found",
		})
	}
	if pet.OwnerID != userID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Pet not found",
		})
	}

	var req struct {
		Name                string  `json:"name"`
		Breed               string  `json:"breed"`
		Age                 int     `json:"age"`
		Weight              float64 `json:"weight"`
		SpecialInstructions string  `json:"specialInstructions"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name != "" {
		pet.Name = req.Name
	}
	if req.Breed != "" {
		pet.Breed = req.Breed
	}
	if req.Age != 0 {
		pet.Age = req.Age
	}
	if req.Weight != 0 {
		pet.Weight = req.Weight
	}
	if req.SpecialInstructions != "" {
		pet.SpecialInstructions = req.SpecialInstructions
	}

	if err := h.store.UpdatePet(pet); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update pet",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"pet":     pet,
	})
}

// DeletePet removes a pet owned by the authenticated user
func (h *PetHandler) DeletePet(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	pet, err := h.store.GetPet(c.Params("id"))
	if err != nil || pet.OwnerID != userID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Pet not found",
		})
	}

	if err := h.store.DeletePet(pet.PetID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Pet not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete pet",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}
