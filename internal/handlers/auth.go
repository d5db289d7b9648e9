package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/pawnest/pawnest-backend/internal/config"
	"github.com/pawnest/pawnest-backend/internal/services"
	"github.com/pawnest/pawnest-backend/internal/storage"
	"github.com/pawnest/pawnest-backend/internal/utils"
)

// AuthHandler handles phone OTP login and token verification
type AuthHandler struct {
	store      storage.Store
	cfg        *config.Config
	otpService *services.OTPService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(store storage.Store, cfg *config.Config, otpService *services.OTPService) *AuthHandler {
	return &AuthHandler{
		store:      store,
		cfg:        cfg,
		otpService: otpService,
	}
}

// RequestOTP issues a login OTP to the given phone number
func (h *AuthHandler) RequestOTP(c *fiber.Ctx) error {
	var req struct {
		Phone    string `json:"phone"`
		UserType string `json:"userType"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Phone number is required",
		})
	}

	otp, err := h.otpService.IssueLoginOTP(req.Phone, req.UserType)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPhone) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid phone number",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to send OTP",
		})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"userId":    otp.UserID,
		"expiresAt": otp.ExpiresAt,
		"otp":       otp.Code,
	})
}

// VerifyOTP consumes a login OTP and returns a bearer token, creating
// the account on first verified claim of the phone
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req struct {
		Phone string `json:"phone"`
		OTP   string `json:"otp"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Phone == "" || req.OTP == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Phone and OTP are required",
		})
	}

	user, err := h.otpService.VerifyLoginOTP(req.Phone, req.OTP)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidOTP) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid or expired OTP",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to verify OTP",
		})
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.UserID, user.UserType, h.cfg.TokenExpires)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user": fiber.Map{
			"id":          user.UserID,
			"phone":       user.Phone,
			"name":        user.Name,
			"userType":    user.UserType,
			"isOnboarded": user.IsOnboarded,
		},
	})
}

// VerifyToken checks a bearer token without touching any other state
func (h *AuthHandler) VerifyToken(c *fiber.Ctx) error {
	var req struct {
		Token string `json:"token"`
	}

	if err := c.BodyParser(&req); err != nil || req.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"valid": false,
			"error": "Token is required",
		})
	}

	userID, err := utils.ParseToken(h.cfg.JWTSecret, req.Token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"valid": false,
		})
	}

	return c.JSON(fiber.Map{
		"valid":  true,
		"userId": userID,
	})
}
