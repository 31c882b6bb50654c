package server

import (
	"time"

	"gramly/internal/models"
	"gramly/internal/service"
	"gramly/internal/session"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /api/auth/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Firstname       string `json:"firstname"`
		Lastname        string `json:"lastname"`
		Username        string `json:"username"`
		Email           string `json:"email"`
		Mobile          string `json:"mobile"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
		Gender          string `json:"gender"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.identity.Register(c.Context(), service.RegisterInput{
		Firstname:       req.Firstname,
		Lastname:        req.Lastname,
		Username:        req.Username,
		Email:           req.Email,
		Mobile:          req.Mobile,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Gender:          req.Gender,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user_id": user.ID,
		"message": "Verification code sent",
	})
}

// Verify handles POST /api/auth/verify
func (s *Server) Verify(c *fiber.Ctx) error {
	var req struct {
		UserID uint `json:"user_id"`
		Code   int  `json:"code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.identity.VerifyCode(c.Context(), req.UserID, req.Code)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"user": user})
}

// Resend handles POST /api/auth/resend
func (s *Server) Resend(c *fiber.Ctx) error {
	var req struct {
		UserID uint `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.identity.ResendCode(c.Context(), req.UserID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Verification code sent"})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, sessionID, err := s.identity.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.setSessionCookie(c, sessionID)
	return c.JSON(fiber.Map{"user": user})
}

// Logout handles POST /api/auth/logout. Always succeeds, with or without a
// live session.
func (s *Server) Logout(c *fiber.Ctx) error {
	sessionID := c.Cookies(session.CookieName)
	if err := s.identity.Logout(c.Context(), sessionID); err != nil {
		return respondServiceError(c, err)
	}

	s.clearSessionCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) setSessionCookie(c *fiber.Ctx, sessionID string) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		Path:     "/",
		Expires:  time.Now().Add(time.Duration(s.config.SessionTTLHours) * time.Hour),
		HTTPOnly: true,
		Secure:   s.config.Env == "production" || s.config.Env == "prod",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
}
