package server

import (
	"github.com/gofiber/fiber/v2"
)

// CreatePrimeOrder handles POST /api/prime/order. Gateway failures surface
// to the caller as 502; nothing about the account changes until Confirm.
func (s *Server) CreatePrimeOrder(c *fiber.Ctx) error {
	order, err := s.prime.CreateOrder(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order_id": order.ID,
		"amount":   order.Amount,
		"currency": order.Currency,
		"key_id":   s.prime.GatewayKeyID(),
	})
}

// ConfirmPrime handles POST /api/prime/confirm
func (s *Server) ConfirmPrime(c *fiber.Ctx) error {
	user, err := s.prime.Confirm(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}
