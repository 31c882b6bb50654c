package service

import (
	"context"

	"gramly/internal/models"
	"gramly/internal/payment"
	"gramly/internal/repository"
)

// Prime membership costs a flat 199.00 INR, expressed in paise.
const (
	primeAmountPaise = 19900
	primeCurrency    = "INR"
)

// PrimeService handles the paid-membership flow.
type PrimeService struct {
	userRepo repository.UserRepository
	gateway  payment.Client
}

// NewPrimeService returns a new PrimeService.
func NewPrimeService(userRepo repository.UserRepository, gateway payment.Client) *PrimeService {
	return &PrimeService{userRepo: userRepo, gateway: gateway}
}

// CreateOrder asks the payment gateway for a prime membership order.
// Gateway failures propagate to the caller; the user record is untouched
// until the payment is confirmed.
func (s *PrimeService) CreateOrder(ctx context.Context, userID uint) (*payment.Order, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Prime {
		return nil, models.NewValidationError("Account is already prime")
	}

	return s.gateway.CreateOrder(ctx, primeAmountPaise, primeCurrency)
}

// GatewayKeyID exposes the gateway's public key id for checkout payloads.
func (s *PrimeService) GatewayKeyID() string {
	return s.gateway.KeyID()
}

// Confirm marks the account prime after a completed payment. Confirming an
// already-prime account is a no-op.
func (s *PrimeService) Confirm(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Prime {
		return user, nil
	}

	user.Prime = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
