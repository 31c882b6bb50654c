// Package service contains the application's business logic.
package service

import (
	"context"

	"gramly/internal/mailer"
	"gramly/internal/middleware"
	"gramly/internal/models"
	"gramly/internal/otp"
	"gramly/internal/repository"
	"gramly/internal/session"
	"gramly/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// IdentityService handles registration, verification and sign-in.
type IdentityService struct {
	userRepo repository.UserRepository
	sessions *session.Store
	issuer   *otp.Issuer
	mail     mailer.Sender
}

// NewIdentityService returns a new IdentityService.
func NewIdentityService(userRepo repository.UserRepository, sessions *session.Store, issuer *otp.Issuer, mail mailer.Sender) *IdentityService {
	return &IdentityService{
		userRepo: userRepo,
		sessions: sessions,
		issuer:   issuer,
		mail:     mail,
	}
}

// RegisterInput carries a registration request.
type RegisterInput struct {
	Firstname       string
	Lastname        string
	Username        string
	Email           string
	Mobile          string
	Password        string
	ConfirmPassword string
	Gender          string
}

// Register creates an unverified account and emails it a verification code.
// All availability and format problems are reported together in one pass so
// the caller can fix the whole form at once.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	verrs := &models.ValidationErrors{}

	if in.Password != in.ConfirmPassword {
		verrs.Add("password", "Passwords do not match")
	} else if err := validation.ValidatePassword(in.Password); err != nil {
		verrs.Add("password", err.Error())
	}

	if err := validation.ValidateEmail(in.Email); err != nil {
		verrs.Add("email", err.Error())
	} else {
		taken, err := s.userRepo.ExistsByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			verrs.Add("email", "Email is already registered")
		}
	}

	if err := validation.ValidateMobile(in.Mobile); err != nil {
		verrs.Add("mobile", err.Error())
	} else {
		taken, err := s.userRepo.ExistsByMobile(ctx, in.Mobile)
		if err != nil {
			return nil, err
		}
		if taken {
			verrs.Add("mobile", "Mobile number is already registered")
		}
	}

	if err := validation.ValidateUsername(in.Username); err != nil {
		verrs.Add("username", err.Error())
	} else {
		taken, err := s.userRepo.ExistsByUsername(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			verrs.Add("username", "Username is already taken")
		}
	}

	if verrs.HasErrors() {
		return nil, verrs
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Firstname: in.Firstname,
		Lastname:  in.Lastname,
		Username:  in.Username,
		Email:     in.Email,
		Mobile:    in.Mobile,
		Password:  string(hashed),
		Gender:    in.Gender,
		OTP:       s.issuer.Issue(),
		Verified:  false,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.sendCode(ctx, user)

	return user, nil
}

// VerifyCode confirms an account with the emailed code. The code is single
// use: a successful match clears it.
func (s *IdentityService) VerifyCode(ctx context.Context, userID uint, code int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Verified {
		return user, nil
	}
	if user.OTP == 0 || code != user.OTP {
		return nil, models.NewValidationError("Invalid verification code")
	}

	user.Verified = true
	user.OTP = 0
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ResendCode issues a fresh code for an unverified account, replacing any
// previous one.
func (s *IdentityService) ResendCode(ctx context.Context, userID uint) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Verified {
		return models.NewValidationError("Account is already verified")
	}

	user.OTP = s.issuer.Issue()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.sendCode(ctx, user)
	return nil
}

// Login authenticates by username and password and opens a session. An
// unverified account gets a fresh code and a verification-required error
// instead of a session; whether the username exists or the password is
// wrong is never distinguishable from the outside.
func (s *IdentityService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", models.NewUnauthorizedError("Invalid credentials")
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); cmpErr != nil {
		return nil, "", models.NewUnauthorizedError("Invalid credentials")
	}

	if !user.Verified {
		user.OTP = s.issuer.Issue()
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, "", err
		}
		s.sendCode(ctx, user)
		return nil, "", models.NewVerificationRequiredError(user.ID)
	}

	sessionID, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}
	return user, sessionID, nil
}

// Logout tears down the session. Unknown or already-removed sessions
// succeed silently.
func (s *IdentityService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Remove(ctx, sessionID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// sendCode delivers the verification code without blocking the caller.
// Delivery failures are logged by the sender and never surface here.
func (s *IdentityService) sendCode(ctx context.Context, user *models.User) {
	to := user.Email
	code := user.OTP
	name := user.Firstname

	// The goroutine outlives the request, and fasthttp recycles the request
	// context once the handler returns. Copy the log fields onto a fresh
	// context instead of holding a reference to the pooled one.
	mailCtx := context.Background()
	if rid, ok := ctx.Value(middleware.RequestIDKey).(string); ok {
		mailCtx = context.WithValue(mailCtx, middleware.RequestIDKey, rid)
	}
	if uid, ok := ctx.Value(middleware.UserIDKey).(uint); ok {
		mailCtx = context.WithValue(mailCtx, middleware.UserIDKey, uid)
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				middleware.Logger.Error("mail sender panicked", "panic", r)
			}
		}()
		s.mail.SendCode(mailCtx, to, code, name)
	}()
}
