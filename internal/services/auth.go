package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roddesu/updatedsafespace/internal/logger"
	"github.com/roddesu/updatedsafespace/internal/models"
	"github.com/roddesu/updatedsafespace/internal/utils"

	"go.uber.org/zap"
)

var (
	ErrInvalidEmail    = errors.New("invalid institutional email")
	ErrInvalidPassword = errors.New("invalid password")
	ErrOTPExpired      = errors.New("otp expired")
	ErrOTPMismatch     = errors.New("otp mismatch")
	ErrNoActiveOTP     = errors.New("no active otp")
	ErrDeliveryFailed  = errors.New("email delivery failed")
)

// AccountRepo is the credential store contract the service orchestrates.
type AccountRepo interface {
	UpsertPending(ctx context.Context, email, passwordHash, otp string, otpExpiresAt time.Time) error
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	MarkVerified(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, email, newHash string) error
}

// Mailer is the delivery contract; failures surface to the caller unretried.
type Mailer interface {
	Send(to []string, subject, body string) error
}

type AccountService struct {
	repo   AccountRepo
	mailer Mailer
	otpTTL time.Duration

	now func() time.Time
}

func NewAccountService(repo AccountRepo, mailer Mailer, otpTTL time.Duration) *AccountService {
	if otpTTL <= 0 {
		otpTTL = DefaultOTPTTL
	}
	return &AccountService{
		repo:   repo,
		mailer: mailer,
		otpTTL: otpTTL,
		now:    time.Now,
	}
}

// Register hashes the password, issues a fresh OTP and upserts the pending
// account, then mails the code. Registering again before verification
// overwrites the previous OTP and its expiry. When delivery fails after the
// write, the row keeps a code the user never received; re-registering issues
// a fresh one, so nothing is rolled back here.
func (s *AccountService) Register(ctx context.Context, email, password string) error {
	logger.Log.Info("Registering account (service)", zap.String("email", email))

	if !utils.IsInstitutionalEmail(email) {
		logger.Log.Warn("Rejected non-institutional email (service)", zap.String("email", email))
		return ErrInvalidEmail
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		logger.Log.Error("Failed to hash password (service)", zap.Error(err))
		return err
	}

	code, err := GenerateOTP()
	if err != nil {
		logger.Log.Error("Failed to generate OTP (service)", zap.Error(err))
		return err
	}
	expiresAt := OTPExpiryFrom(s.now(), s.otpTTL)

	if err := s.repo.UpsertPending(ctx, email, hash, code, expiresAt); err != nil {
		logger.Log.Error("Failed to upsert pending account (service)", zap.Error(err))
		return err
	}

	body := fmt.Sprintf("Your OTP is: %s", code)
	if err := s.mailer.Send([]string{email}, "Your OTP for Registration", body); err != nil {
		logger.Log.Error("Failed to deliver OTP email (service)", zap.String("email", email), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	logger.Log.Info("OTP issued and delivered (service)", zap.String("email", email), zap.Time("otp_expires_at", expiresAt))
	return nil
}

// VerifyOTP checks the submitted code and, only when it is valid, marks the
// account verified. Validation itself never mutates state.
func (s *AccountService) VerifyOTP(ctx context.Context, email, code string) error {
	logger.Log.Info("Verifying OTP (service)", zap.String("email", email))

	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Warn("Account not found for OTP verification (service)", zap.String("email", email), zap.Error(err))
		return err
	}

	switch ValidateOTP(code, account.OTP, account.OTPExpiresAt, s.now()) {
	case OTPValid:
		if err := s.repo.MarkVerified(ctx, email); err != nil {
			logger.Log.Error("Failed to mark account verified (service)", zap.String("email", email), zap.Error(err))
			return err
		}
		logger.Log.Info("Account verified (service)", zap.String("email", email))
		return nil
	case OTPExpired:
		logger.Log.Warn("OTP expired (service)", zap.String("email", email))
		return ErrOTPExpired
	case OTPMismatch:
		logger.Log.Warn("OTP mismatch (service)", zap.String("email", email))
		return ErrOTPMismatch
	default:
		logger.Log.Warn("No active OTP (service)", zap.String("email", email))
		return ErrNoActiveOTP
	}
}

// Login verifies the password and returns the plain identity payload. It does
// not require the account to be verified; the client decides what to do with
// is_verified.
func (s *AccountService) Login(ctx context.Context, email, password string) (*models.AccountPayload, error) {
	logger.Log.Info("Login attempt (service)", zap.String("email", email))

	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Warn("Account not found on login (service)", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	if !utils.CheckPasswordHash(password, account.PasswordHash) {
		logger.Log.Warn("Wrong password (service)", zap.String("email", email))
		return nil, ErrInvalidPassword
	}

	logger.Log.Info("Login succeeded (service)", zap.String("email", email), zap.Bool("is_verified", account.IsVerified))
	return &models.AccountPayload{
		ID:         account.ID,
		Email:      account.Email,
		IsVerified: account.IsVerified,
	}, nil
}
