package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roddesu/updatedsafespace/internal/logger"
	"github.com/roddesu/updatedsafespace/internal/repository"
	"github.com/roddesu/updatedsafespace/internal/utils"

	"go.uber.org/zap"
)

var (
	ErrResetTokenInvalid = errors.New("invalid or expired token")
	ErrPasswordTooShort  = errors.New("password too short")
)

// ResetTokenRepo owns the reset_tokens rows; Consume is atomic single-use.
type ResetTokenRepo interface {
	Create(ctx context.Context, email, tokenHash string, expiresAt time.Time) error
	Consume(ctx context.Context, tokenHash string) (string, error)
}

type PasswordResetService struct {
	tokens   ResetTokenRepo
	accounts AccountRepo
	mailer   Mailer
	appURL   string // link base: APP_URL/reset/<token>
	tokenTTL time.Duration

	now func() time.Time
}

func NewPasswordResetService(tokens ResetTokenRepo, accounts AccountRepo, mailer Mailer, appURL string, tokenTTL time.Duration) *PasswordResetService {
	if tokenTTL <= 0 {
		tokenTTL = 30 * time.Minute
	}
	return &PasswordResetService{
		tokens:   tokens,
		accounts: accounts,
		mailer:   mailer,
		appURL:   strings.TrimRight(appURL, "/"),
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// hashToken: only the sha256 of the token is persisted, never the token itself.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// RequestReset issues a single-use token and mails a reset link. It returns
// nil for unknown emails and delivery failures alike, so the response never
// reveals whether an address is registered. Outstanding tokens for the same
// email stay valid until they expire or get consumed.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	logger.Log.Info("Password reset requested (service)", zap.String("email", email))

	if _, err := s.accounts.GetByEmail(ctx, email); err != nil {
		logger.Log.Warn("Reset requested for unknown email (service)", zap.String("email", email), zap.Error(err))
		return nil
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		logger.Log.Error("Failed to generate reset token (service)", zap.Error(err))
		return nil
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	expiresAt := s.now().Add(s.tokenTTL)
	if err := s.tokens.Create(ctx, email, hashToken(token), expiresAt); err != nil {
		logger.Log.Error("Failed to store reset token (service)", zap.String("email", email), zap.Error(err))
		return nil
	}

	resetLink := fmt.Sprintf("%s/reset/%s", s.appURL, token)
	body := fmt.Sprintf("Open the link to choose a new password: %s\r\n\r\nThe link expires in %d minutes.", resetLink, int(s.tokenTTL.Minutes()))
	if err := s.mailer.Send([]string{email}, "Reset your SafeSpace password", body); err != nil {
		// Logged but not surfaced: a distinguishable failure here would let
		// a caller probe which emails exist.
		logger.Log.Error("Failed to deliver reset email (service)", zap.String("email", email), zap.Error(err))
	}

	logger.Log.Info("Reset link queued (service)", zap.String("email", email), zap.Time("expires_at", expiresAt))
	return nil
}

// ResetPassword consumes the token and sets the new password. A consumed,
// expired or unknown token always reports ErrResetTokenInvalid.
func (s *PasswordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	logger.Log.Info("Password reset attempt (service)")

	if len(newPassword) < 8 {
		logger.Log.Warn("New password too short (service)")
		return ErrPasswordTooShort
	}

	email, err := s.tokens.Consume(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrResetTokenSpent) {
			logger.Log.Warn("Invalid or spent reset token (service)")
			return ErrResetTokenInvalid
		}
		logger.Log.Error("Failed to consume reset token (service)", zap.Error(err))
		return err
	}

	newHash, err := utils.HashPassword(newPassword)
	if err != nil {
		logger.Log.Error("Failed to hash new password (service)", zap.Error(err))
		return err
	}

	if err := s.accounts.UpdatePassword(ctx, email, newHash); err != nil {
		logger.Log.Error("Failed to update password (service)", zap.String("email", email), zap.Error(err))
		return err
	}

	logger.Log.Info("Password reset completed (service)", zap.String("email", email))
	return nil
}
