package repository

import (
	"context"
	"errors"
	"time"

	"github.com/roddesu/updatedsafespace/internal/logger"
	"github.com/roddesu/updatedsafespace/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrAccountNotFound is returned when no row exists for the given email.
var ErrAccountNotFound = errors.New("account not found")

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

// UpsertPending creates the pending row or, when the email already exists,
// overwrites password_hash/otp/otp_expires_at in one statement. is_verified
// is left untouched; the row-level atomicity of the upsert is what makes
// concurrent registrations for the same email serialize (last writer wins,
// never a partial overwrite).
func (r *AccountRepository) UpsertPending(ctx context.Context, email, passwordHash, otp string, otpExpiresAt time.Time) error {
	logger.Log.Debug("Upserting pending account (repo)", zap.String("email", email))
	query := `
	INSERT INTO accounts (email, password_hash, otp, otp_expires_at, is_verified)
	VALUES ($1, $2, $3, $4, false)
	ON CONFLICT (email) DO UPDATE
	SET password_hash = EXCLUDED.password_hash,
	    otp = EXCLUDED.otp,
	    otp_expires_at = EXCLUDED.otp_expires_at,
	    updated_at = now()`
	_, err := r.db.Exec(ctx, query, email, passwordHash, otp, otpExpiresAt)
	if err != nil {
		logger.Log.Error("Failed to upsert pending account (repo)", zap.String("email", email), zap.Error(err))
	}
	return err
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	logger.Log.Debug("Fetching account by email (repo)", zap.String("email", email))
	query := `
	SELECT id, email, password_hash, is_verified, otp, otp_expires_at, created_at, updated_at
	FROM accounts
	WHERE email = $1`

	var a models.Account
	err := r.db.QueryRow(ctx, query, email).Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.IsVerified,
		&a.OTP,
		&a.OTPExpiresAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		logger.Log.Error("Failed to fetch account by email (repo)", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return &a, nil
}

// MarkVerified flips is_verified and clears the OTP pair in one UPDATE, so a
// later verify attempt sees no active code.
func (r *AccountRepository) MarkVerified(ctx context.Context, email string) error {
	logger.Log.Info("Marking account verified (repo)", zap.String("email", email))
	query := `
	UPDATE accounts
	SET is_verified = true, otp = NULL, otp_expires_at = NULL, updated_at = now()
	WHERE email = $1`
	_, err := r.db.Exec(ctx, query, email)
	if err != nil {
		logger.Log.Error("Failed to mark account verified (repo)", zap.String("email", email), zap.Error(err))
	}
	return err
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, email, newHash string) error {
	logger.Log.Info("Updating account password (repo)", zap.String("email", email))
	query := `UPDATE accounts SET password_hash = $1, updated_at = now() WHERE email = $2`
	_, err := r.db.Exec(ctx, query, newHash, email)
	if err != nil {
		logger.Log.Error("Failed to update password (repo)", zap.String("email", email), zap.Error(err))
	}
	return err
}
