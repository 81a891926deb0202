package repository

import (
	"context"
	"errors"
	"time"

	"github.com/roddesu/updatedsafespace/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrResetTokenSpent covers absent, expired and already-consumed tokens alike.
var ErrResetTokenSpent = errors.New("reset token invalid or spent")

type ResetTokenRepository struct {
	db *pgxpool.Pool
}

func NewResetTokenRepository(db *pgxpool.Pool) *ResetTokenRepository {
	return &ResetTokenRepository{db: db}
}

func (r *ResetTokenRepository) Create(ctx context.Context, email, tokenHash string, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO reset_tokens (email, token_hash, expires_at) VALUES ($1, $2, $3)`,
		email, tokenHash, expiresAt,
	)
	if err != nil {
		logger.Log.Error("Failed to create reset token (repo)", zap.Error(err))
	}
	return err
}

// Consume marks the token used and returns its email in a single UPDATE, so
// two concurrent calls with the same token cannot both succeed: the WHERE
// clause only matches an unspent, unexpired row.
func (r *ResetTokenRepository) Consume(ctx context.Context, tokenHash string) (string, error) {
	var email string
	err := r.db.QueryRow(ctx, `
		UPDATE reset_tokens
		SET used_at = now()
		WHERE token_hash = $1
		  AND used_at IS NULL
		  AND expires_at > now()
		RETURNING email
	`, tokenHash).Scan(&email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrResetTokenSpent
		}
		logger.Log.Error("Failed to consume reset token (repo)", zap.Error(err))
		return "", err
	}
	return email, nil
}
