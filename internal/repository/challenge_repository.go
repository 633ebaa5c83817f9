package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mentorhub/mentorhub-api/internal/domain"
)

// ChallengeRepository owns the single live OTP challenge per identity.
// The (kind, contact) pair is the primary key, so issuing a new code
// overwrites whatever challenge was pending.
type ChallengeRepository interface {
	Upsert(ctx context.Context, kind domain.IdentityKind, contact, codeHash string, expiresAt time.Time) error
	Find(ctx context.Context, kind domain.IdentityKind, contact string) (*domain.Challenge, error)
	Delete(ctx context.Context, kind domain.IdentityKind, contact string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type challengeRepository struct {
	pool *pgxpool.Pool
}

func NewChallengeRepository(pool *pgxpool.Pool) ChallengeRepository {
	return &challengeRepository{pool: pool}
}

func (r *challengeRepository) Upsert(ctx context.Context, kind domain.IdentityKind, contact, codeHash string, expiresAt time.Time) error {
	const q = `
		INSERT INTO otp_challenges (identity_kind, contact, code_hash, expires_at, created_at)
		VALUES ($1, lower($2), $3, $4, now())
		ON CONFLICT (identity_kind, contact) DO UPDATE SET
			code_hash = EXCLUDED.code_hash,
			expires_at = EXCLUDED.expires_at,
			created_at = now()`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, kind, contact, codeHash, expiresAt)
	return err
}

func (r *challengeRepository) Find(ctx context.Context, kind domain.IdentityKind, contact string) (*domain.Challenge, error) {
	const q = `
		SELECT code_hash, expires_at, created_at
		FROM otp_challenges
		WHERE identity_kind = $1 AND contact = lower($2)`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var c domain.Challenge
	err := r.pool.QueryRow(ctx, q, kind, contact).Scan(&c.CodeHash, &c.ExpiresAt, &c.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *challengeRepository) Delete(ctx context.Context, kind domain.IdentityKind, contact string) error {
	const q = `DELETE FROM otp_challenges WHERE identity_kind = $1 AND contact = lower($2)`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, kind, contact)
	return err
}

func (r *challengeRepository) DeleteExpired(ctx context.Context) (int64, error) {
	const q = `DELETE FROM otp_challenges WHERE expires_at < now() - interval '1 day'`

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
