package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mentorhub/mentorhub-api/internal/domain"
)

// IdentityRepository resolves a contact identifier to the identity record it
// authenticates. Mentors live in the mentors table and must pre-exist;
// mentees are created on their first code request.
type IdentityRepository interface {
	FindMentorByContact(ctx context.Context, contact string) (*domain.Identity, error)
	FindOrCreateMentee(ctx context.Context, contact string) (*domain.Identity, error)
	MarkMentorVerified(ctx context.Context, id int64) error
	MarkMenteeVerified(ctx context.Context, id int64) error
}

type identityRepository struct {
	pool *pgxpool.Pool
}

func NewIdentityRepository(pool *pgxpool.Pool) IdentityRepository {
	return &identityRepository{pool: pool}
}

func (r *identityRepository) FindMentorByContact(ctx context.Context, contact string) (*domain.Identity, error) {
	const q = `SELECT id, email FROM mentors WHERE lower(email)=lower($1)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	id := domain.Identity{Kind: domain.KindMentor}
	err := r.pool.QueryRow(ctx, q, contact).Scan(&id.ID, &id.Contact)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// FindOrCreateMentee upserts the mentee row so a first-time contact can
// request a code without a prior signup step.
func (r *identityRepository) FindOrCreateMentee(ctx context.Context, contact string) (*domain.Identity, error) {
	const q = `
		INSERT INTO mentees (email)
		VALUES (lower($1))
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id, email`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	id := domain.Identity{Kind: domain.KindMentee}
	if err := r.pool.QueryRow(ctx, q, contact).Scan(&id.ID, &id.Contact); err != nil {
		return nil, err
	}
	return &id, nil
}

func (r *identityRepository) MarkMentorVerified(ctx context.Context, id int64) error {
	const q = `UPDATE mentors SET is_verified = true, updated_at = now() WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, id)
	return err
}

func (r *identityRepository) MarkMenteeVerified(ctx context.Context, id int64) error {
	const q = `UPDATE mentees SET is_verified = true, updated_at = now() WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, id)
	return err
}
