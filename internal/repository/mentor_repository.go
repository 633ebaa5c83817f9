package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mentorhub/mentorhub-api/internal/domain"
)

type MentorRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Mentor, error)
	GetAvailability(ctx context.Context, mentorID int64) ([]domain.Slot, error)
	ReplaceAvailability(ctx context.Context, mentorID int64, slots []domain.Slot) ([]domain.Slot, error)
}

type mentorRepository struct {
	pool *pgxpool.Pool
}

func NewMentorRepository(pool *pgxpool.Pool) MentorRepository {
	return &mentorRepository{pool: pool}
}

const mentorCols = `id, name, email, bio, image_url, hourly_rate, is_verified, created_at, updated_at`

func (r *mentorRepository) FindByID(ctx context.Context, id int64) (*domain.Mentor, error) {
	const q = `SELECT ` + mentorCols + ` FROM mentors WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var m domain.Mentor
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&m.ID, &m.Name, &m.Email, &m.Bio, &m.ImageURL,
		&m.HourlyRate, &m.IsVerified, &m.CreatedAt, &m.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *mentorRepository) GetAvailability(ctx context.Context, mentorID int64) ([]domain.Slot, error) {
	const q = `
		SELECT starts_at, ends_at
		FROM availability_slots
		WHERE mentor_id = $1
		ORDER BY starts_at, ends_at`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, mentorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []domain.Slot
	for rows.Next() {
		var s domain.Slot
		if err := rows.Scan(&s.Start, &s.End); err != nil {
			return nil, err
		}
		s.Start = s.Start.UTC()
		s.End = s.End.UTC()
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// ReplaceAvailability overwrites the mentor's entire slot collection in one
// transaction. Concurrent replaces for the same mentor race last-write-wins;
// with a single owner editing their own schedule that is the accepted
// behavior, not something this layer serializes.
func (r *mentorRepository) ReplaceAvailability(ctx context.Context, mentorID int64, slots []domain.Slot) ([]domain.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM availability_slots WHERE mentor_id=$1`, mentorID); err != nil {
		return nil, err
	}

	const ins = `INSERT INTO availability_slots (mentor_id, starts_at, ends_at) VALUES ($1, $2, $3)`
	for _, s := range slots {
		if _, err := tx.Exec(ctx, ins, mentorID, s.Start, s.End); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE mentors SET updated_at = now() WHERE id=$1`, mentorID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return r.GetAvailability(ctx, mentorID)
}
