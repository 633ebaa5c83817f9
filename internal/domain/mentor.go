package domain

import "time"

// Mentor is the aggregate root that owns an availability slot list plus
// plain descriptive fields. Availability is only ever mutated through a
// full replace; there is no per-slot update or delete.
type Mentor struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Bio        string    `json:"bio"`
	ImageURL   string    `json:"image_url"`
	HourlyRate int64     `json:"hourly_rate"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
