package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mentorhub/mentorhub-api/internal/domain"
	"github.com/mentorhub/mentorhub-api/internal/repository"
	"github.com/mentorhub/mentorhub-api/internal/schedule"
	"github.com/mentorhub/mentorhub-api/pkg/events"
	"github.com/mentorhub/mentorhub-api/pkg/logger"
)

type AvailabilityService interface {
	GetMentor(ctx context.Context, mentorID int64) (*domain.Mentor, error)
	Profile(ctx context.Context, mentorID int64) (*domain.Mentor, []domain.Slot, error)
	Get(ctx context.Context, mentorID int64) ([]domain.Slot, error)
	Replace(ctx context.Context, mentorID int64, raw []domain.RawSlot) ([]domain.Slot, error)
}

type availabilityService struct {
	mentorRepo repository.MentorRepository
	builder    *schedule.Builder
	eventBus   events.Publisher
}

func NewAvailabilityService(
	mentorRepo repository.MentorRepository,
	builder *schedule.Builder,
	eventBus events.Publisher,
) AvailabilityService {
	return &availabilityService{
		mentorRepo: mentorRepo,
		builder:    builder,
		eventBus:   eventBus,
	}
}

func (s *availabilityService) GetMentor(ctx context.Context, mentorID int64) (*domain.Mentor, error) {
	mentor, err := s.mentorRepo.FindByID(ctx, mentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to find mentor: %w", err)
	}
	if mentor == nil {
		return nil, domain.ErrNotFound
	}
	return mentor, nil
}

// Profile loads the mentor and their slots with a single existence check, for
// the combined profile read.
func (s *availabilityService) Profile(ctx context.Context, mentorID int64) (*domain.Mentor, []domain.Slot, error) {
	mentor, err := s.GetMentor(ctx, mentorID)
	if err != nil {
		return nil, nil, err
	}

	slots, err := s.mentorRepo.GetAvailability(ctx, mentorID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load availability: %w", err)
	}
	return mentor, slots, nil
}

func (s *availabilityService) Get(ctx context.Context, mentorID int64) ([]domain.Slot, error) {
	if _, err := s.GetMentor(ctx, mentorID); err != nil {
		return nil, err
	}

	slots, err := s.mentorRepo.GetAvailability(ctx, mentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load availability: %w", err)
	}
	return slots, nil
}

// Replace validates the whole batch in memory before any store call, so a
// failure partway never leaves a partially written schedule, then overwrites
// the mentor's entire slot collection.
func (s *availabilityService) Replace(ctx context.Context, mentorID int64, raw []domain.RawSlot) ([]domain.Slot, error) {
	slots, err := s.builder.BuildAll(raw)
	if err != nil {
		return nil, err
	}

	if _, err := s.GetMentor(ctx, mentorID); err != nil {
		return nil, err
	}

	saved, err := s.mentorRepo.ReplaceAvailability(ctx, mentorID, slots)
	if err != nil {
		return nil, fmt.Errorf("failed to replace availability: %w", err)
	}

	event := events.AvailabilityUpdatedEvent{
		MentorID:  mentorID,
		SlotCount: len(saved),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.eventBus.Publish(ctx, events.AvailabilityUpdated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish availability updated event", "error", err, "mentor_id", mentorID)
	}

	return saved, nil
}
