package service_test

import (
	"context"
	"strings"
	"time"

	"github.com/mentorhub/mentorhub-api/internal/domain"
)

// ---------- Mocks ----------

type mockMentorRepo struct {
	mentors      map[int64]*domain.Mentor
	availability map[int64][]domain.Slot
	findCalls    int
	replaceCalls int
}

func newMockMentorRepo() *mockMentorRepo {
	return &mockMentorRepo{
		mentors:      make(map[int64]*domain.Mentor),
		availability: make(map[int64][]domain.Slot),
	}
}

func (m *mockMentorRepo) FindByID(_ context.Context, id int64) (*domain.Mentor, error) {
	m.findCalls++
	return m.mentors[id], nil
}

func (m *mockMentorRepo) GetAvailability(_ context.Context, mentorID int64) ([]domain.Slot, error) {
	return m.availability[mentorID], nil
}

func (m *mockMentorRepo) ReplaceAvailability(_ context.Context, mentorID int64, slots []domain.Slot) ([]domain.Slot, error) {
	m.replaceCalls++
	m.availability[mentorID] = append([]domain.Slot(nil), slots...)
	return m.availability[mentorID], nil
}

type mockIdentityRepo struct {
	mentors  map[string]int64 // contact -> id
	mentees  map[string]int64
	nextID   int64
	verified map[int64]bool
}

func newMockIdentityRepo() *mockIdentityRepo {
	return &mockIdentityRepo{
		mentors:  make(map[string]int64),
		mentees:  make(map[string]int64),
		nextID:   100,
		verified: make(map[int64]bool),
	}
}

func (m *mockIdentityRepo) FindMentorByContact(_ context.Context, contact string) (*domain.Identity, error) {
	id, ok := m.mentors[strings.ToLower(contact)]
	if !ok {
		return nil, nil
	}
	return &domain.Identity{ID: id, Kind: domain.KindMentor, Contact: strings.ToLower(contact)}, nil
}

func (m *mockIdentityRepo) FindOrCreateMentee(_ context.Context, contact string) (*domain.Identity, error) {
	contact = strings.ToLower(contact)
	id, ok := m.mentees[contact]
	if !ok {
		m.nextID++
		id = m.nextID
		m.mentees[contact] = id
	}
	return &domain.Identity{ID: id, Kind: domain.KindMentee, Contact: contact}, nil
}

func (m *mockIdentityRepo) MarkMentorVerified(_ context.Context, id int64) error {
	m.verified[id] = true
	return nil
}

func (m *mockIdentityRepo) MarkMenteeVerified(_ context.Context, id int64) error {
	m.verified[id] = true
	return nil
}

type mockChallengeRepo struct {
	challenges map[string]*domain.Challenge
	sweeps     chan struct{}
}

func newMockChallengeRepo() *mockChallengeRepo {
	return &mockChallengeRepo{challenges: make(map[string]*domain.Challenge)}
}

func challengeKey(kind domain.IdentityKind, contact string) string {
	return string(kind) + ":" + strings.ToLower(contact)
}

func (m *mockChallengeRepo) Upsert(_ context.Context, kind domain.IdentityKind, contact, codeHash string, expiresAt time.Time) error {
	m.challenges[challengeKey(kind, contact)] = &domain.Challenge{
		CodeHash:  codeHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return nil
}

func (m *mockChallengeRepo) Find(_ context.Context, kind domain.IdentityKind, contact string) (*domain.Challenge, error) {
	return m.challenges[challengeKey(kind, contact)], nil
}

func (m *mockChallengeRepo) Delete(_ context.Context, kind domain.IdentityKind, contact string) error {
	delete(m.challenges, challengeKey(kind, contact))
	return nil
}

func (m *mockChallengeRepo) DeleteExpired(context.Context) (int64, error) {
	if m.sweeps != nil {
		select {
		case m.sweeps <- struct{}{}:
		default:
		}
	}
	return 0, nil
}

type mockRateLimit struct {
	allow bool
	calls int
}

func (m *mockRateLimit) Allow(context.Context, string, int, time.Duration) (bool, error) {
	m.calls++
	return m.allow, nil
}

type mockSender struct {
	lastContact string
	lastCode    string
	sendErr     error
	sendCalls   int
}

func (m *mockSender) SendAccessCode(contact, code string) error {
	m.sendCalls++
	if m.sendErr != nil {
		return m.sendErr
	}
	m.lastContact = contact
	m.lastCode = code
	return nil
}

type mockPublisher struct {
	subjects []string
}

func (m *mockPublisher) Publish(_ context.Context, subject string, _ interface{}) error {
	m.subjects = append(m.subjects, subject)
	return nil
}

func (m *mockPublisher) Close() error { return nil }
