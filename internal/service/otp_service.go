package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mentorhub/mentorhub-api/internal/domain"
	"github.com/mentorhub/mentorhub-api/internal/mailer"
	"github.com/mentorhub/mentorhub-api/internal/repository"
	"github.com/mentorhub/mentorhub-api/pkg/auth"
	"github.com/mentorhub/mentorhub-api/pkg/config"
	"github.com/mentorhub/mentorhub-api/pkg/events"
	"github.com/mentorhub/mentorhub-api/pkg/logger"
)

type OTPService interface {
	RequestCode(ctx context.Context, in *domain.RequestCodeInput) error
	VerifyCode(ctx context.Context, in *domain.VerifyCodeInput) (*domain.Session, error)
}

type otpService struct {
	identityRepo  repository.IdentityRepository
	challengeRepo repository.ChallengeRepository
	rateLimitRepo repository.RateLimitRepository
	sender        mailer.CodeSender
	eventBus      events.Publisher
	config        *config.Config
}

func NewOTPService(
	identityRepo repository.IdentityRepository,
	challengeRepo repository.ChallengeRepository,
	rateLimitRepo repository.RateLimitRepository,
	sender mailer.CodeSender,
	eventBus events.Publisher,
	config *config.Config,
) OTPService {
	return &otpService{
		identityRepo:  identityRepo,
		challengeRepo: challengeRepo,
		rateLimitRepo: rateLimitRepo,
		sender:        sender,
		eventBus:      eventBus,
		config:        config,
	}
}

// RequestCode issues a fresh challenge for the identity behind the contact.
// Issuance is send-then-commit: the challenge row is written only after the
// sender accepts the message, so a delivery failure never leaves a pending
// code the user was never told about.
func (s *otpService) RequestCode(ctx context.Context, in *domain.RequestCodeInput) error {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	allowed, err := s.rateLimitRepo.Allow(ctx, "otp_request:"+in.Contact,
		s.config.Auth.OTPRequestLimit, s.config.Auth.OTPRequestWindow)
	if err != nil {
		logger.ErrorContext(ctx, "Rate limit check failed", "error", err)
	} else if !allowed {
		return domain.ErrTooManyRequests
	}

	identity, err := s.resolveIdentity(ctx, domain.IdentityKind(in.Kind), in.Contact)
	if err != nil {
		return err
	}

	code, err := generateCode(domain.CodeLength)
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash code: %w", err)
	}

	if err := s.sender.SendAccessCode(identity.Contact, code); err != nil {
		logger.ErrorContext(ctx, "Failed to send access code", "error", err, "contact", identity.Contact)
		return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}

	expiresAt := time.Now().Add(s.config.Auth.OTPTTL)
	if err := s.challengeRepo.Upsert(ctx, identity.Kind, identity.Contact, string(codeHash), expiresAt); err != nil {
		return fmt.Errorf("failed to store challenge: %w", err)
	}

	event := events.AccessCodeRequestedEvent{
		IdentityKind: string(identity.Kind),
		Contact:      identity.Contact,
		RequestedAt:  time.Now().UTC(),
	}
	if err := s.eventBus.Publish(ctx, events.AccessCodeRequested, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish access code requested event", "error", err)
	}

	return nil
}

// VerifyCode runs the challenge state machine: missing challenge fails,
// an expired challenge is cleared and fails, a wrong code fails without
// clearing (the holder may retry), and a correct code consumes the challenge
// and yields a session.
func (s *otpService) VerifyCode(ctx context.Context, in *domain.VerifyCodeInput) (*domain.Session, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	kind := domain.IdentityKind(in.Kind)

	challenge, err := s.challengeRepo.Find(ctx, kind, in.Contact)
	if err != nil {
		return nil, fmt.Errorf("failed to load challenge: %w", err)
	}
	if challenge == nil {
		return nil, domain.ErrNoPendingChallenge
	}

	if challenge.IsExpired() {
		if err := s.challengeRepo.Delete(ctx, kind, in.Contact); err != nil {
			logger.ErrorContext(ctx, "Failed to clear expired challenge", "error", err)
		}
		return nil, domain.ErrCodeExpired
	}

	if err := bcrypt.CompareHashAndPassword([]byte(challenge.CodeHash), []byte(in.Code)); err != nil {
		return nil, domain.ErrCodeMismatch
	}

	identity, err := s.resolveIdentity(ctx, kind, in.Contact)
	if err != nil {
		return nil, err
	}

	if err := s.challengeRepo.Delete(ctx, kind, in.Contact); err != nil {
		return nil, fmt.Errorf("failed to consume challenge: %w", err)
	}

	if err := s.markVerified(ctx, identity); err != nil {
		logger.ErrorContext(ctx, "Failed to mark identity verified", "error", err, "identity_id", identity.ID)
	}

	token, err := auth.NewSessionToken(identity.ID, identity.Contact, string(identity.Kind),
		s.config.Auth.JWTSecret, s.config.Auth.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create session token: %w", err)
	}

	if identity.Kind == domain.KindMentor {
		event := events.MentorVerifiedEvent{
			MentorID:   identity.ID,
			Contact:    identity.Contact,
			VerifiedAt: time.Now().UTC(),
		}
		if err := s.eventBus.Publish(ctx, events.MentorVerified, event); err != nil {
			logger.ErrorContext(ctx, "Failed to publish mentor verified event", "error", err)
		}
	}

	return &domain.Session{
		IdentityID:   identity.ID,
		Kind:         string(identity.Kind),
		SessionToken: token,
		ExpiresIn:    int64(s.config.Auth.SessionTTL.Seconds()),
	}, nil
}

func (s *otpService) resolveIdentity(ctx context.Context, kind domain.IdentityKind, contact string) (*domain.Identity, error) {
	switch kind {
	case domain.KindMentor:
		identity, err := s.identityRepo.FindMentorByContact(ctx, contact)
		if err != nil {
			return nil, fmt.Errorf("failed to find mentor: %w", err)
		}
		if identity == nil {
			return nil, domain.ErrIdentityNotFound
		}
		return identity, nil
	default:
		identity, err := s.identityRepo.FindOrCreateMentee(ctx, contact)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert mentee: %w", err)
		}
		return identity, nil
	}
}

func (s *otpService) markVerified(ctx context.Context, identity *domain.Identity) error {
	if identity.Kind == domain.KindMentor {
		return s.identityRepo.MarkMentorVerified(ctx, identity.ID)
	}
	return s.identityRepo.MarkMenteeVerified(ctx, identity.ID)
}

func generateCode(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
