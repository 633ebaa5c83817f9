package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mentorhub/mentorhub-api/internal/domain"
	"github.com/mentorhub/mentorhub-api/internal/service"
	"github.com/mentorhub/mentorhub-api/pkg/auth"
	"github.com/mentorhub/mentorhub-api/pkg/config"
)

type otpFixture struct {
	identities *mockIdentityRepo
	challenges *mockChallengeRepo
	rateLimit  *mockRateLimit
	sender     *mockSender
	bus        *mockPublisher
	cfg        *config.Config
	svc        service.OTPService
}

func newOTPFixture() *otpFixture {
	f := &otpFixture{
		identities: newMockIdentityRepo(),
		challenges: newMockChallengeRepo(),
		rateLimit:  &mockRateLimit{allow: true},
		sender:     &mockSender{},
		bus:        &mockPublisher{},
		cfg:        config.Load(),
	}
	f.svc = service.NewOTPService(f.identities, f.challenges, f.rateLimit, f.sender, f.bus, f.cfg)
	return f
}

func (f *otpFixture) addMentor(contact string, id int64) {
	f.identities.mentors[contact] = id
}

func TestRequestThenVerifySingleUse(t *testing.T) {
	f := newOTPFixture()
	f.addMentor("mentor@example.com", 7)
	ctx := context.Background()

	err := f.svc.RequestCode(ctx, &domain.RequestCodeInput{Contact: "Mentor@Example.com", Kind: "mentor"})
	if err != nil {
		t.Fatalf("RequestCode: %v", err)
	}
	if len(f.sender.lastCode) != domain.CodeLength {
		t.Fatalf("sent code %q, want %d digits", f.sender.lastCode, domain.CodeLength)
	}
	if f.sender.lastContact != "mentor@example.com" {
		t.Errorf("code sent to %q", f.sender.lastContact)
	}

	session, err := f.svc.VerifyCode(ctx, &domain.VerifyCodeInput{
		Contact: "mentor@example.com", Kind: "mentor", Code: f.sender.lastCode,
	})
	if err != nil {
		t.Fatalf("VerifyCode: %v", err)
	}
	if session.IdentityID != 7 || session.Kind != "mentor" {
		t.Errorf("session = %+v", session)
	}
	if !f.identities.verified[7] {
		t.Error("mentor not marked verified")
	}

	claims, err := auth.Parse(session.SessionToken, f.cfg.Auth.JWTSecret)
	if err != nil {
		t.Fatalf("session token does not parse: %v", err)
	}
	if claims.Sub != 7 || claims.Kind != "mentor" {
		t.Errorf("claims = %+v", claims)
	}

	// Challenge is single-use: the same code must not verify twice
	_, err = f.svc.VerifyCode(ctx, &domain.VerifyCodeInput{
		Contact: "mentor@example.com", Kind: "mentor", Code: f.sender.lastCode,
	})
	if !errors.Is(err, domain.ErrNoPendingChallenge) {
		t.Errorf("second verify = %v, want ErrNoPendingChallenge", err)
	}
}

func TestVerifyExpiredClearsChallenge(t *testing.T) {
	f := newOTPFixture()
	f.addMentor("mentor@example.com", 7)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	f.challenges.challenges[challengeKey(domain.KindMentor, "mentor@example.com")] = &domain.Challenge{
		CodeHash:  string(hash),
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	_, err = f.svc.VerifyCode(ctx, &domain.VerifyCodeInput{
		Contact: "mentor@example.com", Kind: "mentor", Code: "123456",
	})
	if !errors.Is(err, domain.ErrCodeExpired) {
		t.Fatalf("VerifyCode = %v, want ErrCodeExpired", err)
	}

	// Expiry detection consumed the challenge
	_, err = f.svc.VerifyCode(ctx, &domain.VerifyCodeInput{
		Contact: "mentor@example.com", Kind: "mentor", Code: "123456",
	})
	if !errors.Is(err, domain.ErrNoPendingChallenge) {
		t.Errorf("verify after expiry = %v, want ErrNoPendingChallenge", err)
	}
}

// Wrong guesses must not consume the challenge, otherwise anyone could
// invalidate a pending code by guessing. Attempt limiting is deliberately
// absent; this test documents that.
func TestMismatchesLeaveChallengeIntact(t *testing.T) {
	f := newOTPFixture()
	f.addMentor("mentor@example.com", 7)
	ctx := context.Background()

	if err := f.svc.RequestCode(ctx, &domain.RequestCodeInput{Contact: "mentor@example.com", Kind: "mentor"}); err != nil {
		t.Fatalf("RequestCode: %v", err)
	}

	wrong := "000000"
	if wrong == f.sender.lastCode {
		wrong = "000001"
	}

	for i := 0; i < 3; i++ {
		_, err := f.svc.VerifyCode(ctx, &domain.VerifyCodeInput{
			Contact: "mentor@example.com", Kind: "mentor", Code: wrong,
		})
		if !errors.Is(err, domain.ErrCodeMismatch) {
			t.Fatalf("attempt %d = %v, want ErrCodeMismatch", i+1, err)
		}
	}

	if _, err := f.svc.VerifyCode(ctx, &domain.VerifyCodeInput{
		Contact: "mentor@example.com", Kind: "mentor", Code: f.sender.lastCode,
	}); err != nil {
		t.Errorf("correct code after mismatches: %v", err)
	}
}

// A delivery failure must not leave a usable challenge behind: the challenge
// is only committed after the sender accepts the message.
func TestSendFailureLeavesNoChallenge(t *testing.T) {
	f := newOTPFixture()
	f.addMentor("mentor@example.com", 7)
	f.sender.sendErr = errors.New("smtp down")
	ctx := context.Background()

	err := f.svc.RequestCode(ctx, &domain.RequestCodeInput{Contact: "mentor@example.com", Kind: "mentor"})
	if !errors.Is(err, domain.ErrDeliveryFailed) {
		t.Fatalf("RequestCode = %v, want ErrDeliveryFailed", err)
	}
	if len(f.challenges.challenges) != 0 {
		t.Error("challenge stored despite delivery failure")
	}
}

func TestMentorMustPreExist(t *testing.T) {
	f := newOTPFixture()
	ctx := context.Background()

	err := f.svc.RequestCode(ctx, &domain.RequestCodeInput{Contact: "nobody@example.com", Kind: "mentor"})
	if !errors.Is(err, domain.ErrIdentityNotFound) {
		t.Errorf("RequestCode = %v, want ErrIdentityNotFound", err)
	}
	if f.sender.sendCalls != 0 {
		t.Error("no code should be sent for an unknown mentor")
	}
}

func TestMenteeIsCreatedOnFirstRequest(t *testing.T) {
	f := newOTPFixture()
	ctx := context.Background()

	if err := f.svc.RequestCode(ctx, &domain.RequestCodeInput{Contact: "new@example.com", Kind: "mentee"}); err != nil {
		t.Fatalf("RequestCode: %v", err)
	}
	if _, ok := f.identities.mentees["new@example.com"]; !ok {
		t.Fatal("mentee identity not created")
	}

	session, err := f.svc.VerifyCode(ctx, &domain.VerifyCodeInput{
		Contact: "new@example.com", Kind: "mentee", Code: f.sender.lastCode,
	})
	if err != nil {
		t.Fatalf("VerifyCode: %v", err)
	}
	if session.Kind != "mentee" {
		t.Errorf("session kind = %q", session.Kind)
	}
}

func TestReissueOverwritesPriorChallenge(t *testing.T) {
	f := newOTPFixture()
	f.addMentor("mentor@example.com", 7)
	ctx := context.Background()

	if err := f.svc.RequestCode(ctx, &domain.RequestCodeInput{Contact: "mentor@example.com", Kind: "mentor"}); err != nil {
		t.Fatal(err)
	}
	firstCode := f.sender.lastCode

	if err := f.svc.RequestCode(ctx, &domain.RequestCodeInput{Contact: "mentor@example.com", Kind: "mentor"}); err != nil {
		t.Fatal(err)
	}
	secondCode := f.sender.lastCode

	if firstCode != secondCode {
		_, err := f.svc.VerifyCode(ctx, &domain.VerifyCodeInput{
			Contact: "mentor@example.com", Kind: "mentor", Code: firstCode,
		})
		if !errors.Is(err, domain.ErrCodeMismatch) {
			t.Errorf("old code = %v, want ErrCodeMismatch", err)
		}
	}

	if _, err := f.svc.VerifyCode(ctx, &domain.VerifyCodeInput{
		Contact: "mentor@example.com", Kind: "mentor", Code: secondCode,
	}); err != nil {
		t.Errorf("new code: %v", err)
	}
}

func TestRequestCodeRateLimited(t *testing.T) {
	f := newOTPFixture()
	f.addMentor("mentor@example.com", 7)
	f.rateLimit.allow = false
	ctx := context.Background()

	err := f.svc.RequestCode(ctx, &domain.RequestCodeInput{Contact: "mentor@example.com", Kind: "mentor"})
	if !errors.Is(err, domain.ErrTooManyRequests) {
		t.Errorf("RequestCode = %v, want ErrTooManyRequests", err)
	}
	if f.sender.sendCalls != 0 {
		t.Error("no code should be sent when rate limited")
	}
}
