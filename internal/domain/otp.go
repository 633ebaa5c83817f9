package domain

import (
	"regexp"
	"strings"
	"time"
)

// IdentityKind selects which identity table a contact authenticates against.
// Mentors must already exist before a code can be requested; mentees are
// created on their first request.
type IdentityKind string

const (
	KindMentor IdentityKind = "mentor"
	KindMentee IdentityKind = "mentee"
)

func (k IdentityKind) Valid() bool {
	return k == KindMentor || k == KindMentee
}

// CodeLength is the fixed length of every verification code.
const CodeLength = 6

// Identity is the minimal view of a mentor or mentee the OTP flow needs.
type Identity struct {
	ID      int64
	Kind    IdentityKind
	Contact string
}

// Challenge is the single live OTP challenge attached to an identity.
// Issuing a new code overwrites it; a successful or expired verification
// clears it.
type Challenge struct {
	CodeHash  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (c *Challenge) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// Session is what a successful verification yields.
type Session struct {
	IdentityID   int64  `json:"identity_id"`
	Kind         string `json:"kind"`
	SessionToken string `json:"session_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type RequestCodeInput struct {
	Contact string `json:"contact"`
	Kind    string `json:"kind"`
}

type VerifyCodeInput struct {
	Contact string `json:"contact"`
	Kind    string `json:"kind"`
	Code    string `json:"code"`
}

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	codeRe  = regexp.MustCompile(`^\d{6}$`)
)

func (r *RequestCodeInput) Normalize() {
	r.Contact = strings.ToLower(strings.TrimSpace(r.Contact))
	r.Kind = strings.ToLower(strings.TrimSpace(r.Kind))
	if r.Kind == "" {
		r.Kind = string(KindMentor)
	}
}

func (r *RequestCodeInput) Validate() error {
	if !emailRe.MatchString(r.Contact) {
		return ErrInvalidContact
	}
	if !IdentityKind(r.Kind).Valid() {
		return ErrInvalidKind
	}
	return nil
}

func (r *VerifyCodeInput) Normalize() {
	r.Contact = strings.ToLower(strings.TrimSpace(r.Contact))
	r.Kind = strings.ToLower(strings.TrimSpace(r.Kind))
	if r.Kind == "" {
		r.Kind = string(KindMentor)
	}
	r.Code = strings.TrimSpace(r.Code)
}

func (r *VerifyCodeInput) Validate() error {
	if !emailRe.MatchString(r.Contact) {
		return ErrInvalidContact
	}
	if !IdentityKind(r.Kind).Valid() {
		return ErrInvalidKind
	}
	if !codeRe.MatchString(r.Code) {
		return ErrInvalidCode
	}
	return nil
}
