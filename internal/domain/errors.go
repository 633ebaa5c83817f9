package domain

// Error is a domain error with a stable machine-checkable code. Handlers map
// codes to HTTP statuses; messages are safe to surface to clients verbatim.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Slot validation errors
var (
	ErrMalformedDate       = &Error{Code: "MALFORMED_DATE", Message: "date must be formatted YYYY-MM-DD"}
	ErrMalformedTime       = &Error{Code: "MALFORMED_TIME", Message: "time must be formatted HH:mm (24-hour)"}
	ErrInvalidDuration     = &Error{Code: "INVALID_DURATION", Message: "duration must be 15, 30, 45 or 60 minutes"}
	ErrInvalidCivilInput   = &Error{Code: "INVALID_CIVIL_INPUT", Message: "date and time do not form a valid calendar moment"}
	ErrNonPositiveDuration = &Error{Code: "NON_POSITIVE_DURATION", Message: "slot must end after it starts"}
	ErrEmptyAvailability   = &Error{Code: "EMPTY_AVAILABILITY", Message: "at least one availability slot is required"}
)

// Lookup errors
var (
	ErrNotFound = &Error{Code: "NOT_FOUND", Message: "mentor not found"}
)

// Auth input errors
var (
	ErrInvalidContact = &Error{Code: "INVALID_CONTACT", Message: "contact must be a valid email address"}
	ErrInvalidKind    = &Error{Code: "INVALID_KIND", Message: "identity kind must be mentor or mentee"}
	ErrInvalidCode    = &Error{Code: "INVALID_CODE", Message: "code must be 6 digits"}
)

// Auth-flow errors
var (
	ErrIdentityNotFound   = &Error{Code: "IDENTITY_NOT_FOUND", Message: "no account is registered for this contact"}
	ErrNoPendingChallenge = &Error{Code: "NO_PENDING_CHALLENGE", Message: "no verification code is pending for this contact"}
	ErrCodeExpired        = &Error{Code: "CODE_EXPIRED", Message: "verification code has expired"}
	ErrCodeMismatch       = &Error{Code: "CODE_MISMATCH", Message: "verification code is incorrect"}
	ErrDeliveryFailed     = &Error{Code: "DELIVERY_FAILED", Message: "could not deliver verification code"}
	ErrTooManyRequests    = &Error{Code: "RATE_LIMIT_EXCEEDED", Message: "too many code requests, try again later"}
)
