package mailer

// CodeSender delivers a one-time verification code to a contact identifier.
// Delivery is the commit gate for OTP issuance: the challenge is only stored
// after the sender reports success.
type CodeSender interface {
	SendAccessCode(contact, code string) error
}
