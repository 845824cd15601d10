package domain

import "errors"

// Registration errors
var (
	ErrInvalidInput     = errors.New("invalid email or display name")
	ErrAlreadyVoted     = errors.New("a vote was already cast today for this identity")
	ErrNotifierFailure  = errors.New("verification delivery failed")
	ErrResendThrottled  = errors.New("verification resend throttled")
)

// Verification errors
var (
	ErrArtifactNotFound = errors.New("verification artifact not found")
	ErrArtifactExpired  = errors.New("verification artifact has expired")
	ErrEmailMismatch    = errors.New("email does not match the verification artifact")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
)

// Authorization errors
var (
	ErrUnauthorized = errors.New("unauthorized access")
)

// Catalog errors
var (
	ErrProjectNotFound = errors.New("project not found")
	ErrWinnerNotSet    = errors.New("winner has not been announced")
)
