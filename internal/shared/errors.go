package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenMissing occurs when no bearer token accompanies a request.
	ErrTokenMissing = errors.New("auth token missing")
	// ErrTokenExpired occurs when a bearer token is unknown or expired.
	ErrTokenExpired = errors.New("auth token expired")
	// ErrSaveInFlight occurs when a save for the same voucher is already running.
	ErrSaveInFlight = errors.New("a save for this voucher is already in progress")
)

// UserSafeMessage returns a message suitable for direct display. Wrapped
// internal errors collapse to a generic string.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "The requested record was not found"
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid username or password"
	case errors.Is(err, ErrSaveInFlight):
		return "This voucher is still being saved, please wait"
	default:
		return "Something went wrong, please try again"
	}
}
