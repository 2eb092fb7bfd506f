package report

import "errors"

// Domain error taxonomy. Storage and service layers wrap these with
// fmt.Errorf("...: %w", ...) so callers can branch with errors.Is.
var (
	// ErrInvalidDate means a week boundary failed Jalali validation.
	ErrInvalidDate = errors.New("invalid jalali date")

	// ErrInvalidCredentials means the password did not match an existing
	// account. No account state changes.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrRegistrationFailed means a new account could not be created,
	// typically a username uniqueness race.
	ErrRegistrationFailed = errors.New("registration failed")

	// ErrDuplicateWeek means the (username, week_start, week_end) range
	// was already recorded.
	ErrDuplicateWeek = errors.New("week range already recorded")

	// ErrStorageUnavailable means the store could not be reached. It is
	// never silently turned into a zero score or diff.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrConstraintViolation means a record is malformed (zero or
	// negative target, oversized feedback, empty week) and was rejected
	// before reaching storage.
	ErrConstraintViolation = errors.New("constraint violation")
)
