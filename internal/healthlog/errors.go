package healthlog

import "errors"

var (
	// ErrMissingUser is returned when no authenticated user is attached.
	ErrMissingUser = errors.New("user id is required")

	// ErrInvalidSymptom is returned for a blank, oversized or unknown-severity symptom.
	ErrInvalidSymptom = errors.New("invalid symptom")

	// ErrInvalidVitals is returned when a vital reading is out of range.
	ErrInvalidVitals = errors.New("invalid vitals")

	// ErrInvalidLifestyle is returned for out-of-range lifestyle answers.
	ErrInvalidLifestyle = errors.New("invalid lifestyle")

	// ErrLogNotFound is returned when a log does not exist for the user.
	ErrLogNotFound = errors.New("health log not found")
)

// IsValidation reports whether err was caused by bad client input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingUser) ||
		errors.Is(err, ErrInvalidSymptom) ||
		errors.Is(err, ErrInvalidVitals) ||
		errors.Is(err, ErrInvalidLifestyle)
}
