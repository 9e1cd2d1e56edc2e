package shared

import "errors"

var (
	// ErrNotFound indicates the referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a concurrent writer won the race for a slot.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable indicates the storage backend or facade could not serve the call.
	ErrUnavailable = errors.New("unavailable")
	// ErrInvalid indicates a record failed required-field checks.
	ErrInvalid = errors.New("invalid")
)

// UserSafeMessage returns a message suitable for showing next to a form.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalid):
		return err.Error()
	case errors.Is(err, ErrNotFound):
		return "The record no longer exists."
	case errors.Is(err, ErrConflict):
		return "The record was changed by someone else. Reload and try again."
	case errors.Is(err, ErrUnavailable):
		return "Storage is not reachable right now."
	default:
		return "Something went wrong."
	}
}

// IsTaxonomy reports whether err already carries one of the sentinel errors.
func IsTaxonomy(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrInvalid)
}
