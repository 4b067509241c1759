package filters

import "errors"

var (
	// ErrInvalidValue is returned when a request value cannot be parsed as
	// the type declared for its filter.
	ErrInvalidValue = errors.New("invalid filter value")

	// ErrInvalidOrder is returned for a malformed encoded orderBy parameter.
	ErrInvalidOrder = errors.New("invalid orderBy")

	// ErrInvalidDirection is returned for an order direction other than asc or desc.
	ErrInvalidDirection = errors.New("invalid order direction")

	// ErrInvalidFilter marks a filter declaration that cannot be registered.
	ErrInvalidFilter = errors.New("invalid filter declaration")

	// ErrDuplicateFilter marks a filter name registered twice.
	ErrDuplicateFilter = errors.New("duplicate filter")
)

// IsInputError reports whether err was caused by request input rather than
// by a programming or backend failure.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidValue) ||
		errors.Is(err, ErrInvalidOrder) ||
		errors.Is(err, ErrInvalidDirection)
}
