package domain

import "errors"

// ErrNameRequired is used when a feature group is registered without a
// name.
var ErrNameRequired = NewValidationError("feature group name is required")

// ErrDirectWriteNotSupported is used when records are handed directly
// to a stream feature group. The stream binding only writes through
// InsertStream.
var ErrDirectWriteNotSupported = errors.New("direct record collection writes are not supported for stream feature groups, use InsertStream")

// ErrOnlineStoreNotEnabled is used when online features are read from a
// group that has no online serving enabled.
var ErrOnlineStoreNotEnabled = errors.New("online store is not enabled for this feature group")

type validationError struct {
	err string
}

func (e *validationError) Error() string {
	return e.err
}

// NewValidationError creates a new validation error.
func NewValidationError(err string) error {
	return &validationError{err: err}
}

func IsValidationError(err error) bool {
	_, ok := err.(*validationError)
	return ok
}
