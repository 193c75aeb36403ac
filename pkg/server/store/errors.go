package store

import (
	"errors"
	"fmt"

	"github.com/doodlesbykumbi/opsadmin/pkg/model"
)

// ErrNotFound is returned when a record doesn't exist
var ErrNotFound = errors.New("record not found")

// ErrInvalidResource is returned for a resource name outside the known collections
var ErrInvalidResource = errors.New("invalid resource")

// ErrValidation matches every *ValidationError with errors.Is
var ErrValidation = errors.New("validation failed")

// ValidationError reports a rejected record or patch.
type ValidationError struct {
	Resource model.Resource
	Fields   model.FieldErrors
	Err      error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("invalid %s: %s", e.Resource.Singular(), e.Fields.Error())
	}
	if e.Err != nil {
		return fmt.Sprintf("invalid %s: %v", e.Resource.Singular(), e.Err)
	}
	return fmt.Sprintf("invalid %s", e.Resource.Singular())
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError wraps err as a ValidationError, lifting out its field
// errors when it carries any.
func NewValidationError(resource model.Resource, err error) *ValidationError {
	verr := &ValidationError{Resource: resource, Err: err}
	var fields model.FieldErrors
	if errors.As(err, &fields) {
		verr.Fields = fields
	}
	return verr
}

// NotFound builds the error returned for a missing record.
func NotFound(resource model.Resource, id model.ID) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, resource.Singular(), id)
}
