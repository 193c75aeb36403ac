package model

import (
	"strings"
)

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + " " + e.Message
}

// FieldErrors collects every invalid field of a record or patch.
type FieldErrors []FieldError

func (errs FieldErrors) Error() string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// OrNil returns nil when no field failed, so a typed nil never escapes as an error.
func (errs FieldErrors) OrNil() error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

type validator interface {
	Validate() error
}

// Validate checks the required fields of r. The stores never call it;
// callers that accept user input do.
func Validate(r Record) error {
	if v, ok := r.(validator); ok {
		return v.Validate()
	}
	return nil
}

func requireString(errs FieldErrors, field, value string) FieldErrors {
	if strings.TrimSpace(value) == "" {
		return append(errs, FieldError{Field: field, Message: "is required"})
	}
	return errs
}

func requireReference(errs FieldErrors, field string, value ID) FieldErrors {
	if value <= 0 {
		return append(errs, FieldError{Field: field, Message: "must reference an organization id"})
	}
	return errs
}
