package validation

import (
	"strings"
)

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors collects field errors for one document. A nil or empty *Errors
// means the document is valid; use Err to turn it into an error value.
type Errors struct {
	Fields []FieldError
}

func (e *Errors) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a field error.
func (e *Errors) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Check records err against field when err is non-nil.
func (e *Errors) Check(field string, err error) {
	if err != nil {
		e.Add(field, err.Error())
	}
}

// Err returns e as an error, or nil when no field failed.
func (e *Errors) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// New returns a single-field validation error.
func New(field, message string) error {
	e := &Errors{}
	e.Add(field, message)
	return e
}
