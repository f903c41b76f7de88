package service

import (
	"errors"
	"sort"
	"strings"
)

// ErrForbidden is returned when the requester is not allowed to act on a
// resource (e.g. modifying someone else's recipe).
var ErrForbidden = errors.New("forbidden")

// FieldErrors maps field names to validation messages. It serializes
// directly as the 400 response body.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(e))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e[f], "; "))
	}
	return strings.Join(parts, ", ")
}

func fieldError(field, message string) FieldErrors {
	return FieldErrors{field: {message}}
}
