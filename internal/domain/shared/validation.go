package shared

import (
	"sort"
	"strings"
)

// FieldError is a validation failure attached to one field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects field errors from a validation run
type ValidationErrors []FieldError

// Add appends a field error
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

// Empty reports whether there are no errors
func (v ValidationErrors) Empty() bool {
	return len(v) == 0
}

// Fields returns the distinct field names with errors, sorted
func (v ValidationErrors) Fields() []string {
	seen := make(map[string]bool)
	for _, e := range v {
		seen[e.Field] = true
	}
	fields := make([]string, 0, len(seen))
	for f := range seen {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Error implements error
func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Field+" "+e.Message)
	}
	return strings.Join(parts, "; ")
}

// AsDomainError wraps the errors for the transport layer
func (v ValidationErrors) AsDomainError() *DomainError {
	return ErrValidation.WithCause(v)
}

// WordCount counts whitespace separated words
func WordCount(s string) int {
	return len(strings.Fields(s))
}
