// Package validate checks candidate ticket and warranty payloads against the
// entity schemas and produces normalized domain values. It is pure and
// deterministic; all I/O concerns live with the caller.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/velodesk/repair-service/internal/domain"
)

// Code classifies a validation failure.
type Code string

const (
	CodeRequired                Code = "required"
	CodeInvalidFormat           Code = "invalid_format"
	CodeInvalidEnum             Code = "invalid_enum"
	CodeMissingConditionalField Code = "missing_conditional_field"
)

// FieldError is a validation failure scoped to a single attribute.
type FieldError struct {
	Field   string
	Code    Code
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func errRequired(field string) error {
	return &FieldError{Field: field, Code: CodeRequired, Message: field + " is required"}
}

func errInvalidEnum(field, value string, allowed []string) error {
	return &FieldError{
		Field:   field,
		Code:    CodeInvalidEnum,
		Message: fmt.Sprintf("%s must be one of %s, got %q", field, strings.Join(allowed, ", "), value),
	}
}

// local-part "@" domain, domain containing at least one dot
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func requireString(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", errRequired(field)
	}
	return trimmed, nil
}

func requireEmail(field, value string) (string, error) {
	trimmed, err := requireString(field, value)
	if err != nil {
		return "", err
	}
	if !emailPattern.MatchString(trimmed) {
		return "", &FieldError{Field: field, Code: CodeInvalidFormat, Message: "invalid email address"}
	}
	return trimmed, nil
}

// optionalString coerces absent and blank values to nil.
func optionalString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func optionalDate(field string, value *string) (*domain.Date, error) {
	normalized := optionalString(value)
	if normalized == nil {
		return nil, nil
	}
	parsed, err := domain.ParseDate(*normalized)
	if err != nil {
		return nil, &FieldError{Field: field, Code: CodeInvalidFormat, Message: "invalid date, expected YYYY-MM-DD or RFC 3339"}
	}
	return &parsed, nil
}

func requireDate(field string, value *string) (domain.Date, error) {
	parsed, err := optionalDate(field, value)
	if err != nil {
		return domain.Date{}, err
	}
	if parsed == nil {
		return domain.Date{}, errRequired(field)
	}
	return *parsed, nil
}

func normalizeImages(images []string) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		if trimmed := strings.TrimSpace(img); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
