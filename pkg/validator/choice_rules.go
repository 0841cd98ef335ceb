package validator

import (
	"fmt"
	"slices"
	"strings"
)

// InList fails when value is not one of allowed.
func InList[T comparable](field string, value T, allowed []T) Rule {
	return Rule{
		Check: func() bool {
			return slices.Contains(allowed, value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be one of: %s", joinValues(allowed)),
			TranslationKey: "validation.in_list",
		},
	}
}

// ValidEnum is InList for string-backed enums.
func ValidEnum[T ~string](field string, value T, values []T) Rule {
	return InList(field, value, values)
}

func joinValues[T comparable](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
