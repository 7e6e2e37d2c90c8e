package services

import (
	"sort"
	"strings"
)

// FieldErrors — бизнес-ошибки валидации по полям. Хендлеры отдают их
// как {"errors": {field: [messages]}} c кодом 422.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msgs := range e {
		parts = append(parts, field+": "+strings.Join(msgs, "; "))
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

func fieldError(field, message string) FieldErrors {
	return FieldErrors{field: {message}}
}
