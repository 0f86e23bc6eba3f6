package task

import (
	"errors"
	"sort"
	"strings"
)

// ErrNotFound is returned when a task id does not name a persisted task.
var ErrNotFound = errors.New("task not found")

// Violation kinds reported by the rule set.
const (
	KindRequired      = "required"
	KindMaxLength     = "max_length"
	KindInvalidEnum   = "invalid_enum"
	KindInvalidFormat = "invalid_format"
	KindNotFuture     = "not_future"
)

// Violation is a single broken rule on a single field.
type Violation struct {
	Field   string `json:"field"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ValidationError collects every rule violation of a submission.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		fields = append(fields, v.Field)
	}
	return "validation failed: " + strings.Join(fields, ", ")
}

// Fields groups violation messages by field name.
func (e *ValidationError) Fields() map[string][]string {
	out := make(map[string][]string, len(e.Violations))
	for _, v := range e.Violations {
		out[v.Field] = append(out[v.Field], v.Message)
	}
	return out
}

// Has reports whether field has at least one violation.
func (e *ValidationError) Has(field string) bool {
	for _, v := range e.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

// FieldNames returns the violated field names, sorted.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Violations))
	seen := make(map[string]bool, len(e.Violations))
	for _, v := range e.Violations {
		if !seen[v.Field] {
			seen[v.Field] = true
			names = append(names, v.Field)
		}
	}
	sort.Strings(names)
	return names
}
