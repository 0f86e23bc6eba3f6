package task

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Field names as they appear on the wire.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldDueDate     = "due_date"
)

// Input is a raw task submission. A nil field was not supplied.
type Input struct {
	Title       *string `json:"title,omitempty" form:"title"`
	Description *string `json:"description,omitempty" form:"description"`
	Status      *string `json:"status,omitempty" form:"status"`
	DueDate     *string `json:"due_date,omitempty" form:"due_date"`
}

// Payload is a validated, normalized create submission.
type Payload struct {
	Title       string
	Description string
	Status      Status
	DueDate     time.Time
}

// Patch is a validated update. Nil fields keep their stored value.
type Patch struct {
	Title       *string
	Description *string
	Status      *Status
	DueDate     *time.Time
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.DueDate == nil
}

// Fields lists the names of the fields the patch changes.
func (p Patch) Fields() []string {
	var fields []string
	if p.Title != nil {
		fields = append(fields, FieldTitle)
	}
	if p.Description != nil {
		fields = append(fields, FieldDescription)
	}
	if p.Status != nil {
		fields = append(fields, FieldStatus)
	}
	if p.DueDate != nil {
		fields = append(fields, FieldDueDate)
	}
	return fields
}

// Apply overwrites the supplied fields of t.
func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
}

type rule struct {
	field string
	tags  string
}

// rules are checked in order; the first failing tag of a field decides its message.
var rules = []rule{
	{FieldTitle, "required,max=255"},
	{FieldDescription, "required"},
	{FieldStatus, "required,oneof=pending in_progress completed"},
	{FieldDueDate, "required,isodate,notpast"},
}

var kinds = map[string]string{
	"required": KindRequired,
	"max":      KindMaxLength,
	"oneof":    KindInvalidEnum,
	"isodate":  KindInvalidFormat,
	"notpast":  KindNotFuture,
}

var messages = map[string]map[string]string{
	FieldTitle: {
		KindRequired:  "Title is required",
		KindMaxLength: "Title should not be more than 255 characters",
	},
	FieldDescription: {
		KindRequired: "Description is required",
	},
	FieldStatus: {
		KindRequired:    "Status is required",
		KindInvalidEnum: "Status should be one of pending, in_progress, completed",
	},
	FieldDueDate: {
		KindRequired:      "Due date is required",
		KindInvalidFormat: "Due date should be a valid date",
		KindNotFuture:     "Due date should be a future date",
	},
}

// Validator applies the task rule set. It holds no per-request state and is
// safe for concurrent use.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// NewValidator creates a Validator that evaluates "not in the past" against
// the calendar date of now(). A nil now uses time.Now.
func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	v := &Validator{
		validate: validator.New(),
		now:      now,
	}
	// Registration only fails for reserved tag names.
	if err := v.validate.RegisterValidation("isodate", isDate); err != nil {
		panic(err)
	}
	if err := v.validate.RegisterValidation("notpast", v.notPast); err != nil {
		panic(err)
	}
	return v
}

// Today returns the current calendar date.
func (v *Validator) Today() time.Time {
	return Day(v.now())
}

// ValidateCreate checks a full submission. Every field is required.
func (v *Validator) ValidateCreate(in Input) (*Payload, error) {
	values := in.normalized()
	var violations []Violation
	for _, r := range rules {
		if viol := v.check(r, values[r.field]); viol != nil {
			violations = append(violations, *viol)
		}
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	due, _ := ParseDate(*values[FieldDueDate])
	return &Payload{
		Title:       *values[FieldTitle],
		Description: *values[FieldDescription],
		Status:      Status(*values[FieldStatus]),
		DueDate:     due,
	}, nil
}

// ValidateUpdate checks only the fields present in the submission.
// A present but empty field is still a violation.
func (v *Validator) ValidateUpdate(in Input) (Patch, error) {
	values := in.normalized()
	var violations []Violation
	for _, r := range rules {
		value, ok := values[r.field]
		if !ok {
			continue
		}
		if viol := v.check(r, value); viol != nil {
			violations = append(violations, *viol)
		}
	}
	if len(violations) > 0 {
		return Patch{}, &ValidationError{Violations: violations}
	}

	var p Patch
	if s, ok := values[FieldTitle]; ok {
		p.Title = s
	}
	if s, ok := values[FieldDescription]; ok {
		p.Description = s
	}
	if s, ok := values[FieldStatus]; ok {
		status := Status(*s)
		p.Status = &status
	}
	if s, ok := values[FieldDueDate]; ok {
		due, _ := ParseDate(*s)
		p.DueDate = &due
	}
	return p, nil
}

func (v *Validator) check(r rule, value *string) *Violation {
	s := ""
	if value != nil {
		s = *value
	}
	err := v.validate.Var(s, r.tags)
	if err == nil {
		return nil
	}

	kind := KindInvalidFormat
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if k, ok := kinds[verrs[0].Tag()]; ok {
			kind = k
		}
	}
	msg, ok := messages[r.field][kind]
	if !ok {
		msg = r.field + " is invalid"
	}
	return &Violation{Field: r.field, Kind: kind, Message: msg}
}

func (v *Validator) notPast(fl validator.FieldLevel) bool {
	d, err := ParseDate(fl.Field().String())
	if err != nil {
		return false
	}
	return !d.Before(v.Today())
}

func isDate(fl validator.FieldLevel) bool {
	_, err := ParseDate(fl.Field().String())
	return err == nil
}

// normalized returns the supplied fields, trimmed, keyed by wire name.
// Fields that were not supplied are absent from the map.
func (in Input) normalized() map[string]*string {
	out := make(map[string]*string, 4)
	add := func(field string, s *string) {
		if s == nil {
			return
		}
		trimmed := strings.TrimSpace(*s)
		out[field] = &trimmed
	}
	add(FieldTitle, in.Title)
	add(FieldDescription, in.Description)
	add(FieldStatus, in.Status)
	add(FieldDueDate, in.DueDate)
	return out
}
