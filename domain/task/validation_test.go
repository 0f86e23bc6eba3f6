package task

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.October, 18, 12, 30, 0, 0, time.UTC)

func newTestValidator() *Validator {
	return NewValidator(func() time.Time { return fixedNow })
}

func strPtr(s string) *string { return &s }

func validInput() Input {
	return Input{
		Title:       strPtr("Write report"),
		Description: strPtr("Quarterly numbers"),
		Status:      strPtr("pending"),
		DueDate:     strPtr("2026-10-25"),
	}
}

func violationOf(t *testing.T, err error) *ValidationError {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	return verr
}

func TestValidateCreate_Valid(t *testing.T) {
	v := newTestValidator()

	payload, err := v.ValidateCreate(validInput())
	require.NoError(t, err)

	assert.Equal(t, "Write report", payload.Title)
	assert.Equal(t, "Quarterly numbers", payload.Description)
	assert.Equal(t, StatusPending, payload.Status)
	assert.Equal(t, time.Date(2026, time.October, 25, 0, 0, 0, 0, time.UTC), payload.DueDate)
}

func TestValidateCreate_AllMissing(t *testing.T) {
	v := newTestValidator()

	_, err := v.ValidateCreate(Input{})
	verr := violationOf(t, err)

	assert.Equal(t, []string{"description", "due_date", "status", "title"}, verr.FieldNames())
	fields := verr.Fields()
	assert.Equal(t, []string{"Title is required"}, fields[FieldTitle])
	assert.Equal(t, []string{"Description is required"}, fields[FieldDescription])
	assert.Equal(t, []string{"Status is required"}, fields[FieldStatus])
	assert.Equal(t, []string{"Due date is required"}, fields[FieldDueDate])
	for _, viol := range verr.Violations {
		assert.Equal(t, KindRequired, viol.Kind)
	}
}

func TestValidateCreate_FieldRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *Input)
		field   string
		kind    string
		message string
	}{
		{
			name:    "blank title",
			mutate:  func(in *Input) { in.Title = strPtr("   ") },
			field:   FieldTitle,
			kind:    KindRequired,
			message: "Title is required",
		},
		{
			name:    "title too long",
			mutate:  func(in *Input) { in.Title = strPtr(strings.Repeat("a", 256)) },
			field:   FieldTitle,
			kind:    KindMaxLength,
			message: "Title should not be more than 255 characters",
		},
		{
			name:    "empty description",
			mutate:  func(in *Input) { in.Description = strPtr("") },
			field:   FieldDescription,
			kind:    KindRequired,
			message: "Description is required",
		},
		{
			name:    "unknown status",
			mutate:  func(in *Input) { in.Status = strPtr("done") },
			field:   FieldStatus,
			kind:    KindInvalidEnum,
			message: "Status should be one of pending, in_progress, completed",
		},
		{
			name:    "status is case sensitive",
			mutate:  func(in *Input) { in.Status = strPtr("Pending") },
			field:   FieldStatus,
			kind:    KindInvalidEnum,
			message: "Status should be one of pending, in_progress, completed",
		},
		{
			name:    "unparseable due date",
			mutate:  func(in *Input) { in.DueDate = strPtr("not-a-date") },
			field:   FieldDueDate,
			kind:    KindInvalidFormat,
			message: "Due date should be a valid date",
		},
		{
			name:    "impossible calendar date",
			mutate:  func(in *Input) { in.DueDate = strPtr("2026-02-30") },
			field:   FieldDueDate,
			kind:    KindInvalidFormat,
			message: "Due date should be a valid date",
		},
		{
			name:    "due date in the past",
			mutate:  func(in *Input) { in.DueDate = strPtr("2026-10-17") },
			field:   FieldDueDate,
			kind:    KindNotFuture,
			message: "Due date should be a future date",
		},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			_, err := v.ValidateCreate(in)
			verr := violationOf(t, err)

			require.Len(t, verr.Violations, 1)
			assert.Equal(t, tt.field, verr.Violations[0].Field)
			assert.Equal(t, tt.kind, verr.Violations[0].Kind)
			assert.Equal(t, tt.message, verr.Violations[0].Message)
		})
	}
}

func TestValidateCreate_Boundaries(t *testing.T) {
	v := newTestValidator()

	t.Run("title of exactly 255 characters", func(t *testing.T) {
		in := validInput()
		in.Title = strPtr(strings.Repeat("é", 255))
		_, err := v.ValidateCreate(in)
		assert.NoError(t, err)
	})

	t.Run("due date today", func(t *testing.T) {
		in := validInput()
		in.DueDate = strPtr("2026-10-18")
		_, err := v.ValidateCreate(in)
		assert.NoError(t, err)
	})

	t.Run("timestamp due date keeps only the day", func(t *testing.T) {
		in := validInput()
		in.DueDate = strPtr("2026-11-02T23:15:00Z")
		payload, err := v.ValidateCreate(in)
		require.NoError(t, err)
		assert.Equal(t, "2026-11-02", payload.DueDate.Format(DateLayout))
	})

	t.Run("surrounding whitespace is trimmed", func(t *testing.T) {
		in := validInput()
		in.Title = strPtr("  Write report  ")
		in.Status = strPtr(" completed ")
		payload, err := v.ValidateCreate(in)
		require.NoError(t, err)
		assert.Equal(t, "Write report", payload.Title)
		assert.Equal(t, StatusCompleted, payload.Status)
	})
}

func TestValidateCreate_ReportsEveryField(t *testing.T) {
	v := newTestValidator()

	in := Input{
		Title:       strPtr(strings.Repeat("x", 300)),
		Description: strPtr("fine"),
		Status:      strPtr("archived"),
		DueDate:     strPtr("2020-01-01"),
	}
	_, err := v.ValidateCreate(in)
	verr := violationOf(t, err)

	assert.Equal(t, []string{"due_date", "status", "title"}, verr.FieldNames())
	assert.False(t, verr.Has(FieldDescription))
	assert.Contains(t, verr.Error(), "title")
}

func TestValidateUpdate(t *testing.T) {
	v := newTestValidator()

	t.Run("empty body changes nothing", func(t *testing.T) {
		patch, err := v.ValidateUpdate(Input{})
		require.NoError(t, err)
		assert.True(t, patch.Empty())
		assert.Empty(t, patch.Fields())
	})

	t.Run("only present fields are checked", func(t *testing.T) {
		patch, err := v.ValidateUpdate(Input{Status: strPtr("in_progress")})
		require.NoError(t, err)
		require.NotNil(t, patch.Status)
		assert.Equal(t, StatusInProgress, *patch.Status)
		assert.Nil(t, patch.Title)
		assert.Nil(t, patch.DueDate)
		assert.Equal(t, []string{FieldStatus}, patch.Fields())
	})

	t.Run("present but empty field is required", func(t *testing.T) {
		_, err := v.ValidateUpdate(Input{Title: strPtr("")})
		verr := violationOf(t, err)
		assert.Equal(t, []string{"Title is required"}, verr.Fields()[FieldTitle])
	})

	t.Run("past due date is rejected", func(t *testing.T) {
		_, err := v.ValidateUpdate(Input{DueDate: strPtr("2026-10-01")})
		verr := violationOf(t, err)
		assert.Equal(t, KindNotFuture, verr.Violations[0].Kind)
	})

	t.Run("full update", func(t *testing.T) {
		patch, err := v.ValidateUpdate(validInput())
		require.NoError(t, err)
		assert.Len(t, patch.Fields(), 4)

		task := &Task{Title: "old", Description: "old", Status: StatusPending}
		patch.Apply(task)
		assert.Equal(t, "Write report", task.Title)
		assert.Equal(t, "2026-10-25", task.DueDate.Format(DateLayout))
	})
}

func TestValidator_Today(t *testing.T) {
	v := newTestValidator()
	assert.Equal(t, time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC), v.Today())
}
