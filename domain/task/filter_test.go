package task

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	t.Run("empty query applies no filter", func(t *testing.T) {
		f, err := ParseQuery(Query{})
		require.NoError(t, err)
		assert.Equal(t, Status(""), f.Status)
		assert.Nil(t, f.DueDate)
		assert.Empty(t, f.Title)
		assert.Equal(t, 1, f.Page)
	})

	t.Run("values are trimmed and parsed", func(t *testing.T) {
		f, err := ParseQuery(Query{Status: " pending ", DueDate: "2026-12-01", Title: " milk ", Page: 3})
		require.NoError(t, err)
		assert.Equal(t, StatusPending, f.Status)
		require.NotNil(t, f.DueDate)
		assert.Equal(t, "2026-12-01", f.DueDate.Format(DateLayout))
		assert.Equal(t, "milk", f.Title)
		assert.Equal(t, 3, f.Page)
		assert.Equal(t, 20, f.Offset())
	})

	t.Run("page below one becomes one", func(t *testing.T) {
		for _, page := range []int{0, -4} {
			f, err := ParseQuery(Query{Page: page})
			require.NoError(t, err)
			assert.Equal(t, 1, f.Page)
			assert.Equal(t, 0, f.Offset())
		}
	})

	t.Run("invalid due date is a validation error", func(t *testing.T) {
		_, err := ParseQuery(Query{DueDate: "tomorrow"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Violations, 1)
		assert.Equal(t, FieldDueDate, verr.Violations[0].Field)
		assert.Equal(t, KindInvalidFormat, verr.Violations[0].Kind)
		assert.Equal(t, "Due date should be a valid date", verr.Violations[0].Message)
	})
}

func TestFilter_Offset_Saturates(t *testing.T) {
	tests := []struct {
		page int
		want int
	}{
		{1, 0},
		{math.MaxInt/PageSize + 1, math.MaxInt / PageSize * PageSize},
		{math.MaxInt/PageSize + 2, math.MaxInt},
		{922337203685477582, math.MaxInt},
		{math.MaxInt, math.MaxInt},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Filter{Page: tt.page}.Offset(), "page %d", tt.page)
	}
}

func TestFoldASCII(t *testing.T) {
	assert.Equal(t, "buy milk", foldASCII("Buy MILK"))
	assert.Equal(t, "École", foldASCII("ÉCOLE"))
}

func TestFilter_Matches(t *testing.T) {
	day := time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC)
	task := &Task{Title: "Buy MILK today", Status: StatusInProgress, DueDate: day}

	otherDay := day.AddDate(0, 0, 1)
	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"no filter", Filter{}, true},
		{"status match", Filter{Status: StatusInProgress}, true},
		{"status mismatch", Filter{Status: StatusCompleted}, false},
		{"due date match", Filter{DueDate: &day}, true},
		{"due date mismatch", Filter{DueDate: &otherDay}, false},
		{"title case insensitive", Filter{Title: "milk"}, true},
		{"title mismatch", Filter{Title: "bread"}, false},
		{"combined", Filter{Status: StatusInProgress, Title: "buy", DueDate: &day}, true},
		{"combined with one mismatch", Filter{Status: StatusPending, Title: "buy"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(task))
		})
	}
}

func TestPage_Meta(t *testing.T) {
	tests := []struct {
		total    int64
		lastPage int
	}{
		{0, 1},
		{1, 1},
		{10, 1},
		{11, 2},
		{25, 3},
	}

	for _, tt := range tests {
		p := &Page{Total: tt.total, CurrentPage: 2, PerPage: PageSize}
		meta := p.Meta()
		assert.Equal(t, tt.lastPage, meta.LastPage, "total=%d", tt.total)
		assert.Equal(t, 2, meta.CurrentPage)
		assert.Equal(t, PageSize, meta.PerPage)
		assert.Equal(t, tt.total, meta.Total)
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%`, escapeLike("50%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\tmp`, escapeLike(`c:\tmp`))
	assert.Equal(t, "plain", escapeLike("plain"))
}
