package task

import (
	"math"
	"strings"
	"time"

	"gorm.io/gorm"
)

// PageSize is the fixed number of tasks per page.
const PageSize = 10

// Filter narrows a task listing. Zero values apply no filter.
type Filter struct {
	Status  Status
	DueDate *time.Time
	Title   string
	Page    int
}

// Query is the raw, unparsed form of a Filter as received from clients.
type Query struct {
	Status  string `json:"status,omitempty" query:"status"`
	DueDate string `json:"due_date,omitempty" query:"due_date"`
	Title   string `json:"title,omitempty" query:"title"`
	Page    int    `json:"page,omitempty" query:"page"`
}

// ParseQuery converts raw filter parameters into a Filter. Only a due_date
// that is present but not a calendar date is rejected.
func ParseQuery(q Query) (Filter, error) {
	f := Filter{
		Status: Status(strings.TrimSpace(q.Status)),
		Title:  strings.TrimSpace(q.Title),
		Page:   q.Page,
	}
	if raw := strings.TrimSpace(q.DueDate); raw != "" {
		d, err := ParseDate(raw)
		if err != nil {
			return Filter{}, &ValidationError{Violations: []Violation{{
				Field:   FieldDueDate,
				Kind:    KindInvalidFormat,
				Message: messages[FieldDueDate][KindInvalidFormat],
			}}}
		}
		f.DueDate = &d
	}
	return f.normalize(), nil
}

func (f Filter) normalize() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	return f
}

// Offset is the number of rows skipped before the current page. Pages too
// large to address saturate at math.MaxInt, which skips every row.
func (f Filter) Offset() int {
	page := f.normalize().Page
	if page-1 > math.MaxInt/PageSize {
		return math.MaxInt
	}
	return (page - 1) * PageSize
}

// Matches reports whether t satisfies every filter in f.
func (f Filter) Matches(t *Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.DueDate != nil && !Day(t.DueDate).Equal(Day(*f.DueDate)) {
		return false
	}
	if f.Title != "" && !strings.Contains(foldASCII(t.Title), foldASCII(f.Title)) {
		return false
	}
	return true
}

// Scopes translates f into GORM scopes. Pagination and ordering are not included.
func (f Filter) Scopes() []func(*gorm.DB) *gorm.DB {
	var scopes []func(*gorm.DB) *gorm.DB
	if f.Status != "" {
		status := f.Status
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", status)
		})
	}
	if f.DueDate != nil {
		start := Day(*f.DueDate)
		end := start.AddDate(0, 0, 1)
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("due_date >= ? AND due_date < ?", start, end)
		})
	}
	if f.Title != "" {
		pattern := "%" + escapeLike(foldASCII(f.Title)) + "%"
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where(`LOWER(title) LIKE ? ESCAPE '\'`, pattern)
		})
	}
	return scopes
}

// Page is one page of a filtered listing.
type Page struct {
	Tasks       []*Task
	Total       int64
	CurrentPage int
	PerPage     int
}

// LastPage is the number of the final non-empty page, at least 1.
func (p *Page) LastPage() int {
	if p.Total == 0 {
		return 1
	}
	return int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
}

// Meta is the pagination metadata sent alongside a listing.
type Meta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

// Meta returns the pagination metadata of p.
func (p *Page) Meta() Meta {
	return Meta{
		CurrentPage: p.CurrentPage,
		PerPage:     p.PerPage,
		Total:       p.Total,
		LastPage:    p.LastPage(),
	}
}

// foldASCII lowercases ASCII letters only, matching SQLite's LOWER().
// Non-ASCII letters compare case-sensitively on every store.
func foldASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
