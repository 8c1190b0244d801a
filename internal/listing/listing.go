// Package listing implements the inventory list pipeline: conjunctive
// category/family/date filtering, stable sorting and pagination over an
// in-memory item set. The same parameter shape drives the SQL-side variant
// in the games service.
package listing

import (
	"sort"
	"strings"
	"time"

	"game_inventory/internal/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Item is the view of an entity the pipeline needs. Games, consoles and
// peripherals all implement it; entities without categories or dates return
// zero values and simply never match those predicates.
type Item interface {
	ListTitle() string
	ListDate() *time.Time
	ListCategoryIDs() []string
	ListFamilyID() string
	SearchText() string
}

type SortField string

const (
	SortTitle SortField = "title"
	SortDate  SortField = "date"
)

type SortDir string

const (
	Asc  SortDir = "asc"
	Desc SortDir = "desc"
)

type Sort struct {
	Field SortField
	Dir   SortDir
}

// DefaultSort is the order shown when no sort has been chosen.
func DefaultSort() Sort {
	return Sort{Field: SortTitle, Dir: Asc}
}

// Toggle flips the direction when the same field is picked twice and resets
// to ascending when a new field is picked.
func Toggle(current Sort, field SortField) Sort {
	if current.Field == field {
		if current.Dir == Asc {
			return Sort{Field: field, Dir: Desc}
		}
		return Sort{Field: field, Dir: Asc}
	}
	return Sort{Field: field, Dir: Asc}
}

// Filters is the active filter state of one list view.
type Filters struct {
	// Categories holds at most one category id per type slot. An item
	// passes only if its category set contains every active slot's id.
	Categories      map[models.CategoryType]string
	ConsoleFamilyID string
	// DateFrom and DateTo bound the item date inclusively, by calendar
	// date; a nil bound is unconstrained on that side.
	DateFrom *time.Time
	DateTo   *time.Time
	Query    string
	Sort     Sort
}

// Empty reports whether no predicate is active.
func (f Filters) Empty() bool {
	return len(f.Categories) == 0 &&
		f.ConsoleFamilyID == "" &&
		f.DateFrom == nil &&
		f.DateTo == nil &&
		f.Query == ""
}

// CategoryIDs returns the active category filter ids.
func (f Filters) CategoryIDs() []string {
	ids := make([]string, 0, len(f.Categories))
	for _, t := range models.CategoryTypes {
		if id, ok := f.Categories[t]; ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

var titleCollator = collate.New(language.Und, collate.Loose)

// Apply filters and sorts items, returning the visible sequence. The input
// slice is not modified; ties keep their input order, so the result is
// deterministic for a given input.
func Apply[T Item](items []T, f Filters) []T {
	out := make([]T, 0, len(items))

	ids := f.CategoryIDs()
	for _, item := range items {
		if !matchesCategories(item, ids) {
			continue
		}
		if f.ConsoleFamilyID != "" && item.ListFamilyID() != f.ConsoleFamilyID {
			continue
		}
		if !matchesDateRange(item.ListDate(), f.DateFrom, f.DateTo) {
			continue
		}
		if f.Query != "" && !matchesQuery(item, f.Query) {
			continue
		}
		out = append(out, item)
	}

	SortItems(out, f.Sort)
	return out
}

// SortItems orders items in place by the given sort. Unknown fields fall
// back to the default title ordering; items without a date always rank last.
func SortItems[T Item](items []T, s Sort) {
	if s.Field == "" {
		s = DefaultSort()
	}

	sort.SliceStable(items, func(i, j int) bool {
		var less, equal bool
		switch s.Field {
		case SortDate:
			less, equal = compareDates(items[i].ListDate(), items[j].ListDate(), s.Dir)
			if equal {
				return false
			}
			return less
		default:
			cmp := titleCollator.CompareString(items[i].ListTitle(), items[j].ListTitle())
			if cmp == 0 {
				return false
			}
			if s.Dir == Desc {
				return cmp > 0
			}
			return cmp < 0
		}
	})
}

// compareDates orders known dates by instant in the requested direction and
// ranks nil (unknown) dates after every known date regardless of direction.
func compareDates(a, b *time.Time, dir SortDir) (less, equal bool) {
	switch {
	case a == nil && b == nil:
		return false, true
	case a == nil:
		return false, false
	case b == nil:
		return true, false
	case a.Equal(*b):
		return false, true
	case dir == Desc:
		return a.After(*b), false
	default:
		return a.Before(*b), false
	}
}

func matchesCategories[T Item](item T, ids []string) bool {
	if len(ids) == 0 {
		return true
	}
	have := item.ListCategoryIDs()
	for _, want := range ids {
		found := false
		for _, id := range have {
			if id == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func matchesDateRange(date, from, to *time.Time) bool {
	if from == nil && to == nil {
		return true
	}
	if date == nil {
		return false
	}
	d := truncateToDay(*date)
	if from != nil && d.Before(truncateToDay(*from)) {
		return false
	}
	if to != nil && d.After(truncateToDay(*to)) {
		return false
	}
	return true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func matchesQuery[T Item](item T, query string) bool {
	return strings.Contains(
		strings.ToLower(item.SearchText()),
		strings.ToLower(strings.TrimSpace(query)),
	)
}

// Page is the envelope for one page of results.
type Page[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// NewPage wraps an already-sliced page of items in the envelope, deriving
// the page count from the overall total.
func NewPage[T any](data []T, total, page, limit int) Page[T] {
	if limit < 1 {
		limit = 20
	}

	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}

	return Page[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

// Paginate slices out one page of items. Page numbers start at 1; out of
// range pages return empty data with intact metadata.
func Paginate[T any](items []T, page, limit int) Page[T] {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	total := len(items)

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return NewPage(items[start:end], total, page, limit)
}

// OrderHistory sorts backlog entries by completion date descending. Entries
// with an unknown date always rank last, never interleaved as epoch zero.
func OrderHistory(entries []models.Backlog) []models.Backlog {
	out := make([]models.Backlog, len(entries))
	copy(out, entries)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].CompletionDate, out[j].CompletionDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return out
}
