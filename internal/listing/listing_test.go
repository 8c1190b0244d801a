package listing

import (
	"testing"
	"time"

	"game_inventory/internal/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func game(id, title string, released *time.Time, familyID string, categoryIDs ...string) *models.Game {
	return &models.Game{
		ID:              id,
		Title:           title,
		ReleaseDate:     released,
		ConsoleFamilyID: familyID,
		CategoryIDs:     datatypes.NewJSONSlice(categoryIDs),
	}
}

func TestApply_CategoryFiltersAreConjunctive(t *testing.T) {
	// categories: 1 = genre RPG, 2 = franchise Final Fantasy
	games := []*models.Game{
		game("A", "Final Fantasy VII", date(1997, 4, 2), "fam", "1", "2"),
		game("B", "Chrono Trigger", date(1995, 3, 11), "fam", "1"),
	}

	got := Apply(games, Filters{Categories: map[models.CategoryType]string{
		models.CategoryGenre:     "1",
		models.CategoryFranchise: "2",
	}})

	assert.Len(t, got, 1)
	assert.Equal(t, "A", got[0].ID)
}

func TestApply_EmptyFiltersRestoreFullSet(t *testing.T) {
	games := []*models.Game{
		game("B", "Zelda", nil, "fam"),
		game("A", "Mario", nil, "fam"),
		game("C", "Metroid", nil, "fam"),
	}

	got := Apply(games, Filters{})

	assert.Len(t, got, 3)
	// default sort is title ascending
	assert.Equal(t, "A", got[0].ID)
	assert.Equal(t, "C", got[1].ID)
	assert.Equal(t, "B", got[2].ID)
}

func TestApply_ConsoleFamilyFilter(t *testing.T) {
	games := []*models.Game{
		game("A", "Mario", nil, "nes"),
		game("B", "Sonic", nil, "genesis"),
	}

	got := Apply(games, Filters{ConsoleFamilyID: "genesis"})

	assert.Len(t, got, 1)
	assert.Equal(t, "B", got[0].ID)
}

func TestApply_DateRange(t *testing.T) {
	games := []*models.Game{
		game("A", "Early", date(1990, 1, 1), "fam"),
		game("B", "Mid", date(1995, 6, 15), "fam"),
		game("C", "Late", date(2001, 12, 31), "fam"),
		game("D", "Undated", nil, "fam"),
	}

	t.Run("both bounds inclusive", func(t *testing.T) {
		got := Apply(games, Filters{DateFrom: date(1990, 1, 1), DateTo: date(1995, 6, 15)})
		assert.Len(t, got, 2)
	})

	t.Run("open lower bound", func(t *testing.T) {
		got := Apply(games, Filters{DateTo: date(1994, 1, 1)})
		assert.Len(t, got, 1)
		assert.Equal(t, "A", got[0].ID)
	})

	t.Run("open upper bound", func(t *testing.T) {
		got := Apply(games, Filters{DateFrom: date(1995, 1, 1)})
		assert.Len(t, got, 2)
	})

	t.Run("undated items excluded by any bound", func(t *testing.T) {
		got := Apply(games, Filters{DateFrom: date(1900, 1, 1)})
		assert.Len(t, got, 3)
	})
}

func TestApply_Query(t *testing.T) {
	games := []*models.Game{
		game("A", "Final Fantasy VII", nil, "fam"),
		game("B", "Chrono Trigger", nil, "fam"),
	}
	games[1].AlternateTitles = datatypes.NewJSONSlice([]string{"Chrono Cross Prequel"})

	got := Apply(games, Filters{Query: "fantasy"})
	assert.Len(t, got, 1)
	assert.Equal(t, "A", got[0].ID)

	// alternate titles are searched too
	got = Apply(games, Filters{Query: "cross"})
	assert.Len(t, got, 1)
	assert.Equal(t, "B", got[0].ID)
}

func TestSortItems_TitleToggleReverses(t *testing.T) {
	games := []*models.Game{
		game("A", "alpha", nil, "fam"),
		game("C", "Charlie", nil, "fam"),
		game("B", "Bravo", nil, "fam"),
	}

	s := DefaultSort()
	asc := Apply(games, Filters{Sort: s})

	s = Toggle(s, SortTitle)
	assert.Equal(t, Desc, s.Dir)
	desc := Apply(games, Filters{Sort: s})

	assert.Len(t, asc, 3)
	for i := range asc {
		assert.Equal(t, asc[i].ID, desc[len(desc)-1-i].ID)
	}
}

func TestToggle_NewFieldResetsAscending(t *testing.T) {
	s := Sort{Field: SortTitle, Dir: Desc}
	s = Toggle(s, SortDate)
	assert.Equal(t, Sort{Field: SortDate, Dir: Asc}, s)

	s = Toggle(s, SortDate)
	assert.Equal(t, Sort{Field: SortDate, Dir: Desc}, s)
}

func TestSortItems_DateSortKeepsUnknownLast(t *testing.T) {
	games := []*models.Game{
		game("A", "Undated", nil, "fam"),
		game("B", "Old", date(1991, 1, 1), "fam"),
		game("C", "New", date(2005, 1, 1), "fam"),
	}

	for _, dir := range []SortDir{Asc, Desc} {
		got := Apply(games, Filters{Sort: Sort{Field: SortDate, Dir: dir}})
		assert.Equal(t, "A", got[2].ID, "unknown date must sort last for %s", dir)
	}
}

func TestSortItems_Deterministic(t *testing.T) {
	games := []*models.Game{
		game("first", "Same Title", nil, "fam"),
		game("second", "Same Title", nil, "fam"),
	}

	a := Apply(games, Filters{})
	b := Apply(games, Filters{})

	assert.Equal(t, a[0].ID, b[0].ID)
	assert.Equal(t, "first", a[0].ID) // stable: input order preserved on ties
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	t.Run("first page", func(t *testing.T) {
		p := Paginate(items, 1, 3)
		assert.Equal(t, []int{1, 2, 3}, p.Data)
		assert.Equal(t, 7, p.Total)
		assert.Equal(t, 3, p.TotalPages)
	})

	t.Run("last partial page", func(t *testing.T) {
		p := Paginate(items, 3, 3)
		assert.Equal(t, []int{7}, p.Data)
	})

	t.Run("out of range", func(t *testing.T) {
		p := Paginate(items, 9, 3)
		assert.Empty(t, p.Data)
		assert.Equal(t, 7, p.Total)
	})

	t.Run("defaults", func(t *testing.T) {
		p := Paginate(items, 0, 0)
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 20, p.Limit)
		assert.Equal(t, 1, p.TotalPages)
	})
}

func TestNewPage(t *testing.T) {
	t.Run("rounds page count up", func(t *testing.T) {
		p := NewPage([]int{11}, 21, 2, 10)
		assert.Equal(t, []int{11}, p.Data)
		assert.Equal(t, 21, p.Total)
		assert.Equal(t, 2, p.Page)
		assert.Equal(t, 10, p.Limit)
		assert.Equal(t, 3, p.TotalPages)
	})

	t.Run("exact division", func(t *testing.T) {
		p := NewPage([]int{1, 2}, 20, 1, 10)
		assert.Equal(t, 2, p.TotalPages)
	})

	t.Run("empty", func(t *testing.T) {
		p := NewPage([]int{}, 0, 1, 10)
		assert.Equal(t, 0, p.TotalPages)
		assert.Empty(t, p.Data)
	})
}

func TestOrderHistory(t *testing.T) {
	entries := []models.Backlog{
		{ID: "unknown1", CompletionDate: nil},
		{ID: "old", CompletionDate: date(2019, 5, 1)},
		{ID: "new", CompletionDate: date(2023, 8, 12)},
		{ID: "unknown2", CompletionDate: nil},
	}

	got := OrderHistory(entries)

	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, "old", got[1].ID)
	// unknown dates always last, input order between them preserved
	assert.Equal(t, "unknown1", got[2].ID)
	assert.Equal(t, "unknown2", got[3].ID)

	// input untouched
	assert.Equal(t, "unknown1", entries[0].ID)
}
