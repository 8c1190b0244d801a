package services

import (
	"regexp"
	"testing"

	"game_inventory/internal/models"
	"game_inventory/internal/storage"
	"game_inventory/internal/storage/mariadb"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*mariadb.Storage, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return &mariadb.Storage{DB: gormDB}, mock
}

func TestGameService_GetAll(t *testing.T) {
	st, mock := setupMockDB(t)
	defer st.Close()

	service := NewGameService(st, nil)

	t.Run("success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "title"}).
			AddRow("id-1", "Final Fantasy VII").
			AddRow("id-2", "Chrono Trigger")

		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `games`")).
			WillReturnRows(rows)

		games, err := service.GetAll()

		assert.NoError(t, err)
		assert.Len(t, games, 2)
		assert.Equal(t, "Final Fantasy VII", games[0].Title)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `games`")).
			WillReturnError(gorm.ErrInvalidDB)

		games, err := service.GetAll()

		assert.Error(t, err)
		assert.Nil(t, games)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGameService_GetByID(t *testing.T) {
	st, mock := setupMockDB(t)
	defer st.Close()

	service := NewGameService(st, nil)

	t.Run("success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "title"}).
			AddRow("id-1", "Vagrant Story")

		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `games` WHERE id = ?")).
			WithArgs("id-1", 1).
			WillReturnRows(rows)

		game, err := service.GetByID("id-1")

		assert.NoError(t, err)
		assert.Equal(t, "Vagrant Story", game.Title)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `games` WHERE id = ?")).
			WithArgs("missing", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		game, err := service.GetByID("missing")

		assert.Error(t, err)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.Nil(t, game)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGameService_Search(t *testing.T) {
	st, mock := setupMockDB(t)
	defer st.Close()

	service := NewGameService(st, nil)

	rows := sqlmock.NewRows([]string{"id", "title"}).
		AddRow("id-1", "Final Fantasy VII")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `games` WHERE title LIKE ? OR alternate_titles LIKE ?")).
		WithArgs("%fantasy%", "%fantasy%").
		WillReturnRows(rows)

	games, err := service.Search("fantasy")

	assert.NoError(t, err)
	assert.Len(t, games, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameService_GetByCategory(t *testing.T) {
	st, mock := setupMockDB(t)
	defer st.Close()

	service := NewGameService(st, nil)

	rows := sqlmock.NewRows([]string{"id", "title"}).
		AddRow("id-1", "Final Fantasy VII")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `games` WHERE JSON_CONTAINS(category_ids, ?)")).
		WithArgs(`"cat-1"`).
		WillReturnRows(rows)

	games, err := service.GetByCategory("cat-1")

	assert.NoError(t, err)
	assert.Len(t, games, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameService_GetPaginated(t *testing.T) {
	st, mock := setupMockDB(t)
	defer st.Close()

	service := NewGameService(st, nil)

	t.Run("filters and count", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `games` WHERE title LIKE ? AND JSON_CONTAINS(category_ids, ?) AND console_family_id = ?")).
			WithArgs("%zelda%", `"cat-1"`, "fam-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		rows := sqlmock.NewRows([]string{"id", "title"}).
			AddRow("id-1", "Zelda II")

		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY title asc LIMIT ?")).
			WithArgs("%zelda%", `"cat-1"`, "fam-1", 2).
			WillReturnRows(rows)

		games, total, err := service.GetPaginated(GameQuery{
			Search:          "zelda",
			CategoryIDs:     []string{"cat-1"},
			ConsoleFamilyID: "fam-1",
			Page:            1,
			PageSize:        2,
		})

		assert.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, games, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("date sort keeps unknown dates last", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `games`")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY release_date IS NULL, release_date desc LIMIT ?")).
			WithArgs(20).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title"}))

		_, _, err := service.GetPaginated(GameQuery{SortBy: "date", SortOrder: "desc"})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown sort falls back to title", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `games`")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY title asc LIMIT ?")).
			WithArgs(20).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title"}))

		_, _, err := service.GetPaginated(GameQuery{SortBy: "developer; DROP TABLE games"})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGameService_Create(t *testing.T) {
	st, mock := setupMockDB(t)
	defer st.Close()

	service := NewGameService(st, nil)

	t.Run("success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `games`")).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		game := &models.Game{Title: "New Game"}
		result, err := service.Create(game)

		assert.NoError(t, err)
		assert.Equal(t, "New Game", result.Title)
		assert.NotEmpty(t, result.ID, "create assigns a uuid")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert error rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `games`")).
			WillReturnError(gorm.ErrInvalidData)
		mock.ExpectRollback()

		result, err := service.Create(&models.Game{Title: "Broken"})

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGameService_Delete(t *testing.T) {
	st, mock := setupMockDB(t)
	defer st.Close()

	service := NewGameService(st, nil)

	t.Run("success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `games` WHERE id = ?")).
			WithArgs("id-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := service.Delete("id-1")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `games`")).
			WillReturnError(gorm.ErrInvalidDB)
		mock.ExpectRollback()

		err := service.Delete("id-1")

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
