package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"game_inventory/internal/models"
	"game_inventory/internal/storage"
	"game_inventory/internal/storage/mariadb"
)

type GameService struct {
	storage *mariadb.Storage
	log     *slog.Logger
}

func NewGameService(s *mariadb.Storage, log *slog.Logger) *GameService {
	return &GameService{
		storage: s,
		log:     log,
	}
}

// GameQuery carries the server-side variant of the list pipeline: the same
// filter and sort parameters the client applies locally, pushed into SQL.
type GameQuery struct {
	Search          string
	CategoryIDs     []string
	ConsoleFamilyID string
	DateFrom        *time.Time
	DateTo          *time.Time
	SortBy          string
	SortOrder       string
	Page            int
	PageSize        int
}

func (s *GameService) GetAll() ([]models.Game, error) {
	const op = "services.games.GetAll"

	var results []models.Game
	if err := s.storage.DB.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return results, nil
}

func (s *GameService) GetByID(id string) (*models.Game, error) {
	const op = "services.games.GetByID"

	var g models.Game
	if err := s.storage.DB.First(&g, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &g, nil
}

func (s *GameService) Search(query string) ([]models.Game, error) {
	const op = "services.games.Search"

	var results []models.Game
	rows := s.storage.DB.
		Where("title LIKE ?", "%"+query+"%").
		Or("alternate_titles LIKE ?", "%"+query+"%").
		Find(&results)
	if rows.Error != nil {
		return nil, fmt.Errorf("%s: %w", op, rows.Error)
	}

	return results, nil
}

func (s *GameService) GetByCategory(categoryID string) ([]models.Game, error) {
	const op = "services.games.GetByCategory"

	var results []models.Game
	rows := s.storage.DB.
		Where("JSON_CONTAINS(category_ids, ?)", strconv.Quote(categoryID)).
		Find(&results)
	if rows.Error != nil {
		return nil, fmt.Errorf("%s: %w", op, rows.Error)
	}

	return results, nil
}

// GetPaginated runs the filter/sort pipeline inside the database and returns
// one page of games plus the filtered total.
func (s *GameService) GetPaginated(q GameQuery) ([]models.Game, int, error) {
	const op = "services.games.GetPaginated"

	var results []models.Game
	var count int64

	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	db := s.storage.DB.Model(&models.Game{})

	if q.Search != "" {
		db = db.Where("title LIKE ?", "%"+q.Search+"%")
	}

	// category filters are conjunctive: the game must carry every id
	for _, id := range q.CategoryIDs {
		db = db.Where("JSON_CONTAINS(category_ids, ?)", strconv.Quote(id))
	}

	if q.ConsoleFamilyID != "" {
		db = db.Where("console_family_id = ?", q.ConsoleFamilyID)
	}

	if q.DateFrom != nil {
		db = db.Where("release_date >= ?", q.DateFrom)
	}
	if q.DateTo != nil {
		db = db.Where("release_date <= ?", q.DateTo)
	}

	if err := db.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	allowedSort := map[string]string{
		"title": "title",
		"date":  "release_date",
	}

	sortField, ok := allowedSort[q.SortBy]
	if !ok {
		sortField = "title"
	}

	sortOrder := "asc"
	if strings.ToLower(q.SortOrder) == "desc" {
		sortOrder = "desc"
	}

	order := fmt.Sprintf("%s %s", sortField, sortOrder)
	if sortField == "release_date" {
		// unknown dates rank last regardless of direction
		order = fmt.Sprintf("release_date IS NULL, %s", order)
	}

	if err := db.
		Order(order).
		Offset(offset).
		Limit(pageSize).
		Find(&results).Error; err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return results, int(count), nil
}

func (s *GameService) Create(g *models.Game) (*models.Game, error) {
	const op = "services.games.Create"

	tx := s.storage.DB.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("%s: %w", op, tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(g).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return g, nil
}

func (s *GameService) Update(id string, fields map[string]any) (*models.Game, error) {
	const op = "services.games.Update"

	tx := s.storage.DB.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("%s: %w", op, tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var existing models.Game
	if err := tx.First(&existing, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Model(&existing).Updates(fields).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetByID(id)
}

func (s *GameService) Delete(id string) error {
	const op = "services.games.Delete"

	tx := s.storage.DB.Begin()
	if tx.Error != nil {
		return fmt.Errorf("%s: %w", op, tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Delete(&models.Game{}, "id = ?", id).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
