package services

import (
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"game_inventory/internal/models"
	"game_inventory/internal/storage"
	"game_inventory/internal/storage/mariadb"
)

type CategoryService struct {
	storage *mariadb.Storage
	log     *slog.Logger
}

func NewCategoryService(s *mariadb.Storage, log *slog.Logger) *CategoryService {
	return &CategoryService{
		storage: s,
		log:     log,
	}
}

func (s *CategoryService) GetAll() ([]models.Category, error) {
	const op = "services.categories.GetAll"

	var results []models.Category
	if err := s.storage.DB.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return results, nil
}

func (s *CategoryService) GetByType(t models.CategoryType) ([]models.Category, error) {
	const op = "services.categories.GetByType"

	var results []models.Category
	rows := s.storage.DB.Where("type = ?", t).Find(&results)
	if rows.Error != nil {
		return nil, fmt.Errorf("%s: %w", op, rows.Error)
	}

	return results, nil
}

// Search finds categories by name, optionally constrained to one type.
func (s *CategoryService) Search(query string, t models.CategoryType) ([]models.Category, error) {
	const op = "services.categories.Search"

	db := s.storage.DB.Where("name LIKE ?", "%"+query+"%")
	if t != "" {
		db = db.Where("type = ?", t)
	}

	var results []models.Category
	if err := db.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return results, nil
}

func (s *CategoryService) GetByID(id string) (*models.Category, error) {
	const op = "services.categories.GetByID"

	var c models.Category
	if err := s.storage.DB.First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &c, nil
}

func (s *CategoryService) Create(c *models.Category) (*models.Category, error) {
	const op = "services.categories.Create"

	if !c.Type.Valid() {
		return nil, fmt.Errorf("%s: invalid category type %q", op, c.Type)
	}

	if err := s.storage.DB.Create(c).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func (s *CategoryService) Update(id string, fields map[string]any) (*models.Category, error) {
	const op = "services.categories.Update"

	if t, ok := fields["type"]; ok {
		ct, _ := t.(models.CategoryType)
		if !ct.Valid() {
			return nil, fmt.Errorf("%s: invalid category type %q", op, t)
		}
	}

	var existing models.Category
	if err := s.storage.DB.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.DB.Model(&existing).Updates(fields).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetByID(id)
}

func (s *CategoryService) Delete(id string) error {
	const op = "services.categories.Delete"

	if err := s.storage.DB.Delete(&models.Category{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
