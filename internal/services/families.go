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

type FamilyService struct {
	storage *mariadb.Storage
	log     *slog.Logger
}

func NewFamilyService(s *mariadb.Storage, log *slog.Logger) *FamilyService {
	return &FamilyService{
		storage: s,
		log:     log,
	}
}

func (s *FamilyService) GetAll() ([]models.ConsoleFamily, error) {
	const op = "services.families.GetAll"

	var results []models.ConsoleFamily
	if err := s.storage.DB.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return results, nil
}

func (s *FamilyService) GetByID(id string) (*models.ConsoleFamily, error) {
	const op = "services.families.GetByID"

	var f models.ConsoleFamily
	if err := s.storage.DB.First(&f, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &f, nil
}

func (s *FamilyService) Search(query string) ([]models.ConsoleFamily, error) {
	const op = "services.families.Search"

	var results []models.ConsoleFamily
	rows := s.storage.DB.
		Where("name LIKE ?", "%"+query+"%").
		Or("developer LIKE ?", "%"+query+"%").
		Find(&results)
	if rows.Error != nil {
		return nil, fmt.Errorf("%s: %w", op, rows.Error)
	}

	return results, nil
}

func (s *FamilyService) Create(f *models.ConsoleFamily) (*models.ConsoleFamily, error) {
	const op = "services.families.Create"

	if err := s.storage.DB.Create(f).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return f, nil
}

func (s *FamilyService) Update(id string, fields map[string]any) (*models.ConsoleFamily, error) {
	const op = "services.families.Update"

	var existing models.ConsoleFamily
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

func (s *FamilyService) Delete(id string) error {
	const op = "services.families.Delete"

	if err := s.storage.DB.Delete(&models.ConsoleFamily{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
