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

type CompletionTypeService struct {
	storage *mariadb.Storage
	log     *slog.Logger
}

func NewCompletionTypeService(s *mariadb.Storage, log *slog.Logger) *CompletionTypeService {
	return &CompletionTypeService{
		storage: s,
		log:     log,
	}
}

func (s *CompletionTypeService) GetAll() ([]models.CompletionType, error) {
	const op = "services.completiontypes.GetAll"

	var results []models.CompletionType
	if err := s.storage.DB.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return results, nil
}

func (s *CompletionTypeService) GetByID(id string) (*models.CompletionType, error) {
	const op = "services.completiontypes.GetByID"

	var c models.CompletionType
	if err := s.storage.DB.First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &c, nil
}

func (s *CompletionTypeService) Create(c *models.CompletionType) (*models.CompletionType, error) {
	const op = "services.completiontypes.Create"

	if c.Name == "" {
		return nil, fmt.Errorf("%s: name is required", op)
	}

	if err := s.storage.DB.Create(c).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func (s *CompletionTypeService) Delete(id string) error {
	const op = "services.completiontypes.Delete"

	if err := s.storage.DB.Delete(&models.CompletionType{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
