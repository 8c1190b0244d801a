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

type ConsoleService struct {
	storage *mariadb.Storage
	log     *slog.Logger
}

func NewConsoleService(s *mariadb.Storage, log *slog.Logger) *ConsoleService {
	return &ConsoleService{
		storage: s,
		log:     log,
	}
}

func (s *ConsoleService) GetAll() ([]models.Console, error) {
	const op = "services.consoles.GetAll"

	var results []models.Console
	if err := s.storage.DB.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return results, nil
}

func (s *ConsoleService) GetByID(id string) (*models.Console, error) {
	const op = "services.consoles.GetByID"

	var c models.Console
	if err := s.storage.DB.First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &c, nil
}

func (s *ConsoleService) Search(query string) ([]models.Console, error) {
	const op = "services.consoles.Search"

	var results []models.Console
	rows := s.storage.DB.
		Where("model LIKE ?", "%"+query+"%").
		Or("region LIKE ?", "%"+query+"%").
		Find(&results)
	if rows.Error != nil {
		return nil, fmt.Errorf("%s: %w", op, rows.Error)
	}

	return results, nil
}

func (s *ConsoleService) GetByFamily(familyID string) ([]models.Console, error) {
	const op = "services.consoles.GetByFamily"

	var results []models.Console
	rows := s.storage.DB.Where("console_family_id = ?", familyID).Find(&results)
	if rows.Error != nil {
		return nil, fmt.Errorf("%s: %w", op, rows.Error)
	}

	return results, nil
}

func (s *ConsoleService) Create(c *models.Console) (*models.Console, error) {
	const op = "services.consoles.Create"

	if err := s.storage.DB.Create(c).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func (s *ConsoleService) Update(id string, fields map[string]any) (*models.Console, error) {
	const op = "services.consoles.Update"

	var existing models.Console
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

func (s *ConsoleService) Delete(id string) error {
	const op = "services.consoles.Delete"

	if err := s.storage.DB.Delete(&models.Console{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
