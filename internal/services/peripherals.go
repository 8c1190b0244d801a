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

type PeripheralService struct {
	storage *mariadb.Storage
	log     *slog.Logger
}

func NewPeripheralService(s *mariadb.Storage, log *slog.Logger) *PeripheralService {
	return &PeripheralService{
		storage: s,
		log:     log,
	}
}

func (s *PeripheralService) GetAll() ([]models.Peripheral, error) {
	const op = "services.peripherals.GetAll"

	var results []models.Peripheral
	if err := s.storage.DB.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return results, nil
}

func (s *PeripheralService) GetByID(id string) (*models.Peripheral, error) {
	const op = "services.peripherals.GetByID"

	var p models.Peripheral
	if err := s.storage.DB.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &p, nil
}

func (s *PeripheralService) Search(query string) ([]models.Peripheral, error) {
	const op = "services.peripherals.Search"

	var results []models.Peripheral
	rows := s.storage.DB.Where("name LIKE ?", "%"+query+"%").Find(&results)
	if rows.Error != nil {
		return nil, fmt.Errorf("%s: %w", op, rows.Error)
	}

	return results, nil
}

func (s *PeripheralService) GetByFamily(familyID string) ([]models.Peripheral, error) {
	const op = "services.peripherals.GetByFamily"

	var results []models.Peripheral
	rows := s.storage.DB.Where("console_family_id = ?", familyID).Find(&results)
	if rows.Error != nil {
		return nil, fmt.Errorf("%s: %w", op, rows.Error)
	}

	return results, nil
}

func (s *PeripheralService) Create(p *models.Peripheral) (*models.Peripheral, error) {
	const op = "services.peripherals.Create"

	if p.Quantity < 1 {
		p.Quantity = 1
	}

	if err := s.storage.DB.Create(p).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (s *PeripheralService) Update(id string, fields map[string]any) (*models.Peripheral, error) {
	const op = "services.peripherals.Update"

	var existing models.Peripheral
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

func (s *PeripheralService) Delete(id string) error {
	const op = "services.peripherals.Delete"

	if err := s.storage.DB.Delete(&models.Peripheral{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
