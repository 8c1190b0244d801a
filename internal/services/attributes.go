package services

import (
	"errors"
	"fmt"
	"log/slog"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"game_inventory/internal/models"
	"game_inventory/internal/storage"
	"game_inventory/internal/storage/mariadb"
)

type AttributeService struct {
	storage *mariadb.Storage
	log     *slog.Logger
}

func NewAttributeService(s *mariadb.Storage, log *slog.Logger) *AttributeService {
	return &AttributeService{
		storage: s,
		log:     log,
	}
}

func (s *AttributeService) GetAll() ([]models.Attribute, error) {
	const op = "services.attributes.GetAll"

	var results []models.Attribute
	if err := s.storage.DB.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return results, nil
}

// GetGlobal lists the attributes that appear as structured fields on every
// game form; their definitions type the custom attribute maps.
func (s *AttributeService) GetGlobal() ([]models.Attribute, error) {
	const op = "services.attributes.GetGlobal"

	var results []models.Attribute
	rows := s.storage.DB.Where("is_global = ?", true).Find(&results)
	if rows.Error != nil {
		return nil, fmt.Errorf("%s: %w", op, rows.Error)
	}

	return results, nil
}

func (s *AttributeService) GetByID(id string) (*models.Attribute, error) {
	const op = "services.attributes.GetByID"

	var a models.Attribute
	if err := s.storage.DB.First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &a, nil
}

func (s *AttributeService) Create(a *models.Attribute) (*models.Attribute, error) {
	const op = "services.attributes.Create"

	if !a.Type.Valid() {
		return nil, fmt.Errorf("%s: invalid attribute type %q", op, a.Type)
	}

	if a.Type == models.AttributeSelect && len(a.Options) == 0 {
		return nil, fmt.Errorf("%s: select attribute needs options", op)
	}

	if err := s.storage.DB.Create(a).Error; err != nil {
		// attribute names carry a unique index
		var mysqlErr *gomysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return a, nil
}

func (s *AttributeService) Delete(id string) error {
	const op = "services.attributes.Delete"

	if err := s.storage.DB.Delete(&models.Attribute{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
