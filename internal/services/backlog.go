package services

import (
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"game_inventory/internal/listing"
	"game_inventory/internal/models"
	"game_inventory/internal/storage"
	"game_inventory/internal/storage/mariadb"
)

type BacklogService struct {
	storage *mariadb.Storage
	log     *slog.Logger
}

func NewBacklogService(s *mariadb.Storage, log *slog.Logger) *BacklogService {
	return &BacklogService{
		storage: s,
		log:     log,
	}
}

func (s *BacklogService) GetAll() ([]models.Backlog, error) {
	const op = "services.backlog.GetAll"

	var results []models.Backlog
	if err := s.storage.DB.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return listing.OrderHistory(results), nil
}

func (s *BacklogService) GetByID(id string) (*models.Backlog, error) {
	const op = "services.backlog.GetByID"

	var b models.Backlog
	if err := s.storage.DB.First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &b, nil
}

// GetByGame returns a game's completion history, newest first with unknown
// dates last.
func (s *BacklogService) GetByGame(gameID string) ([]models.Backlog, error) {
	const op = "services.backlog.GetByGame"

	var results []models.Backlog
	rows := s.storage.DB.
		Where("game_id = ?", gameID).
		Order("completion_date IS NULL, completion_date DESC").
		Find(&results)
	if rows.Error != nil {
		return nil, fmt.Errorf("%s: %w", op, rows.Error)
	}

	return results, nil
}

func (s *BacklogService) Create(b *models.Backlog) (*models.Backlog, error) {
	const op = "services.backlog.Create"

	if b.GameID == "" {
		return nil, fmt.Errorf("%s: game id is required", op)
	}

	if err := s.storage.DB.Create(b).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b, nil
}

func (s *BacklogService) Update(id string, fields map[string]any) (*models.Backlog, error) {
	const op = "services.backlog.Update"

	var existing models.Backlog
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

func (s *BacklogService) Delete(id string) error {
	const op = "services.backlog.Delete"

	if err := s.storage.DB.Delete(&models.Backlog{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
