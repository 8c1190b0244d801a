package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"game_inventory/internal/models"
)

type CompletionTypeServicer interface {
	GetAll() ([]models.CompletionType, error)
	GetByID(id string) (*models.CompletionType, error)
	Create(c *models.CompletionType) (*models.CompletionType, error)
	Delete(id string) error
}

type CreateCompletionTypeRequest struct {
	Name string `json:"name"`
}

type CompletionTypeController struct {
	service CompletionTypeServicer
	log     *slog.Logger
}

func NewCompletionTypeController(s CompletionTypeServicer, log *slog.Logger) *CompletionTypeController {
	return &CompletionTypeController{
		service: s,
		log:     log,
	}
}

func (c *CompletionTypeController) GetAll(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.completiontypes.GetAll"

	types, err := c.service.GetAll()
	if err != nil {
		c.log.Error(
			"failed to get completion types",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, "failed to get completion types", http.StatusInternalServerError)
		return
	}

	if err := respondJSON(w, http.StatusOK, types); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *CompletionTypeController) GetByID(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.completiontypes.GetByID"

	id := chi.URLParam(r, "id")

	completionType, err := c.service.GetByID(id)
	if err != nil {
		c.log.Error(
			"failed to get completion type",
			slog.String("operation", op),
			slog.String("id", id),
			slog.String("error", err.Error()))
		http.Error(w, "completion type not found", http.StatusNotFound)
		return
	}

	if err := respondJSON(w, http.StatusOK, completionType); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *CompletionTypeController) Create(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.completiontypes.Create"

	var request CreateCompletionTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		c.log.Error(
			ErrBadRequest.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	if request.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	created, err := c.service.Create(&models.CompletionType{Name: request.Name})
	if err != nil {
		c.log.Error(
			ErrCreate.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, ErrCreate.Error(), http.StatusInternalServerError)
		return
	}

	if err := respondJSON(w, http.StatusCreated, created); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *CompletionTypeController) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.completiontypes.Delete"

	id := chi.URLParam(r, "id")

	if err := c.service.Delete(id); err != nil {
		c.log.Error(
			ErrDelete.Error(),
			slog.String("operation", op),
			slog.String("id", id),
			slog.String("error", err.Error()))
		http.Error(w, ErrDelete.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
