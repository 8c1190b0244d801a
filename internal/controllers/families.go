package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"game_inventory/internal/models"
)

type FamilyServicer interface {
	GetAll() ([]models.ConsoleFamily, error)
	GetByID(id string) (*models.ConsoleFamily, error)
	Search(query string) ([]models.ConsoleFamily, error)
	Create(f *models.ConsoleFamily) (*models.ConsoleFamily, error)
	Update(id string, fields map[string]any) (*models.ConsoleFamily, error)
	Delete(id string) error
}

type CreateFamilyRequest struct {
	Name       string `json:"name"`
	Developer  string `json:"developer"`
	Generation string `json:"generation"`
}

type UpdateFamilyRequest struct {
	Name       *string `json:"name"`
	Developer  *string `json:"developer"`
	Generation *string `json:"generation"`
}

type FamilyController struct {
	service FamilyServicer
	log     *slog.Logger
}

func NewFamilyController(s FamilyServicer, log *slog.Logger) *FamilyController {
	return &FamilyController{
		service: s,
		log:     log,
	}
}

func (c *FamilyController) GetAll(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.families.GetAll"

	var (
		families []models.ConsoleFamily
		err      error
	)

	if search := r.URL.Query().Get("search"); search != "" {
		families, err = c.service.Search(search)
	} else {
		families, err = c.service.GetAll()
	}
	if err != nil {
		c.log.Error(
			"failed to get console families",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, "failed to get console families", http.StatusInternalServerError)
		return
	}

	if err := respondJSON(w, http.StatusOK, families); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *FamilyController) GetByID(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.families.GetByID"

	id := chi.URLParam(r, "id")

	family, err := c.service.GetByID(id)
	if err != nil {
		c.log.Error(
			"failed to get console family",
			slog.String("operation", op),
			slog.String("id", id),
			slog.String("error", err.Error()))
		http.Error(w, "console family not found", http.StatusNotFound)
		return
	}

	if err := respondJSON(w, http.StatusOK, family); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *FamilyController) Create(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.families.Create"

	var request CreateFamilyRequest
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

	family := &models.ConsoleFamily{
		Name:       request.Name,
		Developer:  request.Developer,
		Generation: request.Generation,
	}

	created, err := c.service.Create(family)
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

func (c *FamilyController) Update(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.families.Update"

	id := chi.URLParam(r, "id")

	var request UpdateFamilyRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		c.log.Error(
			ErrBadRequest.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	fields := map[string]any{}
	if request.Name != nil {
		if *request.Name == "" {
			http.Error(w, "name cannot be empty", http.StatusBadRequest)
			return
		}
		fields["name"] = *request.Name
	}
	if request.Developer != nil {
		fields["developer"] = *request.Developer
	}
	if request.Generation != nil {
		fields["generation"] = *request.Generation
	}

	if len(fields) == 0 {
		http.Error(w, "no fields to update", http.StatusBadRequest)
		return
	}

	updated, err := c.service.Update(id, fields)
	if err != nil {
		c.log.Error(
			ErrUpdate.Error(),
			slog.String("operation", op),
			slog.String("id", id),
			slog.String("error", err.Error()))
		http.Error(w, ErrUpdate.Error(), http.StatusInternalServerError)
		return
	}

	if err := respondJSON(w, http.StatusOK, updated); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *FamilyController) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.families.Delete"

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
