package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"game_inventory/internal/models"
)

type CategoryServicer interface {
	GetAll() ([]models.Category, error)
	GetByType(t models.CategoryType) ([]models.Category, error)
	Search(query string, t models.CategoryType) ([]models.Category, error)
	GetByID(id string) (*models.Category, error)
	Create(c *models.Category) (*models.Category, error)
	Update(id string, fields map[string]any) (*models.Category, error)
	Delete(id string) error
}

type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
}

type CategoryController struct {
	service CategoryServicer
	log     *slog.Logger
}

func NewCategoryController(s CategoryServicer, log *slog.Logger) *CategoryController {
	return &CategoryController{
		service: s,
		log:     log,
	}
}

// GetAll lists categories, narrowed by the optional type and search query
// parameters.
func (c *CategoryController) GetAll(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.categories.GetAll"

	query := r.URL.Query()
	categoryType := models.CategoryType(query.Get("type"))

	if categoryType != "" && !categoryType.Valid() {
		http.Error(w, "invalid category type", http.StatusBadRequest)
		return
	}

	var (
		categories []models.Category
		err        error
	)

	switch {
	case query.Get("search") != "":
		categories, err = c.service.Search(query.Get("search"), categoryType)
	case categoryType != "":
		categories, err = c.service.GetByType(categoryType)
	default:
		categories, err = c.service.GetAll()
	}
	if err != nil {
		c.log.Error(
			"failed to get categories",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, "failed to get categories", http.StatusInternalServerError)
		return
	}

	if err := respondJSON(w, http.StatusOK, categories); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *CategoryController) GetByID(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.categories.GetByID"

	id := chi.URLParam(r, "id")

	category, err := c.service.GetByID(id)
	if err != nil {
		c.log.Error(
			"failed to get category",
			slog.String("operation", op),
			slog.String("id", id),
			slog.String("error", err.Error()))
		http.Error(w, "category not found", http.StatusNotFound)
		return
	}

	if err := respondJSON(w, http.StatusOK, category); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.categories.Create"

	var request CreateCategoryRequest
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

	categoryType := models.CategoryType(request.Type)
	if !categoryType.Valid() {
		http.Error(w, "invalid category type", http.StatusBadRequest)
		return
	}

	category := &models.Category{
		Name:        request.Name,
		Type:        categoryType,
		Description: request.Description,
	}

	created, err := c.service.Create(category)
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

func (c *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.categories.Update"

	id := chi.URLParam(r, "id")

	var request UpdateCategoryRequest
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
	if request.Type != nil {
		categoryType := models.CategoryType(*request.Type)
		if !categoryType.Valid() {
			http.Error(w, "invalid category type", http.StatusBadRequest)
			return
		}
		fields["type"] = categoryType
	}
	if request.Description != nil {
		fields["description"] = *request.Description
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

func (c *CategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.categories.Delete"

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
