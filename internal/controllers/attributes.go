package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"gorm.io/datatypes"

	"game_inventory/internal/models"
	"game_inventory/internal/storage"
)

type AttributeServicer interface {
	GetAll() ([]models.Attribute, error)
	GetGlobal() ([]models.Attribute, error)
	GetByID(id string) (*models.Attribute, error)
	Create(a *models.Attribute) (*models.Attribute, error)
	Delete(id string) error
}

type CreateAttributeRequest struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Options  []string `json:"options"`
	IsGlobal bool     `json:"isGlobal"`
}

type AttributeController struct {
	service AttributeServicer
	log     *slog.Logger
}

func NewAttributeController(s AttributeServicer, log *slog.Logger) *AttributeController {
	return &AttributeController{
		service: s,
		log:     log,
	}
}

func (c *AttributeController) GetAll(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.attributes.GetAll"

	attributes, err := c.service.GetAll()
	if err != nil {
		c.log.Error(
			"failed to get attributes",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, "failed to get attributes", http.StatusInternalServerError)
		return
	}

	if err := respondJSON(w, http.StatusOK, attributes); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *AttributeController) GetGlobal(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.attributes.GetGlobal"

	attributes, err := c.service.GetGlobal()
	if err != nil {
		c.log.Error(
			"failed to get global attributes",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, "failed to get global attributes", http.StatusInternalServerError)
		return
	}

	if err := respondJSON(w, http.StatusOK, attributes); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *AttributeController) GetByID(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.attributes.GetByID"

	id := chi.URLParam(r, "id")

	attribute, err := c.service.GetByID(id)
	if err != nil {
		c.log.Error(
			"failed to get attribute",
			slog.String("operation", op),
			slog.String("id", id),
			slog.String("error", err.Error()))
		http.Error(w, "attribute not found", http.StatusNotFound)
		return
	}

	if err := respondJSON(w, http.StatusOK, attribute); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *AttributeController) Create(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.attributes.Create"

	var request CreateAttributeRequest
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

	attributeType := models.AttributeType(request.Type)
	if !attributeType.Valid() {
		http.Error(w, "invalid attribute type", http.StatusBadRequest)
		return
	}

	attribute := &models.Attribute{
		Name:     request.Name,
		Type:     attributeType,
		Options:  datatypes.NewJSONSlice(request.Options),
		IsGlobal: request.IsGlobal,
	}

	created, err := c.service.Create(attribute)
	if err != nil {
		c.log.Error(
			ErrCreate.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		if errors.Is(err, storage.ErrExists) {
			http.Error(w, "attribute already exists", http.StatusConflict)
			return
		}
		http.Error(w, ErrCreate.Error(), http.StatusInternalServerError)
		return
	}

	if err := respondJSON(w, http.StatusCreated, created); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *AttributeController) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.attributes.Delete"

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
