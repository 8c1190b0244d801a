package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"game_inventory/internal/attrs"
	"game_inventory/internal/models"
)

type BacklogServicer interface {
	GetAll() ([]models.Backlog, error)
	GetByID(id string) (*models.Backlog, error)
	GetByGame(gameID string) ([]models.Backlog, error)
	Create(b *models.Backlog) (*models.Backlog, error)
	Update(id string, fields map[string]any) (*models.Backlog, error)
	Delete(id string) error
}

type CreateBacklogRequest struct {
	GameID           string         `json:"gameId"`
	CompletionDate   string         `json:"completionDate"`
	EndingType       string         `json:"endingType"`
	CompletionTypeID string         `json:"completionTypeId"`
	CustomAttributes map[string]any `json:"customAttributes"`
}

type UpdateBacklogRequest struct {
	CompletionDate   *string        `json:"completionDate"`
	EndingType       *string        `json:"endingType"`
	CompletionTypeID *string        `json:"completionTypeId"`
	CustomAttributes map[string]any `json:"customAttributes"`
}

type BacklogController struct {
	service    BacklogServicer
	attributes AttributeProvider
	log        *slog.Logger
}

func NewBacklogController(s BacklogServicer, a AttributeProvider, log *slog.Logger) *BacklogController {
	return &BacklogController{
		service:    s,
		attributes: a,
		log:        log,
	}
}

// GetAll lists every completion, newest first with unknown dates at the end.
func (c *BacklogController) GetAll(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.backlog.GetAll"

	backlogs, err := c.service.GetAll()
	if err != nil {
		c.log.Error(
			"failed to get backlog",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, "failed to get backlog", http.StatusInternalServerError)
		return
	}

	if err := respondJSON(w, http.StatusOK, backlogs); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *BacklogController) GetByID(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.backlog.GetByID"

	id := chi.URLParam(r, "id")

	backlog, err := c.service.GetByID(id)
	if err != nil {
		c.log.Error(
			"failed to get backlog entry",
			slog.String("operation", op),
			slog.String("id", id),
			slog.String("error", err.Error()))
		http.Error(w, "backlog entry not found", http.StatusNotFound)
		return
	}

	if err := respondJSON(w, http.StatusOK, backlog); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *BacklogController) GetByGame(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.backlog.GetByGame"

	gameID := chi.URLParam(r, "gameId")

	backlogs, err := c.service.GetByGame(gameID)
	if err != nil {
		c.log.Error(
			"failed to get backlog by game",
			slog.String("operation", op),
			slog.String("gameId", gameID),
			slog.String("error", err.Error()))
		http.Error(w, "failed to get backlog", http.StatusInternalServerError)
		return
	}

	if err := respondJSON(w, http.StatusOK, backlogs); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *BacklogController) Create(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.backlog.Create"

	var request CreateBacklogRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		c.log.Error(
			ErrBadRequest.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	if request.GameID == "" {
		http.Error(w, "gameId is required", http.StatusBadRequest)
		return
	}

	schema, err := c.globalSchema(op)
	if err != nil {
		http.Error(w, ErrCreate.Error(), http.StatusInternalServerError)
		return
	}

	// an absent or unparsable date stays NULL, meaning "completed, date unknown"
	backlog := &models.Backlog{
		GameID:           request.GameID,
		CompletionDate:   parseDateParam(request.CompletionDate),
		EndingType:       request.EndingType,
		CompletionTypeID: request.CompletionTypeID,
		CustomAttributes: attrs.CoerceAll(request.CustomAttributes, schema),
	}

	created, err := c.service.Create(backlog)
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

func (c *BacklogController) Update(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.backlog.Update"

	id := chi.URLParam(r, "id")

	var request UpdateBacklogRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		c.log.Error(
			ErrBadRequest.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	fields := map[string]any{}
	if request.CompletionDate != nil {
		if *request.CompletionDate == "" {
			fields["completion_date"] = nil
		} else {
			fields["completion_date"] = parseDateParam(*request.CompletionDate)
		}
	}
	if request.EndingType != nil {
		fields["ending_type"] = *request.EndingType
	}
	if request.CompletionTypeID != nil {
		fields["completion_type_id"] = *request.CompletionTypeID
	}
	if request.CustomAttributes != nil {
		schema, err := c.globalSchema(op)
		if err != nil {
			http.Error(w, ErrUpdate.Error(), http.StatusInternalServerError)
			return
		}
		fields["custom_attributes"] = attrs.CoerceAll(request.CustomAttributes, schema)
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

func (c *BacklogController) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.backlog.Delete"

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

func (c *BacklogController) globalSchema(op string) (attrs.Schema, error) {
	globals, err := c.attributes.GetGlobal()
	if err != nil {
		c.log.Error(
			"failed to load global attributes",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return nil, err
	}
	return attrs.NewSchema(globals), nil
}
