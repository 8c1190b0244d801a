package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"game_inventory/internal/attrs"
	"game_inventory/internal/models"
	"game_inventory/internal/storage/uploads"
)

type ConsoleServicer interface {
	GetAll() ([]models.Console, error)
	GetByID(id string) (*models.Console, error)
	Search(query string) ([]models.Console, error)
	GetByFamily(familyID string) ([]models.Console, error)
	Create(c *models.Console) (*models.Console, error)
	Update(id string, fields map[string]any) (*models.Console, error)
	Delete(id string) error
}

type CreateConsoleRequest struct {
	ConsoleFamilyID  string         `json:"consoleFamilyId"`
	Model            string         `json:"model"`
	ReleaseDate      string         `json:"releaseDate"`
	Region           string         `json:"region"`
	Color            string         `json:"color"`
	Picture          string         `json:"picture"`
	CustomAttributes map[string]any `json:"customAttributes"`
}

type UpdateConsoleRequest struct {
	ConsoleFamilyID  *string        `json:"consoleFamilyId"`
	Model            *string        `json:"model"`
	ReleaseDate      *string        `json:"releaseDate"`
	Region           *string        `json:"region"`
	Color            *string        `json:"color"`
	Picture          *string        `json:"picture"`
	CustomAttributes map[string]any `json:"customAttributes"`
}

type ConsoleController struct {
	service    ConsoleServicer
	attributes AttributeProvider
	log        *slog.Logger
	uploads    uploads.IUploads
}

func NewConsoleController(s ConsoleServicer, a AttributeProvider, log *slog.Logger, u uploads.IUploads) *ConsoleController {
	return &ConsoleController{
		service:    s,
		attributes: a,
		log:        log,
		uploads:    u,
	}
}

func (c *ConsoleController) GetAll(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.consoles.GetAll"

	var (
		consoles []models.Console
		err      error
	)

	if search := r.URL.Query().Get("search"); search != "" {
		consoles, err = c.service.Search(search)
	} else {
		consoles, err = c.service.GetAll()
	}
	if err != nil {
		c.log.Error(
			"failed to get consoles",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, "failed to get consoles", http.StatusInternalServerError)
		return
	}

	if err := respondJSON(w, http.StatusOK, consoles); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *ConsoleController) GetByID(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.consoles.GetByID"

	id := chi.URLParam(r, "id")

	console, err := c.service.GetByID(id)
	if err != nil {
		c.log.Error(
			"failed to get console",
			slog.String("operation", op),
			slog.String("id", id),
			slog.String("error", err.Error()))
		http.Error(w, "console not found", http.StatusNotFound)
		return
	}

	if err := respondJSON(w, http.StatusOK, console); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *ConsoleController) GetByFamily(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.consoles.GetByFamily"

	familyID := chi.URLParam(r, "familyId")

	consoles, err := c.service.GetByFamily(familyID)
	if err != nil {
		c.log.Error(
			"failed to get consoles by family",
			slog.String("operation", op),
			slog.String("familyId", familyID),
			slog.String("error", err.Error()))
		http.Error(w, "failed to get consoles", http.StatusInternalServerError)
		return
	}

	if err := respondJSON(w, http.StatusOK, consoles); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *ConsoleController) Create(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.consoles.Create"

	var request CreateConsoleRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		c.log.Error(
			ErrBadRequest.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	if request.ConsoleFamilyID == "" || request.Model == "" {
		http.Error(w, "consoleFamilyId and model are required", http.StatusBadRequest)
		return
	}

	schema, err := c.globalSchema(op)
	if err != nil {
		http.Error(w, ErrCreate.Error(), http.StatusInternalServerError)
		return
	}

	console := &models.Console{
		ConsoleFamilyID:  request.ConsoleFamilyID,
		Model:            request.Model,
		ReleaseDate:      parseDateParam(request.ReleaseDate),
		Region:           request.Region,
		Color:            request.Color,
		Picture:          request.Picture,
		CustomAttributes: attrs.CoerceAll(request.CustomAttributes, schema),
	}

	created, err := c.service.Create(console)
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

func (c *ConsoleController) Update(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.consoles.Update"

	id := chi.URLParam(r, "id")

	var request UpdateConsoleRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		c.log.Error(
			ErrBadRequest.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	fields := map[string]any{}
	if request.ConsoleFamilyID != nil {
		fields["console_family_id"] = *request.ConsoleFamilyID
	}
	if request.Model != nil {
		fields["model"] = *request.Model
	}
	if request.ReleaseDate != nil {
		if *request.ReleaseDate == "" {
			fields["release_date"] = nil
		} else {
			fields["release_date"] = parseDateParam(*request.ReleaseDate)
		}
	}
	if request.Region != nil {
		fields["region"] = *request.Region
	}
	if request.Color != nil {
		fields["color"] = *request.Color
	}
	if request.Picture != nil {
		fields["picture"] = *request.Picture
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

func (c *ConsoleController) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.consoles.Delete"

	id := chi.URLParam(r, "id")

	console, err := c.service.GetByID(id)
	if err != nil {
		c.log.Error(
			"failed to get console for delete",
			slog.String("operation", op),
			slog.String("id", id),
			slog.String("error", err.Error()))
		http.Error(w, "console not found", http.StatusNotFound)
		return
	}

	if console.Picture != "" {
		if err := c.uploads.DeletePicture(console.Picture); err != nil {
			// the record still goes away even if the file does not
			c.log.Warn(
				"failed to delete picture",
				slog.String("operation", op),
				slog.String("filename", console.Picture),
				slog.String("error", err.Error()))
		}
	}

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

func (c *ConsoleController) globalSchema(op string) (attrs.Schema, error) {
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
