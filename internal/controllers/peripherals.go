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

type PeripheralServicer interface {
	GetAll() ([]models.Peripheral, error)
	GetByID(id string) (*models.Peripheral, error)
	Search(query string) ([]models.Peripheral, error)
	GetByFamily(familyID string) ([]models.Peripheral, error)
	Create(p *models.Peripheral) (*models.Peripheral, error)
	Update(id string, fields map[string]any) (*models.Peripheral, error)
	Delete(id string) error
}

type CreatePeripheralRequest struct {
	Name             string         `json:"name"`
	ConsoleFamilyID  string         `json:"consoleFamilyId"`
	Quantity         int            `json:"quantity"`
	Color            string         `json:"color"`
	Picture          string         `json:"picture"`
	CustomAttributes map[string]any `json:"customAttributes"`
}

type UpdatePeripheralRequest struct {
	Name             *string        `json:"name"`
	ConsoleFamilyID  *string        `json:"consoleFamilyId"`
	Quantity         *int           `json:"quantity"`
	Color            *string        `json:"color"`
	Picture          *string        `json:"picture"`
	CustomAttributes map[string]any `json:"customAttributes"`
}

type PeripheralController struct {
	service    PeripheralServicer
	attributes AttributeProvider
	log        *slog.Logger
	uploads    uploads.IUploads
}

func NewPeripheralController(s PeripheralServicer, a AttributeProvider, log *slog.Logger, u uploads.IUploads) *PeripheralController {
	return &PeripheralController{
		service:    s,
		attributes: a,
		log:        log,
		uploads:    u,
	}
}

func (c *PeripheralController) GetAll(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.peripherals.GetAll"

	var (
		peripherals []models.Peripheral
		err         error
	)

	if search := r.URL.Query().Get("search"); search != "" {
		peripherals, err = c.service.Search(search)
	} else {
		peripherals, err = c.service.GetAll()
	}
	if err != nil {
		c.log.Error(
			"failed to get peripherals",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, "failed to get peripherals", http.StatusInternalServerError)
		return
	}

	if err := respondJSON(w, http.StatusOK, peripherals); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *PeripheralController) GetByID(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.peripherals.GetByID"

	id := chi.URLParam(r, "id")

	peripheral, err := c.service.GetByID(id)
	if err != nil {
		c.log.Error(
			"failed to get peripheral",
			slog.String("operation", op),
			slog.String("id", id),
			slog.String("error", err.Error()))
		http.Error(w, "peripheral not found", http.StatusNotFound)
		return
	}

	if err := respondJSON(w, http.StatusOK, peripheral); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *PeripheralController) GetByFamily(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.peripherals.GetByFamily"

	familyID := chi.URLParam(r, "familyId")

	peripherals, err := c.service.GetByFamily(familyID)
	if err != nil {
		c.log.Error(
			"failed to get peripherals by family",
			slog.String("operation", op),
			slog.String("familyId", familyID),
			slog.String("error", err.Error()))
		http.Error(w, "failed to get peripherals", http.StatusInternalServerError)
		return
	}

	if err := respondJSON(w, http.StatusOK, peripherals); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *PeripheralController) Create(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.peripherals.Create"

	var request CreatePeripheralRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		c.log.Error(
			ErrBadRequest.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	if request.Name == "" || request.ConsoleFamilyID == "" {
		http.Error(w, "name and consoleFamilyId are required", http.StatusBadRequest)
		return
	}

	schema, err := c.globalSchema(op)
	if err != nil {
		http.Error(w, ErrCreate.Error(), http.StatusInternalServerError)
		return
	}

	peripheral := &models.Peripheral{
		Name:             request.Name,
		ConsoleFamilyID:  request.ConsoleFamilyID,
		Quantity:         request.Quantity,
		Color:            request.Color,
		Picture:          request.Picture,
		CustomAttributes: attrs.CoerceAll(request.CustomAttributes, schema),
	}

	created, err := c.service.Create(peripheral)
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

func (c *PeripheralController) Update(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.peripherals.Update"

	id := chi.URLParam(r, "id")

	var request UpdatePeripheralRequest
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
	if request.ConsoleFamilyID != nil {
		fields["console_family_id"] = *request.ConsoleFamilyID
	}
	if request.Quantity != nil {
		q := *request.Quantity
		if q < 1 {
			q = 1
		}
		fields["quantity"] = q
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

func (c *PeripheralController) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.peripherals.Delete"

	id := chi.URLParam(r, "id")

	peripheral, err := c.service.GetByID(id)
	if err != nil {
		c.log.Error(
			"failed to get peripheral for delete",
			slog.String("operation", op),
			slog.String("id", id),
			slog.String("error", err.Error()))
		http.Error(w, "peripheral not found", http.StatusNotFound)
		return
	}

	if peripheral.Picture != "" {
		if err := c.uploads.DeletePicture(peripheral.Picture); err != nil {
			// the record still goes away even if the file does not
			c.log.Warn(
				"failed to delete picture",
				slog.String("operation", op),
				slog.String("filename", peripheral.Picture),
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

func (c *PeripheralController) globalSchema(op string) (attrs.Schema, error) {
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
