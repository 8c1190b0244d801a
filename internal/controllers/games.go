package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"game_inventory/internal/attrs"
	"game_inventory/internal/listing"
	"game_inventory/internal/models"
	"game_inventory/internal/services"
	"game_inventory/internal/storage/uploads"
	"game_inventory/utils"

	"github.com/go-chi/chi/v5"
	"gorm.io/datatypes"
)

type GameServicer interface {
	GetAll() ([]models.Game, error)
	GetByID(id string) (*models.Game, error)
	Search(query string) ([]models.Game, error)
	GetByCategory(categoryID string) ([]models.Game, error)
	GetPaginated(q services.GameQuery) ([]models.Game, int, error)
	Create(g *models.Game) (*models.Game, error)
	Update(id string, fields map[string]any) (*models.Game, error)
	Delete(id string) error
}

// AttributeProvider supplies the global attribute definitions used to type
// incoming custom attribute values.
type AttributeProvider interface {
	GetGlobal() ([]models.Attribute, error)
}

type CreateGameRequest struct {
	Title            string         `json:"title"`
	AlternateTitles  []string       `json:"alternateTitles"`
	CoverArt         string         `json:"coverArt"`
	ReleaseDate      string         `json:"releaseDate"`
	ConsoleFamilyID  string         `json:"consoleFamilyId"`
	ConsoleID        string         `json:"consoleId"`
	Developer        string         `json:"developer"`
	Region           string         `json:"region"`
	PhysicalDigital  string         `json:"physicalDigital"`
	CategoryIDs      []string       `json:"categoryIds"`
	CustomAttributes map[string]any `json:"customAttributes"`
}

type UpdateGameRequest struct {
	Title            *string         `json:"title"`
	AlternateTitles  *[]string       `json:"alternateTitles"`
	CoverArt         *string         `json:"coverArt"`
	ReleaseDate      *string         `json:"releaseDate"`
	ConsoleFamilyID  *string         `json:"consoleFamilyId"`
	ConsoleID        *string         `json:"consoleId"`
	Developer        *string         `json:"developer"`
	Region           *string         `json:"region"`
	PhysicalDigital  *string         `json:"physicalDigital"`
	CategoryIDs      *[]string       `json:"categoryIds"`
	CustomAttributes *map[string]any `json:"customAttributes"`
}

type RequestGame struct {
	Name string `json:"name"`
}

type RequestData struct {
	Games []RequestGame `json:"games"`
}

type MultiGameResponse struct {
	Success []*models.Game `json:"success"`
	Errors  []string       `json:"errors"`
}

type GameController struct {
	service    GameServicer
	attributes AttributeProvider
	log        *slog.Logger
	uploads    uploads.IUploads
}

func NewGameController(s GameServicer, a AttributeProvider, log *slog.Logger, u uploads.IUploads) *GameController {
	return &GameController{
		service:    s,
		attributes: a,
		log:        log,
		uploads:    u,
	}
}

// GetAll serves the list in two shapes. With page or limit present the
// filter pipeline runs inside the database and the page envelope carries
// totals; otherwise the full cached set is filtered in memory and the plain
// item array is returned, mirroring the original list view.
func (c *GameController) GetAll(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.GetAll"

	query := r.URL.Query()

	if query.Has("page") || query.Has("limit") {
		c.getPaginated(w, r)
		return
	}

	var (
		games    []models.Game
		err      error
		searched bool
	)

	if search := firstNonEmpty(query.Get("search"), query.Get("query")); search != "" {
		// free text search is delegated and not composed with local filters
		games, err = c.service.Search(search)
		searched = true
	} else {
		games, err = c.service.GetAll()
	}
	if err != nil {
		c.log.Error(
			ErrGetGames.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, ErrGetGames.Error(), http.StatusInternalServerError)
		return
	}

	filters := filtersFromQuery(r)
	filters.Query = ""

	visible := gamePointers(games)
	if searched {
		listing.SortItems(visible, filters.Sort)
	} else {
		visible = listing.Apply(visible, filters)
	}

	if err := respondJSON(w, http.StatusOK, visible); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *GameController) getPaginated(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.getPaginated"

	query := r.URL.Query()

	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(query.Get("limit"))
	if err != nil || limit < 1 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}

	sortBy, sortOrder := parseSortParam(query.Get("sortBy"))

	q := services.GameQuery{
		Search:          firstNonEmpty(query.Get("query"), query.Get("search")),
		CategoryIDs:     categoryIDsFromQuery(r),
		ConsoleFamilyID: query.Get("consoleFamilyId"),
		DateFrom:        parseDateParam(query.Get("dateFrom")),
		DateTo:          parseDateParam(query.Get("dateTo")),
		SortBy:          sortBy,
		SortOrder:       sortOrder,
		Page:            page,
		PageSize:        limit,
	}

	games, total, err := c.service.GetPaginated(q)
	if err != nil {
		c.log.Error(
			ErrGetGames.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, ErrGetGames.Error(), http.StatusInternalServerError)
		return
	}

	response := listing.NewPage(games, total, page, limit)

	if err := respondJSON(w, http.StatusOK, response); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *GameController) GetByID(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.GetByID"

	id := chi.URLParam(r, "id")

	res, err := c.service.GetByID(id)
	if err != nil {
		c.log.Error(
			ErrGetGame.Error(),
			slog.String("operation", op),
			slog.String("id", id),
			slog.String("error", err.Error()))
		http.Error(w, ErrGetGame.Error(), http.StatusNotFound)
		return
	}

	if err := respondJSON(w, http.StatusOK, res); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *GameController) GetByCategory(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.GetByCategory"

	categoryID := chi.URLParam(r, "categoryId")

	games, err := c.service.GetByCategory(categoryID)
	if err != nil {
		c.log.Error(
			ErrGetGames.Error(),
			slog.String("operation", op),
			slog.String("category_id", categoryID),
			slog.String("error", err.Error()))
		http.Error(w, ErrGetGames.Error(), http.StatusInternalServerError)
		return
	}

	if err := respondJSON(w, http.StatusOK, games); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *GameController) Create(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.Create"

	var request CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		c.log.Error(ErrBadRequest.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(request.Title) == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}
	if request.ConsoleFamilyID == "" {
		http.Error(w, "consoleFamilyId is required", http.StatusBadRequest)
		return
	}

	schema, err := c.globalSchema(op)
	if err != nil {
		http.Error(w, ErrCreate.Error(), http.StatusInternalServerError)
		return
	}

	game := &models.Game{
		Title:            request.Title,
		AlternateTitles:  datatypes.NewJSONSlice(request.AlternateTitles),
		CoverArt:         request.CoverArt,
		ReleaseDate:      parseDateParam(request.ReleaseDate),
		ConsoleFamilyID:  request.ConsoleFamilyID,
		ConsoleID:        request.ConsoleID,
		Developer:        request.Developer,
		Region:           request.Region,
		PhysicalDigital:  mediaFormat(request.PhysicalDigital),
		CategoryIDs:      datatypes.NewJSONSlice(request.CategoryIDs),
		CustomAttributes: attrs.CoerceAll(request.CustomAttributes, schema),
	}

	res, err := c.service.Create(game)
	if err != nil {
		c.log.Error(ErrCreate.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		http.Error(w, ErrCreate.Error(), http.StatusInternalServerError)
		return
	}

	if err := respondJSON(w, http.StatusCreated, res); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *GameController) Update(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.Update"

	id := chi.URLParam(r, "id")

	var request UpdateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		c.log.Error(ErrBadRequest.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	fields := map[string]any{}
	if request.Title != nil {
		if strings.TrimSpace(*request.Title) == "" {
			http.Error(w, "title is required", http.StatusBadRequest)
			return
		}
		fields["title"] = *request.Title
	}
	if request.AlternateTitles != nil {
		fields["alternate_titles"] = datatypes.NewJSONSlice(*request.AlternateTitles)
	}
	if request.CoverArt != nil {
		fields["cover_art"] = *request.CoverArt
	}
	if request.ReleaseDate != nil {
		fields["release_date"] = parseDateParam(*request.ReleaseDate)
	}
	if request.ConsoleFamilyID != nil {
		fields["console_family_id"] = *request.ConsoleFamilyID
	}
	if request.ConsoleID != nil {
		fields["console_id"] = *request.ConsoleID
	}
	if request.Developer != nil {
		fields["developer"] = *request.Developer
	}
	if request.Region != nil {
		fields["region"] = *request.Region
	}
	if request.PhysicalDigital != nil {
		fields["physical_digital"] = mediaFormat(*request.PhysicalDigital)
	}
	if request.CategoryIDs != nil {
		fields["category_ids"] = datatypes.NewJSONSlice(*request.CategoryIDs)
	}
	if request.CustomAttributes != nil {
		schema, err := c.globalSchema(op)
		if err != nil {
			http.Error(w, ErrUpdate.Error(), http.StatusInternalServerError)
			return
		}
		fields["custom_attributes"] = attrs.CoerceAll(*request.CustomAttributes, schema)
	}

	if len(fields) == 0 {
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	res, err := c.service.Update(id, fields)
	if err != nil {
		c.log.Error(ErrUpdate.Error(), slog.String("operation", op), slog.String("id", id), slog.String("error", err.Error()))
		http.Error(w, ErrUpdate.Error(), http.StatusInternalServerError)
		return
	}

	if err := respondJSON(w, http.StatusOK, res); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *GameController) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.Delete"

	id := chi.URLParam(r, "id")

	game, err := c.service.GetByID(id)
	if err != nil {
		c.log.Error(
			ErrNotFound.Error(),
			slog.String("operation", op),
			slog.String("id", id),
			slog.String("error", err.Error()))
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}

	// a managed cover file goes with the record; a missing file is only logged
	if game.CoverArt != "" {
		if err := c.uploads.DeletePicture(game.CoverArt); err != nil {
			c.log.Warn(
				"failed to delete cover art",
				slog.String("operation", op),
				slog.String("filename", game.CoverArt),
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

// CreateMulti creates games in bulk from Wikipedia lookups by name.
func (c *GameController) CreateMulti(w http.ResponseWriter, r *http.Request) {
	var request RequestData

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		c.log.Error(ErrBadRequest.Error(), slog.String("error", err.Error()))
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	if len(request.Games) == 0 {
		c.log.Error(ErrBadRequest.Error(), slog.String("error", "no game names"))
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	if len(request.Games) > 100 {
		c.log.Error(ErrTooManyGames.Error(), slog.String("error", "over 100 games"))
		http.Error(w, ErrTooManyGames.Error(), http.StatusBadRequest)
		return
	}

	var (
		maxWorkers  = 10
		sem         = make(chan struct{}, maxWorkers)
		wg          sync.WaitGroup
		errChan     = make(chan error, len(request.Games))
		resultsChan = make(chan *models.Game, len(request.Games))
	)

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	for _, game := range request.Games {
		sem <- struct{}{}
		wg.Add(1)
		go func(name string) {
			defer func() {
				<-sem
				wg.Done()
			}()

			created, err := c.createFromWiki(ctx, name)
			if err != nil {
				errChan <- err
				return
			}
			resultsChan <- created
		}(game.Name)
	}

	go func() {
		wg.Wait()
		close(errChan)
		close(resultsChan)
	}()

	var createErrors []string
	var createdGames []*models.Game

	for err := range errChan {
		createErrors = append(createErrors, err.Error())
	}

	for res := range resultsChan {
		createdGames = append(createdGames, res)
	}

	response := MultiGameResponse{
		Success: createdGames,
		Errors:  createErrors,
	}

	status := http.StatusCreated

	if len(createErrors) > 0 {
		if len(createdGames) == 0 {
			status = http.StatusInternalServerError
		} else {
			status = http.StatusMultiStatus
		}
		c.log.Warn(
			ErrPartialCreate.Error(),
			slog.Int("success_count", len(createdGames)),
			slog.Int("error_count", len(createErrors)),
		)
	} else {
		c.log.Info("games created", slog.Int("count", len(createdGames)))
	}

	if err := respondJSON(w, status, response); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *GameController) createFromWiki(ctx context.Context, name string) (*models.Game, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	pageURL, err := utils.FindGameWiki(ctx, name)
	if err != nil {
		c.log.Error(
			ErrGameWiki.Error(),
			slog.String("error", err.Error()),
			slog.String("game", name))
		return nil, fmt.Errorf(ErrGameWiki.Error()+" %s: %w", name, err)
	}

	info, err := utils.ParseGameWiki(ctx, pageURL)
	if err != nil {
		c.log.Error(
			ErrParsing.Error(),
			slog.String("error", err.Error()),
			slog.String("game", name),
			slog.String("url", pageURL))
		return nil, fmt.Errorf(ErrParsing.Error()+" %s - %s: %w", name, pageURL, err)
	}

	coverFilename, err := utils.DownloadPicture(ctx, info.ImageURL, c.uploads)
	if err != nil {
		c.log.Warn(
			"failed to save cover art",
			slog.String("error", err.Error()),
			slog.String("game", name),
			slog.String("url", info.ImageURL))
		coverFilename = ""
	}

	var released *time.Time
	if info.Year != "" {
		if y, err := strconv.Atoi(info.Year); err == nil {
			t := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
			released = &t
		}
	}

	game := &models.Game{
		Title:           info.Title,
		CoverArt:        coverFilename,
		ReleaseDate:     released,
		Developer:       info.Developer,
		PhysicalDigital: models.MediaPhysical,
	}

	created, err := c.service.Create(game)
	if err != nil {
		if coverFilename != "" {
			if delErr := c.uploads.DeletePicture(coverFilename); delErr != nil {
				c.log.Error(
					"failed to delete cover art",
					slog.String("error", delErr.Error()),
					slog.String("filename", coverFilename))
			}
		}
		c.log.Error(
			ErrCreate.Error(),
			slog.String("error", err.Error()),
			slog.String("game", name))
		return nil, fmt.Errorf(ErrCreate.Error()+" %s: %w", name, err)
	}

	return created, nil
}

func (c *GameController) globalSchema(op string) (attrs.Schema, error) {
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

func gamePointers(games []models.Game) []*models.Game {
	out := make([]*models.Game, len(games))
	for i := range games {
		out[i] = &games[i]
	}
	return out
}

func mediaFormat(s string) models.MediaFormat {
	if s == string(models.MediaDigital) {
		return models.MediaDigital
	}
	return models.MediaPhysical
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// filtersFromQuery maps list query parameters onto the in-memory pipeline:
// one categoryId_<type> slot per category type, a family id, an inclusive
// date range and a sort key.
func filtersFromQuery(r *http.Request) listing.Filters {
	query := r.URL.Query()

	categories := map[models.CategoryType]string{}
	for _, t := range models.CategoryTypes {
		if id := query.Get("categoryId_" + string(t)); id != "" {
			categories[t] = id
		}
	}

	sortBy, sortOrder := parseSortParam(query.Get("sortBy"))

	return listing.Filters{
		Categories:      categories,
		ConsoleFamilyID: query.Get("consoleFamilyId"),
		DateFrom:        parseDateParam(query.Get("dateFrom")),
		DateTo:          parseDateParam(query.Get("dateTo")),
		Query:           firstNonEmpty(query.Get("search"), query.Get("query")),
		Sort: listing.Sort{
			Field: listing.SortField(sortBy),
			Dir:   listing.SortDir(sortOrder),
		},
	}
}

func categoryIDsFromQuery(r *http.Request) []string {
	query := r.URL.Query()

	var ids []string
	for _, t := range models.CategoryTypes {
		if id := query.Get("categoryId_" + string(t)); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// parseSortParam accepts "title", "date" or the combined "field_dir" form.
func parseSortParam(value string) (field, order string) {
	if value == "" {
		return "title", "asc"
	}

	field = value
	order = "asc"
	if i := strings.LastIndex(value, "_"); i > 0 {
		dir := value[i+1:]
		if dir == "asc" || dir == "desc" {
			field = value[:i]
			order = dir
		}
	}
	return field, order
}
