package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"game_inventory/internal/listing"
	"game_inventory/internal/models"
	"game_inventory/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"
)

type MockGameService struct {
	mock.Mock
}

func (m *MockGameService) GetAll() ([]models.Game, error) {
	args := m.Called()
	return args.Get(0).([]models.Game), args.Error(1)
}

func (m *MockGameService) GetByID(id string) (*models.Game, error) {
	args := m.Called(id)
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameService) Search(query string) ([]models.Game, error) {
	args := m.Called(query)
	return args.Get(0).([]models.Game), args.Error(1)
}

func (m *MockGameService) GetByCategory(categoryID string) ([]models.Game, error) {
	args := m.Called(categoryID)
	return args.Get(0).([]models.Game), args.Error(1)
}

func (m *MockGameService) GetPaginated(q services.GameQuery) ([]models.Game, int, error) {
	args := m.Called(q)
	return args.Get(0).([]models.Game), args.Int(1), args.Error(2)
}

func (m *MockGameService) Create(g *models.Game) (*models.Game, error) {
	args := m.Called(g)
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameService) Update(id string, fields map[string]any) (*models.Game, error) {
	args := m.Called(id, fields)
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameService) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

type MockAttributeProvider struct {
	mock.Mock
}

func (m *MockAttributeProvider) GetGlobal() ([]models.Attribute, error) {
	args := m.Called()
	return args.Get(0).([]models.Attribute), args.Error(1)
}

type MockUploads struct {
	mock.Mock
}

func (m *MockUploads) SavePicture(data []byte, filename string) error {
	args := m.Called(data, filename)
	return args.Error(0)
}

func (m *MockUploads) DeletePicture(filename string) error {
	args := m.Called(filename)
	return args.Error(0)
}

func (m *MockUploads) ReplacePicture(data []byte, oldFilename, newFilename string) error {
	args := m.Called(data, oldFilename, newFilename)
	return args.Error(0)
}

func (m *MockUploads) Path() string {
	args := m.Called()
	return args.String(0)
}

func setupController() (*GameController, *MockGameService, *MockAttributeProvider, *MockUploads) {
	mockService := &MockGameService{}
	mockAttributes := &MockAttributeProvider{}
	mockUploads := &MockUploads{}
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	controller := NewGameController(
		mockService,
		mockAttributes,
		logger,
		mockUploads,
	)

	return controller, mockService, mockAttributes, mockUploads
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestGameController_GetAll(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl, mockService, _, _ := setupController()

		expectedGames := []models.Game{
			{ID: "id-1", Title: "Chrono Trigger"},
			{ID: "id-2", Title: "Final Fantasy VI"},
		}

		mockService.On("GetAll").Return(expectedGames, nil)

		req := httptest.NewRequest("GET", "/api/games", nil)
		w := httptest.NewRecorder()

		ctrl.GetAll(w, req)

		resp := w.Result()
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var games []models.Game
		err := json.NewDecoder(resp.Body).Decode(&games)
		assert.NoError(t, err)
		assert.Len(t, games, 2)
		assert.Equal(t, "Chrono Trigger", games[0].Title)

		mockService.AssertExpectations(t)
	})

	t.Run("error", func(t *testing.T) {
		ctrl, mockService, _, _ := setupController()

		mockService.On("GetAll").Return([]models.Game{}, errors.New("db error"))

		req := httptest.NewRequest("GET", "/api/games", nil)
		w := httptest.NewRecorder()

		ctrl.GetAll(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Result().StatusCode)
		mockService.AssertExpectations(t)
	})

	t.Run("category filters are conjunctive", func(t *testing.T) {
		ctrl, mockService, _, _ := setupController()

		games := []models.Game{
			{ID: "a", Title: "A", CategoryIDs: datatypes.NewJSONSlice([]string{"1", "2"})},
			{ID: "b", Title: "B", CategoryIDs: datatypes.NewJSONSlice([]string{"1"})},
			{ID: "c", Title: "C", CategoryIDs: datatypes.NewJSONSlice([]string{"2"})},
		}
		mockService.On("GetAll").Return(games, nil)

		req := httptest.NewRequest("GET", "/api/games?categoryId_genre=1&categoryId_franchise=2", nil)
		w := httptest.NewRecorder()

		ctrl.GetAll(w, req)

		resp := w.Result()
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var visible []models.Game
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&visible))
		assert.Len(t, visible, 1)
		assert.Equal(t, "a", visible[0].ID)

		mockService.AssertExpectations(t)
	})

	t.Run("search is delegated", func(t *testing.T) {
		ctrl, mockService, _, _ := setupController()

		mockService.On("Search", "chrono").Return([]models.Game{{ID: "id-1", Title: "Chrono Trigger"}}, nil)

		req := httptest.NewRequest("GET", "/api/games?query=chrono", nil)
		w := httptest.NewRecorder()

		ctrl.GetAll(w, req)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
		mockService.AssertExpectations(t)
	})

	t.Run("paginated envelope", func(t *testing.T) {
		ctrl, mockService, _, _ := setupController()

		expectedQuery := services.GameQuery{
			SortBy:    "title",
			SortOrder: "asc",
			Page:      2,
			PageSize:  10,
		}
		mockService.On("GetPaginated", expectedQuery).
			Return([]models.Game{{ID: "id-11", Title: "Game 11"}}, 21, nil)

		req := httptest.NewRequest("GET", "/api/games?page=2&limit=10", nil)
		w := httptest.NewRecorder()

		ctrl.GetAll(w, req)

		resp := w.Result()
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var page listing.Page[models.Game]
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
		assert.Equal(t, 21, page.Total)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 10, page.Limit)
		assert.Equal(t, 3, page.TotalPages)
		assert.Len(t, page.Data, 1)

		mockService.AssertExpectations(t)
	})
}

func TestGameController_GetByID(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl, mockService, _, _ := setupController()

		expected := &models.Game{ID: "id-1", Title: "Chrono Trigger"}
		mockService.On("GetByID", "id-1").Return(expected, nil)

		req := httptest.NewRequest("GET", "/api/games/id-1", nil)
		req = withURLParam(req, "id", "id-1")
		w := httptest.NewRecorder()

		ctrl.GetByID(w, req)

		resp := w.Result()
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var game models.Game
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&game))
		assert.Equal(t, "Chrono Trigger", game.Title)

		mockService.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl, mockService, _, _ := setupController()

		mockService.On("GetByID", "missing").Return(&models.Game{}, errors.New("not found"))

		req := httptest.NewRequest("GET", "/api/games/missing", nil)
		req = withURLParam(req, "id", "missing")
		w := httptest.NewRecorder()

		ctrl.GetByID(w, req)

		assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
		mockService.AssertExpectations(t)
	})
}

func TestGameController_GetByCategory(t *testing.T) {
	ctrl, mockService, _, _ := setupController()

	expected := []models.Game{{ID: "id-1", Title: "Chrono Trigger"}}
	mockService.On("GetByCategory", "cat-1").Return(expected, nil)

	req := httptest.NewRequest("GET", "/api/games/category/cat-1", nil)
	req = withURLParam(req, "categoryId", "cat-1")
	w := httptest.NewRecorder()

	ctrl.GetByCategory(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var games []models.Game
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&games))
	assert.Len(t, games, 1)

	mockService.AssertExpectations(t)
}

func TestGameController_Create(t *testing.T) {
	t.Run("success with typed attributes", func(t *testing.T) {
		ctrl, mockService, mockAttributes, _ := setupController()

		mockAttributes.On("GetGlobal").Return([]models.Attribute{
			{Name: "completed", Type: models.AttributeBoolean, IsGlobal: true},
			{Name: "rating", Type: models.AttributeNumber, IsGlobal: true},
		}, nil)

		mockService.On("Create", mock.MatchedBy(func(g *models.Game) bool {
			return g.Title == "Chrono Trigger" &&
				g.ConsoleFamilyID == "fam-1" &&
				g.CustomAttributes["completed"] == true &&
				g.CustomAttributes["rating"] == 9.5
		})).Return(&models.Game{ID: "id-1", Title: "Chrono Trigger"}, nil)

		body := map[string]any{
			"title":           "Chrono Trigger",
			"consoleFamilyId": "fam-1",
			"customAttributes": map[string]any{
				"completed": "yes",
				"rating":    "9.5",
			},
		}
		payload, _ := json.Marshal(body)

		req := httptest.NewRequest("POST", "/api/games", bytes.NewReader(payload))
		w := httptest.NewRecorder()

		ctrl.Create(w, req)

		assert.Equal(t, http.StatusCreated, w.Result().StatusCode)
		mockService.AssertExpectations(t)
		mockAttributes.AssertExpectations(t)
	})

	t.Run("missing title", func(t *testing.T) {
		ctrl, mockService, _, _ := setupController()

		payload, _ := json.Marshal(map[string]any{"consoleFamilyId": "fam-1"})

		req := httptest.NewRequest("POST", "/api/games", bytes.NewReader(payload))
		w := httptest.NewRecorder()

		ctrl.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
		mockService.AssertNotCalled(t, "Create")
	})

	t.Run("missing console family", func(t *testing.T) {
		ctrl, mockService, _, _ := setupController()

		payload, _ := json.Marshal(map[string]any{"title": "Chrono Trigger"})

		req := httptest.NewRequest("POST", "/api/games", bytes.NewReader(payload))
		w := httptest.NewRecorder()

		ctrl.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
		mockService.AssertNotCalled(t, "Create")
	})
}

func TestGameController_Update(t *testing.T) {
	t.Run("only provided fields change", func(t *testing.T) {
		ctrl, mockService, _, _ := setupController()

		mockService.On("Update", "id-1", mock.MatchedBy(func(fields map[string]any) bool {
			_, hasDeveloper := fields["developer"]
			return fields["title"] == "Renamed" && len(fields) == 1 && !hasDeveloper
		})).Return(&models.Game{ID: "id-1", Title: "Renamed"}, nil)

		payload, _ := json.Marshal(map[string]any{"title": "Renamed"})

		req := httptest.NewRequest("PATCH", "/api/games/id-1", bytes.NewReader(payload))
		req = withURLParam(req, "id", "id-1")
		w := httptest.NewRecorder()

		ctrl.Update(w, req)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
		mockService.AssertExpectations(t)
	})

	t.Run("empty body", func(t *testing.T) {
		ctrl, mockService, _, _ := setupController()

		req := httptest.NewRequest("PATCH", "/api/games/id-1", bytes.NewReader([]byte("{}")))
		req = withURLParam(req, "id", "id-1")
		w := httptest.NewRecorder()

		ctrl.Update(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
		mockService.AssertNotCalled(t, "Update")
	})
}

func TestGameController_Delete(t *testing.T) {
	t.Run("success removes cover art", func(t *testing.T) {
		ctrl, mockService, _, mockUploads := setupController()

		mockService.On("GetByID", "id-1").Return(&models.Game{ID: "id-1", CoverArt: "cover.jpg"}, nil)
		mockUploads.On("DeletePicture", "cover.jpg").Return(nil)
		mockService.On("Delete", "id-1").Return(nil)

		req := httptest.NewRequest("DELETE", "/api/games/id-1", nil)
		req = withURLParam(req, "id", "id-1")
		w := httptest.NewRecorder()

		ctrl.Delete(w, req)

		assert.Equal(t, http.StatusNoContent, w.Result().StatusCode)
		mockService.AssertExpectations(t)
		mockUploads.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl, mockService, _, _ := setupController()

		mockService.On("GetByID", "missing").Return(&models.Game{}, errors.New("not found"))

		req := httptest.NewRequest("DELETE", "/api/games/missing", nil)
		req = withURLParam(req, "id", "missing")
		w := httptest.NewRecorder()

		ctrl.Delete(w, req)

		assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
		mockService.AssertNotCalled(t, "Delete")
	})
}

func TestGameController_CreateMulti_Validation(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		ctrl, _, _, _ := setupController()

		payload, _ := json.Marshal(RequestData{})

		req := httptest.NewRequest("POST", "/api/games/multi", bytes.NewReader(payload))
		w := httptest.NewRecorder()

		ctrl.CreateMulti(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
	})

	t.Run("too many names", func(t *testing.T) {
		ctrl, _, _, _ := setupController()

		var request RequestData
		for i := 0; i < 101; i++ {
			request.Games = append(request.Games, RequestGame{Name: "game"})
		}
		payload, _ := json.Marshal(request)

		req := httptest.NewRequest("POST", "/api/games/multi", bytes.NewReader(payload))
		w := httptest.NewRecorder()

		ctrl.CreateMulti(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
	})
}
