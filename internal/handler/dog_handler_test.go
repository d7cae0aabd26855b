package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-kennel/internal/application"
	"github.com/Kilat-Pet-Delivery/service-kennel/internal/platform/middleware"
	"github.com/Kilat-Pet-Delivery/service-kennel/internal/platform/response"
	"github.com/Kilat-Pet-Delivery/service-kennel/internal/repository/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Meta    *response.Meta      `json:"meta"`
	Error   *response.ErrorBody `json:"error"`
}

func newTestRouter() *gin.Engine {
	log := zap.NewNop()
	refs := memory.NewSeededReferenceRepository()
	dogService := application.NewDogService(memory.NewDogRepository(), refs, log)
	refService := application.NewReferenceService(refs, log)

	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	NewDogHandler(dogService).RegisterRoutes(&router.RouterGroup)
	NewReferenceHandler(refService).RegisterRoutes(&router.RouterGroup)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func dogBody(name string) map[string]interface{} {
	return map[string]interface{}{
		"name":          name,
		"breed":         "German Shepherd",
		"supplier":      "ABC",
		"gender":        "Male",
		"birth_date":    "2020-01-15",
		"date_acquired": "2021-03-01",
		"status_id":     1,
	}
}

func TestDogLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter()

	w, env := doJSON(t, router, http.MethodPost, "/api/v1/dogs", dogBody("Rex"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created application.DogDTO
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "In Training", created.StatusName)
	assert.Equal(t, "2020-01-15", created.BirthDate)

	path := fmt.Sprintf("/api/v1/dogs/%d", created.ID)

	w, _ = doJSON(t, router, http.MethodPut, path, dogBody("Max"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = doJSON(t, router, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got application.DogDTO
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Max", got.Name)

	w, _ = doJSON(t, router, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())

	w, env = doJSON(t, router, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	w, _ = doJSON(t, router, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateDog_Validation(t *testing.T) {
	router := newTestRouter()

	missingName := dogBody("")

	badDate := dogBody("Rex")
	badDate["birth_date"] = "15/01/2020"

	onlyLeavingDate := dogBody("Rex")
	onlyLeavingDate["leaving_date"] = "2024-06-30"

	onlyLeavingReason := dogBody("Rex")
	onlyLeavingReason["leaving_reason_id"] = 2

	for name, body := range map[string]map[string]interface{}{
		"missing name":        missingName,
		"bad date":            badDate,
		"only leaving date":   onlyLeavingDate,
		"only leaving reason": onlyLeavingReason,
	} {
		t.Run(name, func(t *testing.T) {
			w, env := doJSON(t, router, http.MethodPost, "/api/v1/dogs", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			require.NotNil(t, env.Error)
			assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
			assert.False(t, env.Success)
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dogs", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "BAD_REQUEST")
}

func TestCreateDog_UnknownReferences(t *testing.T) {
	router := newTestRouter()

	badStatus := dogBody("Rex")
	badStatus["status_id"] = 99
	w, env := doJSON(t, router, http.MethodPost, "/api/v1/dogs", badStatus)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, env.Error.Message, "Status")

	badReason := dogBody("Rex")
	badReason["leaving_date"] = "2024-06-30"
	badReason["leaving_reason_id"] = 99
	w, env = doJSON(t, router, http.MethodPost, "/api/v1/dogs", badReason)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, env.Error.Message, "LeavingReason")

	w, env = doJSON(t, router, http.MethodGet, "/api/v1/dogs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), env.Meta.Total)
}

func TestCreateDog_WithLeavingFields(t *testing.T) {
	router := newTestRouter()

	body := dogBody("Rex")
	body["status_id"] = 4
	body["leaving_date"] = "2024-06-30"
	body["leaving_reason_id"] = 3

	w, env := doJSON(t, router, http.MethodPost, "/api/v1/dogs", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created application.DogDTO
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Left", created.StatusName)
	assert.Equal(t, "Rehomed", created.LeavingReasonName)
	require.NotNil(t, created.LeavingDate)
	assert.Equal(t, "2024-06-30", *created.LeavingDate)
}

func TestListDogs_PaginationAndSearch(t *testing.T) {
	router := newTestRouter()
	for _, name := range []string{"Buddy", "Rex", "BUDDY II", "Max", "Bolt"} {
		w, _ := doJSON(t, router, http.MethodPost, "/api/v1/dogs", dogBody(name))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, env := doJSON(t, router, http.MethodGet, "/api/v1/dogs?page=2&limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page []application.DogDTO
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page, 2)
	assert.Equal(t, "BUDDY II", page[0].Name)
	assert.Equal(t, response.Meta{Page: 2, Limit: 2, Total: 5, TotalPages: 3}, *env.Meta)

	w, env = doJSON(t, router, http.MethodGet, "/api/v1/dogs?name=buddy", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var found []application.DogDTO
	require.NoError(t, json.Unmarshal(env.Data, &found))
	assert.Len(t, found, 2)
	assert.Equal(t, int64(2), env.Meta.Total)

	w, env = doJSON(t, router, http.MethodGet, "/api/v1/dogs?page=0&limit=1000", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, env.Meta.Page)
	assert.Equal(t, 100, env.Meta.Limit)

	w, env = doJSON(t, router, http.MethodGet, "/api/v1/dogs?name=nobody", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestDogRoutes_InvalidID(t *testing.T) {
	router := newTestRouter()

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		w, env := doJSON(t, router, method, "/api/v1/dogs/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "BAD_REQUEST", env.Error.Code)
	}

	w, _ := doJSON(t, router, http.MethodPut, "/api/v1/dogs/0", dogBody("Rex"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReferenceRoutes(t *testing.T) {
	router := newTestRouter()

	w, env := doJSON(t, router, http.MethodGet, "/api/v1/statuses", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var statuses []application.StatusDTO
	require.NoError(t, json.Unmarshal(env.Data, &statuses))
	assert.Len(t, statuses, 4)
	assert.Equal(t, "In Training", statuses[0].StatusName)

	w, env = doJSON(t, router, http.MethodGet, "/api/v1/leaving-reasons", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reasons []application.LeavingReasonDTO
	require.NoError(t, json.Unmarshal(env.Data, &reasons))
	assert.Len(t, reasons, 5)
}
