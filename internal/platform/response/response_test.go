package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kilat-Pet-Delivery/service-kennel/internal/platform/apperror"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(1, 20))
	assert.Equal(t, 3, TotalPages(5, 2))
	assert.Equal(t, 0, TotalPages(5, 0))
}

func TestError_StatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperror.NewNotFoundError("Dog", "1"), http.StatusNotFound, "NOT_FOUND"},
		{apperror.NewConflictError("stale"), http.StatusConflict, "CONFLICT"},
		{apperror.NewValidationError("bad"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{errors.New("db down"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		Error(c, tc.err)

		assert.Equal(t, tc.status, w.Code)
		var body Envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		require.NotNil(t, body.Error)
		assert.Equal(t, tc.code, body.Error.Code)
	}
}

func TestPaginated_Meta(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Paginated(c, []string{"a", "b"}, 5, 1, 2)

	var body Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Meta)
	assert.Equal(t, int64(5), body.Meta.Total)
	assert.Equal(t, 3, body.Meta.TotalPages)
}
