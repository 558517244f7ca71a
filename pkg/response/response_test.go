package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ndtollman/mainstay/pkg/errors"
)

func record(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	handler(c)
	return w
}

func TestErrorRendersAppErrorMessage(t *testing.T) {
	w := record(func(c *gin.Context) {
		Error(c, apperrors.ErrForbidden)
	})

	require.Equal(t, http.StatusForbidden, w.Code)
	require.JSONEq(t, `{"error":"Forbidden: Insufficient permissions"}`, w.Body.String())
}

func TestErrorHidesInternalDetails(t *testing.T) {
	w := record(func(c *gin.Context) {
		Error(c, errors.New("pq: connection reset"))
	})

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

func TestErrorWithNil(t *testing.T) {
	w := record(func(c *gin.Context) {
		Error(c, nil)
	})
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestOKAndCreated(t *testing.T) {
	w := record(func(c *gin.Context) {
		OK(c, gin.H{"ready": true})
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"ready":true}`, w.Body.String())

	w = record(func(c *gin.Context) {
		Created(c, gin.H{"id": "abc"})
	})
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestPaginated(t *testing.T) {
	w := record(func(c *gin.Context) {
		Paginated(c, []string{"a"}, &ListMeta{Page: 1, PerPage: 10, Total: 1})
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"data":["a"],"meta":{"page":1,"per_page":10,"total":1}}`, w.Body.String())
}
