package httputil

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwalitptl/medtrack-api/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func respond(err error) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	RespondWithError(c, err)
	return w
}

func TestRespondWithError_AppError(t *testing.T) {
	w := respond(apperrors.Conflict("username taken", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, StatusError, body.Status)
	assert.Equal(t, "username taken", body.Message)
}

func TestRespondWithError_HidesInternalCause(t *testing.T) {
	w := respond(stderrors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestRespondWithSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	RespondWithSuccess(c, gin.H{"id": 7})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","data":{"id":7}}`, w.Body.String())
}
