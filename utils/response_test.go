package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostel-backend/models"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{models.NotFound("Guest", "1"), http.StatusNotFound, ErrCodeNotFound},
		{models.AlreadyExists("Guest", "a@b.co"), http.StatusConflict, ErrCodeAlreadyExists},
		{models.BusinessRule("room busy"), http.StatusUnprocessableEntity, ErrCodeBusinessRule},
		{models.IllegalState("cannot check in"), http.StatusUnprocessableEntity, ErrCodeBusinessRule},
		{models.Validation("bad date"), http.StatusBadRequest, ErrCodeValidation},
		{fmt.Errorf("save: %w", models.NotFound("Room", "9")), http.StatusNotFound, ErrCodeNotFound},
		{errors.New("connection reset"), http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tc := range cases {
		status, code := StatusFor(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func serve(t *testing.T, h gin.HandlerFunc) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHandleErrorHidesInternalDetails(t *testing.T) {
	Logger.SetOutput(io.Discard)
	status, body := serve(t, func(c *gin.Context) {
		HandleError(c, errors.New("dial tcp 10.0.0.1:3306: refused"))
	})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, false, body["success"])
	errBody := body["error"].(map[string]any)
	assert.Equal(t, ErrCodeInternal, errBody["code"])
	assert.NotContains(t, errBody["message"], "10.0.0.1")
	assert.Equal(t, "/x", errBody["path"])
}

func TestHandleErrorDomainMessage(t *testing.T) {
	status, body := serve(t, func(c *gin.Context) {
		HandleError(c, models.BusinessRule("room 101 is already reserved for the selected dates"))
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "room 101 is already reserved for the selected dates", errBody["message"])
}

func TestJSONSuccess(t *testing.T) {
	status, body := serve(t, func(c *gin.Context) {
		JSONSuccess(c, http.StatusOK, gin.H{"id": "abc"})
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "abc", body["data"].(map[string]any)["id"])
}
