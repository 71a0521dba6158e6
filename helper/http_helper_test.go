package helper

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chamber-cms/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetStatusCode(t *testing.T) {
	h := NewHTTPHelper()
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{models.NotFound("gone"), http.StatusNotFound},
		{models.Invalid("bad"), http.StatusBadRequest},
		{models.Conflict("taken"), http.StatusBadRequest},
		{models.Unauthorized("who"), http.StatusUnauthorized},
		{models.Forbidden("no"), http.StatusForbidden},
		{fmt.Errorf("wrapped: %w", models.NotFound("x")), http.StatusNotFound},
		{errors.New("db exploded"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, h.GetStatusCode(tc.err), "%v", tc.err)
	}
}

func TestSendServiceErrorHidesInternals(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHTTPHelper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	h.SendServiceError(c, errors.New("pq: connection refused"), "Server error fetching notices")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Server error fetching notices"}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	h.SendServiceError(c, models.NotFound("Notice not found"), "unused")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Notice not found"}`, w.Body.String())
}

type signup struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func TestSendValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHTTPHelper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope","password":"short"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var req signup
	err := c.ShouldBindJSON(&req)
	h.SendValidationError(c, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"email":["email must be a valid email address"]`)
	assert.Contains(t, body, `"password":["password must be at least 8 characters in length"]`)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	h.SendValidationError(c, errors.New("unexpected EOF"))
	assert.JSONEq(t, `{"message":"Invalid request body"}`, w.Body.String())
}
