package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func proGateRouter(authed bool, checker ProChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if authed {
			c.Set("user_id", uint(7))
		}
		c.Next()
	})
	r.Use(RequirePro(checker))
	r.GET("/pro", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRequireProAdmitsEntitledUser(t *testing.T) {
	r := proGateRouter(true, func(context.Context, uint) (bool, error) { return true, nil })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/pro", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireProDeniesNonEntitledUser(t *testing.T) {
	r := proGateRouter(true, func(context.Context, uint) (bool, error) { return false, nil })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/pro", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireProDeniesAnonymous(t *testing.T) {
	called := false
	r := proGateRouter(false, func(context.Context, uint) (bool, error) {
		called = true
		return true, nil
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/pro", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}

func TestRequireProCheckerFailure(t *testing.T) {
	r := proGateRouter(true, func(context.Context, uint) (bool, error) {
		return false, errors.New("db down")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/pro", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
