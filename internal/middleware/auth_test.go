package middleware

import (
	"classroom_backend/internal/model"
	"classroom_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(secret))
	r.GET("/any", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/teacher", RoleMiddleware(model.Teacher), func(c *gin.Context) {
		c.String(http.StatusOK, "%d", util.GetUserFromContext(c).UserID)
	})
	return r
}

func token(t *testing.T, role model.UserRole) string {
	user := &model.User{Role: role}
	user.ID = 3
	tok, err := util.GenerateJWT(user, secret, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestAuthAndRole(t *testing.T) {
	r := newRouter()

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"no header", "/any", "", http.StatusUnauthorized},
		{"garbage token", "/any", "Bearer nope", http.StatusUnauthorized},
		{"student any", "/any", "Bearer " + token(t, model.Student), http.StatusOK},
		{"student teacher route", "/teacher", "Bearer " + token(t, model.Student), http.StatusForbidden},
		{"teacher teacher route", "/teacher", "Bearer " + token(t, model.Teacher), http.StatusOK},
		{"admin passes role checks", "/teacher", "Bearer " + token(t, model.Admin), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
