package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"rental-admin/models"
	"rental-admin/pkg/logger"
	"rental-admin/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticVerifier map[string]*utils.Claims

func (v staticVerifier) VerifyToken(ctx context.Context, token string) (*utils.Claims, error) {
	claims, ok := v[token]
	if !ok {
		return nil, errors.New("token is revoked")
	}
	return claims, nil
}

var verifier = staticVerifier{
	"admin-token": {UserID: "u-admin", Email: "admin@example.test", Role: "admin"},
	"user-token":  {UserID: "u-user", Email: "user@example.test", Role: "user"},
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	chain := append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("user_id"),
			"role":    c.GetString("user_role"),
			"token":   c.GetString("token"),
		})
	})
	r.GET("/protected", chain...)
	return r
}

func do(r http.Handler, target, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(AuthMiddleware(verifier))

	t.Run("missing header", func(t *testing.T) {
		w := do(r, "/protected", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Authorization header required", decodeError(t, w).Message)
	})

	t.Run("malformed header", func(t *testing.T) {
		w := do(r, "/protected", "Token admin-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid authorization header format", decodeError(t, w).Message)
	})

	t.Run("rejected token", func(t *testing.T) {
		w := do(r, "/protected", "Bearer stale")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		resp := decodeError(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, "token is revoked", resp.Error)
	})

	t.Run("valid token", func(t *testing.T) {
		w := do(r, "/protected", "Bearer user-token")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":"u-user","role":"user","token":"user-token"}`, w.Body.String())
	})
}

func TestWSAuthMiddleware(t *testing.T) {
	r := newRouter(WSAuthMiddleware(verifier))

	t.Run("query token wins", func(t *testing.T) {
		w := do(r, "/protected?token=admin-token", "Bearer user-token")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":"u-admin"`)
	})

	t.Run("falls back to header", func(t *testing.T) {
		w := do(r, "/protected", "Bearer user-token")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":"u-user"`)
	})

	t.Run("missing token", func(t *testing.T) {
		w := do(r, "/protected", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "missing token", decodeError(t, w).Message)
	})

	t.Run("invalid token", func(t *testing.T) {
		w := do(r, "/protected?token=nope", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAdminMiddleware(t *testing.T) {
	r := newRouter(AuthMiddleware(verifier), AdminMiddleware())

	w := do(r, "/protected", "Bearer admin-token")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, "/protected", "Bearer user-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied. Admin role required", decodeError(t, w).Message)

	bare := newRouter(AdminMiddleware())
	w = do(bare, "/protected", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "User role not found", decodeError(t, w).Message)
}

func TestAllowedOrigins(t *testing.T) {
	assert.Equal(t, []string{"http://localhost:5173"}, AllowedOrigins(""))
	assert.Equal(t, []string{"http://localhost:5173", "https://admin.example.test"}, AllowedOrigins("https://admin.example.test"))
}

func TestCORSMiddleware(t *testing.T) {
	r := newRouter(CORSMiddleware("https://admin.example.test"))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Origin", "https://admin.example.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://admin.example.test", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Origin", "https://evil.example.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

type capturedLog struct {
	logger.ILogger
	infos  []string
	errors []string
}

func (l *capturedLog) Info(msg string, fields ...logger.Field)  { l.infos = append(l.infos, msg) }
func (l *capturedLog) Error(msg string, fields ...logger.Field) { l.errors = append(l.errors, msg) }

func TestRequestLogger(t *testing.T) {
	log := &capturedLog{ILogger: logger.NewNop()}
	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	do(r, "/ok", "")
	do(r, "/fail", "")

	assert.Equal(t, []string{"HTTP request"}, log.infos)
	assert.Equal(t, []string{"HTTP request"}, log.errors)
}
