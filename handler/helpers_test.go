package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"farmertwin/logging"
	"farmertwin/middleware"
	"farmertwin/repository"
	"farmertwin/services"
	"farmertwin/usecase"
	"farmertwin/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.InitValidator()
}

type fakeCompleter struct {
	reply string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(_ context.Context, _ services.ChatRequest) (string, error) {
	f.calls++
	return f.reply, f.err
}

func newUserService(t *testing.T) (*usecase.UserService, *repository.MemoryUserRepo) {
	t.Helper()
	repo := repository.NewMemoryUserRepo()
	tokens := services.NewTokenService("test-secret", "farmer-twin", time.Hour, 24*time.Hour,
		services.NewMemoryTokenBlacklist())
	return usecase.NewUserService(repo, tokens, logging.Discard()), repo
}

// authRouter mounts the auth endpoints the way the server does.
func authRouter(users *usecase.UserService) *gin.Engine {
	r := gin.New()
	requireAuth := middleware.AuthMiddleware(users)

	auth := r.Group("/api/auth")
	auth.POST("/register", func(c *gin.Context) { RegistrationHandler(c, users) })
	auth.POST("/login", func(c *gin.Context) { LoginHandler(c, users) })
	auth.POST("/refresh", func(c *gin.Context) { RefreshHandler(c, users) })
	auth.GET("/me", requireAuth, MeHandler)
	auth.POST("/logout", requireAuth, func(c *gin.Context) { LogoutHandler(c, users) })
	return r
}

func performJSON(r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

// multipartBody builds a form with one file field plus extra text fields.
func multipartBody(t *testing.T, field, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

func performRequestWithHeader(r http.Handler, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
