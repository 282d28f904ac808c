package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationHandler(t *testing.T) {
	users, _ := newUserService(t)
	r := authRouter(users)

	tests := []struct {
		name         string
		body         string
		expectedCode int
		expectedErr  string
	}{
		{
			name:         "Successful Registration",
			body:         `{"email":"ravi@farm.in","password":"p1","name":"Ravi"}`,
			expectedCode: http.StatusCreated,
		},
		{
			name:         "Duplicate Email",
			body:         `{"email":"RAVI@farm.in","password":"other"}`,
			expectedCode: http.StatusConflict,
			expectedErr:  "email already registered",
		},
		{
			name:         "Missing Password",
			body:         `{"email":"kumar@farm.in"}`,
			expectedCode: http.StatusBadRequest,
			expectedErr:  "Email and password are required",
		},
		{
			name:         "Malformed Email",
			body:         `{"email":"not-an-email","password":"p1"}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Email Over Column Width",
			body:         `{"email":"ravi@` + strings.Repeat("farm.", 23) + `in","password":"p1"}`,
			expectedCode: http.StatusBadRequest,
			expectedErr:  "Email and password are required",
		},
		{
			name:         "Empty Body",
			body:         ``,
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(r, http.MethodPost, "/api/auth/register", tt.body, "")
			assert.Equal(t, tt.expectedCode, w.Code, w.Body.String())

			body := decodeBody(t, w)
			if tt.expectedErr != "" {
				assert.Equal(t, tt.expectedErr, body["error"])
			}
			if tt.expectedCode == http.StatusCreated {
				assert.Equal(t, "Registration successful", body["message"])
				user := body["user"].(map[string]any)
				assert.Equal(t, "ravi@farm.in", user["email"])
				assert.Equal(t, "Ravi", user["name"])
				assert.NotContains(t, user, "password_hash")
				assert.NotContains(t, w.Body.String(), "$")
			}
		})
	}
}

func TestRegistrationEmailAtColumnWidth(t *testing.T) {
	users, _ := newUserService(t)
	r := authRouter(users)

	email := "ri@" + strings.Repeat("farm.", 23) + "in"
	require.Len(t, email, 120)

	w := performJSON(r, http.MethodPost, "/api/auth/register", `{"email":"`+email+`","password":"p1"}`, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := decodeBody(t, w)["user"].(map[string]any)
	assert.Equal(t, email, user["email"])
}

func TestRegisterLoginMe(t *testing.T) {
	users, repo := newUserService(t)
	r := authRouter(users)

	w := performJSON(r, http.MethodPost, "/api/auth/register", `{"email":"a@x.com","password":"p1","name":"A"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = performJSON(r, http.MethodPost, "/api/auth/login", `{"email":"a@x.com","password":"p1","readiness":"CAUTION"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	login := decodeBody(t, w)
	assert.Equal(t, "Login successful", login["message"])
	access, _ := login["accessToken"].(string)
	require.NotEmpty(t, access)
	assert.NotEmpty(t, login["refreshToken"])

	stored, err := repo.FindUserByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, stored.LastReadiness)
	assert.Equal(t, "CAUTION", *stored.LastReadiness)
	assert.NotNil(t, stored.LastLogin)

	w = performJSON(r, http.MethodGet, "/api/auth/me", "", access)
	require.Equal(t, http.StatusOK, w.Code)
	me := decodeBody(t, w)["user"].(map[string]any)
	assert.Equal(t, "a@x.com", me["email"])
	assert.Equal(t, "CAUTION", me["last_readiness"])
}

func TestLoginHandler(t *testing.T) {
	users, _ := newUserService(t)
	r := authRouter(users)
	_, err := users.Register(context.Background(), "a@x.com", "p1", "A")
	require.NoError(t, err)

	tests := []struct {
		name         string
		body         string
		expectedCode int
		expectedErr  string
	}{
		{"Successful Login", `{"email":"a@x.com","password":"p1"}`, http.StatusOK, ""},
		{"Email Is Case Insensitive", `{"email":"A@X.COM","password":"p1","readiness":"READY"}`, http.StatusOK, ""},
		{"Wrong Password", `{"email":"a@x.com","password":"p2"}`, http.StatusUnauthorized, "invalid email or password"},
		{"Unknown Email", `{"email":"b@x.com","password":"p1"}`, http.StatusUnauthorized, "invalid email or password"},
		{"Missing Password", `{"email":"a@x.com"}`, http.StatusBadRequest, "Email and password are required"},
		{"Invalid Readiness", `{"email":"a@x.com","password":"p1","readiness":"SLEEPY"}`, http.StatusBadRequest, "readiness"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(r, http.MethodPost, "/api/auth/login", tt.body, "")
			assert.Equal(t, tt.expectedCode, w.Code, w.Body.String())
			if tt.expectedErr != "" {
				msg := decodeBody(t, w)["error"]
				assert.Contains(t, msg, tt.expectedErr)
				assert.NotContains(t, msg, ": unauthorized")
			}
		})
	}
}

func TestMeRequiresValidToken(t *testing.T) {
	users, repo := newUserService(t)
	r := authRouter(users)

	user, err := users.Register(context.Background(), "a@x.com", "p1", "")
	require.NoError(t, err)
	_, pair, err := users.Login(context.Background(), "a@x.com", "p1", "")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"No Header", ""},
		{"Not Bearer", "Token " + pair.AccessToken},
		{"Garbage Token", "Bearer abc.def.ghi"},
		{"Refresh Token As Access", "Bearer " + pair.RefreshToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := performRequestWithHeader(r, "/api/auth/me", tt.header)
			assert.Equal(t, http.StatusUnauthorized, req.Code)
			assert.NotEmpty(t, decodeBody(t, req)["error"])
		})
	}

	t.Run("Deleted User", func(t *testing.T) {
		repo.Delete(user.UserID)
		w := performJSON(r, http.MethodGet, "/api/auth/me", "", pair.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRefreshAndLogout(t *testing.T) {
	users, _ := newUserService(t)
	r := authRouter(users)

	_, err := users.Register(context.Background(), "a@x.com", "p1", "")
	require.NoError(t, err)
	_, pair, err := users.Login(context.Background(), "a@x.com", "p1", "")
	require.NoError(t, err)

	w := performJSON(r, http.MethodPost, "/api/auth/refresh", `{"refreshToken":"`+pair.RefreshToken+`"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rotated := decodeBody(t, w)
	newAccess := rotated["accessToken"].(string)
	newRefresh := rotated["refreshToken"].(string)

	w = performJSON(r, http.MethodPost, "/api/auth/refresh", `{"refreshToken":"`+pair.RefreshToken+`"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code, "old refresh token is revoked")

	w = performJSON(r, http.MethodPost, "/api/auth/refresh", `{}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performJSON(r, http.MethodPost, "/api/auth/logout", `{"refreshToken":"`+newRefresh+`"}`, newAccess)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = performJSON(r, http.MethodGet, "/api/auth/me", "", newAccess)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performJSON(r, http.MethodPost, "/api/auth/refresh", `{"refreshToken":"`+newRefresh+`"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutWithoutBody(t *testing.T) {
	users, _ := newUserService(t)
	r := authRouter(users)

	_, err := users.Register(context.Background(), "a@x.com", "p1", "")
	require.NoError(t, err)
	_, pair, err := users.Login(context.Background(), "a@x.com", "p1", "")
	require.NoError(t, err)

	w := performJSON(r, http.MethodPost, "/api/auth/logout", "", pair.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Logged out successfully", decodeBody(t, w)["message"])
}
