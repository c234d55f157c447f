package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signAccess(t *testing.T, name string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := token.SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return signed
}

func newAuthService(t *testing.T, access string) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Post("/login/", func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil || req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"detail": "No active account found with the given credentials"})
			return
		}
		render.JSON(w, r, tokenPair{Access: access, Refresh: "refresh"})
	})
	r.Post("/register/", func(w http.ResponseWriter, r *http.Request) {
		var reg Registration
		render.DecodeJSON(r.Body, &reg)
		if reg.Email == "taken@example.com" {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, map[string][]string{
				"username": {"A user with that username already exists."},
				"email":    {"custom user with this email already exists."},
			})
			return
		}
		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{"id": 1, "name": reg.Name})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestLogin(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	srv := newAuthService(t, signAccess(t, "Ada", exp))
	c := New(srv.URL, time.Second)

	session, err := c.Login(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, "Ada", session.Name)
	assert.Equal(t, "refresh", session.Refresh)
	assert.True(t, exp.Equal(session.Expires))

	tok, err := session.Token()
	require.NoError(t, err)
	assert.Equal(t, session.Access, tok.AccessToken)
	assert.Equal(t, "Bearer", tok.Type())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv := newAuthService(t, signAccess(t, "Ada", time.Now().Add(time.Hour)))

	_, err := New(srv.URL, time.Second).Login(context.Background(), "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsMalformedToken(t *testing.T) {
	srv := newAuthService(t, "not-a-jwt")

	_, err := New(srv.URL, time.Second).Login(context.Background(), "ada@example.com", "secret")
	var serviceErr *ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, "login", serviceErr.Op)
}

func TestRegister(t *testing.T) {
	srv := newAuthService(t, "")
	c := New(srv.URL, time.Second)

	err := c.Register(context.Background(), Registration{Name: "Ada", Email: "ada@example.com", Username: "ada", Password: "secret"})
	require.NoError(t, err)

	err = c.Register(context.Background(), Registration{Name: "Bob", Email: "taken@example.com", Username: "ada", Password: "secret"})
	var serviceErr *ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, http.StatusBadRequest, serviceErr.Status)
	assert.Contains(t, err.Error(), "email: custom user with this email already exists.")
	assert.Contains(t, err.Error(), "username: A user with that username already exists.")
}

func TestExpiredSessionYieldsNoToken(t *testing.T) {
	defer func(orig func() time.Time) { timeNow = orig }(timeNow)

	session, err := NewSession(signAccess(t, "Ada", time.Now().Add(time.Minute)), "")
	require.NoError(t, err)

	timeNow = func() time.Time { return time.Now().Add(2 * time.Minute) }
	assert.True(t, session.Expired())
	_, err = session.Token()
	assert.True(t, errors.Is(err, ErrSessionExpired))

	var nilSession *Session
	_, err = nilSession.Token()
	assert.ErrorIs(t, err, ErrSessionExpired)
}
