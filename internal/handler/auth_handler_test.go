package handler_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneytrack/internal/auth"
)

func TestRegister(t *testing.T) {
	app := newTestApp(t, 15*time.Minute)

	app.register(t, "evisotskiy@example.com")

	t.Run("duplicate email rejected", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email":    "evisotskiy@example.com",
			"password": "qwerty1",
			"confirm":  "qwerty1",
			"name":     "Eugene",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, []string{"email"}, validationParams(t, rec))
	})

	t.Run("all failing fields reported together", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email":    "not-an-email",
			"password": "abc",
			"confirm":  "abd",
			"name":     "x",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, []string{"email", "password", "confirm", "name"}, validationParams(t, rec))
	})
}

func TestLogin(t *testing.T) {
	app := newTestApp(t, 15*time.Minute)
	app.register(t, "user@example.com")

	t.Run("correct credentials", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "user@example.com",
			"password": "qwerty1",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var pair auth.TokenPair
		decodeJSON(t, rec, &pair)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "user@example.com",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"message":"Bad credentials"}`, rec.Body.String())
	})

	t.Run("unknown email gets the same body", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "nobody@example.com",
			"password": "qwerty1",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"message":"Bad credentials"}`, rec.Body.String())
	})

	t.Run("login invalidates the previous refresh token", func(t *testing.T) {
		first := app.register(t, "twice@example.com")

		rec := app.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "twice@example.com",
			"password": "qwerty1",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = app.request(t, http.MethodPost, "/api/auth/refresh", first.AccessToken, map[string]string{
			"refreshToken": first.RefreshToken,
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRefreshRotation(t *testing.T) {
	app := newTestApp(t, 15*time.Minute)
	pair := app.register(t, "rotate@example.com")

	rec := app.request(t, http.MethodPost, "/api/auth/refresh", pair.AccessToken, map[string]string{
		"refreshToken": pair.RefreshToken,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var next auth.TokenPair
	decodeJSON(t, rec, &next)
	assert.NotEmpty(t, next.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	t.Run("previous refresh token no longer validates", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/auth/refresh", pair.AccessToken, map[string]string{
			"refreshToken": pair.RefreshToken,
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"message":"Unauthorized"}`, rec.Body.String())
	})

	t.Run("rotated token validates", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/auth/refresh", next.AccessToken, map[string]string{
			"refreshToken": next.RefreshToken,
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRefreshWithExpiredAccessToken(t *testing.T) {
	app := newTestApp(t, time.Millisecond)
	pair := app.register(t, "expired@example.com")

	time.Sleep(10 * time.Millisecond)

	t.Run("verified routes reject the expired token", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/api/user/info", pair.AccessToken, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"message":"Unauthorized"}`, rec.Body.String())
	})

	t.Run("refresh still recovers the identity", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/auth/refresh", pair.AccessToken, map[string]string{
			"refreshToken": pair.RefreshToken,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var next auth.TokenPair
		decodeJSON(t, rec, &next)
		assert.NotEmpty(t, next.AccessToken)
	})
}

func TestLogout(t *testing.T) {
	app := newTestApp(t, 15*time.Minute)
	pair := app.register(t, "logout@example.com")

	rec := app.request(t, http.MethodGet, "/api/auth/logout", pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("stored refresh token is cleared", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/auth/refresh", pair.AccessToken, map[string]string{
			"refreshToken": pair.RefreshToken,
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("logout is idempotent in effect", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/api/auth/logout", pair.AccessToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("requires a valid access token", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/api/auth/logout", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
