package api_test

import (
	"net/http"
	"testing"

	"github.com/globetrotter/server/internal/api/testutils"
	"github.com/globetrotter/server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUp(t *testing.T) {
	tc := testutils.SetupTestContext(t)

	t.Run("Successful signup sets the session cookie", func(t *testing.T) {
		w := testutils.PerformRequest(tc.Router, "POST", "/api/auth/signup", models.SignUpRequest{
			Email:    "newuser@example.com",
			Password: "password123",
			Name:     "New User",
		}, nil)

		assert.Equal(t, http.StatusCreated, w.Code)

		var user models.PublicUser
		testutils.DecodeJSON(t, w, &user)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "newuser@example.com", user.Email)
		assert.Equal(t, "New User", user.Name)
		assert.NotContains(t, w.Body.String(), "password")

		cookie := testutils.SessionCookie(w, "gt_session")
		require.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, "/", cookie.Path)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		assert.Equal(t, 7*24*60*60, cookie.MaxAge)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		w := testutils.PerformRequest(tc.Router, "POST", "/api/auth/signup", models.SignUpRequest{
			Email:    "testuser@example.com",
			Password: "password123",
			Name:     "Someone Else",
		}, nil)

		assert.Equal(t, http.StatusConflict, w.Code)

		var response models.ErrorResponse
		testutils.DecodeJSON(t, w, &response)
		assert.Equal(t, "error", response.Status)
		assert.Equal(t, "CONFLICT", response.Code)
	})

	t.Run("Invalid fields are reported by JSON name", func(t *testing.T) {
		w := testutils.PerformRequest(tc.Router, "POST", "/api/auth/signup", map[string]string{
			"email":    "not-an-email",
			"password": "short",
			"name":     "A",
		}, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response models.ErrorResponse
		testutils.DecodeJSON(t, w, &response)
		assert.Equal(t, "VALIDATION_ERROR", response.Code)
		assert.Contains(t, response.Details, "email")
		assert.Contains(t, response.Details, "password")
		assert.Contains(t, response.Details, "name")
	})

	t.Run("Missing body", func(t *testing.T) {
		w := testutils.PerformRequest(tc.Router, "POST", "/api/auth/signup", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLogin(t *testing.T) {
	tc := testutils.SetupTestContext(t)

	t.Run("Successful login", func(t *testing.T) {
		w := testutils.PerformRequest(tc.Router, "POST", "/api/auth/login", models.LoginRequest{
			Email:    "testuser@example.com",
			Password: testutils.TestPassword,
		}, nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var user models.PublicUser
		testutils.DecodeJSON(t, w, &user)
		assert.Equal(t, tc.TestUserID, user.ID)
		require.NotNil(t, testutils.SessionCookie(w, "gt_session"))
	})

	t.Run("Wrong password and unknown email look the same", func(t *testing.T) {
		wrong := testutils.PerformRequest(tc.Router, "POST", "/api/auth/login", models.LoginRequest{
			Email:    "testuser@example.com",
			Password: "wrongpassword",
		}, nil)
		unknown := testutils.PerformRequest(tc.Router, "POST", "/api/auth/login", models.LoginRequest{
			Email:    "nobody@example.com",
			Password: testutils.TestPassword,
		}, nil)

		assert.Equal(t, http.StatusUnauthorized, wrong.Code)
		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.JSONEq(t, wrong.Body.String(), unknown.Body.String())
	})
}

func TestSession(t *testing.T) {
	tc := testutils.SetupTestContext(t)

	t.Run("Cookie session", func(t *testing.T) {
		w := testutils.PerformRequest(tc.Router, "GET", "/api/auth/me", nil,
			testutils.CookieHeaders("gt_session", tc.TestUserJWT))

		assert.Equal(t, http.StatusOK, w.Code)

		var profile models.Profile
		testutils.DecodeJSON(t, w, &profile)
		assert.Equal(t, tc.TestUserID, profile.ID)
		assert.Equal(t, "Test User", profile.Name)
		assert.False(t, profile.CreatedAt.IsZero())
	})

	t.Run("Bearer session", func(t *testing.T) {
		w := testutils.PerformRequest(tc.Router, "GET", "/api/auth/me", nil, testutils.AuthHeaders(tc.TestUserJWT))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Missing session", func(t *testing.T) {
		w := testutils.PerformRequest(tc.Router, "GET", "/api/auth/me", nil, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var response models.ErrorResponse
		testutils.DecodeJSON(t, w, &response)
		assert.Equal(t, "UNAUTHORIZED", response.Code)
	})

	t.Run("Tampered token", func(t *testing.T) {
		w := testutils.PerformRequest(tc.Router, "GET", "/api/auth/me", nil,
			testutils.AuthHeaders(tc.TestUserJWT+"x"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Update profile", func(t *testing.T) {
		w := testutils.PerformRequest(tc.Router, "PATCH", "/api/auth/me", map[string]string{
			"name":  "Renamed User",
			"image": "https://example.com/me.png",
		}, testutils.AuthHeaders(tc.TestUserJWT))

		assert.Equal(t, http.StatusOK, w.Code)

		var profile models.Profile
		testutils.DecodeJSON(t, w, &profile)
		assert.Equal(t, "Renamed User", profile.Name)
		assert.Equal(t, "https://example.com/me.png", profile.Image)
	})

	t.Run("Logout clears the cookie", func(t *testing.T) {
		w := testutils.PerformRequest(tc.Router, "POST", "/api/auth/logout", nil, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		cookie := testutils.SessionCookie(w, "gt_session")
		require.NotNil(t, cookie)
		assert.Empty(t, cookie.Value)
		assert.True(t, cookie.MaxAge < 0)
	})
}

func TestHealth(t *testing.T) {
	tc := testutils.SetupTestContext(t)

	w := testutils.PerformRequest(tc.Router, "GET", "/health", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
