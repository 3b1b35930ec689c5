package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/globetrotter/server/internal/api"
	"github.com/globetrotter/server/internal/config"
	"github.com/globetrotter/server/internal/models"
	"github.com/globetrotter/server/internal/repository"
	"github.com/globetrotter/server/internal/service"
	"github.com/globetrotter/server/internal/utils"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// TestPassword is the password of every user created by the helpers.
const TestPassword = "testpassword"

// TestContext holds all dependencies for tests
type TestContext struct {
	Router      *gin.Engine
	Repository  *repository.SQLRepository
	Service     *service.DefaultService
	Config      *config.Config
	DB          *sqlx.DB
	TestUserID  string
	TestUserJWT string
	// Catalog fixtures keyed by slug and by activity name.
	Cities     map[string]*models.City
	Activities map[string]*models.Activity
}

// SetupTestContext builds the full stack over a fresh in-memory SQLite
// database with a seeded catalog and one signed-up user.
func SetupTestContext(t *testing.T) *TestContext {
	t.Helper()

	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: ":memory:"},
		Auth: config.AuthConfig{
			JWTSecret:     "test-secret-key",
			TokenDuration: 7 * 24 * time.Hour,
			CookieName:    "gt_session",
			BcryptCost:    10,
		},
	}

	db, err := config.SetupDatabase(cfg)
	require.NoError(t, err, "Failed to set up test database")
	t.Cleanup(func() { db.Close() })

	repo := repository.NewSQLRepository(db)

	svc, err := service.NewDefaultService(repo, cfg.Auth)
	require.NoError(t, err, "Failed to create service")

	handler := api.NewHandler(svc, utils.New(io.Discard, io.Discard), cfg.Auth)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler.SetupRoutes(router)

	tc := &TestContext{
		Router:     router,
		Repository: repo,
		Service:    svc,
		Config:     cfg,
		DB:         db,
		Cities:     make(map[string]*models.City),
		Activities: make(map[string]*models.Activity),
	}
	tc.seedCatalog(t)
	tc.TestUserID, tc.TestUserJWT = tc.CreateUser(t, "testuser@example.com", "Test User")

	return tc
}

func (tc *TestContext) seedCatalog(t *testing.T) {
	ctx := context.Background()

	cities := []*models.City{
		{Name: "Paris", Country: "France", Slug: "paris", Lat: 48.8566, Lng: 2.3522, CostIndex: 4, Popularity: 95},
		{Name: "Tokyo", Country: "Japan", Slug: "tokyo", Lat: 35.6762, Lng: 139.6503, CostIndex: 4, Popularity: 92},
		{Name: "Rome", Country: "Italy", Slug: "rome", Lat: 41.9028, Lng: 12.4964, CostIndex: 3, Popularity: 90},
		{Name: "Jaipur", Country: "India", Slug: "jaipur", Lat: 26.9124, Lng: 75.7873, CostIndex: 1, Popularity: 70},
	}
	for _, city := range cities {
		require.NoError(t, tc.Repository.CreateCity(ctx, city))
		tc.Cities[city.Slug] = city
	}

	activities := []struct {
		city string
		models.Activity
	}{
		{"paris", models.Activity{Name: "Louvre Museum", Description: "World's largest art museum", Type: models.ActivityCulture, AvgCost: 17, DurationMin: 180}},
		{"paris", models.Activity{Name: "Eiffel Tower", Description: "Summit access by lift", Type: models.ActivitySightseeing, AvgCost: 28, DurationMin: 120}},
		{"rome", models.Activity{Name: "Colosseum", Description: "Ancient amphitheatre tour", Type: models.ActivityCulture, AvgCost: 16, DurationMin: 90}},
		{"tokyo", models.Activity{Name: "Sushi Workshop", Description: "Hands-on sushi class", Type: models.ActivityFood, AvgCost: 95, DurationMin: 150}},
		{"jaipur", models.Activity{Name: "Amber Fort", Description: "Hilltop fort", Type: models.ActivitySightseeing, AvgCost: 6, DurationMin: 120}},
	}
	for i := range activities {
		activity := activities[i].Activity
		activity.CityID = &tc.Cities[activities[i].city].ID
		require.NoError(t, tc.Repository.CreateActivity(ctx, &activity))
		tc.Activities[activity.Name] = &activity
	}
}

// CreateUser signs up a user and returns its id and session token.
func (tc *TestContext) CreateUser(t *testing.T, email, name string) (string, string) {
	t.Helper()

	session, err := tc.Service.SignUp(context.Background(), models.SignUpRequest{
		Email:    email,
		Name:     name,
		Password: TestPassword,
	})
	require.NoError(t, err, "Failed to create test user")
	return session.User.ID, session.Token
}

// PerformRequest executes an HTTP request against the router
func PerformRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// AuthHeaders returns headers with Authorization token
func AuthHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}
}

// CookieHeaders returns headers carrying token in the session cookie.
func CookieHeaders(cookieName, token string) map[string]string {
	return map[string]string{
		"Cookie": fmt.Sprintf("%s=%s", cookieName, token),
	}
}

// SessionCookie returns the session cookie set by a response, or nil.
func SessionCookie(w *httptest.ResponseRecorder, cookieName string) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == cookieName {
			return cookie
		}
	}
	return nil
}

// DecodeJSON unmarshals the response body into v.
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), "body: %s", w.Body.String())
}
