package api_test

import (
	"net/http"
	"testing"

	"github.com/globetrotter/server/internal/api/testutils"
	"github.com/globetrotter/server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicShare(t *testing.T) {
	tc := testutils.SetupTestContext(t)
	auth := testutils.AuthHeaders(tc.TestUserJWT)
	trip := createTrip(t, tc, tc.TestUserJWT, map[string]interface{}{
		"name":  "Shared",
		"stops": []map[string]interface{}{{"cityId": tc.Cities["rome"].ID}},
	})

	w := testutils.PerformRequest(tc.Router, "GET", "/api/trips/"+trip.ID+"/share", nil, auth)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = testutils.PerformRequest(tc.Router, "POST", "/api/trips/"+trip.ID+"/share", nil, auth)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var share models.PublicShare
	testutils.DecodeJSON(t, w, &share)
	assert.Regexp(t, `^[a-z0-9]{8}$`, share.Slug)

	t.Run("Sharing twice conflicts", func(t *testing.T) {
		w := testutils.PerformRequest(tc.Router, "POST", "/api/trips/"+trip.ID+"/share", nil, auth)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Anyone can resolve the slug", func(t *testing.T) {
		w := testutils.PerformRequest(tc.Router, "GET", "/api/share/"+share.Slug, nil, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var shared models.SharedTrip
		testutils.DecodeJSON(t, w, &shared)
		assert.Equal(t, "Test User", shared.Owner.Name)
		require.NotNil(t, shared.Trip)
		assert.True(t, shared.Trip.IsPublic)
		require.Len(t, shared.Trip.Stops, 1)
		assert.Equal(t, "Rome", shared.Trip.Stops[0].City.Name)
		assert.NotContains(t, w.Body.String(), "testuser@example.com")
	})

	t.Run("Unpublish removes public access", func(t *testing.T) {
		w := testutils.PerformRequest(tc.Router, "DELETE", "/api/trips/"+trip.ID+"/share", nil, auth)
		assert.Equal(t, http.StatusOK, w.Code)

		w = testutils.PerformRequest(tc.Router, "GET", "/api/share/"+share.Slug, nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = testutils.PerformRequest(tc.Router, "DELETE", "/api/trips/"+trip.ID+"/share", nil, auth)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Custom slug", func(t *testing.T) {
		w := testutils.PerformRequest(tc.Router, "POST", "/api/trips/"+trip.ID+"/share",
			models.PublishRequest{Slug: "roman-holiday"}, auth)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = testutils.PerformRequest(tc.Router, "GET", "/api/share/roman-holiday", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Deleting the trip removes the share", func(t *testing.T) {
		w := testutils.PerformRequest(tc.Router, "DELETE", "/api/trips/"+trip.ID, nil, auth)
		require.Equal(t, http.StatusOK, w.Code)

		w = testutils.PerformRequest(tc.Router, "GET", "/api/share/roman-holiday", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestToggleVisibility(t *testing.T) {
	tc := testutils.SetupTestContext(t)
	auth := testutils.AuthHeaders(tc.TestUserJWT)
	trip := createTrip(t, tc, tc.TestUserJWT, map[string]string{"name": "Toggle"})

	w := testutils.PerformRequest(tc.Router, "POST", "/api/trips/"+trip.ID+"/visibility", nil, auth)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var toggled models.Trip
	testutils.DecodeJSON(t, w, &toggled)
	assert.True(t, toggled.IsPublic)

	w = testutils.PerformRequest(tc.Router, "GET", "/api/trips/"+trip.ID+"/share", nil, auth)
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutils.PerformRequest(tc.Router, "POST", "/api/trips/"+trip.ID+"/visibility", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)
	testutils.DecodeJSON(t, w, &toggled)
	assert.False(t, toggled.IsPublic)

	w = testutils.PerformRequest(tc.Router, "GET", "/api/trips/"+trip.ID+"/share", nil, auth)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
