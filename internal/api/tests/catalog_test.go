package api_test

import (
	"net/http"
	"testing"

	"github.com/globetrotter/server/internal/api/testutils"
	"github.com/globetrotter/server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	tc := testutils.SetupTestContext(t)

	t.Run("Search cities ranks by popularity", func(t *testing.T) {
		w := testutils.PerformRequest(tc.Router, "GET", "/api/cities?q=par", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var cities []models.City
		testutils.DecodeJSON(t, w, &cities)
		require.NotEmpty(t, cities)
		assert.Equal(t, "Paris", cities[0].Name)
	})

	t.Run("Search matches country", func(t *testing.T) {
		w := testutils.PerformRequest(tc.Router, "GET", "/api/cities?q=INDIA", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var cities []models.City
		testutils.DecodeJSON(t, w, &cities)
		require.Len(t, cities, 1)
		assert.Equal(t, "Jaipur", cities[0].Name)
	})

	t.Run("Popular cities", func(t *testing.T) {
		w := testutils.PerformRequest(tc.Router, "GET", "/api/cities/popular?limit=2", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var cities []models.City
		testutils.DecodeJSON(t, w, &cities)
		require.Len(t, cities, 2)
		assert.Equal(t, "Paris", cities[0].Name)
		assert.Equal(t, "Tokyo", cities[1].Name)
	})

	t.Run("City by slug or id", func(t *testing.T) {
		w := testutils.PerformRequest(tc.Router, "GET", "/api/cities/paris", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var city models.City
		testutils.DecodeJSON(t, w, &city)
		assert.Len(t, city.Activities, 2)

		w = testutils.PerformRequest(tc.Router, "GET", "/api/cities/"+tc.Cities["rome"].ID, nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = testutils.PerformRequest(tc.Router, "GET", "/api/cities/atlantis", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Activities by city and type", func(t *testing.T) {
		w := testutils.PerformRequest(tc.Router, "GET",
			"/api/activities?cityId="+tc.Cities["paris"].ID+"&type=culture", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var activities []models.Activity
		testutils.DecodeJSON(t, w, &activities)
		require.Len(t, activities, 1)
		assert.Equal(t, "Louvre Museum", activities[0].Name)

		w = testutils.PerformRequest(tc.Router, "GET", "/api/activities", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Search activities", func(t *testing.T) {
		w := testutils.PerformRequest(tc.Router, "GET", "/api/activities/search?q=sushi", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var activities []models.Activity
		testutils.DecodeJSON(t, w, &activities)
		require.Len(t, activities, 1)
		assert.Equal(t, "Sushi Workshop", activities[0].Name)
	})

	t.Run("Activity by id", func(t *testing.T) {
		w := testutils.PerformRequest(tc.Router, "GET", "/api/activities/"+tc.Activities["Colosseum"].ID, nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = testutils.PerformRequest(tc.Router, "GET", "/api/activities/missing", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
