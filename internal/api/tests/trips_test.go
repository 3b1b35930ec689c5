package api_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/globetrotter/server/internal/api/testutils"
	"github.com/globetrotter/server/internal/itinerary"
	"github.com/globetrotter/server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTrip(t *testing.T, tc *testutils.TestContext, token string, body interface{}) models.Trip {
	t.Helper()
	w := testutils.PerformRequest(tc.Router, "POST", "/api/trips", body, testutils.AuthHeaders(token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var trip models.Trip
	testutils.DecodeJSON(t, w, &trip)
	return trip
}

func TestTripLifecycle(t *testing.T) {
	tc := testutils.SetupTestContext(t)
	auth := testutils.AuthHeaders(tc.TestUserJWT)
	paris, rome := tc.Cities["paris"], tc.Cities["rome"]
	louvre := tc.Activities["Louvre Museum"]

	trip := createTrip(t, tc, tc.TestUserJWT, map[string]interface{}{
		"name":      "Europe",
		"startDate": "2025-06-01T00:00:00Z",
		"endDate":   "2025-06-03T00:00:00Z",
		"stops": []map[string]interface{}{{
			"cityId":    paris.ID,
			"startDate": "2025-06-01T00:00:00Z",
			"endDate":   "2025-06-03T00:00:00Z",
			"activities": []map[string]interface{}{
				{"activityId": louvre.ID, "scheduledAt": "2025-06-02T14:00:00Z"},
			},
		}},
	})

	t.Run("Create returns the deep aggregate", func(t *testing.T) {
		assert.Equal(t, tc.TestUserID, trip.UserID)
		require.Len(t, trip.Stops, 1)
		assert.Equal(t, "Paris", trip.Stops[0].City.Name)
		require.Len(t, trip.Stops[0].Activities, 1)
		assert.Equal(t, "Louvre Museum", trip.Stops[0].Activities[0].Activity.Name)
	})

	t.Run("List is shallow", func(t *testing.T) {
		w := testutils.PerformRequest(tc.Router, "GET", "/api/trips", nil, auth)
		assert.Equal(t, http.StatusOK, w.Code)

		var trips []models.Trip
		testutils.DecodeJSON(t, w, &trips)
		require.Len(t, trips, 1)
		assert.Equal(t, trip.ID, trips[0].ID)
		assert.Empty(t, trips[0].Stops)
	})

	t.Run("Calendar", func(t *testing.T) {
		w := testutils.PerformRequest(tc.Router, "GET", "/api/trips/"+trip.ID+"/calendar", nil, auth)
		assert.Equal(t, http.StatusOK, w.Code)

		var cal itinerary.Calendar
		testutils.DecodeJSON(t, w, &cal)
		require.Len(t, cal.Days, 3)
		assert.Empty(t, cal.Days[0].Events)
		require.Len(t, cal.Days[1].Events, 1)
		assert.Equal(t, "14:00", cal.Days[1].Events[0].Time)
		assert.Equal(t, "Paris", cal.Days[1].CityName)
	})

	t.Run("Add and reorder stops", func(t *testing.T) {
		w := testutils.PerformRequest(tc.Router, "POST", "/api/trips/"+trip.ID+"/stops",
			models.AddStopRequest{CityID: rome.ID}, auth)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var stop models.Stop
		testutils.DecodeJSON(t, w, &stop)
		assert.Equal(t, 1, stop.Position)
		assert.Equal(t, "Rome", stop.City.Name)

		w = testutils.PerformRequest(tc.Router, "PUT", "/api/trips/"+trip.ID+"/stops/order",
			models.ReorderRequest{OrderedIDs: []string{stop.ID, trip.Stops[0].ID}}, auth)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var stops []models.Stop
		testutils.DecodeJSON(t, w, &stops)
		require.Len(t, stops, 2)
		assert.Equal(t, "Rome", stops[0].City.Name)
		assert.Equal(t, 0, stops[0].Position)
		assert.Equal(t, 1, stops[1].Position)

		w = testutils.PerformRequest(tc.Router, "PUT", "/api/trips/"+trip.ID+"/stops/order",
			models.ReorderRequest{OrderedIDs: []string{"not-a-stop"}}, auth)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = testutils.PerformRequest(tc.Router, "PUT", "/api/trips/"+trip.ID+"/stops/order",
			models.ReorderRequest{OrderedIDs: []string{stop.ID}}, auth)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Stop activities", func(t *testing.T) {
		stopID := trip.Stops[0].ID
		w := testutils.PerformRequest(tc.Router, "POST", "/api/stops/"+stopID+"/activities",
			models.AddTripActivityRequest{ActivityID: tc.Activities["Eiffel Tower"].ID}, auth)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var added models.TripActivity
		testutils.DecodeJSON(t, w, &added)
		assert.Equal(t, 1, added.Position)

		w = testutils.PerformRequest(tc.Router, "PUT", "/api/stops/"+stopID+"/activities/order",
			models.ReorderRequest{OrderedIDs: []string{added.ID, trip.Stops[0].Activities[0].ID}}, auth)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var activities []models.TripActivity
		testutils.DecodeJSON(t, w, &activities)
		require.Len(t, activities, 2)
		assert.Equal(t, added.ID, activities[0].ID)

		notes := "Sunset slot"
		w = testutils.PerformRequest(tc.Router, "PATCH", "/api/trip-activities/"+added.ID,
			models.UpdateTripActivityRequest{Notes: &notes}, auth)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = testutils.PerformRequest(tc.Router, "DELETE", "/api/trip-activities/"+added.ID, nil, auth)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Update trip", func(t *testing.T) {
		w := testutils.PerformRequest(tc.Router, "PATCH", "/api/trips/"+trip.ID,
			map[string]string{"name": "Europe 2025"}, auth)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var updated models.Trip
		testutils.DecodeJSON(t, w, &updated)
		assert.Equal(t, "Europe 2025", updated.Name)
		require.NotNil(t, updated.StartDate)
		assert.True(t, updated.StartDate.Equal(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)))

		w = testutils.PerformRequest(tc.Router, "PATCH", "/api/trips/"+trip.ID,
			map[string]string{"endDate": "2025-05-01T00:00:00Z"}, auth)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Delete trip", func(t *testing.T) {
		w := testutils.PerformRequest(tc.Router, "DELETE", "/api/trips/"+trip.ID, nil, auth)
		assert.Equal(t, http.StatusOK, w.Code)

		w = testutils.PerformRequest(tc.Router, "GET", "/api/trips/"+trip.ID, nil, auth)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTripAccessControl(t *testing.T) {
	tc := testutils.SetupTestContext(t)
	trip := createTrip(t, tc, tc.TestUserJWT, map[string]interface{}{
		"name":  "Private",
		"stops": []map[string]interface{}{{"cityId": tc.Cities["tokyo"].ID}},
	})
	_, otherToken := tc.CreateUser(t, "intruder@example.com", "Intruder")
	other := testutils.AuthHeaders(otherToken)

	routes := []struct {
		method string
		path   string
		body   interface{}
	}{
		{"GET", "/api/trips/" + trip.ID, nil},
		{"PATCH", "/api/trips/" + trip.ID, map[string]string{"name": "Mine now"}},
		{"DELETE", "/api/trips/" + trip.ID, nil},
		{"GET", "/api/trips/" + trip.ID + "/calendar", nil},
		{"GET", "/api/trips/" + trip.ID + "/costs", nil},
		{"POST", "/api/trips/" + trip.ID + "/share", nil},
		{"DELETE", "/api/stops/" + trip.Stops[0].ID, nil},
	}
	for _, route := range routes {
		w := testutils.PerformRequest(tc.Router, route.method, route.path, route.body, other)
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", route.method, route.path)
	}

	w := testutils.PerformRequest(tc.Router, "GET", "/api/trips/"+trip.ID, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = testutils.PerformRequest(tc.Router, "GET", "/api/trips/does-not-exist", nil, testutils.AuthHeaders(tc.TestUserJWT))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateTripValidation(t *testing.T) {
	tc := testutils.SetupTestContext(t)
	auth := testutils.AuthHeaders(tc.TestUserJWT)

	w := testutils.PerformRequest(tc.Router, "POST", "/api/trips", map[string]interface{}{
		"name":  "Broken",
		"stops": []map[string]interface{}{{"notes": "no city"}},
	}, auth)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response models.ErrorResponse
	testutils.DecodeJSON(t, w, &response)
	assert.Contains(t, response.Details, "stops[0].cityId")

	w = testutils.PerformRequest(tc.Router, "POST", "/api/trips", map[string]interface{}{"description": "no name"}, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCosts(t *testing.T) {
	tc := testutils.SetupTestContext(t)
	auth := testutils.AuthHeaders(tc.TestUserJWT)
	trip := createTrip(t, tc, tc.TestUserJWT, map[string]interface{}{
		"name": "Rajasthan",
		"stops": []map[string]interface{}{{
			"cityId":     tc.Cities["jaipur"].ID,
			"activities": []map[string]interface{}{{"activityId": tc.Activities["Amber Fort"].ID}},
		}},
	})
	stopID := trip.Stops[0].ID

	for _, body := range []map[string]interface{}{
		{"category": "STAY", "amount": 100},
		{"category": "STAY", "amount": 50, "stopId": stopID},
		{"category": "MEAL", "amount": 20},
	} {
		w := testutils.PerformRequest(tc.Router, "POST", "/api/trips/"+trip.ID+"/costs", body, auth)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var item models.CostItem
		testutils.DecodeJSON(t, w, &item)
		assert.Equal(t, "INR", item.Currency)
	}

	w := testutils.PerformRequest(tc.Router, "POST", "/api/trips/"+trip.ID+"/costs",
		map[string]interface{}{"category": "BRIBES", "amount": 5}, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testutils.PerformRequest(tc.Router, "POST", "/api/trips/"+trip.ID+"/costs",
		map[string]interface{}{"category": "MEAL", "amount": -5}, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testutils.PerformRequest(tc.Router, "GET", "/api/trips/"+trip.ID+"/costs", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)

	var summary itinerary.CostSummary
	testutils.DecodeJSON(t, w, &summary)
	assert.Equal(t, map[models.CostCategory]float64{models.CostStay: 150, models.CostMeal: 20}, summary.Logged.ByCategory)
	assert.Equal(t, 170.0, summary.Logged.Total)
	assert.Equal(t, 6.0, summary.Estimate.Total)

	// Deleting the stop drops its cost.
	w = testutils.PerformRequest(tc.Router, "DELETE", "/api/stops/"+stopID, nil, auth)
	require.Equal(t, http.StatusOK, w.Code)

	w = testutils.PerformRequest(tc.Router, "GET", "/api/trips/"+trip.ID+"/costs", nil, auth)
	testutils.DecodeJSON(t, w, &summary)
	assert.Equal(t, 120.0, summary.Logged.Total)
}
