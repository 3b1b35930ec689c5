package itinerary

import (
	"sort"

	"github.com/globetrotter/server/internal/models"
)

// CostSummary keeps logged spend and the catalog-based estimate apart: the
// first is money the user recorded, the second is a planning figure.
type CostSummary struct {
	TripID   string   `json:"tripId"`
	Logged   Logged   `json:"logged"`
	Estimate Estimate `json:"estimate"`
}

// Logged sums the trip's cost items.
type Logged struct {
	ByCategory map[models.CostCategory]float64 `json:"byCategory"`
	ByCurrency map[string]float64              `json:"byCurrency"`
	Total      float64                         `json:"total"`
	ItemCount  int                             `json:"itemCount"`
}

// Estimate sums catalog average costs of every planned activity.
type Estimate struct {
	Total         float64        `json:"total"`
	ActivityCount int            `json:"activityCount"`
	ByStop        []StopEstimate `json:"byStop"`
}

// StopEstimate is the estimate for one stop.
type StopEstimate struct {
	StopID        string  `json:"stopId"`
	CityName      string  `json:"cityName,omitempty"`
	Total         float64 `json:"total"`
	ActivityCount int     `json:"activityCount"`
}

// BuildCostSummary computes both cost views for a loaded trip. Categories
// with no items are absent from Logged.ByCategory.
func BuildCostSummary(trip *models.Trip) CostSummary {
	return CostSummary{
		TripID:   trip.ID,
		Logged:   SumByCategory(trip.CostItems),
		Estimate: EstimateActivities(trip.Stops),
	}
}

// SumByCategory totals cost items per category and per currency.
func SumByCategory(items []models.CostItem) Logged {
	logged := Logged{
		ByCategory: make(map[models.CostCategory]float64),
		ByCurrency: make(map[string]float64),
	}
	for _, item := range items {
		logged.ByCategory[item.Category] += item.Amount
		logged.ByCurrency[item.Currency] += item.Amount
		logged.Total += item.Amount
		logged.ItemCount++
	}
	return logged
}

// EstimateActivities sums each trip activity's catalog avgCost, per stop in
// position order and overall.
func EstimateActivities(stops []models.Stop) Estimate {
	ordered := make([]models.Stop, len(stops))
	copy(ordered, stops)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Position < ordered[j].Position })

	estimate := Estimate{ByStop: make([]StopEstimate, 0, len(ordered))}
	for _, stop := range ordered {
		se := StopEstimate{StopID: stop.ID}
		if stop.City != nil {
			se.CityName = stop.City.Name
		}
		for _, ta := range stop.Activities {
			se.ActivityCount++
			if ta.Activity != nil {
				se.Total += ta.Activity.AvgCost
			}
		}
		estimate.Total += se.Total
		estimate.ActivityCount += se.ActivityCount
		estimate.ByStop = append(estimate.ByStop, se)
	}
	return estimate
}
