// Package itinerary builds read-only views derived from a loaded trip
// aggregate: a per-day calendar and a cost breakdown. Nothing here touches
// storage.
package itinerary

import (
	"sort"
	"time"

	"github.com/globetrotter/server/internal/models"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	// MaxDays is the longest calendar built for one trip. Later days are
	// dropped.
	MaxDays = 366
)

// Event is one trip activity placed on a calendar day.
type Event struct {
	TripActivityID string              `json:"tripActivityId"`
	ActivityID     string              `json:"activityId"`
	StopID         string              `json:"stopId"`
	Name           string              `json:"name"`
	Type           models.ActivityType `json:"type,omitempty"`
	DurationMin    int                 `json:"durationMin,omitempty"`
	Timed          bool                `json:"timed"`
	Time           string              `json:"time,omitempty"`
	ScheduledAt    *time.Time          `json:"scheduledAt,omitempty"`
}

// Day is one calendar day of the trip.
type Day struct {
	Date     string  `json:"date"`
	StopID   string  `json:"stopId,omitempty"`
	CityName string  `json:"cityName,omitempty"`
	Events   []Event `json:"events"`
}

// Calendar is the day-by-day view of a trip.
type Calendar struct {
	TripID string `json:"tripId"`
	Days   []Day  `json:"days"`
}

// BuildCalendar buckets the trip's activities into calendar days in loc.
//
// Days span the trip's start and end dates inclusive; when the trip is
// undated the range comes from its dated stops. Each day is attributed to the
// stop whose own date range contains it. When no stop carries dates, days are
// split into contiguous blocks of ceil(days/stops) in position order.
// Activities scheduled on a day become timed events. Unscheduled activities
// appear on their stop's first day. Timed events come first by time, then
// untimed events in stop/position order.
func BuildCalendar(trip *models.Trip, loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	cal := Calendar{TripID: trip.ID, Days: []Day{}}

	stops := make([]models.Stop, len(trip.Stops))
	copy(stops, trip.Stops)
	sort.SliceStable(stops, func(i, j int) bool { return stops[i].Position < stops[j].Position })

	first, last, ok := tripRange(trip, stops, loc)
	if !ok {
		return cal
	}
	if limit := first.AddDate(0, 0, MaxDays-1); last.After(limit) {
		last = limit
	}

	var days []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}

	dated := false
	for _, stop := range stops {
		if hasDates(stop) {
			dated = true
			break
		}
	}

	blockSize := 1
	if len(stops) > 0 {
		blockSize = (len(days) + len(stops) - 1) / len(stops)
	}

	// Day index on which each stop's unscheduled activities are listed.
	firstDay := make([]int, len(stops))
	for i, stop := range stops {
		if hasDates(stop) {
			start, _ := stopRange(stop, loc)
			firstDay[i] = clampIndex(dayIndex(first, start), len(days))
		} else {
			firstDay[i] = clampIndex(i*blockSize, len(days))
		}
	}

	for idx, date := range days {
		day := Day{Date: date.Format(dateLayout), Events: []Event{}}

		if current := currentStop(stops, date, idx, blockSize, dated, loc); current != nil {
			day.StopID = current.ID
			if current.City != nil {
				day.CityName = current.City.Name
			}
		}

		for _, stop := range stops {
			for _, ta := range stop.Activities {
				if ta.ScheduledAt != nil && dayOf(*ta.ScheduledAt, loc).Equal(date) {
					day.Events = append(day.Events, newEvent(stop, ta, loc))
				}
			}
		}
		for i, stop := range stops {
			if firstDay[i] != idx {
				continue
			}
			for _, ta := range stop.Activities {
				if ta.ScheduledAt == nil {
					day.Events = append(day.Events, newEvent(stop, ta, loc))
				}
			}
		}

		sort.SliceStable(day.Events, func(i, j int) bool {
			a, b := day.Events[i], day.Events[j]
			if a.Timed != b.Timed {
				return a.Timed
			}
			if a.Timed {
				return a.ScheduledAt.Before(*b.ScheduledAt)
			}
			return false
		})

		cal.Days = append(cal.Days, day)
	}

	return cal
}

// tripRange returns the first and last calendar day of the trip.
func tripRange(trip *models.Trip, stops []models.Stop, loc *time.Location) (time.Time, time.Time, bool) {
	var first, last *time.Time
	if trip.StartDate != nil {
		d := dayOf(*trip.StartDate, loc)
		first = &d
	}
	if trip.EndDate != nil {
		d := dayOf(*trip.EndDate, loc)
		last = &d
	}

	for _, stop := range stops {
		if !hasDates(stop) {
			continue
		}
		start, end := stopRange(stop, loc)
		if trip.StartDate == nil && (first == nil || start.Before(*first)) {
			first = &start
		}
		if trip.EndDate == nil && (last == nil || end.After(*last)) {
			last = &end
		}
	}

	if first == nil || last == nil || last.Before(*first) {
		return time.Time{}, time.Time{}, false
	}
	return *first, *last, true
}

func currentStop(stops []models.Stop, date time.Time, idx, blockSize int, dated bool, loc *time.Location) *models.Stop {
	if len(stops) == 0 {
		return nil
	}
	if !dated {
		i := idx / blockSize
		if i >= len(stops) {
			i = len(stops) - 1
		}
		return &stops[i]
	}
	for i := range stops {
		if !hasDates(stops[i]) {
			continue
		}
		start, end := stopRange(stops[i], loc)
		if !date.Before(start) && !date.After(end) {
			return &stops[i]
		}
	}
	return nil
}

func hasDates(stop models.Stop) bool {
	return stop.StartDate != nil || stop.EndDate != nil
}

// stopRange is the inclusive day range of a stop with at least one date. A
// stop with a single date covers that day only.
func stopRange(stop models.Stop, loc *time.Location) (time.Time, time.Time) {
	if stop.StartDate == nil {
		end := dayOf(*stop.EndDate, loc)
		return end, end
	}
	start := dayOf(*stop.StartDate, loc)
	end := start
	if stop.EndDate != nil {
		end = dayOf(*stop.EndDate, loc)
	}
	return start, end
}

func newEvent(stop models.Stop, ta models.TripActivity, loc *time.Location) Event {
	event := Event{
		TripActivityID: ta.ID,
		ActivityID:     ta.ActivityID,
		StopID:         stop.ID,
	}
	if ta.Activity != nil {
		event.Name = ta.Activity.Name
		event.Type = ta.Activity.Type
		event.DurationMin = ta.Activity.DurationMin
	}
	if ta.ScheduledAt != nil {
		at := ta.ScheduledAt.In(loc)
		event.Timed = true
		event.Time = at.Format(timeLayout)
		event.ScheduledAt = &at
	}
	return event
}

// dayOf truncates t to midnight of its calendar day in loc.
func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// dayIndex counts calendar days from first to d.
func dayIndex(first, d time.Time) int {
	// Dates rebuilt in UTC keep DST shifts out of the day count.
	a := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
