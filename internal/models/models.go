package models

import (
	"time"
)

// User represents a user in the system
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Image     string    `json:"image,omitempty"`
	Password  string    `json:"-"` // Password hash, not returned in JSON
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PublicUser is the projection returned by signup and login.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Profile is the projection returned by /auth/me.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public returns the signup/login projection of u.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Profile returns the /auth/me projection of u.
func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Email: u.Email, Image: u.Image, CreatedAt: u.CreatedAt}
}

// Identity is the authenticated caller embedded in a session token.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// City is catalog reference data.
type City struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Country    string     `json:"country"`
	Slug       string     `json:"slug"`
	Lat        float64    `json:"lat"`
	Lng        float64    `json:"lng"`
	CostIndex  int        `json:"costIndex"`
	Popularity int        `json:"popularity"`
	Activities []Activity `json:"activities,omitempty"`
}

// ActivityType classifies catalog activities.
type ActivityType string

const (
	ActivitySightseeing ActivityType = "SIGHTSEEING"
	ActivityFood        ActivityType = "FOOD"
	ActivityAdventure   ActivityType = "ADVENTURE"
	ActivityCulture     ActivityType = "CULTURE"
	ActivityTransport   ActivityType = "TRANSPORT"
	ActivityOther       ActivityType = "OTHER"
)

// Valid reports whether t is a known activity type.
func (t ActivityType) Valid() bool {
	switch t {
	case ActivitySightseeing, ActivityFood, ActivityAdventure, ActivityCulture, ActivityTransport, ActivityOther:
		return true
	}
	return false
}

// Activity is a catalog activity, optionally tied to a city.
type Activity struct {
	ID          string       `json:"id"`
	CityID      *string      `json:"cityId,omitempty"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Type        ActivityType `json:"type"`
	AvgCost     float64      `json:"avgCost"`
	DurationMin int          `json:"durationMin"`
}

// Trip is the root of the planning aggregate.
type Trip struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	// IsPublic mirrors whether a PublicShare exists for the trip.
	IsPublic   bool       `json:"isPublic"`
	CoverPhoto string     `json:"coverPhoto,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	Stops      []Stop     `json:"stops,omitempty"`
	CostItems  []CostItem `json:"costItems,omitempty"`
}

// Stop is one city visit within a trip, ordered by Position.
type Stop struct {
	ID         string         `json:"id"`
	TripID     string         `json:"tripId"`
	CityID     string         `json:"cityId"`
	City       *City          `json:"city,omitempty"`
	Position   int            `json:"position"`
	StartDate  *time.Time     `json:"startDate,omitempty"`
	EndDate    *time.Time     `json:"endDate,omitempty"`
	Notes      string         `json:"notes"`
	Activities []TripActivity `json:"activities,omitempty"`
}

// TripActivity links a catalog activity into a stop's timeline.
type TripActivity struct {
	ID          string     `json:"id"`
	StopID      string     `json:"stopId"`
	ActivityID  string     `json:"activityId"`
	Activity    *Activity  `json:"activity,omitempty"`
	Position    int        `json:"position"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	Notes       string     `json:"notes"`
}

// CostCategory classifies logged spend.
type CostCategory string

const (
	CostTransport CostCategory = "TRANSPORT"
	CostStay      CostCategory = "STAY"
	CostActivity  CostCategory = "ACTIVITY"
	CostMeal      CostCategory = "MEAL"
	CostOther     CostCategory = "OTHER"
)

// CostCategories lists categories in display order.
var CostCategories = []CostCategory{CostTransport, CostStay, CostActivity, CostMeal, CostOther}

// Valid reports whether c is a known cost category.
func (c CostCategory) Valid() bool {
	for _, known := range CostCategories {
		if c == known {
			return true
		}
	}
	return false
}

// CostScopeKind tells whether a cost belongs to a whole trip or one stop.
type CostScopeKind string

const (
	ScopeTrip CostScopeKind = "trip"
	ScopeStop CostScopeKind = "stop"
)

// CostScope is the single owner of a cost item: Trip(id) or Stop(id).
type CostScope struct {
	Kind CostScopeKind `json:"kind"`
	ID   string        `json:"id"`
}

// TripScope returns a trip-level cost scope.
func TripScope(tripID string) CostScope {
	return CostScope{Kind: ScopeTrip, ID: tripID}
}

// StopScope returns a stop-level cost scope.
func StopScope(stopID string) CostScope {
	return CostScope{Kind: ScopeStop, ID: stopID}
}

// CostItem is an explicit spend record. TripID is always set: for stop-scoped
// items it is the stop's trip.
type CostItem struct {
	ID          string       `json:"id"`
	TripID      string       `json:"tripId"`
	Scope       CostScope    `json:"scope"`
	Category    CostCategory `json:"category"`
	Amount      float64      `json:"amount"`
	Currency    string       `json:"currency"`
	Description string       `json:"description"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// PublicShare grants anonymous read access to one trip.
type PublicShare struct {
	ID        string    `json:"id"`
	TripID    string    `json:"tripId"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

// Owner is the public face of a shared trip's author.
type Owner struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// SharedTrip is the anonymous read model behind a share slug.
type SharedTrip struct {
	Slug  string `json:"slug"`
	Owner Owner  `json:"owner"`
	Trip  *Trip  `json:"trip"`
}
