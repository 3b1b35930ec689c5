package models

import "time"

// Request models
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required,min=2"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=2"`
	Image *string `json:"image" binding:"omitempty,max=2048"`
}

type CreateTripRequest struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	StartDate   *time.Time        `json:"startDate"`
	EndDate     *time.Time        `json:"endDate"`
	CoverPhoto  string            `json:"coverPhoto" binding:"omitempty,url"`
	Stops       []CreateStopInput `json:"stops" binding:"omitempty,dive"`
}

// CreateStopInput is a stop nested in CreateTripRequest. Position defaults to
// the stop's index in the request.
type CreateStopInput struct {
	CityID     string                    `json:"cityId" binding:"required"`
	Position   *int                      `json:"position" binding:"omitempty,min=0"`
	StartDate  *time.Time                `json:"startDate"`
	EndDate    *time.Time                `json:"endDate"`
	Notes      string                    `json:"notes"`
	Activities []CreateTripActivityInput `json:"activities" binding:"omitempty,dive"`
}

// CreateTripActivityInput is an activity nested in CreateStopInput.
type CreateTripActivityInput struct {
	ActivityID  string     `json:"activityId" binding:"required"`
	Position    *int       `json:"position" binding:"omitempty,min=0"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	Notes       string     `json:"notes"`
}

// UpdateTripRequest carries only the fields to change.
type UpdateTripRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=1"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	CoverPhoto  *string    `json:"coverPhoto" binding:"omitempty,max=2048"`
}

type AddStopRequest struct {
	CityID    string     `json:"cityId" binding:"required"`
	Position  *int       `json:"position" binding:"omitempty,min=0"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	Notes     string     `json:"notes"`
}

type UpdateStopRequest struct {
	CityID    *string    `json:"cityId" binding:"omitempty,min=1"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	Notes     *string    `json:"notes"`
}

type ReorderRequest struct {
	OrderedIDs []string `json:"orderedIds" binding:"required,min=1,dive,required"`
}

type AddTripActivityRequest struct {
	ActivityID  string     `json:"activityId" binding:"required"`
	Position    *int       `json:"position" binding:"omitempty,min=0"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	Notes       string     `json:"notes"`
}

type UpdateTripActivityRequest struct {
	ScheduledAt *time.Time `json:"scheduledAt"`
	Notes       *string    `json:"notes"`
}

// AddCostRequest scopes the cost to StopID when given, otherwise to the trip.
type AddCostRequest struct {
	StopID      *string      `json:"stopId" binding:"omitempty,min=1"`
	Category    CostCategory `json:"category" binding:"required,oneof=TRANSPORT STAY ACTIVITY MEAL OTHER"`
	Amount      float64      `json:"amount" binding:"required,gt=0"`
	Currency    string       `json:"currency" binding:"omitempty,len=3"`
	Description string       `json:"description"`
}

type PublishRequest struct {
	Slug string `json:"slug"`
}

// Response models
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Status  string            `json:"status"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}
