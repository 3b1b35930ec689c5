package service

import (
	"context"
	"fmt"
	"time"

	"github.com/globetrotter/server/internal/apperrors"
	"github.com/globetrotter/server/internal/config"
	"github.com/globetrotter/server/internal/itinerary"
	"github.com/globetrotter/server/internal/models"
	"github.com/globetrotter/server/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Service defines all the business logic operations
type Service interface {
	// Authentication
	SignUp(ctx context.Context, req models.SignUpRequest) (*Session, error)
	Login(ctx context.Context, req models.LoginRequest) (*Session, error)
	CurrentUser(ctx context.Context, token string) (*models.Identity, error)
	Me(ctx context.Context, userID string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.Profile, error)
	TokenDuration() time.Duration

	// Catalog
	SearchCities(ctx context.Context, query string) ([]models.City, error)
	PopularCities(ctx context.Context, limit int) ([]models.City, error)
	GetCity(ctx context.Context, slugOrID string) (*models.City, error)
	SearchActivities(ctx context.Context, query, cityID string) ([]models.Activity, error)
	ActivitiesByCity(ctx context.Context, cityID, activityType string) ([]models.Activity, error)
	GetActivity(ctx context.Context, id string) (*models.Activity, error)

	// Trips
	CreateTrip(ctx context.Context, userID string, req models.CreateTripRequest) (*models.Trip, error)
	ListTrips(ctx context.Context, userID string) ([]models.Trip, error)
	GetTrip(ctx context.Context, userID, tripID string) (*models.Trip, error)
	UpdateTrip(ctx context.Context, userID, tripID string, req models.UpdateTripRequest) (*models.Trip, error)
	DeleteTrip(ctx context.Context, userID, tripID string) error
	TogglePublic(ctx context.Context, userID, tripID string) (*models.Trip, error)
	GetCalendar(ctx context.Context, userID, tripID string) (*itinerary.Calendar, error)
	GetCostSummary(ctx context.Context, userID, tripID string) (*itinerary.CostSummary, error)

	// Stops and their activities
	AddStop(ctx context.Context, userID, tripID string, req models.AddStopRequest) (*models.Stop, error)
	UpdateStop(ctx context.Context, userID, stopID string, req models.UpdateStopRequest) (*models.Stop, error)
	DeleteStop(ctx context.Context, userID, stopID string) error
	ReorderStops(ctx context.Context, userID, tripID string, orderedIDs []string) ([]models.Stop, error)
	AddActivityToStop(ctx context.Context, userID, stopID string, req models.AddTripActivityRequest) (*models.TripActivity, error)
	UpdateTripActivity(ctx context.Context, userID, id string, req models.UpdateTripActivityRequest) (*models.TripActivity, error)
	DeleteTripActivity(ctx context.Context, userID, id string) error
	ReorderActivities(ctx context.Context, userID, stopID string, orderedIDs []string) ([]models.TripActivity, error)

	// Costs
	AddCost(ctx context.Context, userID, tripID string, req models.AddCostRequest) (*models.CostItem, error)
	DeleteCost(ctx context.Context, userID, costID string) error

	// Sharing
	Publish(ctx context.Context, userID, tripID, slug string) (*models.PublicShare, error)
	GetShare(ctx context.Context, userID, tripID string) (*models.PublicShare, error)
	Unpublish(ctx context.Context, userID, tripID string) error
	Resolve(ctx context.Context, slug string) (*models.SharedTrip, error)
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo          repository.Repository
	jwtSecret     []byte
	tokenDuration time.Duration
	bcryptCost    int
	// dummyHash is compared against when a login email is unknown.
	dummyHash []byte
	location  *time.Location
}

// NewDefaultService creates a new DefaultService
func NewDefaultService(repo repository.Repository, cfg config.AuthConfig) (*DefaultService, error) {
	cost := cfg.BcryptCost
	if cost < bcrypt.DefaultCost {
		cost = bcrypt.DefaultCost
	}
	duration := cfg.TokenDuration
	if duration <= 0 {
		duration = 7 * 24 * time.Hour
	}

	dummyHash, err := bcrypt.GenerateFromPassword([]byte("globetrotter-placeholder"), cost)
	if err != nil {
		return nil, fmt.Errorf("error hashing placeholder password: %w", err)
	}

	return &DefaultService{
		repo:          repo,
		jwtSecret:     []byte(cfg.JWTSecret),
		tokenDuration: duration,
		bcryptCost:    cost,
		dummyHash:     dummyHash,
		location:      time.UTC,
	}, nil
}

// TokenDuration is the lifetime of issued session tokens.
func (s *DefaultService) TokenDuration() time.Duration {
	return s.tokenDuration
}

// Ownership helpers. Missing records are NotFound; records owned by another
// user are Forbidden.

func (s *DefaultService) ownedTrip(ctx context.Context, userID, tripID string) (*models.Trip, error) {
	trip, err := s.repo.GetTripSummary(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("error getting trip: %w", err)
	}
	if trip == nil {
		return nil, apperrors.NotFound("trip not found")
	}
	if trip.UserID != userID {
		return nil, apperrors.Forbidden("you don't have access to this trip")
	}
	return trip, nil
}

func (s *DefaultService) ownedStop(ctx context.Context, userID, stopID string) (*models.Stop, error) {
	stop, err := s.repo.GetStop(ctx, stopID)
	if err != nil {
		return nil, fmt.Errorf("error getting stop: %w", err)
	}
	if stop == nil {
		return nil, apperrors.NotFound("stop not found")
	}
	if _, err := s.ownedTrip(ctx, userID, stop.TripID); err != nil {
		return nil, err
	}
	return stop, nil
}

func (s *DefaultService) ownedTripActivity(ctx context.Context, userID, id string) (*models.TripActivity, error) {
	tripActivity, err := s.repo.GetTripActivity(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting trip activity: %w", err)
	}
	if tripActivity == nil {
		return nil, apperrors.NotFound("trip activity not found")
	}
	if _, err := s.ownedStop(ctx, userID, tripActivity.StopID); err != nil {
		return nil, err
	}
	return tripActivity, nil
}

// loadTrip returns the full aggregate of a trip already known to exist.
func (s *DefaultService) loadTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	trip, err := s.repo.GetTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("error loading trip: %w", err)
	}
	if trip == nil {
		return nil, apperrors.NotFound("trip not found")
	}
	return trip, nil
}

// checkDates rejects ranges that end before they start or that span more
// days than a calendar can show.
func checkDates(start, end *time.Time, field string) error {
	if start == nil || end == nil {
		return nil
	}
	if end.Before(*start) {
		return apperrors.Validation("end date must not be before start date",
			map[string]string{field: "must not be before start date"})
	}
	if end.Sub(*start) >= itinerary.MaxDays*24*time.Hour {
		return apperrors.Validation(fmt.Sprintf("date range must not exceed %d days", itinerary.MaxDays),
			map[string]string{field: fmt.Sprintf("must be within %d days of start date", itinerary.MaxDays)})
	}
	return nil
}
