package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/globetrotter/server/internal/apperrors"
	"github.com/globetrotter/server/internal/itinerary"
	"github.com/globetrotter/server/internal/models"
)

// Trip operations

// CreateTrip writes the trip with its nested stops and activities in one
// transaction and returns the loaded aggregate. Nested positions default to
// the item's index in the request.
func (s *DefaultService) CreateTrip(ctx context.Context, userID string, req models.CreateTripRequest) (*models.Trip, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.Validation("trip name is required", map[string]string{"name": "required"})
	}
	if err := checkDates(req.StartDate, req.EndDate, "endDate"); err != nil {
		return nil, err
	}

	trip := &models.Trip{
		UserID:      userID,
		Name:        name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CoverPhoto:  req.CoverPhoto,
		Stops:       make([]models.Stop, 0, len(req.Stops)),
	}

	for i, in := range req.Stops {
		field := fmt.Sprintf("stops[%d]", i)
		if err := s.requireCity(ctx, in.CityID, field+".cityId"); err != nil {
			return nil, err
		}
		if err := checkDates(in.StartDate, in.EndDate, field+".endDate"); err != nil {
			return nil, err
		}

		stop := models.Stop{
			CityID:     in.CityID,
			Position:   positionOr(in.Position, i),
			StartDate:  in.StartDate,
			EndDate:    in.EndDate,
			Notes:      in.Notes,
			Activities: make([]models.TripActivity, 0, len(in.Activities)),
		}

		for j, act := range in.Activities {
			if err := s.requireActivity(ctx, act.ActivityID, fmt.Sprintf("%s.activities[%d].activityId", field, j)); err != nil {
				return nil, err
			}
			stop.Activities = append(stop.Activities, models.TripActivity{
				ActivityID:  act.ActivityID,
				Position:    positionOr(act.Position, j),
				ScheduledAt: act.ScheduledAt,
				Notes:       act.Notes,
			})
		}
		trip.Stops = append(trip.Stops, stop)
	}

	if err := s.repo.CreateTrip(ctx, trip); err != nil {
		return nil, fmt.Errorf("error creating trip: %w", err)
	}

	return s.loadTrip(ctx, trip.ID)
}

func (s *DefaultService) ListTrips(ctx context.Context, userID string) ([]models.Trip, error) {
	trips, err := s.repo.GetUserTrips(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting trips: %w", err)
	}
	return trips, nil
}

func (s *DefaultService) GetTrip(ctx context.Context, userID, tripID string) (*models.Trip, error) {
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}
	return s.loadTrip(ctx, tripID)
}

// UpdateTrip applies the supplied fields. The resulting date range is checked
// against the stored values for fields left out.
func (s *DefaultService) UpdateTrip(ctx context.Context, userID, tripID string, req models.UpdateTripRequest) (*models.Trip, error) {
	trip, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.Validation("trip name is required", map[string]string{"name": "required"})
		}
		req.Name = &name
	}

	start, end := trip.StartDate, trip.EndDate
	if req.StartDate != nil {
		start = req.StartDate
	}
	if req.EndDate != nil {
		end = req.EndDate
	}
	if err := checkDates(start, end, "endDate"); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTrip(ctx, tripID, req); err != nil {
		return nil, fmt.Errorf("error updating trip: %w", err)
	}
	return s.loadTrip(ctx, tripID)
}

func (s *DefaultService) DeleteTrip(ctx context.Context, userID, tripID string) error {
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return err
	}

	if err := s.repo.DeleteTrip(ctx, tripID); err != nil {
		return fmt.Errorf("error deleting trip: %w", err)
	}
	return nil
}

// TogglePublic publishes a private trip under a generated slug, or
// unpublishes a shared one. It reads then writes without a lock; two
// concurrent toggles may both observe the same state.
func (s *DefaultService) TogglePublic(ctx context.Context, userID, tripID string) (*models.Trip, error) {
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}

	share, err := s.repo.GetPublicShareByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("error getting share: %w", err)
	}

	if share != nil {
		if _, err := s.repo.DeletePublicShare(ctx, tripID); err != nil {
			return nil, fmt.Errorf("error deleting share: %w", err)
		}
	} else if _, err := s.publish(ctx, tripID, ""); err != nil {
		return nil, err
	}

	return s.loadTrip(ctx, tripID)
}

// GetCalendar buckets the trip's activities into days.
func (s *DefaultService) GetCalendar(ctx context.Context, userID, tripID string) (*itinerary.Calendar, error) {
	trip, err := s.GetTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	cal := itinerary.BuildCalendar(trip, s.location)
	return &cal, nil
}

// GetCostSummary reports logged costs and the activity estimate side by side.
func (s *DefaultService) GetCostSummary(ctx context.Context, userID, tripID string) (*itinerary.CostSummary, error) {
	trip, err := s.GetTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	summary := itinerary.BuildCostSummary(trip)
	return &summary, nil
}

func positionOr(position *int, fallback int) int {
	if position != nil {
		return *position
	}
	return fallback
}
