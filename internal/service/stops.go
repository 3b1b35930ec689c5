package service

import (
	"context"
	"fmt"

	"github.com/globetrotter/server/internal/models"
)

// Stop operations

// AddStop appends a stop to the trip. Without an explicit position the stop
// goes to the current stop count.
func (s *DefaultService) AddStop(ctx context.Context, userID, tripID string, req models.AddStopRequest) (*models.Stop, error) {
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}
	if err := s.requireCity(ctx, req.CityID, "cityId"); err != nil {
		return nil, err
	}
	if err := checkDates(req.StartDate, req.EndDate, "endDate"); err != nil {
		return nil, err
	}

	position := 0
	if req.Position != nil {
		position = *req.Position
	} else {
		count, err := s.repo.CountStops(ctx, tripID)
		if err != nil {
			return nil, fmt.Errorf("error counting stops: %w", err)
		}
		position = count
	}

	stop := &models.Stop{
		TripID:    tripID,
		CityID:    req.CityID,
		Position:  position,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Notes:     req.Notes,
	}
	if err := s.repo.AddStop(ctx, stop); err != nil {
		return nil, fmt.Errorf("error adding stop: %w", err)
	}

	return s.loadStop(ctx, tripID, stop.ID)
}

func (s *DefaultService) UpdateStop(ctx context.Context, userID, stopID string, req models.UpdateStopRequest) (*models.Stop, error) {
	stop, err := s.ownedStop(ctx, userID, stopID)
	if err != nil {
		return nil, err
	}
	if req.CityID != nil {
		if err := s.requireCity(ctx, *req.CityID, "cityId"); err != nil {
			return nil, err
		}
	}

	start, end := stop.StartDate, stop.EndDate
	if req.StartDate != nil {
		start = req.StartDate
	}
	if req.EndDate != nil {
		end = req.EndDate
	}
	if err := checkDates(start, end, "endDate"); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStop(ctx, stopID, req); err != nil {
		return nil, fmt.Errorf("error updating stop: %w", err)
	}
	return s.loadStop(ctx, stop.TripID, stopID)
}

// DeleteStop removes the stop with its activities and stop-scoped costs.
// Remaining positions are left as they are.
func (s *DefaultService) DeleteStop(ctx context.Context, userID, stopID string) error {
	if _, err := s.ownedStop(ctx, userID, stopID); err != nil {
		return err
	}
	if err := s.repo.DeleteStop(ctx, stopID); err != nil {
		return fmt.Errorf("error deleting stop: %w", err)
	}
	return nil
}

func (s *DefaultService) ReorderStops(ctx context.Context, userID, tripID string, orderedIDs []string) ([]models.Stop, error) {
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}
	if err := s.repo.ReorderStops(ctx, tripID, orderedIDs); err != nil {
		return nil, fmt.Errorf("error reordering stops: %w", err)
	}

	stops, err := s.repo.GetTripStops(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("error getting stops: %w", err)
	}
	return stops, nil
}

// Trip activity operations

// AddActivityToStop links a catalog activity into the stop. The same
// activity may be added more than once. Without an explicit position it is
// appended after the stop's last activity.
func (s *DefaultService) AddActivityToStop(ctx context.Context, userID, stopID string, req models.AddTripActivityRequest) (*models.TripActivity, error) {
	if _, err := s.ownedStop(ctx, userID, stopID); err != nil {
		return nil, err
	}
	if err := s.requireActivity(ctx, req.ActivityID, "activityId"); err != nil {
		return nil, err
	}

	tripActivity := &models.TripActivity{
		StopID:      stopID,
		ActivityID:  req.ActivityID,
		Position:    positionOr(req.Position, -1),
		ScheduledAt: req.ScheduledAt,
		Notes:       req.Notes,
	}
	if err := s.repo.AddTripActivity(ctx, tripActivity); err != nil {
		return nil, fmt.Errorf("error adding trip activity: %w", err)
	}

	return s.loadTripActivity(ctx, tripActivity.ID)
}

func (s *DefaultService) UpdateTripActivity(ctx context.Context, userID, id string, req models.UpdateTripActivityRequest) (*models.TripActivity, error) {
	if _, err := s.ownedTripActivity(ctx, userID, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateTripActivity(ctx, id, req); err != nil {
		return nil, fmt.Errorf("error updating trip activity: %w", err)
	}
	return s.loadTripActivity(ctx, id)
}

func (s *DefaultService) DeleteTripActivity(ctx context.Context, userID, id string) error {
	if _, err := s.ownedTripActivity(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteTripActivity(ctx, id); err != nil {
		return fmt.Errorf("error deleting trip activity: %w", err)
	}
	return nil
}

func (s *DefaultService) ReorderActivities(ctx context.Context, userID, stopID string, orderedIDs []string) ([]models.TripActivity, error) {
	if _, err := s.ownedStop(ctx, userID, stopID); err != nil {
		return nil, err
	}
	if err := s.repo.ReorderTripActivities(ctx, stopID, orderedIDs); err != nil {
		return nil, fmt.Errorf("error reordering activities: %w", err)
	}

	activities, err := s.repo.GetStopActivities(ctx, stopID)
	if err != nil {
		return nil, fmt.Errorf("error getting activities: %w", err)
	}
	return activities, nil
}

// loadStop returns the stop with its city and activities.
func (s *DefaultService) loadStop(ctx context.Context, tripID, stopID string) (*models.Stop, error) {
	stops, err := s.repo.GetTripStops(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("error getting stops: %w", err)
	}
	for i := range stops {
		if stops[i].ID != stopID {
			continue
		}
		activities, err := s.repo.GetStopActivities(ctx, stopID)
		if err != nil {
			return nil, fmt.Errorf("error getting activities: %w", err)
		}
		stops[i].Activities = activities
		return &stops[i], nil
	}
	return nil, fmt.Errorf("stop %s vanished after write", stopID)
}

func (s *DefaultService) loadTripActivity(ctx context.Context, id string) (*models.TripActivity, error) {
	tripActivity, err := s.repo.GetTripActivity(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting trip activity: %w", err)
	}
	if tripActivity == nil {
		return nil, fmt.Errorf("trip activity %s vanished after write", id)
	}
	return tripActivity, nil
}
