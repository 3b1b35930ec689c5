package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/globetrotter/server/internal/apperrors"
	"github.com/globetrotter/server/internal/models"
)

const (
	cityResultLimit     = 50
	activityResultLimit = 20
	defaultPopularLimit = 10
)

func (s *DefaultService) SearchCities(ctx context.Context, query string) ([]models.City, error) {
	cities, err := s.repo.SearchCities(ctx, strings.TrimSpace(query), cityResultLimit)
	if err != nil {
		return nil, fmt.Errorf("error searching cities: %w", err)
	}
	return cities, nil
}

// PopularCities returns the most popular cities. Limits outside 1..50 fall
// back to the default page of 10.
func (s *DefaultService) PopularCities(ctx context.Context, limit int) ([]models.City, error) {
	if limit <= 0 || limit > cityResultLimit {
		limit = defaultPopularLimit
	}
	cities, err := s.repo.SearchCities(ctx, "", limit)
	if err != nil {
		return nil, fmt.Errorf("error getting popular cities: %w", err)
	}
	return cities, nil
}

// GetCity looks a city up by slug, then by id.
func (s *DefaultService) GetCity(ctx context.Context, slugOrID string) (*models.City, error) {
	city, err := s.repo.GetCityBySlug(ctx, slugOrID)
	if err != nil {
		return nil, fmt.Errorf("error getting city: %w", err)
	}
	if city == nil {
		city, err = s.repo.GetCityByID(ctx, slugOrID)
		if err != nil {
			return nil, fmt.Errorf("error getting city: %w", err)
		}
	}
	if city == nil {
		return nil, apperrors.NotFound("city not found")
	}
	return city, nil
}

func (s *DefaultService) SearchActivities(ctx context.Context, query, cityID string) ([]models.Activity, error) {
	activities, err := s.repo.SearchActivities(ctx, strings.TrimSpace(query), strings.TrimSpace(cityID), activityResultLimit)
	if err != nil {
		return nil, fmt.Errorf("error searching activities: %w", err)
	}
	return activities, nil
}

func (s *DefaultService) ActivitiesByCity(ctx context.Context, cityID, activityType string) ([]models.Activity, error) {
	if strings.TrimSpace(cityID) == "" {
		return nil, apperrors.Validation("cityId is required", map[string]string{"cityId": "required"})
	}

	t := models.ActivityType(strings.ToUpper(strings.TrimSpace(activityType)))
	if t != "" && !t.Valid() {
		return nil, apperrors.Validation("unknown activity type", map[string]string{"type": "unknown activity type"})
	}

	activities, err := s.repo.GetActivitiesByCity(ctx, cityID, t)
	if err != nil {
		return nil, fmt.Errorf("error getting activities: %w", err)
	}
	return activities, nil
}

func (s *DefaultService) GetActivity(ctx context.Context, id string) (*models.Activity, error) {
	activity, err := s.repo.GetActivity(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting activity: %w", err)
	}
	if activity == nil {
		return nil, apperrors.NotFound("activity not found")
	}
	return activity, nil
}

// requireCity and requireActivity turn dangling references into validation
// errors before anything is written.
func (s *DefaultService) requireCity(ctx context.Context, cityID, field string) error {
	city, err := s.repo.GetCityByID(ctx, cityID)
	if err != nil {
		return fmt.Errorf("error getting city: %w", err)
	}
	if city == nil {
		return apperrors.Validation("city does not exist", map[string]string{field: "unknown city"})
	}
	return nil
}

func (s *DefaultService) requireActivity(ctx context.Context, activityID, field string) error {
	activity, err := s.repo.GetActivity(ctx, activityID)
	if err != nil {
		return fmt.Errorf("error getting activity: %w", err)
	}
	if activity == nil {
		return apperrors.Validation("activity does not exist", map[string]string{field: "unknown activity"})
	}
	return nil
}
