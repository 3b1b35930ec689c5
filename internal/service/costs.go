package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/globetrotter/server/internal/apperrors"
	"github.com/globetrotter/server/internal/models"
)

// DefaultCurrency is used for cost items logged without a currency.
const DefaultCurrency = "INR"

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Cost operations

// AddCost logs spend against the trip, or against one of its stops when
// req.StopID is set.
func (s *DefaultService) AddCost(ctx context.Context, userID, tripID string, req models.AddCostRequest) (*models.CostItem, error) {
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}

	category := models.CostCategory(strings.ToUpper(string(req.Category)))
	if !category.Valid() {
		return nil, apperrors.Validation("unknown cost category", map[string]string{"category": "unknown category"})
	}
	if req.Amount <= 0 {
		return nil, apperrors.Validation("amount must be greater than zero", map[string]string{"amount": "must be greater than 0"})
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	if !currencyPattern.MatchString(currency) {
		return nil, apperrors.Validation("currency must be a 3-letter code", map[string]string{"currency": "3-letter code"})
	}

	scope := models.TripScope(tripID)
	if req.StopID != nil {
		stop, err := s.repo.GetStop(ctx, *req.StopID)
		if err != nil {
			return nil, fmt.Errorf("error getting stop: %w", err)
		}
		if stop == nil || stop.TripID != tripID {
			return nil, apperrors.Validation("stop does not belong to this trip", map[string]string{"stopId": "unknown stop"})
		}
		scope = models.StopScope(stop.ID)
	}

	item := &models.CostItem{
		TripID:      tripID,
		Scope:       scope,
		Category:    category,
		Amount:      req.Amount,
		Currency:    currency,
		Description: req.Description,
	}
	if err := s.repo.AddCostItem(ctx, item); err != nil {
		return nil, fmt.Errorf("error adding cost item: %w", err)
	}
	return item, nil
}

func (s *DefaultService) DeleteCost(ctx context.Context, userID, costID string) error {
	item, err := s.repo.GetCostItem(ctx, costID)
	if err != nil {
		return fmt.Errorf("error getting cost item: %w", err)
	}
	if item == nil {
		return apperrors.NotFound("cost item not found")
	}
	if _, err := s.ownedTrip(ctx, userID, item.TripID); err != nil {
		return err
	}

	if err := s.repo.DeleteCostItem(ctx, costID); err != nil {
		return fmt.Errorf("error deleting cost item: %w", err)
	}
	return nil
}
