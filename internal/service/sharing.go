package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/globetrotter/server/internal/apperrors"
	"github.com/globetrotter/server/internal/models"
)

const (
	slugAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	slugLength   = 8
	// slugAttempts bounds retries when a generated slug collides.
	slugAttempts = 5
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]{3,64}$`)

// Sharing operations

// Publish makes the trip readable by anyone holding the slug. An empty slug
// gets a random one.
func (s *DefaultService) Publish(ctx context.Context, userID, tripID, slug string) (*models.PublicShare, error) {
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}

	slug = strings.TrimSpace(slug)
	if slug != "" && !slugPattern.MatchString(slug) {
		return nil, apperrors.Validation("slug must be 3-64 characters of a-z, 0-9 or '-'",
			map[string]string{"slug": "invalid format"})
	}
	return s.publish(ctx, tripID, slug)
}

func (s *DefaultService) publish(ctx context.Context, tripID, slug string) (*models.PublicShare, error) {
	existing, err := s.repo.GetPublicShareByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("error getting share: %w", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("trip is already shared")
	}

	if slug != "" {
		share := &models.PublicShare{TripID: tripID, Slug: slug}
		if err := s.repo.CreatePublicShare(ctx, share); err != nil {
			return nil, fmt.Errorf("error creating share: %w", err)
		}
		return share, nil
	}

	for attempt := 0; ; attempt++ {
		generated, err := generateSlug()
		if err != nil {
			return nil, fmt.Errorf("error generating slug: %w", err)
		}

		share := &models.PublicShare{TripID: tripID, Slug: generated}
		err = s.repo.CreatePublicShare(ctx, share)
		if err == nil {
			return share, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) || attempt+1 >= slugAttempts {
			return nil, fmt.Errorf("error creating share: %w", err)
		}

		// Retry only if the collision was on the slug, not a concurrent share.
		existing, lookupErr := s.repo.GetPublicShareByTrip(ctx, tripID)
		if lookupErr != nil {
			return nil, fmt.Errorf("error getting share: %w", lookupErr)
		}
		if existing != nil {
			return nil, apperrors.Conflict("trip is already shared")
		}
	}
}

func (s *DefaultService) GetShare(ctx context.Context, userID, tripID string) (*models.PublicShare, error) {
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}

	share, err := s.repo.GetPublicShareByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("error getting share: %w", err)
	}
	if share == nil {
		return nil, apperrors.NotFound("trip is not shared")
	}
	return share, nil
}

func (s *DefaultService) Unpublish(ctx context.Context, userID, tripID string) error {
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return err
	}

	deleted, err := s.repo.DeletePublicShare(ctx, tripID)
	if err != nil {
		return fmt.Errorf("error deleting share: %w", err)
	}
	if !deleted {
		return apperrors.NotFound("trip is not shared")
	}
	return nil
}

// Resolve returns the shared trip behind slug with its owner's public
// profile. No authentication is involved.
func (s *DefaultService) Resolve(ctx context.Context, slug string) (*models.SharedTrip, error) {
	share, err := s.repo.GetPublicShareBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("error getting share: %w", err)
	}
	if share == nil {
		return nil, apperrors.NotFound("shared trip not found")
	}

	trip, err := s.loadTrip(ctx, share.TripID)
	if err != nil {
		return nil, err
	}

	owner, err := s.repo.GetUserByID(ctx, trip.UserID)
	if err != nil {
		return nil, fmt.Errorf("error getting owner: %w", err)
	}

	shared := &models.SharedTrip{Slug: share.Slug, Trip: trip}
	if owner != nil {
		shared.Owner = models.Owner{Name: owner.Name, Image: owner.Image}
	}
	return shared, nil
}

// generateSlug draws slugLength characters uniformly from slugAlphabet.
func generateSlug() (string, error) {
	size := big.NewInt(int64(len(slugAlphabet)))
	b := make([]byte, slugLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		b[i] = slugAlphabet[n.Int64()]
	}
	return string(b), nil
}
