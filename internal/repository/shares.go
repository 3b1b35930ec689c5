package repository

import (
	"context"

	"github.com/globetrotter/server/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const shareColumns = `id, trip_id, slug, created_at`

type shareRow struct {
	ID        string `db:"id"`
	TripID    string `db:"trip_id"`
	Slug      string `db:"slug"`
	CreatedAt int64  `db:"created_at"`
}

func (row shareRow) toModel() *models.PublicShare {
	return &models.PublicShare{
		ID:        row.ID,
		TripID:    row.TripID,
		Slug:      row.Slug,
		CreatedAt: fromMillis(row.CreatedAt),
	}
}

// Public share repository methods

// CreatePublicShare inserts the share and marks the trip public in the same
// transaction. A second share for the trip, or a taken slug, is a conflict.
func (r *SQLRepository) CreatePublicShare(ctx context.Context, share *models.PublicShare) error {
	if share.ID == "" {
		share.ID = uuid.New().String()
	}
	share.CreatedAt = now()

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		_, err := exec(ctx, tx, `
			INSERT INTO public_shares (id, trip_id, slug, created_at)
			VALUES (?, ?, ?, ?)`,
			share.ID, share.TripID, share.Slug, toMillis(share.CreatedAt))
		if err != nil {
			return mapWriteError(err, "trip is already shared or slug is taken")
		}

		_, err = exec(ctx, tx, `UPDATE trips SET is_public = ?, updated_at = ? WHERE id = ?`,
			true, toMillis(share.CreatedAt), share.TripID)
		return err
	})
}

func (r *SQLRepository) GetPublicShareByTrip(ctx context.Context, tripID string) (*models.PublicShare, error) {
	var row shareRow
	found, err := get(ctx, r.db, &row, `SELECT `+shareColumns+` FROM public_shares WHERE trip_id = ?`, tripID)
	if err != nil || !found {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *SQLRepository) GetPublicShareBySlug(ctx context.Context, slug string) (*models.PublicShare, error) {
	var row shareRow
	found, err := get(ctx, r.db, &row, `SELECT `+shareColumns+` FROM public_shares WHERE slug = ?`, slug)
	if err != nil || !found {
		return nil, err
	}
	return row.toModel(), nil
}

// DeletePublicShare removes the trip's share and clears its public flag. It
// reports whether a share existed.
func (r *SQLRepository) DeletePublicShare(ctx context.Context, tripID string) (bool, error) {
	var deleted bool
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		ok, err := execOne(ctx, tx, `DELETE FROM public_shares WHERE trip_id = ?`, tripID)
		if err != nil {
			return err
		}
		deleted = ok

		_, err = exec(ctx, tx, `UPDATE trips SET is_public = ?, updated_at = ? WHERE id = ?`,
			false, toMillis(now()), tripID)
		return err
	})
	return deleted, err
}
