package repository

import (
	"context"
	"database/sql"

	"github.com/globetrotter/server/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const tripColumns = `id, user_id, name, description, start_date, end_date, is_public, cover_photo, created_at, updated_at`

type tripRow struct {
	ID          string        `db:"id"`
	UserID      string        `db:"user_id"`
	Name        string        `db:"name"`
	Description string        `db:"description"`
	StartDate   sql.NullInt64 `db:"start_date"`
	EndDate     sql.NullInt64 `db:"end_date"`
	IsPublic    bool          `db:"is_public"`
	CoverPhoto  string        `db:"cover_photo"`
	CreatedAt   int64         `db:"created_at"`
	UpdatedAt   int64         `db:"updated_at"`
}

func (row tripRow) toModel() models.Trip {
	return models.Trip{
		ID:          row.ID,
		UserID:      row.UserID,
		Name:        row.Name,
		Description: row.Description,
		StartDate:   fromNullMillis(row.StartDate),
		EndDate:     fromNullMillis(row.EndDate),
		IsPublic:    row.IsPublic,
		CoverPhoto:  row.CoverPhoto,
		CreatedAt:   fromMillis(row.CreatedAt),
		UpdatedAt:   fromMillis(row.UpdatedAt),
	}
}

// Trip repository methods

// CreateTrip inserts the trip and any nested stops and trip activities in a
// single transaction.
func (r *SQLRepository) CreateTrip(ctx context.Context, trip *models.Trip) error {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}

	ts := now()
	trip.CreatedAt = ts
	trip.UpdatedAt = ts

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		_, err := exec(ctx, tx, `
			INSERT INTO trips (id, user_id, name, description, start_date, end_date, is_public, cover_photo, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			trip.ID, trip.UserID, trip.Name, trip.Description,
			nullMillis(trip.StartDate), nullMillis(trip.EndDate), trip.IsPublic, trip.CoverPhoto,
			toMillis(trip.CreatedAt), toMillis(trip.UpdatedAt))
		if err != nil {
			return mapWriteError(err, "trip already exists")
		}

		for i := range trip.Stops {
			stop := &trip.Stops[i]
			stop.TripID = trip.ID
			if err := insertStop(ctx, tx, stop); err != nil {
				return err
			}

			for j := range stop.Activities {
				tripActivity := &stop.Activities[j]
				tripActivity.StopID = stop.ID
				if err := insertTripActivity(ctx, tx, tripActivity); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// GetTrip loads the full aggregate: stops by position with their city,
// each stop's activities by position with the catalog activity, and all cost
// items. A missing trip yields (nil, nil).
func (r *SQLRepository) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	trip, err := r.GetTripSummary(ctx, tripID)
	if err != nil || trip == nil {
		return nil, err
	}

	stops, err := r.GetTripStops(ctx, tripID)
	if err != nil {
		return nil, err
	}

	var activityRows []tripActivityRow
	err = selectAll(ctx, r.db, &activityRows, `
		SELECT `+tripActivityJoinColumns+`
		FROM trip_activities ta
		JOIN activities a ON a.id = ta.activity_id
		JOIN stops s ON s.id = ta.stop_id
		WHERE s.trip_id = ?
		ORDER BY ta.position ASC`, tripID)
	if err != nil {
		return nil, err
	}

	byStop := make(map[string][]models.TripActivity, len(stops))
	for _, row := range activityRows {
		byStop[row.StopID] = append(byStop[row.StopID], row.toModel())
	}
	for i := range stops {
		stops[i].Activities = byStop[stops[i].ID]
	}
	trip.Stops = stops

	costItems, err := r.GetTripCostItems(ctx, tripID)
	if err != nil {
		return nil, err
	}
	trip.CostItems = costItems

	return trip, nil
}

// GetTripSummary loads the trip row only.
func (r *SQLRepository) GetTripSummary(ctx context.Context, tripID string) (*models.Trip, error) {
	var row tripRow
	found, err := get(ctx, r.db, &row, `SELECT `+tripColumns+` FROM trips WHERE id = ?`, tripID)
	if err != nil || !found {
		return nil, err
	}
	trip := row.toModel()
	return &trip, nil
}

// GetUserTrips returns the user's trips, newest first, without nested data.
func (r *SQLRepository) GetUserTrips(ctx context.Context, userID string) ([]models.Trip, error) {
	var rows []tripRow
	err := selectAll(ctx, r.db, &rows, `
		SELECT `+tripColumns+` FROM trips
		WHERE user_id = ?
		ORDER BY created_at DESC, id ASC`, userID)
	if err != nil {
		return nil, err
	}

	trips := make([]models.Trip, 0, len(rows))
	for _, row := range rows {
		trips = append(trips, row.toModel())
	}
	return trips, nil
}

// UpdateTrip applies only the supplied fields.
func (r *SQLRepository) UpdateTrip(ctx context.Context, tripID string, update models.UpdateTripRequest) error {
	var set updateSet
	if update.Name != nil {
		set.add("name", *update.Name)
	}
	if update.Description != nil {
		set.add("description", *update.Description)
	}
	if update.StartDate != nil {
		set.add("start_date", toMillis(*update.StartDate))
	}
	if update.EndDate != nil {
		set.add("end_date", toMillis(*update.EndDate))
	}
	if update.CoverPhoto != nil {
		set.add("cover_photo", *update.CoverPhoto)
	}
	if set.empty() {
		return nil
	}
	set.add("updated_at", toMillis(now()))

	query, args := set.statement("trips", tripID)
	_, err := exec(ctx, r.db, query, args...)
	return err
}

func (r *SQLRepository) SetTripPublic(ctx context.Context, tripID string, public bool) error {
	_, err := exec(ctx, r.db, `UPDATE trips SET is_public = ?, updated_at = ? WHERE id = ?`,
		public, toMillis(now()), tripID)
	return err
}

// DeleteTrip removes the trip and everything it owns in one transaction.
func (r *SQLRepository) DeleteTrip(ctx context.Context, tripID string) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		statements := []string{
			`DELETE FROM trip_activities WHERE stop_id IN (SELECT id FROM stops WHERE trip_id = ?)`,
			`DELETE FROM cost_items WHERE trip_id = ?`,
			`DELETE FROM public_shares WHERE trip_id = ?`,
			`DELETE FROM stops WHERE trip_id = ?`,
			`DELETE FROM trips WHERE id = ?`,
		}
		for _, stmt := range statements {
			if _, err := exec(ctx, tx, stmt, tripID); err != nil {
				return err
			}
		}
		return nil
	})
}
