package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/globetrotter/server/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const tripActivityJoinColumns = `ta.id, ta.stop_id, ta.activity_id, ta.position, ta.scheduled_at, ta.notes,
	a.city_id AS activity_city_id, a.name AS activity_name, a.description AS activity_description,
	a.type AS activity_type, a.avg_cost AS activity_avg_cost, a.duration_min AS activity_duration_min`

// tripActivityRow is a trip activity joined with its catalog activity.
type tripActivityRow struct {
	ID                  string         `db:"id"`
	StopID              string         `db:"stop_id"`
	ActivityID          string         `db:"activity_id"`
	Position            int            `db:"position"`
	ScheduledAt         sql.NullInt64  `db:"scheduled_at"`
	Notes               string         `db:"notes"`
	ActivityCityID      sql.NullString `db:"activity_city_id"`
	ActivityName        string         `db:"activity_name"`
	ActivityDescription string         `db:"activity_description"`
	ActivityType        string         `db:"activity_type"`
	ActivityAvgCost     float64        `db:"activity_avg_cost"`
	ActivityDurationMin int            `db:"activity_duration_min"`
}

func (row tripActivityRow) toModel() models.TripActivity {
	return models.TripActivity{
		ID:          row.ID,
		StopID:      row.StopID,
		ActivityID:  row.ActivityID,
		Position:    row.Position,
		ScheduledAt: fromNullMillis(row.ScheduledAt),
		Notes:       row.Notes,
		Activity: &models.Activity{
			ID:          row.ActivityID,
			CityID:      fromNullString(row.ActivityCityID),
			Name:        row.ActivityName,
			Description: row.ActivityDescription,
			Type:        models.ActivityType(row.ActivityType),
			AvgCost:     row.ActivityAvgCost,
			DurationMin: row.ActivityDurationMin,
		},
	}
}

// insertTripActivity inserts a trip activity. A negative Position appends it
// after the stop's current last activity.
func insertTripActivity(ctx context.Context, q sqlx.ExtContext, tripActivity *models.TripActivity) error {
	if tripActivity.ID == "" {
		tripActivity.ID = uuid.New().String()
	}

	if tripActivity.Position < 0 {
		var next int
		_, err := get(ctx, q, &next,
			`SELECT COALESCE(MAX(position) + 1, 0) FROM trip_activities WHERE stop_id = ?`,
			tripActivity.StopID)
		if err != nil {
			return err
		}
		tripActivity.Position = next
	}

	_, err := exec(ctx, q, `
		INSERT INTO trip_activities (id, stop_id, activity_id, position, scheduled_at, notes)
		VALUES (?, ?, ?, ?, ?, ?)`,
		tripActivity.ID, tripActivity.StopID, tripActivity.ActivityID, tripActivity.Position,
		nullMillis(tripActivity.ScheduledAt), tripActivity.Notes)

	return mapWriteError(err, fmt.Sprintf("position %d is already used in this stop", tripActivity.Position))
}

// Trip activity repository methods
func (r *SQLRepository) AddTripActivity(ctx context.Context, tripActivity *models.TripActivity) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		return insertTripActivity(ctx, tx, tripActivity)
	})
}

func (r *SQLRepository) GetTripActivity(ctx context.Context, id string) (*models.TripActivity, error) {
	var row tripActivityRow
	found, err := get(ctx, r.db, &row, `
		SELECT `+tripActivityJoinColumns+`
		FROM trip_activities ta
		JOIN activities a ON a.id = ta.activity_id
		WHERE ta.id = ?`, id)
	if err != nil || !found {
		return nil, err
	}
	tripActivity := row.toModel()
	return &tripActivity, nil
}

// GetStopActivities returns the stop's activities ordered by position.
func (r *SQLRepository) GetStopActivities(ctx context.Context, stopID string) ([]models.TripActivity, error) {
	var rows []tripActivityRow
	err := selectAll(ctx, r.db, &rows, `
		SELECT `+tripActivityJoinColumns+`
		FROM trip_activities ta
		JOIN activities a ON a.id = ta.activity_id
		WHERE ta.stop_id = ?
		ORDER BY ta.position ASC`, stopID)
	if err != nil {
		return nil, err
	}

	tripActivities := make([]models.TripActivity, 0, len(rows))
	for _, row := range rows {
		tripActivities = append(tripActivities, row.toModel())
	}
	return tripActivities, nil
}

func (r *SQLRepository) UpdateTripActivity(ctx context.Context, id string, update models.UpdateTripActivityRequest) error {
	var set updateSet
	if update.ScheduledAt != nil {
		set.add("scheduled_at", toMillis(*update.ScheduledAt))
	}
	if update.Notes != nil {
		set.add("notes", *update.Notes)
	}
	if set.empty() {
		return nil
	}

	query, args := set.statement("trip_activities", id)
	_, err := exec(ctx, r.db, query, args...)
	return err
}

func (r *SQLRepository) DeleteTripActivity(ctx context.Context, id string) error {
	_, err := exec(ctx, r.db, `DELETE FROM trip_activities WHERE id = ?`, id)
	return err
}

// ReorderTripActivities sets each listed activity's position to its index,
// atomically.
func (r *SQLRepository) ReorderTripActivities(ctx context.Context, stopID string, orderedIDs []string) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		return reorder(ctx, tx, "trip_activities", "stop", stopID, orderedIDs)
	})
}
