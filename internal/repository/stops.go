package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/globetrotter/server/internal/apperrors"
	"github.com/globetrotter/server/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const stopColumns = `id, trip_id, city_id, position, start_date, end_date, notes`

type stopRow struct {
	ID        string        `db:"id"`
	TripID    string        `db:"trip_id"`
	CityID    string        `db:"city_id"`
	Position  int           `db:"position"`
	StartDate sql.NullInt64 `db:"start_date"`
	EndDate   sql.NullInt64 `db:"end_date"`
	Notes     string        `db:"notes"`
}

func (row stopRow) toModel() models.Stop {
	return models.Stop{
		ID:        row.ID,
		TripID:    row.TripID,
		CityID:    row.CityID,
		Position:  row.Position,
		StartDate: fromNullMillis(row.StartDate),
		EndDate:   fromNullMillis(row.EndDate),
		Notes:     row.Notes,
	}
}

// stopCityRow is a stop joined with its city.
type stopCityRow struct {
	stopRow
	CityName       string  `db:"city_name"`
	CityCountry    string  `db:"city_country"`
	CitySlug       string  `db:"city_slug"`
	CityLat        float64 `db:"city_lat"`
	CityLng        float64 `db:"city_lng"`
	CityCostIndex  int     `db:"city_cost_index"`
	CityPopularity int     `db:"city_popularity"`
}

func (row stopCityRow) toModel() models.Stop {
	stop := row.stopRow.toModel()
	stop.City = &models.City{
		ID:         row.CityID,
		Name:       row.CityName,
		Country:    row.CityCountry,
		Slug:       row.CitySlug,
		Lat:        row.CityLat,
		Lng:        row.CityLng,
		CostIndex:  row.CityCostIndex,
		Popularity: row.CityPopularity,
	}
	return stop
}

func insertStop(ctx context.Context, q sqlx.ExtContext, stop *models.Stop) error {
	if stop.ID == "" {
		stop.ID = uuid.New().String()
	}

	_, err := exec(ctx, q, `
		INSERT INTO stops (id, trip_id, city_id, position, start_date, end_date, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		stop.ID, stop.TripID, stop.CityID, stop.Position,
		nullMillis(stop.StartDate), nullMillis(stop.EndDate), stop.Notes)

	return mapWriteError(err, fmt.Sprintf("position %d is already used in this trip", stop.Position))
}

// Stop repository methods
func (r *SQLRepository) AddStop(ctx context.Context, stop *models.Stop) error {
	return insertStop(ctx, r.db, stop)
}

func (r *SQLRepository) GetStop(ctx context.Context, stopID string) (*models.Stop, error) {
	var row stopRow
	found, err := get(ctx, r.db, &row, `SELECT `+stopColumns+` FROM stops WHERE id = ?`, stopID)
	if err != nil || !found {
		return nil, err
	}
	stop := row.toModel()
	return &stop, nil
}

// GetTripStops returns the trip's stops ordered by position with their city.
func (r *SQLRepository) GetTripStops(ctx context.Context, tripID string) ([]models.Stop, error) {
	var rows []stopCityRow
	err := selectAll(ctx, r.db, &rows, `
		SELECT s.id, s.trip_id, s.city_id, s.position, s.start_date, s.end_date, s.notes,
			c.name AS city_name, c.country AS city_country, c.slug AS city_slug,
			c.lat AS city_lat, c.lng AS city_lng,
			c.cost_index AS city_cost_index, c.popularity AS city_popularity
		FROM stops s
		JOIN cities c ON c.id = s.city_id
		WHERE s.trip_id = ?
		ORDER BY s.position ASC`, tripID)
	if err != nil {
		return nil, err
	}

	stops := make([]models.Stop, 0, len(rows))
	for _, row := range rows {
		stops = append(stops, row.toModel())
	}
	return stops, nil
}

func (r *SQLRepository) CountStops(ctx context.Context, tripID string) (int, error) {
	var count int
	_, err := get(ctx, r.db, &count, `SELECT COUNT(*) FROM stops WHERE trip_id = ?`, tripID)
	return count, err
}

func (r *SQLRepository) UpdateStop(ctx context.Context, stopID string, update models.UpdateStopRequest) error {
	var set updateSet
	if update.CityID != nil {
		set.add("city_id", *update.CityID)
	}
	if update.StartDate != nil {
		set.add("start_date", toMillis(*update.StartDate))
	}
	if update.EndDate != nil {
		set.add("end_date", toMillis(*update.EndDate))
	}
	if update.Notes != nil {
		set.add("notes", *update.Notes)
	}
	if set.empty() {
		return nil
	}

	query, args := set.statement("stops", stopID)
	_, err := exec(ctx, r.db, query, args...)
	return mapWriteError(err, "stop update conflicts with an existing stop")
}

// DeleteStop removes the stop with its trip activities and stop-scoped costs.
func (r *SQLRepository) DeleteStop(ctx context.Context, stopID string) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		statements := []string{
			`DELETE FROM trip_activities WHERE stop_id = ?`,
			`DELETE FROM cost_items WHERE stop_id = ?`,
			`DELETE FROM stops WHERE id = ?`,
		}
		for _, stmt := range statements {
			if _, err := exec(ctx, tx, stmt, stopID); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReorderStops sets each listed stop's position to its index, atomically.
func (r *SQLRepository) ReorderStops(ctx context.Context, tripID string, orderedStopIDs []string) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		return reorder(ctx, tx, "stops", "trip", tripID, orderedStopIDs)
	})
}

// reorder rewrites the positions of every child of parentID. orderedIDs must
// list each child exactly once. Positions are first moved to negative
// placeholders so the per-parent unique index never sees two rows at the same
// position mid-transaction.
func reorder(ctx context.Context, tx *sqlx.Tx, table, parent, parentID string, orderedIDs []string) error {
	parentColumn := parent + "_id"
	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if seen[id] {
			return apperrors.Validation("duplicate id in ordering", map[string]string{"orderedIds": id})
		}
		seen[id] = true
	}

	var count int
	if _, err := get(ctx, tx, &count, `SELECT COUNT(*) FROM `+table+` WHERE `+parentColumn+` = ?`, parentID); err != nil {
		return err
	}
	if count != len(orderedIDs) {
		return apperrors.Validation("ordering must list every item of this "+parent+" exactly once",
			map[string]string{"orderedIds": fmt.Sprintf("expected %d ids, got %d", count, len(orderedIDs))})
	}

	park := `UPDATE ` + table + ` SET position = ? WHERE id = ? AND ` + parentColumn + ` = ?`
	for i, id := range orderedIDs {
		ok, err := execOne(ctx, tx, park, -(i + 1), id, parentID)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.Validation("id does not belong to this "+parent,
				map[string]string{"orderedIds": id})
		}
	}

	place := `UPDATE ` + table + ` SET position = ? WHERE id = ?`
	for i, id := range orderedIDs {
		if _, err := exec(ctx, tx, place, i, id); err != nil {
			return mapWriteError(err, "ordering collides with an unlisted item's position")
		}
	}
	return nil
}
