package repository

import (
	"context"
	"database/sql"

	"github.com/globetrotter/server/internal/models"
	"github.com/google/uuid"
)

const costColumns = `id, trip_id, stop_id, category, amount, currency, description, created_at`

type costRow struct {
	ID          string         `db:"id"`
	TripID      string         `db:"trip_id"`
	StopID      sql.NullString `db:"stop_id"`
	Category    string         `db:"category"`
	Amount      float64        `db:"amount"`
	Currency    string         `db:"currency"`
	Description string         `db:"description"`
	CreatedAt   int64          `db:"created_at"`
}

func (row costRow) toModel() models.CostItem {
	scope := models.TripScope(row.TripID)
	if row.StopID.Valid {
		scope = models.StopScope(row.StopID.String)
	}
	return models.CostItem{
		ID:          row.ID,
		TripID:      row.TripID,
		Scope:       scope,
		Category:    models.CostCategory(row.Category),
		Amount:      row.Amount,
		Currency:    row.Currency,
		Description: row.Description,
		CreatedAt:   fromMillis(row.CreatedAt),
	}
}

// Cost repository methods

// AddCostItem stores the item. TripID must already be resolved by the caller;
// a stop scope is stored in stop_id.
func (r *SQLRepository) AddCostItem(ctx context.Context, item *models.CostItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.CreatedAt = now()

	var stopID sql.NullString
	if item.Scope.Kind == models.ScopeStop {
		stopID = sql.NullString{String: item.Scope.ID, Valid: true}
	}

	_, err := exec(ctx, r.db, `
		INSERT INTO cost_items (id, trip_id, stop_id, category, amount, currency, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.TripID, stopID, string(item.Category), item.Amount, item.Currency,
		item.Description, toMillis(item.CreatedAt))

	return mapWriteError(err, "cost item already exists")
}

func (r *SQLRepository) GetCostItem(ctx context.Context, id string) (*models.CostItem, error) {
	var row costRow
	found, err := get(ctx, r.db, &row, `SELECT `+costColumns+` FROM cost_items WHERE id = ?`, id)
	if err != nil || !found {
		return nil, err
	}
	item := row.toModel()
	return &item, nil
}

// GetTripCostItems returns trip- and stop-scoped items of the trip, oldest first.
func (r *SQLRepository) GetTripCostItems(ctx context.Context, tripID string) ([]models.CostItem, error) {
	var rows []costRow
	err := selectAll(ctx, r.db, &rows, `
		SELECT `+costColumns+` FROM cost_items
		WHERE trip_id = ?
		ORDER BY created_at ASC, id ASC`, tripID)
	if err != nil {
		return nil, err
	}

	items := make([]models.CostItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toModel())
	}
	return items, nil
}

func (r *SQLRepository) DeleteCostItem(ctx context.Context, id string) error {
	_, err := exec(ctx, r.db, `DELETE FROM cost_items WHERE id = ?`, id)
	return err
}
