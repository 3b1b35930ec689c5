package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/globetrotter/server/internal/models"
	"github.com/jmoiron/sqlx"
)

// Repository interface defines the methods that any repository implementation must satisfy
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, update models.UpdateProfileRequest) error

	// Catalog operations
	CreateCity(ctx context.Context, city *models.City) error
	CreateActivity(ctx context.Context, activity *models.Activity) error
	SearchCities(ctx context.Context, query string, limit int) ([]models.City, error)
	GetCityByID(ctx context.Context, id string) (*models.City, error)
	GetCityBySlug(ctx context.Context, slug string) (*models.City, error)
	GetActivity(ctx context.Context, id string) (*models.Activity, error)
	SearchActivities(ctx context.Context, query string, cityID string, limit int) ([]models.Activity, error)
	GetActivitiesByCity(ctx context.Context, cityID string, activityType models.ActivityType) ([]models.Activity, error)

	// Trip operations
	CreateTrip(ctx context.Context, trip *models.Trip) error
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)
	GetTripSummary(ctx context.Context, tripID string) (*models.Trip, error)
	GetUserTrips(ctx context.Context, userID string) ([]models.Trip, error)
	UpdateTrip(ctx context.Context, tripID string, update models.UpdateTripRequest) error
	SetTripPublic(ctx context.Context, tripID string, public bool) error
	DeleteTrip(ctx context.Context, tripID string) error

	// Stop operations
	AddStop(ctx context.Context, stop *models.Stop) error
	GetStop(ctx context.Context, stopID string) (*models.Stop, error)
	GetTripStops(ctx context.Context, tripID string) ([]models.Stop, error)
	CountStops(ctx context.Context, tripID string) (int, error)
	UpdateStop(ctx context.Context, stopID string, update models.UpdateStopRequest) error
	DeleteStop(ctx context.Context, stopID string) error
	ReorderStops(ctx context.Context, tripID string, orderedStopIDs []string) error

	// Trip activity operations
	AddTripActivity(ctx context.Context, tripActivity *models.TripActivity) error
	GetTripActivity(ctx context.Context, id string) (*models.TripActivity, error)
	GetStopActivities(ctx context.Context, stopID string) ([]models.TripActivity, error)
	UpdateTripActivity(ctx context.Context, id string, update models.UpdateTripActivityRequest) error
	DeleteTripActivity(ctx context.Context, id string) error
	ReorderTripActivities(ctx context.Context, stopID string, orderedIDs []string) error

	// Cost operations
	AddCostItem(ctx context.Context, item *models.CostItem) error
	GetCostItem(ctx context.Context, id string) (*models.CostItem, error)
	GetTripCostItems(ctx context.Context, tripID string) ([]models.CostItem, error)
	DeleteCostItem(ctx context.Context, id string) error

	// Public share operations
	CreatePublicShare(ctx context.Context, share *models.PublicShare) error
	GetPublicShareByTrip(ctx context.Context, tripID string) (*models.PublicShare, error)
	GetPublicShareBySlug(ctx context.Context, slug string) (*models.PublicShare, error)
	DeletePublicShare(ctx context.Context, tripID string) (bool, error)
}

// SQLRepository implements the Repository interface over PostgreSQL or
// SQLite. Queries use "?" placeholders and are rebound for the driver.
type SQLRepository struct {
	db *sqlx.DB
}

// NewSQLRepository creates a new SQL repository
func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{
		db: db,
	}
}

// withTx runs fn inside a transaction, rolling back when fn fails.
func (r *SQLRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

// get is sqlx.GetContext with placeholder rebinding; it reports
// sql.ErrNoRows as found == false.
func get(ctx context.Context, q sqlx.ExtContext, dest interface{}, query string, args ...interface{}) (bool, error) {
	err := sqlx.GetContext(ctx, q, dest, q.Rebind(query), args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func selectAll(ctx context.Context, q sqlx.ExtContext, dest interface{}, query string, args ...interface{}) error {
	return sqlx.SelectContext(ctx, q, dest, q.Rebind(query), args...)
}

func exec(ctx context.Context, q sqlx.ExtContext, query string, args ...interface{}) (sql.Result, error) {
	return q.ExecContext(ctx, q.Rebind(query), args...)
}

// execOne runs a statement that must touch exactly one row.
func execOne(ctx context.Context, q sqlx.ExtContext, query string, args ...interface{}) (bool, error) {
	res, err := exec(ctx, q, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// updateSet accumulates "column = ?" assignments for partial updates.
type updateSet struct {
	columns []string
	args    []interface{}
}

func (u *updateSet) add(column string, value interface{}) {
	u.columns = append(u.columns, column+" = ?")
	u.args = append(u.args, value)
}

func (u *updateSet) empty() bool {
	return len(u.columns) == 0
}

// statement renders "UPDATE table SET ... WHERE id = ?".
func (u *updateSet) statement(table, id string) (string, []interface{}) {
	query := "UPDATE " + table + " SET " + strings.Join(u.columns, ", ") + " WHERE id = ?"
	return query, append(u.args, id)
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func nullMillis(value *time.Time) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*value), Valid: true}
}

func fromNullMillis(value sql.NullInt64) *time.Time {
	if !value.Valid {
		return nil
	}
	t := fromMillis(value.Int64)
	return &t
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func fromNullString(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	s := value.String
	return &s
}

// now is truncated to storage precision so values read back compare equal.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
