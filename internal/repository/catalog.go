package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/globetrotter/server/internal/models"
	"github.com/google/uuid"
)

const (
	cityColumns     = `id, name, country, slug, lat, lng, cost_index, popularity`
	activityColumns = `id, city_id, name, description, type, avg_cost, duration_min`
)

type cityRow struct {
	ID         string  `db:"id"`
	Name       string  `db:"name"`
	Country    string  `db:"country"`
	Slug       string  `db:"slug"`
	Lat        float64 `db:"lat"`
	Lng        float64 `db:"lng"`
	CostIndex  int     `db:"cost_index"`
	Popularity int     `db:"popularity"`
}

func (row cityRow) toModel() models.City {
	return models.City{
		ID:         row.ID,
		Name:       row.Name,
		Country:    row.Country,
		Slug:       row.Slug,
		Lat:        row.Lat,
		Lng:        row.Lng,
		CostIndex:  row.CostIndex,
		Popularity: row.Popularity,
	}
}

type activityRow struct {
	ID          string         `db:"id"`
	CityID      sql.NullString `db:"city_id"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	Type        string         `db:"type"`
	AvgCost     float64        `db:"avg_cost"`
	DurationMin int            `db:"duration_min"`
}

func (row activityRow) toModel() models.Activity {
	return models.Activity{
		ID:          row.ID,
		CityID:      fromNullString(row.CityID),
		Name:        row.Name,
		Description: row.Description,
		Type:        models.ActivityType(row.Type),
		AvgCost:     row.AvgCost,
		DurationMin: row.DurationMin,
	}
}

func activitiesFromRows(rows []activityRow) []models.Activity {
	activities := make([]models.Activity, 0, len(rows))
	for _, row := range rows {
		activities = append(activities, row.toModel())
	}
	return activities
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likePattern builds a case-insensitive substring pattern for
// LOWER(col) LIKE ? ESCAPE '\'. Wildcards in query match literally.
func likePattern(query string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(query))) + "%"
}

// Catalog repository methods
func (r *SQLRepository) CreateCity(ctx context.Context, city *models.City) error {
	if city.ID == "" {
		city.ID = uuid.New().String()
	}

	_, err := exec(ctx, r.db, `
		INSERT INTO cities (id, name, country, slug, lat, lng, cost_index, popularity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		city.ID, city.Name, city.Country, city.Slug, city.Lat, city.Lng, city.CostIndex, city.Popularity)

	return mapWriteError(err, "city slug already exists")
}

func (r *SQLRepository) CreateActivity(ctx context.Context, activity *models.Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}

	_, err := exec(ctx, r.db, `
		INSERT INTO activities (id, city_id, name, description, type, avg_cost, duration_min)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		activity.ID, nullString(activity.CityID), activity.Name, activity.Description,
		string(activity.Type), activity.AvgCost, activity.DurationMin)

	return mapWriteError(err, "activity already exists")
}

// SearchCities matches name or country case-insensitively. An empty query
// returns the most popular cities.
func (r *SQLRepository) SearchCities(ctx context.Context, query string, limit int) ([]models.City, error) {
	var rows []cityRow
	var err error

	if strings.TrimSpace(query) == "" {
		err = selectAll(ctx, r.db, &rows, `
			SELECT `+cityColumns+` FROM cities
			ORDER BY popularity DESC, name ASC
			LIMIT ?`, limit)
	} else {
		pattern := likePattern(query)
		err = selectAll(ctx, r.db, &rows, `
			SELECT `+cityColumns+` FROM cities
			WHERE LOWER(name) LIKE ? ESCAPE '\' OR LOWER(country) LIKE ? ESCAPE '\'
			ORDER BY popularity DESC, name ASC
			LIMIT ?`, pattern, pattern, limit)
	}
	if err != nil {
		return nil, err
	}

	cities := make([]models.City, 0, len(rows))
	for _, row := range rows {
		cities = append(cities, row.toModel())
	}
	return cities, nil
}

func (r *SQLRepository) GetCityByID(ctx context.Context, id string) (*models.City, error) {
	return r.getCity(ctx, `SELECT `+cityColumns+` FROM cities WHERE id = ?`, id)
}

func (r *SQLRepository) GetCityBySlug(ctx context.Context, slug string) (*models.City, error) {
	return r.getCity(ctx, `SELECT `+cityColumns+` FROM cities WHERE slug = ?`, slug)
}

// getCity loads one city together with its activities.
func (r *SQLRepository) getCity(ctx context.Context, query string, arg string) (*models.City, error) {
	var row cityRow
	found, err := get(ctx, r.db, &row, query, arg)
	if err != nil || !found {
		return nil, err
	}

	city := row.toModel()
	activities, err := r.GetActivitiesByCity(ctx, city.ID, "")
	if err != nil {
		return nil, err
	}
	city.Activities = activities
	return &city, nil
}

func (r *SQLRepository) GetActivity(ctx context.Context, id string) (*models.Activity, error) {
	var row activityRow
	found, err := get(ctx, r.db, &row, `SELECT `+activityColumns+` FROM activities WHERE id = ?`, id)
	if err != nil || !found {
		return nil, err
	}
	activity := row.toModel()
	return &activity, nil
}

// SearchActivities matches name or description, optionally within one city.
func (r *SQLRepository) SearchActivities(ctx context.Context, query string, cityID string, limit int) ([]models.Activity, error) {
	pattern := likePattern(query)
	sqlQuery := `
		SELECT ` + activityColumns + ` FROM activities
		WHERE (LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`
	args := []interface{}{pattern, pattern}

	if cityID != "" {
		sqlQuery += ` AND city_id = ?`
		args = append(args, cityID)
	}

	sqlQuery += ` ORDER BY name ASC LIMIT ?`
	args = append(args, limit)

	var rows []activityRow
	if err := selectAll(ctx, r.db, &rows, sqlQuery, args...); err != nil {
		return nil, err
	}
	return activitiesFromRows(rows), nil
}

// GetActivitiesByCity returns a city's activities by name, optionally
// restricted to one type.
func (r *SQLRepository) GetActivitiesByCity(ctx context.Context, cityID string, activityType models.ActivityType) ([]models.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE city_id = ?`
	args := []interface{}{cityID}

	if activityType != "" {
		query += ` AND type = ?`
		args = append(args, string(activityType))
	}

	query += ` ORDER BY name ASC`

	var rows []activityRow
	if err := selectAll(ctx, r.db, &rows, query, args...); err != nil {
		return nil, err
	}
	return activitiesFromRows(rows), nil
}
