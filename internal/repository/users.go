package repository

import (
	"context"

	"github.com/globetrotter/server/internal/models"
	"github.com/google/uuid"
)

const userColumns = `id, email, name, image, password, created_at, updated_at`

type userRow struct {
	ID        string `db:"id"`
	Email     string `db:"email"`
	Name      string `db:"name"`
	Image     string `db:"image"`
	Password  string `db:"password"`
	CreatedAt int64  `db:"created_at"`
	UpdatedAt int64  `db:"updated_at"`
}

func (row userRow) toModel() *models.User {
	return &models.User{
		ID:        row.ID,
		Email:     row.Email,
		Name:      row.Name,
		Image:     row.Image,
		Password:  row.Password,
		CreatedAt: fromMillis(row.CreatedAt),
		UpdatedAt: fromMillis(row.UpdatedAt),
	}
}

// User repository methods
func (r *SQLRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, name, image, password, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	// Generate a new UUID if not provided
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	ts := now()
	user.CreatedAt = ts
	user.UpdatedAt = ts

	_, err := exec(ctx, r.db, query,
		user.ID, user.Email, user.Name, user.Image, user.Password,
		toMillis(user.CreatedAt), toMillis(user.UpdatedAt))

	return mapWriteError(err, "email already in use")
}

func (r *SQLRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var row userRow
	found, err := get(ctx, r.db, &row, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	if err != nil || !found {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *SQLRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var row userRow
	found, err := get(ctx, r.db, &row, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if err != nil || !found {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *SQLRepository) UpdateUser(ctx context.Context, id string, update models.UpdateProfileRequest) error {
	var set updateSet
	if update.Name != nil {
		set.add("name", *update.Name)
	}
	if update.Image != nil {
		set.add("image", *update.Image)
	}
	if set.empty() {
		return nil
	}
	set.add("updated_at", toMillis(now()))

	query, args := set.statement("users", id)
	_, err := exec(ctx, r.db, query, args...)
	return err
}
