package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"

	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/models"
	rediscache "github.com/atharvakulkarni-07/expense-tracker-version-2/internal/redis"
)

const userViewKeyPrefix = "user:view:"

// UserRepository handles user reads and writes. PostgreSQL is the source of
// truth; public user views are cached in Redis.
type UserRepository struct {
	db    *sql.DB
	cache *rediscache.ViewCache[models.UserView]
}

func NewUserRepository(db *sql.DB, redisClient *goredis.Client) *UserRepository {
	return &UserRepository{
		db:    db,
		cache: rediscache.NewViewCache[models.UserView](redisClient, "user-views", 0),
	}
}

func (r *UserRepository) Create(user *models.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		// 23505 = unique_violation; the only unique column is email.
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return models.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail fetches the full write model (including PasswordHash) for
// credential checks.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`
	var user models.User
	err := r.db.QueryRow(query, email).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetView returns the public projection of a user, attempting Redis first.
func (r *UserRepository) GetView(ctx context.Context, id string) (*models.UserView, error) {
	cacheKey := userViewKeyPrefix + id
	if view, ok := r.cache.Get(ctx, cacheKey); ok {
		return view, nil
	}

	query := `
		SELECT id, username, email
		FROM users
		WHERE id = $1
	`
	var view models.UserView
	err := r.db.QueryRow(query, id).Scan(&view.ID, &view.Username, &view.Email)
	if err == sql.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	r.cache.Set(ctx, cacheKey, &view)
	return &view, nil
}

// CacheView stores the public projection in Redis. Called after registration.
func (r *UserRepository) CacheView(ctx context.Context, view *models.UserView) {
	r.cache.Set(ctx, userViewKeyPrefix+view.ID, view)
}
