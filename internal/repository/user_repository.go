package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/Proton-105/p2p-exchange-bot/internal/domain"
	apperrors "github.com/Proton-105/p2p-exchange-bot/internal/errors"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	FindByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

type userRepository struct {
	db  *sqlx.DB
	log *slog.Logger
}

// NewUserRepository creates a new SQL-backed user repository.
func NewUserRepository(db *sqlx.DB, log *slog.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log,
	}
}

const userColumns = `id, telegram_id, username, first_name, last_name, rating, total_deals, successful_deals, created_at`

// FindByTelegramID retrieves a user by their Telegram identifier.
func (r *userRepository) FindByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1`

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, telegramID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		if r.log != nil {
			r.log.Error("failed to fetch user by telegram id", slog.Int64("telegram_id", telegramID), slog.Any("error", err))
		}
		return nil, apperrors.NewDatabaseError("select user by telegram id", err)
	}

	return &user, nil
}

// Create inserts the user unless a row with the same telegram_id already exists.
// Columns with defaults (rating, counters, created_at) are filled by the database.
func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	const query = `
		INSERT INTO users (telegram_id, username, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (telegram_id) DO NOTHING
		RETURNING ` + userColumns

	var created domain.User
	err := r.db.GetContext(ctx, &created, query,
		user.TelegramID,
		user.Username,
		user.FirstName,
		user.LastName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAlreadyExists
		}

		if r.log != nil {
			r.log.Error("failed to create user", slog.Int64("telegram_id", user.TelegramID), slog.Any("error", err))
		}
		return nil, apperrors.NewDatabaseError("insert user", err)
	}

	return &created, nil
}
