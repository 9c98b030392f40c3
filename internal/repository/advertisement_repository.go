package repository

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/Proton-105/p2p-exchange-bot/internal/domain"
	apperrors "github.com/Proton-105/p2p-exchange-bot/internal/errors"
)

// AdvertisementRepository reads published advertisements.
type AdvertisementRepository interface {
	ListActive(ctx context.Context, limit int) ([]domain.AdListing, error)
}

type advertisementRepository struct {
	db  *sqlx.DB
	log *slog.Logger
}

// NewAdvertisementRepository creates a new SQL-backed advertisement repository.
func NewAdvertisementRepository(db *sqlx.DB, log *slog.Logger) AdvertisementRepository {
	return &advertisementRepository{db: db, log: log}
}

// ListActive returns at most limit active advertisements, newest first, with seller reputation.
func (r *advertisementRepository) ListActive(ctx context.Context, limit int) ([]domain.AdListing, error) {
	const query = `
		SELECT a.id, a.seller_telegram_id, a.currency_type, a.amount, a.price_per_unit,
		       COALESCE(a.description, '') AS description, a.status, a.created_at,
		       COALESCE(u.username, '') AS seller_username,
		       u.rating AS seller_rating,
		       u.total_deals AS seller_total_deals
		FROM advertisements a
		JOIN users u ON u.telegram_id = a.seller_telegram_id
		WHERE a.status = $1
		ORDER BY a.created_at DESC
		LIMIT $2
	`

	ads := make([]domain.AdListing, 0, limit)
	if err := r.db.SelectContext(ctx, &ads, query, domain.AdStatusActive, limit); err != nil {
		if r.log != nil {
			r.log.Error("failed to list active advertisements", slog.Any("error", err))
		}
		return nil, apperrors.NewDatabaseError("select active advertisements", err)
	}

	return ads, nil
}
