package repository

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/Proton-105/p2p-exchange-bot/internal/domain"
	apperrors "github.com/Proton-105/p2p-exchange-bot/internal/errors"
)

// DealRepository reads deals.
type DealRepository interface {
	ListByParticipant(ctx context.Context, telegramID int64, limit int) ([]domain.DealListing, error)
}

type dealRepository struct {
	db  *sqlx.DB
	log *slog.Logger
}

// NewDealRepository creates a new SQL-backed deal repository.
func NewDealRepository(db *sqlx.DB, log *slog.Logger) DealRepository {
	return &dealRepository{db: db, log: log}
}

// ListByParticipant returns at most limit deals where telegramID is the buyer or the seller, newest first.
func (r *dealRepository) ListByParticipant(ctx context.Context, telegramID int64, limit int) ([]domain.DealListing, error) {
	const query = `
		SELECT d.id, d.buyer_telegram_id, d.seller_telegram_id, d.advertisement_id, d.amount,
		       d.status, d.escrow_status, d.created_at,
		       a.currency_type
		FROM deals d
		JOIN advertisements a ON a.id = d.advertisement_id
		WHERE d.buyer_telegram_id = $1 OR d.seller_telegram_id = $1
		ORDER BY d.created_at DESC
		LIMIT $2
	`

	deals := make([]domain.DealListing, 0, limit)
	if err := r.db.SelectContext(ctx, &deals, query, telegramID, limit); err != nil {
		if r.log != nil {
			r.log.Error("failed to list deals", slog.Int64("telegram_id", telegramID), slog.Any("error", err))
		}
		return nil, apperrors.NewDatabaseError("select deals by participant", err)
	}

	return deals, nil
}
