package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a platform identity known to the exchange.
type User struct {
	ID              int64           `db:"id" json:"id"`
	TelegramID      int64           `db:"telegram_id" json:"telegram_id"`
	Username        string          `db:"username" json:"username"`
	FirstName       string          `db:"first_name" json:"first_name"`
	LastName        string          `db:"last_name" json:"last_name"`
	Rating          decimal.Decimal `db:"rating" json:"rating"`
	TotalDeals      int             `db:"total_deals" json:"total_deals"`
	SuccessfulDeals int             `db:"successful_deals" json:"successful_deals"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}
