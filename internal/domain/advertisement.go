package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdStatusActive marks advertisements shown in listings.
const AdStatusActive = "active"

// Advertisement is a sell offer published by a user.
type Advertisement struct {
	ID               int64           `db:"id"`
	SellerTelegramID int64           `db:"seller_telegram_id"`
	CurrencyType     string          `db:"currency_type"`
	Amount           decimal.Decimal `db:"amount"`
	PricePerUnit     decimal.Decimal `db:"price_per_unit"`
	Description      string          `db:"description"`
	Status           string          `db:"status"`
	CreatedAt        time.Time       `db:"created_at"`
}

// AdListing is an advertisement joined with its seller's reputation.
type AdListing struct {
	Advertisement
	SellerUsername   string          `db:"seller_username"`
	SellerRating     decimal.Decimal `db:"seller_rating"`
	SellerTotalDeals int             `db:"seller_total_deals"`
}
