package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DealStatus is the lifecycle stage of a deal. Transitions are owned by the escrow service.
type DealStatus string

const (
	DealStatusCreated   DealStatus = "created"
	DealStatusPaid      DealStatus = "paid"
	DealStatusDisputed  DealStatus = "disputed"
	DealStatusCompleted DealStatus = "completed"
	DealStatusCancelled DealStatus = "cancelled"
)

// Deal is a trade between a buyer and the seller of an advertisement.
type Deal struct {
	ID               int64           `db:"id"`
	BuyerTelegramID  int64           `db:"buyer_telegram_id"`
	SellerTelegramID int64           `db:"seller_telegram_id"`
	AdvertisementID  int64           `db:"advertisement_id"`
	Amount           decimal.Decimal `db:"amount"`
	Status           DealStatus      `db:"status"`
	EscrowStatus     string          `db:"escrow_status"`
	CreatedAt        time.Time       `db:"created_at"`
}

// DealListing is a deal joined with the currency of its advertisement.
type DealListing struct {
	Deal
	CurrencyType string `db:"currency_type"`
}

// IsBuyer reports whether telegramID is the buying side of the deal.
func (d Deal) IsBuyer(telegramID int64) bool {
	return d.BuyerTelegramID == telegramID
}
