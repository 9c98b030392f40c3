package handlers

import (
	"context"
	"fmt"

	"github.com/Proton-105/p2p-exchange-bot/internal/domain"
	"github.com/Proton-105/p2p-exchange-bot/internal/i18n"
	"github.com/Proton-105/p2p-exchange-bot/internal/repository"
)

const unknownStatusEmoji = "❓"

var statusEmoji = map[domain.DealStatus]string{
	domain.DealStatusCreated:   "🆕",
	domain.DealStatusPaid:      "💳",
	domain.DealStatusDisputed:  "⚠️",
	domain.DealStatusCompleted: "✅",
	domain.DealStatusCancelled: "❌",
}

type dealView struct {
	ID           int64
	Emoji        string
	Role         string
	CurrencyType string
	Amount       string
	Status       string
	EscrowStatus string
}

// NewDealsHandler lists the newest deals in which the caller is buyer or seller.
func NewDealsHandler(deps Deps, deals repository.DealRepository) Handler {
	return func(ctx context.Context, req *Request) error {
		callerID := req.SenderID()

		listings, err := deals.ListByParticipant(ctx, callerID, ListLimit)
		if err != nil {
			return fmt.Errorf("list deals: %w", err)
		}

		if len(listings) == 0 {
			return deps.reply(ctx, req.ChatID, deps.Translator.T("deals.empty"))
		}

		text, err := deps.Translator.Render("deals.list", map[string]any{
			"Deals": dealViews(deps.Translator, listings, callerID),
		})
		if err != nil {
			return err
		}

		return deps.reply(ctx, req.ChatID, text)
	}
}

// StatusEmoji returns the marker shown next to a deal in the given status.
func StatusEmoji(status domain.DealStatus) string {
	if emoji, ok := statusEmoji[status]; ok {
		return emoji
	}
	return unknownStatusEmoji
}

func dealViews(tr i18n.Translator, listings []domain.DealListing, callerID int64) []dealView {
	buyer, seller := tr.T("deals.role_buyer"), tr.T("deals.role_seller")

	views := make([]dealView, 0, len(listings))
	for _, d := range listings {
		role := seller
		if d.IsBuyer(callerID) {
			role = buyer
		}

		views = append(views, dealView{
			ID:           d.ID,
			Emoji:        StatusEmoji(d.Status),
			Role:         role,
			CurrencyType: d.CurrencyType,
			Amount:       d.Amount.String(),
			Status:       string(d.Status),
			EscrowStatus: d.EscrowStatus,
		})
	}
	return views
}
