package handlers

import (
	"context"
	"fmt"

	"github.com/Proton-105/p2p-exchange-bot/internal/domain"
	"github.com/Proton-105/p2p-exchange-bot/internal/repository"
)

type adView struct {
	ID               int64
	CurrencyType     string
	Amount           string
	Price            string
	SellerUsername   string
	SellerRating     string
	SellerTotalDeals int
	Description      string
}

// NewAdsHandler lists the newest active advertisements.
func NewAdsHandler(deps Deps, ads repository.AdvertisementRepository) Handler {
	return func(ctx context.Context, req *Request) error {
		listings, err := ads.ListActive(ctx, ListLimit)
		if err != nil {
			return fmt.Errorf("list advertisements: %w", err)
		}

		if len(listings) == 0 {
			return deps.reply(ctx, req.ChatID, deps.Translator.T("ads.empty"))
		}

		text, err := deps.Translator.Render("ads.list", map[string]any{"Ads": adViews(listings)})
		if err != nil {
			return err
		}

		return deps.reply(ctx, req.ChatID, text)
	}
}

func adViews(listings []domain.AdListing) []adView {
	views := make([]adView, 0, len(listings))
	for _, ad := range listings {
		views = append(views, adView{
			ID:               ad.ID,
			CurrencyType:     ad.CurrencyType,
			Amount:           ad.Amount.String(),
			Price:            ad.PricePerUnit.StringFixed(2),
			SellerUsername:   ad.SellerUsername,
			SellerRating:     ad.SellerRating.StringFixed(2),
			SellerTotalDeals: ad.SellerTotalDeals,
			Description:      ad.Description,
		})
	}
	return views
}
