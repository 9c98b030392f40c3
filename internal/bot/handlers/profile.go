package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/Proton-105/p2p-exchange-bot/internal/repository"
)

const profileDateLayout = "02.01.2006"

// NewProfileHandler shows the caller's profile card. It never creates a user.
func NewProfileHandler(deps Deps, users UserResolver) Handler {
	return func(ctx context.Context, req *Request) error {
		profile, err := users.Find(ctx, req.SenderID())
		if errors.Is(err, repository.ErrNotFound) {
			return deps.reply(ctx, req.ChatID, deps.Translator.T("profile.not_found"))
		}
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}

		text, err := deps.Translator.Render("profile.card", map[string]any{
			"FirstName":       profile.FirstName,
			"Username":        profile.Username,
			"Rating":          profile.Rating.StringFixed(2),
			"TotalDeals":      profile.TotalDeals,
			"SuccessfulDeals": profile.SuccessfulDeals,
			"RegisteredAt":    profile.CreatedAt.Format(profileDateLayout),
		})
		if err != nil {
			return err
		}

		return deps.reply(ctx, req.ChatID, text)
	}
}
