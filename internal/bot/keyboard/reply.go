// Package keyboard builds the reply keyboards attached to bot messages.
package keyboard

import (
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/p2p-exchange-bot/internal/i18n"
)

// Catalog keys of the main menu button labels. The router matches these labels verbatim.
const (
	KeyAds      = "menu.ads"
	KeyCreateAd = "menu.create_ad"
	KeyDeals    = "menu.deals"
	KeyProfile  = "menu.profile"
	KeySupport  = "menu.support"
)

// MainMenu builds a localized reply keyboard for the bot main menu.
func MainMenu(t i18n.Translator) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{
		ResizeKeyboard:  true,
		OneTimeKeyboard: false,
	}

	lookup := func(key string) string {
		if t == nil {
			return key
		}
		return t.T(key)
	}

	adsBtn := markup.Text(lookup(KeyAds))
	createAdBtn := markup.Text(lookup(KeyCreateAd))
	dealsBtn := markup.Text(lookup(KeyDeals))
	profileBtn := markup.Text(lookup(KeyProfile))
	supportBtn := markup.Text(lookup(KeySupport))

	markup.Reply(
		markup.Row(adsBtn, createAdBtn),
		markup.Row(dealsBtn, profileBtn),
		markup.Row(supportBtn),
	)

	return markup
}
