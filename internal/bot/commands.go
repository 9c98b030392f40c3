package bot

// Slash commands understood by the bot. Menu buttons are aliases of these.
const (
	CommandStart    = "/start"
	CommandAds      = "/ads"
	CommandNewAd    = "/new_ad"
	CommandProfile  = "/profile"
	CommandDeals    = "/deals"
	CommandHelp     = "/help"
	CommandFallback = "fallback"
)
