package handlers

// NewCreateAdHandler shows the listing-creation instructions.
func NewCreateAdHandler(deps Deps) Handler {
	return NewStaticHandler(deps, "create_ad.prompt")
}

// NewSupportHandler shows how to open a support request.
func NewSupportHandler(deps Deps) Handler {
	return NewStaticHandler(deps, "support.prompt")
}

// NewFallbackHandler answers any text that matches no command.
func NewFallbackHandler(deps Deps) Handler {
	return NewStaticHandler(deps, "fallback.text")
}
