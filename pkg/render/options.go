package render

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the form model or the store.
type RenderOptions struct {
	// Action is the URL the HTML form posts to. Empty keeps the form on the
	// current page.
	Action string
	// Method overrides the submit method. Defaults to POST.
	Method string
	// Hidden adds hidden inputs (CSRF tokens, versions) to the output.
	Hidden map[string]string
	// ShowAllErrors displays every error regardless of touched state.
	ShowAllErrors bool
}
