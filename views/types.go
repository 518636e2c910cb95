// Package views renders the server-side HTML shell of the photoblog. Every
// exported function returns a templ component built from the client view
// state, so what the server renders is exactly what the client would.
package views

// SiteConfig carries the site identity used in page chrome and feeds.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// PageContext carries per-request rendering inputs that are not view state:
// the CSRF token embedded in server-rendered forms, and the one-shot outcome
// flags the contact form redirect reports back.
type PageContext struct {
	CSRFToken    string
	ContactSent  bool
	ContactError bool
}
