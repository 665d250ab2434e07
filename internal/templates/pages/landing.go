// Package pages holds the server-rendered HTML pages. The API is JSON-only;
// the landing page is the one HTML response, used when no landing.html is
// shipped in the static directory.
package pages

// LandingData is what the landing page shows.
type LandingData struct {
	// SiteName is shown in the title and heading.
	SiteName string

	// FrontendURL is where the sign-in and sign-up links point.
	FrontendURL string
}
