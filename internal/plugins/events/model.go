// Package events serves the event listings members see: upcoming,
// recommended and past events, plus the events a member registered for.
// Events are read-only here; they are curated directly in the store.
package events

// Event categories stored in the category field.
const (
	CategoryUpcoming    = "upcoming"
	CategoryRecommended = "recommended"
	CategoryPast        = "past"
)

// ListLimit caps every event listing.
const ListLimit = 10

// Event is a single curated event.
type Event struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

// MemberEventsResponse is the body of GET /member/events. Each list holds
// event titles.
type MemberEventsResponse struct {
	Upcoming   []string `json:"upcoming"`
	Registered []string `json:"registered"`
	Past       []string `json:"past"`
}

// Titles extracts the titles of evs, never returning nil.
func Titles(evs []Event) []string {
	titles := make([]string, 0, len(evs))
	for _, e := range evs {
		titles = append(titles, e.Title)
	}
	return titles
}
