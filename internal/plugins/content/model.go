// Package content serves the public learning catalogue: courses, videos,
// documents and other items. Items are read-only here.
package content

// Content types referenced by the application. Other values are allowed
// and passed through.
const (
	TypeCourse   = "course"
	TypeVideo    = "video"
	TypeDocument = "document"
)

// Listing caps.
const (
	ListLimit   = 20
	CourseLimit = 10
)

// Item is one catalogue entry.
type Item struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Description string `json:"description"`
}
