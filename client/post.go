// Package client is the browser-independent core of the photoblog web
// client: a typed HTTP gateway for the JSON API, the view-state struct the
// UI renders from, and the controller that ties the two together. It holds
// no rendering code, which keeps the whole client logic testable with a
// plain httptest server.
package client

import "time"

// PostType distinguishes written articles from gallery photos.
type PostType string

const (
	TypeBlog  PostType = "blog"
	TypePhoto PostType = "photo"
)

// Post is a content item as the client holds it: every field populated, type
// normalized, visibility resolved. Raw API responses are converted to this
// form at ingestion so view code never deals with missing fields.
type Post struct {
	ID        string
	Title     string
	Content   string
	ImgURL    string
	Type      PostType
	IsPublic  bool
	Author    Author
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Author identifies who wrote a post.
type Author struct {
	ID             string
	Name           string
	ProfilePicture string
}

// User is the authenticated identity reported by the session endpoint.
type User struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profile_picture"`
}
