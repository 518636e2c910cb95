package photoblog

import "time"

// PostType distinguishes written articles from gallery photos.
type PostType string

const (
	TypeBlog  PostType = "blog"
	TypePhoto PostType = "photo"
)

// Post is the core content type stored in SQLite and served over /api/blog.
// JSON field names match the wire contract the web client consumes.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImgURL    string    `json:"img_url,omitempty"`
	Type      PostType  `json:"type"`
	IsPublic  bool      `json:"is_public"`
	AuthorID  string    `json:"-"`
	Author    *Author   `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Author is the denormalized post-author view embedded in list responses.
type Author struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// NormalizeType resolves a post's canonical type. An explicit type always
// wins; otherwise the presence of an image reference makes it a photo post.
func NormalizeType(explicit PostType, imgURL string) PostType {
	switch explicit {
	case TypeBlog, TypePhoto:
		return explicit
	}
	if imgURL != "" {
		return TypePhoto
	}
	return TypeBlog
}

// User is an authenticated identity established via Google sign-in.
type User struct {
	ID             string    `json:"id"`
	GoogleID       string    `json:"-"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	CreatedAt      time.Time `json:"-"`
}

// DisplayName falls back to the local part of the email when Google did not
// supply a name.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	for i := 0; i < len(u.Email); i++ {
		if u.Email[i] == '@' {
			return u.Email[:i]
		}
	}
	return u.Email
}

// ContactMessage is a submission from the public contact form.
type ContactMessage struct {
	ID        int64
	Name      string
	Email     string
	Body      string
	CreatedAt time.Time
}
