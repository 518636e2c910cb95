package client

import (
	"net/url"
	"strings"
)

// Tab identifies a view in the single-page shell.
type Tab string

const (
	TabHome    Tab = "home"
	TabBlog    Tab = "blog"
	TabGallery Tab = "gallery"
	TabContact Tab = "contact"
	TabManage  Tab = "manage"
)

// ParseTab maps a query-string value to a Tab, falling back to home for
// anything unknown.
func ParseTab(s string) Tab {
	switch Tab(s) {
	case TabBlog, TabGallery, TabContact, TabManage:
		return Tab(s)
	}
	return TabHome
}

// Session describes the signed-in identity, or is absent when anonymous.
type Session struct {
	Email          string
	Name           string
	ProfilePicture string
}

// Preview policy for anonymous viewers: a fraction of each blog post's text
// is readable, and feed excerpts are truncated.
const (
	PreviewFraction = 0.10
	FeedExcerptLen  = 150
)

// State is the complete view state of the client. The UI is a pure function
// of this struct; every user action and API response maps to one of the
// update methods below.
type State struct {
	ActiveTab     Tab
	SelectedPost  string
	SelectedImage string

	Session *Session

	// PublicFeed holds the shared feed every visitor sees. OwnPosts holds
	// the session user's posts, private ones included. A post can appear in
	// both, and updates keep both copies in step.
	PublicFeed []Post
	OwnPosts   []Post
}

// NewState returns a State showing the home tab with no session.
func NewState() *State {
	return &State{ActiveTab: TabHome}
}

// LoggedIn reports whether the state carries a session.
func (s *State) LoggedIn() bool {
	return s.Session != nil
}

// SetSession installs or clears the session identity.
func (s *State) SetSession(sess *Session) {
	s.Session = sess
}

// SwitchTab activates a tab and drops both selections, so stale detail views
// never survive navigation.
func (s *State) SwitchTab(t Tab) {
	s.ActiveTab = t
	s.SelectedPost = ""
	s.SelectedImage = ""
}

// SelectPost opens a blog post detail view. Selecting an id not present in
// either collection clears the selection instead.
func (s *State) SelectPost(id string) {
	if s.find(id) == nil {
		s.SelectedPost = ""
		return
	}
	s.SelectedPost = id
	s.SelectedImage = ""
}

// SelectImage opens a gallery image detail view. Selecting an id not present
// in either collection clears the selection instead.
func (s *State) SelectImage(id string) {
	if s.find(id) == nil {
		s.SelectedImage = ""
		return
	}
	s.SelectedImage = id
	s.SelectedPost = ""
}

// ReplaceFeed swaps in a freshly fetched public feed.
func (s *State) ReplaceFeed(posts []Post) {
	s.PublicFeed = posts
	s.pruneSelections()
}

// ReplaceOwnPosts swaps in the freshly fetched own-posts collection.
func (s *State) ReplaceOwnPosts(posts []Post) {
	s.OwnPosts = posts
	s.pruneSelections()
}

// ApplyCreated prepends a newly created post to both collections (the feed
// only when it is public).
func (s *State) ApplyCreated(p Post) {
	if p.IsPublic {
		s.PublicFeed = append([]Post{p}, s.PublicFeed...)
	}
	s.OwnPosts = append([]Post{p}, s.OwnPosts...)
}

// ApplyUpdated replaces the post in both collections by id. A post that went
// private disappears from the feed; one that went public and is missing from
// the feed is inserted at the front.
func (s *State) ApplyUpdated(p Post) {
	s.OwnPosts = replaceByID(s.OwnPosts, p)

	if !p.IsPublic {
		s.PublicFeed = removeByID(s.PublicFeed, p.ID)
	} else if indexByID(s.PublicFeed, p.ID) >= 0 {
		s.PublicFeed = replaceByID(s.PublicFeed, p)
	} else {
		s.PublicFeed = append([]Post{p}, s.PublicFeed...)
	}
	s.pruneSelections()
}

// ApplyDeleted removes the post from both collections and clears any
// selection that pointed at it.
func (s *State) ApplyDeleted(id string) {
	s.PublicFeed = removeByID(s.PublicFeed, id)
	s.OwnPosts = removeByID(s.OwnPosts, id)
	if s.SelectedPost == id {
		s.SelectedPost = ""
	}
	if s.SelectedImage == id {
		s.SelectedImage = ""
	}
}

// Selected returns the post the current selection points at, or nil.
func (s *State) Selected() *Post {
	if s.SelectedPost != "" {
		return s.find(s.SelectedPost)
	}
	if s.SelectedImage != "" {
		return s.find(s.SelectedImage)
	}
	return nil
}

// VisibleBlogPosts returns the public blog posts of the feed, in feed order.
// The visibility check happens here, not only at ingestion, so a private
// post can never render even if it reaches the feed collection.
func (s *State) VisibleBlogPosts() []Post {
	return filterVisible(s.PublicFeed, TypeBlog)
}

// VisiblePhotoPosts returns the public photo posts of the feed, in feed order.
func (s *State) VisiblePhotoPosts() []Post {
	return filterVisible(s.PublicFeed, TypePhoto)
}

// PreviewContent returns the fragment of a blog post's text an anonymous
// viewer may read, measured in runes so multi-byte text is never split.
func PreviewContent(content string) string {
	runes := []rune(content)
	n := int(float64(len(runes)) * PreviewFraction)
	if n < 1 && len(runes) > 0 {
		n = 1
	}
	return string(runes[:n])
}

// FeedExcerpt truncates content for feed listings, appending an ellipsis
// when anything was cut.
func FeedExcerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= FeedExcerptLen {
		return content
	}
	cut := strings.TrimRight(string(runes[:FeedExcerptLen]), " \n\t")
	return cut + "..."
}

// ConsumeLoginSignal strips the one-time login=success marker from a URL.
// It returns the cleaned URL and whether the marker was present, so the
// session re-check fires exactly once per completed sign-in.
func ConsumeLoginSignal(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL, false
	}
	q := u.Query()
	if q.Get("login") != "success" {
		return rawURL, false
	}
	q.Del("login")
	u.RawQuery = q.Encode()
	return u.String(), true
}

func (s *State) find(id string) *Post {
	if i := indexByID(s.OwnPosts, id); i >= 0 {
		return &s.OwnPosts[i]
	}
	if i := indexByID(s.PublicFeed, id); i >= 0 {
		return &s.PublicFeed[i]
	}
	return nil
}

func (s *State) pruneSelections() {
	if s.SelectedPost != "" && s.find(s.SelectedPost) == nil {
		s.SelectedPost = ""
	}
	if s.SelectedImage != "" && s.find(s.SelectedImage) == nil {
		s.SelectedImage = ""
	}
}

func indexByID(posts []Post, id string) int {
	for i, p := range posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func replaceByID(posts []Post, p Post) []Post {
	if i := indexByID(posts, p.ID); i >= 0 {
		posts[i] = p
	}
	return posts
}

func removeByID(posts []Post, id string) []Post {
	if i := indexByID(posts, id); i >= 0 {
		return append(posts[:i], posts[i+1:]...)
	}
	return posts
}

func filterVisible(posts []Post, t PostType) []Post {
	var out []Post
	for _, p := range posts {
		if p.IsPublic && p.Type == t {
			out = append(out, p)
		}
	}
	return out
}
