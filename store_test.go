package photoblog

import (
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test_blog.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testUser(t *testing.T, s *Store, id, email string) User {
	t.Helper()
	u, err := s.UpsertUser(User{
		ID:        id,
		GoogleID:  "g-" + id,
		Email:     email,
		Name:      "Test User",
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}
	return u
}

func testPost(authorID string) Post {
	now := time.Now().UTC()
	return Post{
		ID:        "post-1",
		Title:     "Test Post",
		Content:   "Some content here.",
		Type:      TypeBlog,
		IsPublic:  true,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateAndGetPost(t *testing.T) {
	s := setupTestStore(t)
	u := testUser(t, s, "u1", "author@example.com")

	post := testPost(u.ID)
	if err := s.CreatePost(post); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	got, err := s.GetPost(post.ID)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != post.Title {
		t.Errorf("Title = %q, want %q", got.Title, post.Title)
	}
	if got.Content != post.Content {
		t.Errorf("Content = %q, want %q", got.Content, post.Content)
	}
	if got.Type != TypeBlog {
		t.Errorf("Type = %q, want %q", got.Type, TypeBlog)
	}
	if !got.IsPublic {
		t.Error("IsPublic should be true")
	}
	if got.Author == nil || got.Author.Name != "Test User" {
		t.Errorf("Author = %+v, want joined user record", got.Author)
	}
}

func TestGetPostNotFound(t *testing.T) {
	s := setupTestStore(t)
	if _, err := s.GetPost("nope"); err != ErrNotFound {
		t.Fatalf("GetPost error = %v, want ErrNotFound", err)
	}
}

func TestUpdatePostPartial(t *testing.T) {
	s := setupTestStore(t)
	u := testUser(t, s, "u1", "author@example.com")

	post := testPost(u.ID)
	if err := s.CreatePost(post); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	title := "New Title"
	if err := s.UpdatePost(post.ID, &title, nil, nil); err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}

	got, err := s.GetPost(post.ID)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != "New Title" {
		t.Errorf("Title = %q, want %q", got.Title, "New Title")
	}
	if got.Content != post.Content {
		t.Errorf("Content changed on partial update: %q", got.Content)
	}
}

func TestUpdatePostImageChangesType(t *testing.T) {
	s := setupTestStore(t)
	u := testUser(t, s, "u1", "author@example.com")

	post := testPost(u.ID)
	if err := s.CreatePost(post); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	img := "/api/blog/uploads/cat-abcd1234.jpg"
	if err := s.UpdatePost(post.ID, nil, nil, &img); err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}

	got, err := s.GetPost(post.ID)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Type != TypePhoto {
		t.Errorf("Type = %q, want %q after image set", got.Type, TypePhoto)
	}
}

func TestUpdatePostNotFound(t *testing.T) {
	s := setupTestStore(t)
	title := "x"
	if err := s.UpdatePost("nope", &title, nil, nil); err != ErrNotFound {
		t.Fatalf("UpdatePost error = %v, want ErrNotFound", err)
	}
}

func TestVisibilityFiltersPublicList(t *testing.T) {
	s := setupTestStore(t)
	u := testUser(t, s, "u1", "author@example.com")

	post := testPost(u.ID)
	if err := s.CreatePost(post); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	posts, err := s.ListPublicPosts()
	if err != nil {
		t.Fatalf("ListPublicPosts failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("public posts = %d, want 1", len(posts))
	}

	if err := s.SetPostVisibility(post.ID, false); err != nil {
		t.Fatalf("SetPostVisibility failed: %v", err)
	}

	posts, err = s.ListPublicPosts()
	if err != nil {
		t.Fatalf("ListPublicPosts failed: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("public posts = %d after hiding, want 0", len(posts))
	}

	own, err := s.ListPostsByAuthor(u.ID)
	if err != nil {
		t.Fatalf("ListPostsByAuthor failed: %v", err)
	}
	if len(own) != 1 || own[0].IsPublic {
		t.Fatalf("own posts = %+v, want one private post", own)
	}
}

func TestDeletePost(t *testing.T) {
	s := setupTestStore(t)
	u := testUser(t, s, "u1", "author@example.com")

	post := testPost(u.ID)
	if err := s.CreatePost(post); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if err := s.DeletePost(post.ID); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	if _, err := s.GetPost(post.ID); err != ErrNotFound {
		t.Fatalf("GetPost after delete = %v, want ErrNotFound", err)
	}
}

func TestUpsertUserPreservesID(t *testing.T) {
	s := setupTestStore(t)

	first, err := s.UpsertUser(User{
		ID:        "u1",
		GoogleID:  "g1",
		Email:     "a@example.com",
		Name:      "A",
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}

	// Same Google account logging in again with fresh profile data and a
	// different candidate id must keep the stored id.
	second, err := s.UpsertUser(User{
		ID:        "u2",
		GoogleID:  "g1",
		Email:     "a@example.com",
		Name:      "A Renamed",
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("ID = %q, want %q", second.ID, first.ID)
	}
	if second.Name != "A Renamed" {
		t.Errorf("Name = %q, want refreshed profile", second.Name)
	}
}

func TestSaveAndListMessages(t *testing.T) {
	s := setupTestStore(t)

	msg := ContactMessage{
		Name:      "Visitor",
		Email:     "visitor@example.com",
		Body:      "Hello there",
		CreatedAt: time.Now().UTC(),
	}
	if err := s.SaveMessage(msg); err != nil {
		t.Fatalf("SaveMessage failed: %v", err)
	}

	msgs, err := s.ListMessages()
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(msgs))
	}
	if msgs[0].Name != msg.Name || msgs[0].Body != msg.Body {
		t.Errorf("message = %+v, want %+v", msgs[0], msg)
	}
}
