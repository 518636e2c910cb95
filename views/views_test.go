package views

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"

	"photoblog/client"
)

var testSite = SiteConfig{
	Name:        "Test Blog",
	URL:         "http://localhost:3000",
	Description: "A test site",
	Author:      "Tester",
}

func render(t *testing.T, cmp templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := cmp.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return buf.String()
}

func blogPost(id, content string) client.Post {
	return client.Post{
		ID:        id,
		Title:     "Title " + id,
		Content:   content,
		Type:      client.TypeBlog,
		IsPublic:  true,
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func photoPost(id string) client.Post {
	return client.Post{
		ID:        id,
		Title:     "Photo " + id,
		ImgURL:    "/api/blog/uploads/" + id + ".jpg",
		Type:      client.TypePhoto,
		IsPublic:  true,
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestPageShowsSiteChrome(t *testing.T) {
	html := render(t, Page(testSite, client.NewState(), false, PageContext{}))
	if !strings.Contains(html, "Test Blog") {
		t.Error("page missing site name")
	}
	if !strings.Contains(html, "/feed.xml") {
		t.Error("page missing RSS link")
	}
	if !strings.Contains(html, "/api/auth/google/login") {
		t.Error("anonymous page missing sign-in link")
	}
}

func TestAnonymousPostDetailIsPreviewOnly(t *testing.T) {
	secret := strings.Repeat("a", 90) + "SECRET_TAIL"
	st := client.NewState()
	st.ReplaceFeed([]client.Post{blogPost("p1", secret)})
	st.SwitchTab(client.TabBlog)
	st.SelectPost("p1")

	html := render(t, Page(testSite, st, false, PageContext{}))
	if strings.Contains(html, "SECRET_TAIL") {
		t.Error("anonymous detail view leaked the full content")
	}
	if !strings.Contains(html, "Sign in to read the full post") {
		t.Error("preview missing the sign-in affordance")
	}
}

func TestLoggedInPostDetailIsComplete(t *testing.T) {
	secret := strings.Repeat("a", 90) + "SECRET_TAIL"
	st := client.NewState()
	st.SetSession(&client.Session{Email: "reader@example.com", Name: "Reader"})
	st.ReplaceFeed([]client.Post{blogPost("p1", secret)})
	st.SwitchTab(client.TabBlog)
	st.SelectPost("p1")

	html := render(t, Page(testSite, st, false, PageContext{}))
	if !strings.Contains(html, "SECRET_TAIL") {
		t.Error("signed-in detail view is missing the full content")
	}
	if strings.Contains(html, "Sign in to read the full post") {
		t.Error("signed-in view should not show the sign-in affordance")
	}
}

func TestGalleryBlursForAnonymous(t *testing.T) {
	st := client.NewState()
	st.ReplaceFeed([]client.Post{photoPost("ph1")})
	st.SwitchTab(client.TabGallery)

	html := render(t, Page(testSite, st, false, PageContext{}))
	if !strings.Contains(html, "blurred") {
		t.Error("anonymous gallery missing the blurred marker")
	}
	if !strings.Contains(html, "Sign in to view") {
		t.Error("anonymous gallery missing the sign-in prompt")
	}

	st.SetSession(&client.Session{Email: "reader@example.com"})
	html = render(t, Page(testSite, st, false, PageContext{}))
	if strings.Contains(html, "blurred") {
		t.Error("signed-in gallery should not be blurred")
	}
}

func TestManageTabOnlyForAdmin(t *testing.T) {
	st := client.NewState()
	st.SetSession(&client.Session{Email: "visitor@example.com"})
	st.ReplaceOwnPosts([]client.Post{blogPost("mine", "content")})
	st.SwitchTab(client.TabManage)

	html := render(t, Page(testSite, st, false, PageContext{}))
	if strings.Contains(html, "create-form") {
		t.Error("non-admin must not see the manage panel")
	}

	html = render(t, Page(testSite, st, true, PageContext{}))
	if !strings.Contains(html, "create-form") {
		t.Error("admin manage panel missing the create form")
	}
	if !strings.Contains(html, `data-post-id="mine"`) {
		t.Error("admin manage panel missing the post row")
	}
}

func TestEscapesUserContent(t *testing.T) {
	st := client.NewState()
	p := blogPost("p1", "safe")
	p.Title = `<script>alert(1)</script>`
	st.ReplaceFeed([]client.Post{p})
	st.SwitchTab(client.TabBlog)

	html := render(t, Page(testSite, st, false, PageContext{}))
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Error("post title rendered unescaped")
	}
}

func TestFeedCardsStripMarkupFromExcerpts(t *testing.T) {
	st := client.NewState()
	st.ReplaceFeed([]client.Post{blogPost("p1", "<p>Hello <b>world</b></p>")})
	st.SwitchTab(client.TabBlog)

	html := render(t, Page(testSite, st, false, PageContext{}))
	if strings.Contains(html, "&lt;p&gt;") {
		t.Error("feed card shows escaped markup instead of plain text")
	}
	if !strings.Contains(html, "Hello world") {
		t.Error("feed card missing the plain-text excerpt")
	}
}

func TestContactFormCarriesCsrfToken(t *testing.T) {
	st := client.NewState()
	st.SwitchTab(client.TabContact)

	html := render(t, Page(testSite, st, false, PageContext{CSRFToken: "tok123"}))
	if !strings.Contains(html, `name="_csrf" value="tok123"`) {
		t.Error("contact form missing the csrf token field")
	}
	if !strings.Contains(html, `action="/contact"`) {
		t.Error("contact form missing the fallback action")
	}

	html = render(t, Page(testSite, st, false, PageContext{ContactSent: true}))
	if !strings.Contains(html, "Message sent") {
		t.Error("contact form missing the sent confirmation")
	}
}

func TestNotFoundPage(t *testing.T) {
	html := render(t, NotFound(testSite))
	if !strings.Contains(html, "404") {
		t.Error("404 page missing heading")
	}
}

func TestExcerpt(t *testing.T) {
	if got := Excerpt("<p>Hello <b>world</b></p>", 50); got != "Hello world" {
		t.Errorf("Excerpt = %q", got)
	}
	long := strings.Repeat("word ", 50)
	got := Excerpt(long, 20)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Excerpt = %q, want truncation marker", got)
	}
	if len([]rune(got)) > 23 {
		t.Errorf("Excerpt too long: %q", got)
	}
}
