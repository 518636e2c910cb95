package views

import (
	"bytes"
	"context"
	"html"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"photoblog/client"
)

const homePreviewCount = 4

// Page renders the full application shell for the given view state. The
// admin flag decides whether the manage tab and its controls exist at all;
// it is resolved by the server, never trusted from the state.
func Page(cfg SiteConfig, st *client.State, admin bool, pc PageContext) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		writeHead(&buf, cfg, cfg.Name)
		writeNav(&buf, cfg, st, admin)
		buf.WriteString(`<main class="content">`)
		switch st.ActiveTab {
		case client.TabBlog:
			writeBlog(&buf, st)
		case client.TabGallery:
			writeGallery(&buf, st)
		case client.TabContact:
			writeContact(&buf, pc)
		case client.TabManage:
			if admin {
				writeManage(&buf, st)
			} else {
				writeHome(&buf, st)
			}
		default:
			writeHome(&buf, st)
		}
		buf.WriteString(`</main>`)
		writeFoot(&buf, cfg)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// NotFound is the 404 page.
func NotFound(cfg SiteConfig) templ.Component {
	return errorPage(cfg, "404", "This page does not exist.")
}

// ServerError is the 5xx page.
func ServerError(cfg SiteConfig) templ.Component {
	return errorPage(cfg, "Something went wrong", "Please try again later.")
}

func errorPage(cfg SiteConfig, heading, detail string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		writeHead(&buf, cfg, heading+" | "+cfg.Name)
		buf.WriteString(`<main class="content error-page"><h1>`)
		buf.WriteString(html.EscapeString(heading))
		buf.WriteString(`</h1><p>`)
		buf.WriteString(html.EscapeString(detail))
		buf.WriteString(`</p><p><a href="/">Back to home</a></p></main>`)
		writeFoot(&buf, cfg)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

func writeHead(buf *bytes.Buffer, cfg SiteConfig, title string) {
	buf.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"/>`)
	buf.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1"/>`)
	buf.WriteString(`<title>` + html.EscapeString(title) + `</title>`)
	if cfg.Description != "" {
		buf.WriteString(`<meta name="description" content="` + html.EscapeString(cfg.Description) + `"/>`)
	}
	buf.WriteString(`<link rel="alternate" type="application/rss+xml" href="/feed.xml"/>`)
	buf.WriteString(`<link rel="stylesheet" href="/public/style.css"/>`)
	buf.WriteString(`</head><body>`)
}

func writeFoot(buf *bytes.Buffer, cfg SiteConfig) {
	buf.WriteString(`<footer class="footer">`)
	if cfg.Author != "" {
		buf.WriteString(html.EscapeString(cfg.Author) + ` &middot; `)
	}
	buf.WriteString(`<a href="/feed.xml">RSS</a></footer>`)
	buf.WriteString(`<script src="/public/app.js"></script></body></html>`)
}

func writeNav(buf *bytes.Buffer, cfg SiteConfig, st *client.State, admin bool) {
	buf.WriteString(`<nav class="nav"><a class="site-name" href="/">` + html.EscapeString(cfg.Name) + `</a><div class="tabs">`)
	tabs := []struct {
		tab   client.Tab
		label string
	}{
		{client.TabHome, "Home"},
		{client.TabBlog, "Blog"},
		{client.TabGallery, "Gallery"},
		{client.TabContact, "Contact"},
	}
	for _, t := range tabs {
		writeTabLink(buf, st.ActiveTab, t.tab, t.label)
	}
	if admin {
		writeTabLink(buf, st.ActiveTab, client.TabManage, "Manage")
	}
	buf.WriteString(`</div><div class="session">`)
	if st.Session != nil {
		if st.Session.ProfilePicture != "" {
			buf.WriteString(`<img class="avatar" src="` + html.EscapeString(st.Session.ProfilePicture) + `" alt=""/>`)
		}
		buf.WriteString(`<span>` + html.EscapeString(st.Session.Name) + `</span>`)
		buf.WriteString(`<a href="/api/auth/logout">Sign out</a>`)
	} else {
		buf.WriteString(`<a class="login" href="/api/auth/google/login">Sign in with Google</a>`)
	}
	buf.WriteString(`</div></nav>`)
}

func writeTabLink(buf *bytes.Buffer, active, tab client.Tab, label string) {
	class := "tab"
	if active == tab {
		class = "tab active"
	}
	href := "/?tab=" + string(tab)
	if tab == client.TabHome {
		href = "/"
	}
	buf.WriteString(`<a class="` + class + `" href="` + href + `">` + label + `</a>`)
}

func writeHome(buf *bytes.Buffer, st *client.State) {
	buf.WriteString(`<section class="home"><h2>Latest posts</h2><div class="post-list">`)
	for i, p := range st.VisibleBlogPosts() {
		if i == homePreviewCount {
			break
		}
		writePostCard(buf, p)
	}
	buf.WriteString(`</div><h2>Latest photos</h2><div class="photo-grid">`)
	for i, p := range st.VisiblePhotoPosts() {
		if i == homePreviewCount {
			break
		}
		writePhotoCard(buf, p, st.LoggedIn())
	}
	buf.WriteString(`</div></section>`)
}

func writeBlog(buf *bytes.Buffer, st *client.State) {
	if st.SelectedPost != "" {
		if p := st.Selected(); p != nil {
			writePostDetail(buf, *p, st.LoggedIn())
			return
		}
	}
	buf.WriteString(`<section class="blog"><div class="post-list">`)
	posts := st.VisibleBlogPosts()
	for _, p := range posts {
		writePostCard(buf, p)
	}
	if len(posts) == 0 {
		buf.WriteString(`<p class="empty">No posts yet.</p>`)
	}
	buf.WriteString(`</div></section>`)
}

func writePostCard(buf *bytes.Buffer, p client.Post) {
	buf.WriteString(`<article class="post-card"><h3><a href="/?tab=blog&amp;post=` + html.EscapeString(p.ID) + `">`)
	buf.WriteString(html.EscapeString(p.Title))
	buf.WriteString(`</a></h3><p class="meta">` + FormatDate(p.CreatedAt) + `</p><p>`)
	buf.WriteString(html.EscapeString(Excerpt(p.Content, client.FeedExcerptLen)))
	buf.WriteString(`</p></article>`)
}

func writePostDetail(buf *bytes.Buffer, p client.Post, loggedIn bool) {
	buf.WriteString(`<article class="post"><h1>` + html.EscapeString(p.Title) + `</h1>`)
	buf.WriteString(`<p class="meta">`)
	if p.Author.Name != "" {
		buf.WriteString(html.EscapeString(p.Author.Name) + ` &middot; `)
	}
	buf.WriteString(FormatDate(p.CreatedAt) + `</p>`)
	if p.ImgURL != "" {
		buf.WriteString(`<img class="post-image" src="` + html.EscapeString(p.ImgURL) + `" alt=""/>`)
	}
	if loggedIn {
		buf.WriteString(`<div class="body">` + html.EscapeString(p.Content) + `</div>`)
	} else {
		buf.WriteString(`<div class="body preview">` + html.EscapeString(client.PreviewContent(p.Content)) + `</div>`)
		buf.WriteString(`<div class="signin-prompt"><p>Sign in to read the full post.</p>`)
		buf.WriteString(`<a class="login" href="/api/auth/google/login">Sign in with Google</a></div>`)
	}
	buf.WriteString(`<p><a href="/?tab=blog">&larr; All posts</a></p></article>`)
}

func writeGallery(buf *bytes.Buffer, st *client.State) {
	if st.SelectedImage != "" {
		if p := st.Selected(); p != nil {
			writePhotoDetail(buf, *p, st.LoggedIn())
			return
		}
	}
	buf.WriteString(`<section class="gallery"><div class="photo-grid">`)
	posts := st.VisiblePhotoPosts()
	for _, p := range posts {
		writePhotoCard(buf, p, st.LoggedIn())
	}
	if len(posts) == 0 {
		buf.WriteString(`<p class="empty">No photos yet.</p>`)
	}
	buf.WriteString(`</div></section>`)
}

func writePhotoCard(buf *bytes.Buffer, p client.Post, loggedIn bool) {
	class := "photo-card"
	if !loggedIn {
		class += " blurred"
	}
	buf.WriteString(`<a class="` + class + `" href="/?tab=gallery&amp;image=` + html.EscapeString(p.ID) + `">`)
	buf.WriteString(`<img src="` + html.EscapeString(p.ImgURL) + `" alt="` + html.EscapeString(p.Title) + `" loading="lazy"/>`)
	if !loggedIn {
		buf.WriteString(`<span class="lock">Sign in to view</span>`)
	}
	buf.WriteString(`</a>`)
}

func writePhotoDetail(buf *bytes.Buffer, p client.Post, loggedIn bool) {
	buf.WriteString(`<article class="photo">`)
	buf.WriteString(`<img class="photo-full" src="` + html.EscapeString(p.ImgURL) + `" alt="` + html.EscapeString(p.Title) + `"/>`)
	if p.Title != "" {
		buf.WriteString(`<h2>` + html.EscapeString(p.Title) + `</h2>`)
	}
	if p.Content != "" {
		buf.WriteString(`<p>` + html.EscapeString(p.Content) + `</p>`)
	}
	buf.WriteString(`<p class="meta">` + FormatDate(p.CreatedAt) + `</p>`)
	if !loggedIn {
		buf.WriteString(`<div class="signin-prompt"><p>Sign in to see the full-quality photo.</p>`)
		buf.WriteString(`<a class="login" href="/api/auth/google/login">Sign in with Google</a></div>`)
	}
	buf.WriteString(`<p><a href="/?tab=gallery">&larr; Gallery</a></p></article>`)
}

// writeContact renders the contact form. It posts to the CSRF-protected
// /contact form route as a no-script fallback; app.js intercepts the submit
// and uses the JSON endpoint instead.
func writeContact(buf *bytes.Buffer, pc PageContext) {
	buf.WriteString(`<section class="contact"><h2>Contact</h2>`)
	buf.WriteString(`<form id="contact-form" class="contact-form" method="post" action="/contact">`)
	buf.WriteString(`<input type="hidden" name="_csrf" value="` + html.EscapeString(pc.CSRFToken) + `"/>`)
	buf.WriteString(`<label>Name<input type="text" name="name" required/></label>`)
	buf.WriteString(`<label>Email<input type="email" name="email" required/></label>`)
	buf.WriteString(`<label>Message<textarea name="message" rows="6" required></textarea></label>`)
	buf.WriteString(`<button type="submit">Send</button>`)
	buf.WriteString(`<p class="form-status" aria-live="polite">`)
	switch {
	case pc.ContactSent:
		buf.WriteString(`Message sent. Thanks!`)
	case pc.ContactError:
		buf.WriteString(`All fields are required.`)
	}
	buf.WriteString(`</p></form></section>`)
}

func writeManage(buf *bytes.Buffer, st *client.State) {
	buf.WriteString(`<section class="manage"><h2>New post</h2>`)
	buf.WriteString(`<form id="create-form" class="create-form" enctype="multipart/form-data">`)
	buf.WriteString(`<label>Title<input type="text" name="title"/></label>`)
	buf.WriteString(`<label>Content<textarea name="content" rows="8"></textarea></label>`)
	buf.WriteString(`<label>Image<input type="file" name="image" accept="image/*"/></label>`)
	buf.WriteString(`<button type="submit">Publish</button>`)
	buf.WriteString(`<p class="form-status" aria-live="polite"></p>`)
	buf.WriteString(`</form>`)

	buf.WriteString(`<h2>Your posts</h2><table class="manage-table"><thead><tr><th>Title</th><th>Type</th><th>Created</th><th>Visibility</th><th></th></tr></thead><tbody>`)
	for _, p := range st.OwnPosts {
		buf.WriteString(`<tr data-post-id="` + html.EscapeString(p.ID) + `"><td>`)
		title := p.Title
		if title == "" {
			title = "(untitled)"
		}
		buf.WriteString(html.EscapeString(title))
		buf.WriteString(`</td><td>` + string(p.Type) + `</td>`)
		buf.WriteString(`<td>` + FormatDate(p.CreatedAt) + `</td><td>`)
		buf.WriteString(`<button class="toggle-visibility" data-public="` + strconv.FormatBool(p.IsPublic) + `">`)
		if p.IsPublic {
			buf.WriteString(`Public`)
		} else {
			buf.WriteString(`Private`)
		}
		buf.WriteString(`</button></td><td><button class="delete-post">Delete</button></td></tr>`)
	}
	buf.WriteString(`</tbody></table>`)
	if len(st.OwnPosts) == 0 {
		buf.WriteString(`<p class="empty">Nothing here yet.</p>`)
	}
	buf.WriteString(`</section>`)
}
