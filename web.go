package photoblog

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"photoblog/client"
	"photoblog/views"
)

// handleShell renders the application shell. The view state is built from
// the same data the JSON API serves, so a full page load and a client-side
// refresh agree on what is visible.
func (a *App) handleShell(c echo.Context) error {
	// The OAuth callback lands here with a one-time marker; strip it so a
	// reload never replays the signal.
	if clean, ok := client.ConsumeLoginSignal(c.Request().URL.String()); ok {
		return c.Redirect(http.StatusSeeOther, clean)
	}

	user := a.currentUser(c)
	admin := user != nil && a.Authorizer.CanManagePosts(user.Email)

	st := client.NewState()
	if user != nil {
		st.SetSession(&client.Session{
			Email:          user.Email,
			Name:           user.DisplayName(),
			ProfilePicture: user.ProfilePicture,
		})
	}

	feed, err := a.Feed.Posts()
	if err != nil {
		return err
	}
	st.ReplaceFeed(toClientPosts(feed))

	if user != nil {
		own, err := a.Store.ListPostsByAuthor(user.ID)
		if err != nil {
			return err
		}
		st.ReplaceOwnPosts(toClientPosts(own))
	}

	st.SwitchTab(client.ParseTab(c.QueryParam("tab")))
	if id := c.QueryParam("post"); id != "" {
		st.SelectPost(id)
	}
	if id := c.QueryParam("image"); id != "" {
		st.SelectImage(id)
	}

	pc := views.PageContext{
		CSRFToken:    CsrfToken(c),
		ContactSent:  c.QueryParam("sent") == "1",
		ContactError: c.QueryParam("error") == "1",
	}
	return Render(c, views.Page(a.siteConfig(), st, admin, pc))
}

// handleContactForm is the no-script fallback for the contact form. It is
// CSRF-protected and reports the outcome back through the shell URL.
func (a *App) handleContactForm(c echo.Context) error {
	if !a.contactLimiter.Allow(c.RealIP()) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many messages, try again later")
	}

	name := strings.TrimSpace(c.FormValue("name"))
	email := strings.TrimSpace(c.FormValue("email"))
	message := strings.TrimSpace(c.FormValue("message"))
	if name == "" || email == "" || message == "" {
		return c.Redirect(http.StatusSeeOther, "/?tab=contact&error=1")
	}

	if err := a.Store.SaveMessage(ContactMessage{
		Name:      name,
		Email:     email,
		Body:      message,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return err
	}
	c.Logger().Infof("contact message from %s <%s>", name, email)
	return c.Redirect(http.StatusSeeOther, "/?tab=contact&sent=1")
}

func toClientPosts(posts []Post) []client.Post {
	out := make([]client.Post, len(posts))
	for i, p := range posts {
		out[i] = toClientPost(p)
	}
	return out
}

func toClientPost(p Post) client.Post {
	cp := client.Post{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		ImgURL:    p.ImgURL,
		Type:      client.PostType(p.Type),
		IsPublic:  p.IsPublic,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Author != nil {
		cp.Author = client.Author{
			ID:             p.Author.ID,
			Name:           p.Author.Name,
			ProfilePicture: p.Author.ProfilePicture,
		}
	}
	return cp
}

func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, "User-agent: *\nAllow: /\n\nSitemap: "+a.Config.SiteURL+"/sitemap.xml\n")
}
