package photoblog

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"photoblog/views"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// handleFeed serves the public posts as RSS 2.0. Photo posts without a title
// fall back to the site name so every item has one.
func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Feed.Posts()
	if err != nil {
		return err
	}

	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		title := p.Title
		if title == "" {
			title = a.Config.SiteName
		}
		postURL := a.postURL(p)
		items = append(items, rssItem{
			Title:       title,
			Link:        postURL,
			Description: views.Excerpt(p.Content, 300),
			PubDate:     p.CreatedAt.Format(time.RFC1123Z),
			GUID:        postURL,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.SiteName,
			Link:        BuildURL(a.Config.SiteURL),
			Description: a.Config.SiteDescription,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
