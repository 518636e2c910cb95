// Package photoblog is a personal blog and photo gallery engine built with
// Go, Echo, and templ. It serves a JSON API for posts, Google sign-in, image
// uploads with blurred anonymous previews, and a server-rendered shell, with
// RSS and sitemap out of the box.
package photoblog

import (
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"photoblog/views"
)

// App is the central application. It wires together the store, feed cache,
// authorizer, handlers, and middleware.
type App struct {
	Config     Config
	Echo       *echo.Echo
	Store      *Store
	Feed       *FeedCache
	Authorizer Authorizer

	contactLimiter *RateLimiter
}

// New creates an App with the given configuration.
func New(cfg Config) *App {
	cfg.setDefaults()
	return &App{
		Config: cfg,
		Echo:   echo.New(),
	}
}

// Start initializes the database, cache, middleware, and routes, then starts
// the server. It blocks until the server stops.
func (a *App) Start() error {
	if err := a.init(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) init() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("photoblog: SessionSecret is required")
	}
	if a.Config.AdminEmail == "" {
		return fmt.Errorf("photoblog: AdminEmail is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("photoblog: init store: %w", err)
	}
	a.Store = store
	a.Feed = NewFeedCache(store, a.Config.FeedCacheTTL)
	a.Authorizer = NewEmailAllowlist(a.Config.AdminEmail)
	a.contactLimiter = NewRateLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded assets (stylesheet and the thin fetch layer for forms).
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	e.GET("/public/*", echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(embeddedFS)))))
	e.GET("/robots.txt", a.handleRobots)

	// Server-rendered shell.
	e.GET("/", a.handleShell)
	e.POST("/contact", a.handleContactForm)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	auth := e.Group("/api/auth")
	auth.GET("/me", a.handleMe)
	auth.GET("/google/login", a.handleGoogleLogin)
	auth.GET("/google/login/callback", a.handleGoogleCallback)
	auth.GET("/logout", a.handleLogout)
	auth.POST("/logout", a.handleLogout)

	blog := e.Group("/api/blog")
	blog.GET("/posts", a.handleListPosts)
	blog.GET("/user/posts", a.handleListUserPosts)
	blog.POST("/posts", a.handleCreatePost)
	blog.PUT("/posts/:id", a.handleUpdatePost)
	blog.DELETE("/posts/:id", a.handleDeletePost)
	blog.PUT("/posts/:id/visibility", a.handleVisibility)
	blog.POST("/contact", a.handleContact)
	blog.GET("/uploads/:filename", a.handleServeUpload)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// httpErrorHandler renders JSON error bodies for API routes and the HTML
// error pages everywhere else.
func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		}
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
	}

	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		_ = c.JSON(code, echo.Map{"error": message})
		return
	}

	site := a.siteConfig()
	if code == http.StatusNotFound {
		_ = RenderStatus(c, code, views.NotFound(site))
		return
	}
	_ = RenderStatus(c, code, views.ServerError(site))
}

func (a *App) siteConfig() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.SiteName,
		URL:         a.Config.SiteURL,
		Description: a.Config.SiteDescription,
		Author:      a.Config.SiteAuthor,
	}
}
