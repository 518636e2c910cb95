package photoblog

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// handleListPosts serves the public feed. The result is cached; every write
// through the API invalidates the cache.
func (a *App) handleListPosts(c echo.Context) error {
	posts, err := a.Feed.Posts()
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []Post{}
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

// handleListUserPosts returns every post owned by the session user, private
// ones included.
func (a *App) handleListUserPosts(c echo.Context) error {
	user := a.currentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	posts, err := a.Store.ListPostsByAuthor(user.ID)
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []Post{}
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

// requireAdmin resolves the session and checks it against the authorizer on
// every call. Authorization is never cached in the session, so revoking the
// admin email takes effect on the next request.
func (a *App) requireAdmin(c echo.Context) (*User, error) {
	user := a.currentUser(c)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	if !a.Authorizer.CanManagePosts(user.Email) {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Only the admin can create posts")
	}
	return user, nil
}

// handleCreatePost accepts either a JSON body (text-only blog posts) or a
// multipart form carrying an optional image. A post with an image is a photo
// post and needs no text; a post without one must have both title and content.
func (a *App) handleCreatePost(c echo.Context) error {
	user, err := a.requireAdmin(c)
	if err != nil {
		return err
	}

	var title, content, imgURL string

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		var body struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		}
		if err := c.Bind(&body); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
		}
		title, content = body.Title, body.Content
	} else {
		title = c.FormValue("title")
		content = c.FormValue("content")
		if file, err := c.FormFile("image"); err == nil && file != nil {
			imgURL, err = a.saveUpload(file)
			if err != nil {
				return err
			}
		}
	}

	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	if imgURL == "" && (title == "" || content == "") {
		return echo.NewHTTPError(http.StatusBadRequest, "Title and content are required for blog posts")
	}

	now := time.Now().UTC()
	post := Post{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		ImgURL:    imgURL,
		Type:      NormalizeType("", imgURL),
		IsPublic:  true,
		AuthorID:  user.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.Store.CreatePost(post); err != nil {
		return err
	}
	a.Feed.Invalidate()

	created, err := a.Store.GetPost(post.ID)
	if err != nil {
		created = post
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Post created successfully",
		"post":    created,
	})
}

// handleUpdatePost applies a partial update to a post the session user owns.
// A JSON body edits text fields; a multipart body may also replace the image.
func (a *App) handleUpdatePost(c echo.Context) error {
	post, err := a.ownedPost(c)
	if err != nil {
		return err
	}

	var body struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
		ImgURL  *string `json:"img_url"`
	}
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
		}
		if v, ok := form.Value["title"]; ok && len(v) > 0 {
			body.Title = &v[0]
		}
		if v, ok := form.Value["content"]; ok && len(v) > 0 {
			body.Content = &v[0]
		}
		if files := form.File["image"]; len(files) > 0 {
			url, err := a.saveUpload(files[0])
			if err != nil {
				return err
			}
			body.ImgURL = &url
		}
	} else if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := a.Store.UpdatePost(post.ID, body.Title, body.Content, body.ImgURL); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return err
	}
	a.Feed.Invalidate()

	// Unlike create, updates answer with the bare post object.
	updated, err := a.Store.GetPost(post.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// handleDeletePost removes a post the session user owns. Stored image files
// are kept so cached feed entries do not break.
func (a *App) handleDeletePost(c echo.Context) error {
	post, err := a.ownedPost(c)
	if err != nil {
		return err
	}
	if err := a.Store.DeletePost(post.ID); err != nil {
		return err
	}
	a.Feed.Invalidate()
	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted successfully"})
}

// handleVisibility flips a post between public and private. The field is
// mandatory so a missing value is never read as "make private".
func (a *App) handleVisibility(c echo.Context) error {
	post, err := a.ownedPost(c)
	if err != nil {
		return err
	}

	var body struct {
		IsPublic *bool `json:"is_public"`
	}
	if err := c.Bind(&body); err != nil || body.IsPublic == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "is_public field is required")
	}
	if err := a.Store.SetPostVisibility(post.ID, *body.IsPublic); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return err
	}
	a.Feed.Invalidate()

	updated, err := a.Store.GetPost(post.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// ownedPost loads the :id post and verifies the session user owns it.
func (a *App) ownedPost(c echo.Context) (Post, error) {
	user := a.currentUser(c)
	if user == nil {
		return Post{}, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	post, err := a.Store.GetPost(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Post{}, echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return Post{}, err
	}
	if post.AuthorID != user.ID {
		return Post{}, echo.NewHTTPError(http.StatusForbidden, "Unauthorized")
	}
	return post, nil
}

// handleContact accepts a contact form submission, throttled per IP.
func (a *App) handleContact(c echo.Context) error {
	if !a.contactLimiter.Allow(c.RealIP()) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many messages, try again later")
	}

	var body struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	body.Name = strings.TrimSpace(body.Name)
	body.Email = strings.TrimSpace(body.Email)
	body.Message = strings.TrimSpace(body.Message)
	if body.Name == "" || body.Email == "" || body.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "All fields are required")
	}

	if err := a.Store.SaveMessage(ContactMessage{
		Name:      body.Name,
		Email:     body.Email,
		Body:      body.Message,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return err
	}
	c.Logger().Infof("contact message from %s <%s>", body.Name, body.Email)

	return c.JSON(http.StatusOK, echo.Map{"message": "Message received successfully"})
}
