package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

const requestTimeout = 15 * time.Second

// APIError is a non-2xx response from the server, carrying the status code
// and the message from the JSON error body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Gateway is a typed HTTP client for the blog API. It keeps the session
// cookie in a jar, so one Gateway instance represents one browsing session.
type Gateway struct {
	baseURL string
	http    *http.Client
}

// NewGateway creates a Gateway talking to the API at baseURL.
func NewGateway(baseURL string) *Gateway {
	jar, _ := cookiejar.New(nil)
	return &Gateway{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: requestTimeout,
		},
	}
}

// wirePost mirrors the API's post encoding. Optional fields are pointers so
// an omitted value is distinguishable from a zero one; toPost resolves them.
type wirePost struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	ImgURL    string  `json:"img_url"`
	Type      string  `json:"type"`
	IsPublic  *bool   `json:"is_public"`
	Author    *Author `json:"author"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// toPost normalizes a wire post into the client's canonical form: type
// resolved from the image when absent, visibility defaulting to public,
// timestamps defaulting to now when the server omitted them.
func (w wirePost) toPost() Post {
	p := Post{
		ID:       w.ID,
		Title:    w.Title,
		Content:  w.Content,
		ImgURL:   w.ImgURL,
		Type:     NormalizeType(w.Type, w.ImgURL),
		IsPublic: true,
	}
	if w.IsPublic != nil {
		p.IsPublic = *w.IsPublic
	}
	if w.Author != nil {
		p.Author = *w.Author
	}
	now := time.Now()
	p.CreatedAt = parseWireTime(w.CreatedAt, now)
	p.UpdatedAt = parseWireTime(w.UpdatedAt, p.CreatedAt)
	return p
}

func parseWireTime(s string, fallback time.Time) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	return fallback
}

func toPosts(wire []wirePost) []Post {
	posts := make([]Post, len(wire))
	for i, w := range wire {
		posts[i] = w.toPost()
	}
	return posts
}

// Me returns the session identity, or nil without error when there is no
// active session.
func (g *Gateway) Me(ctx context.Context) (*User, error) {
	var user User
	err := g.do(ctx, http.MethodGet, "/api/auth/me", nil, "", &user)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// ListPosts fetches the public feed.
func (g *Gateway) ListPosts(ctx context.Context) ([]Post, error) {
	var body struct {
		Posts []wirePost `json:"posts"`
	}
	if err := g.do(ctx, http.MethodGet, "/api/blog/posts", nil, "", &body); err != nil {
		return nil, err
	}
	return toPosts(body.Posts), nil
}

// ListOwnPosts fetches every post of the session user, private ones included.
func (g *Gateway) ListOwnPosts(ctx context.Context) ([]Post, error) {
	var body struct {
		Posts []wirePost `json:"posts"`
	}
	if err := g.do(ctx, http.MethodGet, "/api/blog/user/posts", nil, "", &body); err != nil {
		return nil, err
	}
	return toPosts(body.Posts), nil
}

// Draft is the input to CreatePost. A draft with an Image is sent as
// multipart form data; a text-only draft is sent as JSON.
type Draft struct {
	Title   string
	Content string

	ImageName string
	Image     io.Reader
	ImageSize int64
}

// CreatePost submits a new post and returns the server's stored copy.
func (g *Gateway) CreatePost(ctx context.Context, d Draft) (Post, error) {
	var reqBody io.Reader
	contentType := ""

	if d.Image != nil {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		_ = mw.WriteField("title", d.Title)
		_ = mw.WriteField("content", d.Content)
		fw, err := mw.CreateFormFile("image", d.ImageName)
		if err != nil {
			return Post{}, err
		}
		if _, err := io.Copy(fw, d.Image); err != nil {
			return Post{}, err
		}
		if err := mw.Close(); err != nil {
			return Post{}, err
		}
		reqBody = &buf
		contentType = mw.FormDataContentType()
	} else {
		payload, err := json.Marshal(map[string]string{
			"title":   d.Title,
			"content": d.Content,
		})
		if err != nil {
			return Post{}, err
		}
		reqBody = bytes.NewReader(payload)
		contentType = "application/json"
	}

	var body struct {
		Post wirePost `json:"post"`
	}
	if err := g.do(ctx, http.MethodPost, "/api/blog/posts", reqBody, contentType, &body); err != nil {
		return Post{}, err
	}
	return body.Post.toPost(), nil
}

// Update is a partial post edit. Nil fields are left unchanged.
type Update struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// UpdatePost applies a partial edit and returns the updated post. The
// update endpoints answer with the bare post, not the create envelope.
func (g *Gateway) UpdatePost(ctx context.Context, id string, u Update) (Post, error) {
	payload, err := json.Marshal(u)
	if err != nil {
		return Post{}, err
	}
	var body wirePost
	if err := g.do(ctx, http.MethodPut, "/api/blog/posts/"+id, bytes.NewReader(payload), "application/json", &body); err != nil {
		return Post{}, err
	}
	return body.toPost(), nil
}

// DeletePost removes a post.
func (g *Gateway) DeletePost(ctx context.Context, id string) error {
	return g.do(ctx, http.MethodDelete, "/api/blog/posts/"+id, nil, "", nil)
}

// SetVisibility flips a post between public and private and returns the
// updated post.
func (g *Gateway) SetVisibility(ctx context.Context, id string, isPublic bool) (Post, error) {
	payload, err := json.Marshal(map[string]bool{"is_public": isPublic})
	if err != nil {
		return Post{}, err
	}
	var body wirePost
	if err := g.do(ctx, http.MethodPut, "/api/blog/posts/"+id+"/visibility", bytes.NewReader(payload), "application/json", &body); err != nil {
		return Post{}, err
	}
	return body.toPost(), nil
}

// SubmitContact sends a contact form message.
func (g *Gateway) SubmitContact(ctx context.Context, name, email, message string) error {
	payload, err := json.Marshal(map[string]string{
		"name":    name,
		"email":   email,
		"message": message,
	})
	if err != nil {
		return err
	}
	return g.do(ctx, http.MethodPost, "/api/blog/contact", bytes.NewReader(payload), "application/json", nil)
}

// LoginURL is the address the browser must navigate to for Google sign-in.
// Sign-in is a full-page redirect flow, not an API call.
func (g *Gateway) LoginURL() string {
	return g.baseURL + "/api/auth/google/login"
}

// LogoutURL is the address that tears down the session.
func (g *Gateway) LogoutURL() string {
	return g.baseURL + "/api/auth/logout"
}

// do performs a request and decodes the JSON response into out. Non-2xx
// responses become *APIError with the message from the error body.
func (g *Gateway) do(ctx context.Context, method, path string, reqBody io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{
		Status:  resp.StatusCode,
		Message: http.StatusText(resp.StatusCode),
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	}
	return apiErr
}
