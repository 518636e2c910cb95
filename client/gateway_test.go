package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPostsNormalizesAtIngestion(t *testing.T) {
	// The server may omit is_public, type, and timestamps; the gateway must
	// hand back fully resolved posts.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/blog/posts", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"posts":[
			{"id":"1","title":"A","content":"text"},
			{"id":"2","title":"B","img_url":"/api/blog/uploads/b.jpg"},
			{"id":"3","title":"C","content":"hidden","is_public":false,"created_at":"2024-03-01T10:00:00Z"}
		]}`))
	}))
	defer srv.Close()

	gw := NewGateway(srv.URL)
	posts, err := gw.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 3)

	assert.Equal(t, TypeBlog, posts[0].Type)
	assert.True(t, posts[0].IsPublic, "omitted is_public defaults to public")
	assert.False(t, posts[0].CreatedAt.IsZero(), "omitted timestamp gets a fallback")

	assert.Equal(t, TypePhoto, posts[1].Type, "image-only post normalizes to photo")

	assert.False(t, posts[2].IsPublic, "explicit false survives")
	assert.Equal(t, 2024, posts[2].CreatedAt.Year())
}

func TestErrorBodyBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"Only the admin can create posts"}`))
	}))
	defer srv.Close()

	gw := NewGateway(srv.URL)
	_, err := gw.CreatePost(context.Background(), Draft{Title: "t", Content: "c"})
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok, "error should be *APIError, got %T", err)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "Only the admin can create posts", apiErr.Message)
}

func TestErrorWithoutBodyFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	gw := NewGateway(srv.URL)
	err := gw.DeletePost(context.Background(), "x")
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
}

func TestMeAnonymousIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"not authenticated"}`))
	}))
	defer srv.Close()

	gw := NewGateway(srv.URL)
	user, err := gw.Me(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestCreatePostEncoding(t *testing.T) {
	var gotContentType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		if strings.HasPrefix(gotContentType, "multipart/form-data") {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			gotBody = r.FormValue("title")
			_, header, err := r.FormFile("image")
			require.NoError(t, err)
			assert.Equal(t, "cat.jpg", header.Filename)
		} else {
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			gotBody = body["title"]
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"Post created successfully","post":{"id":"1","title":"t"}}`))
	}))
	defer srv.Close()

	gw := NewGateway(srv.URL)

	// Text-only drafts go as JSON.
	post, err := gw.CreatePost(context.Background(), Draft{Title: "json draft", Content: "c"})
	require.NoError(t, err)
	assert.Equal(t, "1", post.ID)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "json draft", gotBody)

	// Drafts with an image go as multipart.
	_, err = gw.CreatePost(context.Background(), Draft{
		Title:     "photo draft",
		ImageName: "cat.jpg",
		Image:     strings.NewReader("fake image bytes"),
		ImageSize: 16,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(gotContentType, "multipart/form-data"))
	assert.Equal(t, "photo draft", gotBody)
}

func TestSetVisibilitySendsFlag(t *testing.T) {
	var got map[string]bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/blog/posts/p1/visibility", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"p1","is_public":false}`))
	}))
	defer srv.Close()

	gw := NewGateway(srv.URL)
	post, err := gw.SetVisibility(context.Background(), "p1", false)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"is_public": false}, got)
	assert.False(t, post.IsPublic)
}

func TestUpdatePostOmitsNilFields(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"p1","title":"new"}`))
	}))
	defer srv.Close()

	gw := NewGateway(srv.URL)
	title := "new"
	post, err := gw.UpdatePost(context.Background(), "p1", Update{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "p1", post.ID, "bare response body must decode into the post")

	assert.Equal(t, "new", raw["title"])
	_, hasContent := raw["content"]
	assert.False(t, hasContent, "nil fields must not appear in the payload")
}

func TestLoginAndLogoutURLs(t *testing.T) {
	gw := NewGateway("http://localhost:3000/")
	assert.Equal(t, "http://localhost:3000/api/auth/google/login", gw.LoginURL())
	assert.Equal(t, "http://localhost:3000/api/auth/logout", gw.LogoutURL())
}
