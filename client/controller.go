package client

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// MaxUploadSize is the largest image the client will attempt to upload
// (10MB), matching the server's limit so oversized files are rejected before
// any bytes cross the wire.
const MaxUploadSize = 10 << 20

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// Controller drives the State through the Gateway. The UI hands it user
// intents; it decides whether a network call happens at all, performs it,
// and folds the result back into the State.
//
// Confirm, Notify, and OpenLogin are the UI's side of the contract: blocking
// confirmation, a transient message, and navigation to the sign-in flow.
type Controller struct {
	State   *State
	Gateway *Gateway

	AdminEmail string

	Confirm   func(prompt string) bool
	Notify    func(message string)
	OpenLogin func()
}

// NewController wires a controller with no-op UI callbacks; the UI replaces
// the ones it cares about.
func NewController(st *State, gw *Gateway, adminEmail string) *Controller {
	return &Controller{
		State:      st,
		Gateway:    gw,
		AdminEmail: adminEmail,
		Confirm:    func(string) bool { return false },
		Notify:     func(string) {},
		OpenLogin:  func() {},
	}
}

// IsAdmin reports whether the current session may manage posts. It is
// derived from the session on every call, never stored, so a session change
// is reflected immediately.
func (ct *Controller) IsAdmin() bool {
	return ct.State.Session != nil &&
		ct.AdminEmail != "" &&
		ct.State.Session.Email == ct.AdminEmail
}

// Mount performs the initial load: session check and public feed in
// parallel, then the user's own posts when a session exists.
func (ct *Controller) Mount(ctx context.Context) error {
	var (
		wg      sync.WaitGroup
		user    *User
		posts   []Post
		userErr error
		feedErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		user, userErr = ct.Gateway.Me(ctx)
	}()
	go func() {
		defer wg.Done()
		posts, feedErr = ct.Gateway.ListPosts(ctx)
	}()
	wg.Wait()

	// Each result is applied independently, so a failed feed fetch never
	// discards a successful session check (or the other way round).
	if feedErr == nil {
		ct.State.ReplaceFeed(posts)
	}
	if userErr == nil {
		ct.applySession(user)
		if ct.State.LoggedIn() {
			own, err := ct.Gateway.ListOwnPosts(ctx)
			if err != nil {
				return errors.Join(feedErr, err)
			}
			ct.State.ReplaceOwnPosts(own)
		}
	}
	return errors.Join(userErr, feedErr)
}

// RefreshSession re-checks the session endpoint. When an anonymous state
// turns out to be signed in (after the OAuth redirect), the private
// collections are fetched too.
func (ct *Controller) RefreshSession(ctx context.Context) error {
	wasLoggedIn := ct.State.LoggedIn()

	user, err := ct.Gateway.Me(ctx)
	if err != nil {
		return err
	}
	ct.applySession(user)

	if !wasLoggedIn && ct.State.LoggedIn() {
		own, err := ct.Gateway.ListOwnPosts(ctx)
		if err != nil {
			return err
		}
		ct.State.ReplaceOwnPosts(own)
	}
	if wasLoggedIn && !ct.State.LoggedIn() {
		ct.State.ReplaceOwnPosts(nil)
	}
	return nil
}

func (ct *Controller) applySession(user *User) {
	if user == nil {
		ct.State.SetSession(nil)
		return
	}
	ct.State.SetSession(&Session{
		Email:          user.Email,
		Name:           user.Name,
		ProfilePicture: user.ProfilePicture,
	})
}

// CreatePost validates the draft and the caller's authority before any
// network traffic. An anonymous caller is sent to sign-in; a signed-in
// non-admin gets a notice.
func (ct *Controller) CreatePost(ctx context.Context, d Draft) error {
	if !ct.State.LoggedIn() {
		ct.OpenLogin()
		return errors.New("not signed in")
	}
	if !ct.IsAdmin() {
		ct.Notify("Only the admin can create posts")
		return errors.New("not authorized")
	}
	if err := validateDraft(d); err != nil {
		ct.Notify(err.Error())
		return err
	}

	post, err := ct.Gateway.CreatePost(ctx, d)
	if err != nil {
		ct.Notify(errMessage(err))
		return err
	}
	ct.State.ApplyCreated(post)
	return nil
}

// UpdatePost applies a partial edit to an owned post.
func (ct *Controller) UpdatePost(ctx context.Context, id string, u Update) error {
	post, err := ct.Gateway.UpdatePost(ctx, id, u)
	if err != nil {
		ct.Notify(errMessage(err))
		return err
	}
	ct.State.ApplyUpdated(post)
	return nil
}

// DeletePost asks for confirmation, then deletes. Declining the confirmation
// performs no network call and leaves the state untouched.
func (ct *Controller) DeletePost(ctx context.Context, id string) error {
	if !ct.Confirm("Delete this post?") {
		return nil
	}
	if err := ct.Gateway.DeletePost(ctx, id); err != nil {
		ct.Notify(errMessage(err))
		return err
	}
	ct.State.ApplyDeleted(id)
	return nil
}

// ToggleVisibility flips a post between public and private. On failure the
// state keeps its previous value, so the UI never shows a visibility the
// server did not accept.
func (ct *Controller) ToggleVisibility(ctx context.Context, id string) error {
	current := ct.State.find(id)
	if current == nil {
		return fmt.Errorf("unknown post %s", id)
	}
	post, err := ct.Gateway.SetVisibility(ctx, id, !current.IsPublic)
	if err != nil {
		ct.Notify(errMessage(err))
		return err
	}
	ct.State.ApplyUpdated(post)
	return nil
}

// SubmitContact validates and sends a contact message.
func (ct *Controller) SubmitContact(ctx context.Context, name, email, message string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || strings.TrimSpace(message) == "" {
		ct.Notify("All fields are required")
		return errors.New("all fields are required")
	}
	if err := ct.Gateway.SubmitContact(ctx, name, email, message); err != nil {
		ct.Notify(errMessage(err))
		return err
	}
	ct.Notify("Message sent")
	return nil
}

func validateDraft(d Draft) error {
	if d.Image != nil {
		ext := strings.ToLower(filepath.Ext(d.ImageName))
		if !imageExtensions[ext] {
			return errors.New("unsupported image type")
		}
		if d.ImageSize > MaxUploadSize {
			return errors.New("image too large (max 10MB)")
		}
		return nil
	}
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Content) == "" {
		return errors.New("title and content are required for blog posts")
	}
	return nil
}

func errMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
