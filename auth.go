package photoblog

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	oauthStateCookie  = "oauth_state"
	oauthStateTTL     = 10 * time.Minute
)

func (a *App) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     a.Config.GoogleClientID,
		ClientSecret: a.Config.GoogleClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  a.Config.SiteURL + "/api/auth/google/login/callback",
		Scopes:       []string{"openid", "email", "profile"},
	}
}

func (a *App) oauthConfigured() bool {
	return a.Config.GoogleClientID != "" && a.Config.GoogleClientSecret != ""
}

// handleGoogleLogin starts the authorization-code flow: it issues a CSRF
// state token in a short-lived cookie and redirects to Google.
func (a *App) handleGoogleLogin(c echo.Context) error {
	if !a.oauthConfigured() {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Google OAuth is not configured"})
	}

	state, err := randomState()
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/api/auth",
		MaxAge:   int(oauthStateTTL.Seconds()),
		HttpOnly: true,
		Secure:   a.Config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	return c.Redirect(http.StatusFound, a.oauthConfig().AuthCodeURL(state, oauth2.AccessTypeOnline))
}

// handleGoogleCallback completes the flow: verifies the state token,
// exchanges the code, fetches the Google profile, upserts the user, and
// establishes the session. The browser lands back on the site with a
// one-time login=success signal.
func (a *App) handleGoogleCallback(c echo.Context) error {
	if !a.oauthConfigured() {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Google OAuth is not configured"})
	}

	stateCookie, err := c.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || c.QueryParam("state") != stateCookie.Value {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid OAuth state"})
	}
	c.SetCookie(&http.Cookie{Name: oauthStateCookie, Path: "/api/auth", MaxAge: -1})

	code := c.QueryParam("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing authorization code"})
	}

	ctx := c.Request().Context()
	cfg := a.oauthConfig()
	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		c.Logger().Errorf("oauth exchange: %v", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "error completing Google sign-in"})
	}

	resp, err := cfg.Client(ctx, token).Get(googleUserInfoURL)
	if err != nil {
		c.Logger().Errorf("oauth userinfo: %v", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "error completing Google sign-in"})
	}
	defer resp.Body.Close()

	var info struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "error completing Google sign-in"})
	}
	if !info.VerifiedEmail || info.Email == "" {
		return c.String(http.StatusBadRequest, "User email not available or not verified by Google.")
	}

	user, err := a.Store.UpsertUser(User{
		ID:             uuid.NewString(),
		GoogleID:       info.ID,
		Email:          info.Email,
		Name:           info.Name,
		ProfilePicture: info.Picture,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if err := setUserSession(c, user.ID); err != nil {
		return err
	}

	return c.Redirect(http.StatusFound, a.Config.SiteURL+"/?login=success")
}

// handleLogout tears down the session and sends the browser home.
func (a *App) handleLogout(c echo.Context) error {
	if err := clearUserSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, a.Config.SiteURL+"/")
}

// handleMe reports the session identity, or 401 when there is none.
func (a *App) handleMe(c echo.Context) error {
	user := a.currentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	return c.JSON(http.StatusOK, User{
		ID:             user.ID,
		Email:          user.Email,
		Name:           user.DisplayName(),
		ProfilePicture: user.ProfilePicture,
	})
}

func randomState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
