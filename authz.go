package photoblog

// Authorizer decides which authenticated identities may create and manage
// posts. Checks are evaluated fresh on every request; results must not be
// cached since the underlying session can change out-of-band.
type Authorizer interface {
	CanManagePosts(email string) bool
}

// EmailAllowlist authorizes exactly one operator identity by exact email
// match. This is the production policy: a single-owner personal site.
type EmailAllowlist struct {
	admin string
}

// NewEmailAllowlist creates an allowlist holding the single admin email.
func NewEmailAllowlist(email string) *EmailAllowlist {
	return &EmailAllowlist{admin: email}
}

// CanManagePosts reports whether the email is the configured admin.
func (a *EmailAllowlist) CanManagePosts(email string) bool {
	return email != "" && email == a.admin
}
