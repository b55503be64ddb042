// Package viewmodel holds the typed data handed to page templates.
package viewmodel

import (
	"html/template"
	"strconv"
	"time"

	"github.com/immochat/immochat-web/config"
	domainauth "github.com/immochat/immochat-web/internal/domain/auth"
)

// User represents the authenticated user context exposed to templates.
type User struct {
	Email string
	Name  string
	Role  string
}

// UserFromSnapshot returns nil for a nil snapshot.
func UserFromSnapshot(s *domainauth.Snapshot) *User {
	if s == nil {
		return nil
	}
	return &User{Email: s.User.Email, Name: s.User.Name, Role: string(s.User.Role)}
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u != nil && u.Role == string(domainauth.RoleAdmin) }

// Layout captures shared chrome metadata (titles, navigation state, auth flags).
type Layout struct {
	Title       string
	PageTitle   string
	CurrentPage string
	CSRFToken   string
	User        *User
	// Body is the pre-rendered page component tree.
	Body template.HTML
	// Toaster is the pre-rendered client-only toast region.
	Toaster template.HTML
}

// IsAuthenticated reports whether the layout has a user.
func (l Layout) IsAuthenticated() bool { return l.User != nil }

// Toaster is the data for the toast region partial.
type Toaster struct {
	Options config.ToastOptions
}

// Attrs renders the options as data attributes read by app.js.
func (t Toaster) Attrs() template.HTMLAttr {
	o := t.Options
	// #nosec G203 - values come from a closed set of validated options
	return template.HTMLAttr(
		`data-position="` + template.HTMLEscapeString(o.Position) + `"` +
			` data-theme="` + template.HTMLEscapeString(o.Theme) + `"` +
			` data-rich-colors="` + strconv.FormatBool(o.RichColors) + `"` +
			` data-expand="` + strconv.FormatBool(o.Expand) + `"` +
			` data-visible="` + strconv.Itoa(o.Visible) + `"` +
			` data-close-button="` + strconv.FormatBool(o.CloseButton) + `"`)
}

// Dashboard is the data for the gated dashboard content.
type Dashboard struct {
	User      *User
	ExpiresAt time.Time
}

// AuthPage is the data for the sign-in, signed-out and not-found pages.
type AuthPage struct {
	Title       string
	Heading     string
	Message     string
	RedirectURI string
	LoginURL    string
	Code        int
}
