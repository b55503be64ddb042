package httpx

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/immochat/immochat-web/config"
	domainauth "github.com/immochat/immochat-web/internal/domain/auth"
	"github.com/immochat/immochat-web/internal/http/ui/component"
	"github.com/immochat/immochat-web/internal/http/ui/viewmodel"
	"github.com/immochat/immochat-web/internal/observability/metrics"
	"github.com/immochat/immochat-web/internal/observability/statsd"
)

const appTitle = "Immochat"

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T *TemplateRenderer
	// LoginPath is where the dashboard gate sends signed-out visitors.
	LoginPath string
	Toast     config.ToastOptions
	Metrics   statsd.Sink
	Logger    *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *UIHandlers) loginPath() string {
	if h.LoginPath == "" {
		return component.DefaultLoginPath
	}
	return h.LoginPath
}

// Index sends the root path to the dashboard.
func (h *UIHandlers) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, RouteDashboard, http.StatusFound)
}

// Dashboard renders the page shell. The gated content loads from RouteDashboardContent
// once the browser has the shell, so the shell always shows the loading placeholder.
func (h *UIHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	body := h.boundary("dashboard", &component.Gate{
		Status: domainauth.StatusLoading,
		Placeholder: h.T.Component(tmplDeferred, deferredData{
			URL:   RouteDashboardContent,
			Label: "Loading dashboard…",
		}),
	}, "")

	var user *viewmodel.User
	if sess, ok := GetUserSessionFromContext(r.Context()); ok {
		snap := sess.Snapshot()
		user = viewmodel.UserFromSnapshot(&snap)
	}

	h.renderPage(w, r, pageParams{
		Title:       "Dashboard - " + appTitle,
		CurrentPage: PageDashboard,
		User:        user,
		Body:        body,
	})
}

// DashboardContent resolves the session and renders the gated dashboard fragment.
// Signed-out callers are sent to the login path with the page they were on.
func (h *UIHandlers) DashboardContent(w http.ResponseWriter, r *http.Request) {
	nav := NewHTTPNavigator(w, r)
	loginPath := withRedirect(h.loginPath(), redirectPathForRequest(r))

	provider := &component.SessionProvider{
		Resolve: SessionFromContext,
		Child: func(status domainauth.SessionStatus, snap *domainauth.Snapshot) component.Component {
			data := viewmodel.Dashboard{User: viewmodel.UserFromSnapshot(snap)}
			if snap != nil {
				data.ExpiresAt = snap.ExpiresAt
			}
			return &component.Gate{
				Status:      status,
				Placeholder: h.T.Component(tmplSpinner, "Loading dashboard…"),
				LoginPath:   loginPath,
				Navigator:   nav,
				Child:       h.T.Component(tmplDashboardContent, data),
			}
		},
	}

	var buf bytes.Buffer
	if err := h.boundary("dashboard-content", provider, RouteDashboardContent).Render(r.Context(), &buf); err != nil {
		h.renderFailure(w, r, err)
		return
	}
	h.logger().DebugContext(r.Context(), "dashboard content resolved",
		slog.String("session_status", string(provider.Status())),
		slog.Bool("redirected", nav.Navigated()),
	)
	if nav.Navigated() {
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes(), h.logger())
}

// ToasterFragment serves the toast region. htmx requests come from a mounted page,
// so they receive the region itself; other requests get the deferred loader.
func (h *UIHandlers) ToasterFragment(w http.ResponseWriter, r *http.Request) {
	c := h.toaster()
	if IsHTMX(r) {
		c.MarkMounted()
	}
	var buf bytes.Buffer
	if err := h.boundary("toaster", c, "").Render(r.Context(), &buf); err != nil {
		h.renderFailure(w, r, err)
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes(), h.logger())
}

// SignIn renders the sign-in page. Signed-in visitors go straight to their destination.
func (h *UIHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	redirect := safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	if _, ok := GetUserSessionFromContext(r.Context()); ok {
		dest := redirect
		if dest == "/" {
			dest = RouteDashboard
		}
		http.Redirect(w, r, dest, http.StatusFound)
		return
	}
	h.renderAuthPage(w, r, http.StatusOK, tmplSignIn, viewmodel.AuthPage{
		Title:       "Sign in - " + appTitle,
		Heading:     "Sign in to Immochat",
		Message:     "Use your company account to open the valuation dashboard.",
		RedirectURI: redirect,
		LoginURL:    withRedirect(RouteLogin, redirect),
	})
}

// SignedOut renders the page shown after logout.
func (h *UIHandlers) SignedOut(w http.ResponseWriter, r *http.Request) {
	redirect := safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	h.renderAuthPage(w, r, http.StatusOK, tmplSignedOut, viewmodel.AuthPage{
		Title:       "Signed out - " + appTitle,
		Heading:     "You have been signed out",
		Message:     "Your session has ended. Sign in again to continue.",
		RedirectURI: redirect,
		LoginURL:    withRedirect(RouteLogin, redirect),
	})
}

// NotFound handles 404 errors with auth-aware behavior.
// For browser requests, it renders an HTML error page.
// For API requests, it returns a JSON error response.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("not found"),
		})
		return
	}
	data := viewmodel.AuthPage{
		Title:   "Page not found - " + appTitle,
		Message: "The page you're looking for doesn't exist.",
		Code:    http.StatusNotFound,
	}
	if _, ok := GetUserSessionFromContext(r.Context()); !ok {
		data.LoginURL = withRedirect(RouteLogin, safeRedirectPath(r.URL.RequestURI()))
	}
	h.renderAuthPage(w, r, http.StatusNotFound, tmplNotFound, data)
}

// deferredData is the data of the "deferred" partial.
type deferredData struct {
	URL   string
	Label string
}

type pageParams struct {
	Title       string
	PageTitle   string
	CurrentPage string
	User        *viewmodel.User
	Body        component.Component
}

// renderPage renders the body and toaster components and places them in the layout.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, p pageParams) {
	ctx := r.Context()
	body, err := renderToHTML(ctx, p.Body)
	if err != nil {
		h.renderFailure(w, r, err)
		return
	}
	toaster, err := renderToHTML(ctx, h.boundary("toaster", h.toaster(), ""))
	if err != nil {
		h.renderFailure(w, r, err)
		return
	}
	layout := viewmodel.Layout{
		Title:       p.Title,
		PageTitle:   p.PageTitle,
		CurrentPage: p.CurrentPage,
		CSRFToken:   GetCSRFToken(r),
		User:        p.User,
		Body:        body,
		Toaster:     toaster,
	}
	if err := h.T.Render(w, http.StatusOK, tmplLayout, layout); err != nil {
		h.renderFailure(w, r, err)
	}
}

func (h *UIHandlers) renderAuthPage(w http.ResponseWriter, r *http.Request, status int, content string, data viewmodel.AuthPage) {
	body, err := renderToHTML(r.Context(), h.T.Component(content, data))
	if err != nil {
		h.renderFailure(w, r, err)
		return
	}
	layout := viewmodel.Layout{Title: data.Title, CSRFToken: GetCSRFToken(r), Body: body}
	if err := h.T.Render(w, status, tmplAuthLayout, layout); err != nil {
		h.renderFailure(w, r, err)
	}
}

// toaster builds the client-only toast region. Its content has its own boundary so a
// broken region never takes the placeholder path down with it.
func (h *UIHandlers) toaster() *component.ClientOnly {
	region := h.boundary("toaster-region", h.T.Component(tmplToaster, viewmodel.Toaster{Options: h.Toast}), "")
	region.Fallback = func(component.Capture, func()) component.Component { return component.Nothing }
	return &component.ClientOnly{
		FragmentURL: RouteToasterFragment,
		Child:       region,
	}
}

// boundary wraps child with the inline error panel, retrying from retryURL when set.
// The panel does not go through the template set, so it renders even when templates fail.
func (h *UIHandlers) boundary(name string, child component.Component, retryURL string) *component.Boundary {
	b := component.NewBoundary(name, child, retryURL)
	b.OnError = h.reportRenderFailure
	b.Logger = h.logger()
	return b
}

// reportRenderFailure is the boundary reporter: it logs the failure and counts it.
func (h *UIHandlers) reportRenderFailure(err error, info component.ErrorInfo) {
	attrs := []any{
		slog.String("component", info.Component),
		slog.Bool("panic", info.Panicked),
		slog.Any("error", err),
	}
	if info.Panicked {
		attrs = append(attrs, slog.String("stack", string(info.Stack)))
	}
	h.logger().Error("component render failed", attrs...)
	metrics.EmitRenderFailure(h.Metrics, metrics.RenderFailureMetric{
		Component: info.Component,
		Err:       err,
		Panicked:  info.Panicked,
	})
}

// renderFailure answers a render error no boundary could contain.
func (h *UIHandlers) renderFailure(w http.ResponseWriter, r *http.Request, err error) {
	h.logger().ErrorContext(r.Context(), "page render failed",
		slog.String("path", r.URL.Path),
		slog.String("request_id", RequestIDFromContext(r.Context())),
		slog.Any("error", err),
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func renderToHTML(ctx context.Context, c component.Component) (template.HTML, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	// #nosec G203 - output of html/template executions
	return template.HTML(buf.String()), nil
}

func writeHTML(w http.ResponseWriter, status int, body []byte, logger *slog.Logger) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logger.Error("failed to write html response", "error", err)
	}
}
