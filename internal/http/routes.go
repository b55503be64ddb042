package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"

	immochat "github.com/immochat/immochat-web"
	"github.com/immochat/immochat-web/config"
	"github.com/immochat/immochat-web/internal/http/apispec"
	"github.com/immochat/immochat-web/internal/observability/statsd"
	"github.com/immochat/immochat-web/internal/ports"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	// Auth enables the /auth/login, /auth/callback, /auth/logout and /auth/status routes.
	Auth        AuthServiceInterface
	Sessions    ports.SessionReader
	Diagnostics ports.DiagnosticsRunner
	Readiness   []ports.HealthCheck
	// APISpec is served at /api/openapi.yaml when set.
	APISpec *apispec.Document
	// Templates overrides the renderer chosen by TemplateFS(IsDev).
	Templates *TemplateRenderer

	HTTP                  config.HTTPConfig
	LoginPath             string
	Toast                 config.ToastOptions
	SessionEchoProjection string

	Metrics statsd.Sink
	IsDev   bool         // Development mode flag for disk-served assets.
	Logger  *slog.Logger // Logger for template and HTTP errors (optional)
}

func (s RouterServices) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// NewRouter creates and configures the HTTP router and its middleware chain.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Sessions == nil {
		return nil, errors.New("router: session reader is required")
	}
	logger := services.logger()

	tr := services.Templates
	if tr == nil {
		templateFS, err := TemplateFS(services.IsDev)
		if err != nil {
			return nil, err
		}
		if tr, err = NewTemplateRenderer(TemplateRendererConfig{TemplateFS: templateFS, Logger: logger}); err != nil {
			return nil, err
		}
	}

	echo, err := NewSessionEchoHandlers(SessionEchoOptions{
		Sessions:   services.Sessions,
		Projection: services.SessionEchoProjection,
		Observers:  SessionEchoObservers{Logger: logger, Metrics: services.Metrics},
	})
	if err != nil {
		return nil, err
	}

	ui := &UIHandlers{
		T:         tr,
		LoginPath: services.LoginPath,
		Toast:     services.Toast,
		Metrics:   services.Metrics,
		Logger:    logger,
	}
	browser := browserChain(services)

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("GET /readyz", &ReadinessHandler{Checks: services.Readiness, Logger: logger})
	mux.Handle("GET /static/", staticHandler(services.IsDev))

	registerAPIRoutes(mux, services, echo)
	if services.Auth != nil {
		registerAuthRoutes(mux, &AuthHandlers{
			Svc:           services.Auth,
			CookieDomain:  services.HTTP.CookieDomain,
			SecureCookies: services.HTTP.SecureCookies(),
			Logger:        logger,
		}, browser)
	}
	registerUIRoutes(mux, ui, browser)

	handler := &notFoundHandler{mux: mux, notFound: browser(http.HandlerFunc(ui.NotFound)), logger: logger}
	return Chain(handler,
		RequestID(),
		Logging(logger),
		Recover(logger),
		BrowserDetection(),
	), nil
}

// browserChain is applied to every HTML route: CSRF token handling, then session lookup.
func browserChain(services RouterServices) func(http.Handler) http.Handler {
	csrf := CSRFProtection(CSRFConfig{
		CookieDomain:  services.HTTP.CookieDomain,
		SecureCookies: services.HTTP.SecureCookies(),
	})
	load := LoadSession(services.Sessions)
	return func(h http.Handler) http.Handler {
		return csrf(load(h))
	}
}

// TemplateFS returns the template tree: the working copy on disk in dev mode so edits
// are picked up, the embedded copy otherwise.
func TemplateFS(isDev bool) (fs.FS, error) {
	if isDev {
		return os.DirFS(TemplatePathFromRoot), nil
	}
	sub, err := fs.Sub(immochat.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		return nil, fmt.Errorf("templates sub-filesystem: %w", err)
	}
	return sub, nil
}

// staticHandler serves /static/* assets.
// In dev mode (isDev=true), serves from disk without caching.
// In production mode (isDev=false), serves from embedded FS.
func staticHandler(isDev bool) http.Handler {
	if isDev {
		return withCacheControl("no-cache, no-store, must-revalidate",
			http.StripPrefix("/static/", http.FileServer(http.Dir(StaticPathFromRoot))))
	}
	sub, err := fs.Sub(immochat.StaticFS, StaticPathFromRoot)
	if err != nil {
		// embed paths are fixed at build time; fall back to disk rather than fail startup
		return withCacheControl("no-cache",
			http.StripPrefix("/static/", http.FileServer(http.Dir(StaticPathFromRoot))))
	}
	return withCacheControl("public, max-age=3600",
		http.StripPrefix("/static/", http.FileServer(http.FS(sub))))
}

func withCacheControl(value string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", value)
		handler.ServeHTTP(w, r)
	})
}

func registerAPIRoutes(mux *http.ServeMux, services RouterServices, echo *SessionEchoHandlers) {
	if services.Diagnostics != nil {
		diag := &DiagnosticsHandlers{Runner: services.Diagnostics, Logger: services.logger()}
		mux.HandleFunc("GET /api/auth/diagnostics", diag.Diagnostics)
	}
	mux.HandleFunc("GET /api/auth/session-test", echo.SessionTest)
	if services.APISpec != nil {
		mux.Handle("GET /api/openapi.yaml", services.APISpec)
	}
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, browser func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.Handle("POST /auth/logout", browser(http.HandlerFunc(h.Logout)))
	mux.HandleFunc("GET /auth/status", h.Status)
}

func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, browser func(http.Handler) http.Handler) {
	page := func(fn http.HandlerFunc) http.Handler { return browser(fn) }

	mux.Handle("GET /{$}", page(h.Index))
	mux.Handle("GET "+RouteDashboard, page(h.Dashboard))
	mux.Handle("GET "+RouteDashboardContent, page(h.DashboardContent))
	mux.Handle("GET "+RouteToasterFragment, page(h.ToasterFragment))
	mux.Handle("GET "+h.signInRoute(), page(h.SignIn))
	mux.Handle("GET "+RouteSignedOut, page(h.SignedOut))
}

// signInRoute is the path part of the configured login path.
func (h *UIHandlers) signInRoute() string {
	p := h.loginPath()
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return p
}

// notFoundHandler wraps a ServeMux and provides custom 404 handling.
type notFoundHandler struct {
	mux      *http.ServeMux
	notFound http.Handler
	logger   *slog.Logger
}

// ServeHTTP implements http.Handler and provides custom 404 handling.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cw := newCaptureWriter(w)
	h.mux.ServeHTTP(cw, r)

	if cw.status == http.StatusNotFound && !strings.HasPrefix(r.URL.Path, "/static/") {
		h.notFound.ServeHTTP(w, r)
		return
	}
	cw.flushTo(w, h.logger)
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	rw     http.ResponseWriter
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter(w http.ResponseWriter) *captureWriter {
	return &captureWriter{rw: w, header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter, logger *slog.Logger) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		logger.Error("failed to write captured response", "error", err)
	}
}
