package httpx

// CurrentPage identifiers used by templates and navigation.
const (
	PageDashboard = "dashboard"
	PageSignIn    = "signin"
	PageSignedOut = "signed-out"
	PageNotFound  = "not-found"
)

// Cookie names.
const (
	SessionCookieName       = "session_id"
	oauthStateCookie        = "oauth_state"
	oauthNonceCookie        = "oauth_nonce"
	postLoginRedirectCookie = "post_login_redirect"
)

// Routes referenced across handlers.
const (
	RouteDashboard        = "/dashboard"
	RouteDashboardContent = "/dashboard/content"
	RouteToasterFragment  = "/fragments/toaster"
	RouteLogin            = "/auth/login"
	RouteSignedOut        = "/auth/signed-out"
)

// Template directory paths.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
	StaticPathFromRoot   = "frontend/static"
)

// Template names executed directly by handlers.
const (
	tmplLayout           = "layout"
	tmplAuthLayout       = "auth-layout"
	tmplDashboardContent = "dashboard-content"
	tmplSignIn           = "signin-content"
	tmplSignedOut        = "signed-out-content"
	tmplNotFound         = "not-found-content"
	tmplSpinner          = "spinner"
	tmplDeferred         = "deferred"
	tmplToaster          = "toaster"
)
