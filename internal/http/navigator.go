package httpx

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/immochat/immochat-web/internal/http/ui/component"
)

// HTTPNavigator redirects the response it wraps. htmx requests get Hx-Redirect so the
// browser navigates the whole page; other requests get 303 See Other.
// It writes at most once; later calls are no-ops.
type HTTPNavigator struct {
	w       http.ResponseWriter
	r       *http.Request
	written atomic.Bool
}

var _ component.Navigator = (*HTTPNavigator)(nil)

// NewHTTPNavigator binds a navigator to one request.
func NewHTTPNavigator(w http.ResponseWriter, r *http.Request) *HTTPNavigator {
	return &HTTPNavigator{w: w, r: r}
}

func (n *HTTPNavigator) Navigate(_ context.Context, path string) error {
	if !n.written.CompareAndSwap(false, true) {
		return nil
	}
	if IsHTMX(n.r) {
		HTMX(n.w).Redirect(path)
		return nil
	}
	http.Redirect(n.w, n.r, path, http.StatusSeeOther)
	return nil
}

// Navigated reports whether a redirect was written; the handler must not write a body then.
func (n *HTTPNavigator) Navigated() bool { return n.written.Load() }
