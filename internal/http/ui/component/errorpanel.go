package component

import (
	"context"
	"html/template"
	"io"
)

var errorPanelTmpl = template.Must(template.New("error-panel").Parse(
	`<div class="error-panel" role="alert">` +
		`<p class="error-panel__title">Something went wrong</p>` +
		`<p class="error-panel__message">{{.Message}}</p>` +
		`<div class="error-panel__actions">` +
		`{{if .RetryURL}}<button type="button" class="btn btn-secondary" hx-get="{{.RetryURL}}" hx-target="closest .error-panel" hx-swap="outerHTML">Try again</button>{{end}}` +
		`<button type="button" class="btn btn-link" onclick="window.location.reload()">Refresh page</button>` +
		`</div></div>`))

// ErrorPanel is the default inline fallback: a short message with manual
// "Try again" and "Refresh page" actions.
type ErrorPanel struct {
	Message string
	// RetryURL re-fetches the failed fragment via htmx; the button is omitted when empty.
	RetryURL string
}

func (p ErrorPanel) Render(_ context.Context, w io.Writer) error {
	return errorPanelTmpl.Execute(w, p)
}
