package component

import (
	"context"
	"html/template"
	"io"
	"sync/atomic"
)

var loaderTmpl = template.Must(template.New("client-only").Parse(
	`<div class="client-only" hx-get="{{.}}" hx-trigger="load" hx-swap="outerHTML">`))

// ClientOnly defers Child until the host is known to be a live client.
//
// The first render emits Placeholder, wrapped in an htmx loader for FragmentURL when
// one is set, and then flips the instance to mounted. Every later render emits Child.
// The flag flips once and never reverses.
type ClientOnly struct {
	Child       Component
	Placeholder Component
	FragmentURL string

	mounted atomic.Bool
}

func (c *ClientOnly) Render(ctx context.Context, w io.Writer) error {
	if c.mounted.Load() {
		return orNothing(c.Child).Render(ctx, w)
	}
	if err := c.renderPlaceholder(ctx, w); err != nil {
		return err
	}
	c.mounted.CompareAndSwap(false, true)
	return nil
}

// MarkMounted performs the one-shot transition; it reports whether this call did it.
func (c *ClientOnly) MarkMounted() bool {
	return c.mounted.CompareAndSwap(false, true)
}

// Mounted reports whether Child will be rendered.
func (c *ClientOnly) Mounted() bool { return c.mounted.Load() }

func (c *ClientOnly) renderPlaceholder(ctx context.Context, w io.Writer) error {
	if c.FragmentURL == "" {
		return orNothing(c.Placeholder).Render(ctx, w)
	}
	if err := loaderTmpl.Execute(w, c.FragmentURL); err != nil {
		return err
	}
	if err := orNothing(c.Placeholder).Render(ctx, w); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</div>")
	return err
}
