// Package component implements server-rendered UI building blocks that compose as
// decorators: error boundaries, the session gate and the client-only guard.
//
// Components write HTML to an io.Writer. They are request-scoped; the stateful ones
// guard their state so a shared instance stays consistent under concurrent renders.
package component

import (
	"context"
	"html/template"
	"io"
)

// Component renders a fragment of HTML.
type Component interface {
	Render(ctx context.Context, w io.Writer) error
}

// Func adapts an ordinary function to Component.
type Func func(ctx context.Context, w io.Writer) error

func (f Func) Render(ctx context.Context, w io.Writer) error { return f(ctx, w) }

// Nothing renders no output.
var Nothing Component = Func(func(context.Context, io.Writer) error { return nil })

// HTML renders trusted, pre-escaped markup verbatim.
type HTML template.HTML

func (h HTML) Render(_ context.Context, w io.Writer) error {
	_, err := io.WriteString(w, string(h))
	return err
}

// TemplateExecutor is satisfied by *template.Template and the app renderer.
type TemplateExecutor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

// Template renders one named template with Data.
type Template struct {
	Set  TemplateExecutor
	Name string
	Data any
}

func (t Template) Render(_ context.Context, w io.Writer) error {
	return t.Set.ExecuteTemplate(w, t.Name, t.Data)
}

// Group renders children in order and stops at the first error.
type Group []Component

func (g Group) Render(ctx context.Context, w io.Writer) error {
	for _, c := range g {
		if c == nil {
			continue
		}
		if err := c.Render(ctx, w); err != nil {
			return err
		}
	}
	return nil
}

func orNothing(c Component) Component {
	if c == nil {
		return Nothing
	}
	return c
}
