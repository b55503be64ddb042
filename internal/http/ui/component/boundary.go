package component

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"
)

// ErrorInfo describes where and how a render failed.
type ErrorInfo struct {
	// Component is the boundary name, used as a metrics tag.
	Component string
	Panicked  bool
	Stack     []byte
}

// Capture is the failure held by a Boundary until Reset.
type Capture struct {
	Err  error
	Info ErrorInfo
}

// PanicError wraps a value recovered from a panicking child.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// Unwrap exposes the panic value when it was an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// FallbackFunc builds the view shown in place of a failed child.
// reset is the same as calling Boundary.Reset.
type FallbackFunc func(c Capture, reset func()) Component

// Boundary contains failures of its Child.
//
// States: ok (no capture) and captured. In ok, Child renders into a buffer that is
// copied to the output only on success. A returned error or panic moves the boundary
// to captured: OnError runs once for the capture and Fallback renders instead. While
// captured, Child is not rendered again until Reset. A failing Fallback is returned
// to the caller, so the next enclosing Boundary handles it.
type Boundary struct {
	Name     string
	Child    Component
	Fallback FallbackFunc
	OnError  func(err error, info ErrorInfo)
	Logger   *slog.Logger
	// RetryURL feeds the "Try again" action of the default ErrorPanel.
	RetryURL string

	mu       sync.Mutex
	captured *Capture
}

// NewBoundary wraps child with the default inline error panel.
// An empty retryURL leaves the panel with the page refresh action only.
func NewBoundary(name string, child Component, retryURL string) *Boundary {
	return &Boundary{Name: name, Child: child, RetryURL: retryURL}
}

func (b *Boundary) Render(ctx context.Context, w io.Writer) error {
	b.mu.Lock()
	capture := b.captured
	b.mu.Unlock()

	if capture == nil {
		var buf bytes.Buffer
		err, info := b.renderChild(ctx, &buf)
		if err == nil {
			_, werr := w.Write(buf.Bytes())
			return werr
		}

		c := &Capture{Err: err, Info: info}
		b.mu.Lock()
		first := b.captured == nil
		if first {
			b.captured = c
		}
		capture = b.captured
		b.mu.Unlock()
		if first {
			b.report(ctx, *c)
		}
	}

	return b.fallback(*capture).Render(ctx, w)
}

// Reset clears the capture; the next Render attempts Child again.
func (b *Boundary) Reset() {
	b.mu.Lock()
	b.captured = nil
	b.mu.Unlock()
}

// Captured returns the held failure, if any.
func (b *Boundary) Captured() (Capture, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.captured == nil {
		return Capture{}, false
	}
	return *b.captured, true
}

func (b *Boundary) renderChild(ctx context.Context, w io.Writer) (err error, info ErrorInfo) {
	info.Component = b.Name
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
			info.Panicked = true
			info.Stack = debug.Stack()
		}
	}()
	err = orNothing(b.Child).Render(ctx, w)
	return err, info
}

// report calls OnError; its panics are logged and never reach the render.
func (b *Boundary) report(ctx context.Context, c Capture) {
	if b.OnError == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			b.logger().ErrorContext(ctx, "error boundary reporter panicked",
				"component", b.Name,
				"panic", fmt.Sprint(r),
				"error", c.Err,
			)
		}
	}()
	b.OnError(c.Err, c.Info)
}

func (b *Boundary) fallback(c Capture) Component {
	if b.Fallback != nil {
		return orNothing(b.Fallback(c, b.Reset))
	}
	return ErrorPanel{Message: UserMessage(c.Err), RetryURL: b.RetryURL}
}

func (b *Boundary) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

// UserMessage is the fallback text for err; internal details are never shown.
func UserMessage(err error) string {
	var pe *PanicError
	if errors.As(err, &pe) {
		return "This section failed to load."
	}
	return "This section could not be displayed."
}
