package httpx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/immochat/immochat-web/internal/http/templates/core"
	"github.com/immochat/immochat-web/internal/http/ui/component"
)

const reloadDebounce = 100 * time.Millisecond

// templatePatterns are parsed in order; later definitions override earlier ones.
var templatePatterns = []string{"*.tmpl", "pages/*.tmpl", "partials/*.tmpl"}

// TemplateRenderer renders HTML templates for UI responses.
// The parsed set is read-only and swapped atomically on reload.
type TemplateRenderer struct {
	fsys   fs.FS
	t      atomic.Pointer[template.Template]
	logger *slog.Logger
}

var _ component.TemplateExecutor = (*TemplateRenderer)(nil)

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS        // Filesystem containing templates (required)
	Logger     *slog.Logger // Logger for template errors (optional)
}

// NewTemplateRenderer parses the template set from cfg.TemplateFS.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := &TemplateRenderer{fsys: cfg.TemplateFS, logger: logger}
	if err := r.Reload(); err != nil {
		logger.Error("template parsing failed",
			slog.Any("error", err),
			slog.String("phase", "initialization"),
		)
		return nil, err
	}
	return r, nil
}

// Reload re-parses the set. On failure the previous set stays active.
func (r *TemplateRenderer) Reload() error {
	var files []string
	for _, pattern := range templatePatterns {
		matches, err := fs.Glob(r.fsys, pattern)
		if err != nil {
			return fmt.Errorf("glob %s: %w", pattern, err)
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return errors.New("no templates found")
	}
	t, err := template.New("root").Funcs(core.Funcs()).ParseFS(r.fsys, files...)
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	r.t.Store(t)
	return nil
}

// ExecuteTemplate executes the named template from the current set.
func (r *TemplateRenderer) ExecuteTemplate(w io.Writer, name string, data any) error {
	if err := r.t.Load().ExecuteTemplate(w, name, data); err != nil {
		r.logger.Error("template execution failed",
			slog.String("template", name),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

// Component wraps a named template as a component.
func (r *TemplateRenderer) Component(name string, data any) component.Component {
	return component.Template{Set: r, Name: name, Data: data}
}

// Render buffers the template and writes it with status only on success.
func (r *TemplateRenderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := r.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error("failed to write rendered template",
			slog.String("template", name),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

// Watch reloads the set when files under dir change, until ctx is done.
// Bursts of events are coalesced.
func (r *TemplateRenderer) Watch(ctx context.Context, dir string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create template watcher: %w", err)
	}
	if err := addDirs(w, dir); err != nil {
		_ = w.Close()
		return err
	}

	go func() {
		defer w.Close()
		var timer *time.Timer
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(reloadDebounce, func() {
					if err := r.Reload(); err != nil {
						r.logger.Warn("template reload failed; keeping previous set", slog.Any("error", err))
						return
					}
					r.logger.Debug("templates reloaded", slog.String("trigger", ev.Name))
				})
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				r.logger.Warn("template watcher error", slog.Any("error", err))
			}
		}
	}()
	return nil
}

func addDirs(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
		}
		return nil
	})
}
