package httpx

import (
	"os"
	"strings"
	"testing"

	"github.com/immochat/immochat-web/config"
)

// RequireTemplateRenderer creates a TemplateRenderer for tests, skipping the test if templates are not available.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
	})
	if err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
		return nil
	}
	return tr
}

// ContainsAll checks if a string contains all the given substrings.
func ContainsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

// CreateUIHandlersForTest creates UIHandlers with a template renderer for testing.
func CreateUIHandlersForTest(t *testing.T) *UIHandlers {
	t.Helper()
	ui := &config.UIConfig{}
	return &UIHandlers{
		T:         RequireTemplateRenderer(t),
		LoginPath: "/auth/signin",
		Toast:     ui.ToastOptions(),
	}
}
