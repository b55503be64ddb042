package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTMX_RequestDetection(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.Header.Set("Hx-Request", "TRUE")
	if !IsHTMX(r) {
		t.Fatal("expected IsHTMX true")
	}

	r2 := httptest.NewRequest(http.MethodGet, "/x", nil)
	if IsHTMX(r2) {
		t.Fatal("expected default to be false")
	}
}

func TestHTMX_Redirect(t *testing.T) {
	rr := httptest.NewRecorder()
	HTMX(rr).Redirect("/auth/signin")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if got := rr.Header().Get("Hx-Redirect"); got != "/auth/signin" {
		t.Fatalf("Hx-Redirect: %q", got)
	}
}

func TestHTMX_Toast(t *testing.T) {
	rr := httptest.NewRecorder()
	HTMX(rr).Toast("Signed out", " success ")

	var payload map[string]map[string]string
	if err := json.Unmarshal([]byte(rr.Header().Get("Hx-Trigger")), &payload); err != nil {
		t.Fatalf("invalid Hx-Trigger JSON: %v", err)
	}
	if payload["showToast"]["message"] != "Signed out" || payload["showToast"]["type"] != "success" {
		t.Fatalf("unexpected payload: %v", payload)
	}

	rr = httptest.NewRecorder()
	HTMX(rr).Toast("  ", "info")
	if rr.Header().Get("Hx-Trigger") != "" {
		t.Fatal("blank toast must not set a trigger")
	}
}

func TestSetHXTrigger_NilPayload(t *testing.T) {
	rr := httptest.NewRecorder()
	SetHXTrigger(rr, "refresh", nil)
	if got := rr.Header().Get("Hx-Trigger"); got != `{"refresh":true}` {
		t.Fatalf("Hx-Trigger: %q", got)
	}
}
