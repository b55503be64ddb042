package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/immochat/immochat-web/internal/mocks"
	"github.com/immochat/immochat-web/internal/ports"
)

func TestHealthHandlerGET(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	healthHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealthHandlerHEAD(t *testing.T) {
	req := httptest.NewRequest(http.MethodHead, "/healthz", nil)
	rec := httptest.NewRecorder()

	healthHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func readinessCheck(ctrl *gomock.Controller, name string, err error) ports.HealthCheck {
	c := mocks.NewMockHealthCheck(ctrl)
	c.EXPECT().Name().Return(name).AnyTimes()
	c.EXPECT().Check(gomock.Any()).Return("", err)
	return c
}

func TestReadinessHandler(t *testing.T) {
	t.Run("all ready", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := &ReadinessHandler{Checks: []ports.HealthCheck{
			readinessCheck(ctrl, "session_store", nil),
			readinessCheck(ctrl, "database", fmt.Errorf("%w: SESSION_STORE=memory", ports.ErrCheckSkipped)),
		}}

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("failure lists check names", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := &ReadinessHandler{Checks: []ports.HealthCheck{
			readinessCheck(ctrl, "session_store", errors.New("dial tcp: refused")),
			readinessCheck(ctrl, "database", errors.New("timeout")),
			readinessCheck(ctrl, "config", nil),
		}}

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"status":"unavailable","failed":["database","session_store"]}`, rec.Body.String())
	})

	t.Run("checks receive a deadline", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		c := mocks.NewMockHealthCheck(ctrl)
		c.EXPECT().Name().Return("slow").AnyTimes()
		c.EXPECT().Check(gomock.Any()).DoAndReturn(func(ctx context.Context) (string, error) {
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			return "", nil
		})

		rec := httptest.NewRecorder()
		(&ReadinessHandler{Checks: []ports.HealthCheck{c}}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
