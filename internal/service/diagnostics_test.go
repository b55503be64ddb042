package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/immochat/immochat-web/internal/domain/diagnostics"
	"github.com/immochat/immochat-web/internal/mocks"
	"github.com/immochat/immochat-web/internal/ports"
)

func newCheck(ctrl *gomock.Controller, name, hint string, err error) *mocks.MockHealthCheck {
	c := mocks.NewMockHealthCheck(ctrl)
	c.EXPECT().Name().Return(name).AnyTimes()
	c.EXPECT().Check(gomock.Any()).Return(hint, err)
	return c
}

func TestDiagnosticsService_AllPass(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewDiagnosticsService(DiagnosticsServiceOptions{
		Checks: []ports.HealthCheck{
			newCheck(ctrl, "config", "", nil),
			newCheck(ctrl, "session_store", "", nil),
		},
		Config: DiagnosticsConfig{AuthMode: "mock"},
	})

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, diagnostics.StatusPass, report.Status)
	assert.Equal(t, "mock", report.AuthMode)
	require.Len(t, report.Checks, 2)
	assert.Equal(t, "config", report.Checks[0].Name)
	assert.Equal(t, "ok", report.Checks[0].Message)
	assert.Equal(t, "session_store", report.Checks[1].Name)
}

func TestDiagnosticsService_FailingCheckIsReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewDiagnosticsService(DiagnosticsServiceOptions{
		Checks: []ports.HealthCheck{
			newCheck(ctrl, "config", "", nil),
			newCheck(ctrl, "database", "check DB_USER and DB_PASSWORD", errors.New("db unreachable")),
			newCheck(ctrl, "identity_provider", "", fmt.Errorf("%w: AUTH_MODE=mock", ports.ErrCheckSkipped)),
		},
	})

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, diagnostics.StatusFail, report.Status)

	db := report.Checks[1]
	assert.Equal(t, diagnostics.StatusFail, db.Status)
	assert.Equal(t, "db unreachable", db.Message)
	assert.Equal(t, "check DB_USER and DB_PASSWORD", db.Hint)

	idp := report.Checks[2]
	assert.Equal(t, diagnostics.StatusSkip, idp.Status)
	assert.Equal(t, "skipped: AUTH_MODE=mock", idp.Message)
	assert.Empty(t, idp.Hint)
}

func TestDiagnosticsService_RequiredCheckFailsRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	other := mocks.NewMockHealthCheck(ctrl)
	other.EXPECT().Name().Return("identity_provider").AnyTimes()
	other.EXPECT().Check(gomock.Any()).Return("", nil).MaxTimes(1)

	svc := NewDiagnosticsService(DiagnosticsServiceOptions{
		Checks: []ports.HealthCheck{
			newCheck(ctrl, "session_store", "", errors.New("db unreachable")),
			other,
		},
		Config: DiagnosticsConfig{Required: []string{"session_store"}},
	})

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	var checkErr *CheckError
	require.ErrorAs(t, err, &checkErr)
	assert.Equal(t, "session_store", checkErr.Name)
	assert.Equal(t, "session_store: db unreachable", err.Error())
}

func TestDiagnosticsService_CheckTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	slow := mocks.NewMockHealthCheck(ctrl)
	slow.EXPECT().Name().Return("identity_provider").AnyTimes()
	slow.EXPECT().Check(gomock.Any()).DoAndReturn(func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})

	svc := NewDiagnosticsService(DiagnosticsServiceOptions{
		Checks: []ports.HealthCheck{slow},
		Config: DiagnosticsConfig{CheckTimeout: 20 * time.Millisecond},
	})

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Checks, 1)
	assert.Equal(t, diagnostics.StatusFail, report.Checks[0].Status)
	assert.Contains(t, report.Checks[0].Message, "timed out after 20ms")
}

func TestDiagnosticsService_ContextCanceled(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewDiagnosticsService(DiagnosticsServiceOptions{
		Checks: []ports.HealthCheck{mocks.NewMockHealthCheck(ctrl)},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDiagnosticsService_PanickingCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	bad := mocks.NewMockHealthCheck(ctrl)
	bad.EXPECT().Name().Return("config").AnyTimes()
	bad.EXPECT().Check(gomock.Any()).DoAndReturn(func(context.Context) (string, error) {
		panic("nil map")
	})

	svc := NewDiagnosticsService(DiagnosticsServiceOptions{Checks: []ports.HealthCheck{bad}})
	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, diagnostics.StatusFail, report.Checks[0].Status)
	assert.Equal(t, "check panicked: nil map", report.Checks[0].Message)
}
