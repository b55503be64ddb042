// Package mocks provides gomock implementations of the ports interfaces.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	runner := mocks.NewMockDiagnosticsRunner(ctrl)
//	runner.EXPECT().Run(gomock.Any()).Return(report, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=diagnostics_runner_mock.go github.com/immochat/immochat-web/internal/ports DiagnosticsRunner

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=health_check_mock.go github.com/immochat/immochat-web/internal/ports HealthCheck

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_reader_mock.go github.com/immochat/immochat-web/internal/ports SessionReader
