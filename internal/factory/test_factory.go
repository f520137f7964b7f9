package factory

import (
	"time"

	"github.com/mcoot/knockout/internal/config"
	"github.com/mcoot/knockout/internal/dependencies/mocks"
	"github.com/mcoot/knockout/internal/host"
	"github.com/mcoot/knockout/internal/services/auth"
	"github.com/mcoot/knockout/internal/storage/memory"
	"github.com/mcoot/knockout/internal/testutil"
)

// TestAdmin is an admin login in apps created by NewTestApp
const TestAdmin = "admin"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockServer    *mocks.MockServer
	MockPresenter *mocks.MockPresenter
	MockClock     *mocks.MockClock
	MockIDs       *mocks.MockIDGenerator
}

// NewTestApp creates an App configured for testing with mocked dependencies,
// default settings with TestAdmin as an admin, and no callback authentication
func NewTestApp() *TestApp {
	settings := config.DefaultSettings()
	settings.Admins = []string{TestAdmin}
	return NewTestAppWithSettings(settings)
}

// NewTestAppWithSettings is NewTestApp with the given knockout settings
func NewTestAppWithSettings(settings config.Settings) *TestApp {
	mockServer := mocks.NewMockServer()
	mockPresenter := mocks.NewMockPresenter()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockIDs := mocks.NewMockIDGenerator()

	// An empty hash never fails to parse
	authService, _ := auth.New("", mockClock, auth.DefaultConfig())

	app := newWithDependencies(dependencies{
		storage:    memory.New(),
		server:     mockServer,
		clock:      mockClock,
		ids:        mockIDs,
		auth:       authService,
		presenters: []host.Presenter{mockPresenter},
	}, settings, testutil.NopLogger())

	return &TestApp{
		App:           app,
		MockServer:    mockServer,
		MockPresenter: mockPresenter,
		MockClock:     mockClock,
		MockIDs:       mockIDs,
	}
}
