package factory

import (
	"time"

	"go.opentelemetry.io/otel/trace/noop"

	"github.com/mcoot/dombot/internal/dependencies/mocks"
	"github.com/mcoot/dombot/internal/nations"
	"github.com/mcoot/dombot/internal/storage/memory"
	"github.com/mcoot/dombot/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockQuery *mocks.MockQueryClient
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockQuery := mocks.NewMockQueryClient()

	app := newWithDependencies(
		store,
		mockClock,
		nations.Default(),
		mockQuery,
		noop.NewTracerProvider().Tracer(""),
		testutil.NopLogger(),
		time.Second,
	)

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockQuery: mockQuery,
	}
}
