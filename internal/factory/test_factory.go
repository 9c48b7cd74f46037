package factory

import (
	"github.com/mcoot/vstetris/internal/dependencies/mocks"
	"github.com/mcoot/vstetris/internal/relay"
	"github.com/mcoot/vstetris/internal/services/game"
	"github.com/mcoot/vstetris/internal/storage/memory"
	"github.com/mcoot/vstetris/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(mocks.Epoch)
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, game.DefaultConfig(), relay.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
