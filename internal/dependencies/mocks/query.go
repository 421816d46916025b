package mocks

import (
	"context"
	"sync"

	"github.com/mcoot/dombot/internal/dependencies/gamequery"
	"github.com/mcoot/dombot/internal/model"
)

// MockQueryClient is a mock implementation of gamequery.Client for testing
type MockQueryClient struct {
	mu sync.Mutex

	// Games maps a server address to the data returned for it
	Games map[string]*gamequery.GameData
	// Err, when set, is returned from every Fetch
	Err error
	// Block makes Fetch wait until the context is done
	Block bool

	calls []string
}

// Ensure MockQueryClient implements Client
var _ gamequery.Client = (*MockQueryClient)(nil)

// NewMockQueryClient creates a MockQueryClient with no games
func NewMockQueryClient() *MockQueryClient {
	return &MockQueryClient{Games: make(map[string]*gamequery.GameData)}
}

// SetGame registers the data returned for address
func (c *MockQueryClient) SetGame(address string, data *gamequery.GameData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Games[address] = data
}

// Fetch returns the configured data for address.
// Unknown addresses report model.ErrGameServerUnreachable.
func (c *MockQueryClient) Fetch(ctx context.Context, address string) (*gamequery.GameData, error) {
	c.mu.Lock()
	c.calls = append(c.calls, address)
	block, err, data := c.Block, c.Err, c.Games[address]
	c.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, model.ErrGameServerUnreachable
	}
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, model.ErrGameServerUnreachable
	}
	return data, nil
}

// Calls returns the addresses Fetch was called with
func (c *MockQueryClient) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}
