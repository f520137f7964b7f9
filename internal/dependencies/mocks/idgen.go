package mocks

import (
	"fmt"

	"github.com/mcoot/knockout/internal/dependencies/idgen"
)

// MockIDGenerator returns queued IDs, then "id-N" once the queue runs out
type MockIDGenerator struct {
	IDs   []string
	count int
}

var _ idgen.Generator = (*MockIDGenerator)(nil)

// NewMockIDGenerator creates a MockIDGenerator with the given queued IDs
func NewMockIDGenerator(ids ...string) *MockIDGenerator {
	return &MockIDGenerator{IDs: ids}
}

// NewID returns the next queued ID
func (g *MockIDGenerator) NewID() string {
	g.count++
	if len(g.IDs) > 0 {
		id := g.IDs[0]
		g.IDs = g.IDs[1:]
		return id
	}
	return fmt.Sprintf("id-%d", g.count)
}
