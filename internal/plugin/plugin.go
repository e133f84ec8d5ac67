// Package plugin defines the sweeper plugin interface for reaper.
package plugin

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/yairfalse/reaper/internal/config"
	"github.com/yairfalse/reaper/pkg/resource"
)

// Plugin is the interface every cloud provider sweeper implements.
type Plugin interface {
	// Name returns the plugin identifier (e.g., "aws").
	Name() string

	// Scan discovers idle resources. It issues read-only calls only.
	Scan(ctx context.Context) (resource.SweepResult, error)

	// Run discovers idle resources and deletes them.
	// The returned result describes the set it acted on, even on error.
	Run(ctx context.Context) (resource.SweepResult, error)
}

// Factory builds a provider plugin from reaper's configuration.
type Factory func(ctx context.Context, cfg *config.Config) (Plugin, error)

var (
	factories = make(map[string]Factory)
	mu        sync.RWMutex
)

// Register makes a provider available under name. Providers call it from
// init; a later registration under the same name replaces the earlier one.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = f
}

// New builds the plugin registered under name.
func New(ctx context.Context, name string, cfg *config.Config) (Plugin, error) {
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown provider %q (registered: %s)", name, strings.Join(Names(), ", "))
	}
	return f(ctx, cfg)
}

// Names returns the registered provider names in order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
