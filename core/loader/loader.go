package loader

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Feature is a module that contributes routes to the control plane.
type Feature interface {
	// Name returns the unique feature name.
	Name() string
	// IsEnabled reports whether the feature should be loaded.
	IsEnabled() bool
	// Load registers the feature routes on the router.
	Load(app fiber.Router) error
}

// Manager holds the registered features.
type Manager struct {
	features []Feature
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// Register adds a feature. Registration order is load order.
func (m *Manager) Register(f Feature) {
	m.features = append(m.features, f)
}

// Features returns the registered features.
func (m *Manager) Features() []Feature {
	return m.features
}

// LoadAll loads every enabled feature and returns the names that were loaded.
// Duplicate names and load errors abort the loading.
func (m *Manager) LoadAll(app fiber.Router) ([]string, error) {
	seen := make(map[string]bool, len(m.features))
	var loaded []string

	for _, f := range m.features {
		name := f.Name()
		if seen[name] {
			return loaded, fmt.Errorf("feature %q registered twice", name)
		}
		seen[name] = true

		if !f.IsEnabled() {
			continue
		}
		if err := f.Load(app); err != nil {
			return loaded, fmt.Errorf("failed to load feature %q: %w", name, err)
		}
		loaded = append(loaded, name)
	}

	return loaded, nil
}
