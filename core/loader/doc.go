// Package loader provides the plugin-like feature loading system of the control plane.
//
// Each feature implements the Feature interface:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager keeps the registered features in registration order and loads the enabled
// ones onto a Fiber router with LoadAll. Today the sync feature is the only one; the
// indirection keeps route registration out of the serve command.
package loader
