package metrics

// Config holds configuration for the prometheus endpoint.
type Config struct {
	// Enabled mounts the metrics endpoint on the control plane.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Path is the route the metrics are served on.
	Path string `mapstructure:"path" default:"/metrics"`
	// Namespace prefixes every metric name.
	Namespace string `mapstructure:"namespace" default:"catalog_sync"`
}
