// Package config provides configuration management for catalog-sync.
//
// It uses Viper for loading configuration from environment variables, with an optional
// .env file loaded first through godotenv. Defaults come from the `default` struct tags
// of each partial configuration, discovered by reflection, so every key is also
// reachable from the environment (nested keys joined with underscores).
//
// # Configuration Structure
//
//   - Server: control plane port, API key, shutdown timeout
//   - Log: level and format
//   - Database: optional MySQL run history
//   - Storage: optional S3/MinIO report archive
//   - Catalog: course search API endpoint and paging
//   - HubSpot: HubDB token, table ids, paging, retries and pacing
//   - Sync: lookup strategy, prune and publish policy, empty catalog guard
//   - Metrics: prometheus endpoint
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
