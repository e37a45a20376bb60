package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"catalog-sync/core/database"
	"catalog-sync/core/logger"
	"catalog-sync/core/metrics"
	"catalog-sync/core/server"
	"catalog-sync/core/storage"
	"catalog-sync/feature/catalog"
	"catalog-sync/feature/hubdb"
	"catalog-sync/feature/sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations owned by the packages that use them.
type Config struct {
	// Server holds configuration for the HTTP control plane.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the run history database.
	Database database.Config `mapstructure:"database"`
	// Storage holds configuration for the report archive.
	Storage storage.Config `mapstructure:"storage"`
	// Catalog holds configuration for the course search API.
	Catalog catalog.Config `mapstructure:"catalog"`
	// HubSpot holds configuration for the HubDB API.
	HubSpot hubdb.Config `mapstructure:"hubspot"`
	// Sync holds configuration for reconciliation runs.
	Sync sync.Config `mapstructure:"sync"`
	// Metrics holds configuration for the prometheus endpoint.
	Metrics metrics.Config `mapstructure:"metrics"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// A missing file is fine (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. HUBSPOT_TABLE_ID -> hubspot.table_id)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate reports configuration that makes a run impossible.
// A missing HubSpot token matches hubdb.ErrMissingToken.
func (c *Config) Validate() error {
	var errs []error

	if c.HubSpot.PrivateAppToken == "" {
		errs = append(errs, fmt.Errorf("%w: set HUBSPOT_PRIVATE_APP_TOKEN", hubdb.ErrMissingToken))
	}
	if c.HubSpot.TableID == "" {
		errs = append(errs, errors.New("hubspot table id is empty"))
	}
	if c.Catalog.BaseURL == "" {
		errs = append(errs, errors.New("catalog base url is empty"))
	}
	if c.Catalog.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("catalog page size must be positive, got %d", c.Catalog.PageSize))
	}
	if err := c.Sync.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
