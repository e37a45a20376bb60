package database

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds configuration for the run history database.
type Config struct {
	// Enabled turns on run history persistence.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Host is the database host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port.
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user.
	User string `mapstructure:"user" default:"root"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Name is the database name.
	Name string `mapstructure:"name" default:"catalog_sync"`
	// TimeoutSeconds bounds connection setup and every read or write.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
}

// Timeout returns the configured timeout, 30s when unset.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DSN renders the go-sql-driver/mysql data source name.
// Times are parsed as UTC since run timestamps are stored in UTC.
func (c Config) DSN() string {
	// Special characters in the password must be URL encoded.
	userInfo := url.UserPassword(c.User, c.Password).String()
	seconds := int(c.Timeout() / time.Second)

	params := url.Values{}
	params.Set("charset", "utf8mb4")
	params.Set("parseTime", "true")
	params.Set("loc", "UTC")
	params.Set("timeout", fmt.Sprintf("%ds", seconds))
	params.Set("readTimeout", fmt.Sprintf("%ds", seconds))
	params.Set("writeTimeout", fmt.Sprintf("%ds", seconds))

	return fmt.Sprintf("%s@tcp(%s:%d)/%s?%s", userInfo, c.Host, c.Port, c.Name, params.Encode())
}
