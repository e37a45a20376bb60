package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(cfg Config) *fiber.App {
	app := fiber.New()
	app.Use(New(cfg))
	app.Get("/sync/last", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/swagger/index.html", func(c *fiber.Ctx) error { return c.SendString("docs") })
	return app
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		path   string
		header map[string]string
		want   int
	}{
		{"NoKeyConfigured", Config{}, "/sync/last", nil, 200},
		{"MissingKey", Config{ApiKey: "secret"}, "/sync/last", nil, 401},
		{"WrongKey", Config{ApiKey: "secret"}, "/sync/last", map[string]string{HeaderName: "nope"}, 401},
		{"HeaderKey", Config{ApiKey: "secret"}, "/sync/last", map[string]string{HeaderName: "secret"}, 200},
		{"BearerKey", Config{ApiKey: "secret"}, "/sync/last", map[string]string{"Authorization": "Bearer secret"}, 200},
		{"SkippedPrefix", Config{ApiKey: "secret", Skip: []string{"/swagger"}}, "/swagger/index.html", nil, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}

			resp, err := newApp(tt.cfg).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
