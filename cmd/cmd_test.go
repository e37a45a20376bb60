package cmd

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"catalog-sync/core/config"
	"catalog-sync/core/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConfirmDestructiveAction(t *testing.T) {
	tests := []struct {
		name  string
		input string
		yes   bool
		want  bool
	}{
		{name: "Flag", yes: true, want: true},
		{name: "Typed yes", input: "yes\n", want: true},
		{name: "Typed yes without newline", input: "yes", want: true},
		{name: "Typed no", input: "no\n", want: false},
		{name: "Closed input", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := confirmDestructiveAction(strings.NewReader(tt.input), &out, tt.yes)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, out.String())
		})
	}
}

func testRuntime() *runtime {
	cfg := &config.Config{}
	cfg.Server.ApiKey = "secret"
	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "/metrics"

	return &runtime{
		cfg:     cfg,
		logger:  zap.NewNop(),
		metrics: metrics.New("test"),
	}
}

func TestNewApp(t *testing.T) {
	app, err := newApp(testRuntime())
	require.NoError(t, err)

	t.Run("Metrics are public", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("API requires a key", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/sync/last", nil))
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("Sync feature disabled without a service", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/sync/last", nil)
		req.Header.Set("X-API-Key", "secret")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
	})
}
