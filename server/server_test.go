package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/habit/component"
	apperrors "github.com/kbukum/habit/errors"
	"github.com/kbukum/habit/logger"
)

func newTestServer(t *testing.T, mutate func(*Config)) *Server {
	t.Helper()
	cfg := Config{Host: "127.0.0.1"}
	cfg.ApplyDefaults()
	if mutate != nil {
		mutate(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}
	return New(cfg, logger.Nop())
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Port != 3000 || cfg.MaxBodySize != "1MB" || cfg.Host != "0.0.0.0" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"port", func(c *Config) { c.Port = 70000 }, "server.port"},
		{"body size", func(c *Config) { c.MaxBodySize = "huge" }, "server.max_body_size"},
		{"rate limit", func(c *Config) { c.AuthLimit.RequestsPerMinute = -1 }, "auth_rate_limit"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{}
			cfg.ApplyDefaults()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("expected error containing %q, got %v", tc.errMsg, err)
			}
		})
	}
}

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"app error", apperrors.InvalidCredentials(), 401, `"INVALID_CREDENTIALS"`},
		{"wrapped app error", errors.Join(errors.New("ctx"), apperrors.CredentialExists()), 409, `"User exists"`},
		{"plain error", errors.New("boom"), 500, `"INTERNAL_ERROR"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rr)
			c.Request = httptest.NewRequest("GET", "/", http.NoBody)
			RespondWithError(c, tc.err)
			if rr.Code != tc.code {
				t.Errorf("code = %d, want %d", rr.Code, tc.code)
			}
			if !strings.Contains(rr.Body.String(), tc.body) {
				t.Errorf("body %s missing %s", rr.Body.String(), tc.body)
			}
			if strings.Contains(rr.Body.String(), "boom") {
				t.Error("cause must not reach the client")
			}
		})
	}
}

func TestHandlerChain(t *testing.T) {
	srv := newTestServer(t, func(c *Config) { c.MaxBodySize = "16B" })
	srv.GinEngine().POST("/echo", func(c *gin.Context) {
		var body map[string]string
		if err := c.ShouldBindJSON(&body); err != nil {
			RespondWithError(c, apperrors.InvalidInput(err.Error()))
			return
		}
		c.JSON(http.StatusOK, body)
	})
	srv.GinEngine().GET("/panic", func(*gin.Context) { panic("boom") })

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/missing", http.NoBody))
	if rr.Code != http.StatusNotFound || !strings.Contains(rr.Body.String(), `"NOT_FOUND"`) {
		t.Errorf("unexpected 404 response %d %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Request-Id") == "" {
		t.Error("expected request id on every response")
	}

	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/echo", http.NoBody))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/panic", http.NoBody))
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 from panic, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest("POST", "/echo", strings.NewReader(`{"name":"a very long name indeed"}`)))
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", rr.Code)
	}
}

func TestDefaultEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.RegisterDefaultEndpoints("habit", func(context.Context) []component.Health {
		return []component.Health{{Name: "database", Status: component.StatusHealthy}}
	})
	for _, path := range []string{"/health", "/livez", "/version"} {
		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, httptest.NewRequest("GET", path, http.NoBody))
		if rr.Code != http.StatusOK {
			t.Errorf("%s: code = %d", path, rr.Code)
		}
	}
}

func TestComponentLifecycle(t *testing.T) {
	srv := newTestServer(t, func(c *Config) { c.Port = 0 })
	srv.RegisterDefaultEndpoints("habit", nil)
	srv.GinEngine().POST("/auth/log_in", func(*gin.Context) {})
	comp := NewComponent(srv)
	ctx := context.Background()

	if h := comp.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = comp.Stop(context.Background()) })

	resp, err := http.Get("http://" + srv.Addr() + "/livez")
	if err != nil {
		t.Fatalf("GET /livez: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 from live server, got %d", resp.StatusCode)
	}
	if h := comp.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %s", h.Status)
	}

	routes := comp.Routes()
	if len(routes) != 4 || routes[0].Path != "/auth/log_in" {
		t.Errorf("expected API route first, got %+v", routes)
	}
	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestFormatHandlerName(t *testing.T) {
	tests := map[string]string{
		"github.com/kbukum/habit/api.(*Handler).LogIn-fm":            "Handler.LogIn",
		"github.com/kbukum/habit/server/endpoint.Health.func1":       "health",
		"github.com/kbukum/habit/server.TestFormatHandlerName.func2": "testformathandlername",
	}
	for in, want := range tests {
		if got := formatHandlerName(in); got != want {
			t.Errorf("formatHandlerName(%q) = %q, want %q", in, got, want)
		}
	}
}
