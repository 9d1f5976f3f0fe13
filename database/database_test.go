package database

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/kbukum/habit/auth/credential"
	"github.com/kbukum/habit/auth/credential/credentialtest"
	"github.com/kbukum/habit/component"
	apperrors "github.com/kbukum/habit/errors"
	"github.com/kbukum/habit/logger"
	"github.com/kbukum/habit/testutil"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		DSN:        "file:" + filepath.Join(t.TempDir(), "habit.db") + "?_busy_timeout=5000",
		MaxRetries: 1,
	}
}

func startComponent(t *testing.T) *Component {
	t.Helper()
	comp := testutil.Start(t, NewComponent(testConfig(t), logger.Nop()))
	testutil.RequireHealthy(t, comp)
	return comp
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.DSN != DefaultDSN || cfg.MaxOpenConns != 4 || cfg.MaxIdleConns != 2 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if !cfg.ShouldMigrate() {
		t.Error("migrations should run by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	cfg.MaxIdleConns = 10
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for idle > open")
	}
	cfg = Config{}
	cfg.ApplyDefaults()
	cfg.SlowQueryThreshold = "soon"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestCredentialStore(t *testing.T) {
	credentialtest.RunStoreTests(t, func(t *testing.T) credential.Store {
		return startComponent(t).Store()
	})
}

func TestCredentialStore_FindByNonNumericID(t *testing.T) {
	store := startComponent(t).Store()
	rec, err := store.FindByID(context.Background(), "abc")
	if rec != nil || err != nil {
		t.Errorf("FindByID(abc) = %v, %v; want nil, nil", rec, err)
	}
}

func TestComponentLifecycle(t *testing.T) {
	comp := NewComponent(testConfig(t), logger.Nop())
	ctx := context.Background()

	if comp.DB() != nil || comp.Store() != nil {
		t.Fatal("expected nil DB and store before Start")
	}
	if h := comp.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h := comp.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %s (%s)", h.Status, h.Message)
	}
	if d := comp.Describe(); d.Type != "database" || d.Name != "SQLite" {
		t.Errorf("unexpected description %+v", d)
	}
	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := comp.Stop(ctx); err != nil {
		t.Errorf("second Stop should be a no-op: %v", err)
	}
}

func TestDescribe_RedactsDSN(t *testing.T) {
	comp := NewComponent(Config{DSN: "file:habit.db?_auth&_auth_user=admin&_auth_pass=hunter2"}, logger.Nop())
	d := comp.Describe()
	if strings.Contains(d.Details, "hunter2") || strings.Contains(d.Details, "_auth") {
		t.Errorf("DSN leaked into description: %q", d.Details)
	}
	if !strings.HasPrefix(d.Details, "file:habit.db ") {
		t.Errorf("Details = %q, want redacted DSN first", d.Details)
	}
}

func TestFromDatabase(t *testing.T) {
	if FromDatabase(nil) != nil {
		t.Error("nil error should map to nil")
	}
	tests := []struct {
		name string
		err  error
		code apperrors.ErrorCode
	}{
		{"not found", gorm.ErrRecordNotFound, apperrors.ErrCodeNotFound},
		{"duplicate", gorm.ErrDuplicatedKey, apperrors.ErrCodeCredentialExists},
		{"unique text", errors.New("UNIQUE constraint failed: users.name"), apperrors.ErrCodeCredentialExists},
		{"busy", errors.New("database is locked"), apperrors.ErrCodeDatabaseError},
		{"other", errors.New("disk I/O error"), apperrors.ErrCodeDatabaseError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FromDatabase(tc.err); got.Code != tc.code {
				t.Errorf("code = %s, want %s", got.Code, tc.code)
			}
		})
	}
	if !FromDatabase(errors.New("database is locked")).Retryable {
		t.Error("busy errors should be retryable")
	}
}
