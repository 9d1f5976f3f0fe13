package component

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kbukum/habit/logger"
)

type mockComponent struct {
	name       string
	startErr   error
	stopErr    error
	health     Health
	startOrder *[]string
	stopOrder  *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	if m.startOrder != nil {
		*m.startOrder = append(*m.startOrder, m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	if m.stopOrder != nil {
		*m.stopOrder = append(*m.stopOrder, m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) Health { return m.health }

func newRegistry() *Registry { return NewRegistry(logger.Nop()) }

func TestRegisterDuplicate(t *testing.T) {
	r := newRegistry()
	if err := r.Register(&mockComponent{name: "db"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(&mockComponent{name: "db"}); err == nil {
		t.Error("expected error for duplicate registration")
	}
	if r.Get("db") == nil || r.Get("missing") != nil {
		t.Error("unexpected Get results")
	}
}

func TestStartStopOrder(t *testing.T) {
	r := newRegistry()
	var started, stopped []string
	for _, name := range []string{"store", "server"} {
		_ = r.Register(&mockComponent{name: name, startOrder: &started, stopOrder: &stopped})
	}

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if strings.Join(started, ",") != "store,server" {
		t.Errorf("unexpected start order %v", started)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if strings.Join(stopped, ",") != "server,store" {
		t.Errorf("unexpected stop order %v", stopped)
	}
}

func TestStartAllErrorSkipsUnstartedOnStop(t *testing.T) {
	r := newRegistry()
	var stopped []string
	_ = r.Register(&mockComponent{name: "store", stopOrder: &stopped})
	_ = r.Register(&mockComponent{name: "server", startErr: errors.New("port in use"), stopOrder: &stopped})

	err := r.StartAll(context.Background())
	if err == nil || !strings.Contains(err.Error(), "server") {
		t.Fatalf("expected server start error, got %v", err)
	}
	_ = r.StopAll(context.Background())
	if strings.Join(stopped, ",") != "store" {
		t.Errorf("expected only store to stop, got %v", stopped)
	}
}

func TestStopAllJoinsErrors(t *testing.T) {
	r := newRegistry()
	_ = r.Register(&mockComponent{name: "a", stopErr: errors.New("a failed")})
	_ = r.Register(&mockComponent{name: "b", stopErr: errors.New("b failed")})
	_ = r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if err == nil || !strings.Contains(err.Error(), "a failed") || !strings.Contains(err.Error(), "b failed") {
		t.Errorf("expected both stop errors, got %v", err)
	}
}

func TestHealthAllAndOverall(t *testing.T) {
	r := newRegistry()
	_ = r.Register(&mockComponent{name: "store", health: Health{Name: "store", Status: StatusHealthy}})
	_ = r.Register(&mockComponent{name: "cache", health: Health{Name: "cache", Status: StatusDegraded}})

	results := r.HealthAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if got := Overall(results); got != StatusDegraded {
		t.Errorf("expected degraded, got %s", got)
	}
	results = append(results, Health{Name: "server", Status: StatusUnhealthy})
	if got := Overall(results); got != StatusUnhealthy {
		t.Errorf("expected unhealthy, got %s", got)
	}
	if got := Overall(nil); got != StatusHealthy {
		t.Errorf("expected healthy for no components, got %s", got)
	}
}
