package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/kbukum/habit/component"
)

// stopTimeout bounds the Stop call registered by Start.
const stopTimeout = 5 * time.Second

// Start starts c and stops it when t finishes. It fails the test if Start
// returns an error.
func Start[C component.Component](t testing.TB, c C) C {
	t.Helper()
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start %s: %v", c.Name(), err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		if err := c.Stop(ctx); err != nil {
			t.Errorf("stop %s: %v", c.Name(), err)
		}
	})
	return c
}

// RequireHealthy fails the test unless c reports healthy.
func RequireHealthy(t testing.TB, c component.Component) {
	t.Helper()
	if h := c.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Fatalf("%s is %s: %s", c.Name(), h.Status, h.Message)
	}
}
