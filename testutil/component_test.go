package testutil

import (
	"context"
	"testing"

	"github.com/kbukum/habit/component"
)

type fakeComponent struct {
	started, stopped bool
}

func (f *fakeComponent) Name() string { return "fake" }
func (f *fakeComponent) Start(context.Context) error { f.started = true; return nil }
func (f *fakeComponent) Stop(context.Context) error { f.stopped = true; return nil }
func (f *fakeComponent) Health(context.Context) component.Health {
	if !f.started || f.stopped {
		return component.Health{Name: "fake", Status: component.StatusUnhealthy}
	}
	return component.Health{Name: "fake", Status: component.StatusHealthy}
}

func TestStartStopsOnCleanup(t *testing.T) {
	fake := &fakeComponent{}
	t.Run("inner", func(t *testing.T) {
		got := Start(t, fake)
		if got != fake || !fake.started {
			t.Fatal("expected component to be started")
		}
		RequireHealthy(t, fake)
	})
	if !fake.stopped {
		t.Error("expected component to be stopped after the subtest")
	}
}
