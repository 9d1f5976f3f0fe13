package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kbukum/habit/component"
)

// InfrastructureInfo is one described component in the startup summary.
type InfrastructureInfo struct {
	Name    string
	Type    string // e.g. "database", "server", "redis"
	Details string
	Port    int
}

// Summary is a snapshot of the running application taken after startup.
type Summary struct {
	ServiceName    string
	Version        string
	Infrastructure []InfrastructureInfo
	Routes         []component.Route
	Health         []component.Health
}

// Summary collects descriptions, routes and live health from the registered
// components.
func (a *App[C]) Summary(ctx context.Context) *Summary {
	s := &Summary{ServiceName: a.Name, Version: a.Version}
	for _, c := range a.Components.All() {
		if d, ok := c.(component.Describable); ok {
			desc := d.Describe()
			name := desc.Name
			if name == "" {
				name = c.Name()
			}
			s.Infrastructure = append(s.Infrastructure, InfrastructureInfo{
				Name:    name,
				Type:    desc.Type,
				Details: desc.Details,
				Port:    desc.Port,
			})
		}
		if rp, ok := c.(component.RouteProvider); ok {
			s.Routes = append(s.Routes, rp.Routes()...)
		}
	}
	s.Health = a.Components.HealthAll(ctx)
	return s
}

// Healthy reports whether every component reported healthy.
func (s *Summary) Healthy() bool {
	return component.Overall(s.Health) == component.StatusHealthy
}

// Write renders the summary as a tree.
func (s *Summary) Write(w io.Writer, startup time.Duration) {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s %s started in %.2fs\n", s.ServiceName, s.Version, startup.Seconds())

	if len(s.Infrastructure) > 0 {
		b.WriteString("\nInfrastructure\n")
		for i, inf := range s.Infrastructure {
			details := inf.Details
			if inf.Port > 0 {
				details = fmt.Sprintf("%s (:%d)", details, inf.Port)
			}
			fmt.Fprintf(&b, "   %s [%s] %s: %s\n", branch(i, len(s.Infrastructure)), inf.Type, inf.Name, details)
		}
	} else {
		b.WriteString("   └── No components registered\n")
	}

	if len(s.Routes) > 0 {
		fmt.Fprintf(&b, "\nRoutes (%d)\n", len(s.Routes))
		for i, r := range s.Routes {
			fmt.Fprintf(&b, "   %s %-7s %s -> %s\n", branch(i, len(s.Routes)), r.Method, r.Path, r.Handler)
		}
	}

	if len(s.Health) > 0 {
		b.WriteString("\nHealth\n")
		healthy := 0
		for i, h := range s.Health {
			msg := ""
			if h.Message != "" {
				msg = " (" + h.Message + ")"
			}
			if h.Status == component.StatusHealthy {
				healthy++
			}
			fmt.Fprintf(&b, "   %s %s: %s%s\n", branch(i, len(s.Health)), h.Name, h.Status, msg)
		}
		if healthy == len(s.Health) {
			fmt.Fprintf(&b, "\nAll components healthy (%d/%d)\n", healthy, len(s.Health))
		} else {
			fmt.Fprintf(&b, "\nSome components have issues (%d/%d healthy)\n", healthy, len(s.Health))
		}
	}
	b.WriteString("\n")
	_, _ = io.WriteString(w, b.String())
}

func branch(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}
