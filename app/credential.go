package app

import (
	"context"
	"fmt"

	"github.com/kbukum/habit/auth"
	"github.com/kbukum/habit/auth/credential"
	"github.com/kbukum/habit/component"
	"github.com/kbukum/habit/logger"
	"github.com/kbukum/habit/observability"
)

// credentialComponent builds the credential service once its store is up and
// hands it to mount. It is registered after the store and before the HTTP
// server so the routes exist before the listener opens.
type credentialComponent struct {
	cfg   auth.Config
	store func() credential.Store
	mount func(*credential.Service)
	log   *logger.Logger

	svc *credential.Service
}

var _ component.Describable = (*credentialComponent)(nil)

func newCredentialComponent(cfg auth.Config, store func() credential.Store, mount func(*credential.Service), log *logger.Logger) *credentialComponent {
	return &credentialComponent{cfg: cfg, store: store, mount: mount, log: log}
}

func (c *credentialComponent) Name() string { return "credential" }

func (c *credentialComponent) Start(_ context.Context) error {
	if c.svc != nil {
		return nil
	}
	store := c.store()
	if store == nil {
		return fmt.Errorf("credential store is not available")
	}
	metrics, err := observability.NewMetrics(observability.Meter())
	if err != nil {
		return err
	}
	svc, err := credential.NewService(c.cfg, store,
		credential.WithLogger(c.log),
		credential.WithTracer(observability.Tracer()),
		credential.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}
	c.svc = svc
	c.mount(svc)
	return nil
}

func (c *credentialComponent) Stop(_ context.Context) error { return nil }

func (c *credentialComponent) Health(_ context.Context) component.Health {
	if c.svc == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

func (c *credentialComponent) Describe() component.Description {
	return component.Description{Name: "Credentials", Type: "service", Details: c.cfg.Describe()}
}
