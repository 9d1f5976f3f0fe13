package app

import (
	"github.com/kbukum/habit/api"
	"github.com/kbukum/habit/auth/credential"
	"github.com/kbukum/habit/bootstrap"
	"github.com/kbukum/habit/database"
	"github.com/kbukum/habit/observability"
	"github.com/kbukum/habit/redis"
	"github.com/kbukum/habit/server"
	"github.com/kbukum/habit/version"
)

// New builds the habit application. Components start in this order:
// observability, the store selected by storage.driver, the credential
// service, then the HTTP server.
func New(cfg *Config, opts ...bootstrap.Option) (*bootstrap.App[*Config], error) {
	if cfg.Version == "" {
		cfg.Version = version.Get().Version
	}
	a, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, err
	}
	log := a.Logger

	obs := observability.NewComponent(cfg.Observability, cfg.Name, cfg.Version, cfg.Environment)
	if err := a.RegisterComponent(obs); err != nil {
		return nil, err
	}

	var store func() credential.Store
	switch cfg.Storage.Driver {
	case DriverSQLite:
		db := database.NewComponent(cfg.Database, log)
		if err := a.RegisterComponent(db); err != nil {
			return nil, err
		}
		store = func() credential.Store {
			if s := db.Store(); s != nil {
				return s
			}
			return nil
		}
	case DriverRedis:
		rc := redis.NewComponent(cfg.Redis, log)
		if err := a.RegisterComponent(rc); err != nil {
			return nil, err
		}
		store = func() credential.Store {
			if s := rc.Store(); s != nil {
				return s
			}
			return nil
		}
	default:
		mem := credential.NewMemoryStore()
		store = func() credential.Store { return mem }
	}

	srv := server.New(cfg.Server, log)
	mount := func(svc *credential.Service) {
		api.NewHandler(svc, cfg.Server.AuthLimit).Mount(srv.GinEngine())
	}
	if err := a.RegisterComponent(newCredentialComponent(cfg.Auth, store, mount, log)); err != nil {
		return nil, err
	}

	srv.RegisterDefaultEndpoints(cfg.Name, a.Components.HealthAll)
	if err := a.RegisterComponent(server.NewComponent(srv)); err != nil {
		return nil, err
	}
	return a, nil
}
