// Package bootstrap runs a service through a uniform lifecycle.
//
// An App validates the configuration, initializes the logger, starts
// registered components in order, runs hooks and configure callbacks, prints
// a startup summary and then blocks until SIGINT, SIGTERM or context
// cancellation. Shutdown runs OnStop hooks and stops components in reverse.
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	_ = app.RegisterComponent(store)
//	_ = app.RegisterComponent(httpServer)
//	return app.Run(ctx)
package bootstrap
