// Package bootstrap orchestrates the analyzer's application lifecycle.
//
// It ties a typed configuration, the component registry and startup and
// shutdown hooks together so that the web server and headless CLI runs
// share the same initialization path.
//
// # Quick Start
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	_ = app.RegisterComponent(sessions)
//	_ = app.RegisterComponent(server.NewComponent(srv))
//	return app.Run(ctx)
//
// Run blocks until SIGINT/SIGTERM or context cancellation, then stops
// components in reverse registration order. RunTask runs a finite function
// with the same lifecycle.
package bootstrap
