// Package bootstrap runs a process built from components: it validates the
// typed config, starts components in registration order, runs hooks, prints
// a startup summary, waits for SIGINT/SIGTERM and stops everything in
// reverse order within a graceful timeout.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(eurekaClient)
//	app.RegisterComponent(server.NewComponent(srv))
//	err = app.Run(ctx)
package bootstrap
