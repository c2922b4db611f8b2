// Package bootstrap runs a livesse binary: it validates the typed config,
// initializes logging, starts registered components in order and stops them
// in reverse when the context ends or the process is signalled.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(manager)
//	err = app.Run(ctx)
package bootstrap
