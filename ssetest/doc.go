// Package ssetest provides an in-process event-stream server for tests.
//
// A Server streams published events on PathEvents, answers any status code
// on PathStatus and serves plain text on PathPlain:
//
//	srv := ssetest.New(t)
//	// connect a client to srv.EventsURL()
//	_ = srv.WaitForClients(ctx, 1)
//	srv.Publish(ssetest.Event{ID: "1", Data: `{"x_attr":"a"}`})
package ssetest
