// Package subscription manages one live Server-Sent Events subscription and
// exposes it as a small observable state.
//
// A Manager owns at most one session at a time. Connect opens a new session
// (tearing down any previous one first), Disconnect aborts and forgets it.
// Incoming messages are decoded into T and published as State.Data;
// transport failures flip State.Connected to false and set State.Error
// without ending the session, so callers decide when to reconnect.
//
//	mgr := subscription.New[Job](url, eventsource.NewTransport(client))
//	stop := mgr.Attach(ctx) // Disconnect when ctx ends
//	defer stop()
//	mgr.Watch(func(s subscription.State[Job]) { render(s) })
//	mgr.Connect()
//
// Events from a session that has been replaced or closed are discarded, so
// a slow transport can never overwrite the state of a newer session.
package subscription
