// Package eventsource opens long-lived Server-Sent Events streams and
// reports everything that happens on them as typed events to one Handler.
//
// A Transport is shared; each Listen call starts one stream in its own
// goroutine and returns a Controller to abort it:
//
//	t := eventsource.NewTransport(client)
//	ctrl := t.Listen(url, eventsource.DefaultOptions(), eventsource.HandlerFunc(func(ev eventsource.Event) error {
//	    switch ev.Kind {
//	    case eventsource.KindMessage:
//	        // ev.Data
//	    case eventsource.KindRequestError, eventsource.KindResponseError:
//	        // ev.Err
//	    }
//	    return nil
//	}))
//	defer ctrl.Abort()
//
// Transport failures (refused connections, timeouts, broken reads) are
// retried with backoff up to Options.MaxRetryCount times per stream, and a
// single KindRequestError is emitted when the budget runs out. Error
// statuses and non event-stream responses are reported once as
// KindResponseError and never retried.
package eventsource
