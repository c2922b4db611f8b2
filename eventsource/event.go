package eventsource

import "fmt"

// Kind identifies what happened on a stream.
type Kind int

const (
	// KindMessage carries one server-sent event.
	KindMessage Kind = iota
	// KindResponse reports that a connection attempt got an event stream.
	KindResponse
	// KindRequestError reports that no usable response could be obtained.
	KindRequestError
	// KindResponseError reports an error status or an unusable response body.
	KindResponseError
)

func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindResponse:
		return "response"
	case KindRequestError:
		return "request"
	case KindResponseError:
		return "response_error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is delivered to a Handler. Which fields are set depends on Kind.
type Event struct {
	Kind Kind

	// Message fields.
	Type string
	Data string
	ID   string

	// Status is the HTTP status for KindResponse and, when a response
	// arrived, KindResponseError.
	Status int

	// Err is set for KindRequestError and KindResponseError.
	Err error
}

// Handler receives stream events on the stream goroutine, one at a time.
// An error returned for a KindMessage event is logged and the stream
// continues.
type Handler interface {
	Handle(Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(Event) error

// Handle calls f(ev).
func (f HandlerFunc) Handle(ev Event) error { return f(ev) }

// Controller is the handle of one running stream.
type Controller interface {
	// Abort cancels the stream. It never blocks, is safe to call repeatedly
	// and from any goroutine, including from inside the Handler.
	Abort()
	// Done is closed once the stream goroutine has exited.
	Done() <-chan struct{}
}
