package subscription

// UnknownError is reported when the transport signals a failure without an
// error or with an empty message.
const UnknownError = "Unknown Error"

// State is a snapshot of a subscription. Zero values stand for "none".
type State[T any] struct {
	// PID identifies the current session. Empty when idle.
	PID string `json:"pid,omitempty"`
	// Data is the last decoded message. Kept across errors, cleared on disconnect.
	Data *T `json:"data,omitempty"`
	// Error is the last transport error. Cleared by Connect, kept by Disconnect.
	Error string `json:"error,omitempty"`
	// Connected is optimistic: true from Connect until an error is reported.
	Connected bool `json:"isConnected"`
}

// Active reports whether the snapshot belongs to a live session.
func (s State[T]) Active() bool {
	return s.PID != ""
}
