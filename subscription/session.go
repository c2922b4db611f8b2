package subscription

import (
	"math/big"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/livesse/eventsource"
)

// SessionIDLength is the length of ids returned by NewSessionID.
const SessionIDLength = 7

// NewSessionID returns a random id of SessionIDLength lowercase base-36
// characters.
func NewSessionID() string {
	u := uuid.New()
	s := new(big.Int).SetBytes(u[:]).Text(36)
	if len(s) < SessionIDLength {
		s = strings.Repeat("0", SessionIDLength-len(s)) + s
	}
	return s[len(s)-SessionIDLength:]
}

// session is one Connect call. Fields are guarded by Manager.mu.
type session struct {
	id     string
	ctrl   eventsource.Controller
	closed bool
}
