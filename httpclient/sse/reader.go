// Package sse decodes a text/event-stream body into discrete events.
package sse

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"
	"time"
)

// MaxLineSize bounds a single field line. Longer lines fail the stream with
// bufio.ErrTooLong.
const MaxLineSize = 1 << 20

// Event is one dispatched server-sent event.
type Event struct {
	// Event is the type from the "event:" field. Empty means "message".
	Event string
	// Data is the payload. Multiple "data:" lines are joined with "\n".
	Data string
	// ID is the last event id seen on the stream, including this event.
	ID string
	// Retry is the reconnection delay requested by the server, if any.
	Retry time.Duration
}

// Type returns the event type, defaulting to "message".
func (e *Event) Type() string {
	if e.Event == "" {
		return "message"
	}
	return e.Event
}

// Reader reads server-sent events from a stream.
type Reader interface {
	// Next blocks until the next event is dispatched. Returns io.EOF when
	// the stream ends cleanly.
	Next() (*Event, error)
	// LastEventID returns the most recent id the server sent.
	LastEventID() string
	// Close releases the underlying stream.
	Close() error
}

type reader struct {
	scanner *bufio.Scanner
	body    io.ReadCloser
	lastID  string
}

// NewReader creates an SSE reader over body.
func NewReader(body io.ReadCloser) Reader {
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 4096), MaxLineSize)
	sc.Split(scanLines)
	return &reader{scanner: sc, body: body}
}

func (r *reader) Next() (*Event, error) {
	var (
		data    strings.Builder
		hasData bool
		ev      Event
	)

	for r.scanner.Scan() {
		line := r.scanner.Text()

		if line == "" {
			if hasData {
				ev.Data = data.String()
				ev.ID = r.lastID
				return &ev, nil
			}
			// A blank line with no data resets the pending event.
			ev = Event{}
			continue
		}
		if line[0] == ':' {
			continue
		}

		field, value := parseSSELine(line)
		switch field {
		case "data":
			if hasData {
				data.WriteByte('\n')
			}
			data.WriteString(value)
			hasData = true
		case "event":
			ev.Event = value
		case "id":
			if !strings.ContainsRune(value, 0) {
				r.lastID = value
			}
		case "retry":
			if ms, err := strconv.ParseUint(value, 10, 32); err == nil {
				ev.Retry = time.Duration(ms) * time.Millisecond
			}
		}
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	if hasData {
		ev.Data = data.String()
		ev.ID = r.lastID
		return &ev, nil
	}
	return nil, io.EOF
}

func (r *reader) LastEventID() string {
	return r.lastID
}

func (r *reader) Close() error {
	return r.body.Close()
}

// parseSSELine splits a field line at the first colon, dropping a single
// leading space from the value.
func parseSSELine(line string) (field, value string) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return line, ""
	}
	field = line[:idx]
	value = strings.TrimPrefix(line[idx+1:], " ")
	return field, value
}

// scanLines is bufio.ScanLines extended to accept bare "\r" terminators.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\r' {
			if i+1 < len(data) {
				if data[i+1] == '\n' {
					return i + 2, data[:i], nil
				}
				return i + 1, data[:i], nil
			}
			if !atEOF {
				// Need one more byte to tell "\r" from "\r\n".
				return 0, nil, nil
			}
		}
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
