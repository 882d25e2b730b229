// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

import "github.com/gogama/asynchttp/transient"

// An EventKind identifies the lifecycle notification carried by an
// Event.
type EventKind int

const (
	// EventConnected identifies the event that occurs when the server
	// has received the request and a response is available. It carries
	// no payload.
	//
	// EventConnected is always delivered before EventDone or EventError
	// for the same Request.
	EventConnected EventKind = iota
	// EventDone identifies the event that occurs when the entire
	// response body has been read after Request.ReadAll. The payload is
	// the body, as a []byte.
	EventDone
	// EventError identifies the event that occurs when the Request
	// failed. The payload is the failure message, as a string.
	EventError
	// kindSentinel provides the total number of event kinds typed as an
	// EventKind.
	kindSentinel

	// numKinds provides the total number of event kinds as an int.
	numKinds = int(kindSentinel)
)

var kindNames = []string{
	"Connected",
	"Done",
	"Error",
}

// EventKinds returns a slice containing all event kinds, in the order
// in which they can occur for one Request.
func EventKinds() []EventKind {
	return []EventKind{
		EventConnected,
		EventDone,
		EventError,
	}
}

// Name returns the name of the event kind.
func (k EventKind) Name() string {
	if k < 0 || int(k) >= numKinds {
		return "Unknown"
	}
	return kindNames[k]
}

// String returns the name of the event kind.
func (k EventKind) String() string {
	return k.Name()
}

// An Event is a lifecycle notification about one Request, pushed to a
// Sink by the Request's background steps.
//
// Events are values and are never modified after they are enqueued.
// Ownership of Body passes to the Sink.
type Event struct {
	// Request is the Request the event is about. It is never nil.
	Request *Request

	// Kind is the kind of lifecycle notification.
	Kind EventKind

	// Body is the complete response body. It is only set for EventDone,
	// and may be empty but is never nil for that kind.
	Body []byte

	// Message is the failure message. It is only set for EventError.
	Message string

	// Category is the transience category of the failure. It is only
	// meaningful for EventError.
	Category transient.Category
}

// Payload returns the event payload in its generic form: nil for
// EventConnected, the body []byte for EventDone, and the message string
// for EventError.
func (e Event) Payload() interface{} {
	switch e.Kind {
	case EventDone:
		return e.Body
	case EventError:
		return e.Message
	default:
		return nil
	}
}
