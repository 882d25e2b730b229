// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

// A State is a stage in the lifecycle of a Request.
//
// A Request moves forward through Opened, Connected, Fetching and Done.
// It can escape to Error from any non-terminal state when an I/O step
// fails, and to Closed from any non-terminal state when Close is called.
// Done, Error and Closed are terminal: once a Request reaches one of
// them its state never changes again.
type State int32

const (
	// Opened is the state of a new Request. Its plan is known but
	// nothing has been sent yet.
	Opened State = iota
	// Connected means the server replied with a usable response and the
	// response body stream is ready to be read, either incrementally via
	// Request.Stream or all at once via Request.ReadAll.
	Connected
	// Fetching means the response body is being buffered in the
	// background after a call to Request.ReadAll.
	Fetching
	// Done means the entire response body has been read and delivered
	// with the EventDone event.
	Done
	// Error means a transport or I/O failure ended the Request. The
	// failure was delivered with the EventError event.
	Error
	// Closed means Request.Close was called before the Request reached
	// another terminal state.
	Closed
	// stateSentinel provides the total number of states.
	stateSentinel

	numStates = int(stateSentinel)
)

var stateNames = []string{
	"Opened",
	"Connected",
	"Fetching",
	"Done",
	"Error",
	"Closed",
}

// States returns a slice containing all request states in lifecycle
// order.
func States() []State {
	return []State{
		Opened,
		Connected,
		Fetching,
		Done,
		Error,
		Closed,
	}
}

// Terminal reports whether s is a state with no outgoing transitions.
func (s State) Terminal() bool {
	return s == Done || s == Error || s == Closed
}

// Name returns the name of the state.
func (s State) Name() string {
	if s < 0 || int(s) >= numStates {
		return "Unknown"
	}
	return stateNames[s]
}

// String returns the name of the state.
func (s State) String() string {
	return s.Name()
}
