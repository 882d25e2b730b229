// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

import "sync"

// A Sink receives the lifecycle events of Requests.
//
// Enqueue is called from the background goroutines that drive Requests,
// sometimes while the Request's internal lock is held, so it must not
// block for an unbounded time and must not call back into the Request
// that the event is about. Calling Request.ReadAll or Request.Close from
// inside Enqueue deadlocks. Hand the event off to the consumer instead,
// for example using a Queue, and act on it when the Queue is drained.
//
// Implementations of Sink must be safe for concurrent use by multiple
// goroutines.
type Sink interface {
	Enqueue(Event)
}

// The SinkFunc type is an adapter to allow the use of ordinary
// functions as event sinks.
type SinkFunc func(Event)

// Enqueue calls f(e).
func (f SinkFunc) Enqueue(e Event) {
	f(e)
}

// Discard is a Sink that drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// A Queue is an unbounded Sink drained by a single consumer, typically
// the host's event loop once per frame. Its zero value is an empty queue
// ready to use.
//
// Enqueue never blocks beyond a short critical section. Events are
// delivered by Drain in the order in which they were enqueued.
type Queue struct {
	lock   sync.Mutex
	events []Event
	ready  chan struct{}
}

// Enqueue appends e to the queue and signals Ready.
func (q *Queue) Enqueue(e Event) {
	q.lock.Lock()
	defer q.lock.Unlock()
	q.events = append(q.events, e)
	select {
	case q.readyLocked() <- struct{}{}:
	default:
	}
}

// Drain removes every queued event and passes each one, in order, to f.
// It returns the number of events drained. Events enqueued while f is
// running are left for the next Drain.
//
// Drain is meant to be called from one consumer goroutine. f may call
// methods of the Request an event is about.
func (q *Queue) Drain(f func(Event)) int {
	q.lock.Lock()
	events := q.events
	q.events = nil
	q.lock.Unlock()
	for _, e := range events {
		f(e)
	}
	return len(events)
}

// Len returns the number of events waiting to be drained.
func (q *Queue) Len() int {
	q.lock.Lock()
	defer q.lock.Unlock()
	return len(q.events)
}

// Ready returns a channel that receives a value after events have been
// enqueued. A consumer that prefers to block rather than poll can wait
// on Ready and then call Drain. Several enqueues may be coalesced into
// one signal.
func (q *Queue) Ready() <-chan struct{} {
	q.lock.Lock()
	defer q.lock.Unlock()
	return q.readyLocked()
}

func (q *Queue) readyLocked() chan struct{} {
	if q.ready == nil {
		q.ready = make(chan struct{}, 1)
	}
	return q.ready
}
