// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/gogama/asynchttp/request"
	"github.com/gogama/asynchttp/timeout"
	"github.com/gogama/asynchttp/transient"
)

// chunkSize is the size of the reads made while buffering a response
// body.
const chunkSize = 1024

// A Request is one asynchronous HTTP request and its lifecycle state.
//
// Create a Request with Runner.Open, then call Start. The exchange runs
// on a background goroutine, and the Request reports its progress by
// pushing events to the Runner's Sink:
//
//	r := runner.Open(p)  // Opened
//	err := r.Start()     // later: Connected, EventConnected
//	...
//	err = r.ReadAll()    // Fetching, later: Done, EventDone with the body
//
// Any failure moves the Request to Error and delivers EventError with
// the failure message. Close may be called at any time from any
// goroutine; it moves a non-terminal Request to Closed, releases its
// connection, and suppresses any event a background step would still
// have delivered.
//
// Each state transition is committed with a compare-and-set on the state
// field, and only if the Request is still in the state the transition
// starts from. A background step that finds the Request already ended
// discards its result. So no event kind is delivered twice, and
// EventConnected is always delivered before EventDone or EventError.
//
// A failed Request is not retried. Open a new one instead.
type Request struct {
	id        string
	transport Transport
	sink      Sink
	deadline  time.Duration
	log       logrus.FieldLogger

	state atomic.Int32

	// lock serializes transitions with the handle changes and the
	// Connected event that accompany them.
	lock     sync.Mutex
	plan     request.Plan
	started  bool
	fetching bool
	session  Session
	body     io.ReadCloser
	timer    *time.Timer
}

// ID returns the opaque identifier of the Request, unique among all
// requests.
func (r *Request) ID() string {
	return r.id
}

// State returns the current state of the Request. It never blocks.
func (r *Request) State() State {
	return State(r.state.Load())
}

// Plan returns a copy of the Request's plan. Once the request body has
// been handed to the transport, the returned plan's Body is nil.
func (r *Request) Plan() request.Plan {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.plan
}

// Start schedules the connect step on a new goroutine and returns
// immediately.
//
// The connect step sends the request. If the server answers 200 OK, the
// Request moves to Connected and EventConnected is delivered. If the
// exchange fails, or the server answers with any other status, the
// Request moves to Error and EventError is delivered.
//
// Start returns ErrNotOpened without doing any I/O if the Request was
// already started or has left the Opened state.
func (r *Request) Start() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.started || r.State() != Opened {
		return ErrNotOpened
	}
	r.started = true
	if timeout.Finite(r.deadline) {
		r.timer = time.AfterFunc(r.deadline, r.expire)
	}
	go r.connect()
	return nil
}

// ReadAll schedules the fetch step on a new goroutine and returns
// immediately.
//
// The fetch step reads the rest of the response body in the background
// while the Request is in Fetching. When the body has been read, the
// Request moves to Done and EventDone is delivered with the body. If the
// read fails, the Request moves to Error and EventError is delivered.
//
// ReadAll returns ErrNotConnected without doing any I/O if the Request
// is not Connected or ReadAll was already called.
//
// ReadAll and Stream read from the same response body. Use one or the
// other; interleaving them is the caller's responsibility and gives
// undefined results.
func (r *Request) ReadAll() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.fetching || r.State() != Connected {
		return ErrNotConnected
	}
	r.fetching = true
	go r.fetch()
	return nil
}

// Stream returns a reader over the response body of the Request, for
// consuming the body incrementally instead of with ReadAll.
func (r *Request) Stream() *Stream {
	return &Stream{r: r}
}

// Close ends the Request and releases its resources.
//
// If the Request is not in a terminal state, it moves to Closed and no
// further event is delivered for it. If it is already Done or Error,
// its state is kept. In every case the response body is closed and the
// session is shut down; errors doing so are ignored.
//
// Close does not wait for a background step to finish. A step blocked
// reading from the network fails once its connection is released, and
// its failure is discarded. Close may be called any number of times.
func (r *Request) Close() {
	r.lock.Lock()
	if from := r.State(); !from.Terminal() {
		r.transition(from, Closed)
	}
	res := r.detach()
	r.lock.Unlock()
	r.release(res)
}

func (r *Request) connect() {
	r.lock.Lock()
	if r.State() != Opened {
		r.lock.Unlock()
		r.log.Debug("Connect skipped, request already ended")
		return
	}
	if r.session == nil {
		r.session = r.transport.NewSession()
	}
	session := r.session
	hr, err := r.plan.ToRequest(context.Background())
	r.plan.Body = nil
	r.lock.Unlock()
	if err != nil {
		r.fail(err)
		return
	}

	resp, err := session.Do(hr)
	if err != nil {
		r.fail(err)
		return
	}
	body := resp.Body
	if body == nil {
		body = http.NoBody
	}
	if resp.StatusCode != http.StatusOK {
		_ = body.Close()
		r.log.WithField("status", resp.StatusCode).Warn("Unexpected response status")
		r.fail(&StatusError{StatusCode: resp.StatusCode, Status: resp.Status})
		return
	}

	r.lock.Lock()
	defer r.lock.Unlock()
	if !r.transition(Opened, Connected) {
		_ = body.Close()
		r.log.Debug("Response discarded, request already ended")
		return
	}
	r.body = body
	r.sink.Enqueue(Event{Request: r, Kind: EventConnected})
}

func (r *Request) fetch() {
	r.lock.Lock()
	body := r.body
	if body == nil || !r.transition(Connected, Fetching) {
		r.lock.Unlock()
		r.log.WithError(ErrNotConnected).Debug("Fetch skipped")
		return
	}
	r.lock.Unlock()

	b, err := readChunks(body)
	if err != nil {
		r.fail(err)
		return
	}

	r.lock.Lock()
	if !r.transition(Fetching, Done) {
		r.lock.Unlock()
		r.log.Debug("Body discarded, request already ended")
		return
	}
	res := r.detach()
	r.lock.Unlock()
	r.release(res)
	r.sink.Enqueue(Event{Request: r, Kind: EventDone, Body: b})
}

func (r *Request) expire() {
	r.fail(&deadlineError{d: r.deadline})
}

// fail moves a non-terminal Request to Error, releases its resources and
// delivers EventError. It reports whether the transition was applied.
func (r *Request) fail(err error) bool {
	r.lock.Lock()
	from := r.State()
	if from.Terminal() || !r.transition(from, Error) {
		r.lock.Unlock()
		r.log.WithError(err).WithField("state", from).Debug("Failure discarded, request already ended")
		return false
	}
	res := r.detach()
	r.lock.Unlock()
	r.release(res)
	r.sink.Enqueue(Event{
		Request:  r,
		Kind:     EventError,
		Message:  err.Error(),
		Category: transient.Categorize(err),
	})
	return true
}

// transition sets the state to `to` only if it is currently `from`, and
// reports whether it did. The caller must hold r.lock.
func (r *Request) transition(from, to State) bool {
	return r.state.CompareAndSwap(int32(from), int32(to))
}

type resources struct {
	session Session
	body    io.ReadCloser
	timer   *time.Timer
}

// detach takes the Request's resources out of it. The caller must hold
// r.lock.
func (r *Request) detach() resources {
	res := resources{session: r.session, body: r.body, timer: r.timer}
	r.session = nil
	r.body = nil
	r.timer = nil
	return res
}

func (r *Request) release(res resources) {
	if res.timer != nil {
		res.timer.Stop()
	}
	var result *multierror.Error
	if res.body != nil {
		if err := res.body.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if res.session != nil {
		if ic, ok := res.session.(IdleCloser); ok {
			ic.CloseIdleConnections()
		}
		if err := res.session.Shutdown(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		r.log.WithError(err).Debug("Ignored errors releasing request")
	}
}

func readChunks(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	chunk := make([]byte, chunkSize)
	for {
		n, err := r.Read(chunk)
		buf.Write(chunk[:n])
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
	}
	b := buf.Bytes()
	if b == nil {
		b = []byte{}
	}
	return b, nil
}
