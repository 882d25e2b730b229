// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gogama/asynchttp/request"
	"github.com/gogama/asynchttp/timeout"
)

// A Runner opens asynchronous requests and supplies them with the
// collaborators their background steps need. Its zero value is a valid
// configuration.
//
// The zero value Runner uses DefaultTransport, discards every event,
// logs to the logrus standard logger, and sets no deadline on requests.
// A host that wants to observe events sets Sink, typically to a Queue it
// drains from its event loop.
//
// A Runner holds no per-request state. Each Request captures the
// Runner's configuration when it is opened, so changing a Runner's
// fields only affects requests opened afterward. Runner is safe for
// concurrent use by multiple goroutines as long as its fields are not
// modified concurrently.
type Runner struct {
	// Transport creates the session each Request uses for its HTTP
	// exchange.
	//
	// If Transport is nil, DefaultTransport is used.
	Transport Transport
	// Sink receives the lifecycle events of every Request opened by
	// the Runner.
	//
	// If Sink is nil, events are discarded.
	Sink Sink
	// Logger receives diagnostic logging.
	//
	// If Logger is nil, the logrus standard logger is used.
	Logger logrus.FieldLogger
	// TimeoutPolicy optionally layers a deadline on requests. When it
	// returns a finite duration for a plan, a started Request that has
	// not reached a terminal state within that duration fails with a
	// timeout error.
	//
	// If TimeoutPolicy is nil, timeout.DefaultPolicy is used, which
	// never times out.
	TimeoutPolicy timeout.Policy
}

// Open creates a Request for plan p in the Opened state. The Request
// takes a copy of p, so later changes to p do not affect it. Nothing is
// sent until the Request is started.
func (rn *Runner) Open(p *request.Plan) *Request {
	if p == nil {
		panic("asynchttp: nil plan")
	}

	r := &Request{
		id:        uuid.NewString(),
		transport: rn.transport(),
		sink:      rn.sink(),
		deadline:  rn.timeoutPolicy().Timeout(p),
		plan:      *p,
	}
	r.plan.Header = p.Header.Clone()
	r.log = rn.logger().WithFields(logrus.Fields{
		"request": r.id,
		"plan":    p.String(),
	})
	return r
}

// Get opens and starts a GET request for the specified URL.
//
// To set an Authorization header, use request.NewPlan, Open, and
// Request.Start.
func (rn *Runner) Get(url string) (*Request, error) {
	return Get(rn, url)
}

// Post opens and starts a POST request for the specified URL.
//
// The body parameter may be nil for an empty body, or may be any of the
// types supported by request.NewPlan, namely: string; []byte; io.Reader;
// and io.ReadCloser.
func (rn *Runner) Post(url, contentType string, body interface{}) (*Request, error) {
	return Post(rn, url, contentType, body)
}

func (rn *Runner) transport() Transport {
	if rn.Transport == nil {
		return DefaultTransport
	}
	return rn.Transport
}

func (rn *Runner) sink() Sink {
	if rn.Sink == nil {
		return Discard
	}
	return rn.Sink
}

func (rn *Runner) logger() logrus.FieldLogger {
	if rn.Logger == nil {
		return logrus.StandardLogger()
	}
	return rn.Logger
}

func (rn *Runner) timeoutPolicy() timeout.Policy {
	if rn.TimeoutPolicy == nil {
		return timeout.DefaultPolicy
	}
	return rn.TimeoutPolicy
}
