// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

import (
	"context"
	"net/http"
	"time"
)

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	//
	// The Do method must follow the contract documented on the GoLang
	// standard library http.Client from the net/http package.
	Do(r *http.Request) (*http.Response, error)
}

// IdleCloser is the interface that wraps the basic CloseIdleConnections
// method.
//
// When a Session implements IdleCloser, its idle connections are closed
// before it is shut down.
type IdleCloser interface {
	CloseIdleConnections()
}

// A Session performs the HTTP exchange of exactly one Request. The
// Request that created it owns it exclusively and shuts it down when the
// Request reaches a terminal state or is closed.
//
// Shutdown releases the session's connections. It must make any
// in-flight Do call, and any read of a response body obtained from the
// session, fail promptly. Shutdown errors are logged and otherwise
// ignored.
type Session interface {
	HTTPDoer
	Shutdown() error
}

// A Transport creates sessions. It is the capability a Runner uses to
// reach the network, and the seam to replace with a test double.
//
// Implementations of Transport must be safe for concurrent use by
// multiple goroutines.
type Transport interface {
	NewSession() Session
}

// The TransportFunc type is an adapter to allow the use of ordinary
// functions as transports.
type TransportFunc func() Session

// NewSession calls f().
func (f TransportFunc) NewSession() Session {
	return f()
}

// DefaultIdleGrace is the idle grace period used by HTTPTransport when
// IdleGrace is zero.
const DefaultIdleGrace = time.Second

// DefaultTransport is the Transport used by a Runner whose Transport
// is nil.
var DefaultTransport Transport = &HTTPTransport{}

// HTTPTransport is a Transport backed by the net/http package. Every
// session gets its own http.Transport, cloned from Base, so no two
// requests share a connection. Its zero value is a valid configuration.
type HTTPTransport struct {
	// Base is the transport cloned for each session. If Base is nil,
	// http.DefaultTransport is cloned, or a plain http.Transport is used
	// if http.DefaultTransport has been replaced by another RoundTripper.
	Base *http.Transport

	// IdleGrace is how long an idle connection of a session may linger
	// before it is closed. If IdleGrace is zero, DefaultIdleGrace is used.
	IdleGrace time.Duration
}

// NewSession returns a new session with a private connection pool.
func (t *HTTPTransport) NewSession() Session {
	base := t.Base
	if base == nil {
		var ok bool
		if base, ok = http.DefaultTransport.(*http.Transport); !ok {
			base = &http.Transport{Proxy: http.ProxyFromEnvironment}
		}
	}
	grace := t.IdleGrace
	if grace == 0 {
		grace = DefaultIdleGrace
	}
	tr := base.Clone()
	tr.IdleConnTimeout = grace
	ctx, cancel := context.WithCancel(context.Background())
	return &httpSession{
		client:    &http.Client{Transport: tr},
		transport: tr,
		ctx:       ctx,
		cancel:    cancel,
	}
}

type httpSession struct {
	client    *http.Client
	transport *http.Transport
	ctx       context.Context
	cancel    context.CancelFunc
}

func (s *httpSession) Do(r *http.Request) (*http.Response, error) {
	return s.client.Do(r.WithContext(s.ctx))
}

func (s *httpSession) CloseIdleConnections() {
	s.transport.CloseIdleConnections()
}

// Shutdown cancels the session context, which aborts any in-flight
// exchange and body read, then drops the idle connections.
func (s *httpSession) Shutdown() error {
	s.cancel()
	s.transport.CloseIdleConnections()
	return nil
}
