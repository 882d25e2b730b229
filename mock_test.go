// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

import (
	"bytes"
	"io"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockTransport struct {
	mock.Mock
}

func newMockTransport(t *testing.T) *mockTransport {
	m := &mockTransport{}
	m.Test(t)
	return m
}

func (m *mockTransport) NewSession() Session {
	args := m.Called()
	return args.Get(0).(Session)
}

type mockSession struct {
	mock.Mock
}

func newMockSession(t *testing.T) *mockSession {
	m := &mockSession{}
	m.Test(t)
	return m
}

func (m *mockSession) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	err := args.Error(1)
	if resp, ok := args.Get(0).(*http.Response); ok {
		return resp, err
	}
	return nil, err
}

func (m *mockSession) Shutdown() error {
	args := m.Called()
	return args.Error(0)
}

type mockSessionWithCloseIdleConnections struct {
	mockSession
}

func newMockSessionWithCloseIdleConnections(t *testing.T) *mockSessionWithCloseIdleConnections {
	m := &mockSessionWithCloseIdleConnections{}
	m.Test(t)
	return m
}

func (m *mockSessionWithCloseIdleConnections) CloseIdleConnections() {
	m.Called()
}

// fakeSession answers every request with 200 OK and a fixed body.
type fakeSession struct {
	body      []byte
	shutdowns int32
}

func (s *fakeSession) Do(_ *http.Request) (*http.Response, error) {
	return ok(newTestBody(s.body)), nil
}

func (s *fakeSession) Shutdown() error {
	atomic.AddInt32(&s.shutdowns, 1)
	return nil
}

// testBody is a response body that counts how often it is closed.
type testBody struct {
	io.Reader
	closes   int32
	closeErr error
}

func newTestBody(b []byte) *testBody {
	return &testBody{Reader: bytes.NewReader(b)}
}

func (b *testBody) Close() error {
	atomic.AddInt32(&b.closes, 1)
	return b.closeErr
}

func (b *testBody) closeCount() int {
	return int(atomic.LoadInt32(&b.closes))
}

// blockingBody blocks every read until it is closed, then fails the
// read the way a closed network connection does.
type blockingBody struct {
	closed chan struct{}
	once   sync.Once
}

func newBlockingBody() *blockingBody {
	return &blockingBody{closed: make(chan struct{})}
}

func (b *blockingBody) Read(_ []byte) (int, error) {
	<-b.closed
	return 0, net.ErrClosed
}

func (b *blockingBody) Close() error {
	b.once.Do(func() { close(b.closed) })
	return nil
}

// errBody fails every read with err.
type errBody struct {
	err    error
	closes int32
}

func (b *errBody) Read(_ []byte) (int, error) {
	return 0, b.err
}

func (b *errBody) Close() error {
	atomic.AddInt32(&b.closes, 1)
	return nil
}

func ok(body io.ReadCloser) *http.Response {
	return &http.Response{StatusCode: 200, Status: "200 OK", Body: body}
}

// chanSink collects events in a buffered channel.
type chanSink chan Event

func newChanSink() chanSink {
	return make(chanSink, 1024)
}

func (s chanSink) Enqueue(e Event) {
	s <- e
}

func (s chanSink) next(t *testing.T) Event {
	t.Helper()
	select {
	case e := <-s:
		return e
	case <-time.After(5 * time.Second):
		require.FailNow(t, "timed out waiting for event")
		return Event{}
	}
}

func (s chanSink) drain() []Event {
	var evts []Event
	for {
		select {
		case e := <-s:
			evts = append(evts, e)
		default:
			return evts
		}
	}
}

func newTestRunner(tr Transport, sink Sink) (*Runner, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return &Runner{Transport: tr, Sink: sink, Logger: logger}, hook
}

func hasEntry(hook *logtest.Hook, level logrus.Level, msg string) bool {
	for _, entry := range hook.AllEntries() {
		if entry.Level == level && entry.Message == msg {
			return true
		}
	}
	return false
}
