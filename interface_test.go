// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/gogama/asynchttp/timeout"
)

func TestGet(t *testing.T) {
	t.Run("started", func(t *testing.T) {
		defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
		sink := newChanSink()
		rn, _ := newTestRunner(TransportFunc(func() Session { return &fakeSession{} }), sink)

		r, err := Get(rn, "http://example.com/x")
		require.NoError(t, err)
		require.NotNil(t, r)
		assert.Equal(t, "GET", r.Plan().Method())
		assert.Equal(t, EventConnected, sink.next(t).Kind)
		r.Close()
	})
	t.Run("invalid url", func(t *testing.T) {
		rn, _ := newTestRunner(newMockTransport(t), newChanSink())
		r, err := Get(rn, "")
		assert.Nil(t, r)
		assert.Error(t, err)
	})
}

func TestPost(t *testing.T) {
	testCases := []struct {
		name        string
		contentType string
		body        interface{}
		wantType    string
		wantBody    string
	}{
		{
			name:        "content type",
			contentType: "application/json",
			body:        []byte(`{}`),
			wantType:    "application/json",
			wantBody:    `{}`,
		},
		{
			name:     "default content type",
			body:     "abc",
			wantType: "application/octet-stream",
			wantBody: "abc",
		},
		{
			name:     "nil body",
			wantType: "application/octet-stream",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
			session := newMockSession(t)
			session.On("Do", mock.MatchedBy(func(req *http.Request) bool {
				return req.Method == "POST" && req.Header.Get("Content-Type") == testCase.wantType
			})).Return(ok(newTestBody(nil)), nil).Once()
			session.On("Shutdown").Return(nil).Once()
			sink := newChanSink()
			rn, _ := newTestRunner(TransportFunc(func() Session { return session }), sink)

			r, err := Post(rn, "http://example.com/x", testCase.contentType, testCase.body)
			require.NoError(t, err)
			if testCase.wantBody != "" {
				assert.Equal(t, []byte(testCase.wantBody), r.Plan().Body)
			}
			assert.Equal(t, EventConnected, sink.next(t).Kind)
			r.Close()
			session.AssertExpectations(t)
		})
	}
	t.Run("invalid body", func(t *testing.T) {
		rn, _ := newTestRunner(newMockTransport(t), newChanSink())
		r, err := Post(rn, "http://example.com/x", "text/plain", 42)
		assert.Nil(t, r)
		assert.Error(t, err)
	})
}

func TestRunner(t *testing.T) {
	t.Run("zero value", func(t *testing.T) {
		rn := &Runner{}
		assert.Same(t, DefaultTransport, rn.transport())
		assert.NotNil(t, rn.sink())
		assert.NotNil(t, rn.logger())
		assert.NotNil(t, rn.timeoutPolicy())

		r := rn.Open(mustPlan(t, "http://example.com/x", "", nil, ""))
		assert.Equal(t, Opened, r.State())
		assert.False(t, timeout.Finite(r.deadline))
		r.Close()
		assert.Equal(t, Closed, r.State())
	})
	t.Run("nil plan", func(t *testing.T) {
		assert.PanicsWithValue(t, "asynchttp: nil plan", func() {
			(&Runner{}).Open(nil)
		})
	})
	t.Run("plan copied", func(t *testing.T) {
		p := mustPlan(t, "http://example.com/x", "", nil, "")
		p.Header = http.Header{"X-A": []string{"1"}}
		r := (&Runner{}).Open(p)
		p.Header.Set("X-A", "2")
		p.URL = nil
		assert.Equal(t, "1", r.Plan().Header.Get("X-A"))
		assert.NotNil(t, r.Plan().URL)
	})
	t.Run("unique ids", func(t *testing.T) {
		rn := &Runner{}
		p := mustPlan(t, "http://example.com/x", "", nil, "")
		assert.NotEqual(t, rn.Open(p).ID(), rn.Open(p).ID())
	})
	t.Run("timeout policy", func(t *testing.T) {
		rn := &Runner{TimeoutPolicy: timeout.ByMethod(time.Second, time.Minute)}
		get := rn.Open(mustPlan(t, "http://example.com/x", "", nil, ""))
		post := rn.Open(mustPlan(t, "http://example.com/x", "text/plain", "x", ""))
		assert.Equal(t, time.Second, get.deadline)
		assert.Equal(t, time.Minute, post.deadline)
	})
}

var (
	_ Opener = &Runner{}
	_ Getter = &Runner{}
	_ Poster = &Runner{}
)
