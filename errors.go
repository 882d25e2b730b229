// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrNotConnected is returned when a Request is asked to read its
	// response but has no established response stream: ReadAll was
	// called outside the Connected state or twice, or Stream was read
	// before Connected or after the stream was released.
	ErrNotConnected = errors.New("asynchttp: not connected")

	// ErrNotOpened is returned by Request.Start when the Request was
	// already started or is no longer in the Opened state.
	ErrNotOpened = errors.New("asynchttp: not opened")
)

// A ReadError is returned by Stream when reading the response body
// fails. It never wraps io.EOF; the end of the body is reported as
// io.EOF itself.
type ReadError struct {
	Err error
}

func (err *ReadError) Error() string {
	return "asynchttp: read: " + err.Err.Error()
}

// Unwrap returns the underlying read failure.
func (err *ReadError) Unwrap() error {
	return err.Err
}

// A StatusError is the failure recorded when the server answers with any
// status other than 200 OK.
type StatusError struct {
	StatusCode int
	Status     string
}

func (err *StatusError) Error() string {
	status := err.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", err.StatusCode, http.StatusText(err.StatusCode))
	}
	return "unexpected status: " + status
}

// deadlineError fails a Request whose timeout policy deadline passed.
type deadlineError struct {
	d time.Duration
}

func (err *deadlineError) Error() string {
	return fmt.Sprintf("asynchttp: deadline of %s exceeded", err.d)
}

func (err *deadlineError) Timeout() bool {
	return true
}
