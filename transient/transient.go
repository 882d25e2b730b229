// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// A Category is the transience category of the error that ended an
// asynchronous request, as reported by Categorize.
//
// The host never sees the raw error that failed a request, only its
// message and its Category. The category tells a sketch whether issuing
// a new request for the same URL has any prospect of success.
type Category int

const (
	// Not indicates any non-transient error, and the nil error.
	Not Category = iota
	// Timeout indicates a timeout, either inside the transport or from
	// a deadline layered on the request.
	//
	// Categorize returns Timeout if the error or any of its wrapped
	// causes has a Timeout() function that reports true.
	Timeout
	// ConnRefused indicates the remote host refused the connection
	// (POSIX ECONNREFUSED). The remote service may be restarting.
	ConnRefused
	// ConnReset indicates the remote host reset a previously active
	// connection (POSIX ECONNRESET).
	ConnReset
	// Canceled indicates the request's resources were released while an
	// operation was still in flight, for example because the request was
	// closed during a read.
	Canceled
)

var categoryNames = []string{
	"Not",
	"Timeout",
	"ConnRefused",
	"ConnReset",
	"Canceled",
}

// String returns the name of the category.
func (cat Category) String() string {
	if cat < 0 || int(cat) >= len(categoryNames) {
		return "Unknown"
	}
	return categoryNames[cat]
}

// Categorize returns the transience category of err, looking through
// wrapped causes. Timeout takes precedence over every other category.
// Categorize never consults a Temporary() method.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET:
			return ConnReset
		case syscall.ECONNREFUSED:
			return ConnRefused
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, net.ErrClosed) {
		return Canceled
	}

	return Not
}

type hasTimeout interface {
	Timeout() bool
}
