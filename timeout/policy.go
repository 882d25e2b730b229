// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"time"

	"github.com/gogama/asynchttp/request"
)

// A Policy decides the deadline for an asynchronous request.
//
// The request engine itself never times a request out: if the transport
// hangs, the background step hangs. A Policy is how a caller layers a
// deadline on top. When a Runner has a policy and the policy returns a
// finite duration for a plan, the request is failed with a timeout error
// once that much time has passed after Start, unless it reached a
// terminal state first.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Timeout returns the deadline to set on a request executing plan p,
	// measured from the moment the request is started. A return value of
	// Infinite, or any non-positive value, means no deadline.
	Timeout(p *request.Plan) time.Duration
}

// Never is the largest representable duration. A Policy returning it
// never arms a deadline.
const Never time.Duration = 1<<63 - 1

// Infinite is a built-in policy which never times out.
var Infinite Policy = Fixed(Never)

// DefaultPolicy is the policy used by a Runner whose TimeoutPolicy is
// nil. It is Infinite, since the engine enforces no timeout of its own.
var DefaultPolicy = Infinite

// Fixed constructs a policy that sets the same deadline on every
// request.
func Fixed(d time.Duration) Policy {
	return fixed(d)
}

type fixed time.Duration

func (f fixed) Timeout(_ *request.Plan) time.Duration {
	return time.Duration(f)
}

// ByMethod constructs a policy that sets one deadline for GET requests
// and another for POST requests, since uploads usually need longer.
func ByMethod(get, post time.Duration) Policy {
	return byMethod{get: get, post: post}
}

type byMethod struct {
	get, post time.Duration
}

func (m byMethod) Timeout(p *request.Plan) time.Duration {
	if p.Method() == "POST" {
		return m.post
	}
	return m.get
}

// Finite reports whether d is a deadline that should be armed.
func Finite(d time.Duration) bool {
	return d > 0 && d < Never
}
