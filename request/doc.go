// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains Plan, the construction parameters of an
asynchronous HTTP request.

A Plan carries the target URL, an optional content type, an optional
pre-buffered body and an optional Authorization header value. The
content type doubles as the method selector: a plan with a content type
is sent as a POST carrying its body, and a plan without one is sent as a
GET.

	p, err := request.NewPlan("https://example.com/scores", "application/json",
		`{"score":42}`, "Bearer abc")
	...
	r := runner.Open(p)

Plans are validated when constructed. The URL must parse, and the
content type and authorization values must be legal HTTP header field
values.
*/
package request
