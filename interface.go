// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

import "github.com/gogama/asynchttp/request"

// Opener is the interface that wraps the basic Open method.
//
// Open creates a Request for a plan in the Opened state, without
// starting it. Runner implements the Opener interface.
//
// Any Opener can be used to emulate Get and Post via the Get and Post
// functions.
type Opener interface {
	Open(p *request.Plan) *Request
}

// Getter is the interface that wraps the basic Get method.
//
// Get opens and starts a GET request to the specified URL. Runner
// implements the Getter interface.
type Getter interface {
	Get(url string) (*Request, error)
}

// Poster is the interface that wraps the basic Post method.
//
// Post opens and starts a POST request to the specified URL. Runner
// implements the Poster interface.
type Poster interface {
	Post(url, contentType string, body interface{}) (*Request, error)
}

// Get uses the specified Opener to open a GET request to the specified
// URL, and starts it.
func Get(o Opener, url string) (*Request, error) {
	p, err := request.NewPlan(url, "", nil, "")
	if err != nil {
		return nil, err
	}
	return start(o.Open(p))
}

// Post uses the specified Opener to open a POST request to the specified
// URL, and starts it.
//
// An empty contentType is replaced with "application/octet-stream",
// since a plan without a content type would be sent as a GET.
func Post(o Opener, url, contentType string, body interface{}) (*Request, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	p, err := request.NewPlan(url, contentType, body, "")
	if err != nil {
		return nil, err
	}
	return start(o.Open(p))
}

func start(r *Request) (*Request, error) {
	if err := r.Start(); err != nil {
		return nil, err
	}
	return r, nil
}
