// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"

	"golang.org/x/net/http/httpguts"
)

const (
	emptyURLMsg = "asynchttp/request: empty url"
)

// A Plan holds the construction parameters of one asynchronous request:
// where to send it, what to send, and which credential to attach.
//
// The HTTP method is not chosen directly. A Plan with a non-empty
// ContentType is sent as a POST carrying Body; a Plan without one is
// sent as a GET and Body is ignored.
//
// A Plan is a plain value. The asynchronous Request that executes it
// takes its own copy, and clears that copy's Body as soon as the body is
// handed to the transport.
type Plan struct {
	// URL specifies the URL to access.
	URL *urlpkg.URL

	// ContentType is the media type of Body. Its presence selects POST
	// over GET.
	ContentType string

	// Body is the pre-buffered request body. It is only sent when
	// ContentType is set.
	Body []byte

	// Authorization is sent verbatim as the Authorization header when
	// non-empty.
	Authorization string

	// Header contains additional request header fields. It may be nil.
	Header http.Header

	// Close stipulates whether to close the connection after the
	// response is read. NewPlan sets it, so every request is sent with
	// "Connection: close".
	Close bool
}

// NewPlan returns a new Plan given a URL, an optional content type, an
// optional body, and an optional authorization header value.
//
// Parameter body may be nil (empty body), or it may be a string,
// []byte, io.Reader, or io.ReadCloser. If body is an io.Reader, it is
// read to the end and buffered into a []byte. If body is an
// io.ReadCloser, it is closed after buffering. If contentType is empty
// the body is discarded, since a GET carries no body.
func NewPlan(url, contentType string, body interface{}, authorization string) (*Plan, error) {
	if url == "" {
		return nil, errors.New(emptyURLMsg)
	}
	u, err := urlpkg.Parse(url)
	if err != nil {
		return nil, err
	}
	u.Host = removeEmptyPort(u.Host)
	if u.Host != "" && !httpguts.ValidHostHeader(u.Host) {
		return nil, fmt.Errorf("asynchttp/request: invalid host %q", u.Host)
	}
	if !httpguts.ValidHeaderFieldValue(contentType) {
		return nil, fmt.Errorf("asynchttp/request: invalid content type %q", contentType)
	}
	if !httpguts.ValidHeaderFieldValue(authorization) {
		return nil, errors.New("asynchttp/request: invalid authorization value")
	}
	var b []byte
	if contentType != "" {
		b, err = BodyBytes(body)
		if err != nil {
			return nil, err
		}
	}
	return &Plan{
		URL:           u,
		ContentType:   contentType,
		Body:          b,
		Authorization: authorization,
		Close:         true,
	}, nil
}

// Method returns the HTTP method the plan is sent with: "POST" when a
// content type is set, and "GET" otherwise.
func (p Plan) Method() string {
	if p.ContentType != "" {
		return http.MethodPost
	}
	return http.MethodGet
}

// ToRequest creates the HTTP request corresponding to the plan. The
// context of the new request is set to ctx, which may not be nil.
//
// The returned request reads from its own reader over Body, so the
// caller may drop the plan's reference to Body once ToRequest returns.
func (p *Plan) ToRequest(ctx context.Context) (*http.Request, error) {
	method := p.Method()
	var body io.Reader
	if method == http.MethodPost && len(p.Body) > 0 {
		body = bytes.NewReader(p.Body)
	}
	r, err := http.NewRequestWithContext(ctx, method, p.URL.String(), body)
	if err != nil {
		return nil, err
	}
	for k, vs := range p.Header {
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}
	if p.ContentType != "" {
		r.Header.Set("Content-Type", p.ContentType)
	}
	if p.Authorization != "" {
		r.Header.Set("Authorization", p.Authorization)
	}
	r.Close = p.Close
	return r, nil
}

// String returns the method and URL of the plan, for logging.
func (p Plan) String() string {
	if p.URL == nil {
		return p.Method()
	}
	return p.Method() + " " + p.URL.Redacted()
}

// hasPort is lifted verbatim from net/http/http.go
//
// Given a string of the form "host", "host:port", or "[ipv6::address]:port",
// return true if the string includes a port.
func hasPort(s string) bool { return strings.LastIndex(s, ":") > strings.LastIndex(s, "]") }

// removeEmptyPort is lifted verbatim from net/http/http.go
//
// removeEmptyPort strips the empty port in ":port" to ""
// as mandated by RFC 3986 Section 6.2.3.
func removeEmptyPort(host string) string {
	if hasPort(host) {
		return strings.TrimSuffix(host, ":")
	}
	return host
}
