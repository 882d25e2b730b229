// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package asynchttp provides asynchronous HTTP requests for hosts built
around a single-threaded event loop, such as a sketch runtime that runs
user code once per frame.

Network I/O never runs on the host's goroutine. Each Request executes
its steps on background goroutines and reports progress by pushing
events to a Sink, which the host drains on its own schedule:

	queue := &asynchttp.Queue{}
	runner := &asynchttp.Runner{Sink: queue}
	r, err := runner.Get("https://example.com/level.json")
	...
	// Once per frame:
	queue.Drain(func(e asynchttp.Event) {
		switch e.Kind {
		case asynchttp.EventConnected:
			_ = e.Request.ReadAll()
		case asynchttp.EventDone:
			load(e.Body)
		case asynchttp.EventError:
			show(e.Message)
		}
	})

A Request moves through the states Opened, Connected, Fetching and Done,
or escapes to Error or Closed. The terminal states are Done, Error and
Closed. Every transition is guarded, so a background step racing with
Close never advances a closed Request or delivers an event for it.

To read a response incrementally instead of buffering it, use
Request.Stream once the Request is Connected:

	b, err := r.Stream().ReadByte()

For control over how requests reach the network, set a custom
Transport. HTTPTransport, the default, gives every Request its own
net/http connection pool:

	runner := &asynchttp.Runner{
		Transport: &asynchttp.HTTPTransport{IdleGrace: 500 * time.Millisecond},
	}

The engine never times a request out and never retries one. To bound
latency, set a timeout policy from package timeout, or call Close after
a deadline of your own. To retry, open a new Request.
*/
package asynchttp
