// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

import (
	"errors"
	"io"
)

// A Stream reads the response body of a Request directly from the
// network, one call at a time, bypassing the buffering done by ReadAll.
// Get one from Request.Stream.
//
// Every read blocks the calling goroutine until data arrives. A read
// before the Request is Connected, or after its body has been released
// (because it was closed, failed, or completed ReadAll), returns
// ErrNotConnected. The end of the body is reported as io.EOF, and any
// other failure as a *ReadError.
//
// Stream and Request.ReadAll are mutually exclusive ways of consuming
// the same body. The Request does not arbitrate between them; mixing
// them gives undefined results.
type Stream struct {
	r *Request
}

func (s *Stream) handle() (io.Reader, error) {
	s.r.lock.Lock()
	defer s.r.lock.Unlock()
	if s.r.body == nil {
		return nil, ErrNotConnected
	}
	return s.r.body, nil
}

// Read reads up to len(p) bytes of the response body into p.
func (s *Stream) Read(p []byte) (int, error) {
	body, err := s.handle()
	if err != nil {
		return 0, err
	}
	n, err := body.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, &ReadError{Err: err}
	}
	return n, err
}

// ReadByte reads the next byte of the response body.
func (s *Stream) ReadByte() (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(s, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadRune reads the next byte of the response body and returns it as a
// rune, with a size of 1. It does not decode UTF-8; each byte is one
// Latin-1 character.
func (s *Stream) ReadRune() (rune, int, error) {
	b, err := s.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	return rune(b), 1, nil
}
