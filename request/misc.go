// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"fmt"
	"io"
)

// BodyBytes converts a generic body parameter to a byte slice for use
// as a plan body.
//
// The body parameter may be nil, a string, a []byte, an io.Reader, or an
// io.ReadCloser:
//
// • nil yields a nil slice.
//
// • A []byte is returned as is, without copying.
//
// • A string is converted with the built-in conversion.
//
// • A reader is read to the end. A ReadCloser is also closed, and a
// failure to close is reported like a failure to read. On any failure
// the slice is nil.
//
// Any other type is an error.
func BodyBytes(body interface{}) ([]byte, error) {
	switch x := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return x, nil
	case string:
		return []byte(x), nil
	case io.ReadCloser:
		b, err := io.ReadAll(x)
		if cerr := x.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, err
		}
		return b, nil
	case io.Reader:
		return io.ReadAll(x)
	default:
		return nil, fmt.Errorf("asynchttp/request: invalid body type %T "+
			"(use nil, string, []byte, io.Reader or io.ReadCloser)", body)
	}
}
