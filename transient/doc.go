// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient classifies the errors that end asynchronous
// requests, so that hosts can react to a failure without inspecting raw
// transport error types.
package transient
