// Copyright 2026 The Trino Go Authors.
//
// Use of this software is governed by the Apache License, Version 2.0,
// included in the /LICENSE file.

package opt

import (
	"runtime"

	"github.com/cockroachdb/errors"
)

// CatchOptimizerError converts a panic recovered at an optimizer entry point
// into an error. The memo propagates invariant violations internally as
// panics carrying assertion errors rather than threading error returns
// through every mutation path; this is safe because memo code updates no
// shared state and holds no locks. A driver wraps each optimization pass
// with:
//
//	defer func() {
//		if r := recover(); r != nil {
//			err = opt.CatchOptimizerError(r)
//		}
//	}()
func CatchOptimizerError(r interface{}) error {
	err, ok := r.(error)
	if !ok {
		// Not an error object, e.g. a string thrown by the go runtime for
		// unrecoverable conditions. We cannot assume recovery is possible, so
		// keep crashing.
		panic(r)
	}
	if errors.HasInterface(err, (*runtime.Error)(nil)) {
		// Convert runtime errors (nil dereference, index out of range, ...)
		// to assertion failures so that they carry a stack trace.
		return errors.HandleAsAssertionFailure(err)
	}
	return err
}
