// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// exitCoder is implemented by errors that carry their own exit status.
type exitCoder interface {
	ExitCode() int
}

// Code returns the exit status for err: 0 for nil, the code of the
// first error in the chain that provides one, and 1 otherwise.
func Code(err error) int {
	if err == nil {
		return 0
	}
	var coder exitCoder
	if errors.As(err, &coder) {
		if code := coder.ExitCode(); code != 0 {
			return code
		}
	}
	return 1
}

// Report writes "error: err" to w unless err is nil.
func Report(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}

// Exit reports err on stderr and exits with Code(err). A nil err exits 0.
func Exit(err error) {
	Report(os.Stderr, err)
	os.Exit(Code(err))
}
