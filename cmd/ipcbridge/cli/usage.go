// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// UsageExitCode is the exit status for command-line mistakes.
const UsageExitCode = 2

// UsageError is a malformed command line: unknown command, unknown
// flag, or a bad flag value.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string { return e.Message }

// ExitCode implements the interface lib/process checks.
func (e *UsageError) ExitCode() int { return UsageExitCode }

func usagef(format string, args ...any) error {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}
