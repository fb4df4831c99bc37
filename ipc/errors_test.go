// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ipc

import (
	"errors"
	"fmt"
	"syscall"
	"testing"
)

func TestKindExitCodesAreDistinct(t *testing.T) {
	t.Parallel()
	seen := make(map[int]Kind)
	for _, kind := range []Kind{KindUsage, KindConnect, KindTransport, KindProtocol, KindLaunch} {
		code := kind.ExitCode()
		if code == 0 || code == 1 {
			t.Errorf("%v exit code %d collides with success or generic failure", kind, code)
		}
		if previous, ok := seen[code]; ok {
			t.Errorf("%v and %v share exit code %d", kind, previous, code)
		}
		seen[code] = kind
	}
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()
	err := &Error{
		Kind:     KindConnect,
		Op:       "connect",
		Address:  "/tmp/app.world-3",
		Attempts: 301,
		Err:      syscall.ECONNREFUSED,
	}
	want := "connect /tmp/app.world-3 (after 301 attempts): connection refused"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestKindOfThroughWrapping(t *testing.T) {
	t.Parallel()
	wrapped := fmt.Errorf("exec: %w", &Error{Kind: KindProtocol, Op: "receive", Err: ErrFrameTooLarge})
	if got := KindOf(wrapped); got != KindProtocol {
		t.Errorf("KindOf = %v, want protocol", got)
	}
	if !errors.Is(wrapped, ErrFrameTooLarge) {
		t.Error("wrapped error should still match ErrFrameTooLarge")
	}
	if KindOf(errors.New("plain")) != 0 {
		t.Error("KindOf on a plain error should be 0")
	}
}

func TestUsageError(t *testing.T) {
	t.Parallel()
	err := UsageError("exec", "expected %d arguments, got %d", 2, 1)
	if err.Kind != KindUsage || err.ExitCode() != 2 {
		t.Errorf("UsageError = %+v", err)
	}
	if got := err.Error(); got != "exec: expected 2 arguments, got 1" {
		t.Errorf("Error() = %q", got)
	}
}
