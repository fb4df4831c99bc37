// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"testing"
)

// HelperProcessEnv is the environment variable that marks a re-executed
// test binary as a helper process. Its value names the helper role.
const HelperProcessEnv = "IPCBRIDGE_TEST_HELPER"

// SelfBinary returns the absolute path of the running test binary.
func SelfBinary(t *testing.T) string {
	t.Helper()
	path, err := os.Executable()
	if err != nil {
		t.Fatalf("os.Executable: %v", err)
	}
	return path
}

// IsHelperProcess reports whether this process was launched as the
// helper named role. Call it first thing in TestMain.
func IsHelperProcess(role string) bool {
	return os.Getenv(HelperProcessEnv) == role
}
