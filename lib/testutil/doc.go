// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for ipcbridge packages.
//
// [SocketDir] creates a short directory under /tmp for Unix sockets,
// because sun_path is limited to 108 bytes and t.TempDir() paths can
// exceed it.
//
// [SelfBinary] and [IsHelperProcess] implement the re-exec pattern the
// end-to-end tests use to run a stub companion: the test binary is
// launched again with a marker in its environment, and TestMain hands
// control to the stub instead of running tests.
//
// [RequireReceive] wraps the select-with-timeout safety valve so tests
// never hang forever on a channel.
//
// All helpers call t.Fatalf on failure.
package testutil
