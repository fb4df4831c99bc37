// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil classifies local-socket errors.
//
// The connector uses IsNotListening to describe why a handshake attempt
// failed (no socket yet, or a socket nobody accepts on) and
// IsPermissionDenied to add a hint when the socket exists but is not
// ours. The companion server uses IsExpectedCloseError to keep normal
// peer hang-ups out of its warning log.
package netutil
