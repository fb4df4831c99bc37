// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process is the single place where ipcbridge binaries write a
// diagnostic to stderr and terminate.
//
// The bridge's stdout is reserved for the one encoded value the host
// reads back, so nothing else in the repository prints or exits on its
// own: commands return errors, and main hands them to Exit.
package process
