// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for the ipcbridge binaries.
//
// Values are injected at build time via -ldflags, for example:
//
//	go build -ldflags "-X github.com/bureau-foundation/ipcbridge/lib/version.GitCommit=$(git rev-parse --short HEAD)" ./cmd/ipcbridge
package version
