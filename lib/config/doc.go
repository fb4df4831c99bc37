// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for ipcbridge.
//
// Configuration comes from at most one file, named by the --config flag
// (via [LoadFile]) or the IPCBRIDGE_CONFIG environment variable (via
// [Load]). There is no discovery and no search path. Unlike most
// services, the bridge runs fine without a file: the host environment
// launches it with a fixed argument list, so [Load] falls back to
// [Default] when IPCBRIDGE_CONFIG is unset, and the defaults are the
// protocol's documented policy (300 handshake retries at 10ms, no
// retries for exec and terminate, unbounded reply wait).
//
// Files ending in .json or .jsonc are parsed as JSON with comments and
// trailing commas; everything else is YAML. Unknown keys are errors.
//
// ${HOME}, ${TMPDIR} and ${VAR:-default} patterns are expanded in path
// fields (namer.dir, log.file) after loading.
//
// This package depends on no other ipcbridge packages.
package config
