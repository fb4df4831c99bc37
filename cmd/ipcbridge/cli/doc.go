// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the small command framework behind the ipcbridge
// binary: a [Command] tree dispatched by the first positional argument,
// per-command pflag flag sets, help on stderr, and typo suggestions for
// unknown commands and flags.
//
// Flag parsing stops at the first positional argument, so payloads that
// start with "-" reach the command untouched. Mistakes in the command
// line come back as [*UsageError], which carries exit status 2.
package cli
