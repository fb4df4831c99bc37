// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package abi converts strings to and from the Solidity ABI encoding the
// host environment decodes from the bridge's stdout.
//
// Only the single-string shape is needed: `init` prints its channel
// address as an encoded string, and companions encode their replies the
// same way. Values are exchanged as 0x-prefixed hex text.
package abi
