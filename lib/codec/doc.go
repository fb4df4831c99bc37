// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the CBOR configuration shared by the bridge and
// companion sides of the envelope wire format.
//
// The default line protocol carries plain text and never touches this
// package. When both sides opt into the envelope format, each frame
// body is a CBOR map encoded here. The encoder uses Core Deterministic
// Encoding (RFC 8949 §4.2), so the same frame always produces the same
// bytes, which keeps wire-level tests exact.
//
// Types that travel in envelopes carry `cbor` struct tags only.
package codec
