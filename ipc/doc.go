// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ipc implements the local-channel half of the bridge protocol:
// naming a channel, launching the companion that will listen on it,
// connecting with a bounded retry, and exchanging framed messages.
//
// A channel is a Unix domain socket named by an [Address]. At init time
// a [Namer] draws a random 32-bit suffix and produces either a path
// under a temporary directory (/tmp/app.world-<n>) or, where requested
// and supported, a Linux abstract name (@app.world-<n>). The [Launcher]
// appends "ipc:<address>" to the companion's arguments; the companion
// recovers it with [FindArgument].
//
// [Connector.Connect] dials the address in a plain bounded loop: each
// failed attempt sleeps the policy interval on an injected clock, so
// the total wait is exactly MaxRetries * Interval. [HandshakePolicy]
// (300 x 10ms) gives a fresh companion time to bind; [CallPolicy]
// (no retries) makes a dead companion fail fast.
//
// Messages are [Frame]s. [LineCodec] is the wire format existing
// companions speak: "response:<payload>\n" and "terminate:<message>\n"
// from the bridge, untagged text lines back, at most [MaxFrameSize]
// bytes each. [EnvelopeCodec] is an opt-in length-prefixed CBOR
// alternative. [Conn] binds a connection to a codec and enforces one
// write followed by one read.
//
// Every failure is an [*Error] whose [Kind] tells usage mistakes,
// connect exhaustion, transport failures, protocol violations, and
// launch failures apart.
package ipc
