// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bridge dispatches the four bridge commands a host runs as
// short-lived subprocesses to talk to a long-lived companion.
//
// The host cannot hold sockets or processes across calls, so every
// invocation is independent: it connects to the companion's channel,
// exchanges at most one request, prints one result on stdout, and
// exits. The only state threaded between invocations is the channel
// address that init prints.
//
//	ipcbridge init <program> [args...]   launch, handshake, print ABI(address)
//	ipcbridge exec <address> <payload>   send "response:<payload>", print reply
//	ipcbridge terminate <address> [msg]  send "terminate:<msg>", print 0x
//	ipcbridge connect <address>          handshake only, print nothing
//
// [Dispatcher] holds the collaborators (namer, connector, launcher,
// codec) and the two retry policies. Stdout is written only after a
// command has fully succeeded, so a failing invocation never leaves a
// partial result for the host to misread. Diagnostics go to the logger.
package bridge
