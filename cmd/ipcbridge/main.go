// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Ipcbridge lets a host that can only run short-lived subprocesses talk
// to a long-lived companion process over a local socket.
//
//	addr=$(ipcbridge init ./companion --port 9)   # prints ABI(address)
//	ipcbridge exec "$decoded_addr" '<payload>'     # prints the reply
//	ipcbridge terminate "$decoded_addr"            # prints 0x
//
// Results go to stdout with no trailing newline. Diagnostics go to
// stderr or --log-file. The exit status is 0 on success, 2 for usage
// errors, 3 when the companion cannot be reached, 4 for transport
// failures, 5 for protocol violations, and 6 when the companion cannot
// be launched.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bureau-foundation/ipcbridge/lib/process"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCommand(os.Stdout, os.Stderr).Execute(ctx, os.Args[1:])
	stop()
	process.Exit(err)
}
