// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Ipcbridge-echo is a demonstration companion for ipcbridge. It answers
// the Nth request with the ABI-encoded string "reply-N" and exits after
// a terminate message.
//
//	ipcbridge init ipcbridge-echo --log-file /tmp/echo.log
//
// The launcher appends the "ipc:<address>" argument; it is not passed
// by hand.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/ipcbridge/cmd/ipcbridge/cli"
	"github.com/bureau-foundation/ipcbridge/companion"
	"github.com/bureau-foundation/ipcbridge/ipc"
	"github.com/bureau-foundation/ipcbridge/lib/abi"
	"github.com/bureau-foundation/ipcbridge/lib/process"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args, nil)
	stop()
	process.Exit(err)
}

// run serves until terminated. When ready is non-nil it receives the
// bound address once the listener is up.
func run(ctx context.Context, args []string, ready chan<- ipc.Address) error {
	flagSet := pflag.NewFlagSet("ipcbridge-echo", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	raw := flagSet.Bool("raw", false, "reply with plain text instead of ABI-encoded strings")
	wire := flagSet.String("wire", "line", "wire format: line or envelope")
	logFile := flagSet.String("log-file", "", "append JSON logs to this file")
	logLevel := flagSet.String("log-level", "info", "log level: debug, info, warn, error")
	if err := flagSet.Parse(args[1:]); err != nil {
		return &cli.UsageError{Message: err.Error()}
	}

	address, err := ipc.FindArgument(flagSet.Args())
	if err != nil {
		return &cli.UsageError{Message: err.Error()}
	}

	var codec ipc.Codec
	switch *wire {
	case "line":
		codec = ipc.LineCodec{}
	case "envelope":
		codec = ipc.EnvelopeCodec{}
	default:
		return &cli.UsageError{Message: fmt.Sprintf("unknown wire format %q", *wire)}
	}

	logger := slog.New(slog.DiscardHandler)
	if *logFile != "" {
		level, err := cli.ParseLevel(*logLevel)
		if err != nil {
			return err
		}
		var closer io.Closer
		logger, closer, err = cli.NewLogger(level, *logFile)
		if err != nil {
			return err
		}
		defer closer.Close()
	}

	server, err := companion.Listen(address, companion.Options{Codec: codec, Logger: logger})
	if err != nil {
		return err
	}
	defer server.Close()
	logger.Info("listening", "address", address, "wire", *wire)
	if ready != nil {
		ready <- address
	}

	return server.Serve(ctx, newEchoHandler(*raw, logger))
}

func newEchoHandler(raw bool, logger *slog.Logger) companion.Handler {
	requests := 0
	encode := abi.EncodeString
	if raw {
		encode = func(s string) string { return s }
	}
	return companion.HandlerFuncs{
		CallFunc: func(ctx context.Context, payload string) (string, error) {
			requests++
			logger.Info("request", "n", requests, "payload", payload)
			return encode(fmt.Sprintf("reply-%d", requests)), nil
		},
		TerminateFunc: func(ctx context.Context, message string) string {
			logger.Info("terminate", "message", message, "requests", requests)
			return abi.EmptyValue
		},
	}
}
