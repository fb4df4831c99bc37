// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/bureau-foundation/ipcbridge/bridge"
	"github.com/bureau-foundation/ipcbridge/ipc"
	"github.com/bureau-foundation/ipcbridge/lib/abi"
	"github.com/bureau-foundation/ipcbridge/lib/testutil"
)

func TestEchoSession(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		flags  []string
		codec  ipc.Codec
		encode func(string) string
	}{
		{name: "abi line", codec: ipc.LineCodec{}, encode: abi.EncodeString},
		{name: "raw envelope", flags: []string{"--raw", "--wire", "envelope"}, codec: ipc.EnvelopeCodec{}, encode: func(s string) string { return s }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			address := ipc.Address(filepath.Join(testutil.SocketDir(t), "echo.sock"))
			args := append([]string{"ipcbridge-echo"}, test.flags...)
			args = append(args, address.Argument())

			ready := make(chan ipc.Address, 1)
			done := make(chan error, 1)
			go func() { done <- run(context.Background(), args, ready) }()
			testutil.RequireReceive(t, ready, 5*time.Second, "waiting for listener")

			var stdout bytes.Buffer
			dispatcher := &bridge.Dispatcher{Codec: test.codec, Stdout: &stdout}
			for i := 1; i <= 3; i++ {
				stdout.Reset()
				if err := dispatcher.Exec(context.Background(), address, "ping"); err != nil {
					t.Fatalf("exec %d: %v", i, err)
				}
				if want := test.encode(fmt.Sprintf("reply-%d", i)); stdout.String() != want {
					t.Errorf("exec %d stdout = %q, want %q", i, stdout.String(), want)
				}
			}

			stdout.Reset()
			if err := dispatcher.Terminate(context.Background(), address, ipc.TerminationMessage); err != nil {
				t.Fatalf("terminate: %v", err)
			}
			if err := testutil.RequireReceive(t, done, 5*time.Second, "waiting for run to return"); err != nil {
				t.Fatalf("run: %v", err)
			}
		})
	}
}

func TestEchoRequiresChannelArgument(t *testing.T) {
	t.Parallel()
	err := run(context.Background(), []string{"ipcbridge-echo", "--raw"}, nil)
	if err == nil {
		t.Fatal("expected error without an ipc: argument")
	}
}
