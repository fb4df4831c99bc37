// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ipc

import (
	"bufio"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bureau-foundation/ipcbridge/lib/testutil"
)

// lineServer accepts one connection on a fresh socket, reads a single
// line, hands it to the test, and replies with reply (or closes without
// replying when reply is empty).
func lineServer(t *testing.T, reply string) (Address, <-chan string) {
	t.Helper()
	address := Address(filepath.Join(testutil.SocketDir(t), "companion.sock"))
	listener, err := net.Listen("unix", string(address))
	if err != nil {
		t.Fatalf("lineServer: listen: %v", err)
	}
	t.Cleanup(func() { listener.Close() })

	received := make(chan string, 1)
	go func() {
		connection, err := listener.Accept()
		if err != nil {
			return
		}
		defer connection.Close()
		line, err := bufio.NewReader(connection).ReadString('\n')
		if err != nil {
			return
		}
		received <- line
		if reply != "" {
			connection.Write([]byte(reply))
		}
	}()
	return address, received
}

func dial(t *testing.T, address Address) *Conn {
	t.Helper()
	connection, err := net.Dial("unix", string(address))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	conn := NewConn(connection, address, nil)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestConnExchange(t *testing.T) {
	t.Parallel()
	address, received := lineServer(t, "0x1234\n")
	conn := dial(t, address)

	reply, err := conn.Exchange(RequestFrame("hello"), 0)
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	if reply.Payload != "0x1234" {
		t.Errorf("reply = %q, want 0x1234", reply.Payload)
	}
	if line := testutil.RequireReceive(t, received, 5*time.Second); line != "response:hello\n" {
		t.Errorf("companion received %q, want %q", line, "response:hello\n")
	}
}

func TestConnPeerClosesWithoutReply(t *testing.T) {
	t.Parallel()
	address, _ := lineServer(t, "")
	conn := dial(t, address)

	_, err := conn.Exchange(RequestFrame("hello"), 0)
	if !errors.Is(err, ErrUnterminatedFrame) {
		t.Fatalf("error = %v, want ErrUnterminatedFrame", err)
	}
	if KindOf(err) != KindTransport {
		t.Errorf("error kind = %v, want transport", KindOf(err))
	}
}

func TestConnReplyTimeout(t *testing.T) {
	t.Parallel()
	address := Address(filepath.Join(testutil.SocketDir(t), "silent.sock"))
	listener, err := net.Listen("unix", string(address))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { listener.Close() })
	accepted := make(chan net.Conn, 1)
	go func() {
		connection, err := listener.Accept()
		if err != nil {
			close(accepted)
			return
		}
		accepted <- connection
	}()

	conn := dial(t, address)
	_, err = conn.Exchange(RequestFrame("hello"), 50*time.Millisecond)
	if !errors.Is(err, os.ErrDeadlineExceeded) {
		t.Fatalf("error = %v, want os.ErrDeadlineExceeded", err)
	}
	if KindOf(err) != KindTransport {
		t.Errorf("error kind = %v, want transport", KindOf(err))
	}
	testutil.RequireReceive(t, accepted, 5*time.Second, "waiting for accept").Close()
}

func TestConnSendProtocolError(t *testing.T) {
	t.Parallel()
	client, server := net.Pipe()
	defer server.Close()
	conn := NewConn(client, "/tmp/app.world-1", LineCodec{})
	defer conn.Close()

	err := conn.Send(RequestFrame("a\nb"))
	if KindOf(err) != KindProtocol {
		t.Fatalf("error kind = %v, want protocol (err: %v)", KindOf(err), err)
	}
	var bridgeError *Error
	if errors.As(err, &bridgeError) && bridgeError.Address != "/tmp/app.world-1" {
		t.Errorf("error address = %q", bridgeError.Address)
	}
}

func TestConnEnvelopeRoundTripOverPipe(t *testing.T) {
	t.Parallel()
	client, server := net.Pipe()
	bridgeSide := NewConn(client, "pipe", EnvelopeCodec{})
	companionSide := NewConn(server, "pipe", EnvelopeCodec{})
	defer bridgeSide.Close()
	defer companionSide.Close()

	done := make(chan error, 1)
	go func() {
		request, err := companionSide.Receive(0)
		if err != nil {
			done <- err
			return
		}
		done <- companionSide.Send(TextFrame("echo:" + request.Payload))
	}()

	reply, err := bridgeSide.Exchange(RequestFrame("multi\nline"), 0)
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	if reply.Payload != "echo:multi\nline" {
		t.Errorf("reply = %q", reply.Payload)
	}
	if err := testutil.RequireReceive(t, done, 5*time.Second); err != nil {
		t.Fatalf("companion side: %v", err)
	}
}
