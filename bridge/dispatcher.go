// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/bureau-foundation/ipcbridge/ipc"
	"github.com/bureau-foundation/ipcbridge/lib/abi"
)

// Command names.
const (
	CommandConnect   = "connect"
	CommandInit      = "init"
	CommandExec      = "exec"
	CommandTerminate = "terminate"
)

// Commands lists every command Dispatch accepts.
var Commands = []string{CommandConnect, CommandInit, CommandExec, CommandTerminate}

// ErrUnknownCommand is wrapped by the usage error Dispatch returns for
// a command outside Commands.
var ErrUnknownCommand = errors.New("unknown command")

// Dispatcher runs bridge commands. Nil collaborators get defaults; the
// zero value speaks the line protocol with the standard retry policies
// and writes results to os.Stdout.
type Dispatcher struct {
	Namer     *ipc.Namer
	Connector *ipc.Connector
	Launcher  *ipc.Launcher
	Codec     ipc.Codec

	// HandshakePolicy applies to init and connect. Nil means
	// ipc.HandshakePolicy; a zero policy makes exactly one attempt.
	HandshakePolicy *ipc.RetryPolicy

	// CallPolicy applies to exec and terminate. The zero value is
	// ipc.CallPolicy: one attempt.
	CallPolicy ipc.RetryPolicy

	// ReplyTimeout bounds the wait for a reply. Zero waits until the
	// companion answers or closes.
	ReplyTimeout time.Duration

	// Stdout receives command results and nothing else.
	Stdout io.Writer

	Logger *slog.Logger
}

// Dispatch validates args for command and runs it.
func (d *Dispatcher) Dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case CommandConnect:
		if len(args) != 1 {
			return ipc.UsageError(command, "expected <address>, got %d arguments", len(args))
		}
		address, err := parseAddress(command, args[0])
		if err != nil {
			return err
		}
		return d.Connect(ctx, address)

	case CommandInit:
		if len(args) < 1 {
			return ipc.UsageError(command, "expected <program> [args...]")
		}
		_, err := d.Init(ctx, args[0], args[1:])
		return err

	case CommandExec:
		if len(args) != 2 {
			return ipc.UsageError(command, "expected <address> <payload>, got %d arguments", len(args))
		}
		address, err := parseAddress(command, args[0])
		if err != nil {
			return err
		}
		return d.Exec(ctx, address, args[1])

	case CommandTerminate:
		if len(args) < 1 || len(args) > 2 {
			return ipc.UsageError(command, "expected <address> [message], got %d arguments", len(args))
		}
		address, err := parseAddress(command, args[0])
		if err != nil {
			return err
		}
		message := ipc.TerminationMessage
		if len(args) == 2 {
			message = args[1]
		}
		return d.Terminate(ctx, address, message)

	default:
		return &ipc.Error{Kind: ipc.KindUsage, Op: "dispatch", Err: fmt.Errorf("%w %q", ErrUnknownCommand, command)}
	}
}

func parseAddress(command, s string) (ipc.Address, error) {
	address, err := ipc.ParseAddress(s)
	if err != nil {
		return "", &ipc.Error{Kind: ipc.KindUsage, Op: command, Err: err}
	}
	return address, nil
}

// Connect verifies that a companion is listening on address using the
// handshake policy. It prints nothing.
func (d *Dispatcher) Connect(ctx context.Context, address ipc.Address) error {
	conn, err := d.connector().Connect(ctx, address, d.handshakePolicy())
	if err != nil {
		return err
	}
	return conn.Close()
}

// Init launches program with the channel argument appended, waits for
// it to accept a connection, and prints the ABI-encoded address without
// a trailing newline. The companion keeps running after Init returns.
func (d *Dispatcher) Init(ctx context.Context, program string, args []string) (ipc.Address, error) {
	logger := d.logger()

	address, err := d.namer().Next()
	if err != nil {
		return "", &ipc.Error{Kind: ipc.KindLaunch, Op: "name channel", Err: err}
	}

	process, err := d.launcher().Launch(program, args, address)
	if err != nil {
		return "", err
	}
	if err := process.Release(); err != nil {
		logger.Debug("releasing companion handle", "pid", process.PID, "error", err)
	}

	if err := d.Connect(ctx, address); err != nil {
		logger.Error("companion never accepted a connection",
			"program", program,
			"pid", process.PID,
			"address", address,
			"budget", d.handshakePolicy().Budget(),
		)
		return "", err
	}

	logger.Info("companion ready", "program", program, "pid", process.PID, "address", address)
	if err := d.write(abi.EncodeString(string(address))); err != nil {
		return "", err
	}
	return address, nil
}

// Exec sends payload as a request frame and prints the companion's
// reply verbatim.
func (d *Dispatcher) Exec(ctx context.Context, address ipc.Address, payload string) error {
	conn, err := d.open(ctx, address)
	if err != nil {
		return err
	}
	defer conn.Close()

	reply, err := conn.Exchange(ipc.RequestFrame(payload), d.ReplyTimeout)
	if err != nil {
		return err
	}
	d.logger().Debug("exec reply received", "address", address, "reply_bytes", len(reply.Payload))
	return d.write(reply.Payload)
}

// Terminate sends message as a terminate frame and prints the ABI empty value. A companion that
// closes the connection without replying has still terminated; any
// other read failure is returned.
func (d *Dispatcher) Terminate(ctx context.Context, address ipc.Address, message string) error {
	conn, err := d.open(ctx, address)
	if err != nil {
		return err
	}
	defer conn.Close()

	reply, err := conn.Exchange(ipc.TerminateFrame(message), d.ReplyTimeout)
	switch {
	case err == nil:
		d.logger().Debug("terminate acknowledged", "address", address, "reply", reply.Payload)
	case ipc.KindOf(err) == ipc.KindTransport && errors.Is(err, ipc.ErrUnterminatedFrame):
		d.logger().Debug("companion closed without acknowledging terminate", "address", address)
	default:
		return err
	}
	return d.write(abi.EmptyValue)
}

func (d *Dispatcher) open(ctx context.Context, address ipc.Address) (*ipc.Conn, error) {
	connection, err := d.connector().Connect(ctx, address, d.CallPolicy)
	if err != nil {
		return nil, err
	}
	return ipc.NewConn(connection, address, d.Codec), nil
}

func (d *Dispatcher) write(result string) error {
	stdout := d.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	if _, err := io.WriteString(stdout, result); err != nil {
		return &ipc.Error{Kind: ipc.KindTransport, Op: "write result", Err: err}
	}
	return nil
}

func (d *Dispatcher) handshakePolicy() ipc.RetryPolicy {
	if d.HandshakePolicy == nil {
		return ipc.HandshakePolicy
	}
	return *d.HandshakePolicy
}

func (d *Dispatcher) namer() *ipc.Namer {
	if d.Namer != nil {
		return d.Namer
	}
	return &ipc.Namer{}
}

func (d *Dispatcher) connector() *ipc.Connector {
	if d.Connector != nil {
		return d.Connector
	}
	return &ipc.Connector{Logger: d.Logger}
}

func (d *Dispatcher) launcher() *ipc.Launcher {
	if d.Launcher != nil {
		return d.Launcher
	}
	return &ipc.Launcher{Detach: true, Logger: d.Logger}
}

func (d *Dispatcher) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.New(slog.DiscardHandler)
}
