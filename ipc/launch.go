// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ipc

import (
	"log/slog"
	"os"
	"os/exec"
	"syscall"
)

// Launcher starts companion processes.
type Launcher struct {
	// Env is the companion's environment. Nil inherits the bridge's.
	Env []string

	// Dir is the companion's working directory. Empty inherits.
	Dir string

	// Detach starts the companion in a new session so it is not
	// signalled with the bridge's process group.
	Detach bool

	Logger *slog.Logger
}

// Process is a launched companion. The bridge never waits for it: the
// companion outlives the init invocation that started it.
type Process struct {
	PID  int
	Argv []string

	process *os.Process
}

// Release frees the handle without waiting for the process to exit.
func (p *Process) Release() error {
	return p.process.Release()
}

// Launch starts program with args followed by address.Argument(). The
// companion's stdin, stdout, and stderr are the null device, so the
// bridge's own stdout carries nothing but the command result and no
// pipe is left for the host to wait on.
func (l *Launcher) Launch(program string, args []string, address Address) (*Process, error) {
	argv := make([]string, 0, len(args)+1)
	argv = append(argv, args...)
	argv = append(argv, address.Argument())

	cmd := exec.Command(program, argv...)
	cmd.Env = l.Env
	cmd.Dir = l.Dir
	if l.Detach {
		cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	}

	if err := cmd.Start(); err != nil {
		return nil, &Error{Kind: KindLaunch, Op: "launch", Address: address, Err: err}
	}

	l.logger().Debug("companion launched",
		"program", program,
		"pid", cmd.Process.Pid,
		"address", address,
		"detached", l.Detach,
	)
	return &Process{
		PID:     cmd.Process.Pid,
		Argv:    append([]string{program}, argv...),
		process: cmd.Process,
	}, nil
}

func (l *Launcher) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.New(slog.DiscardHandler)
}
