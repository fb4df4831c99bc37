// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/ipcbridge/bridge"
	"github.com/bureau-foundation/ipcbridge/cmd/ipcbridge/cli"
	"github.com/bureau-foundation/ipcbridge/ipc"
	"github.com/bureau-foundation/ipcbridge/lib/config"
	"github.com/bureau-foundation/ipcbridge/lib/version"
)

func newRootCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "ipcbridge",
		Stderr: stderr,
		Description: `ipcbridge connects a host that can only spawn short-lived processes
to a long-lived companion listening on a local socket. init launches the
companion and prints its channel address; exec and terminate reuse that
address in later, independent invocations.`,
		Subcommands: []*cli.Command{
			bridgeCommand(bridge.CommandInit, stdout,
				"Launch a companion and print its ABI-encoded channel address",
				"ipcbridge init [flags] <program> [args...]",
				`Chooses a fresh channel address, launches <program> with
"ipc:<address>" appended to its arguments, and waits for it to accept a
connection (300 attempts, 10ms apart, by default). On success prints the
ABI-encoded address with no trailing newline. The companion keeps running
after init exits.`,
				[]cli.Example{{
					Description: "Start the demo companion",
					Command:     "ipcbridge init ipcbridge-echo",
				}},
			),
			bridgeCommand(bridge.CommandExec, stdout,
				"Send one request to a companion and print its reply",
				"ipcbridge exec [flags] <address> <payload>",
				`Connects to <address> once, sends "response:<payload>", and prints the
companion's single-line reply verbatim. The payload must not contain a
newline unless both sides use --wire envelope.`,
				nil,
			),
			bridgeCommand(bridge.CommandTerminate, stdout,
				"Ask a companion to shut down and print 0x",
				"ipcbridge terminate [flags] <address> [message]",
				`Connects to <address> once and sends "terminate:<message>" (default
"termination"). Prints the ABI empty value 0x once the message is
delivered, whether or not the companion acknowledges it.`,
				nil,
			),
			bridgeCommand(bridge.CommandConnect, stdout,
				"Check that a companion is accepting connections",
				"ipcbridge connect [flags] <address>",
				`Connects to <address> with the handshake retry policy and exits 0 once a
connection is accepted. Prints nothing.`,
				nil,
			),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(ctx context.Context, args []string) error {
					_, err := fmt.Fprintf(stdout, "ipcbridge %s\n", version.Full())
					return err
				},
			},
		},
	}
}

// bridgeOptions holds one command's flag values. Flags override the
// config file only when set on the command line.
type bridgeOptions struct {
	command string

	configPath    string
	verbose       bool
	logLevel      string
	logFile       string
	wire          string
	retries       int
	retryInterval time.Duration
	replyTimeout  time.Duration
	socketDir     string
	namespace     string
	detach        bool

	flagSet *pflag.FlagSet
}

func bridgeCommand(name string, stdout io.Writer, summary, usage, description string, examples []cli.Example) *cli.Command {
	options := &bridgeOptions{command: name}
	return &cli.Command{
		Name:        name,
		Summary:     summary,
		Usage:       usage,
		Description: description,
		Examples:    examples,
		Flags:       options.flags,
		Run: func(ctx context.Context, args []string) error {
			return options.run(ctx, args, stdout)
		},
	}
}

// usesHandshake reports whether the command connects with the
// handshake policy rather than the call policy.
func (o *bridgeOptions) usesHandshake() bool {
	return o.command == bridge.CommandInit || o.command == bridge.CommandConnect
}

func (o *bridgeOptions) flags() *pflag.FlagSet {
	defaults := config.Default()
	flagSet := pflag.NewFlagSet(o.command, pflag.ContinueOnError)

	flagSet.StringVar(&o.configPath, "config", "", "configuration file, YAML or JSONC (default: $"+config.EnvConfig+")")
	flagSet.BoolVarP(&o.verbose, "verbose", "v", false, "log at debug level")
	flagSet.StringVar(&o.logLevel, "log-level", defaults.Log.Level, "log level: debug, info, warn, error")
	flagSet.StringVar(&o.logFile, "log-file", "", "append JSON logs to this file instead of stderr")
	flagSet.StringVar(&o.wire, "wire", defaults.Wire, "wire format: line or envelope")

	retry := defaults.Connect.Call
	policyName := "call"
	if o.usesHandshake() {
		retry = defaults.Connect.Handshake
		policyName = "handshake"
	}
	interval, _ := time.ParseDuration(retry.Interval)
	flagSet.IntVar(&o.retries, "retries", retry.Retries, policyName+" connect retries after the first attempt")
	flagSet.DurationVar(&o.retryInterval, "retry-interval", interval, "pause between "+policyName+" connect attempts")

	switch o.command {
	case bridge.CommandExec, bridge.CommandTerminate:
		flagSet.DurationVar(&o.replyTimeout, "reply-timeout", 0, "give up waiting for the companion's reply after this long (0 waits indefinitely)")
	case bridge.CommandInit:
		flagSet.StringVar(&o.socketDir, "socket-dir", defaults.Namer.Dir, "directory for the channel socket")
		flagSet.StringVar(&o.namespace, "namespace", defaults.Namer.Namespace, "address form: auto, path, or abstract")
		flagSet.BoolVar(&o.detach, "detach", defaults.Launch.Detach, "start the companion in its own session")
	}

	o.flagSet = flagSet
	return flagSet
}

// load reads the config file and applies explicitly set flags.
func (o *bridgeOptions) load() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	changed := func(name string) bool {
		return o.flagSet != nil && o.flagSet.Changed(name)
	}

	retry := &cfg.Connect.Call
	if o.usesHandshake() {
		retry = &cfg.Connect.Handshake
	}
	if changed("retries") {
		retry.Retries = o.retries
	}
	if changed("retry-interval") {
		retry.Interval = o.retryInterval.String()
	}
	if changed("reply-timeout") {
		cfg.Exec.ReplyTimeout = o.replyTimeout.String()
	}
	if changed("wire") {
		cfg.Wire = o.wire
	}
	if changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	if changed("log-file") {
		cfg.Log.File = o.logFile
	}
	if changed("socket-dir") {
		cfg.Namer.Dir = o.socketDir
	}
	if changed("namespace") {
		cfg.Namer.Namespace = o.namespace
	}
	if changed("detach") {
		cfg.Launch.Detach = o.detach
	}

	if err := cfg.Validate(); err != nil {
		return nil, &cli.UsageError{Message: fmt.Sprintf("invalid settings: %v", err)}
	}
	return cfg, nil
}

func (o *bridgeOptions) run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, err := o.load()
	if err != nil {
		return err
	}

	level, err := cli.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger, closer, err := cli.NewLogger(level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger = logger.With("command", o.command)

	dispatcher, err := newDispatcher(cfg, stdout, logger)
	if err != nil {
		return err
	}

	if err := dispatcher.Dispatch(ctx, o.command, args); err != nil {
		logger.Debug("command failed", "kind", ipc.KindOf(err).String(), "error", err)
		return err
	}
	return nil
}

// newDispatcher builds a Dispatcher from a validated config.
func newDispatcher(cfg *config.Config, stdout io.Writer, logger *slog.Logger) (*bridge.Dispatcher, error) {
	namespace, err := ipc.ParseNamespace(cfg.Namer.Namespace)
	if err != nil {
		return nil, err
	}

	var codec ipc.Codec = ipc.LineCodec{}
	if cfg.Wire == config.WireEnvelope {
		codec = ipc.EnvelopeCodec{}
	}

	return &bridge.Dispatcher{
		Namer: &ipc.Namer{
			Dir:       cfg.Namer.Dir,
			Prefix:    cfg.Namer.Prefix,
			Namespace: namespace,
		},
		Connector: &ipc.Connector{Logger: logger},
		Launcher:  &ipc.Launcher{Detach: cfg.Launch.Detach, Logger: logger},
		Codec:     codec,
		HandshakePolicy: &ipc.RetryPolicy{
			MaxRetries: cfg.Connect.Handshake.Retries,
			Interval:   cfg.HandshakeInterval(),
		},
		CallPolicy: ipc.RetryPolicy{
			MaxRetries: cfg.Connect.Call.Retries,
			Interval:   cfg.CallInterval(),
		},
		ReplyTimeout: cfg.ReplyTimeout(),
		Stdout:       stdout,
		Logger:       logger,
	}, nil
}
