// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ipc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/ipcbridge/lib/testutil"
)

const (
	recordArgsRole = "record-args"
	recordArgsEnv  = "IPCBRIDGE_TEST_ARGS_FILE"
)

func TestMain(m *testing.M) {
	if testutil.IsHelperProcess(recordArgsRole) {
		joined := strings.Join(os.Args[1:], "\n")
		os.Stdout.WriteString("stdout is discarded\n")
		if err := os.WriteFile(os.Getenv(recordArgsEnv), []byte(joined), 0o600); err != nil {
			os.Exit(1)
		}
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func TestLaunchAppendsChannelArgument(t *testing.T) {
	t.Parallel()
	argsFile := filepath.Join(t.TempDir(), "args")
	launcher := &Launcher{
		Env: append(os.Environ(),
			testutil.HelperProcessEnv+"="+recordArgsRole,
			recordArgsEnv+"="+argsFile,
		),
		Detach: true,
	}

	process, err := launcher.Launch(testutil.SelfBinary(t), []string{"--mode", "ipc:decoy"}, "/tmp/app.world-5")
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if process.PID <= 0 {
		t.Errorf("PID = %d", process.PID)
	}
	if err := process.Release(); err != nil {
		t.Errorf("Release: %v", err)
	}

	var recorded []byte
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		recorded, err = os.ReadFile(argsFile)
		if err == nil && len(recorded) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	want := "--mode\nipc:decoy\nipc:/tmp/app.world-5"
	if string(recorded) != want {
		t.Fatalf("companion argv = %q, want %q", recorded, want)
	}

	address, err := FindArgument(strings.Split(string(recorded), "\n"))
	if err != nil || address != "/tmp/app.world-5" {
		t.Errorf("FindArgument on launched argv = %q, %v", address, err)
	}
}

func TestLaunchMissingProgram(t *testing.T) {
	t.Parallel()
	launcher := &Launcher{}
	_, err := launcher.Launch("/nonexistent/companion", nil, "/tmp/app.world-5")
	if KindOf(err) != KindLaunch {
		t.Fatalf("error kind = %v, want launch (err: %v)", KindOf(err), err)
	}
}
