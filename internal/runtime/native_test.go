// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"testing"
	"time"
)

// TestHelperProcess is not a real test. It is re-executed by the tests below
// as a stand-in child process.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("PYSETUP_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for i, a := range args {
		if a == "--" {
			args = args[i+1:]
			break
		}
	}

	switch args[0] {
	case "echo":
		fmt.Fprintln(os.Stdout, args[1])
		fmt.Fprintln(os.Stderr, "to stderr")
		os.Exit(0)
	case "exit":
		code, _ := strconv.Atoi(args[1])
		fmt.Fprintln(os.Stderr, "failing")
		os.Exit(code)
	case "pwd":
		wd, _ := os.Getwd()
		fmt.Fprint(os.Stdout, wd)
		os.Exit(0)
	case "env":
		fmt.Fprint(os.Stdout, os.Getenv(args[1]))
		os.Exit(0)
	case "sleep":
		time.Sleep(10 * time.Second)
		os.Exit(0)
	case "nap":
		time.Sleep(500 * time.Millisecond)
		fmt.Fprint(os.Stdout, "rested")
		os.Exit(0)
	case "orphan":
		// Leave a child behind that inherits stdout, then block.
		child := exec.Command(os.Args[0], "-test.run=TestHelperProcess", "--", "sleep")
		child.Env = os.Environ()
		child.Stdout = os.Stdout
		if err := child.Start(); err != nil {
			os.Exit(4)
		}
		time.Sleep(10 * time.Second)
		os.Exit(0)
	}
	os.Exit(3)
}

func helperCommand(args ...string) Command {
	return Command{
		Name: os.Args[0],
		Args: append([]string{"-test.run=TestHelperProcess", "--"}, args...),
		Env:  append(os.Environ(), "PYSETUP_HELPER_PROCESS=1"),
	}
}

func TestNativeRunner_CapturesOutput(t *testing.T) {
	t.Parallel()

	var live bytes.Buffer
	cmd := helperCommand("echo", "hello")
	cmd.Stdout = &live

	result := NewNativeRunner().Run(context.Background(), cmd)
	if !result.Success() {
		t.Fatalf("Run() = %+v, want success", result)
	}
	if result.Output != "hello\n" {
		t.Errorf("Output = %q", result.Output)
	}
	if result.ErrOutput != "to stderr\n" {
		t.Errorf("ErrOutput = %q", result.ErrOutput)
	}
	if live.String() != "hello\n" {
		t.Errorf("live stdout = %q", live.String())
	}
	if result.Duration <= 0 {
		t.Error("Duration should be recorded")
	}
}

func TestNativeRunner_NonZeroExit(t *testing.T) {
	t.Parallel()

	result := NewNativeRunner().Run(context.Background(), helperCommand("exit", "4"))
	if result.Error != nil {
		t.Fatalf("nonzero exit should not set Error: %v", result.Error)
	}
	if result.ExitCode != 4 {
		t.Errorf("ExitCode = %d, want 4", result.ExitCode)
	}
	if result.ErrOutput != "failing\n" {
		t.Errorf("ErrOutput = %q", result.ErrOutput)
	}
}

func TestNativeRunner_WorkingDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cmd := helperCommand("pwd")
	cmd.Dir = dir

	result := NewNativeRunner().Run(context.Background(), cmd)
	if !result.Success() {
		t.Fatalf("Run() = %+v", result)
	}
	got, _ := os.Stat(result.Output)
	want, _ := os.Stat(dir)
	if got == nil || want == nil || !os.SameFile(got, want) {
		t.Errorf("working directory = %q, want %q", result.Output, dir)
	}
}

func TestNativeRunner_Environment(t *testing.T) {
	t.Parallel()

	cmd := helperCommand("env", "PYSETUP_PROBE")
	cmd.Env = append(cmd.Env, "PYSETUP_PROBE=venv")

	result := NewNativeRunner().Run(context.Background(), cmd)
	if result.Output != "venv" {
		t.Errorf("Output = %q, want venv", result.Output)
	}
}

func TestNativeRunner_CommandNotFound(t *testing.T) {
	t.Parallel()

	result := NewNativeRunner().Run(context.Background(), Command{Name: "pysetup-definitely-missing-binary"})
	if !errors.Is(result.Error, ErrCommandNotFound) {
		t.Fatalf("Error = %v, want ErrCommandNotFound", result.Error)
	}
	if result.ExitCode != ExitCommandNotFound {
		t.Errorf("ExitCode = %d, want %d", result.ExitCode, ExitCommandNotFound)
	}
}

func TestNativeRunner_Timeout(t *testing.T) {
	t.Parallel()

	cmd := helperCommand("sleep")
	cmd.Timeout = 100 * time.Millisecond

	result := NewNativeRunner().Run(context.Background(), cmd)
	if !errors.Is(result.Error, ErrTimedOut) {
		t.Fatalf("Error = %v, want ErrTimedOut", result.Error)
	}
	if result.ExitCode != ExitTimedOut {
		t.Errorf("ExitCode = %d, want %d", result.ExitCode, ExitTimedOut)
	}
}

func TestNativeRunner_TimeoutWithHeldPipe(t *testing.T) {
	t.Parallel()

	cmd := helperCommand("orphan")
	cmd.Timeout = 200 * time.Millisecond

	start := time.Now()
	result := NewNativeRunner().Run(context.Background(), cmd)
	elapsed := time.Since(start)

	if !errors.Is(result.Error, ErrTimedOut) {
		t.Fatalf("Error = %v, want ErrTimedOut", result.Error)
	}
	if limit := cmd.Timeout + DefaultWaitDelay + 3*time.Second; elapsed > limit {
		t.Errorf("Run() returned after %s, want at most %s", elapsed, limit)
	}
}

func TestNativeRunner_CancelDoesNotInterruptRunningCommand(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	result := NewNativeRunner().Run(ctx, helperCommand("nap"))
	if !result.Success() {
		t.Fatalf("Run() = %+v, want the command to finish", result)
	}
	if result.Output != "rested" {
		t.Errorf("Output = %q, want rested", result.Output)
	}
	if ctx.Err() == nil {
		t.Error("context should have been canceled while the command ran")
	}
}

func TestNativeRunner_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := NewNativeRunner().Run(ctx, helperCommand("echo", "x"))
	if !errors.Is(result.Error, context.Canceled) {
		t.Errorf("Error = %v, want context.Canceled", result.Error)
	}
}
