package tools

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"syscall"

	"github.com/scoutcli/scout/pkg/cancel"
)

const maxBashOutput = 512 * 1024

// runBash runs command via /bin/sh -c, capturing combined
// stdout/stderr concurrently, capped at maxBashOutput bytes, and
// prefixes a [exit N] marker on non-zero exit or signal termination.
// Grounded on the teacher's concurrent stdout/stderr pipe scanning and
// syscall.WaitStatus exit-code extraction; this version drops the
// teacher's interactive destructive-command confirmation prompt, since
// the agent loop here is always non-interactive at the tool-execution
// layer (confirmation, where it exists, is the replace tool's own
// size gate).
func runBash(ctx context.Context, command string, flag *cancel.Flag) (string, *Error) {
	if strings.TrimSpace(command) == "" {
		return "", invalidArgument("empty command")
	}
	if flag != nil && flag.IsSet() {
		return "", &Error{Kind: Cancelled, Message: "cancelled"}
	}

	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", command)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", ioError("stdout pipe: %v", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", ioError("stderr pipe: %v", err)
	}

	if err := cmd.Start(); err != nil {
		return "", ioError("start command: %v", err)
	}

	var outBuf, errBuf strings.Builder
	var combinedLen int
	var mu sync.Mutex
	var wg sync.WaitGroup

	// combinedLen is shared across both scanners so the 512 KiB cap
	// applies to stdout+stderr together, per spec.md §4.2, rather than
	// 512 KiB on each stream independently.
	scan := func(r *bufio.Scanner, buf *strings.Builder) {
		defer wg.Done()
		for r.Scan() {
			mu.Lock()
			if combinedLen < maxBashOutput {
				line := r.Text() + "\n"
				buf.WriteString(line)
				combinedLen += len(line)
			}
			mu.Unlock()
		}
	}
	wg.Add(2)
	go scan(bufio.NewScanner(stdout), &outBuf)
	go scan(bufio.NewScanner(stderr), &errBuf)
	wg.Wait()

	waitErr := cmd.Wait()

	exitCode := 0
	signaled := false
	if waitErr != nil {
		if exitError, ok := waitErr.(*exec.ExitError); ok {
			if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
				exitCode = status.ExitStatus()
				signaled = status.Signaled()
			}
		}
	}

	stdoutBody := outBuf.String()
	if len(stdoutBody) > maxBashOutput {
		stdoutBody = stdoutBody[:maxBashOutput]
	}
	stderrBody := errBuf.String()
	if remaining := maxBashOutput - len(stdoutBody); len(stderrBody) > remaining {
		if remaining < 0 {
			remaining = 0
		}
		stderrBody = stderrBody[:remaining]
	}

	var b strings.Builder
	if signaled {
		b.WriteString("[exit signal]\n")
	} else if exitCode != 0 {
		fmt.Fprintf(&b, "[exit %d]\n", exitCode)
	}
	b.WriteString(stdoutBody)
	if strings.TrimSpace(stderrBody) != "" {
		b.WriteString("[stderr]\n")
		b.WriteString(stderrBody)
	}

	return b.String(), nil
}
