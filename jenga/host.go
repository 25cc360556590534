package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/jenga/jenga-go/jengaprotocol"
)

const (
	// hostStartTimeout is how long --launch waits for the host to listen
	// when --wait is not given.
	hostStartTimeout = 30 * time.Second

	// hostPollInterval is the delay between connection probes.
	hostPollInterval = 100 * time.Millisecond
)

// launchHost starts the simulation host executable and waits until it
// accepts connections on endpoint. The returned process should be passed
// to stopHost when the CLI exits.
func launchHost(ctx context.Context, exe string, endpoint jengaprotocol.Endpoint, timeout time.Duration) (*exec.Cmd, error) {
	exePath, err := findHostExecutable(exe)
	if err != nil {
		return nil, fmt.Errorf("could not find host executable: %w", err)
	}

	cmd := exec.Command(exePath)
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to launch %s: %w", exePath, err)
	}

	if err := waitForHost(ctx, endpoint, timeout); err != nil {
		stopHost(cmd)
		return nil, fmt.Errorf("%s started (PID: %d) but is not listening: %w", exePath, cmd.Process.Pid, err)
	}
	return cmd, nil
}

// findHostExecutable resolves exe. A path is used as given; a bare name is
// looked up next to this binary and then in PATH.
func findHostExecutable(exe string) (string, error) {
	if exe == "" {
		return "", fmt.Errorf("no executable given")
	}

	if strings.ContainsRune(exe, os.PathSeparator) {
		if isExecutable(exe) {
			return filepath.Abs(exe)
		}
		return "", fmt.Errorf("%s is not an executable file", exe)
	}

	if selfPath, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(selfPath), exe)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	if path, err := exec.LookPath(exe); err == nil {
		return path, nil
	}
	return "", fmt.Errorf("%s not found next to jenga or in PATH", exe)
}

// waitForHost polls endpoint until a TCP connection succeeds. Each probe
// connection is closed immediately without sending a command.
func waitForHost(ctx context.Context, endpoint jengaprotocol.Endpoint, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = hostStartTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var dialer net.Dialer
	ticker := time.NewTicker(hostPollInterval)
	defer ticker.Stop()

	for {
		probeCtx, probeCancel := context.WithTimeout(ctx, time.Second)
		conn, err := dialer.DialContext(probeCtx, "tcp", endpoint.Address())
		probeCancel()
		if err == nil {
			conn.Close()
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for %s: %w", endpoint, ctx.Err())
		case <-ticker.C:
		}
	}
}

// hostStopTimeout is how long stopHost waits before killing the host.
const hostStopTimeout = 5 * time.Second

// stopHost asks a launched host to exit and kills it if it does not.
func stopHost(cmd *exec.Cmd) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	_ = cmd.Process.Signal(syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(hostStopTimeout):
		_ = cmd.Process.Kill()
		<-done
	}
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Mode().Perm()&0111 != 0
}
