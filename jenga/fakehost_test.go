package main

import (
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/jenga/jenga-go/jengaprotocol"
)

// fakeHost answers one command per connection the way the simulation host
// does, recording what it received.
type fakeHost struct {
	listener net.Listener
	fallen   bool

	mu       sync.Mutex
	commands []string
	wg       sync.WaitGroup
}

func startFakeHost(t *testing.T) *fakeHost {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	fh := &fakeHost{listener: listener}
	fh.wg.Add(1)
	go fh.serve()

	t.Cleanup(func() {
		listener.Close()
		fh.wg.Wait()
	})
	return fh
}

func (fh *fakeHost) serve() {
	defer fh.wg.Done()
	for {
		conn, err := fh.listener.Accept()
		if err != nil {
			return
		}
		fh.wg.Add(1)
		go func() {
			defer fh.wg.Done()
			defer conn.Close()

			buf := make([]byte, 1024)
			n, err := conn.Read(buf)
			if err != nil {
				return
			}
			cmd := string(buf[:n])

			fh.mu.Lock()
			fh.commands = append(fh.commands, cmd)
			fallen := fh.fallen
			fh.mu.Unlock()

			conn.Write([]byte(fakeReply(cmd, fallen)))
		}()
	}
}

func fakeReply(cmd string, fallen bool) string {
	fields := strings.Fields(cmd)
	switch fields[0] {
	case jengaprotocol.VerbIsFallen:
		if fallen {
			return "true"
		}
		return "false"
	case jengaprotocol.VerbBlocksInLevel:
		return "2"
	case jengaprotocol.VerbRevertStep:
		return "Step reverted."
	case jengaprotocol.VerbRemove, jengaprotocol.VerbReset, jengaprotocol.VerbTimescale,
		jengaprotocol.VerbStaticFriction, jengaprotocol.VerbDynamicFriction,
		jengaprotocol.VerbToggleMenu, jengaprotocol.VerbFallDetectDistance,
		jengaprotocol.VerbScreenshotResolution, jengaprotocol.VerbPlayerTurn:
		return jengaprotocol.AckResponse
	default:
		return jengaprotocol.UnknownCommandResponse
	}
}

func (fh *fakeHost) setFallen(v bool) {
	fh.mu.Lock()
	defer fh.mu.Unlock()
	fh.fallen = v
}

func (fh *fakeHost) port() int {
	return fh.listener.Addr().(*net.TCPAddr).Port
}

func (fh *fakeHost) endpoint() jengaprotocol.Endpoint {
	return jengaprotocol.Endpoint{Host: "127.0.0.1", Port: fh.port()}
}

func (fh *fakeHost) client(opts ...jengaprotocol.Option) *jengaprotocol.Client {
	return jengaprotocol.NewClient("127.0.0.1", fh.port(), opts...)
}

func (fh *fakeHost) received() []string {
	fh.mu.Lock()
	defer fh.mu.Unlock()
	return append([]string(nil), fh.commands...)
}

// freePort returns a loopback port with nothing listening on it.
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()
	return port
}
