package jengaprotocol

import (
	"net"
	"strings"
	"sync"
	"testing"
)

// mockHost is an in-process stand-in for the simulation host. Like the real
// host it reads one command per connection and writes back one reply; unlike
// the real host it closes the connection after replying so tests can count
// connections.
type mockHost struct {
	listener net.Listener
	handler  func(cmd string) string

	mu          sync.Mutex
	commands    []string
	connections int

	wg sync.WaitGroup
}

// startMockHost listens on a free loopback port. A nil handler uses
// defaultHostHandler.
func startMockHost(t *testing.T, handler func(cmd string) string) *mockHost {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	if handler == nil {
		handler = defaultHostHandler
	}

	mh := &mockHost{listener: listener, handler: handler}
	mh.wg.Add(1)
	go mh.acceptLoop()

	t.Cleanup(mh.stop)
	return mh
}

func (mh *mockHost) acceptLoop() {
	defer mh.wg.Done()
	for {
		conn, err := mh.listener.Accept()
		if err != nil {
			return
		}
		mh.mu.Lock()
		mh.connections++
		mh.mu.Unlock()

		mh.wg.Add(1)
		go mh.handleConnection(conn)
	}
}

func (mh *mockHost) handleConnection(conn net.Conn) {
	defer mh.wg.Done()
	defer conn.Close()

	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil {
		return
	}
	cmd := strings.TrimSpace(string(buf[:n]))

	mh.mu.Lock()
	mh.commands = append(mh.commands, cmd)
	mh.mu.Unlock()

	if reply := mh.handler(cmd); reply != "" {
		conn.Write([]byte(reply))
	}
}

func (mh *mockHost) stop() {
	mh.listener.Close()
	mh.wg.Wait()
}

// port returns the TCP port the host listens on.
func (mh *mockHost) port() int {
	return mh.listener.Addr().(*net.TCPAddr).Port
}

// client returns a client pointed at the mock host.
func (mh *mockHost) client(opts ...Option) *Client {
	return NewClient("127.0.0.1", mh.port(), opts...)
}

// received returns a copy of the commands seen so far.
func (mh *mockHost) received() []string {
	mh.mu.Lock()
	defer mh.mu.Unlock()
	return append([]string(nil), mh.commands...)
}

func (mh *mockHost) connectionCount() int {
	mh.mu.Lock()
	defer mh.mu.Unlock()
	return mh.connections
}

// defaultHostHandler mimics the host's replies for a standing tower.
func defaultHostHandler(cmd string) string {
	switch {
	case cmd == VerbIsFallen:
		return "false"
	case strings.HasPrefix(cmd, VerbBlocksInLevel):
		return "3"
	case cmd == VerbAverageMaxTilt:
		return "1.25"
	case cmd == VerbMostMaxTilt:
		return "4.5"
	case cmd == VerbRevertStep:
		return "Step reverted."
	case strings.HasPrefix(cmd, "bogus"):
		return UnknownCommandResponse
	default:
		return AckResponse
	}
}

// closedPort returns a loopback port with nothing listening on it.
func closedPort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()
	return port
}
