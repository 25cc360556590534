// Package jengaprotocol implements the text command protocol spoken by the
// Jenga simulation host.
//
// Every command travels over its own TCP connection: the client connects,
// writes the command text, reads a single reply and closes the connection.
//
// Example Session:
//
//	CLI: reset
//	SRV: ACK
//	CLI: remove 3 y
//	SRV: ACK
//	CLI: isfallen
//	SRV: false
package jengaprotocol

import (
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"time"
)

// Protocol constants matching the simulation host.
const (
	// DefaultHost is the address the host listens on in the reference deployment.
	DefaultHost = "127.0.0.1"

	// DefaultPort is the TCP port of the host's command listener.
	DefaultPort = 25001

	// ResponseBufferSize is the maximum number of reply bytes read per command.
	ResponseBufferSize = 1024

	// AckResponse is the reply the host sends for commands without a result.
	AckResponse = "ACK"

	// UnknownCommandResponse is the reply the host sends for verbs it does not know.
	UnknownCommandResponse = "Unknown command"

	// DefaultSettleTime is how long Step waits after a remove before
	// querying the tower.
	DefaultSettleTime = 500 * time.Millisecond

	// ConnectionTimeout is the dial timeout used by the CLI front-end.
	ConnectionTimeout = 5 * time.Second

	// CommandTimeout is the I/O deadline used by the CLI front-end.
	CommandTimeout = 30 * time.Second
)

// DefaultScreenshotDir is where the host writes its screenshot, relative to
// the working directory.
var DefaultScreenshotDir = filepath.Join("Assets", "Screenshots")

// Endpoint identifies the simulation host.
type Endpoint struct {
	Host string
	Port int
}

// DefaultEndpoint returns the endpoint of the reference deployment.
func DefaultEndpoint() Endpoint {
	return Endpoint{Host: DefaultHost, Port: DefaultPort}
}

// Address returns the endpoint in host:port form suitable for net.Dial.
func (e Endpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// String implements fmt.Stringer.
func (e Endpoint) String() string {
	return fmt.Sprintf("tcp://%s", e.Address())
}
