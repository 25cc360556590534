package jengaprotocol

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client sends commands to the Jenga simulation host.
//
// Each call opens its own connection, so a Client holds no session state
// beyond its endpoint and settings, which never change after NewClient.
// Separate clients may be used concurrently. A single client should be
// driven by one caller at a time: the Step workflow is several commands in
// a row and assumes nobody else is moving pieces in between.
type Client struct {
	endpoint  Endpoint
	transport *transport
	resolver  ArtifactResolver
	logger    *zap.Logger

	// wait blocks for the settle period; replaced in tests.
	wait func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	dialTimeout   time.Duration
	ioTimeout     time.Duration
	logger        *zap.Logger
	screenshotDir string
	resolver      ArtifactResolver
}

// WithDialTimeout bounds how long connecting to the host may take.
// Zero leaves the connect unbounded.
func WithDialTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.dialTimeout = d }
}

// WithIOTimeout bounds the write and read of each command. When it expires
// the call fails with ErrTimeout. Zero blocks until the host replies.
func WithIOTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.ioTimeout = d }
}

// WithLogger sets the logger used for per-command debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(o *clientOptions) { o.logger = logger }
}

// WithScreenshotDir sets the directory searched for the screenshot after a step.
func WithScreenshotDir(dir string) Option {
	return func(o *clientOptions) { o.screenshotDir = dir }
}

// WithArtifactResolver replaces the screenshot lookup entirely.
func WithArtifactResolver(r ArtifactResolver) Option {
	return func(o *clientOptions) { o.resolver = r }
}

// NewClient creates a client for the host at host:port.
func NewClient(host string, port int, opts ...Option) *Client {
	o := clientOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.resolver == nil {
		o.resolver = NewScreenshotResolver(o.screenshotDir)
	}

	endpoint := Endpoint{Host: host, Port: port}
	return &Client{
		endpoint: endpoint,
		transport: &transport{
			endpoint:    endpoint,
			dialTimeout: o.dialTimeout,
			ioTimeout:   o.ioTimeout,
			logger:      o.logger,
		},
		resolver: o.resolver,
		logger:   o.logger,
		wait:     sleepContext,
	}
}

// Endpoint returns the host address the client talks to.
func (c *Client) Endpoint() Endpoint {
	return c.endpoint
}

// Send sends a command and waits for the host's reply.
func (c *Client) Send(cmd Command) (Response, error) {
	return c.SendWithContext(context.Background(), cmd)
}

// SendWithContext sends a command with a context for cancellation/timeout.
func (c *Client) SendWithContext(ctx context.Context, cmd Command) (Response, error) {
	return c.transport.roundTrip(ctx, cmd.Format())
}

// SendRaw sends a raw command line and returns the trimmed reply text.
// The line is written as-is; no terminator is appended.
func (c *Client) SendRaw(commandLine string) (string, error) {
	return c.SendRawWithContext(context.Background(), commandLine)
}

// SendRawWithContext sends a raw command line with a context.
func (c *Client) SendRawWithContext(ctx context.Context, commandLine string) (string, error) {
	if strings.TrimSpace(commandLine) == "" {
		return "", ErrEmptyCommand
	}
	resp, err := c.transport.roundTrip(ctx, commandLine)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Reset rebuilds the tower and returns the host's acknowledgement.
func (c *Client) Reset() (string, error) {
	return c.ack(NewResetCommand())
}

// IsFallen reports whether the tower has fallen. A tower that is still
// toppling may not count as fallen yet, so call it some time after an action.
func (c *Client) IsFallen() (bool, error) {
	return c.isFallen(context.Background())
}

func (c *Client) isFallen(ctx context.Context) (bool, error) {
	resp, err := c.SendWithContext(ctx, NewIsFallenCommand())
	if err != nil {
		return false, err
	}
	return resp.Bool(), nil
}

// SetTimescale sets the simulation speed; 2 runs twice as fast as real time.
// The host resets it to 1 on restart.
func (c *Client) SetTimescale(scale float64) (string, error) {
	return c.ack(NewTimescaleCommand(scale))
}

// SetStaticFriction sets the static friction of the pieces.
// The host resets it on restart.
func (c *Client) SetStaticFriction(value float64) (string, error) {
	return c.ack(NewStaticFrictionCommand(value))
}

// SetDynamicFriction sets the dynamic friction of the pieces.
// The host resets it on restart.
func (c *Client) SetDynamicFriction(value float64) (string, error) {
	return c.ack(NewDynamicFrictionCommand(value))
}

// SetFallDetectDistance moves the colliders that decide when the tower counts as fallen.
func (c *Client) SetFallDetectDistance(distance float64) (string, error) {
	return c.ack(NewFallDetectDistanceCommand(distance))
}

// SetScreenshotWidth sets the width of future screenshots in pixels.
func (c *Client) SetScreenshotWidth(width int) (string, error) {
	return c.ack(NewScreenshotResolutionCommand(width))
}

// BlocksInLevel returns how many pieces remain in a level.
func (c *Client) BlocksInLevel(level int) (int, error) {
	resp, err := c.Send(NewBlocksInLevelCommand(level))
	if err != nil {
		return 0, err
	}
	return resp.Int()
}

// AverageMaxTiltAngle returns the average of the largest tilt each piece reached.
func (c *Client) AverageMaxTiltAngle() (float64, error) {
	resp, err := c.Send(NewAverageMaxTiltCommand())
	if err != nil {
		return 0, err
	}
	return resp.Float()
}

// MostMaxTiltAngle returns the largest tilt any piece reached.
func (c *Client) MostMaxTiltAngle() (float64, error) {
	resp, err := c.Send(NewMostMaxTiltCommand())
	if err != nil {
		return 0, err
	}
	return resp.Float()
}

// PlayerTurn hands the turn to the given player.
func (c *Client) PlayerTurn(playerType, playerIndex, round int) (string, error) {
	return c.ack(NewPlayerTurnCommand(playerType, playerIndex, round))
}

// RevertStep undoes the last removal and returns the host's status text.
func (c *Client) RevertStep() (string, error) {
	return c.ack(NewRevertStepCommand())
}

// ToggleMenu shows or hides the host's menu.
func (c *Client) ToggleMenu() (string, error) {
	return c.ack(NewToggleMenuCommand())
}

// Screenshot returns the path of the screenshot currently in the
// screenshot directory.
func (c *Client) Screenshot() (string, error) {
	return c.resolver.Resolve()
}

func (c *Client) ack(cmd Command) (string, error) {
	resp, err := c.Send(cmd)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
