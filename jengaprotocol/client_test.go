package jengaprotocol

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestClientSendsExactWireText(t *testing.T) {
	host := startMockHost(t, nil)
	client := host.client()

	if _, err := client.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if _, err := client.SetTimescale(2); err != nil {
		t.Fatalf("SetTimescale: %v", err)
	}
	if _, err := client.SetStaticFriction(0.5); err != nil {
		t.Fatalf("SetStaticFriction: %v", err)
	}
	if _, err := client.SetDynamicFriction(0.25); err != nil {
		t.Fatalf("SetDynamicFriction: %v", err)
	}

	want := []string{"reset", "timescale 2.0", "staticfriction 0.5", "dynamicfriction 0.25"}
	got := host.received()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("received %q, want %q", got, want)
	}
}

func TestClientOneConnectionPerCommand(t *testing.T) {
	host := startMockHost(t, nil)
	client := host.client()

	for i := 0; i < 3; i++ {
		if _, err := client.IsFallen(); err != nil {
			t.Fatalf("IsFallen: %v", err)
		}
	}
	if n := host.connectionCount(); n != 3 {
		t.Errorf("connections = %d, want 3", n)
	}
}

func TestResetTwiceIsIndependent(t *testing.T) {
	host := startMockHost(t, nil)
	client := host.client()

	for i := 0; i < 2; i++ {
		ack, err := client.Reset()
		if err != nil {
			t.Fatalf("Reset #%d: %v", i+1, err)
		}
		if ack != AckResponse {
			t.Errorf("Reset #%d ack = %q, want %q", i+1, ack, AckResponse)
		}
	}
	if n := host.connectionCount(); n != 2 {
		t.Errorf("connections = %d, want 2", n)
	}
}

func TestIsFallenInterpretation(t *testing.T) {
	tests := []struct {
		reply    string
		expected bool
	}{
		{"true", true},
		{"TRUE \n", true},
		{"false", false},
		{"maybe", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.reply, func(t *testing.T) {
			host := startMockHost(t, func(string) string { return tt.reply })
			fallen, err := host.client().IsFallen()
			if err != nil {
				t.Fatalf("IsFallen: %v", err)
			}
			if fallen != tt.expected {
				t.Errorf("IsFallen() = %v, want %v", fallen, tt.expected)
			}
		})
	}
}

func TestSendRawTrimsReply(t *testing.T) {
	host := startMockHost(t, func(string) string { return "  status text \r\n" })
	got, err := host.client().SendRaw("revert_step")
	if err != nil {
		t.Fatalf("SendRaw: %v", err)
	}
	if got != "status text" {
		t.Errorf("got %q, want %q", got, "status text")
	}
}

func TestSendRawRejectsEmptyLine(t *testing.T) {
	host := startMockHost(t, nil)
	if _, err := host.client().SendRaw("   "); !errors.Is(err, ErrEmptyCommand) {
		t.Errorf("expected ErrEmptyCommand, got %v", err)
	}
	if n := host.connectionCount(); n != 0 {
		t.Errorf("connections = %d, want 0", n)
	}
}

func TestReplyIsLimitedToBufferSize(t *testing.T) {
	long := strings.Repeat("a", ResponseBufferSize+500)
	host := startMockHost(t, func(string) string { return long })

	got, err := host.client().SendRaw("toggle_menu")
	if err != nil {
		t.Fatalf("SendRaw: %v", err)
	}
	if len(got) > ResponseBufferSize {
		t.Errorf("reply length = %d, want at most %d", len(got), ResponseBufferSize)
	}
}

func TestConnectionRefused(t *testing.T) {
	client := NewClient("127.0.0.1", closedPort(t), WithDialTimeout(time.Second))

	_, err := client.Reset()
	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("expected *ConnectionError, got %v", err)
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("refused connection should not be a timeout")
	}
}

func TestUndecodableReply(t *testing.T) {
	host := startMockHost(t, func(string) string { return "\xff\xfe" })

	_, err := host.client().IsFallen()
	var perr *ProtocolError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ProtocolError, got %v", err)
	}
}

func TestIOTimeout(t *testing.T) {
	release := make(chan struct{})
	host := startMockHost(t, func(string) string {
		<-release
		return AckResponse
	})
	defer close(release)

	client := host.client(WithIOTimeout(50 * time.Millisecond))
	_, err := client.Reset()
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		t.Error("timeout should be distinct from ConnectionError")
	}
}

func TestSendWithContextCancel(t *testing.T) {
	release := make(chan struct{})
	host := startMockHost(t, func(string) string {
		<-release
		return AckResponse
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := host.client().SendWithContext(ctx, NewResetCommand())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNumericQueries(t *testing.T) {
	host := startMockHost(t, nil)
	client := host.client()

	blocks, err := client.BlocksInLevel(2)
	if err != nil || blocks != 3 {
		t.Errorf("BlocksInLevel = %d, %v; want 3, nil", blocks, err)
	}
	avg, err := client.AverageMaxTiltAngle()
	if err != nil || avg != 1.25 {
		t.Errorf("AverageMaxTiltAngle = %v, %v; want 1.25, nil", avg, err)
	}
	most, err := client.MostMaxTiltAngle()
	if err != nil || most != 4.5 {
		t.Errorf("MostMaxTiltAngle = %v, %v; want 4.5, nil", most, err)
	}

	if got := host.received()[0]; got != "get_num_of_blocks_in_level 2" {
		t.Errorf("first command = %q", got)
	}
}

func TestNumericQueryUnexpectedReply(t *testing.T) {
	host := startMockHost(t, func(string) string { return "Invalid level value" })

	_, err := host.client().BlocksInLevel(99)
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Kind != ErrKindUnexpectedResponse {
		t.Fatalf("expected unexpected response error, got %v", err)
	}
}

func TestAcknowledgementsAreRelayed(t *testing.T) {
	host := startMockHost(t, nil)
	client := host.client()

	status, err := client.RevertStep()
	if err != nil || status != "Step reverted." {
		t.Errorf("RevertStep = %q, %v", status, err)
	}

	calls := []func() (string, error){
		func() (string, error) { return client.SetFallDetectDistance(2) },
		func() (string, error) { return client.SetScreenshotWidth(128) },
		func() (string, error) { return client.PlayerTurn(0, 1, 1) },
		client.ToggleMenu,
	}
	for i, call := range calls {
		ack, err := call()
		if err != nil || ack != AckResponse {
			t.Errorf("call %d = %q, %v; want ACK", i, ack, err)
		}
	}

	want := []string{
		"revert_step",
		"set_fall_detect_distance 2.0",
		"set_screenshot_res 128",
		"player_turn 0 1 1",
		"toggle_menu",
	}
	if got := host.received(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("received %q, want %q", got, want)
	}
}

func TestClientEndpoint(t *testing.T) {
	client := NewClient("10.0.0.5", 4000)
	if got := client.Endpoint().Address(); got != "10.0.0.5:4000" {
		t.Errorf("Endpoint() = %q", got)
	}
}
