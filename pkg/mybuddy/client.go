package mybuddy

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"
)

// ErrDeviceUnavailable is returned by Open when the serial port cannot be
// opened. Callers must treat it as fatal: there is no retry or reconnect.
var ErrDeviceUnavailable = errors.New("mybuddy: device unavailable")

// Client talks to the MyBuddy 280 controller over a serial port.
//
// The underlying protocol is strict request/response, so every exchange
// holds a mutex for its full duration. The node invokes the client from
// both the telemetry timer and the command handler; without the lock a
// read and a write could interleave on the wire.
type Client struct {
	mu   sync.Mutex
	port serial.Port
	open bool
}

// Open connects to the robot controller. It fails fast when the port is
// unavailable; the caller is expected to tear the process down.
func Open(portName string, baudRate int) (*Client, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrDeviceUnavailable, portName, err)
	}
	return &Client{port: port, open: true}, nil
}

// Close releases the serial port. Idempotent.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return nil
	}
	c.open = false
	return c.port.Close()
}

// GetAngles reads all six joint angles of an arm, in degrees.
func (c *Client) GetAngles(group Group) ([]float64, error) {
	data, err := c.exchange(group, cmdGetAngles, nil)
	if err != nil {
		return nil, err
	}
	angles, err := decodeAngles(data)
	if err != nil {
		return nil, err
	}
	if len(angles) != group.JointCount() {
		return nil, fmt.Errorf("mybuddy: %s returned %d angles, want %d", group, len(angles), group.JointCount())
	}
	return angles, nil
}

// GetAngle reads a single joint angle, in degrees.
func (c *Client) GetAngle(group Group, joint int) (float64, error) {
	data, err := c.exchange(group, cmdGetAngle, []byte{byte(joint)})
	if err != nil {
		return 0, err
	}
	angles, err := decodeAngles(data)
	if err != nil {
		return 0, err
	}
	if len(angles) != 1 {
		return 0, fmt.Errorf("mybuddy: %s joint %d returned %d angles, want 1", group, joint, len(angles))
	}
	return angles[0], nil
}

// SendAngle commands one joint to move to angle (degrees) at the given
// speed (1-100). The controller does not acknowledge moves, so this is
// write-only: the frame goes out and the call returns.
func (c *Client) SendAngle(group Group, joint int, angle float64, speed int) error {
	payload := make([]byte, 0, 4)
	payload = append(payload, byte(joint))
	payload = append(payload, encodeAngle(angle)...)
	payload = append(payload, byte(speed))

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open {
		return errors.New("mybuddy: client is closed")
	}
	if _, err := c.port.Write(encodeFrame(group, cmdSendAngle, payload)); err != nil {
		return fmt.Errorf("mybuddy: write: %w", err)
	}
	return nil
}

// exchange writes one request frame and reads the matching response.
// Holds the wire lock end to end so concurrent callers never interleave.
func (c *Client) exchange(group Group, cmd byte, data []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open {
		return nil, errors.New("mybuddy: client is closed")
	}

	frame := encodeFrame(group, cmd, data)
	if _, err := c.port.Write(frame); err != nil {
		return nil, fmt.Errorf("mybuddy: write: %w", err)
	}

	reply, err := c.readFrame()
	if err != nil {
		return nil, err
	}
	gotCmd, payload, err := decodeFrame(reply)
	if err != nil {
		return nil, fmt.Errorf("mybuddy: %w", err)
	}
	if gotCmd != cmd {
		return nil, fmt.Errorf("mybuddy: response command 0x%02X does not match request 0x%02X", gotCmd, cmd)
	}
	return payload, nil
}

// readFrame reassembles one response frame from the port. It scans for
// the two-byte header, then reads the declared remainder. There is no
// deadline here; a hung controller blocks the calling goroutine.
func (c *Client) readFrame() ([]byte, error) {
	var head [2]byte
	for {
		if err := c.readFull(head[1:]); err != nil {
			return nil, err
		}
		if head[0] == frameHeader && head[1] == frameHeader {
			break
		}
		head[0] = head[1]
	}

	var lenByte [1]byte
	if err := c.readFull(lenByte[:]); err != nil {
		return nil, err
	}
	rest := make([]byte, int(lenByte[0]))
	if err := c.readFull(rest); err != nil {
		return nil, err
	}

	frame := make([]byte, 0, len(rest)+3)
	frame = append(frame, frameHeader, frameHeader, lenByte[0])
	return append(frame, rest...), nil
}

func (c *Client) readFull(buf []byte) error {
	if _, err := io.ReadFull(c.port, buf); err != nil {
		return fmt.Errorf("mybuddy: read: %w", err)
	}
	return nil
}
