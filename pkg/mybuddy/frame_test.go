package mybuddy

import (
	"testing"
)

func TestEncodeFrame(t *testing.T) {
	frame := encodeFrame(LeftArm, cmdGetAngles, nil)

	want := []byte{0xFE, 0xFE, 0x03, 0x01, 0x20, 0xFA}
	if len(frame) != len(want) {
		t.Fatalf("frame length = %d, want %d", len(frame), len(want))
	}
	for i := range want {
		if frame[i] != want[i] {
			t.Errorf("frame[%d] = 0x%02X, want 0x%02X", i, frame[i], want[i])
		}
	}
}

func TestFrameRoundTrip(t *testing.T) {
	payload := append(encodeAngle(-37.5), 0x32)
	frame := encodeFrame(Waist, cmdSendAngle, payload)

	cmd, data, err := decodeFrame(frame)
	if err != nil {
		t.Fatalf("decodeFrame() error = %v", err)
	}
	if cmd != cmdSendAngle {
		t.Errorf("cmd = 0x%02X, want 0x%02X", cmd, cmdSendAngle)
	}
	if len(data) != 3 {
		t.Fatalf("payload length = %d, want 3", len(data))
	}

	angles, err := decodeAngles(data[:2])
	if err != nil {
		t.Fatalf("decodeAngles() error = %v", err)
	}
	if angles[0] != -37.5 {
		t.Errorf("angle = %v, want -37.5", angles[0])
	}
}

func TestDecodeFrame_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		frame []byte
	}{
		{"too short", []byte{0xFE, 0xFE, 0xFA}},
		{"bad header", []byte{0x00, 0xFE, 0x03, 0x01, 0x20, 0xFA}},
		{"bad footer", []byte{0xFE, 0xFE, 0x03, 0x01, 0x20, 0x00}},
		{"length mismatch", []byte{0xFE, 0xFE, 0x09, 0x01, 0x20, 0xFA}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := decodeFrame(tt.frame); err == nil {
				t.Error("decodeFrame() expected an error")
			}
		})
	}
}

func TestDecodeAngles(t *testing.T) {
	// 6 joints at 10.00 degrees = 0x03E8 each
	data := make([]byte, 0, 12)
	for i := 0; i < 6; i++ {
		data = append(data, 0x03, 0xE8)
	}

	angles, err := decodeAngles(data)
	if err != nil {
		t.Fatalf("decodeAngles() error = %v", err)
	}
	if len(angles) != 6 {
		t.Fatalf("got %d angles, want 6", len(angles))
	}
	for i, a := range angles {
		if a != 10.0 {
			t.Errorf("angles[%d] = %v, want 10.0", i, a)
		}
	}
}

func TestDecodeAngles_OddPayload(t *testing.T) {
	if _, err := decodeAngles([]byte{0x03, 0xE8, 0x01}); err == nil {
		t.Error("decodeAngles() expected an error for an odd payload")
	}
}

func TestGroupJoints(t *testing.T) {
	if got := LeftArm.JointCount(); got != 6 {
		t.Errorf("LeftArm.JointCount() = %d, want 6", got)
	}
	if got := Waist.JointCount(); got != 1 {
		t.Errorf("Waist.JointCount() = %d, want 1", got)
	}
	if names := RightArm.JointNames(); len(names) != 6 || names[0] != "RJ1" {
		t.Errorf("RightArm.JointNames() = %v", names)
	}
	if names := Waist.JointNames(); len(names) != 1 || names[0] != "W" {
		t.Errorf("Waist.JointNames() = %v", names)
	}
	if Group(9).Valid() {
		t.Error("Group(9).Valid() should be false")
	}
}
