package mybuddy

import (
	"encoding/binary"
	"fmt"
)

// Wire framing for the MyBuddy 280 controller.
//
// Request and response share one layout:
//
//	0xFE 0xFE LEN ID CMD DATA... 0xFA
//
// LEN counts ID + CMD + DATA + footer. ID is the group (1 left, 2 right,
// 3 waist). Angles travel as big-endian int16 centidegrees; speed as one
// byte.
const (
	frameHeader byte = 0xFE
	frameFooter byte = 0xFA

	cmdGetAngles byte = 0x20
	cmdSendAngle byte = 0x21
	cmdGetAngle  byte = 0x24
)

// encodeFrame wraps a command and payload for one group into a wire frame.
func encodeFrame(group Group, cmd byte, data []byte) []byte {
	frame := make([]byte, 0, len(data)+6)
	frame = append(frame, frameHeader, frameHeader, byte(len(data)+3), byte(group), cmd)
	frame = append(frame, data...)
	return append(frame, frameFooter)
}

// decodeFrame validates framing and returns the command byte and payload.
func decodeFrame(frame []byte) (cmd byte, data []byte, err error) {
	if len(frame) < 6 {
		return 0, nil, fmt.Errorf("frame too short: %d bytes", len(frame))
	}
	if frame[0] != frameHeader || frame[1] != frameHeader {
		return 0, nil, fmt.Errorf("bad frame header % X", frame[:2])
	}
	if frame[len(frame)-1] != frameFooter {
		return 0, nil, fmt.Errorf("bad frame footer 0x%02X", frame[len(frame)-1])
	}
	n := int(frame[2])
	if n+3 != len(frame) {
		return 0, nil, fmt.Errorf("frame length mismatch: header says %d, got %d bytes", n+3, len(frame))
	}
	return frame[4], frame[5 : len(frame)-1], nil
}

// encodeAngle converts degrees to wire centidegrees.
func encodeAngle(deg float64) []byte {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, uint16(int16(deg*100)))
	return buf
}

// decodeAngles unpacks a payload of int16 centidegrees.
func decodeAngles(data []byte) ([]float64, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("odd angle payload length %d", len(data))
	}
	angles := make([]float64, 0, len(data)/2)
	for i := 0; i < len(data); i += 2 {
		raw := int16(binary.BigEndian.Uint16(data[i : i+2]))
		angles = append(angles, float64(raw)/100)
	}
	return angles, nil
}
