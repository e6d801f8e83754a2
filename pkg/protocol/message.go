// Package protocol defines the JSON message types exchanged between the
// go-mybuddy node and its clients, over both the websocket telemetry
// stream and the HTTP command endpoint.
package protocol

import (
	"time"

	"github.com/robonomics/go-mybuddy/pkg/mybuddy"
)

// AngleSample is a snapshot of one joint group. Positions are degrees in
// the controller's native convention. Velocities and Efforts are always
// empty: the hardware does not report them.
type AngleSample struct {
	Group      string    `json:"group"`
	Names      []string  `json:"names"`
	Positions  []float64 `json:"positions"`
	Velocities []float64 `json:"velocities"`
	Efforts    []float64 `json:"efforts"`
	Stamp      time.Time `json:"stamp"`
}

// NewAngleSample builds a sample for a group, stamped now.
func NewAngleSample(group mybuddy.Group, positions []float64) AngleSample {
	return AngleSample{
		Group:      group.String(),
		Names:      group.JointNames(),
		Positions:  positions,
		Velocities: []float64{},
		Efforts:    []float64{},
		Stamp:      time.Now(),
	}
}

// AnglesMessage is one telemetry tick: all three groups read during the
// same execution window.
type AnglesMessage struct {
	LeftArm  AngleSample `json:"left_arm"`
	RightArm AngleSample `json:"right_arm"`
	Waist    AngleSample `json:"waist"`
}

// SendAnglesRequest is a batch move command. JointNumber, Angle and Speed
// are parallel slices; entries are applied in order with early exit on
// the first invalid one.
type SendAnglesRequest struct {
	PartID      string    `json:"part_id"`
	JointNumber []int     `json:"joint_number"`
	Angle       []float64 `json:"angle"`
	Speed       []int     `json:"speed"`
}

// SendAnglesResponse carries exactly one terminal result string.
type SendAnglesResponse struct {
	Result string `json:"result"`
}
