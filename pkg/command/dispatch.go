// Package command validates and applies batch joint move requests.
//
// A request addresses one joint group and carries parallel slices of
// joint numbers, angles and speeds. Entries are validated and applied
// one at a time, in order; the first invalid entry stops the scan and
// nothing after it reaches the hardware. Entries before it have already
// been sent - there is no rollback. Clients that need atomicity must
// send one entry per request.
package command

import (
	"github.com/google/uuid"
	"github.com/robonomics/go-mybuddy/internal/log"
	"github.com/robonomics/go-mybuddy/pkg/mybuddy"
	"github.com/robonomics/go-mybuddy/pkg/protocol"
)

// Joint limits enforced by the dispatcher. The bound is uniform across
// all joints even though the hardware documents ±165° for J1-J5; the
// controller itself accepts the wider range.
const (
	MinAngle = -175.0
	MaxAngle = 175.0
	MinSpeed = 1
	MaxSpeed = 100
)

// The four terminal result strings. These are the command surface's
// public contract; clients match on them.
const (
	ResultSuccess    = "Success: Angles sent"
	ResultWrongPart  = "Error: Wrong ID of robot part, use only L, R or W"
	ResultWrongJoint = "Error: Wrong joint number (only 1 .. 6)"
	ResultBadAngle   = "Error: Angle is out of range (-175 .. 175)"
	ResultBadSpeed   = "Error: Speed is out of range (1 .. 100)"
)

// Dispatcher applies validated move commands to the device link.
type Dispatcher struct {
	link mybuddy.Link
}

// NewDispatcher creates a dispatcher bound to a device link.
func NewDispatcher(link mybuddy.Link) *Dispatcher {
	return &Dispatcher{link: link}
}

// Dispatch validates req entry by entry and forwards each valid entry to
// the hardware immediately. It always returns exactly one of the four
// result strings.
func (d *Dispatcher) Dispatch(req protocol.SendAnglesRequest) protocol.SendAnglesResponse {
	reqID := uuid.NewString()
	logger := log.With("request_id", reqID, "part", req.PartID, "entries", len(req.JointNumber))
	logger.Info("move command received")

	group, ok := resolveGroup(req.PartID)
	if !ok {
		logger.Warn("move command rejected", "result", ResultWrongPart)
		return protocol.SendAnglesResponse{Result: ResultWrongPart}
	}

	for i, joint := range req.JointNumber {
		if joint < 1 || joint > 6 {
			logger.Warn("move command rejected", "entry", i, "joint", joint, "result", ResultWrongJoint)
			return protocol.SendAnglesResponse{Result: ResultWrongJoint}
		}
		// A ragged request (fewer angles or speeds than joints) fails
		// the range check rather than panicking on the index.
		if i >= len(req.Angle) || req.Angle[i] < MinAngle || req.Angle[i] > MaxAngle {
			logger.Warn("move command rejected", "entry", i, "result", ResultBadAngle)
			return protocol.SendAnglesResponse{Result: ResultBadAngle}
		}
		if i >= len(req.Speed) || req.Speed[i] < MinSpeed || req.Speed[i] > MaxSpeed {
			logger.Warn("move command rejected", "entry", i, "result", ResultBadSpeed)
			return protocol.SendAnglesResponse{Result: ResultBadSpeed}
		}

		// The result string reflects validation only; a wire failure on
		// an already-validated entry is logged and the scan continues.
		if err := d.link.SendAngle(group, joint, req.Angle[i], req.Speed[i]); err != nil {
			logger.Error("send_angle failed", "entry", i, "joint", joint, "error", err)
		}
	}

	logger.Info("move command applied")
	return protocol.SendAnglesResponse{Result: ResultSuccess}
}

// resolveGroup maps the single-character part code to a joint group.
func resolveGroup(partID string) (mybuddy.Group, bool) {
	switch partID {
	case "L":
		return mybuddy.LeftArm, true
	case "R":
		return mybuddy.RightArm, true
	case "W":
		return mybuddy.Waist, true
	}
	return 0, false
}
