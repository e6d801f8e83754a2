// Package mybuddy provides a serial client for the Elephant Robotics
// MyBuddy 280 dual-arm manipulator. The robot carries two 6-joint arms
// and a single waist joint, all reached through one serial controller.
//
// All angles are in degrees, the controller's native unit.
package mybuddy

// Group addresses one joint collection on the robot.
type Group byte

const (
	LeftArm  Group = 1
	RightArm Group = 2
	Waist    Group = 3
)

// JointCount returns the number of joints in the group.
func (g Group) JointCount() int {
	if g == Waist {
		return 1
	}
	return 6
}

// JointNames returns the joint names in wire order.
func (g Group) JointNames() []string {
	switch g {
	case LeftArm:
		return []string{"LJ1", "LJ2", "LJ3", "LJ4", "LJ5", "LJ6"}
	case RightArm:
		return []string{"RJ1", "RJ2", "RJ3", "RJ4", "RJ5", "RJ6"}
	case Waist:
		return []string{"W"}
	}
	return nil
}

func (g Group) String() string {
	switch g {
	case LeftArm:
		return "left_arm"
	case RightArm:
		return "right_arm"
	case Waist:
		return "waist"
	}
	return "unknown"
}

// Valid reports whether g addresses a real joint group.
func (g Group) Valid() bool {
	return g == LeftArm || g == RightArm || g == Waist
}

// Link is the Device Link boundary. The telemetry publisher and the
// command dispatcher depend on this interface rather than on *Client so
// they can be tested against a recording mock.
type Link interface {
	GetAngles(group Group) ([]float64, error)
	GetAngle(group Group, joint int) (float64, error)
	SendAngle(group Group, joint int, angle float64, speed int) error
}
