package teleop

import (
	"fmt"
	"math"
	"sort"

	"github.com/golang/geo/r3"
	"go.viam.com/rdk/referenceframe"
)

// RobotSpec describes one supported robot model: the joint configuration it
// is re-homed to at every episode start and its end-effector pose in that
// configuration. The home posture points the gripper straight down.
type RobotSpec struct {
	Name        string
	HomeJoints  []float64
	HomeEEPos   r3.Vector
	HomeEERot   []float64 // row-major 3x3
	GripperSpan float64   // fully-open jaw width, meters
}

var robotSpecs = map[string]RobotSpec{
	"panda": {
		Name:        "panda",
		HomeJoints:  []float64{0, math.Pi / 16.0, 0, -math.Pi/2.0 - math.Pi/3.0, 0, math.Pi - 0.2, -math.Pi / 4},
		HomeEEPos:   r3.Vector{X: 0.56, Y: 0, Z: 0.45},
		HomeEERot:   gripperDownRotation,
		GripperSpan: 0.08,
	},
	"sawyer": {
		Name:        "sawyer",
		HomeJoints:  []float64{0, -1.18, 0.00, 2.18, 0.00, 0.57, 1.5708},
		HomeEEPos:   r3.Vector{X: 0.58, Y: 0, Z: 0.40},
		HomeEERot:   gripperDownRotation,
		GripperSpan: 0.044,
	},
}

// gripperDownRotation orients the tool frame with its approach axis pointing
// at the table.
var gripperDownRotation = []float64{
	1, 0, 0,
	0, -1, 0,
	0, 0, -1,
}

// LookupRobot returns the spec for a robot identity. Unknown identities are
// fatal; there is no home posture to fall back to.
func LookupRobot(name string) (RobotSpec, error) {
	spec, ok := robotSpecs[name]
	if !ok {
		return RobotSpec{}, fmt.Errorf("unsupported robot %q: this tool supports %s only", name, supportedRobotList())
	}
	return spec, nil
}

// HomeJointInputs returns the re-homing configuration as frame inputs.
func (r RobotSpec) HomeJointInputs() []referenceframe.Input {
	inputs := make([]referenceframe.Input, len(r.HomeJoints))
	for i, v := range r.HomeJoints {
		inputs[i] = referenceframe.Input{Value: v}
	}
	return inputs
}

func supportedRobotList() string {
	names := make([]string, 0, len(robotSpecs))
	for name := range robotSpecs {
		names = append(names, name)
	}
	sort.Strings(names)
	out := ""
	for i, name := range names {
		if i > 0 {
			out += " and "
		}
		out += name
	}
	return out
}
