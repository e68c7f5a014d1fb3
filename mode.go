package teleop

import (
	"fmt"

	"go.viam.com/rdk/spatialmath"
)

// Mode fixes the behavior that differs between the two supported controllers:
// whether the position term is an accumulated absolute offset or a raw delta,
// and how the relative rotation is serialized into the action vector. All
// mode-specific dispatch lives here so the control loop never branches on a
// mode string.
type Mode struct {
	name             string
	usesAbsolutePose bool
	rotationSize     int
	rotationTerm     func(drot *spatialmath.RotationMatrix, quats *quatTracker) []float64
}

// Name returns the CLI name of the mode.
func (m *Mode) Name() string { return m.name }

// UsesAbsolutePose reports whether the downstream controller expects
// absolute pose targets rather than per-tick deltas.
func (m *Mode) UsesAbsolutePose() bool { return m.usesAbsolutePose }

// RotationSize returns the number of action elements the rotation term
// occupies (4 for quaternion, 3 for Euler angles).
func (m *Mode) RotationSize() int { return m.rotationSize }

var (
	// IK commands the inverse-kinematics controller: delta position,
	// rotation as a continuity-corrected unit quaternion.
	IK = &Mode{
		name:             "ik",
		usesAbsolutePose: false,
		rotationSize:     4,
		rotationTerm: func(drot *spatialmath.RotationMatrix, quats *quatTracker) []float64 {
			return quaternionElements(quats.canonicalize(drot.Quaternion()))
		},
	}

	// OSC commands the operational-space controller: absolute position
	// accumulated from deltas, rotation as roll/pitch/yaw Euler angles.
	OSC = &Mode{
		name:             "osc",
		usesAbsolutePose: true,
		rotationSize:     3,
		rotationTerm: func(drot *spatialmath.RotationMatrix, _ *quatTracker) []float64 {
			eu := drot.EulerAngles()
			return []float64{eu.Roll, eu.Pitch, eu.Yaw}
		},
	}
)

// ParseMode resolves a CLI controller name to its mode. An unsupported name
// is a startup-time fatal condition for the caller.
func ParseMode(name string) (*Mode, error) {
	switch name {
	case IK.name:
		return IK, nil
	case OSC.name:
		return OSC, nil
	default:
		return nil, fmt.Errorf("unsupported controller %q: must be either 'ik' or 'osc'", name)
	}
}
