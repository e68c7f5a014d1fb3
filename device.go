package teleop

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// DeviceState is one snapshot of operator input. DPos is the device-frame
// translation delta since the previous poll; Rotation is the device's
// absolute orientation; Grasp is in the device range [0, 2] (0 open, 1
// neutral, 2 closed); Reset requests an episode restart.
type DeviceState struct {
	DPos     r3.Vector
	Rotation *mat.Dense
	Grasp    float64
	Reset    bool
}

// Device is the capability interface every input device implements. The
// control loop depends only on this interface, never on a concrete device.
//
// A device may be driven internally by an asynchronous source (key events, a
// serial reader goroutine), but Poll is synchronous and never blocks beyond
// negligible I/O latency.
type Device interface {
	// StartControl arms the device for a new episode, clearing any pending
	// reset and re-establishing the neutral orientation. The first call
	// acquires the underlying hardware.
	StartControl() error

	// Poll returns the current input snapshot. Called once per tick.
	Poll() DeviceState

	// Close releases the underlying hardware.
	Close() error
}

// Grasp signal levels shared by the device implementations.
const (
	graspOpen    = 0.0
	graspNeutral = 1.0
	graspClosed  = 2.0
)

// initialDeviceRotation is the neutral device orientation. The x and z axes
// are flipped so a zeroed device commands the robot's starting posture with
// the gripper facing down.
func initialDeviceRotation() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		-1, 0, 0,
		0, 1, 0,
		0, 0, -1,
	})
}

// rotationAboutX returns the rotation matrix for an angle about the x axis.
func rotationAboutX(angle float64) *mat.Dense {
	c, s := math.Cos(angle), math.Sin(angle)
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	})
}

// rotationAboutY returns the rotation matrix for an angle about the y axis.
func rotationAboutY(angle float64) *mat.Dense {
	c, s := math.Cos(angle), math.Sin(angle)
	return mat.NewDense(3, 3, []float64{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	})
}

// rotationAboutZ returns the rotation matrix for an angle about the z axis.
func rotationAboutZ(angle float64) *mat.Dense {
	c, s := math.Cos(angle), math.Sin(angle)
	return mat.NewDense(3, 3, []float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	})
}

// composeRotation right-multiplies base by delta, applying delta in the
// base's local frame.
func composeRotation(base, delta *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Mul(base, delta)
	return &out
}

// cloneMatrix copies a 3x3 matrix so callers cannot alias device-internal
// orientation state.
func cloneMatrix(m *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.CloneFrom(m)
	return &out
}

// applyDeadzone zeroes axis values whose magnitude falls below the tuning
// deadzone.
func applyDeadzone(v, deadzone float64) float64 {
	if math.Abs(v) < deadzone {
		return 0
	}
	return v
}
