package teleop

import "github.com/golang/geo/r3"

// RemapGrasp converts the device grasp convention (0 = fully open, 1 =
// neutral, 2 = closed) into the [-1, 1] range the gripper actuator expects.
// This mapping is a fixed contract with the actuator and must not change.
func RemapGrasp(raw float64) float64 {
	return raw - 1
}

// AssembleAction builds the action vector in the order the environment
// expects: translation first, rotation second, grasp last. No clamping is
// performed here; out-of-range values are the environment's to reject.
func AssembleAction(pos r3.Vector, rotation []float64, grasp float64) []float64 {
	action := make([]float64, 0, 3+len(rotation)+1)
	action = append(action, pos.X, pos.Y, pos.Z)
	action = append(action, rotation...)
	action = append(action, grasp)
	return action
}
