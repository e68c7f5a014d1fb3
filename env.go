package teleop

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/referenceframe"
	"go.viam.com/rdk/spatialmath"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// Observation is the environment state returned after a reset or step.
type Observation struct {
	JointPositions []referenceframe.Input
	EEPosition     r3.Vector
	EERotation     *mat.Dense
	GripperOpening float64
}

// Environment is the simulation contract the control loop drives. The
// shipped implementation is kinematic; a physics-backed environment can
// replace it without touching the loop.
type Environment interface {
	RobotName() string
	Reset() (Observation, error)
	SetJointPositions(inputs []referenceframe.Input) error
	EndEffectorRotation() *mat.Dense
	Step(action []float64) (Observation, float64, bool, error)
	Render()
}

// renderEvery throttles pose logging so rendering stays readable at 100 Hz.
const renderEvery = 50

// SimArmEnv integrates commanded end-effector motion without simulating
// dynamics. Delta-mode actions move the pose directly; absolute-mode actions
// place the position target relative to the home pose. Out-of-bound action
// elements are clamped, which is this environment's half of the no-clamping
// contract in the action assembler.
type SimArmEnv struct {
	robot  RobotSpec
	mode   *Mode
	cfg    *ControllerConfig
	logger logging.Logger

	joints  []referenceframe.Input
	eePos   r3.Vector
	eeRot   *mat.Dense
	gripper float64 // remapped grasp, [-1, 1]
	ticks   uint64
}

// NewSimArmEnv builds a simulated environment for one robot model.
func NewSimArmEnv(robot RobotSpec, mode *Mode, cfg *ControllerConfig, logger logging.Logger) *SimArmEnv {
	env := &SimArmEnv{
		robot:  robot,
		mode:   mode,
		cfg:    cfg,
		logger: logger,
	}
	env.restoreHomePose()
	return env
}

// RobotName identifies the robot model in use.
func (e *SimArmEnv) RobotName() string { return e.robot.Name }

// Reset returns the robot to its home pose and hands back the first
// observation of the episode.
func (e *SimArmEnv) Reset() (Observation, error) {
	e.restoreHomePose()
	e.ticks = 0
	return e.observation(), nil
}

// SetJointPositions re-homes the arm to an explicit joint configuration.
func (e *SimArmEnv) SetJointPositions(inputs []referenceframe.Input) error {
	if len(inputs) != len(e.robot.HomeJoints) {
		return errors.Errorf("expected %d joint positions for %s, got %d",
			len(e.robot.HomeJoints), e.robot.Name, len(inputs))
	}
	e.joints = append([]referenceframe.Input(nil), inputs...)
	return nil
}

// EndEffectorRotation returns the live end-effector orientation.
func (e *SimArmEnv) EndEffectorRotation() *mat.Dense {
	return cloneMatrix(e.eeRot)
}

// Step applies one action vector: position(3) ++ rotation ++ grasp(1).
func (e *SimArmEnv) Step(action []float64) (Observation, float64, bool, error) {
	want := 3 + e.mode.RotationSize() + 1
	if len(action) != want {
		return Observation{}, 0, false, errors.Errorf("expected action of length %d, got %d", want, len(action))
	}

	clamped := make([]float64, len(action))
	for i, v := range action {
		clamped[i] = clamp(v, e.cfg.MinAction, e.cfg.MaxAction)
	}

	pos := r3.Vector{X: clamped[0], Y: clamped[1], Z: clamped[2]}
	if e.cfg.ControlDelta {
		e.eePos = e.eePos.Add(pos)
	} else {
		e.eePos = e.robot.HomeEEPos.Add(pos)
	}

	drot, err := e.rotationFromAction(clamped[3 : 3+e.mode.RotationSize()])
	if err != nil {
		return Observation{}, 0, false, err
	}
	// The rotation term is expressed in the end-effector's local frame.
	e.eeRot = composeRotation(e.eeRot, drot)

	e.gripper = clamped[len(clamped)-1]
	e.ticks++

	// Reward shaping is out of scope for teleoperation.
	return e.observation(), 0, false, nil
}

// Render logs the commanded pose at a readable rate.
func (e *SimArmEnv) Render() {
	if e.ticks%renderEvery != 0 {
		return
	}
	eu := orientationOf(e.eeRot).EulerAngles()
	e.logger.Debugf("%s ee pos=(%.3f, %.3f, %.3f) rpy=(%.3f, %.3f, %.3f) gripper=%.2f",
		e.robot.Name, e.eePos.X, e.eePos.Y, e.eePos.Z, eu.Roll, eu.Pitch, eu.Yaw, e.gripper)
}

func (e *SimArmEnv) restoreHomePose() {
	e.joints = e.robot.HomeJointInputs()
	e.eePos = e.robot.HomeEEPos
	e.eeRot = mat.NewDense(3, 3, append([]float64(nil), e.robot.HomeEERot...))
	e.gripper = -1 // open
}

func (e *SimArmEnv) observation() Observation {
	opening := e.robot.GripperSpan * (1 - e.gripper) / 2
	return Observation{
		JointPositions: append([]referenceframe.Input(nil), e.joints...),
		EEPosition:     e.eePos,
		EERotation:     cloneMatrix(e.eeRot),
		GripperOpening: opening,
	}
}

// rotationFromAction reconstructs the relative rotation matrix from the
// action's rotation term, honoring the mode's representation.
func (e *SimArmEnv) rotationFromAction(rot []float64) (*mat.Dense, error) {
	var o spatialmath.Orientation
	switch len(rot) {
	case 4: // quaternion, (x, y, z, w)
		rm := spatialmath.QuatToRotationMatrix(quat.Number{Real: rot[3], Imag: rot[0], Jmag: rot[1], Kmag: rot[2]})
		o = rm
	case 3: // euler, (roll, pitch, yaw)
		o = &spatialmath.EulerAngles{Roll: rot[0], Pitch: rot[1], Yaw: rot[2]}
	default:
		return nil, errors.Errorf("unsupported rotation term of length %d", len(rot))
	}
	return denseFromOrientation(o), nil
}

// denseFromOrientation converts any spatialmath orientation to a 3x3 gonum
// matrix.
func denseFromOrientation(o spatialmath.Orientation) *mat.Dense {
	rm := o.RotationMatrix()
	out := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.Set(i, j, rm.At(i, j))
		}
	}
	return out
}

// orientationOf wraps a dense matrix as a spatialmath orientation, panicking
// only on shape errors that indicate a programming bug.
func orientationOf(m *mat.Dense) spatialmath.Orientation {
	rm, err := rotationMatrixFromDense(m)
	if err != nil {
		panic(err)
	}
	return rm
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
