package teleop

import (
	"context"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/rdk/logging"
)

// DefaultControlFreq is the tick rate of the control loop in Hz.
const DefaultControlFreq = 100.0

// poseAccumulationScale damps translation deltas before they are integrated
// into the absolute position target, keeping the target from running far
// ahead of the physically achievable pose.
const poseAccumulationScale = 0.1

// Session owns one teleoperation run: a device, an environment, the selected
// controller mode, and the per-episode state (accumulated position target
// and quaternion branch). Exactly one tick is in flight at a time.
type Session struct {
	mode   *Mode
	cfg    *ControllerConfig
	dev    Device
	env    Environment
	logger logging.Logger

	tickInterval time.Duration

	// Valid only in absolute-pose mode; zeroed at every episode start.
	accumulated r3.Vector
	quats       quatTracker
}

// NewSession wires a device and an environment under one controller mode.
func NewSession(mode *Mode, cfg *ControllerConfig, dev Device, env Environment, freqHz float64, logger logging.Logger) (*Session, error) {
	if freqHz <= 0 {
		return nil, errors.Errorf("control frequency must be positive, got %.1f", freqHz)
	}
	return &Session{
		mode:         mode,
		cfg:          cfg,
		dev:          dev,
		env:          env,
		logger:       logger,
		tickInterval: time.Duration(float64(time.Second) / freqHz),
	}, nil
}

// Run executes episodes until the context is cancelled. A device reset
// signal ends the current episode and starts a fresh one; an unsupported
// robot identity or a failed environment step terminates the session.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := s.startEpisode(); err != nil {
			return err
		}
		restart, err := s.runEpisode(ctx)
		if err != nil {
			return err
		}
		if !restart {
			return nil
		}
	}
}

// startEpisode performs the EPISODE_START transition: fresh observation,
// re-home from the robot table, zero the accumulator, re-arm the device.
func (s *Session) startEpisode() error {
	if _, err := s.env.Reset(); err != nil {
		return errors.Wrap(err, "environment reset failed")
	}

	robot, err := LookupRobot(s.env.RobotName())
	if err != nil {
		return err
	}
	if err := s.env.SetJointPositions(robot.HomeJointInputs()); err != nil {
		return errors.Wrapf(err, "failed to re-home %s", robot.Name)
	}

	s.accumulated = r3.Vector{}
	s.quats.reset()

	if err := s.dev.StartControl(); err != nil {
		return errors.Wrap(err, "failed to start device input collection")
	}

	s.logger.Infof("episode started: robot=%s controller=%s config=%s", robot.Name, s.mode.Name(), s.cfg.Type)
	return nil
}

// runEpisode ticks until the device requests a reset (restart=true) or the
// context ends (restart=false).
func (s *Session) runEpisode(ctx context.Context) (bool, error) {
	for {
		if ctx.Err() != nil {
			return false, nil
		}

		state := s.dev.Poll()
		if state.Reset {
			s.logger.Info("reset requested by device")
			return true, nil
		}

		if err := s.tick(state); err != nil {
			return false, err
		}

		if !goutils.SelectContextOrWait(ctx, s.tickInterval) {
			return false, nil
		}
	}
}

// tick translates one device snapshot into one environment action.
func (s *Session) tick(state DeviceState) error {
	drotDense := RelativeRotation(s.env.EndEffectorRotation(), state.Rotation)
	drot, err := rotationMatrixFromDense(drotDense)
	if err != nil {
		return err
	}
	rotTerm := s.mode.rotationTerm(drot, &s.quats)

	pos := state.DPos
	if s.mode.usesAbsolutePose {
		// The rotation command is absolute, so the position command must be
		// too: integrate damped deltas instead of passing them through.
		s.accumulated = s.accumulated.Add(state.DPos.Mul(poseAccumulationScale))
		pos = s.accumulated
	}

	action := AssembleAction(pos, rotTerm, RemapGrasp(state.Grasp))
	if _, _, _, err := s.env.Step(action); err != nil {
		return errors.Wrap(err, "environment step failed")
	}
	s.env.Render()
	return nil
}

// AccumulatedPose returns the current absolute position target. Meaningful
// only in absolute-pose mode.
func (s *Session) AccumulatedPose() r3.Vector {
	return s.accumulated
}
