// Package main teleoperates a simulated robot arm end-effector with a
// keyboard or a serial SpaceMouse.
package main

import (
	"context"

	"go.viam.com/rdk/logging"
	"go.viam.com/utils"

	"teleop"
)

func main() {
	utils.ContextualMain(mainWithArgs, logging.NewLogger("teleop"))
}

// Arguments for the command.
type Arguments struct {
	Robot            string `flag:"robot,default=panda,usage=robot model to teleoperate (panda or sawyer)"`
	Controller       string `flag:"controller,default=ik,usage=controller mode: 'ik' or 'osc'"`
	Device           string `flag:"device,default=keyboard,usage=input device: 'keyboard' or 'spacemouse'"`
	Port             string `flag:"port,usage=serial port of the spacemouse (auto-discovered when empty)"`
	ControllerConfig string `flag:"controller-config,usage=path to a controller config JSON file"`
	Tuning           string `flag:"tuning,usage=path to a device tuning JSON file"`
	Freq             int    `flag:"freq,default=100,usage=control loop frequency in Hz"`
	Debug            bool   `flag:"debug,usage=enable debug logging"`
}

func mainWithArgs(ctx context.Context, args []string, logger logging.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}
	if argsParsed.Debug {
		logger = logging.NewDebugLogger("teleop")
	}

	// Startup-time validation: controller, robot, and device choices are
	// all fatal before any control loop begins.
	mode, err := teleop.ParseMode(argsParsed.Controller)
	if err != nil {
		return err
	}

	robot, err := teleop.LookupRobot(argsParsed.Robot)
	if err != nil {
		return err
	}

	cfg, err := teleop.LoadControllerConfig(argsParsed.ControllerConfig, mode, logger)
	if err != nil {
		return err
	}

	tuning, _ := teleop.LoadDeviceTuning(argsParsed.Tuning, logger)

	dev, err := teleop.NewDevice(argsParsed.Device, teleop.DeviceOptions{
		Port:   argsParsed.Port,
		Tuning: tuning,
	}, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := dev.Close(); err != nil {
			logger.Warnf("error closing device: %v", err)
		}
	}()

	env := teleop.NewSimArmEnv(robot, mode, cfg, logger)

	session, err := teleop.NewSession(mode, cfg, dev, env, float64(argsParsed.Freq), logger)
	if err != nil {
		return err
	}

	logger.Infof("teleoperating %s with %s in %s mode", robot.Name, argsParsed.Device, mode.Name())
	return session.Run(ctx)
}
