package teleop

import (
	"os"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"
	"golang.org/x/term"
	"gonum.org/v1/gonum/mat"
)

// Keyboard step sizes per key event, before tuning sensitivity is applied.
const (
	keyboardPosStep = 0.05 // meters
	keyboardRotStep = 0.1  // radians
)

// keyboardDevice maps terminal key events onto 6-DoF commands:
//
//	w/s  ±x translation      z/x  rotate about x
//	a/d  ±y translation      t/g  rotate about y
//	r/f  ±z translation      c/v  rotate about z
//	space toggle gripper     q    reset episode
//
// Key bytes arrive on a background reader; Poll exposes a synchronous
// snapshot and reports the position moved since the previous poll.
type keyboardDevice struct {
	logger logging.Logger
	tuning DeviceTuning

	mu       sync.Mutex
	pos      r3.Vector
	lastPos  r3.Vector
	rotation *mat.Dense
	grasp    float64
	reset    bool

	started  bool
	oldState *term.State
}

func newKeyboardDevice(tuning DeviceTuning, logger logging.Logger) *keyboardDevice {
	return &keyboardDevice{
		logger:   logger,
		tuning:   tuning,
		rotation: initialDeviceRotation(),
		grasp:    graspOpen,
	}
}

// StartControl puts the terminal into raw mode on first use and re-arms the
// device state for a fresh episode.
func (k *keyboardDevice) StartControl() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if !k.started {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return errors.New("keyboard device requires an interactive terminal on stdin")
		}
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return errors.Wrap(err, "failed to put terminal into raw mode")
		}
		k.oldState = oldState
		k.started = true
		go k.readLoop()
		k.logger.Info("keyboard control started: w/s/a/d/r/f move, z/x/t/g/c/v rotate, space toggles gripper, q resets")
	}

	k.pos = r3.Vector{}
	k.lastPos = r3.Vector{}
	k.rotation = initialDeviceRotation()
	k.grasp = graspOpen
	k.reset = false
	return nil
}

// Poll returns the snapshot for this tick. DPos is the accumulated key
// motion since the last poll, so holding a key (terminal auto-repeat)
// produces a stream of small deltas.
func (k *keyboardDevice) Poll() DeviceState {
	k.mu.Lock()
	defer k.mu.Unlock()

	dpos := k.pos.Sub(k.lastPos)
	k.lastPos = k.pos

	return DeviceState{
		DPos:     dpos,
		Rotation: cloneMatrix(k.rotation),
		Grasp:    k.grasp,
		Reset:    k.reset,
	}
}

// Close restores the terminal.
func (k *keyboardDevice) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.oldState != nil {
		if err := term.Restore(int(os.Stdin.Fd()), k.oldState); err != nil {
			return errors.Wrap(err, "failed to restore terminal state")
		}
		k.oldState = nil
	}
	return nil
}

func (k *keyboardDevice) readLoop() {
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			k.logger.Debugf("keyboard read stopped: %v", err)
			return
		}
		if n == 0 {
			continue
		}
		k.handleKey(buf[0])
	}
}

func (k *keyboardDevice) handleKey(b byte) {
	k.mu.Lock()
	defer k.mu.Unlock()

	posStep := keyboardPosStep * k.tuning.PosSensitivity
	rotStep := keyboardRotStep * k.tuning.RotSensitivity

	switch b {
	case 'w':
		k.pos.X += posStep
	case 's':
		k.pos.X -= posStep
	case 'a':
		k.pos.Y += posStep
	case 'd':
		k.pos.Y -= posStep
	case 'r':
		k.pos.Z += posStep
	case 'f':
		k.pos.Z -= posStep
	case 'z':
		k.rotation = composeRotation(k.rotation, rotationAboutX(rotStep))
	case 'x':
		k.rotation = composeRotation(k.rotation, rotationAboutX(-rotStep))
	case 't':
		k.rotation = composeRotation(k.rotation, rotationAboutY(rotStep))
	case 'g':
		k.rotation = composeRotation(k.rotation, rotationAboutY(-rotStep))
	case 'c':
		k.rotation = composeRotation(k.rotation, rotationAboutZ(rotStep))
	case 'v':
		k.rotation = composeRotation(k.rotation, rotationAboutZ(-rotStep))
	case ' ':
		if k.grasp == graspClosed {
			k.grasp = graspOpen
		} else {
			k.grasp = graspClosed
		}
	case 'q':
		k.reset = true
	case 0x03: // Ctrl-C arrives as a byte in raw mode; forward it as a signal
		if p, err := os.FindProcess(os.Getpid()); err == nil {
			if err := p.Signal(os.Interrupt); err != nil {
				k.logger.Warnf("failed to forward interrupt: %v", err)
			}
		}
	}
}
