package teleop

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.bug.st/serial"
	"go.viam.com/rdk/logging"
	"gonum.org/v1/gonum/mat"
)

// SpaceMouse wire protocol. The device streams fixed-length 9-byte frames:
// header, report kind, six payload bytes, checksum. Axis reports carry three
// little-endian int16 values in the raw range [-350, 350]; the button report
// carries a bitmask in its first payload byte. The checksum is the bitwise
// complement of the 8-bit sum of kind and payload.
const (
	smFrameHeader = 0xAF
	smFrameLen    = 9

	smReportTranslation = 0x01
	smReportRotation    = 0x02
	smReportButtons     = 0x03

	smAxisRange = 350.0

	smButtonLeft  = 0x01 // gripper toggle
	smButtonRight = 0x02 // episode reset

	// Per-tick gains applied to normalized axis rates.
	smPosGain = 0.005
	smRotGain = 0.005

	smBaudRate    = 115200
	smReadTimeout = 100 * time.Millisecond
)

// smReport is one decoded frame.
type smReport struct {
	kind    byte
	axes    [3]float64 // normalized to [-1, 1] for axis reports
	buttons byte
}

// decodeSpaceMouseFrame decodes one 9-byte frame. The caller is responsible
// for aligning the frame on a header byte.
func decodeSpaceMouseFrame(frame []byte) (smReport, error) {
	if len(frame) != smFrameLen {
		return smReport{}, errors.Errorf("expected %d byte frame, got %d", smFrameLen, len(frame))
	}
	if frame[0] != smFrameHeader {
		return smReport{}, errors.Errorf("bad frame header 0x%02X", frame[0])
	}

	sum := frame[1]
	for _, b := range frame[2:8] {
		sum += b
	}
	if ^sum != frame[8] {
		return smReport{}, errors.Errorf("checksum mismatch: computed 0x%02X, got 0x%02X", ^sum, frame[8])
	}

	rep := smReport{kind: frame[1]}
	switch rep.kind {
	case smReportTranslation, smReportRotation:
		for i := 0; i < 3; i++ {
			raw := int16(binary.LittleEndian.Uint16(frame[2+2*i : 4+2*i]))
			rep.axes[i] = float64(raw) / smAxisRange
		}
	case smReportButtons:
		rep.buttons = frame[2]
	default:
		return smReport{}, errors.Errorf("unknown report kind 0x%02X", rep.kind)
	}
	return rep, nil
}

// spaceMouseDevice reads 6-DoF reports from a serial-attached SpaceMouse. A
// background goroutine drains the port and folds reports into the current
// state; Poll never touches the wire.
type spaceMouseDevice struct {
	logger   logging.Logger
	tuning   DeviceTuning
	portName string

	mu          sync.Mutex
	port        serial.Port
	started     bool
	translation [3]float64 // latest normalized translation rates
	rotation    *mat.Dense
	grasp       float64
	reset       bool
	leftHeld    bool
}

func newSpaceMouseDevice(portName string, tuning DeviceTuning, logger logging.Logger) *spaceMouseDevice {
	return &spaceMouseDevice{
		logger:   logger,
		tuning:   tuning,
		portName: portName,
		rotation: initialDeviceRotation(),
		grasp:    graspOpen,
	}
}

// StartControl opens the serial port on first use and re-arms the state for
// a fresh episode.
func (s *spaceMouseDevice) StartControl() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		port, err := serial.Open(s.portName, &serial.Mode{BaudRate: smBaudRate})
		if err != nil {
			return errors.Wrapf(err, "failed to open SpaceMouse on %s", s.portName)
		}
		if err := port.SetReadTimeout(smReadTimeout); err != nil {
			port.Close()
			return errors.Wrap(err, "failed to set SpaceMouse read timeout")
		}
		s.port = port
		s.started = true
		go s.readLoop(port)
		s.logger.Infof("SpaceMouse control started on %s", s.portName)
	}

	s.translation = [3]float64{}
	s.rotation = initialDeviceRotation()
	s.grasp = graspOpen
	s.reset = false
	s.leftHeld = false
	return nil
}

// Poll scales the latest translation rates into a per-tick delta and
// snapshots the integrated orientation.
func (s *spaceMouseDevice) Poll() DeviceState {
	s.mu.Lock()
	defer s.mu.Unlock()

	gain := smPosGain * s.tuning.PosSensitivity
	dpos := r3.Vector{
		X: applyDeadzone(s.translation[0], s.tuning.Deadzone) * gain,
		Y: applyDeadzone(s.translation[1], s.tuning.Deadzone) * gain,
		Z: applyDeadzone(s.translation[2], s.tuning.Deadzone) * gain,
	}

	return DeviceState{
		DPos:     dpos,
		Rotation: cloneMatrix(s.rotation),
		Grasp:    s.grasp,
		Reset:    s.reset,
	}
}

// Close stops the reader by closing the port.
func (s *spaceMouseDevice) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port != nil {
		err := s.port.Close()
		s.port = nil
		if err != nil {
			return errors.Wrap(err, "failed to close SpaceMouse port")
		}
	}
	return nil
}

func (s *spaceMouseDevice) readLoop(port serial.Port) {
	buf := make([]byte, 64)
	var pending []byte

	for {
		n, err := port.Read(buf)
		if err != nil {
			s.logger.Debugf("SpaceMouse read stopped: %v", err)
			return
		}
		pending = append(pending, buf[:n]...)

		for len(pending) >= smFrameLen {
			if pending[0] != smFrameHeader {
				pending = pending[1:]
				continue
			}
			rep, err := decodeSpaceMouseFrame(pending[:smFrameLen])
			if err != nil {
				// Mid-stream corruption; resync on the next header byte.
				s.logger.Debugf("dropping SpaceMouse frame: %v", err)
				pending = pending[1:]
				continue
			}
			pending = pending[smFrameLen:]
			s.apply(rep)
		}
	}
}

// apply folds one report into the device state.
func (s *spaceMouseDevice) apply(rep smReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch rep.kind {
	case smReportTranslation:
		s.translation = rep.axes
	case smReportRotation:
		gain := smRotGain * s.tuning.RotSensitivity
		roll := applyDeadzone(rep.axes[0], s.tuning.Deadzone) * gain
		pitch := applyDeadzone(rep.axes[1], s.tuning.Deadzone) * gain
		yaw := applyDeadzone(rep.axes[2], s.tuning.Deadzone) * gain
		s.rotation = composeRotation(s.rotation, rotationAboutX(roll))
		s.rotation = composeRotation(s.rotation, rotationAboutY(pitch))
		s.rotation = composeRotation(s.rotation, rotationAboutZ(yaw))
	case smReportButtons:
		leftDown := rep.buttons&smButtonLeft != 0
		if leftDown && !s.leftHeld {
			if s.grasp == graspClosed {
				s.grasp = graspOpen
			} else {
				s.grasp = graspClosed
			}
		}
		s.leftHeld = leftDown
		if rep.buttons&smButtonRight != 0 {
			s.reset = true
		}
	}
}
