package teleop

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"go.viam.com/rdk/logging"
)

//go:embed ee_ik.json
var defaultIKConfigJSON []byte

//go:embed ee_osc.json
var defaultOSCConfigJSON []byte

// ControllerConfig is the on-disk record selecting the downstream controller
// behavior. It is loaded once at startup and never mutated during a session.
type ControllerConfig struct {
	Type         string  `json:"type"`
	ControlDelta bool    `json:"control_delta"`
	MaxAction    float64 `json:"max_action,omitempty"`
	MinAction    float64 `json:"min_action,omitempty"`

	// IK-specific limits
	IKPosLimit    float64 `json:"ik_pos_limit,omitempty"`
	IKOriLimit    float64 `json:"ik_ori_limit,omitempty"`
	ConvergeSteps int     `json:"converge_steps,omitempty"`

	// OSC-specific gains
	KP           float64 `json:"kp,omitempty"`
	DampingRatio float64 `json:"damping_ratio,omitempty"`

	Interpolation string `json:"interpolation,omitempty"`
}

// Validate ensures all parts of the config are valid and fills in defaults.
func (cfg *ControllerConfig) Validate() error {
	if cfg.Type == "" {
		return fmt.Errorf("controller config must specify a type")
	}

	if cfg.MaxAction == 0 && cfg.MinAction == 0 {
		cfg.MaxAction = 1.0
		cfg.MinAction = -1.0
	}

	if cfg.MaxAction <= cfg.MinAction {
		return fmt.Errorf("max_action %.3f must be greater than min_action %.3f", cfg.MaxAction, cfg.MinAction)
	}

	return nil
}

// applyModeOverrides fixes the derived fields that depend on the selected
// controller mode. The OSC controller consumes absolute pose targets, so
// control_delta is forced off and the bounds pinned to the unit range no
// matter what the file says.
func (cfg *ControllerConfig) applyModeOverrides(mode *Mode) {
	if mode.usesAbsolutePose {
		cfg.ControlDelta = false
		cfg.MaxAction = 1.0
		cfg.MinAction = -1.0
	}
}

// LoadControllerConfig loads the controller configuration for the given mode.
// When path is empty the embedded default for the mode is used. A path that
// cannot be read logs a diagnostic and falls back to the embedded default; a
// path that reads but fails to parse is an error, since the operator clearly
// intended that file to be used.
func LoadControllerConfig(path string, mode *Mode, logger logging.Logger) (*ControllerConfig, error) {
	data := defaultConfigData(mode)

	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			logger.Warnf("cannot read controller config %s: %v, falling back to embedded %s defaults", path, err, mode.name)
		} else {
			data = fileData
		}
	}

	var cfg ControllerConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse controller config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.applyModeOverrides(mode)

	logger.Infof("controller config loaded: type=%s control_delta=%t bounds=[%.1f, %.1f]",
		cfg.Type, cfg.ControlDelta, cfg.MinAction, cfg.MaxAction)
	return &cfg, nil
}

func defaultConfigData(mode *Mode) []byte {
	if mode.usesAbsolutePose {
		return defaultOSCConfigJSON
	}
	return defaultIKConfigJSON
}

// DeviceTuning holds operator-adjustable input gains shared by all devices.
type DeviceTuning struct {
	PosSensitivity float64 `json:"pos_sensitivity,omitempty"`
	RotSensitivity float64 `json:"rot_sensitivity,omitempty"`
	Deadzone       float64 `json:"deadzone,omitempty"`
}

// DefaultDeviceTuning matches the stock device gains.
var DefaultDeviceTuning = DeviceTuning{
	PosSensitivity: 1.0,
	RotSensitivity: 1.0,
	Deadzone:       0.0,
}

// LoadDeviceTuning loads a tuning profile from file or returns the default.
// Returns (tuning, fromFile) where fromFile indicates if loaded from file.
func LoadDeviceTuning(path string, logger logging.Logger) (DeviceTuning, bool) {
	if path == "" {
		logger.Debug("no device tuning file specified, using default tuning")
		return DefaultDeviceTuning, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warnf("failed to read device tuning from %s: %v, using default tuning", path, err)
		return DefaultDeviceTuning, false
	}

	tuning := DefaultDeviceTuning
	if err := json.Unmarshal(data, &tuning); err != nil {
		logger.Warnf("failed to parse device tuning from %s: %v, using default tuning", path, err)
		return DefaultDeviceTuning, false
	}

	if tuning.PosSensitivity <= 0 {
		tuning.PosSensitivity = DefaultDeviceTuning.PosSensitivity
	}
	if tuning.RotSensitivity <= 0 {
		tuning.RotSensitivity = DefaultDeviceTuning.RotSensitivity
	}
	if tuning.Deadzone < 0 {
		tuning.Deadzone = 0
	}

	logger.Infof("loaded device tuning from %s", path)
	return tuning, true
}
