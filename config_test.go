package teleop

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/rdk/logging"
)

func TestLoadControllerConfig(t *testing.T) {
	logger := logging.NewTestLogger(t)

	t.Run("embedded ik defaults when no path given", func(t *testing.T) {
		cfg, err := LoadControllerConfig("", IK, logger)
		if err != nil {
			t.Fatalf("failed to load embedded ik config: %v", err)
		}
		if cfg.Type != "ee_ik" {
			t.Errorf("expected type ee_ik, got %q", cfg.Type)
		}
		if !cfg.ControlDelta {
			t.Error("ik config should keep control_delta=true")
		}
	})

	t.Run("osc load forces absolute pose and unit bounds", func(t *testing.T) {
		cfg, err := LoadControllerConfig("", OSC, logger)
		if err != nil {
			t.Fatalf("failed to load embedded osc config: %v", err)
		}
		if cfg.ControlDelta {
			t.Error("osc config must have control_delta forced off")
		}
		if cfg.MaxAction != 1.0 || cfg.MinAction != -1.0 {
			t.Errorf("osc bounds must be [-1, 1], got [%v, %v]", cfg.MinAction, cfg.MaxAction)
		}
	})

	t.Run("missing file falls back to embedded default", func(t *testing.T) {
		cfg, err := LoadControllerConfig("/nonexistent/path/controller.json", IK, logger)
		if err != nil {
			t.Fatalf("missing config file must not be fatal: %v", err)
		}
		if cfg.Type != "ee_ik" {
			t.Errorf("expected fallback to embedded ik config, got type %q", cfg.Type)
		}
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		tmpDir := t.TempDir()
		badFile := filepath.Join(tmpDir, "bad.json")
		if err := os.WriteFile(badFile, []byte("{not json"), 0o644); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}

		if _, err := LoadControllerConfig(badFile, IK, logger); err == nil {
			t.Error("expected error for malformed config file")
		}
	})

	t.Run("file values are honored in delta mode", func(t *testing.T) {
		tmpDir := t.TempDir()
		cfgFile := filepath.Join(tmpDir, "controller.json")
		data := []byte(`{"type": "ee_ik", "control_delta": true, "max_action": 0.5, "min_action": -0.5}`)
		if err := os.WriteFile(cfgFile, data, 0o644); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}

		cfg, err := LoadControllerConfig(cfgFile, IK, logger)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
		if cfg.MaxAction != 0.5 || cfg.MinAction != -0.5 {
			t.Errorf("expected bounds [-0.5, 0.5], got [%v, %v]", cfg.MinAction, cfg.MaxAction)
		}
	})
}

func TestControllerConfigValidate(t *testing.T) {
	t.Run("missing type", func(t *testing.T) {
		cfg := &ControllerConfig{}
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for missing type")
		}
	})

	t.Run("defaults bounds when unset", func(t *testing.T) {
		cfg := &ControllerConfig{Type: "ee_ik"}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.MaxAction != 1.0 || cfg.MinAction != -1.0 {
			t.Errorf("expected default bounds [-1, 1], got [%v, %v]", cfg.MinAction, cfg.MaxAction)
		}
	})

	t.Run("inverted bounds", func(t *testing.T) {
		cfg := &ControllerConfig{Type: "ee_ik", MaxAction: -1, MinAction: 1}
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for inverted bounds")
		}
	})
}

func TestLoadDeviceTuning(t *testing.T) {
	logger := logging.NewTestLogger(t)

	t.Run("returns fromFile=false when no file configured", func(t *testing.T) {
		tuning, fromFile := LoadDeviceTuning("", logger)
		if fromFile {
			t.Error("expected fromFile=false when no file configured")
		}
		if tuning != DefaultDeviceTuning {
			t.Error("expected default tuning")
		}
	})

	t.Run("returns fromFile=false when file doesn't exist", func(t *testing.T) {
		tuning, fromFile := LoadDeviceTuning("/nonexistent/tuning.json", logger)
		if fromFile {
			t.Error("expected fromFile=false when file doesn't exist")
		}
		if tuning != DefaultDeviceTuning {
			t.Error("expected default tuning")
		}
	})

	t.Run("returns fromFile=true and sanitizes values", func(t *testing.T) {
		tmpDir := t.TempDir()
		tuningFile := filepath.Join(tmpDir, "tuning.json")
		data := []byte(`{"pos_sensitivity": 1.5, "rot_sensitivity": -2, "deadzone": 0.05}`)
		if err := os.WriteFile(tuningFile, data, 0o644); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}

		tuning, fromFile := LoadDeviceTuning(tuningFile, logger)
		if !fromFile {
			t.Error("expected fromFile=true when loading from existing file")
		}
		if tuning.PosSensitivity != 1.5 {
			t.Errorf("expected pos_sensitivity 1.5, got %v", tuning.PosSensitivity)
		}
		if tuning.RotSensitivity != DefaultDeviceTuning.RotSensitivity {
			t.Errorf("negative rot_sensitivity should fall back to default, got %v", tuning.RotSensitivity)
		}
		if tuning.Deadzone != 0.05 {
			t.Errorf("expected deadzone 0.05, got %v", tuning.Deadzone)
		}
	})
}
