package teleop

import (
	"strings"
	"testing"
)

func TestParseMode(t *testing.T) {
	t.Run("ik", func(t *testing.T) {
		mode, err := ParseMode("ik")
		if err != nil {
			t.Fatalf("ik should parse: %v", err)
		}
		if mode.UsesAbsolutePose() {
			t.Error("ik commands deltas, not absolute poses")
		}
		if mode.RotationSize() != 4 {
			t.Errorf("ik rotation term is a quaternion, expected size 4, got %d", mode.RotationSize())
		}
	})

	t.Run("osc", func(t *testing.T) {
		mode, err := ParseMode("osc")
		if err != nil {
			t.Fatalf("osc should parse: %v", err)
		}
		if !mode.UsesAbsolutePose() {
			t.Error("osc commands absolute poses")
		}
		if mode.RotationSize() != 3 {
			t.Errorf("osc rotation term is euler angles, expected size 3, got %d", mode.RotationSize())
		}
	})

	t.Run("unknown controller is fatal", func(t *testing.T) {
		_, err := ParseMode("impedance")
		if err == nil {
			t.Fatal("expected error for an unsupported controller")
		}
		if !strings.Contains(err.Error(), "impedance") {
			t.Errorf("error should name the invalid choice, got: %v", err)
		}
		if !strings.Contains(err.Error(), "ik") || !strings.Contains(err.Error(), "osc") {
			t.Errorf("error should list the valid choices, got: %v", err)
		}
	})
}
