package teleop

import (
	"strings"
	"testing"
)

func TestLookupRobot(t *testing.T) {
	t.Run("panda", func(t *testing.T) {
		spec, err := LookupRobot("panda")
		if err != nil {
			t.Fatalf("panda should be supported: %v", err)
		}
		if len(spec.HomeJoints) != 7 {
			t.Errorf("expected 7 home joints for panda, got %d", len(spec.HomeJoints))
		}
	})

	t.Run("sawyer", func(t *testing.T) {
		spec, err := LookupRobot("sawyer")
		if err != nil {
			t.Fatalf("sawyer should be supported: %v", err)
		}
		if len(spec.HomeJoints) != 7 {
			t.Errorf("expected 7 home joints for sawyer, got %d", len(spec.HomeJoints))
		}
	})

	t.Run("unknown robot is fatal", func(t *testing.T) {
		_, err := LookupRobot("ur5")
		if err == nil {
			t.Fatal("expected error for unsupported robot")
		}
		if !strings.Contains(err.Error(), "ur5") {
			t.Errorf("error should name the unsupported robot, got: %v", err)
		}
	})
}

func TestHomeJointInputs(t *testing.T) {
	spec, err := LookupRobot("panda")
	if err != nil {
		t.Fatal(err)
	}
	inputs := spec.HomeJointInputs()
	if len(inputs) != len(spec.HomeJoints) {
		t.Fatalf("expected %d inputs, got %d", len(spec.HomeJoints), len(inputs))
	}
	for i, in := range inputs {
		if in.Value != spec.HomeJoints[i] {
			t.Errorf("input %d: expected %v, got %v", i, spec.HomeJoints[i], in.Value)
		}
	}
}
