package host

import (
	"math"
	"testing"

	"github.com/san-kum/controlsim/internal/dynamo"
)

func TestNodeEulerRange(t *testing.T) {
	n := NewNode("door")
	n.SetLocalEuler(dynamo.Vec3{Y: -30})

	if got := n.LocalEuler().Y; math.Abs(got-330) > 1e-9 {
		t.Errorf("expected 330, got %f", got)
	}
}

func TestNodeDefaultScale(t *testing.T) {
	n := NewNode("button")
	if n.LossyScale() != (dynamo.Vec3{X: 1, Y: 1, Z: 1}) {
		t.Errorf("expected unit scale, got %v", n.LossyScale())
	}
}

func TestActuatorFilter(t *testing.T) {
	tests := []struct {
		kind     ContactKind
		expected bool
	}{
		{KindController, true},
		{KindObject, true},
		{KindPlayerBody, false},
	}

	for _, tt := range tests {
		if got := ActuatorFilter(Contact{ID: "c", Kind: tt.kind}); got != tt.expected {
			t.Errorf("kind %s: expected %v, got %v", tt.kind, tt.expected, got)
		}
	}
}

func TestConstraintsHas(t *testing.T) {
	if !FreezeRotation.Has(FreezeRotationY) {
		t.Error("expected FreezeRotation to include Y")
	}
	if FreezePosition.Has(FreezeRotationY) {
		t.Error("did not expect FreezePosition to include rotation")
	}
}
