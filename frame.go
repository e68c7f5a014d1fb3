package teleop

import (
	"github.com/pkg/errors"
	"go.viam.com/rdk/spatialmath"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// RelativeRotation expresses the device's absolute target orientation in the
// end-effector's local frame: the rotation that carries the end-effector's
// current pose onto the commanded pose.
//
//	drotation = currentᵀ · device
//
// Both inputs must be orthonormal 3x3 matrices; the result is then itself
// orthonormal and no re-orthonormalization is performed.
func RelativeRotation(current, device *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Mul(current.T(), device)
	return &out
}

// rotationMatrixFromDense converts a 3x3 gonum matrix into a spatialmath
// rotation matrix so the Orientation conversions apply.
func rotationMatrixFromDense(m *mat.Dense) (*spatialmath.RotationMatrix, error) {
	r, c := m.Dims()
	if r != 3 || c != 3 {
		return nil, errors.Errorf("expected a 3x3 rotation matrix, got %dx%d", r, c)
	}
	elems := make([]float64, 0, 9)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			elems = append(elems, m.At(i, j))
		}
	}
	return spatialmath.NewRotationMatrix(elems)
}

// quaternionElements serializes a quaternion in (x, y, z, w) order, the
// layout the IK controller consumes.
func quaternionElements(q quat.Number) []float64 {
	return []float64{q.Imag, q.Jmag, q.Kmag, q.Real}
}

// quatTracker enforces one continuity convention for the whole session: a
// quaternion and its negation encode the same rotation, so without a fixed
// branch the emitted quaternion can flip sign between adjacent ticks. The
// first quaternion after a reset is normalized to a non-negative scalar
// part; every later one is negated whenever its dot product with the
// previously emitted quaternion is negative.
type quatTracker struct {
	last    quat.Number
	hasLast bool
}

func (t *quatTracker) canonicalize(q quat.Number) quat.Number {
	if !t.hasLast {
		if q.Real < 0 {
			q = quat.Scale(-1, q)
		}
		t.last = q
		t.hasLast = true
		return q
	}

	dot := t.last.Real*q.Real + t.last.Imag*q.Imag + t.last.Jmag*q.Jmag + t.last.Kmag*q.Kmag
	if dot < 0 {
		q = quat.Scale(-1, q)
	}
	t.last = q
	return q
}

// reset clears the tracked branch; the next quaternion starts a new episode.
func (t *quatTracker) reset() {
	t.hasLast = false
}
