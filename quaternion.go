package astro

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

const quaternionε = 1e-9

// Quaternion manages rotation quaternions, implementing multiplication and rotation of vectors.
// The zero value is not a rotation: use IdentityQuaternion.
type Quaternion struct {
	q quat.Number
}

// IdentityQuaternion returns the identity transformation.
func IdentityQuaternion() Quaternion {
	return Quaternion{quat.Number{Real: 1}}
}

// NewQuaternion returns the quaternion of the vector part v and scalar part s.
func NewQuaternion(v r3.Vec, s float64) Quaternion {
	return Quaternion{quat.Number{Real: s, Imag: v.X, Jmag: v.Y, Kmag: v.Z}}
}

// NewQuaternionFromAxisAngle returns the rotation of angle α (rad) about axis.
func NewQuaternionFromAxisAngle(axis r3.Vec, α float64) Quaternion {
	return Quaternion{quat.Number(r3.NewRotation(α, axis))}
}

// NewQuaternionFromAxes returns the rotation which takes the frame axes onto the
// provided z and x directions of the rotated object. xhat is orthogonalized against zhat.
func NewQuaternionFromAxes(zhat, xhat r3.Vec) Quaternion {
	z := unit(zhat)
	x := unit(r3.Sub(xhat, r3.Scale(r3.Dot(xhat, z), z)))
	y := r3.Cross(z, x)
	return NewQuaternionFromMatrix(mat.NewDense(3, 3, []float64{
		x.X, y.X, z.X,
		x.Y, y.Y, z.Y,
		x.Z, y.Z, z.Z,
	}))
}

// NewQuaternionFromMatrix returns the quaternion of a proper rotation matrix.
func NewQuaternionFromMatrix(R mat.Matrix) Quaternion {
	m := func(i, j int) float64 { return R.At(i, j) }
	tr := m(0, 0) + m(1, 1) + m(2, 2)
	var n quat.Number
	switch {
	case tr > 0:
		s := 2 * math.Sqrt(1+tr)
		n = quat.Number{Real: s / 4, Imag: (m(2, 1) - m(1, 2)) / s, Jmag: (m(0, 2) - m(2, 0)) / s, Kmag: (m(1, 0) - m(0, 1)) / s}
	case m(0, 0) > m(1, 1) && m(0, 0) > m(2, 2):
		s := 2 * math.Sqrt(1+m(0, 0)-m(1, 1)-m(2, 2))
		n = quat.Number{Real: (m(2, 1) - m(1, 2)) / s, Imag: s / 4, Jmag: (m(0, 1) + m(1, 0)) / s, Kmag: (m(0, 2) + m(2, 0)) / s}
	case m(1, 1) > m(2, 2):
		s := 2 * math.Sqrt(1+m(1, 1)-m(0, 0)-m(2, 2))
		n = quat.Number{Real: (m(0, 2) - m(2, 0)) / s, Imag: (m(0, 1) + m(1, 0)) / s, Jmag: s / 4, Kmag: (m(1, 2) + m(2, 1)) / s}
	default:
		s := 2 * math.Sqrt(1+m(2, 2)-m(0, 0)-m(1, 1))
		n = quat.Number{Real: (m(1, 0) - m(0, 1)) / s, Imag: (m(0, 2) + m(2, 0)) / s, Jmag: (m(1, 2) + m(2, 1)) / s, Kmag: s / 4}
	}
	if n.Real < 0 {
		n = quat.Scale(-1, n)
	}
	return Quaternion{n}
}

// ParseQuaternion reads a quaternion from a line holding the vector part followed by the scalar part.
func ParseQuaternion(line string) (Quaternion, error) {
	fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
	if len(fields) != 4 {
		return Quaternion{}, fmt.Errorf("expected 4 components, got %d in `%s`", len(fields), line)
	}
	var c [4]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Quaternion{}, fmt.Errorf("component %d: %w", i, err)
		}
		c[i] = v
	}
	return NewQuaternion(r3.Vec{X: c[0], Y: c[1], Z: c[2]}, c[3]), nil
}

// Vector returns the vector part.
func (q Quaternion) Vector() r3.Vec {
	return r3.Vec{X: q.q.Imag, Y: q.q.Jmag, Z: q.q.Kmag}
}

// Scalar returns the scalar part.
func (q Quaternion) Scalar() float64 {
	return q.q.Real
}

// Norm returns the norm, which should be 1 for rotations.
func (q Quaternion) Norm() float64 {
	return quat.Abs(q.q)
}

// Mul returns q·r, which applies r first and then q when rotating.
func (q Quaternion) Mul(r Quaternion) Quaternion {
	return Quaternion{quat.Mul(q.q, r.q)}
}

// Conjugate returns the conjugate quaternion, which is the inverse rotation.
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{quat.Conj(q.q)}
}

// Rotate rotates a vector.
func (q Quaternion) Rotate(v r3.Vec) r3.Vec {
	p := quat.Mul(quat.Mul(q.q, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(q.q))
	return r3.Vec{X: p.Imag, Y: p.Jmag, Z: p.Kmag}
}

// Matrix returns the equivalent rotation matrix.
func (q Quaternion) Matrix() *mat.Dense {
	x := q.Rotate(r3.Vec{X: 1})
	y := q.Rotate(r3.Vec{Y: 1})
	z := q.Rotate(r3.Vec{Z: 1})
	return mat.NewDense(3, 3, []float64{
		x.X, y.X, z.X,
		x.Y, y.Y, z.Y,
		x.Z, y.Z, z.Z,
	})
}

// Power returns the quaternion raised to the power t, i.e. the rotation scaled by t.
func (q Quaternion) Power(t float64) Quaternion {
	if scalar.EqualWithinAbs(q.q.Real, 1, quaternionε) {
		return IdentityQuaternion()
	}
	return Quaternion{quat.Exp(quat.Scale(t, quat.Log(q.q)))}
}

// Interpolate performs a SLERP interpolation towards q1: q when t=0 and q1 when t=1.
func (q Quaternion) Interpolate(q1 Quaternion, t float64) Quaternion {
	// Take the short way around.
	if quat.Mul(quat.Conj(q.q), q1.q).Real < 0 {
		q1 = Quaternion{quat.Scale(-1, q1.q)}
	}
	return q.Mul(q.Conjugate().Mul(q1).Power(t))
}

// IsNear returns whether both quaternions describe the same rotation.
func (q Quaternion) IsNear(o Quaternion) bool {
	d := quat.Abs(quat.Sub(q.q, o.q))
	s := quat.Abs(quat.Add(q.q, o.q))
	return d < quaternionε || s < quaternionε
}

// String implements the Stringer interface.
func (q Quaternion) String() string {
	return fmt.Sprintf("%g %g %g %g", q.q.Imag, q.q.Jmag, q.q.Kmag, q.q.Real)
}
