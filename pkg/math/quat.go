package math

import "github.com/chewxy/math32"

// Quat is a rotation quaternion; W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns the no-rotation quaternion.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle builds a rotation around a normalized axis, angle in radians.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	s, c := math32.Sincos(angle / 2)
	return Quat{axis.X * s, axis.Y * s, axis.Z * s, c}
}

// QuatFrom reads four consecutive floats in x, y, z, w order.
func QuatFrom(s []float32) Quat {
	return Quat{s[0], s[1], s[2], s[3]}
}

// Normalize returns a unit quaternion. Degenerate input yields identity.
func (q Quat) Normalize() Quat {
	l := math32.Sqrt(q.Dot(q))
	if l < 1e-4 {
		return QuatIdentity()
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Dot returns the 4D dot product.
func (q Quat) Dot(o Quat) float32 {
	return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
}

// Mul returns the Hamilton product q * o (o applied first).
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Slerp interpolates along the shorter arc.
func (q Quat) Slerp(o Quat, t float32) Quat {
	d := q.Dot(o)
	if d < 0 {
		o = Quat{-o.X, -o.Y, -o.Z, -o.W}
		d = -d
	}
	if d > 0.9995 {
		return Quat{
			q.X + t*(o.X-q.X),
			q.Y + t*(o.Y-q.Y),
			q.Z + t*(o.Z-q.Z),
			q.W + t*(o.W-q.W),
		}.Normalize()
	}

	theta0 := math32.Acos(d)
	sin0 := math32.Sin(theta0)
	s0 := math32.Sin((1-t)*theta0) / sin0
	s1 := math32.Sin(t*theta0) / sin0
	return Quat{
		q.X*s0 + o.X*s1,
		q.Y*s0 + o.Y*s1,
		q.Z*s0 + o.Z*s1,
		q.W*s0 + o.W*s1,
	}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Mat4 converts the (normalized) rotation to a matrix.
func (q Quat) Mat4() Mat4 {
	q = q.Normalize()

	xx, yy, zz := q.X*q.X, q.Y*q.Y, q.Z*q.Z
	xy, xz, yz := q.X*q.Y, q.X*q.Z, q.Y*q.Z
	wx, wy, wz := q.W*q.X, q.W*q.Y, q.W*q.Z

	return Mat4{
		1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy), 0,
		2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx), 0,
		2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}
