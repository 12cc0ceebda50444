package math

// Transform is a partial TRS description. Nil parts fall back to
// identity rotation, zero translation and unit scale.
type Transform struct {
	Rotation    *Quat
	Translation *Vec3
	Scale       *Vec3
}

// Mat4 returns T * R * S.
func (t Transform) Mat4() Mat4 {
	r, tr, s := QuatIdentity(), Vec3{}, One
	if t.Rotation != nil {
		r = *t.Rotation
	}
	if t.Translation != nil {
		tr = *t.Translation
	}
	if t.Scale != nil {
		s = *t.Scale
	}
	return Compose(r, tr, s)
}

// Translated returns a transform holding only a translation.
func Translated(v Vec3) Transform {
	return Transform{Translation: &v}
}

// Scaled returns a copy of t with its scale replaced.
func (t Transform) Scaled(v Vec3) Transform {
	t.Scale = &v
	return t
}

// Rotated returns a copy of t with its rotation replaced.
func (t Transform) Rotated(q Quat) Transform {
	t.Rotation = &q
	return t
}
