package math

import "testing"

func TestVec3Cross(t *testing.T) {
	if got := (Vec3{1, 0, 0}).Cross(Vec3{0, 1, 0}); got != (Vec3{0, 0, 1}) {
		t.Errorf("Cross = %v, want (0,0,1)", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	if l := (Vec3{3, 4, 12}).Normalize().Length(); abs(l-1) > eps {
		t.Errorf("Normalize().Length() = %v, want 1", l)
	}
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("zero Normalize = %v", got)
	}
}

func TestVec3MaxComponent(t *testing.T) {
	if got := (Vec3{1, 7, -9}).MaxComponent(); got != 7 {
		t.Errorf("MaxComponent = %v, want 7", got)
	}
}

func TestQuatRotateMatchesMatrix(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{1, 2, 3}.Normalize(), 1.3)
	v := Vec3{0.5, -2, 4}
	if a, b := q.Rotate(v), q.Mat4().MulPoint(v); !vecNear(a, b) {
		t.Errorf("Rotate = %v, Mat4 = %v", a, b)
	}
}

func TestQuatSlerpEndpoints(t *testing.T) {
	a := QuatIdentity()
	b := QuatFromAxisAngle(Vec3{0, 1, 0}, 1.5)
	if got := a.Slerp(b, 0); abs(got.Dot(a)-1) > eps {
		t.Errorf("Slerp(0) = %v, want %v", got, a)
	}
	if got := a.Slerp(b, 1); abs(got.Dot(b)-1) > eps {
		t.Errorf("Slerp(1) = %v, want %v", got, b)
	}
}

func TestTransformDefaults(t *testing.T) {
	if got := (Transform{}).Mat4(); got != Identity() {
		t.Errorf("empty transform = %v, want identity", got)
	}
	tr := Translated(Vec3{1, 2, 3}).Scaled(Vec3{2, 2, 2})
	if got := tr.Mat4().MulPoint(Vec3{1, 1, 1}); !vecNear(got, Vec3{3, 4, 5}) {
		t.Errorf("translated+scaled point = %v, want (3,4,5)", got)
	}
}
