package math

import "testing"

const eps = 1e-4

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func vecNear(a, b Vec3) bool {
	return abs(a.X-b.X) < eps && abs(a.Y-b.Y) < eps && abs(a.Z-b.Z) < eps
}

func matNear(a, b Mat4) bool {
	for i := range a {
		if abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func TestMulIdentity(t *testing.T) {
	m := Translation(Vec3{1, 2, 3}).Mul(RotationY(0.7))
	if got := m.Mul(Identity()); got != m {
		t.Errorf("M * I = %v, want %v", got, m)
	}
	if got := Identity().Mul(m); got != m {
		t.Errorf("I * M = %v, want %v", got, m)
	}
}

func TestMulPoint(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		in   Vec3
		want Vec3
	}{
		{"translation", Translation(Vec3{10, 20, 30}), Vec3{1, 2, 3}, Vec3{11, 22, 33}},
		{"scaling", Scaling(Vec3{2, 3, 4}), Vec3{1, 1, 1}, Vec3{2, 3, 4}},
		{"rotate y quarter", RotationY(Pi / 2), Vec3{1, 0, 0}, Vec3{0, 0, -1}},
		{"rotate x quarter", RotationX(Pi / 2), Vec3{0, 1, 0}, Vec3{0, 0, 1}},
		{"rotate z quarter", RotationZ(Pi / 2), Vec3{1, 0, 0}, Vec3{0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.MulPoint(tt.in); !vecNear(got, tt.want) {
				t.Errorf("MulPoint(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMulDirectionIgnoresTranslation(t *testing.T) {
	m := Translation(Vec3{5, 5, 5})
	if got := m.MulDirection(Vec3{0, 1, 0}); got != (Vec3{0, 1, 0}) {
		t.Errorf("MulDirection = %v, want (0,1,0)", got)
	}
}

func TestInverse(t *testing.T) {
	m := Compose(QuatFromAxisAngle(Vec3{0, 1, 0}, 0.8), Vec3{3, -2, 7}, Vec3{2, 2, 2})
	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("Inverse reported singular matrix")
	}
	if got := m.Mul(inv); !matNear(got, Identity()) {
		t.Errorf("M * M^-1 = %v, want identity", got)
	}
}

func TestInverseSingular(t *testing.T) {
	inv, ok := Scaling(Vec3{0, 1, 1}).Inverse()
	if ok {
		t.Error("expected singular matrix to be reported")
	}
	if inv != Identity() {
		t.Errorf("singular inverse = %v, want identity", inv)
	}
}

func TestComposeMatchesProduct(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{1, 0, 0}, 0.3)
	tr := Vec3{1, 2, 3}
	s := Vec3{2, 3, 4}
	want := Translation(tr).Mul(q.Mat4()).Mul(Scaling(s))
	if got := Compose(q, tr, s); !matNear(got, want) {
		t.Errorf("Compose = %v, want T*R*S %v", got, want)
	}
}

func TestMaxAxisScale(t *testing.T) {
	m := Compose(QuatFromAxisAngle(Vec3{0, 0, 1}, 1.1), Vec3{9, 9, 9}, Vec3{1, 5, 2})
	if got := m.MaxAxisScale(); abs(got-5) > eps {
		t.Errorf("MaxAxisScale = %v, want 5", got)
	}
}

func TestPerspectiveMapsNearAndFar(t *testing.T) {
	p := Perspective(Pi/2, 1, 0.1, 100)
	if got := p.MulPoint(Vec3{0, 0, -0.1}); abs(got.Z+1) > eps {
		t.Errorf("near plane z = %v, want -1", got.Z)
	}
	if got := p.MulPoint(Vec3{0, 0, -100}); abs(got.Z-1) > 1e-3 {
		t.Errorf("far plane z = %v, want 1", got.Z)
	}
}

func TestOrthoMapsBoxToNDC(t *testing.T) {
	o := Ortho(-2, 2, -4, 4, 1, 11)
	if got := o.MulPoint(Vec3{2, -4, -1}); !vecNear(got, Vec3{1, -1, -1}) {
		t.Errorf("corner = %v, want (1,-1,-1)", got)
	}
	if got := o.MulPoint(Vec3{0, 0, -11}); !vecNear(got, Vec3{0, 0, 1}) {
		t.Errorf("far center = %v, want (0,0,1)", got)
	}
}

func TestLookAtPutsTargetOnNegativeZ(t *testing.T) {
	v := LookAt(Vec3{0, 10, 0}, Vec3{}, Vec3{0, 0, 1})
	if got := v.MulPoint(Vec3{}); !vecNear(got, Vec3{0, 0, -10}) {
		t.Errorf("target in view space = %v, want (0,0,-10)", got)
	}
}
