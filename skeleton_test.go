package rig

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

func assertTransform(t *testing.T, name string, got, want Transform) {
	t.Helper()
	assertNear(t, name+".X", got.X, want.X)
	assertNear(t, name+".Y", got.Y, want.Y)
	assertNear(t, name+".Rotation", got.Rotation, want.Rotation)
	assertNear(t, name+".ScaleX", got.ScaleX, want.ScaleX)
	assertNear(t, name+".ScaleY", got.ScaleY, want.ScaleY)
}

// testSkeleton builds the four-joint rig used across the package tests:
//
//	hips (root, at 100,100)
//	└── torso (30 above hips)
//	    ├── armL (20 left of torso)
//	    └── armR (20 right of torso)
func testSkeleton(t *testing.T) *Skeleton {
	t.Helper()
	sk, err := NewSkeleton(
		Joint{Name: "hips", Parent: -1, Rest: Transform{X: 100, Y: 100, ScaleX: 1, ScaleY: 1}},
		Joint{Name: "torso", Parent: 0, Rest: Transform{Y: -30, ScaleX: 1, ScaleY: 1}},
		Joint{Name: "armL", Parent: 1, Rest: Transform{X: -20, ScaleX: 1, ScaleY: 1}},
		Joint{Name: "armR", Parent: 1, Rest: Transform{X: 20, ScaleX: 1, ScaleY: 1}},
	)
	if err != nil {
		t.Fatalf("NewSkeleton: %v", err)
	}
	return sk
}

// --- NewSkeleton ---

func TestNewSkeletonValidation(t *testing.T) {
	tests := []struct {
		name   string
		joints []Joint
		ok     bool
	}{
		{"empty", nil, true},
		{"single root", []Joint{{Name: "root", Parent: -1}}, true},
		{"chain", []Joint{{Name: "a", Parent: -1}, {Name: "b", Parent: 0}}, true},
		{"empty name", []Joint{{Name: "", Parent: -1}}, false},
		{"duplicate name", []Joint{{Name: "a", Parent: -1}, {Name: "a", Parent: 0}}, false},
		{"self parent", []Joint{{Name: "a", Parent: 0}}, false},
		{"forward parent", []Joint{{Name: "a", Parent: -1}, {Name: "b", Parent: 2}, {Name: "c", Parent: 0}}, false},
		{"parent below -1", []Joint{{Name: "a", Parent: -2}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSkeleton(tt.joints...)
			if tt.ok && err != nil {
				t.Errorf("NewSkeleton = %v, want nil error", err)
			}
			if !tt.ok && err == nil {
				t.Error("NewSkeleton did not fail")
			}
		})
	}
}

func TestNewSkeletonZeroRestIsIdentity(t *testing.T) {
	sk, err := NewSkeleton(Joint{Name: "root", Parent: -1})
	if err != nil {
		t.Fatalf("NewSkeleton: %v", err)
	}
	assertTransform(t, "rest", sk.Joint(0).Rest, IdentityTransform)
	assertTransform(t, "local", sk.LocalTransform(0), IdentityTransform)
}

func TestSkeletonJointIndex(t *testing.T) {
	sk := testSkeleton(t)
	if got := sk.JointIndex("torso"); got != 1 {
		t.Errorf("JointIndex(torso) = %d, want 1", got)
	}
	if got := sk.JointIndex("tail"); got != -1 {
		t.Errorf("JointIndex(tail) = %d, want -1", got)
	}
}

// --- World transforms ---

func TestSkeletonWorldPositionChain(t *testing.T) {
	sk := testSkeleton(t)
	x, y := sk.WorldPosition(sk.JointIndex("torso"))
	assertNear(t, "torso.x", x, 100)
	assertNear(t, "torso.y", y, 70)
	x, y = sk.WorldPosition(sk.JointIndex("armR"))
	assertNear(t, "armR.x", x, 120)
	assertNear(t, "armR.y", y, 70)
}

func TestSkeletonWorldRotationPropagates(t *testing.T) {
	sk, err := NewSkeleton(
		Joint{Name: "root", Parent: -1},
		Joint{Name: "tip", Parent: 0, Rest: Transform{X: 10, ScaleX: 1, ScaleY: 1}},
	)
	if err != nil {
		t.Fatalf("NewSkeleton: %v", err)
	}
	sk.SetLocalTransform(0, Transform{Rotation: math.Pi / 2, ScaleX: 1, ScaleY: 1})
	sk.UpdateWorldTransforms()
	// cos(90)=0, sin(90)=1: the child's local +X becomes world +Y.
	x, y := sk.WorldPosition(1)
	assertNear(t, "tip.x", x, 0)
	assertNear(t, "tip.y", y, 10)
}

func TestSkeletonWorldScalePropagates(t *testing.T) {
	sk, err := NewSkeleton(
		Joint{Name: "root", Parent: -1, Rest: Transform{ScaleX: 2, ScaleY: 3}},
		Joint{Name: "tip", Parent: 0, Rest: Transform{X: 5, Y: 5, ScaleX: 1, ScaleY: 1}},
	)
	if err != nil {
		t.Fatalf("NewSkeleton: %v", err)
	}
	x, y := sk.WorldPosition(1)
	assertNear(t, "tip.x", x, 10)
	assertNear(t, "tip.y", y, 15)
}

func TestSkeletonWorldTransformMatrix(t *testing.T) {
	sk, err := NewSkeleton(Joint{Name: "root", Parent: -1, Rest: Transform{X: 7, Y: 9, ScaleX: 2, ScaleY: 1}})
	if err != nil {
		t.Fatalf("NewSkeleton: %v", err)
	}
	assertMatrix(t, "root", sk.WorldTransform(0), [6]float64{2, 0, 0, 1, 7, 9})
}

func TestSkeletonWorldPoint(t *testing.T) {
	sk, err := NewSkeleton(Joint{Name: "root", Parent: -1, Rest: Transform{X: 5, Y: 5, ScaleX: 2, ScaleY: 1}})
	if err != nil {
		t.Fatalf("NewSkeleton: %v", err)
	}
	x, y := sk.WorldPoint(0, 3, 4)
	assertNear(t, "x", x, 11)
	assertNear(t, "y", y, 9)
}

func TestSkeletonWorldsRefreshOnlyOnUpdate(t *testing.T) {
	sk := testSkeleton(t)
	before := sk.WorldTransform(0)
	sk.SetLocalTransform(0, Transform{X: 500, ScaleX: 1, ScaleY: 1})
	assertMatrix(t, "stale", sk.WorldTransform(0), before)
	sk.UpdateWorldTransforms()
	x, _ := sk.WorldPosition(0)
	assertNear(t, "fresh.x", x, 500)
}

// --- Affine math ---

func TestMultiplyAffineIdentity(t *testing.T) {
	m := computeLocalAffine(Transform{X: 3, Y: 4, Rotation: 0.5, ScaleX: 2, ScaleY: 0.5})
	assertMatrix(t, "id*m", multiplyAffine(identityAffine, m), m)
	assertMatrix(t, "m*id", multiplyAffine(m, identityAffine), m)
}

func TestComputeLocalAffineRotation(t *testing.T) {
	got := computeLocalAffine(Transform{Rotation: math.Pi / 2, ScaleX: 1, ScaleY: 1})
	assertMatrix(t, "rot90", got, [6]float64{0, 1, -1, 0, 0, 0})
}

// --- Rest pose ---

func TestSkeletonResetToRest(t *testing.T) {
	sk := testSkeleton(t)
	sk.SetLocalTransform(1, Transform{X: 42, Rotation: 1, ScaleX: 1, ScaleY: 1})
	sk.UpdateWorldTransforms()
	sk.ResetToRest()
	assertTransform(t, "torso", sk.LocalTransform(1), Transform{Y: -30, ScaleX: 1, ScaleY: 1})
	x, y := sk.WorldPosition(1)
	assertNear(t, "torso.x", x, 100)
	assertNear(t, "torso.y", y, 70)
}

// --- Copies ---

func TestSkeletonCloneIsIndependent(t *testing.T) {
	sk := testSkeleton(t)
	sk.SetLocalTransform(0, Transform{X: 1, ScaleX: 1, ScaleY: 1})
	c := sk.Clone()

	assertTransform(t, "copied local", c.LocalTransform(0), sk.LocalTransform(0))

	c.SetLocalTransform(0, Transform{X: 999, ScaleX: 1, ScaleY: 1})
	if sk.LocalTransform(0).X == 999 {
		t.Error("mutating the clone changed the original")
	}
	if c.JointIndex("armL") != sk.JointIndex("armL") {
		t.Error("clone lost joint names")
	}
}

func TestSkeletonJointsReturnsCopy(t *testing.T) {
	sk := testSkeleton(t)
	joints := sk.Joints()
	joints[0].Name = "mutated"
	if sk.Joint(0).Name != "hips" {
		t.Error("mutating the returned slice changed the skeleton")
	}
}
