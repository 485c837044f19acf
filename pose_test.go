package rig

import "testing"

func TestPoseSetAndTransform(t *testing.T) {
	p := NewPose(3)
	tr := Transform{X: 1, Y: 2, Rotation: 0.5, ScaleX: 1, ScaleY: 1}
	p.Set(1, tr)

	got, ok := p.Transform(1)
	if !ok {
		t.Fatal("joint 1 should be touched")
	}
	assertTransform(t, "joint 1", got, tr)

	if _, ok := p.Transform(0); ok {
		t.Error("joint 0 should be untouched")
	}
	if _, ok := p.Transform(99); ok {
		t.Error("out-of-range joint should be untouched")
	}
}

func TestPoseSetIgnoresNegativeJoint(t *testing.T) {
	p := NewPose(2)
	p.Set(-1, IdentityTransform) // should not panic
	if p.Len() != 2 {
		t.Errorf("Len = %d, want 2", p.Len())
	}
}

func TestPoseGrowsOnWrite(t *testing.T) {
	p := NewPose(2)
	p.Set(5, IdentityTransform)
	if p.Len() < 6 {
		t.Errorf("Len = %d, want at least 6", p.Len())
	}
	if _, ok := p.Transform(5); !ok {
		t.Error("joint 5 should be touched")
	}
}

func TestPoseClearUnmarksOnly(t *testing.T) {
	p := NewPose(2)
	p.Set(0, Transform{X: 9, ScaleX: 1, ScaleY: 1})
	p.Clear()
	if _, ok := p.Transform(0); ok {
		t.Error("joint 0 should be untouched after Clear")
	}
	if p.Len() != 2 {
		t.Errorf("Len = %d, want 2", p.Len())
	}
	// The base value survives for read-modify-write sampling.
	assertNear(t, "base.X", p.peek(0).X, 9)
}

// --- Filters ---

func TestPoseFilterDropsMaskedWrites(t *testing.T) {
	p := NewPose(3)
	p.setFilter(NewJointMask(0, 2))
	p.Set(0, IdentityTransform)
	p.Set(1, IdentityTransform)
	p.Set(2, IdentityTransform)

	if _, ok := p.Transform(0); !ok {
		t.Error("joint 0 should pass the filter")
	}
	if _, ok := p.Transform(1); ok {
		t.Error("joint 1 should be dropped by the filter")
	}
	if _, ok := p.Transform(2); !ok {
		t.Error("joint 2 should pass the filter")
	}
}

func TestPosePushFilterNilKeepsOuter(t *testing.T) {
	p := NewPose(2)
	p.setFilter(NewJointMask(0))
	prev := p.pushFilter(nil)
	p.Set(1, IdentityTransform)
	if _, ok := p.Transform(1); ok {
		t.Error("outer filter should still drop joint 1")
	}
	p.setFilter(prev)
}

func TestPosePushFilterIntersects(t *testing.T) {
	p := NewPose(3)
	p.setFilter(NewJointMask(0, 1))
	prev := p.pushFilter(NewJointMask(1, 2))

	p.Set(0, IdentityTransform)
	p.Set(1, IdentityTransform)
	p.Set(2, IdentityTransform)

	if _, ok := p.Transform(0); ok {
		t.Error("joint 0 is outside the inner mask")
	}
	if _, ok := p.Transform(1); !ok {
		t.Error("joint 1 is in both masks and should pass")
	}
	if _, ok := p.Transform(2); ok {
		t.Error("joint 2 is outside the outer mask")
	}

	p.setFilter(prev)
	p.Set(0, IdentityTransform)
	if _, ok := p.Transform(0); !ok {
		t.Error("joint 0 should pass again after restoring the outer filter")
	}
}

// --- Mix ---

func TestPoseMix(t *testing.T) {
	a := NewPose(3)
	b := NewPose(3)
	a.Set(0, Transform{X: 0, ScaleX: 1, ScaleY: 1})
	b.Set(0, Transform{X: 10, ScaleX: 1, ScaleY: 1})
	a.Set(1, Transform{Y: 5, ScaleX: 1, ScaleY: 1})
	b.Set(2, Transform{Y: 7, ScaleX: 1, ScaleY: 1})

	out := NewPose(3)
	out.Mix(a, b, 0.25)

	got, ok := out.Transform(0)
	if !ok {
		t.Fatal("joint 0 should be touched")
	}
	assertNear(t, "joint0.X", got.X, 2.5)

	got, ok = out.Transform(1)
	if !ok {
		t.Fatal("joint 1 (only in a) should copy through")
	}
	assertNear(t, "joint1.Y", got.Y, 5)

	got, ok = out.Transform(2)
	if !ok {
		t.Fatal("joint 2 (only in b) should copy through")
	}
	assertNear(t, "joint2.Y", got.Y, 7)
}

func TestPoseMixRotationShortestArc(t *testing.T) {
	a := NewPose(1)
	b := NewPose(1)
	a.Set(0, Transform{Rotation: 6.1, ScaleX: 1, ScaleY: 1})  // just under 2π
	b.Set(0, Transform{Rotation: 0.1, ScaleX: 1, ScaleY: 1})

	out := NewPose(1)
	out.Mix(a, b, 0.5)
	got, _ := out.Transform(0)
	// Midpoint passes through 2π, not backwards through π.
	want := 6.1 + (0.1+2*3.141592653589793-6.1)/2
	assertNear(t, "rotation", got.Rotation, want)
}

// --- ApplyTo ---

func TestPoseApplyToSetsOnlyTouched(t *testing.T) {
	sk := testSkeleton(t)
	p := NewPose(sk.Len())
	p.Set(1, Transform{X: 3, Y: 4, ScaleX: 1, ScaleY: 1})
	p.ApplyTo(sk)

	assertTransform(t, "torso", sk.LocalTransform(1), Transform{X: 3, Y: 4, ScaleX: 1, ScaleY: 1})
	assertTransform(t, "hips", sk.LocalTransform(0), Transform{X: 100, Y: 100, ScaleX: 1, ScaleY: 1})
}

func TestPoseApplyToSkipsOutOfRange(t *testing.T) {
	sk, err := NewSkeleton(Joint{Name: "only", Parent: -1})
	if err != nil {
		t.Fatalf("NewSkeleton: %v", err)
	}
	p := NewPose(0)
	p.Set(5, IdentityTransform)
	p.ApplyTo(sk) // should not panic
}

// --- Seeding ---

func TestPoseSeedCopiesBasesUntouched(t *testing.T) {
	sk := testSkeleton(t)
	p := NewPose(0)
	p.Seed(sk)

	if p.Len() != sk.Len() {
		t.Fatalf("Len = %d, want %d", p.Len(), sk.Len())
	}
	if _, ok := p.Transform(0); ok {
		t.Error("seeding must not mark entries touched")
	}
	assertTransform(t, "base hips", p.peek(0), sk.LocalTransform(0))
}

func TestPoseSeedFromCopiesBases(t *testing.T) {
	src := NewPose(2)
	src.Set(1, Transform{X: 8, ScaleX: 1, ScaleY: 1})

	p := NewPose(0)
	p.seedFrom(src)
	if _, ok := p.Transform(1); ok {
		t.Error("seedFrom must not mark entries touched")
	}
	assertNear(t, "base.X", p.peek(1).X, 8)
}
