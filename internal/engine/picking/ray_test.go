package picking

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/rally-terrain/pkg/math"
)

const epsilon = 1e-3

func approx(a, b float32) bool {
	return math32.Abs(a-b) < epsilon
}

// slope is ground rising one unit per unit of X.
type slope struct{}

func (slope) Height(x, z float32) float32   { return x }
func (slope) Normal(x, z float32) math.Vec3 { return math.Vec3{X: -1, Y: 1}.Normalize() }

// flat is level ground at a fixed height that ends at |x| or |z| > 100.
type flat struct{ h float32 }

func (f flat) Height(x, z float32) float32 {
	if math32.Abs(x) > 100 || math32.Abs(z) > 100 {
		return -1000
	}
	return f.h
}
func (flat) Normal(x, z float32) math.Vec3 { return math.Up }

func TestScreenToRayCenter(t *testing.T) {
	l := Lens{
		Eye:    math.Vec3{X: 0, Y: 100, Z: 100},
		Target: math.Vec3{},
		FOV:    math32.Pi / 4,
		Aspect: 16.0 / 9,
	}
	r := ScreenToRay(640, 360, 1280, 720, l)
	want := l.Target.Sub(l.Eye).Normalize()
	if !approx(r.Direction.X, want.X) || !approx(r.Direction.Y, want.Y) || !approx(r.Direction.Z, want.Z) {
		t.Errorf("center ray = %v, want %v", r.Direction, want)
	}
	if r.Origin != l.Eye {
		t.Errorf("origin = %v, want %v", r.Origin, l.Eye)
	}
}

func TestScreenToRayEdges(t *testing.T) {
	l := Lens{Eye: math.Vec3{Z: 10}, Target: math.Vec3{}, FOV: math32.Pi / 2, Aspect: 1}

	// Top edge of a 90 degree frustum is 45 degrees up.
	top := ScreenToRay(50, 0, 100, 100, l)
	if !approx(top.Direction.Y, math32.Sqrt(0.5)) {
		t.Errorf("top ray Y = %v, want %v", top.Direction.Y, math32.Sqrt(0.5))
	}

	// Right edge leans towards +X when looking down -Z.
	right := ScreenToRay(100, 50, 100, 100, l)
	if right.Direction.X <= 0 {
		t.Errorf("right ray X = %v, want positive", right.Direction.X)
	}
}

func TestIntersectPlaneY(t *testing.T) {
	tests := []struct {
		name   string
		ray    Ray
		planeY float32
		wantX  float32
		wantZ  float32
		wantOK bool
	}{
		{"straight down", Ray{math.Vec3{X: 3, Y: 10, Z: 4}, math.Vec3{Y: -1}}, 0, 3, 4, true},
		{"diagonal", Ray{math.Vec3{Y: 10}, math.Vec3{X: 1, Y: -1}.Normalize()}, 0, 10, 0, true},
		{"parallel", Ray{math.Vec3{Y: 10}, math.Vec3{X: 1}}, 0, 0, 0, false},
		{"behind", Ray{math.Vec3{Y: 10}, math.Vec3{Y: 1}}, 0, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, z, ok := tt.ray.IntersectPlaneY(tt.planeY)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (!approx(x, tt.wantX) || !approx(z, tt.wantZ)) {
				t.Errorf("hit = (%v,%v), want (%v,%v)", x, z, tt.wantX, tt.wantZ)
			}
		})
	}
}

func TestIntersectGroundFlat(t *testing.T) {
	r := Ray{Origin: math.Vec3{Y: 50}, Direction: math.Vec3{X: 1, Y: -1}.Normalize()}
	p, ok := r.IntersectGround(flat{h: 10}, 500, 5)
	if !ok {
		t.Fatal("no hit on flat ground")
	}
	if !approx(p.X, 40) || !approx(p.Y, 10) {
		t.Errorf("hit = %v, want (40,10,0)", p)
	}
}

func TestIntersectGroundSlope(t *testing.T) {
	// Falling straight down onto y = x.
	r := Ray{Origin: math.Vec3{X: 7, Y: 30}, Direction: math.Vec3{Y: -1}}
	p, ok := r.IntersectGround(slope{}, 100, 4)
	if !ok {
		t.Fatal("no hit on slope")
	}
	if !approx(p.Y, 7) {
		t.Errorf("hit Y = %v, want 7", p.Y)
	}
}

func TestIntersectGroundMiss(t *testing.T) {
	tests := []struct {
		name string
		ray  Ray
	}{
		{"upwards", Ray{math.Vec3{Y: 50}, math.Vec3{Y: 1}}},
		{"leaves map above ground", Ray{math.Vec3{Y: 50}, math.Vec3{X: 1}}},
		{"starts below ground", Ray{math.Vec3{Y: 5}, math.Vec3{Y: -1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if p, ok := tt.ray.IntersectGround(flat{h: 10}, 1000, 5); ok {
				t.Errorf("unexpected hit at %v", p)
			}
		})
	}
}

func TestIntersectAABB(t *testing.T) {
	box := NewAABB(math.Vec3{X: 1, Y: 1, Z: 1}, math.Vec3{X: -1, Y: -1, Z: -1})
	if box.Min != (math.Vec3{X: -1, Y: -1, Z: -1}) {
		t.Fatalf("NewAABB min = %v", box.Min)
	}

	tests := []struct {
		name  string
		ray   Ray
		wantT float32
		hit   bool
	}{
		{"front", Ray{math.Vec3{Z: 10}, math.Vec3{Z: -1}}, 9, true},
		{"inside", Ray{math.Vec3{}, math.Vec3{X: 1}}, 1, true},
		{"miss", Ray{math.Vec3{Y: 5, Z: 10}, math.Vec3{Z: -1}}, 0, false},
		{"behind", Ray{math.Vec3{Z: 10}, math.Vec3{Z: 1}}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := tt.ray.IntersectAABB(box)
			if hit != tt.hit {
				t.Fatalf("hit = %v, want %v", hit, tt.hit)
			}
			if hit && !approx(got, tt.wantT) {
				t.Errorf("t = %v, want %v", got, tt.wantT)
			}
		})
	}
}

func TestBoxAABBAndNearest(t *testing.T) {
	m := math.Translate(math.Vec3{X: 10}).Mul(math.Scale(2))
	box := BoxAABB(m)
	if box.Min != (math.Vec3{X: 9, Y: 0, Z: -1}) || box.Max != (math.Vec3{X: 11, Y: 2, Z: 1}) {
		t.Errorf("BoxAABB = %v..%v, want (9,0,-1)..(11,2,1)", box.Min, box.Max)
	}

	near := BoxAABB(math.Translate(math.Vec3{X: 5}))
	r := Ray{Origin: math.Vec3{Y: 0.5}, Direction: math.Vec3{X: 1}}
	i, dist := r.Nearest([]AABB{box, near})
	if i != 1 {
		t.Errorf("Nearest = %d, want 1", i)
	}
	if !approx(dist, 4.5) {
		t.Errorf("distance = %v, want 4.5", dist)
	}

	if i, _ := r.Nearest(nil); i != -1 {
		t.Errorf("Nearest(nil) = %d, want -1", i)
	}
}
