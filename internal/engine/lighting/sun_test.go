package lighting

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/rally-terrain/pkg/math"
)

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name     string
		lon, lat float32
		want     math.Vec3
	}{
		{"zenith", 0, 90, math.Vec3{Y: -1}},
		{"south horizon", 0, 0, math.Vec3{Z: -1}},
		{"east horizon", 90, 0, math.Vec3{X: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunDirection(tt.lon, tt.lat)
			if got.Sub(tt.want).Length() > 1e-5 {
				t.Errorf("SunDirection(%v, %v) = %v, want %v", tt.lon, tt.lat, got, tt.want)
			}
			if l := got.Length(); math32.Abs(l-1) > 1e-5 {
				t.Errorf("length = %v, want 1", l)
			}
		})
	}
}

func TestAnglesRoundTrip(t *testing.T) {
	for _, tt := range []struct{ lon, lat float32 }{
		{45, 30},
		{200, 60},
		{315, 10},
	} {
		lon, lat := Angles(SunDirection(tt.lon, tt.lat))
		if math32.Abs(lon-tt.lon) > 1e-3 || math32.Abs(lat-tt.lat) > 1e-3 {
			t.Errorf("Angles(SunDirection(%v, %v)) = (%v, %v)", tt.lon, tt.lat, lon, lat)
		}
	}
}
