// Package lighting converts sun angles into light directions.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/rally-terrain/pkg/math"
)

// SunDirection converts longitude/latitude angles in degrees to the direction
// the sunlight travels, from the sun towards the ground.
// Longitude is rotation around the Y axis (0-360), latitude is elevation above
// the horizon (0-90).
func SunDirection(longitude, latitude float32) math.Vec3 {
	lon := longitude * math32.Pi / 180
	lat := latitude * math32.Pi / 180

	// Spherical to Cartesian, pointing at the sun
	toSun := math.Vec3{
		X: math32.Cos(lat) * math32.Sin(lon),
		Y: math32.Sin(lat),
		Z: math32.Cos(lat) * math32.Cos(lon),
	}
	return toSun.Scale(-1)
}

// Angles is the inverse of SunDirection.
func Angles(dir math.Vec3) (longitude, latitude float32) {
	toSun := dir.Scale(-1).Normalize()
	latitude = math32.Asin(min(max(toSun.Y, -1), 1)) * 180 / math32.Pi
	longitude = math32.Atan2(toSun.X, toSun.Z) * 180 / math32.Pi
	if longitude < 0 {
		longitude += 360
	}
	return longitude, latitude
}
