package placement

import (
	"fmt"
	"iter"

	"github.com/chewxy/math32"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/rally-terrain/internal/engine/terrain"
	"github.com/Faultbox/rally-terrain/internal/logger"
	"github.com/Faultbox/rally-terrain/pkg/math"
	"github.com/Faultbox/rally-terrain/pkg/raster"
)

// DefaultMarginOffset shifts object pixels towards the map origin, in object
// raster cells.
const DefaultMarginOffset = 10

// Namespace seeds name-based instance ids.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/Faultbox/rally-terrain/placement"))

// Request is one object to spawn.
type Request struct {
	InstanceID uuid.UUID
	// Pixel is the row-major index of the source pixel in the object raster.
	Pixel      int
	Position   math.Vec3
	Rotation   float32 // radians about +Y
	Descriptor Descriptor
}

// Orientation returns the heading as a quaternion.
func (r Request) Orientation() math.Quat {
	return math.QuatFromAxisAngle(math.Up, r.Rotation)
}

// Transform returns the object's model matrix: rotate about Y, then scale,
// then translate to Position.
func (r Request) Transform() math.Mat4 {
	return math.Translate(r.Position).
		Mul(math.Scale(r.Descriptor.Scale)).
		Mul(math.RotateY(r.Rotation))
}

// Decoder converts object rasters into placement requests.
type Decoder struct {
	table  *Table
	base   terrain.Transform
	ground terrain.Ground
	margin int
	level  string
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithMargin overrides DefaultMarginOffset.
func WithMargin(cells int) Option {
	return func(d *Decoder) { d.margin = cells }
}

// WithLevel mixes the level name into instance ids so two levels never share ids.
func WithLevel(name string) Option {
	return func(d *Decoder) { d.level = name }
}

// NewDecoder creates a decoder. base is the terrain transform; object rasters
// get their own X/Z scale from it but share its world offset. ground snaps
// each object onto the terrain surface.
func NewDecoder(table *Table, base terrain.Transform, ground terrain.Ground, opts ...Option) *Decoder {
	d := &Decoder{
		table:  table,
		base:   base,
		ground: ground,
		margin: DefaultMarginOffset,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode returns the placement requests for an object raster in raster scan
// order. The sequence is lazy; each iteration starts with fresh instance
// counters, so ranging over it twice yields the same requests.
func (d *Decoder) Decode(objects *raster.Raster) (iter.Seq[Request], error) {
	if objects == nil || objects.Width() == 0 {
		return nil, fmt.Errorf("%w: %w", terrain.ErrInvalidRaster, raster.ErrEmpty)
	}
	t, err := d.base.ForGrid(objects.Width())
	if err != nil {
		return nil, err
	}

	return func(yield func(Request) bool) {
		var created [256]int
		var emitted, capped int
		defer func() {
			logger.Named("placement").Debug("object map decoded",
				zap.Int("size", objects.Width()),
				zap.Int("emitted", emitted),
				zap.Int("capped", capped),
			)
		}()

		size := objects.Width()
		for i := 0; i < objects.Len(); i++ {
			id := objects.Red(i)
			desc, ok := d.table.Lookup(id)
			if !ok {
				continue
			}
			if created[id] >= desc.MaxInstances {
				capped++
				continue
			}

			gx := float32(i%size - d.margin)
			gz := float32(i/size - d.margin)
			pos := t.GridToWorld(gx, gz, 0)
			pos.Y = d.ground.Height(pos.X, pos.Z)

			req := Request{
				InstanceID: d.instanceID(id, i),
				Pixel:      i,
				Position:   pos,
				Rotation:   GreenToRadians(objects.Green(i)),
				Descriptor: desc,
			}
			created[id]++
			emitted++
			if !yield(req) {
				return
			}
		}
	}, nil
}

func (d *Decoder) instanceID(typeID uint8, pixel int) uuid.UUID {
	return uuid.NewSHA1(Namespace, fmt.Appendf(nil, "%s/%d/%d", d.level, typeID, pixel))
}

// GreenToRadians maps a green value to a heading: g/256 of a full turn.
func GreenToRadians(g uint8) float32 {
	return float32(g) / 256 * 2 * math32.Pi
}
