package placement

import (
	"fmt"
	"io"
	"reflect"
	"unsafe"

	jsoniter "github.com/json-iterator/go"

	"github.com/Faultbox/rally-terrain/pkg/math"
)

// Vectors are written as [x, y, z] arrays.
var json = func() jsoniter.API {
	jsoniter.RegisterTypeEncoderFunc(reflect.TypeOf(math.Vec3{}).String(), encodeVec3, func(unsafe.Pointer) bool { return false })
	jsoniter.RegisterTypeDecoderFunc(reflect.TypeOf(math.Vec3{}).String(), decodeVec3)

	return jsoniter.Config{
		IndentionStep:           2,
		MarshalFloatWith6Digits: true,
		EscapeHTML:              false,
		SortMapKeys:             true,
		TagKey:                  "json",
		CaseSensitive:           true,
	}.Froze()
}()

func encodeVec3(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	v := (*math.Vec3)(ptr)
	stream.WriteArrayStart()
	stream.WriteFloat32(v.X)
	stream.WriteMore()
	stream.WriteFloat32(v.Y)
	stream.WriteMore()
	stream.WriteFloat32(v.Z)
	stream.WriteArrayEnd()
}

func decodeVec3(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	v := (*math.Vec3)(ptr)
	var c [3]float32
	n := 0
	for iter.ReadArray() {
		f := iter.ReadFloat32()
		if n < len(c) {
			c[n] = f
		}
		n++
	}
	if n != len(c) {
		iter.ReportError("decode vec3", fmt.Sprintf("expected 3 components, got %d", n))
		return
	}
	*v = math.Vec3{X: c[0], Y: c[1], Z: c[2]}
}

// Record is the flat export form of an event.
type Record struct {
	Event      EventType `json:"event"`
	InstanceID string    `json:"instance_id"`
	TypeID     uint8     `json:"type_id"`
	Model      string    `json:"model"`
	Pixel      int       `json:"pixel"`
	Position   math.Vec3 `json:"position"`
	Rotation   float32   `json:"rotation"`
	Scale      float32   `json:"scale"`
	Collidable bool      `json:"collidable,omitempty"`
	Moveable   bool      `json:"moveable,omitempty"`
	Kind       Kind      `json:"kind"`
	Physics    Physics   `json:"physics,omitempty"`
}

// NewRecord flattens an event.
func NewRecord(e Event) Record {
	r := e.Request
	return Record{
		Event:      e.Type,
		InstanceID: r.InstanceID.String(),
		TypeID:     r.Descriptor.ID,
		Model:      r.Descriptor.Model,
		Pixel:      r.Pixel,
		Position:   r.Position,
		Rotation:   r.Rotation,
		Scale:      r.Descriptor.Scale,
		Collidable: r.Descriptor.Collidable,
		Moveable:   r.Descriptor.Moveable,
		Kind:       r.Descriptor.Kind,
		Physics:    r.Descriptor.Physics,
	}
}

// WriteJSON writes events as a JSON array of records.
func WriteJSON(w io.Writer, events []Event) error {
	records := make([]Record, len(events))
	for i, e := range events {
		records[i] = NewRecord(e)
	}

	stream := json.BorrowStream(w)
	defer json.ReturnStream(stream)

	stream.WriteVal(records)
	stream.WriteRaw("\n")
	if stream.Error != nil {
		return fmt.Errorf("encoding placement events: %w", stream.Error)
	}
	return stream.Flush()
}

// ReadJSON reads records written by WriteJSON.
func ReadJSON(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding placement events: %w", err)
	}
	return records, nil
}
