package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/rally-terrain/internal/engine/scene/shaders"
	"github.com/Faultbox/rally-terrain/internal/engine/shader"
	"github.com/Faultbox/rally-terrain/internal/game/entity"
	"github.com/Faultbox/rally-terrain/internal/game/placement"
	"github.com/Faultbox/rally-terrain/pkg/math"
)

// MarkerVertex is a position + normal pair of the marker box.
type MarkerVertex struct {
	Position [3]float32
	Normal   [3]float32
}

// Marker colors by what the object is.
var (
	ColorBuilding   = [3]float32{0.62, 0.6, 0.58}
	ColorCone       = [3]float32{1.0, 0.45, 0.05}
	ColorSheep      = [3]float32{0.95, 0.95, 0.9}
	ColorCheckpoint = [3]float32{1.0, 0.85, 0.1}
	ColorDynamic    = [3]float32{0.3, 0.6, 0.9}
)

// MarkerColor returns the color an entity's box is drawn with.
func MarkerColor(e *entity.Entity) [3]float32 {
	if e.Kind == placement.KindCheckpoint {
		return ColorCheckpoint
	}
	if e.Body != nil {
		switch e.Body.Kind {
		case placement.PhysicsCone:
			return ColorCone
		case placement.PhysicsSheep:
			return ColorSheep
		}
		return ColorDynamic
	}
	if e.Kind == placement.KindCone {
		return ColorCone
	}
	return ColorBuilding
}

// BoxMesh returns a unit box standing on y=0, centered on X and Z, with one
// quad per face so each face has its own normal.
func BoxMesh() ([]MarkerVertex, []uint32) {
	type face struct {
		normal  [3]float32
		corners [4][3]float32
	}
	faces := []face{
		{[3]float32{0, 0, 1}, [4][3]float32{{-.5, 0, .5}, {.5, 0, .5}, {.5, 1, .5}, {-.5, 1, .5}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{.5, 0, -.5}, {-.5, 0, -.5}, {-.5, 1, -.5}, {.5, 1, -.5}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{.5, 0, .5}, {.5, 0, -.5}, {.5, 1, -.5}, {.5, 1, .5}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-.5, 0, -.5}, {-.5, 0, .5}, {-.5, 1, .5}, {-.5, 1, -.5}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-.5, 1, .5}, {.5, 1, .5}, {.5, 1, -.5}, {-.5, 1, -.5}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-.5, 0, -.5}, {.5, 0, -.5}, {.5, 0, .5}, {-.5, 0, .5}}},
	}

	vertices := make([]MarkerVertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		base := uint32(len(vertices))
		for _, c := range f.corners {
			vertices = append(vertices, MarkerVertex{Position: c, Normal: f.normal})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return vertices, indices
}

// MarkerRenderer draws every visible entity as a colored box.
type MarkerRenderer struct {
	program *shader.Program

	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32

	// Size multiplies each entity's own scale.
	Size float32
}

// NewMarkerRenderer compiles the marker program and uploads the box.
func NewMarkerRenderer() (*MarkerRenderer, error) {
	program, err := shader.New(shaders.MarkerVertexShader, shaders.MarkerFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("marker shader: %w", err)
	}
	mr := &MarkerRenderer{program: program, Size: 4}

	vertices, indices := BoxMesh()
	gl.GenVertexArrays(1, &mr.vao)
	gl.BindVertexArray(mr.vao)

	gl.GenBuffers(1, &mr.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, mr.vbo)
	vertexSize := int(unsafe.Sizeof(MarkerVertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*vertexSize, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)

	gl.GenBuffers(1, &mr.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, mr.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	mr.indexCount = int32(len(indices))
	return mr, nil
}

// Model returns the box transform for an entity.
func (mr *MarkerRenderer) Model(e *entity.Entity) math.Mat4 {
	return e.Transform().Mul(math.Scale(mr.Size))
}

// Render draws the entities.
func (mr *MarkerRenderer) Render(viewProj math.Mat4, lightDir math.Vec3, entities []*entity.Entity) {
	if len(entities) == 0 {
		return
	}

	mr.program.Use()
	mr.program.SetMat4("uViewProj", viewProj)
	mr.program.SetVec3("uLightDir", lightDir)

	gl.BindVertexArray(mr.vao)
	for _, e := range entities {
		c := MarkerColor(e)
		mr.program.SetMat4("uModel", mr.Model(e))
		mr.program.SetVec3("uColor", math.Vec3{X: c[0], Y: c[1], Z: c[2]})
		gl.DrawElements(gl.TRIANGLES, mr.indexCount, gl.UNSIGNED_INT, nil)
	}
	gl.BindVertexArray(0)
}

// RenderShadow draws the boxes with the bound depth program.
func (mr *MarkerRenderer) RenderShadow(depth *shader.Program, entities []*entity.Entity) {
	gl.BindVertexArray(mr.vao)
	for _, e := range entities {
		depth.SetMat4("uModel", mr.Model(e))
		gl.DrawElements(gl.TRIANGLES, mr.indexCount, gl.UNSIGNED_INT, nil)
	}
	gl.BindVertexArray(0)
}

// Destroy releases all resources.
func (mr *MarkerRenderer) Destroy() {
	if mr.vao != 0 {
		gl.DeleteVertexArrays(1, &mr.vao)
		mr.vao = 0
	}
	if mr.vbo != 0 {
		gl.DeleteBuffers(1, &mr.vbo)
		mr.vbo = 0
	}
	if mr.ebo != 0 {
		gl.DeleteBuffers(1, &mr.ebo)
		mr.ebo = 0
	}
	mr.program.Delete()
}
