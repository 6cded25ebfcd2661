package scene

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/rally-terrain/internal/engine/scene/shaders"
	"github.com/Faultbox/rally-terrain/internal/engine/shader"
	"github.com/Faultbox/rally-terrain/internal/engine/terrain"
	"github.com/Faultbox/rally-terrain/internal/engine/texture"
	"github.com/Faultbox/rally-terrain/internal/logger"
	"github.com/Faultbox/rally-terrain/pkg/math"
)

// Texture units used by the terrain program.
const (
	grassUnit     = 0
	normalMapUnit = 1
	shadowMapUnit = 2
)

// Uniforms the terrain program reads besides the named shader parameters.
const (
	uniformWorld          = "World"
	uniformUseNormalMap   = "UseNormalMap"
	uniformShadowsEnabled = "ShadowsEnabled"
	uniformLightDirection = "LightDirection"
)

// UniformKind is the GL type a Binding is uploaded as.
type UniformKind uint8

const (
	UniformInt UniformKind = iota
	UniformFloat
	UniformMat4
	UniformTexture
)

// Binding is one uniform assignment derived from the terrain shader parameters.
type Binding struct {
	Name    string
	Kind    UniformKind
	Int     int32
	Float   float32
	Mat4    math.Mat4
	Texture terrain.TextureHandle
	Unit    uint32
}

// Bindings flattens the shader parameters into uniform assignments.
// Shadow uniforms are only emitted when the parameters carry a shadow map.
func Bindings(p terrain.ShaderParams) []Binding {
	b := []Binding{
		{Name: terrain.ParamGrassTexture, Kind: UniformTexture, Texture: p.GrassTexture, Unit: grassUnit},
		{Name: terrain.ParamTerrainSize, Kind: UniformInt, Int: p.TerrainSize},
		{Name: terrain.ParamWorldViewProjection, Kind: UniformMat4, Mat4: p.WorldViewProjection},
	}

	if p.NormalMapTexture != 0 {
		b = append(b,
			Binding{Name: terrain.ParamNormalMapTexture, Kind: UniformTexture, Texture: p.NormalMapTexture, Unit: normalMapUnit},
			Binding{Name: uniformUseNormalMap, Kind: UniformInt, Int: 1},
		)
	} else {
		b = append(b, Binding{Name: uniformUseNormalMap, Kind: UniformInt, Int: 0})
	}

	if s := p.Shadow; s != nil {
		b = append(b,
			Binding{Name: terrain.ParamShadowMap, Kind: UniformTexture, Texture: s.Map, Unit: shadowMapUnit},
			Binding{Name: terrain.ParamShadowMapProjector, Kind: UniformMat4, Mat4: s.Projector},
			Binding{Name: terrain.ParamShadowMapSize, Kind: UniformFloat, Float: float32(s.Size)},
			Binding{Name: terrain.ParamShadowMapSizeInverse, Kind: UniformFloat, Float: s.SizeInverse},
			Binding{Name: uniformShadowsEnabled, Kind: UniformInt, Int: 1},
		)
	} else {
		b = append(b, Binding{Name: uniformShadowsEnabled, Kind: UniformInt, Int: 0})
	}
	return b
}

func apply(p *shader.Program, bindings []Binding) {
	for _, b := range bindings {
		switch b.Kind {
		case UniformInt:
			p.SetInt(b.Name, b.Int)
		case UniformFloat:
			p.SetFloat(b.Name, b.Float)
		case UniformMat4:
			p.SetMat4(b.Name, b.Mat4)
		case UniformTexture:
			p.SetTexture(b.Name, b.Unit, uint32(b.Texture))
		}
	}
}

// TerrainRenderer draws a terrain mesh as a single indexed triangle strip.
type TerrainRenderer struct {
	program *shader.Program

	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32

	grassTex  uint32
	normalTex uint32

	log *zap.Logger
}

// NewTerrainRenderer compiles the terrain program.
func NewTerrainRenderer() (*TerrainRenderer, error) {
	program, err := shader.New(shaders.TerrainVertexShader, shaders.TerrainFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("terrain shader: %w", err)
	}
	return &TerrainRenderer{program: program, log: logger.Named("scene")}, nil
}

// Load uploads the terrain mesh, its normal map and the grass texture.
// A nil grass image selects a checkerboard fallback.
func (tr *TerrainRenderer) Load(t *terrain.Terrain, grass image.Image, useNormalMap bool) error {
	mesh := t.Mesh()
	if mesh == nil || len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return fmt.Errorf("%w: empty mesh", terrain.ErrGridTooSmall)
	}

	tr.clear()
	tr.uploadMesh(mesh.Vertices, mesh.Indices)

	var grassImg *image.RGBA
	if grass != nil {
		grassImg = texture.ToRGBA(grass)
	} else {
		grassImg = texture.Checker(fallbackGrassA, fallbackGrassB, 64, 8)
	}
	tr.grassTex = texture.Upload(grassImg, texture.Options{Repeat: true, Mipmaps: true})

	if useNormalMap {
		tr.normalTex = texture.Upload(t.NormalTexture(), texture.Options{})
	}

	tr.log.Info("terrain uploaded",
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("indices", len(mesh.Indices)),
		zap.Int("primitives", mesh.PrimitiveCount()),
		zap.Bool("normal_map", useNormalMap))
	return nil
}

// Grass returns the uploaded grass texture.
func (tr *TerrainRenderer) Grass() terrain.TextureHandle {
	return terrain.TextureHandle(tr.grassTex)
}

// NormalMap returns the uploaded normal-map texture, or 0 if none.
func (tr *TerrainRenderer) NormalMap() terrain.TextureHandle {
	return terrain.TextureHandle(tr.normalTex)
}

func (tr *TerrainRenderer) uploadMesh(vertices []terrain.Vertex, indices []uint32) {
	gl.GenVertexArrays(1, &tr.vao)
	gl.BindVertexArray(tr.vao)

	gl.GenBuffers(1, &tr.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, tr.vbo)
	vertexSize := int(unsafe.Sizeof(terrain.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*vertexSize, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	// Position (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)

	// Normal (location 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)

	// TexCoord (location 2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, int32(vertexSize), 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &tr.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, tr.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	tr.indexCount = int32(len(indices))
}

// Render draws the terrain with the given parameters.
func (tr *TerrainRenderer) Render(p terrain.ShaderParams, world math.Mat4, lightDir math.Vec3) {
	if tr.vao == 0 {
		return
	}

	tr.program.Use()
	apply(tr.program, Bindings(p))
	tr.program.SetMat4(uniformWorld, world)
	tr.program.SetVec3(uniformLightDirection, lightDir)

	gl.BindVertexArray(tr.vao)
	gl.DrawElements(gl.TRIANGLE_STRIP, tr.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
	gl.ActiveTexture(gl.TEXTURE0)
}

// RenderShadow draws the strip with whatever depth program is bound.
func (tr *TerrainRenderer) RenderShadow() {
	if tr.vao == 0 {
		return
	}
	gl.BindVertexArray(tr.vao)
	gl.DrawElements(gl.TRIANGLE_STRIP, tr.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (tr *TerrainRenderer) clear() {
	if tr.vao != 0 {
		gl.DeleteVertexArrays(1, &tr.vao)
		tr.vao = 0
	}
	if tr.vbo != 0 {
		gl.DeleteBuffers(1, &tr.vbo)
		tr.vbo = 0
	}
	if tr.ebo != 0 {
		gl.DeleteBuffers(1, &tr.ebo)
		tr.ebo = 0
	}
	texture.Delete(tr.grassTex)
	texture.Delete(tr.normalTex)
	tr.grassTex, tr.normalTex = 0, 0
	tr.indexCount = 0
}

// Destroy releases all resources.
func (tr *TerrainRenderer) Destroy() {
	tr.clear()
	tr.program.Delete()
}
