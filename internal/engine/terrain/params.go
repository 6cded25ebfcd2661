package terrain

import "github.com/Faultbox/rally-terrain/pkg/math"

// Shader parameter names understood by the terrain effect.
const (
	ParamGrassTexture         = "GrassTexture"
	ParamTerrainSize          = "TerrainSize"
	ParamNormalMapTexture     = "NormalMapTexture"
	ParamWorldViewProjection  = "WorldViewProjection"
	ParamShadowMap            = "ShadowMap"
	ParamShadowMapProjector   = "ShadowMapProjector"
	ParamShadowMapSize        = "ShadowMapSize"
	ParamShadowMapSizeInverse = "ShadowMapSizeInverse"
)

// TextureHandle is an opaque renderer texture id (a GL texture name).
type TextureHandle uint32

// Camera supplies the per-frame view and projection.
type Camera interface {
	ViewMatrix() math.Mat4
	ProjectionMatrix() math.Mat4
}

// Light is the shadow-casting light seen as a camera.
type Light interface {
	ViewMatrix() math.Mat4
	ProjectionMatrix() math.Mat4
}

// ShadowMap is a depth texture rendered from the light's point of view.
type ShadowMap interface {
	Size() int32
	Texture() TextureHandle
}

// ParamInputs are the collaborators the terrain effect reads each frame.
// Light and ShadowMap are optional; shadows are only enabled when both are set.
type ParamInputs struct {
	Grass     TextureHandle
	NormalMap TextureHandle
	Camera    Camera
	Light     Light
	ShadowMap ShadowMap
}

// ShadowParams are only present when a shadow map is available.
type ShadowParams struct {
	Map         TextureHandle
	Projector   math.Mat4
	Size        int32
	SizeInverse float32
}

// ShaderParams is the full named parameter set for one terrain draw.
type ShaderParams struct {
	GrassTexture        TextureHandle
	TerrainSize         int32
	NormalMapTexture    TextureHandle
	WorldViewProjection math.Mat4
	Shadow              *ShadowParams
}

// Parameters computes the shader parameters for the current frame.
func (t *Terrain) Parameters(in ParamInputs) ShaderParams {
	p := ShaderParams{
		GrassTexture:        in.Grass,
		TerrainSize:         int32(t.Size()),
		NormalMapTexture:    in.NormalMap,
		WorldViewProjection: t.world,
	}

	if in.Camera != nil {
		p.WorldViewProjection = in.Camera.ProjectionMatrix().Mul(in.Camera.ViewMatrix()).Mul(t.world)
	}

	if in.ShadowMap != nil && in.Light != nil {
		size := in.ShadowMap.Size()
		p.Shadow = &ShadowParams{
			Map:         in.ShadowMap.Texture(),
			Projector:   ShadowProjector(in.Light, size),
			Size:        size,
			SizeInverse: 1 / float32(size),
		}
	}

	return p
}

// ShadowProjector maps world space into shadow-map texture space.
func ShadowProjector(l Light, shadowMapSize int32) math.Mat4 {
	return TextureScaleAndOffset(shadowMapSize).Mul(l.ProjectionMatrix()).Mul(l.ViewMatrix())
}

// TextureScaleAndOffset maps clip space [-1,1] to texture space [0,1] on all three
// axes, shifting X/Y by half a texel so samples land on texel centres.
func TextureScaleAndOffset(shadowMapSize int32) math.Mat4 {
	o := float32(0.5) + 0.5/float32(shadowMapSize)
	return math.Mat4{
		0.5, 0, 0, 0,
		0, 0.5, 0, 0,
		0, 0, 0.5, 0,
		o, o, 0.5, 1,
	}
}
