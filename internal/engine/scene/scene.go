// Package scene renders a loaded level: the terrain strip, placed objects and
// the directional shadow pass.
package scene

import (
	"fmt"
	"image"
	"image/color"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/rally-terrain/internal/engine/scene/shaders"
	"github.com/Faultbox/rally-terrain/internal/engine/shader"
	"github.com/Faultbox/rally-terrain/internal/engine/shadow"
	"github.com/Faultbox/rally-terrain/internal/engine/terrain"
	"github.com/Faultbox/rally-terrain/internal/game/entity"
	"github.com/Faultbox/rally-terrain/internal/logger"
	"github.com/Faultbox/rally-terrain/pkg/math"
)

// Checkerboard used when a level has no grass texture.
var (
	fallbackGrassA = color.RGBA{R: 0x4c, G: 0x7a, B: 0x34, A: 0xff}
	fallbackGrassB = color.RGBA{R: 0x5a, G: 0x8c, B: 0x3e, A: 0xff}
)

// Config contains scene configuration options.
type Config struct {
	Width            int32
	Height           int32
	ShadowResolution int32
	ShadowsEnabled   bool
	NormalMap        bool
	LightDirection   math.Vec3
	ClearColor       [3]float32
}

// DefaultConfig returns a default scene configuration.
func DefaultConfig() Config {
	return Config{
		Width:            1280,
		Height:           720,
		ShadowResolution: shadow.DefaultResolution,
		ShadowsEnabled:   true,
		LightDirection:   math.Vec3{X: -0.5, Y: -1, Z: -0.3},
		ClearColor:       [3]float32{0.55, 0.7, 0.85},
	}
}

// Scene owns the GPU side of one level.
type Scene struct {
	config Config

	terrain         *terrain.Terrain
	terrainRenderer *TerrainRenderer
	markerRenderer  *MarkerRenderer

	sun           shadow.Sunlight
	shadowMap     *shadow.Map
	shadowProgram *shader.Program

	log *zap.Logger
}

// New creates the renderers. A failing shadow map disables shadows instead of
// failing the scene.
func New(cfg Config) (*Scene, error) {
	s := &Scene{config: cfg, log: logger.Named("scene")}

	var err error
	s.terrainRenderer, err = NewTerrainRenderer()
	if err != nil {
		return nil, fmt.Errorf("creating terrain renderer: %w", err)
	}

	s.markerRenderer, err = NewMarkerRenderer()
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("creating marker renderer: %w", err)
	}

	if cfg.ShadowsEnabled {
		s.shadowMap, err = shadow.NewMap(cfg.ShadowResolution)
		if err != nil {
			s.log.Warn("shadows disabled", zap.Error(err))
			s.config.ShadowsEnabled = false
		}
	}

	if s.config.ShadowsEnabled {
		s.shadowProgram, err = shader.New(shaders.ShadowVertexShader, shaders.ShadowFragmentShader)
		if err != nil {
			s.Destroy()
			return nil, fmt.Errorf("shadow shader: %w", err)
		}
	}

	return s, nil
}

// Load uploads a terrain and aims the sun at its bounds.
func (s *Scene) Load(t *terrain.Terrain, grass image.Image) error {
	if err := s.terrainRenderer.Load(t, grass, s.config.NormalMap); err != nil {
		return fmt.Errorf("loading terrain: %w", err)
	}
	s.terrain = t
	s.sun = shadow.NewSunlight(s.config.LightDirection, t.Mesh().Bounds)

	s.log.Info("scene loaded",
		zap.Int("size", t.Size()),
		zap.Bool("shadows", s.ShadowsEnabled()))
	return nil
}

// ShadowsEnabled reports whether the shadow pass runs.
func (s *Scene) ShadowsEnabled() bool {
	return s.config.ShadowsEnabled && s.shadowMap != nil
}

// SetShadows toggles the shadow pass. It has no effect without a shadow map.
func (s *Scene) SetShadows(enabled bool) {
	s.config.ShadowsEnabled = enabled && s.shadowMap != nil && s.shadowProgram != nil
}

// Sun returns the scene light.
func (s *Scene) Sun() shadow.Sunlight {
	return s.sun
}

// ParamInputs collects the terrain parameter collaborators for cam.
func (s *Scene) ParamInputs(cam terrain.Camera) terrain.ParamInputs {
	in := terrain.ParamInputs{
		Grass:     s.terrainRenderer.Grass(),
		NormalMap: s.terrainRenderer.NormalMap(),
		Camera:    cam,
	}
	// A nil *shadow.Map must not become a non-nil interface.
	if s.ShadowsEnabled() {
		in.Light = s.sun
		in.ShadowMap = s.shadowMap
	}
	return in
}

// Render draws the terrain and entities from cam into the bound framebuffer.
func (s *Scene) Render(cam terrain.Camera, entities []*entity.Entity) {
	if s.terrain == nil {
		return
	}

	if s.ShadowsEnabled() {
		s.renderShadowPass(entities)
	}

	gl.Viewport(0, 0, s.config.Width, s.config.Height)
	c := s.config.ClearColor
	gl.ClearColor(c[0], c[1], c[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Disable(gl.CULL_FACE)

	lightDir := s.sun.LightDirection()
	params := s.terrain.Parameters(s.ParamInputs(cam))
	s.terrainRenderer.Render(params, s.terrain.World(), lightDir)

	viewProj := cam.ProjectionMatrix().Mul(cam.ViewMatrix())
	s.markerRenderer.Render(viewProj, lightDir, entities)
}

func (s *Scene) renderShadowPass(entities []*entity.Entity) {
	s.shadowMap.Bind()
	// The terrain is a single-sided sheet; front-face culling would drop it.
	gl.Disable(gl.CULL_FACE)

	s.shadowProgram.Use()
	s.shadowProgram.SetMat4("uLightViewProj", s.sun.ViewProjection())
	s.shadowProgram.SetMat4("uModel", s.terrain.World())
	s.terrainRenderer.RenderShadow()

	s.markerRenderer.RenderShadow(s.shadowProgram, entities)

	s.shadowMap.Unbind()
}

// Resize updates the viewport size.
func (s *Scene) Resize(width, height int32) {
	s.config.Width = width
	s.config.Height = height
}

// Destroy releases all GPU resources.
func (s *Scene) Destroy() {
	if s.terrainRenderer != nil {
		s.terrainRenderer.Destroy()
		s.terrainRenderer = nil
	}
	if s.markerRenderer != nil {
		s.markerRenderer.Destroy()
		s.markerRenderer = nil
	}
	if s.shadowMap != nil {
		s.shadowMap.Destroy()
		s.shadowMap = nil
	}
	if s.shadowProgram != nil {
		s.shadowProgram.Delete()
		s.shadowProgram = nil
	}
}

// MarkerModel returns the transform an entity's marker box is drawn with.
func (s *Scene) MarkerModel(e *entity.Entity) math.Mat4 {
	return s.markerRenderer.Model(e)
}
