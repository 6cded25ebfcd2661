// Package renderer initialises OpenGL and drives the scene once per frame.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/rally-terrain/internal/engine/scene"
	"github.com/Faultbox/rally-terrain/internal/engine/terrain"
	"github.com/Faultbox/rally-terrain/internal/game/entity"
	"github.com/Faultbox/rally-terrain/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	Scene  scene.Config
}

// Renderer owns the GL state and the scene.
type Renderer struct {
	config Config
	scene  *scene.Scene
	log    *zap.Logger
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		log:    logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	sc := cfg.Scene
	sc.Width, sc.Height = int32(cfg.Width), int32(cfg.Height)

	var err error
	r.scene, err = scene.New(sc)
	if err != nil {
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}
	return r, nil
}

// Scene returns the scene being drawn.
func (r *Renderer) Scene() *scene.Scene {
	return r.scene
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Debug("closing renderer")
	if r.scene != nil {
		r.scene.Destroy()
		r.scene = nil
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	r.scene.Resize(int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Frame draws one frame from cam.
func (r *Renderer) Frame(cam terrain.Camera, entities []*entity.Entity) {
	r.scene.Render(cam, entities)
}

// ReadPixels reads back the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}
