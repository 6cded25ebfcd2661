// Package game implements the terrain viewer loop.
package game

import (
	"fmt"
	"image"
	"time"

	"github.com/chewxy/math32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/rally-terrain/internal/config"
	"github.com/Faultbox/rally-terrain/internal/engine/camera"
	"github.com/Faultbox/rally-terrain/internal/engine/debug"
	"github.com/Faultbox/rally-terrain/internal/engine/input"
	"github.com/Faultbox/rally-terrain/internal/engine/picking"
	"github.com/Faultbox/rally-terrain/internal/engine/renderer"
	"github.com/Faultbox/rally-terrain/internal/engine/scene"
	"github.com/Faultbox/rally-terrain/internal/engine/window"
	"github.com/Faultbox/rally-terrain/internal/game/entity"
	"github.com/Faultbox/rally-terrain/internal/game/level"
	"github.com/Faultbox/rally-terrain/internal/game/world"
	"github.com/Faultbox/rally-terrain/internal/logger"
	"github.com/Faultbox/rally-terrain/pkg/raster"
)

// checkpointRadius is how close the camera focus must get to pass a checkpoint.
const checkpointRadius = 40

// pickDistance is how far a mouse ray is followed into the terrain.
const pickDistance = 8000

// maxStep caps the simulation step after a stall (window drag, breakpoint).
const maxStep = 0.1

// Game is the viewer instance.
type Game struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input

	level  *level.Level
	world  *world.World
	camera *camera.OrbitCamera

	screenshots *debug.ScreenshotCapture

	log *zap.Logger
}

// New opens the window and uploads the level.
func New(cfg *config.Config, lvl *level.Level) (*Game, error) {
	g := &Game{
		cfg:   cfg,
		level: lvl,
		log:   logger.Named("game"),
	}

	w, err := lvl.NewWorld()
	if err != nil {
		return nil, fmt.Errorf("populating world: %w", err)
	}
	g.world = w

	// Create window (this also creates OpenGL context)
	g.window, err = window.New(window.Config{
		Title:      "Rally Terrain - " + lvl.Name,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		Samples:    cfg.Window.Samples,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	sc := scene.DefaultConfig()
	sc.ShadowsEnabled = cfg.Shadow.Enabled
	sc.ShadowResolution = int32(cfg.Shadow.MapSize)
	sc.NormalMap = cfg.Terrain.NormalMap
	sc.LightDirection = cfg.Shadow.Direction()

	// Create renderer (AFTER window, since OpenGL context must exist)
	g.renderer, err = renderer.New(renderer.Config{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		Scene:  sc,
	})
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	grass, err := loadGrass(cfg.Level.GrassTexture)
	if err != nil {
		g.log.Warn("grass texture unavailable, using fallback", zap.Error(err))
	}
	if err := g.renderer.Scene().Load(lvl.Terrain, grass); err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}

	g.camera = camera.NewOrbitCamera(g.window.Aspect())
	g.camera.FOV = cfg.Camera.FOV * math32.Pi / 180
	g.camera.Clearance = cfg.Camera.Clearance
	g.camera.FitToBounds(lvl.Terrain.Mesh().Bounds)
	if cfg.Camera.Distance > 0 {
		g.camera.Distance = min(max(cfg.Camera.Distance, g.camera.MinDistance), g.camera.MaxDistance)
	}

	g.input = input.New()
	g.screenshots = debug.NewScreenshotCapture("screenshots", lvl.Name)

	g.log.Info("viewer initialized",
		zap.String("level", lvl.Name),
		zap.Int("entities", g.world.Entities().Count()),
		zap.Int("checkpoints", g.world.Course().Len()),
	)
	return g, nil
}

func loadGrass(path string) (image.Image, error) {
	if path == "" {
		return nil, nil
	}
	r, err := raster.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	return r.Image(), nil
}

// Run starts the main loop.
func (g *Game) Run() error {
	g.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	var frameBudget time.Duration
	if g.cfg.Window.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(g.cfg.Window.FPSLimit)
	}

	g.log.Debug("starting viewer loop")

	for g.running {
		frameStart := time.Now()
		dt := float32(frameStart.Sub(lastTime).Seconds())
		lastTime = frameStart

		if g.input.Update() {
			g.running = false
			break
		}
		for _, event := range g.input.Events() {
			g.handleEvent(event)
		}

		g.update(min(dt, maxStep))

		g.renderer.Frame(g.camera, g.world.Entities().AllVisible())
		g.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			g.log.Debug("fps", zap.Int("count", frameCount), zap.Float32("dt_ms", dt*1000))
			g.window.SetStatus(g.status(frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameBudget > 0 {
			if rest := frameBudget - time.Since(frameStart); rest > 0 {
				time.Sleep(rest)
			}
		}
	}

	return nil
}

func (g *Game) handleEvent(event input.Event) {
	switch event.Type {
	case input.EventWindowResize:
		g.renderer.Resize(event.Width, event.Height)
		if event.Height > 0 {
			g.camera.Aspect = float32(event.Width) / float32(event.Height)
		}
	case input.EventMouseMove:
		if g.input.IsButtonHeld(sdl.BUTTON_LEFT) {
			g.camera.HandleDrag(float32(event.DeltaX), float32(event.DeltaY))
		}
	case input.EventMouseDown:
		if event.Button == sdl.BUTTON_RIGHT {
			g.pick(event.MouseX, event.MouseY)
		}
	case input.EventMouseWheel:
		g.camera.HandleZoom(float32(event.DeltaY))
	case input.EventKeyDown:
		switch event.Key {
		case sdl.SCANCODE_ESCAPE:
			g.running = false
		case sdl.SCANCODE_F:
			g.camera.FitToBounds(g.level.Terrain.Mesh().Bounds)
		case sdl.SCANCODE_L:
			sc := g.renderer.Scene()
			sc.SetShadows(!sc.ShadowsEnabled())
		case sdl.SCANCODE_R:
			g.world.Course().Reset()
			g.log.Info("course reset")
		case sdl.SCANCODE_F12:
			g.screenshot()
		}
	}
}

// pick focuses the camera on the object or ground under the cursor.
func (g *Game) pick(x, y int) {
	width, height := g.window.Size()
	ray := picking.ScreenToRay(float32(x), float32(y), float32(width), float32(height), picking.Lens{
		Eye:    g.camera.Position(),
		Target: g.camera.Center,
		FOV:    g.camera.FOV,
		Aspect: g.camera.Aspect,
	})

	entities := g.world.Entities().AllVisible()
	boxes := make([]picking.AABB, len(entities))
	for i, e := range entities {
		boxes[i] = picking.BoxAABB(g.renderer.Scene().MarkerModel(e))
	}

	ground, onGround := ray.IntersectGround(g.world.Ground(), pickDistance, g.level.Terrain.Transform().CellSize())
	if i, dist := ray.Nearest(boxes); i >= 0 && (!onGround || dist <= ground.Sub(ray.Origin).Length()) {
		g.focus(entities[i])
		return
	}
	if onGround {
		g.camera.Center = ground
		g.log.Debug("ground picked", zap.Float32("x", ground.X), zap.Float32("y", ground.Y), zap.Float32("z", ground.Z))
	}
}

func (g *Game) focus(e *entity.Entity) {
	g.camera.Center = e.Position
	g.log.Info("object picked",
		zap.String("model", e.Model),
		zap.Uint8("type", e.TypeID),
		zap.Stringer("id", e.ID),
		zap.Stringer("kind", e.Kind),
	)
}

func (g *Game) screenshot() {
	pixels, width, height := g.renderer.ReadPixels()
	name, err := g.screenshots.CaptureFromPixels(pixels, width, height)
	if err != nil {
		g.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	g.log.Info("screenshot saved", zap.String("file", name))
}

func (g *Game) update(dt float32) {
	forward := g.input.Axis(sdl.SCANCODE_W, sdl.SCANCODE_S)
	right := g.input.Axis(sdl.SCANCODE_D, sdl.SCANCODE_A)
	up := g.input.Axis(sdl.SCANCODE_E, sdl.SCANCODE_Q)
	if forward != 0 || right != 0 || up != 0 {
		g.camera.HandleMovement(forward*dt*60, right*dt*60, up*dt*60)
	}
	g.camera.ClampToGround(g.world.Ground())

	g.world.Update(dt)

	course := g.world.Course()
	if course.Pass(g.camera.Center, checkpointRadius) {
		g.log.Info("checkpoint passed",
			zap.Int("laps", course.Laps()),
			zap.Int("checkpoints", course.Len()))
	}
}

// status summarises frame rate and course progress for the title bar.
func (g *Game) status(fps int) string {
	course := g.world.Course()
	if course.Len() == 0 {
		return fmt.Sprintf("%d fps", fps)
	}
	return fmt.Sprintf("%d fps | checkpoint %d/%d | lap %d", fps, course.Index()+1, course.Len(), course.Laps()+1)
}

// Close cleans up viewer resources.
func (g *Game) Close() {
	g.log.Debug("closing viewer")

	if g.renderer != nil {
		g.renderer.Close()
		g.renderer = nil
	}
	if g.window != nil {
		g.window.Close()
		g.window = nil
	}
}
