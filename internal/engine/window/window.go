// Package window opens the SDL2 window that hosts the terrain viewer's GL context.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/rally-terrain/internal/logger"
)

func init() {
	// GL calls must stay on the thread that created the context.
	runtime.LockOSThread()
}

// Config describes the window to open.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	Samples    int // MSAA samples, 0 disables multisampling
}

type glAttr struct {
	attr  sdl.GLattr
	value int
}

// Window owns the SDL window and its GL 4.1 core context.
type Window struct {
	title string
	log   *zap.Logger
	win   *sdl.Window
	ctx   sdl.GLContext
}

// New initialises SDL video, opens the window and makes its context current.
func New(cfg Config) (*Window, error) {
	log := logger.Named("window")

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("sdl init: %w", err)
	}

	// Attributes must be set before the window exists.
	attrs := []glAttr{
		{sdl.GL_CONTEXT_MAJOR_VERSION, 4},
		{sdl.GL_CONTEXT_MINOR_VERSION, 1},
		{sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE},
		{sdl.GL_DOUBLEBUFFER, 1},
		{sdl.GL_DEPTH_SIZE, 24},
	}
	if cfg.Samples > 0 {
		attrs = append(attrs,
			glAttr{sdl.GL_MULTISAMPLEBUFFERS, 1},
			glAttr{sdl.GL_MULTISAMPLESAMPLES, cfg.Samples},
		)
	}
	for _, a := range attrs {
		if err := sdl.GLSetAttribute(a.attr, a.value); err != nil {
			log.Warn("gl attribute rejected", zap.Int("attr", int(a.attr)), zap.Int("value", a.value), zap.Error(err))
		}
	}

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	win, err := sdl.CreateWindow(cfg.Title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width), int32(cfg.Height), flags)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("create window: %w", err)
	}

	ctx, err := win.GLCreateContext()
	if err != nil {
		win.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("create gl context: %w", err)
	}

	interval := 0
	if cfg.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		log.Warn("swap interval not applied", zap.Int("interval", interval), zap.Error(err))
	}

	w := &Window{title: cfg.Title, log: log, win: win, ctx: ctx}
	dw, dh := w.DrawableSize()
	log.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("drawable_width", dw),
		zap.Int("drawable_height", dh),
		zap.Int("samples", cfg.Samples),
		zap.Bool("vsync", cfg.VSync),
	)
	return w, nil
}

// Close releases the context and shuts SDL down.
func (w *Window) Close() {
	if w.ctx != nil {
		sdl.GLDeleteContext(w.ctx)
		w.ctx = nil
	}
	if w.win != nil {
		w.win.Destroy()
		w.win = nil
	}
	sdl.Quit()
}

// SwapBuffers presents the back buffer.
func (w *Window) SwapBuffers() {
	w.win.GLSwap()
}

// Size is the window size in screen coordinates, the space mouse events use.
func (w *Window) Size() (int, int) {
	width, height := w.win.GetSize()
	return int(width), int(height)
}

// DrawableSize is the framebuffer size in pixels. It differs from Size on HiDPI displays.
func (w *Window) DrawableSize() (int, int) {
	width, height := w.win.GLGetDrawableSize()
	return int(width), int(height)
}

// Aspect returns width / height of the drawable area.
func (w *Window) Aspect() float32 {
	width, height := w.DrawableSize()
	if height == 0 {
		return 1
	}
	return float32(width) / float32(height)
}

// SetStatus shows status after the base title, e.g. "Rally Terrain - default | 60 fps".
func (w *Window) SetStatus(status string) {
	if status == "" {
		w.win.SetTitle(w.title)
		return
	}
	w.win.SetTitle(w.title + " | " + status)
}
