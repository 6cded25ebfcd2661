package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestKeyState(t *testing.T) {
	in := New()

	in.handle(&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_W}})
	if !in.IsKeyPressed(sdl.SCANCODE_W) {
		t.Error("W not reported as pressed")
	}
	if !in.IsKeyHeld(sdl.SCANCODE_W) {
		t.Error("W not held")
	}
	if got := in.Axis(sdl.SCANCODE_W, sdl.SCANCODE_S); got != 1 {
		t.Errorf("Axis = %v, want 1", got)
	}

	// Auto-repeat keeps the key held without a new press event.
	in.events = in.events[:0]
	in.handle(&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Repeat: 1, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_W}})
	if in.IsKeyPressed(sdl.SCANCODE_W) {
		t.Error("repeat reported as a new press")
	}

	in.handle(&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_S}})
	if got := in.Axis(sdl.SCANCODE_W, sdl.SCANCODE_S); got != 0 {
		t.Errorf("Axis with both held = %v, want 0", got)
	}

	in.handle(&sdl.KeyboardEvent{Type: sdl.KEYUP, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_W}})
	if in.IsKeyHeld(sdl.SCANCODE_W) {
		t.Error("W still held after release")
	}
	if got := in.Axis(sdl.SCANCODE_W, sdl.SCANCODE_S); got != -1 {
		t.Errorf("Axis = %v, want -1", got)
	}
}

func TestMouseEvents(t *testing.T) {
	in := New()

	in.handle(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_LEFT, X: 3, Y: 4})
	if !in.IsButtonHeld(sdl.BUTTON_LEFT) {
		t.Error("left button not held")
	}

	in.handle(&sdl.MouseMotionEvent{X: 10, Y: 12, XRel: 7, YRel: -2})
	in.handle(&sdl.MouseWheelEvent{Y: -1})
	in.handle(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONUP, Button: sdl.BUTTON_LEFT})

	if in.IsButtonHeld(sdl.BUTTON_LEFT) {
		t.Error("left button held after release")
	}

	events := in.Events()
	want := []EventType{EventMouseDown, EventMouseMove, EventMouseWheel, EventMouseUp}
	if len(events) != len(want) {
		t.Fatalf("events = %d, want %d", len(events), len(want))
	}
	for i, e := range events {
		if e.Type != want[i] {
			t.Errorf("event %d = %v, want %v", i, e.Type, want[i])
		}
	}
	if m := events[1]; m.DeltaX != 7 || m.DeltaY != -2 {
		t.Errorf("motion delta = (%d,%d), want (7,-2)", m.DeltaX, m.DeltaY)
	}
	if w := events[2]; w.DeltaY != -1 {
		t.Errorf("wheel = %d, want -1", w.DeltaY)
	}
}

func TestQuit(t *testing.T) {
	in := New()
	if !in.handle(&sdl.QuitEvent{}) {
		t.Error("quit event did not request exit")
	}
}
