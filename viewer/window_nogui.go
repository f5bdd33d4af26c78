//go:build !gui

package viewer

import (
	"image"
	"log"
)

// FramebufferWindow is a no-op when built without the 'gui' tag.
type FramebufferWindow struct {
	running bool
}

func (w *FramebufferWindow) UpdateFramebuffer(img image.Image) {}

func (w *FramebufferWindow) Close() {
	w.running = false
}

// RunWindow runs fn directly; no window is opened without the 'gui' tag.
func RunWindow(title string, width, height int, fn func(*FramebufferWindow)) {
	log.Printf("GUI window disabled (built without 'gui' tag); running headless. Title: %s, Size: %dx%d",
		title, width, height)
	fn(&FramebufferWindow{running: true})
}
