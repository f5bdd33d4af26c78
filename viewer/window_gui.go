//go:build gui

package viewer

import (
	"image"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
)

// FramebufferWindow shows polled frames in a local window. Updates are
// queued on a channel and applied at a bounded rate on the fyne thread.
type FramebufferWindow struct {
	app        fyne.App
	window     fyne.Window
	image      *canvas.Image
	updateChan chan image.Image
	closeChan  chan bool
	running    bool
}

// UpdateFramebuffer queues an image for display. Frames are dropped when
// the queue is full; only the latest matters.
func (w *FramebufferWindow) UpdateFramebuffer(img image.Image) {
	if !w.running {
		return
	}
	select {
	case w.updateChan <- img:
	default:
	}
}

// Close tears the window down.
func (w *FramebufferWindow) Close() {
	if !w.running {
		return
	}
	w.running = false
	select {
	case w.closeChan <- true:
	default:
	}
	w.window.Close()
}

func (w *FramebufferWindow) handleUpdates() {
	ticker := time.NewTicker(50 * time.Millisecond) // 20 FPS cap
	defer ticker.Stop()

	var pending image.Image
	for {
		select {
		case img := <-w.updateChan:
			pending = img
		case <-ticker.C:
			if pending != nil && w.image != nil {
				img := pending
				fyne.Do(func() {
					w.image.Image = img
					w.image.Refresh()
				})
				pending = nil
			}
		case <-w.closeChan:
			return
		}
	}
}

// RunWindow opens the window on the main thread (required on macOS) and
// runs fn in a goroutine. It blocks until the window closes.
func RunWindow(title string, width, height int, fn func(*FramebufferWindow)) {
	a := app.New()
	win := a.NewWindow(title)
	win.Resize(fyne.NewSize(float32(width), float32(height)))

	img := canvas.NewImageFromResource(nil)
	img.FillMode = canvas.ImageFillOriginal
	img.ScaleMode = canvas.ImageScalePixels
	win.SetContent(container.NewBorder(nil, nil, nil, nil, img))

	w := &FramebufferWindow{
		app:        a,
		window:     win,
		image:      img,
		updateChan: make(chan image.Image, 10),
		closeChan:  make(chan bool, 1),
		running:    true,
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("bridge panic: %v", r)
			}
		}()
		fn(w)
	}()

	go w.handleUpdates()
	win.ShowAndRun()
}
