// Package fbbridge exposes a hardware simulator's framebuffer memory as a
// standard RFB/VNC endpoint plus a browser viewer. The pixel data is pulled
// over the simulator's slow text-based debug monitor, fingerprinted for
// change detection, and pushed to clients as full-frame raw updates.
package fbbridge

import (
	"context"
	"image"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/simview/fbbridge/monitor"
	"github.com/simview/fbbridge/rfb"
	"github.com/simview/fbbridge/source"
	"github.com/simview/fbbridge/viewer"
)

// Logger is the logging interface used throughout the bridge. The standard
// library logger satisfies it.
type Logger interface {
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}

// Config holds the configuration for the bridge.
type Config struct {
	VNCAddr         string  // RFB listener, default ":5900"
	ViewerAddr      string  // HTTP viewer listener, default ":5800"
	MonitorAddr     string  // simulator debug monitor, default "localhost:1234"
	FrameRate       float64 // poll and update rate, default 2 fps
	Width           int     // default 640
	Height          int     // default 480
	FramebufferAddr uint64  // guest address of the pixel region, default 0x43E00000
	UARTLogPath     string  // default "/tmp/uart_output_interactive.txt"
	DumpPath        string  // side-effect file for monitor memory dumps
	DisplayName     string  // RFB desktop name, default "Renode DrawEngine FB"

	// OnFrame, when set, receives an RGBA rendering of every changed
	// frame. Used by the optional GUI window.
	OnFrame func(image.Image)

	Logger Logger
}

// Bridge wires the framebuffer source, the RFB server and the HTTP viewer.
type Bridge struct {
	cfg    Config
	mon    *monitor.Client
	src    *source.Source
	logger Logger
}

// New creates a bridge with the given configuration, filling in defaults
// for zero fields.
func New(cfg Config) *Bridge {
	if cfg.VNCAddr == "" {
		cfg.VNCAddr = ":5900"
	}
	if cfg.ViewerAddr == "" {
		cfg.ViewerAddr = ":5800"
	}
	if cfg.MonitorAddr == "" {
		cfg.MonitorAddr = "localhost:1234"
	}
	if cfg.FrameRate == 0 {
		cfg.FrameRate = 2.0
	}
	if cfg.Width == 0 {
		cfg.Width = 640
	}
	if cfg.Height == 0 {
		cfg.Height = 480
	}
	if cfg.FramebufferAddr == 0 {
		cfg.FramebufferAddr = 0x43E00000
	}
	if cfg.UARTLogPath == "" {
		cfg.UARTLogPath = "/tmp/uart_output_interactive.txt"
	}
	if cfg.DisplayName == "" {
		cfg.DisplayName = "Renode DrawEngine FB"
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	mon := monitor.New(monitor.Config{
		Addr:     cfg.MonitorAddr,
		DumpPath: cfg.DumpPath,
		Logger:   cfg.Logger,
	})
	src := source.New(mon, source.Config{
		Width:           cfg.Width,
		Height:          cfg.Height,
		FramebufferAddr: cfg.FramebufferAddr,
		UARTLogPath:     cfg.UARTLogPath,
		Diagnostics:     source.RegisterDump(mon, source.DrawEngineProbes, cfg.Logger),
		Logger:          cfg.Logger,
	})

	return &Bridge{cfg: cfg, mon: mon, src: src, logger: cfg.Logger}
}

// Source returns the framebuffer source, for callers that want direct
// access to snapshots or console injection.
func (b *Bridge) Source() *source.Source {
	return b.src
}

// Serve connects to the simulator and runs the bridge until the context is
// cancelled. It returns an error only for terminal conditions: monitor
// connection exhaustion or an unbindable RFB port.
func (b *Bridge) Serve(ctx context.Context) error {
	b.logger.Printf("Connecting to monitor at %s ...", b.cfg.MonitorAddr)
	if err := b.mon.Connect(ctx); err != nil {
		return err
	}
	defer b.mon.Close()

	b.logger.Println("Initial framebuffer read...")
	b.poll()

	go b.pollLoop(ctx)

	vw := viewer.New(viewer.Config{
		Addr:      b.cfg.ViewerAddr,
		VNCTarget: localTarget(b.cfg.VNCAddr),
		Source:    b.src,
		Logger:    b.logger,
	})
	go func() {
		if err := vw.Serve(ctx); err != nil && err != http.ErrServerClosed {
			b.logger.Printf("Viewer server error: %v", err)
		}
	}()
	b.logger.Printf("HTTP viewer on %s", b.cfg.ViewerAddr)

	vnc := NewVNCServer(VNCConfig{
		Addr:        b.cfg.VNCAddr,
		Width:       b.cfg.Width,
		Height:      b.cfg.Height,
		FrameRate:   b.cfg.FrameRate,
		DisplayName: b.cfg.DisplayName,
		Source:      b.src,
		Logger:      b.logger,
	})
	return vnc.Serve(ctx)
}

// pollLoop pulls the framebuffer on a fixed interval regardless of client
// count, so a just-connected client gets a fresh frame promptly.
func (b *Bridge) pollLoop(ctx context.Context) {
	interval := time.Duration(float64(time.Second) / b.cfg.FrameRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.poll()
		}
	}
}

func (b *Bridge) poll() {
	if b.src.Poll() && b.cfg.OnFrame != nil {
		b.cfg.OnFrame(rfb.RGBAImage(b.src.Snapshot(), b.cfg.Width, b.cfg.Height, true))
	}
}

// localTarget turns a listen address like ":5900" into a dialable one for
// the viewer's websocket proxy.
func localTarget(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "127.0.0.1" + addr
	}
	return addr
}
