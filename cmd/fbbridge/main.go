package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/simview/fbbridge"
	"github.com/simview/fbbridge/version"
	"github.com/simview/fbbridge/viewer"
)

func main() {
	var (
		port        = flag.Int("port", 5900, "VNC port to listen on")
		webPort     = flag.Int("web-port", 5800, "HTTP viewer port")
		monitorHost = flag.String("monitor-host", "localhost", "Simulator monitor host")
		monitorPort = flag.Int("monitor-port", 1234, "Simulator monitor port")
		fps         = flag.Float64("fps", 2.0, "Poll and update rate in frames per second")
		width       = flag.Int("width", 640, "Framebuffer width in pixels")
		height      = flag.Int("height", 480, "Framebuffer height in pixels")
		fbAddr      = flag.String("fb-addr", "0x43E00000", "Guest address of the framebuffer")
		uartLog     = flag.String("uart-log", "/tmp/uart_output_interactive.txt", "Path to the UART log file")
		name        = flag.String("name", "Renode DrawEngine FB", "RFB desktop name")
		gui         = flag.Bool("gui", false, "Show the framebuffer in a local window (requires GUI build)")
		showVersion = flag.Bool("version", false, "Print version and exit")
		help        = flag.Bool("help", false, "Show this help message")
	)
	flag.Parse()

	if *help {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "fbbridge - VNC + HTTP viewer for a simulated framebuffer\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -port 5900 -web-port 5800\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -monitor-host 10.0.0.5 -fps 5\n", os.Args[0])
		os.Exit(0)
	}
	if *showVersion {
		fmt.Println(version.Full())
		os.Exit(0)
	}

	addr, err := strconv.ParseUint(*fbAddr, 0, 64)
	if err != nil {
		log.Fatalf("Invalid -fb-addr %q: %v", *fbAddr, err)
	}

	cfg := fbbridge.Config{
		VNCAddr:         fmt.Sprintf(":%d", *port),
		ViewerAddr:      fmt.Sprintf(":%d", *webPort),
		MonitorAddr:     fmt.Sprintf("%s:%d", *monitorHost, *monitorPort),
		FrameRate:       *fps,
		Width:           *width,
		Height:          *height,
		FramebufferAddr: addr,
		UARTLogPath:     *uartLog,
		DisplayName:     *name,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Printf("Simulator FB bridge %s, %dx%d @ %.1f fps", version.Version(), *width, *height, *fps)

	run := func() {
		bridge := fbbridge.New(cfg)
		log.Printf("VNC:     vnc://0.0.0.0:%d", *port)
		log.Printf("Browser: http://0.0.0.0:%d", *webPort)
		if err := bridge.Serve(ctx); err != nil && ctx.Err() == nil {
			log.Fatalf("Bridge error: %v", err)
		}
		log.Println("Shut down.")
	}

	if *gui {
		title := fmt.Sprintf("Framebuffer - %s", cfg.MonitorAddr)
		viewer.RunWindow(title, *width, *height, func(win *viewer.FramebufferWindow) {
			cfg.OnFrame = win.UpdateFramebuffer
			run()
		})
	} else {
		run()
	}
}
