package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"

	"github.com/simview/fbbridge/rfb"
)

func main() {
	var (
		width  = flag.Int("width", 0, "Framebuffer width in pixels (required)")
		height = flag.Int("height", 0, "Framebuffer height in pixels (required)")
		help   = flag.Bool("help", false, "Show this help message")
	)
	flag.Parse()

	if *help || flag.NArg() != 2 || *width <= 0 || *height <= 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s -width W -height H input.raw output.png\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "raw2png - convert a raw ARGB8888 framebuffer dump to PNG\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
		os.Exit(2)
	}
	input, output := flag.Arg(0), flag.Arg(1)

	raw, err := os.ReadFile(input)
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}

	expected := *width * *height * 4
	if len(raw) < expected {
		fmt.Fprintf(os.Stderr, "WARNING: file is %d bytes, expected %d\n", len(raw), expected)
		raw = append(raw, make([]byte, expected-len(raw))...)
	}

	img := rfb.RGBAImage(raw[:expected], *width, *height, false)

	out, err := os.Create(output)
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	defer out.Close()
	if err := png.Encode(out, img); err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	fmt.Printf("Saved: %s  (%dx%d)\n", output, *width, *height)
}
