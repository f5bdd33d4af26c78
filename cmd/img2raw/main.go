package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"github.com/nfnt/resize"

	"github.com/simview/fbbridge/rfb"
)

const (
	fbWidth  = 640
	fbHeight = 480
)

func main() {
	var (
		maxWidth  = flag.Int("max-width", fbWidth, "Max width")
		maxHeight = flag.Int("max-height", fbHeight, "Max height")
		sepia     = flag.Bool("sepia", false, "Apply sepia tone filter")
		composeFB = flag.Bool("compose-fb", false, "Also output a pre-composited 640x480 framebuffer")
		help      = flag.Bool("help", false, "Show this help message")
	)
	flag.Parse()

	if *help || flag.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] input.png output\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "img2raw - convert an image to raw ARGB8888 binary plus a size header\n\n")
		fmt.Fprintf(os.Stderr, "Produces:\n")
		fmt.Fprintf(os.Stderr, "  <output>.bin   raw pixel data (ARGB8888, little-endian)\n")
		fmt.Fprintf(os.Stderr, "  <output>.hdr   8-byte header: uint32 width, uint32 height\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
		os.Exit(2)
	}
	input, outputBase := flag.Arg(0), flag.Arg(1)

	f, err := os.Open(input)
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		log.Fatalf("ERROR: decoding %s: %v", input, err)
	}

	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	if w > *maxWidth || h > *maxHeight {
		ratio := float64(*maxWidth) / float64(w)
		if r := float64(*maxHeight) / float64(h); r < ratio {
			ratio = r
		}
		w = int(float64(w) * ratio)
		h = int(float64(h) * ratio)
		img = resize.Resize(uint(w), uint(h), img, resize.Lanczos3)
		fmt.Printf("Resized to %dx%d\n", w, h)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)

	if *sepia {
		fmt.Println("Applying sepia tone...")
		applySepia(rgba)
	}

	hdrPath := outputBase + ".hdr"
	hdr := make([]byte, 8)
	binary.LittleEndian.PutUint32(hdr[0:], uint32(w))
	binary.LittleEndian.PutUint32(hdr[4:], uint32(h))
	if err := os.WriteFile(hdrPath, hdr, 0o644); err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	fmt.Printf("Header : %s  (%dx%d)\n", hdrPath, w, h)

	binPath := outputBase + ".bin"
	raw := rfb.RawARGB(rgba)
	if err := os.WriteFile(binPath, raw, 0o644); err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	fmt.Printf("Pixels : %s  (%d bytes, %.1f KiB)\n", binPath, len(raw), float64(len(raw))/1024)

	if *composeFB {
		fmt.Println("Composing full framebuffer...")
		fb := composeFramebuffer(rgba)
		fbPath := outputBase + "_fb.bin"
		if err := os.WriteFile(fbPath, fb, 0o644); err != nil {
			log.Fatalf("ERROR: %v", err)
		}
		fmt.Printf("FB     : %s  (%d bytes, %.1f KiB)\n", fbPath, len(fb), float64(len(fb))/1024)
	}
	fmt.Println("Done.")
}

// applySepia replaces each pixel with a warm grayscale tone in place.
func applySepia(img *image.RGBA) {
	for i := 0; i < len(img.Pix); i += 4 {
		r := float64(img.Pix[i])
		g := float64(img.Pix[i+1])
		b := float64(img.Pix[i+2])
		gray := 0.299*r + 0.587*g + 0.114*b
		img.Pix[i] = clip(gray + 40)
		img.Pix[i+1] = clip(gray + 16)
		img.Pix[i+2] = clip(gray)
	}
}

func clip(v float64) uint8 {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return uint8(v)
}

// composeFramebuffer centres the image on a dark 640x480 background with
// darkened corners, a 3px gold border and a 1px bronze inner accent, and
// returns the raw ARGB8888 bytes ready for direct loading.
func composeFramebuffer(img *image.RGBA) []byte {
	fb := image.NewRGBA(image.Rect(0, 0, fbWidth, fbHeight))
	bg := color.RGBA{0x1A, 0x1A, 0x2E, 0xFF}
	draw.Draw(fb, fb.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	bw := min(w, fbWidth)
	bh := min(h, fbHeight)
	dx := 0
	if w < fbWidth {
		dx = (fbWidth - w) / 2
	}
	dy := 0
	if h < fbHeight {
		dy = (fbHeight - h) / 2
	}
	draw.Draw(fb, image.Rect(dx, dy, dx+bw, dy+bh), img, img.Bounds().Min, draw.Src)

	// Vignette: darken 24x24 regions at the image corners.
	const cs = 24
	corners := [][2]int{
		{dy, dx},
		{dy, dx + bw - cs},
		{dy + bh - cs, dx},
		{dy + bh - cs, dx + bw - cs},
	}
	for _, c := range corners {
		darken(fb, c[1], c[0], cs, 0.38)
	}

	// Border: 3px warm gold, then a 1px dark bronze inner accent.
	gold := color.RGBA{0xC8, 0xA8, 0x7E, 0xFF}
	bronze := color.RGBA{0x80, 0x60, 0x30, 0xFF}
	const bp = 3
	fillRect(fb, 0, 0, fbWidth, bp, gold)
	fillRect(fb, 0, fbHeight-bp, fbWidth, bp, gold)
	fillRect(fb, 0, bp, bp, fbHeight-2*bp, gold)
	fillRect(fb, fbWidth-bp, bp, bp, fbHeight-2*bp, gold)
	fillRect(fb, bp, bp, fbWidth-2*bp, 1, bronze)
	fillRect(fb, bp, fbHeight-bp-1, fbWidth-2*bp, 1, bronze)
	fillRect(fb, bp, bp+1, 1, fbHeight-2*bp-2, bronze)
	fillRect(fb, fbWidth-bp-1, bp+1, 1, fbHeight-2*bp-2, bronze)

	return rfb.RawARGB(fb)
}

func darken(img *image.RGBA, x, y, size int, factor float64) {
	for yy := y; yy < y+size; yy++ {
		for xx := x; xx < x+size; xx++ {
			if !image.Pt(xx, yy).In(img.Bounds()) {
				continue
			}
			i := img.PixOffset(xx, yy)
			img.Pix[i] = uint8(float64(img.Pix[i]) * factor)
			img.Pix[i+1] = uint8(float64(img.Pix[i+1]) * factor)
			img.Pix[i+2] = uint8(float64(img.Pix[i+2]) * factor)
		}
	}
}

func fillRect(img *image.RGBA, x, y, w, h int, c color.RGBA) {
	draw.Draw(img, image.Rect(x, y, x+w, y+h), image.NewUniform(c), image.Point{}, draw.Src)
}
