package rfb

import (
	"encoding/binary"
	"image"
)

// RGBAImage converts a raw XRGB8888 little-endian framebuffer (byte order
// B,G,R,X in memory) to an image.RGBA. With opaque set the X byte is
// replaced by full alpha, which is what display paths want: simulator
// firmware routinely leaves it zero.
func RGBAImage(raw []byte, width, height int, opaque bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	n := width * height * 4
	if len(raw) < n {
		n = len(raw) &^ 3
	}
	for i := 0; i < n; i += 4 {
		// img.Pix is R,G,B,A
		img.Pix[i] = raw[i+2]
		img.Pix[i+1] = raw[i+1]
		img.Pix[i+2] = raw[i]
		if opaque {
			img.Pix[i+3] = 0xFF
		} else {
			img.Pix[i+3] = raw[i+3]
		}
	}
	return img
}

// RawARGB converts any image.Image to raw ARGB8888 little-endian bytes,
// the layout the simulated display controller scans out.
func RawARGB(img image.Image) []byte {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	raw := make([]byte, w*h*4)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			pixel := uint32(a>>8)<<24 | uint32(r>>8)<<16 | uint32(g>>8)<<8 | uint32(b>>8)
			binary.LittleEndian.PutUint32(raw[i:], pixel)
			i += 4
		}
	}
	return raw
}
