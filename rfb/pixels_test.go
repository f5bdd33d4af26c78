package rfb

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func TestRGBAImage(t *testing.T) {
	// One pixel, memory order B,G,R,X.
	raw := []byte{0x10, 0x20, 0x30, 0x00}

	img := RGBAImage(raw, 1, 1, true)
	if got := img.RGBAAt(0, 0); got != (color.RGBA{R: 0x30, G: 0x20, B: 0x10, A: 0xFF}) {
		t.Errorf("opaque pixel = %+v, want {30 20 10 FF}", got)
	}

	img = RGBAImage(raw, 1, 1, false)
	if got := img.RGBAAt(0, 0); got != (color.RGBA{R: 0x30, G: 0x20, B: 0x10, A: 0x00}) {
		t.Errorf("non-opaque pixel = %+v, want {30 20 10 00}", got)
	}
}

func TestRGBAImageShortBuffer(t *testing.T) {
	// 2x2 frame but only one pixel of data: the rest stays zero, no panic.
	raw := []byte{0xAA, 0xBB, 0xCC, 0xFF}
	img := RGBAImage(raw, 2, 2, true)

	if got := img.RGBAAt(0, 0); got != (color.RGBA{R: 0xCC, G: 0xBB, B: 0xAA, A: 0xFF}) {
		t.Errorf("pixel (0,0) = %+v, want {CC BB AA FF}", got)
	}
	if got := img.RGBAAt(1, 1); got != (color.RGBA{}) {
		t.Errorf("pixel (1,1) = %+v, want zero", got)
	}
}

func TestRawARGB(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 0x30, G: 0x20, B: 0x10, A: 0xFF})
	img.SetRGBA(1, 0, color.RGBA{R: 0xFF, G: 0x00, B: 0x00, A: 0xFF})

	raw := RawARGB(img)
	expected := []byte{
		0x10, 0x20, 0x30, 0xFF, // B,G,R,A little-endian
		0x00, 0x00, 0xFF, 0xFF,
	}
	if !bytes.Equal(raw, expected) {
		t.Errorf("RawARGB() = %v, want %v", raw, expected)
	}
}

func TestPixelRoundTrip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	colors := []color.RGBA{
		{0x11, 0x22, 0x33, 0xFF},
		{0xFF, 0x00, 0x00, 0xFF},
		{0x00, 0xFF, 0x00, 0xFF},
		{0x00, 0x00, 0xFF, 0xFF},
		{0x80, 0x80, 0x80, 0xFF},
		{0xFF, 0xFF, 0xFF, 0xFF},
	}
	for i, c := range colors {
		img.SetRGBA(i%3, i/3, c)
	}

	back := RGBAImage(RawARGB(img), 3, 2, false)
	if !bytes.Equal(back.Pix, img.Pix) {
		t.Errorf("round trip changed pixels: got %v, want %v", back.Pix, img.Pix)
	}
}
