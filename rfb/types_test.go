package rfb

import (
	"bytes"
	"testing"
)

func TestDefaultPixelFormat(t *testing.T) {
	pf := DefaultPixelFormat()

	if pf.BitsPerPixel != 32 {
		t.Errorf("BitsPerPixel = %d, want 32", pf.BitsPerPixel)
	}
	if pf.Depth != 24 {
		t.Errorf("Depth = %d, want 24", pf.Depth)
	}
	if pf.BigEndianFlag != 0 {
		t.Errorf("BigEndianFlag = %d, want 0", pf.BigEndianFlag)
	}
	if pf.TrueColorFlag != 1 {
		t.Errorf("TrueColorFlag = %d, want 1", pf.TrueColorFlag)
	}
	if pf.RedMax != 255 || pf.GreenMax != 255 || pf.BlueMax != 255 {
		t.Errorf("color maximums = %d/%d/%d, want 255/255/255", pf.RedMax, pf.GreenMax, pf.BlueMax)
	}
	if pf.RedShift != 16 || pf.GreenShift != 8 || pf.BlueShift != 0 {
		t.Errorf("shifts = %d/%d/%d, want 16/8/0", pf.RedShift, pf.GreenShift, pf.BlueShift)
	}
}

func TestPixelFormatEncode(t *testing.T) {
	b := DefaultPixelFormat().Encode()

	expected := []byte{
		32, 24, 0, 1, // bpp, depth, big-endian, true-colour
		0, 255, 0, 255, 0, 255, // red/green/blue max, big-endian
		16, 8, 0, // red/green/blue shift
		0, 0, 0, // padding
	}
	if !bytes.Equal(b, expected) {
		t.Errorf("Encode() = %v, want %v", b, expected)
	}
}

func TestPixelFormatRoundTrip(t *testing.T) {
	pf := PixelFormat{
		BitsPerPixel:  16,
		Depth:         16,
		BigEndianFlag: 1,
		TrueColorFlag: 1,
		RedMax:        31,
		GreenMax:      63,
		BlueMax:       31,
		RedShift:      11,
		GreenShift:    5,
		BlueShift:     0,
	}

	decoded := DecodePixelFormat(pf.Encode())
	if decoded != pf {
		t.Errorf("DecodePixelFormat(Encode()) = %+v, want %+v", decoded, pf)
	}
}

func TestServerInitEncode(t *testing.T) {
	si := ServerInit{
		Width:       640,
		Height:      480,
		PixelFormat: DefaultPixelFormat(),
		Name:        "Test",
	}

	b := si.Encode()

	if len(b) != 24+len(si.Name) {
		t.Fatalf("len = %d, want %d", len(b), 24+len(si.Name))
	}
	if w := uint16(b[0])<<8 | uint16(b[1]); w != 640 {
		t.Errorf("width = %d, want 640", w)
	}
	if h := uint16(b[2])<<8 | uint16(b[3]); h != 480 {
		t.Errorf("height = %d, want 480", h)
	}
	if !bytes.Equal(b[4:20], si.PixelFormat.Encode()) {
		t.Errorf("pixel format bytes = %v, want %v", b[4:20], si.PixelFormat.Encode())
	}
	nameLen := uint32(b[20])<<24 | uint32(b[21])<<16 | uint32(b[22])<<8 | uint32(b[23])
	if nameLen != uint32(len(si.Name)) {
		t.Errorf("name length = %d, want %d", nameLen, len(si.Name))
	}
	if string(b[24:]) != si.Name {
		t.Errorf("name = %q, want %q", string(b[24:]), si.Name)
	}
}

func TestRectangleEncode(t *testing.T) {
	tests := []struct {
		name string
		rect Rectangle
	}{
		{"full frame raw", Rectangle{X: 0, Y: 0, Width: 640, Height: 480, Encoding: RawEncoding}},
		{"offset rect", Rectangle{X: 10, Y: 20, Width: 300, Height: 200, Encoding: RawEncoding}},
		{"negative encoding", Rectangle{X: 0, Y: 0, Width: 1, Height: 1, Encoding: -239}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.rect.Encode()
			if len(b) != 12 {
				t.Fatalf("len = %d, want 12", len(b))
			}
			decoded := DecodeRectangle(b)
			if decoded != tt.rect {
				t.Errorf("DecodeRectangle(Encode()) = %+v, want %+v", decoded, tt.rect)
			}
		})
	}
}

func TestUpdateHeader(t *testing.T) {
	b := UpdateHeader(1)
	expected := []byte{FramebufferUpdate, 0, 0, 1}
	if !bytes.Equal(b, expected) {
		t.Errorf("UpdateHeader(1) = %v, want %v", b, expected)
	}

	b = UpdateHeader(300)
	expected = []byte{FramebufferUpdate, 0, 1, 44}
	if !bytes.Equal(b, expected) {
		t.Errorf("UpdateHeader(300) = %v, want %v", b, expected)
	}
}
