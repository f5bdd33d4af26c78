package bmp

import (
	"encoding/binary"
	"testing"
)

func TestRowSize(t *testing.T) {
	tests := []struct {
		width    int
		expected int
	}{
		{1, 4},
		{2, 8},
		{3, 12},
		{4, 12},
		{5, 16},
		{640, 1920},
	}

	for _, tt := range tests {
		if got := RowSize(tt.width); got != tt.expected {
			t.Errorf("RowSize(%d) = %d, want %d", tt.width, got, tt.expected)
		}
	}
}

func TestEncodeSize(t *testing.T) {
	for _, dim := range []struct{ w, h int }{
		{1, 1}, {2, 3}, {3, 3}, {5, 2}, {7, 7}, {640, 480},
	} {
		bgrx := make([]byte, dim.w*dim.h*4)
		out, err := Encode(dim.w, dim.h, bgrx)
		if err != nil {
			t.Fatalf("Encode(%d, %d) error = %v", dim.w, dim.h, err)
		}
		want := HeaderSize + dim.h*RowSize(dim.w)
		if len(out) != want {
			t.Errorf("Encode(%d, %d) length = %d, want %d", dim.w, dim.h, len(out), want)
		}
	}
}

func TestEncodeHeader(t *testing.T) {
	bgrx := make([]byte, 640*480*4)
	out, err := Encode(640, 480, bgrx)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	if out[0] != 'B' || out[1] != 'M' {
		t.Errorf("magic = %q%q, want BM", out[0], out[1])
	}
	if got := binary.LittleEndian.Uint32(out[2:]); got != uint32(len(out)) {
		t.Errorf("file size field = %d, want %d", got, len(out))
	}
	if got := binary.LittleEndian.Uint32(out[10:]); got != HeaderSize {
		t.Errorf("pixel data offset = %d, want %d", got, HeaderSize)
	}
	if got := binary.LittleEndian.Uint16(out[28:]); got != 24 {
		t.Errorf("bpp = %d, want 24", got)
	}

	w, h, err := ParseHeader(out)
	if err != nil {
		t.Fatalf("ParseHeader() error = %v", err)
	}
	if w != 640 {
		t.Errorf("width = %d, want 640", w)
	}
	if h != -480 {
		t.Errorf("height = %d, want -480 (top-down)", h)
	}
}

func TestEncodePixelOrder(t *testing.T) {
	// 2x1 frame: first pixel B,G,R,X = 10,20,30,40; second = 50,60,70,80.
	bgrx := []byte{10, 20, 30, 40, 50, 60, 70, 80}
	out, err := Encode(2, 1, bgrx)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	pix := out[HeaderSize:]
	expected := []byte{10, 20, 30, 50, 60, 70, 0, 0}
	for i, b := range expected {
		if pix[i] != b {
			t.Errorf("pixel data[%d] = %d, want %d", i, pix[i], b)
		}
	}
}

func TestEncodeRowPadding(t *testing.T) {
	// 3px wide rows are 9 data bytes padded to 12; pad bytes stay zero.
	bgrx := make([]byte, 3*2*4)
	for i := range bgrx {
		bgrx[i] = 0xEE
	}
	out, err := Encode(3, 2, bgrx)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	for row := 0; row < 2; row++ {
		base := HeaderSize + row*RowSize(3)
		for i := 9; i < 12; i++ {
			if out[base+i] != 0 {
				t.Errorf("row %d pad byte %d = %d, want 0", row, i, out[base+i])
			}
		}
	}
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
		buflen int
	}{
		{"zero width", 0, 10, 0},
		{"zero height", 10, 0, 0},
		{"negative width", -1, 10, 40},
		{"short buffer", 4, 4, 4*4*4 - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Encode(tt.width, tt.height, make([]byte, tt.buflen)); err == nil {
				t.Error("Expected error but got none")
			}
		})
	}
}

func TestParseHeaderErrors(t *testing.T) {
	if _, _, err := ParseHeader(make([]byte, 10)); err == nil {
		t.Error("Expected error for short data, but got none")
	}

	bad := make([]byte, HeaderSize)
	bad[0] = 'X'
	if _, _, err := ParseHeader(bad); err == nil {
		t.Error("Expected error for missing magic, but got none")
	}
}
