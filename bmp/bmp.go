// Package bmp builds minimal uncompressed 24-bit BMP images from raw
// XRGB8888 framebuffer memory. The header declares a negative height so
// rows are stored top-down, matching framebuffer scanout order.
package bmp

import (
	"encoding/binary"
	"fmt"
)

const HeaderSize = 54

// RowSize returns the padded byte length of one 24bpp row. BMP rows are
// aligned to 4 bytes.
func RowSize(width int) int {
	return (width*3 + 3) &^ 3
}

// Encode packs a BGRX (XRGB8888 little-endian) buffer into a 24bpp BMP,
// dropping the pad/alpha byte of every pixel. The buffer must hold at
// least width*height*4 bytes.
func Encode(width, height int, bgrx []byte) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	if len(bgrx) < width*height*4 {
		return nil, fmt.Errorf("buffer is %d bytes, need %d", len(bgrx), width*height*4)
	}

	rowSize := RowSize(width)
	pixelSize := rowSize * height
	fileSize := HeaderSize + pixelSize

	out := make([]byte, fileSize)
	out[0] = 'B'
	out[1] = 'M'
	binary.LittleEndian.PutUint32(out[2:], uint32(fileSize))
	binary.LittleEndian.PutUint32(out[10:], HeaderSize)
	binary.LittleEndian.PutUint32(out[14:], 40) // BITMAPINFOHEADER
	binary.LittleEndian.PutUint32(out[18:], uint32(width))
	binary.LittleEndian.PutUint32(out[22:], uint32(int32(-height))) // top-down
	binary.LittleEndian.PutUint16(out[26:], 1)                      // planes
	binary.LittleEndian.PutUint16(out[28:], 24)                     // bpp
	binary.LittleEndian.PutUint32(out[34:], uint32(pixelSize))

	for y := 0; y < height; y++ {
		src := y * width * 4
		dst := HeaderSize + y*rowSize
		for x := 0; x < width; x++ {
			out[dst] = bgrx[src]
			out[dst+1] = bgrx[src+1]
			out[dst+2] = bgrx[src+2]
			src += 4
			dst += 3
		}
		// remainder of the row is already zero padding
	}

	return out, nil
}

// ParseHeader reads the dimensions back out of a BMP produced by Encode.
// Height is returned as stored: negative means top-down row order.
func ParseHeader(data []byte) (width, height int, err error) {
	if len(data) < HeaderSize {
		return 0, 0, fmt.Errorf("data is %d bytes, shorter than a BMP header", len(data))
	}
	if data[0] != 'B' || data[1] != 'M' {
		return 0, 0, fmt.Errorf("missing BM magic")
	}
	width = int(int32(binary.LittleEndian.Uint32(data[18:])))
	height = int(int32(binary.LittleEndian.Uint32(data[22:])))
	return width, height, nil
}
