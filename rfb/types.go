package rfb

// PixelFormat represents the RFB pixel format structure
type PixelFormat struct {
	BitsPerPixel  uint8
	Depth         uint8
	BigEndianFlag uint8
	TrueColorFlag uint8
	RedMax        uint16
	GreenMax      uint16
	BlueMax       uint16
	RedShift      uint8
	GreenShift    uint8
	BlueShift     uint8
	Padding       [3]uint8
}

// Encode returns the 16-byte wire representation of the pixel format.
// Multi-byte fields are big-endian per the protocol.
func (pf PixelFormat) Encode() []byte {
	b := make([]byte, 16)
	b[0] = pf.BitsPerPixel
	b[1] = pf.Depth
	b[2] = pf.BigEndianFlag
	b[3] = pf.TrueColorFlag
	b[4] = uint8(pf.RedMax >> 8)
	b[5] = uint8(pf.RedMax & 0xFF)
	b[6] = uint8(pf.GreenMax >> 8)
	b[7] = uint8(pf.GreenMax & 0xFF)
	b[8] = uint8(pf.BlueMax >> 8)
	b[9] = uint8(pf.BlueMax & 0xFF)
	b[10] = pf.RedShift
	b[11] = pf.GreenShift
	b[12] = pf.BlueShift
	b[13] = pf.Padding[0]
	b[14] = pf.Padding[1]
	b[15] = pf.Padding[2]
	return b
}

// DecodePixelFormat parses a 16-byte wire pixel format.
func DecodePixelFormat(b []byte) PixelFormat {
	return PixelFormat{
		BitsPerPixel:  b[0],
		Depth:         b[1],
		BigEndianFlag: b[2],
		TrueColorFlag: b[3],
		RedMax:        uint16(b[4])<<8 | uint16(b[5]),
		GreenMax:      uint16(b[6])<<8 | uint16(b[7]),
		BlueMax:       uint16(b[8])<<8 | uint16(b[9]),
		RedShift:      b[10],
		GreenShift:    b[11],
		BlueShift:     b[12],
		Padding:       [3]uint8{b[13], b[14], b[15]},
	}
}

// ServerInit represents the server initialization message
type ServerInit struct {
	Width       uint16
	Height      uint16
	PixelFormat PixelFormat
	Name        string
}

// Encode returns the wire representation of the ServerInit message:
// width, height, pixel format, then the length-prefixed display name.
func (si ServerInit) Encode() []byte {
	b := make([]byte, 0, 24+len(si.Name))
	b = append(b,
		uint8(si.Width>>8), uint8(si.Width&0xFF),
		uint8(si.Height>>8), uint8(si.Height&0xFF))
	b = append(b, si.PixelFormat.Encode()...)
	nameLen := uint32(len(si.Name))
	b = append(b,
		uint8(nameLen>>24), uint8(nameLen>>16),
		uint8(nameLen>>8), uint8(nameLen&0xFF))
	b = append(b, si.Name...)
	return b
}

// Rectangle is an update rectangle header: position, size and the
// encoding of the pixel data that follows it.
type Rectangle struct {
	X        uint16
	Y        uint16
	Width    uint16
	Height   uint16
	Encoding int32
}

// Encode returns the 12-byte wire representation of the rectangle header.
func (r Rectangle) Encode() []byte {
	enc := uint32(r.Encoding)
	return []byte{
		uint8(r.X >> 8), uint8(r.X & 0xFF),
		uint8(r.Y >> 8), uint8(r.Y & 0xFF),
		uint8(r.Width >> 8), uint8(r.Width & 0xFF),
		uint8(r.Height >> 8), uint8(r.Height & 0xFF),
		uint8(enc >> 24), uint8(enc >> 16), uint8(enc >> 8), uint8(enc & 0xFF),
	}
}

// DecodeRectangle parses a 12-byte rectangle header.
func DecodeRectangle(b []byte) Rectangle {
	return Rectangle{
		X:      uint16(b[0])<<8 | uint16(b[1]),
		Y:      uint16(b[2])<<8 | uint16(b[3]),
		Width:  uint16(b[4])<<8 | uint16(b[5]),
		Height: uint16(b[6])<<8 | uint16(b[7]),
		Encoding: int32(uint32(b[8])<<24 | uint32(b[9])<<16 |
			uint32(b[10])<<8 | uint32(b[11])),
	}
}

// UpdateHeader returns the FramebufferUpdate message header declaring
// numRects rectangles.
func UpdateHeader(numRects uint16) []byte {
	return []byte{FramebufferUpdate, 0, uint8(numRects >> 8), uint8(numRects & 0xFF)}
}

// DefaultPixelFormat returns the 32bpp XRGB8888 true-colour format the
// bridge serves: little-endian, 24-bit depth, byte order B,G,R,X in memory.
func DefaultPixelFormat() PixelFormat {
	return PixelFormat{
		BitsPerPixel:  32,
		Depth:         24,
		BigEndianFlag: 0, // little-endian
		TrueColorFlag: 1,
		RedMax:        255,
		GreenMax:      255,
		BlueMax:       255,
		RedShift:      16,
		GreenShift:    8,
		BlueShift:     0,
	}
}
