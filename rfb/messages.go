package rfb

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SendProtocolVersion sends the server's protocol version string.
func SendProtocolVersion(w io.Writer) error {
	_, err := w.Write([]byte(ProtocolVersion))
	return err
}

// ReadProtocolVersion reads the client's 12-byte version string.
func ReadProtocolVersion(r io.Reader) (string, error) {
	buf := make([]byte, ProtocolVersionLength)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// ParseMinorVersion extracts the minor protocol version from a version
// string such as "RFB 003.008\n". Unparseable input defaults to 8; real
// clients occasionally send garbage here and the connection still works,
// so the parse is deliberately permissive.
func ParseMinorVersion(version string) int {
	parts := strings.Fields(strings.TrimSpace(version))
	if len(parts) < 2 {
		return 8
	}
	dot := strings.SplitN(parts[1], ".", 2)
	if len(dot) < 2 {
		return 8
	}
	minor, err := strconv.Atoi(dot[1])
	if err != nil {
		return 8
	}
	return minor
}

// SendSecurityTypes sends the list of security types the server accepts.
func SendSecurityTypes(w io.Writer, types []uint8) error {
	msg := make([]byte, 1+len(types))
	msg[0] = uint8(len(types))
	copy(msg[1:], types)
	_, err := w.Write(msg)
	return err
}

// SendLegacySecurityType sends the server-chosen security type as a single
// 4-byte value. RFB 3.3 has no client choice step.
func SendLegacySecurityType(w io.Writer, secType uint8) error {
	_, err := w.Write([]byte{0, 0, 0, secType})
	return err
}

// ReadSecurityChoice reads the client's one-byte security type choice.
func ReadSecurityChoice(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// SendSecurityResult sends the 4-byte security handshake result.
func SendSecurityResult(w io.Writer, result uint32) error {
	_, err := w.Write([]byte{
		uint8(result >> 24), uint8(result >> 16),
		uint8(result >> 8), uint8(result),
	})
	return err
}

// SendSecurityFailure sends a failure result followed by a length-prefixed
// reason string, per the 3.8 handshake.
func SendSecurityFailure(w io.Writer, reason string) error {
	if err := SendSecurityResult(w, SecurityResultFailed); err != nil {
		return err
	}
	n := uint32(len(reason))
	msg := append([]byte{
		uint8(n >> 24), uint8(n >> 16), uint8(n >> 8), uint8(n),
	}, reason...)
	_, err := w.Write(msg)
	return err
}

// ReadClientInit reads and discards the one-byte shared flag.
func ReadClientInit(r io.Reader) error {
	var buf [1]byte
	_, err := io.ReadFull(r, buf[:])
	return err
}

// DiscardClientMessage consumes the body of a client message whose type
// byte has already been read. The exact byte counts matter: under-reading
// leaves trailing bytes that desynchronize every later message on the
// connection. An unknown type returns an error because its length cannot
// be known; the caller must close rather than guess.
func DiscardClientMessage(r io.Reader, msgType byte) error {
	switch msgType {
	case SetPixelFormat:
		return discard(r, 19)
	case SetEncodings:
		var hdr [3]byte // 1 pad + u16 encoding count
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return err
		}
		n := int64(hdr[1])<<8 | int64(hdr[2])
		return discard(r, n*4)
	case FramebufferUpdateRequest:
		return discard(r, 9)
	case KeyEvent:
		return discard(r, 7)
	case PointerEvent:
		return discard(r, 5)
	case ClientCutText:
		var hdr [7]byte // 3 pad + u32 text length
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return err
		}
		n := int64(hdr[3])<<24 | int64(hdr[4])<<16 | int64(hdr[5])<<8 | int64(hdr[6])
		if n > MaxCutTextLength {
			return fmt.Errorf("cut text length %d exceeds limit", n)
		}
		return discard(r, n)
	default:
		return fmt.Errorf("unknown client message type %d", msgType)
	}
}

func discard(r io.Reader, n int64) error {
	if n <= 0 {
		return nil
	}
	_, err := io.CopyN(io.Discard, r, n)
	return err
}
