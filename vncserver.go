package fbbridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"time"

	"github.com/simview/fbbridge/rfb"
)

const (
	handshakeTimeout   = 60 * time.Second
	messagePollTimeout = 50 * time.Millisecond
	messageBodyTimeout = 5 * time.Second
	frameWriteTimeout  = 30 * time.Second

	bindAttempts = 10
	bindDelay    = 2 * time.Second
)

// FrameSource supplies consistent snapshot/fingerprint pairs to connection
// loops. *source.Source satisfies it.
type FrameSource interface {
	Frame() ([]byte, [32]byte)
}

// VNCConfig holds the configuration for the RFB server.
type VNCConfig struct {
	Addr        string
	Width       int
	Height      int
	FrameRate   float64
	DisplayName string
	Source      FrameSource
	Logger      Logger
}

// VNCServer serves the framebuffer over the RFB protocol. Each accepted
// connection gets its own goroutine and its own last-sent fingerprint, so
// a late-joining client always receives a full frame immediately no matter
// what other connections have been sent.
type VNCServer struct {
	cfg    VNCConfig
	logger Logger
}

// NewVNCServer creates an RFB server.
func NewVNCServer(cfg VNCConfig) *VNCServer {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &VNCServer{cfg: cfg, logger: cfg.Logger}
}

// Serve binds the listener (with bounded retry for a transiently busy
// port) and accepts connections until the context is cancelled. Failures
// inside one connection never disturb the accept loop.
func (s *VNCServer) Serve(ctx context.Context) error {
	ln, err := s.listen(ctx)
	if err != nil {
		return err
	}
	defer ln.Close()
	s.logger.Printf("VNC server on %s", s.cfg.Addr)

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Printf("Accept failed: %v", err)
			continue
		}
		s.logger.Printf("VNC client from %s", conn.RemoteAddr())
		go s.handle(ctx, conn)
	}
}

func (s *VNCServer) listen(ctx context.Context) (net.Listener, error) {
	var lastErr error
	for attempt := 0; attempt < bindAttempts; attempt++ {
		if attempt > 0 {
			s.logger.Printf("Port %s busy (%d/%d)...", s.cfg.Addr, attempt, bindAttempts)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(bindDelay):
			}
		}
		ln, err := net.Listen("tcp", s.cfg.Addr)
		if err == nil {
			return ln, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("bind %s: %w", s.cfg.Addr, lastErr)
}

func (s *VNCServer) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	addr := conn.RemoteAddr().String()

	if tc, ok := conn.(*net.TCPConn); ok {
		tc.SetNoDelay(true)
	}

	conn.SetDeadline(time.Now().Add(handshakeTimeout))
	if err := s.handshake(conn); err != nil {
		s.logger.Printf("[%s] handshake failed: %v", addr, err)
		return
	}
	conn.SetDeadline(time.Time{})
	s.logger.Printf("[%s] handshake OK (%dx%d)", addr, s.cfg.Width, s.cfg.Height)

	if err := s.serve(ctx, conn); err != nil {
		s.logger.Printf("[%s] closed: %v", addr, err)
	} else {
		s.logger.Printf("[%s] closed", addr)
	}
}

// handshake drives version exchange, security negotiation, client init and
// server init. Supports 3.3, 3.7, 3.8 and Apple's 3.889 dialect.
func (s *VNCServer) handshake(conn net.Conn) error {
	if err := rfb.SendProtocolVersion(conn); err != nil {
		return err
	}
	version, err := rfb.ReadProtocolVersion(conn)
	if err != nil {
		return err
	}
	minor := rfb.ParseMinorVersion(version)

	if minor < 7 {
		// RFB 3.3: the server picks the security type unilaterally.
		if err := rfb.SendLegacySecurityType(conn, rfb.SecurityNone); err != nil {
			return err
		}
	} else {
		if err := rfb.SendSecurityTypes(conn, []uint8{rfb.SecurityNone}); err != nil {
			return err
		}
		choice, err := rfb.ReadSecurityChoice(conn)
		if err != nil {
			return err
		}
		if choice != rfb.SecurityNone {
			rfb.SendSecurityFailure(conn, "Only None auth supported")
			return fmt.Errorf("unsupported security type %d", choice)
		}
		if minor >= 8 {
			if err := rfb.SendSecurityResult(conn, rfb.SecurityResultOK); err != nil {
				return err
			}
		}
	}

	if err := rfb.ReadClientInit(conn); err != nil {
		return err
	}

	init := rfb.ServerInit{
		Width:       uint16(s.cfg.Width),
		Height:      uint16(s.cfg.Height),
		PixelFormat: rfb.DefaultPixelFormat(),
		Name:        s.cfg.DisplayName,
	}
	_, err = conn.Write(init.Encode())
	return err
}

// serve runs the update/consume loop. Each iteration makes one short read
// attempt for an inbound client message, then sends a full-frame update if
// the source fingerprint moved past what this connection last saw.
func (s *VNCServer) serve(ctx context.Context, conn net.Conn) error {
	interval := time.Duration(float64(time.Second) / s.cfg.FrameRate)
	var last [32]byte
	hasLast := false
	var typeByte [1]byte

	for ctx.Err() == nil {
		conn.SetReadDeadline(time.Now().Add(messagePollTimeout))
		_, err := conn.Read(typeByte[:])
		switch {
		case err == nil:
			conn.SetReadDeadline(time.Now().Add(messageBodyTimeout))
			if err := rfb.DiscardClientMessage(conn, typeByte[0]); err != nil {
				return fmt.Errorf("client message: %w", err)
			}
		case errors.Is(err, io.EOF):
			return nil
		default:
			var ne net.Error
			if !errors.As(err, &ne) || !ne.Timeout() {
				return err
			}
		}

		frame, fp := s.cfg.Source.Frame()
		if !hasLast || fp != last {
			msg := make([]byte, 0, 16+len(frame))
			msg = append(msg, rfb.UpdateHeader(1)...)
			msg = append(msg, rfb.Rectangle{
				Width:    uint16(s.cfg.Width),
				Height:   uint16(s.cfg.Height),
				Encoding: rfb.RawEncoding,
			}.Encode()...)
			msg = append(msg, frame...)

			conn.SetWriteDeadline(time.Now().Add(frameWriteTimeout))
			if _, err := conn.Write(msg); err != nil {
				return err
			}
			conn.SetWriteDeadline(time.Time{})
			last, hasLast = fp, true
		}

		time.Sleep(interval)
	}
	return nil
}
