// Package source owns the latest framebuffer snapshot pulled from the
// simulator. A single poller goroutine replaces the snapshot; any number of
// readers take copies. Change detection is by content fingerprint so a slow
// monitor round trip is only followed by network writes when pixels moved.
package source

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/zeebo/blake3"

	"github.com/simview/fbbridge/bmp"
)

// Logger is the minimal logging interface the source needs.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Channel is the debug-monitor surface the source polls through. It is
// satisfied by *monitor.Client.
type Channel interface {
	Connected() bool
	ReadMemory(addr uint64, n int) ([]byte, error)
	WriteLine(text string) error
}

// Fingerprint is a BLAKE3-256 digest of snapshot bytes. It is used only
// for cheap change comparison, never as a security boundary.
type Fingerprint = [32]byte

// Config describes the memory region being mirrored.
type Config struct {
	Width           int
	Height          int
	FramebufferAddr uint64
	UARTLogPath     string

	// Diagnostics, when set, runs every DiagnosticInterval-th poll.
	// Failures are logged and never affect the poll result.
	Diagnostics        func() error
	DiagnosticInterval int

	Logger Logger
}

// Source holds the only mutable copy of the pixel buffer.
type Source struct {
	ch  Channel
	cfg Config

	mu          sync.Mutex
	snapshot    []byte
	fingerprint Fingerprint

	polls    int
	failures int
	updates  int
}

// New creates a source over the given channel. The snapshot starts as an
// all-zero buffer of the full frame size.
func New(ch Channel, cfg Config) *Source {
	if cfg.DiagnosticInterval == 0 {
		cfg.DiagnosticInterval = 5
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Source{
		ch:       ch,
		cfg:      cfg,
		snapshot: make([]byte, cfg.Width*cfg.Height*4),
	}
}

// Size returns the frame byte length, width*height*4.
func (s *Source) Size() int {
	return s.cfg.Width * s.cfg.Height * 4
}

// Poll performs one remote read of the framebuffer region and reports
// whether the stored snapshot changed. Channel hiccups, short dumps and
// error replies all degrade to "no change"; only the first few failures
// are logged to keep a flapping monitor from flooding the log.
func (s *Source) Poll() bool {
	if !s.ch.Connected() {
		return false
	}

	s.polls++
	if s.cfg.Diagnostics != nil && s.polls%s.cfg.DiagnosticInterval == 0 {
		if err := s.cfg.Diagnostics(); err != nil {
			s.cfg.Logger.Printf("Diagnostic read error: %v", err)
		}
	}

	data, err := s.ch.ReadMemory(s.cfg.FramebufferAddr, s.Size())
	if err == nil && len(data) != s.Size() {
		err = fmt.Errorf("dump is %d bytes, expected %d", len(data), s.Size())
	}
	if err != nil {
		s.failures++
		if s.failures <= 3 {
			s.cfg.Logger.Printf("Framebuffer read error: %v", err)
		}
		return false
	}

	sum := blake3.Sum256(data)

	s.mu.Lock()
	defer s.mu.Unlock()
	if sum == s.fingerprint {
		return false
	}
	s.snapshot = data
	s.fingerprint = sum
	s.updates++
	if s.updates <= 3 || s.updates%50 == 0 {
		s.cfg.Logger.Printf("Framebuffer updated (#%d)", s.updates)
	}
	return true
}

// Snapshot returns a copy of the current buffer. Safe to call while a
// poll is in flight; the copy never tears.
func (s *Source) Snapshot() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

// Fingerprint returns the digest of the current snapshot.
func (s *Source) Fingerprint() Fingerprint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fingerprint
}

// Frame returns a consistent snapshot copy together with its fingerprint.
func (s *Source) Frame() ([]byte, Fingerprint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, len(s.snapshot))
	copy(out, s.snapshot)
	return out, s.fingerprint
}

// CurrentBitmap renders the current snapshot as a 24bpp BMP.
func (s *Source) CurrentBitmap() ([]byte, error) {
	return bmp.Encode(s.cfg.Width, s.cfg.Height, s.Snapshot())
}

// TailLog returns the last maxLines lines of the UART log file.
func (s *Source) TailLog(maxLines int) string {
	data, err := os.ReadFile(s.cfg.UARTLogPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "(UART log not found: " + s.cfg.UARTLogPath + ")\n"
		}
		return "(UART log read error: " + err.Error() + ")\n"
	}
	lines := strings.SplitAfter(string(data), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return strings.Join(lines, "")
}

// InjectConsoleText types a line of text into the simulated console.
// Best effort: a failure is logged and reported, never raised.
func (s *Source) InjectConsoleText(text string) bool {
	if err := s.ch.WriteLine(text); err != nil {
		s.cfg.Logger.Printf("UART send error: %v", err)
		return false
	}
	s.cfg.Logger.Printf("UART TX: %s", strings.TrimSpace(text))
	return true
}
