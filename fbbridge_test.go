package fbbridge

import "testing"

func TestNewDefaults(t *testing.T) {
	b := New(Config{})

	if b.cfg.VNCAddr != ":5900" {
		t.Errorf("VNCAddr = %q, want :5900", b.cfg.VNCAddr)
	}
	if b.cfg.ViewerAddr != ":5800" {
		t.Errorf("ViewerAddr = %q, want :5800", b.cfg.ViewerAddr)
	}
	if b.cfg.MonitorAddr != "localhost:1234" {
		t.Errorf("MonitorAddr = %q, want localhost:1234", b.cfg.MonitorAddr)
	}
	if b.cfg.FrameRate != 2.0 {
		t.Errorf("FrameRate = %v, want 2.0", b.cfg.FrameRate)
	}
	if b.cfg.Width != 640 || b.cfg.Height != 480 {
		t.Errorf("dimensions = %dx%d, want 640x480", b.cfg.Width, b.cfg.Height)
	}
	if b.cfg.FramebufferAddr != 0x43E00000 {
		t.Errorf("FramebufferAddr = %#x, want 0x43E00000", b.cfg.FramebufferAddr)
	}
	if b.cfg.DisplayName != "Renode DrawEngine FB" {
		t.Errorf("DisplayName = %q, want default", b.cfg.DisplayName)
	}
	if b.Source() == nil {
		t.Error("Source() = nil, want configured source")
	}
	if b.Source().Size() != 640*480*4 {
		t.Errorf("Source().Size() = %d, want %d", b.Source().Size(), 640*480*4)
	}
}

func TestNewKeepsExplicitConfig(t *testing.T) {
	b := New(Config{
		VNCAddr:         ":6900",
		Width:           800,
		Height:          600,
		FramebufferAddr: 0x80000000,
	})

	if b.cfg.VNCAddr != ":6900" {
		t.Errorf("VNCAddr = %q, want :6900", b.cfg.VNCAddr)
	}
	if b.Source().Size() != 800*600*4 {
		t.Errorf("Source().Size() = %d, want %d", b.Source().Size(), 800*600*4)
	}
	if b.cfg.FramebufferAddr != 0x80000000 {
		t.Errorf("FramebufferAddr = %#x, want 0x80000000", b.cfg.FramebufferAddr)
	}
}

func TestLocalTarget(t *testing.T) {
	tests := []struct {
		addr     string
		expected string
	}{
		{":5900", "127.0.0.1:5900"},
		{"0.0.0.0:5900", "0.0.0.0:5900"},
		{"vnc.internal:5901", "vnc.internal:5901"},
	}

	for _, tt := range tests {
		if got := localTarget(tt.addr); got != tt.expected {
			t.Errorf("localTarget(%q) = %q, want %q", tt.addr, got, tt.expected)
		}
	}
}
