package rfb

import "testing"

func TestConstants(t *testing.T) {
	// Protocol version string
	expected := "RFB 003.008\n"
	if ProtocolVersion != expected {
		t.Errorf("ProtocolVersion = %q, want %q", ProtocolVersion, expected)
	}
	if len(ProtocolVersion) != ProtocolVersionLength {
		t.Errorf("len(ProtocolVersion) = %d, want %d", len(ProtocolVersion), ProtocolVersionLength)
	}

	// Client-to-server message types per RFC 6143
	tests := []struct {
		name     string
		constant uint8
		expected uint8
	}{
		{"SetPixelFormat", SetPixelFormat, 0},
		{"SetEncodings", SetEncodings, 2},
		{"FramebufferUpdateRequest", FramebufferUpdateRequest, 3},
		{"KeyEvent", KeyEvent, 4},
		{"PointerEvent", PointerEvent, 5},
		{"ClientCutText", ClientCutText, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.constant != tt.expected {
				t.Errorf("%s = %d, want %d", tt.name, tt.constant, tt.expected)
			}
		})
	}

	// Server-to-client message types per RFC 6143
	serverTests := []struct {
		name     string
		constant uint8
		expected uint8
	}{
		{"FramebufferUpdate", FramebufferUpdate, 0},
		{"SetColorMapEntries", SetColorMapEntries, 1},
		{"Bell", Bell, 2},
		{"ServerCutText", ServerCutText, 3},
	}

	for _, tt := range serverTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.constant != tt.expected {
				t.Errorf("%s = %d, want %d", tt.name, tt.constant, tt.expected)
			}
		})
	}

	if RawEncoding != 0 {
		t.Errorf("RawEncoding = %d, want 0", RawEncoding)
	}
	if SecurityNone != 1 {
		t.Errorf("SecurityNone = %d, want 1", SecurityNone)
	}
	if SecurityResultOK != 0 {
		t.Errorf("SecurityResultOK = %d, want 0", SecurityResultOK)
	}
	if SecurityResultFailed != 1 {
		t.Errorf("SecurityResultFailed = %d, want 1", SecurityResultFailed)
	}
}
