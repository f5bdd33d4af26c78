package rfb

const (
	ProtocolVersion       = "RFB 003.008\n"
	ProtocolVersionLength = 12

	// Client-to-server message types
	SetPixelFormat           = 0
	SetEncodings             = 2
	FramebufferUpdateRequest = 3
	KeyEvent                 = 4
	PointerEvent             = 5
	ClientCutText            = 6

	// Server-to-client message types
	FramebufferUpdate  = 0
	SetColorMapEntries = 1
	Bell               = 2
	ServerCutText      = 3

	// Encoding types
	RawEncoding = 0

	// Security types
	SecurityNone = 1

	// Security handshake results
	SecurityResultOK     = 0
	SecurityResultFailed = 1

	// Upper bound on a ClientCutText payload. Anything larger is treated
	// as a desynchronized stream rather than a legitimate clipboard paste.
	MaxCutTextLength = 10_000_000
)
