// Package viewer serves the framebuffer to browsers: a canvas page that
// polls BMP frames, a UART log tail with ANSI colouring, a console
// injection endpoint, and a websocket proxy for browser VNC clients.
package viewer

import (
	"context"
	_ "embed"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"
)

//go:embed index.html
var indexHTML []byte

// Logger is the minimal logging interface the viewer needs.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Framebuffer is the snapshot surface the viewer consumes. *source.Source
// satisfies it.
type Framebuffer interface {
	CurrentBitmap() ([]byte, error)
	TailLog(maxLines int) string
	InjectConsoleText(text string) bool
}

// Config holds the configuration for the viewer server.
type Config struct {
	Addr      string
	VNCTarget string // host:port of the RFB listener; empty disables /websockify
	Source    Framebuffer
	Logger    Logger
}

// Server is the HTTP viewer gateway.
type Server struct {
	cfg    Config
	logger Logger
	server *http.Server
}

// InjectRequest is the body of a POST /uart.send call.
type InjectRequest struct {
	Cmd string `json:"cmd"`
}

// InjectResponse reports whether the console injection succeeded.
type InjectResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// New creates a viewer server.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Server{cfg: cfg, logger: cfg.Logger}
}

// Serve runs the HTTP server until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/frame.bmp", s.handleFrame)
	mux.HandleFunc("/uart.log", s.handleLog)
	mux.HandleFunc("/uart.send", s.handleSend)
	if s.cfg.VNCTarget != "" {
		mux.HandleFunc("/websockify", s.newServeWS())
	}

	s.server = &http.Server{
		Addr:           s.cfg.Addr,
		Handler:        mux,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		<-ctx.Done()
		if s.server != nil {
			s.server.Close()
		}
	}()

	return s.server.ListenAndServe()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(indexHTML)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	frame, err := s.cfg.Source.CurrentBitmap()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/bmp")
	w.Header().Set("Content-Length", strconv.Itoa(len(frame)))
	w.Header().Set("Cache-Control", "no-cache, no-store")
	w.Write(frame)
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	text := s.cfg.Source.TailLog(200)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store")
	w.Write([]byte(ansiToHTML(text)))
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}
	var req InjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusInternalServerError, InjectResponse{OK: false, Error: err.Error()})
		return
	}
	ok := s.cfg.Source.InjectConsoleText(req.Cmd)
	resp := InjectResponse{OK: ok}
	if !ok {
		resp.Error = "send failed"
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	w.Write(body)
}
