package viewer

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return r.Header.Get("Origin") != ""
	},
}

// newServeWS bridges browser VNC clients (noVNC and friends) to the RFB
// listener: each websocket connection gets its own TCP connection to the
// server and two pumps moving bytes between them.
func (s *Server) newServeWS() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Printf("failed to upgrade to WS: %v", err)
			return
		}

		tcp, err := net.Dial("tcp", s.cfg.VNCTarget)
		if err != nil {
			s.logger.Printf("failed to reach RFB listener %s: %v", s.cfg.VNCTarget, err)
			ws.Close()
			return
		}

		go s.pumpTCP(ws, tcp)
		go s.pumpWS(ws, tcp)
	}
}

// pumpTCP copies RFB server bytes into binary websocket messages.
func (s *Server) pumpTCP(ws *websocket.Conn, tcp net.Conn) {
	defer tcp.Close()
	defer ws.Close()
	var buf [4096]byte
	for {
		n, err := tcp.Read(buf[:])
		if err != nil {
			return
		}
		if err := ws.WriteMessage(websocket.BinaryMessage, buf[:n]); err != nil {
			return
		}
	}
}

// pumpWS copies websocket messages to the RFB server.
func (s *Server) pumpWS(ws *websocket.Conn, tcp net.Conn) {
	defer tcp.Close()
	defer ws.Close()
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		if _, err := tcp.Write(data); err != nil {
			return
		}
	}
}
