// Package monitor speaks the simulator's telnet monitor protocol: a single
// line-oriented text session where every request is a command string and
// every response ends at the ")" prompt marker. The session carries memory
// dumps, register reads and UART injection, so every exchange is serialized
// behind one lock; interleaved writers would corrupt the response parse.
package monitor

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"
)

// Logger is the minimal logging interface the client needs.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Config holds the connection parameters for the monitor session.
type Config struct {
	Addr            string        // host:port of the monitor telnet socket
	DumpPath        string        // side-effect file the memory-read command writes
	ConnectAttempts int           // bound on connection attempts (default 30)
	ConnectDelay    time.Duration // fixed delay between attempts (default 2s)
	DialTimeout     time.Duration // per-attempt dial timeout (default 5s)
	SettleDelay     time.Duration // wait for the banner after dialing (default 3s)
	ExecTimeout     time.Duration // bound on a command round trip (default 15s)
	Logger          Logger
}

// Client is a connection to the monitor. Methods are safe for concurrent
// use; each command/response exchange holds the session lock.
type Client struct {
	cfg Config

	mu        sync.Mutex
	conn      net.Conn
	connected bool
}

var hexToken = regexp.MustCompile(`0x[0-9A-Fa-f]+`)

// New creates a client. Zero config fields get defaults; Addr is required.
func New(cfg Config) *Client {
	if cfg.DumpPath == "" {
		cfg.DumpPath = "/tmp/fbbridge_fb.raw"
	}
	if cfg.ConnectAttempts == 0 {
		cfg.ConnectAttempts = 30
	}
	if cfg.ConnectDelay == 0 {
		cfg.ConnectDelay = 2 * time.Second
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	if cfg.SettleDelay == 0 {
		cfg.SettleDelay = 3 * time.Second
	}
	if cfg.ExecTimeout == 0 {
		cfg.ExecTimeout = 15 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Client{cfg: cfg}
}

// Connect establishes the monitor session, retrying up to the configured
// bound with a fixed delay. Individual failures are silent; only exhaustion
// is an error. On success the banner is drained and a blank command is sent
// to confirm the prompt before the client is considered ready.
func (c *Client) Connect(ctx context.Context) error {
	for attempt := 0; attempt < c.cfg.ConnectAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.cfg.ConnectDelay):
			}
		}

		conn, err := net.DialTimeout("tcp", c.cfg.Addr, c.cfg.DialTimeout)
		if err != nil {
			continue
		}

		time.Sleep(c.cfg.SettleDelay)
		drain(conn)
		if _, err := conn.Write([]byte("\n")); err != nil {
			conn.Close()
			continue
		}
		if _, err := readUntilPrompt(conn, c.cfg.DialTimeout); err != nil {
			conn.Close()
			continue
		}

		c.mu.Lock()
		c.conn = conn
		c.connected = true
		c.mu.Unlock()
		c.cfg.Logger.Printf("Connected to monitor at %s", c.cfg.Addr)
		return nil
	}
	return fmt.Errorf("cannot connect to monitor at %s after %d attempts",
		c.cfg.Addr, c.cfg.ConnectAttempts)
}

// Connected reports whether the session is usable.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Close shuts the session down.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Exec sends one command and returns the text up to the prompt marker.
func (c *Client) Exec(cmd string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exec(cmd)
}

// exec requires c.mu to be held.
func (c *Client) exec(cmd string) (string, error) {
	if !c.connected || c.conn == nil {
		return "", fmt.Errorf("monitor not connected")
	}
	drain(c.conn)
	if _, err := c.conn.Write([]byte(cmd + "\n")); err != nil {
		c.lost(err)
		return "", err
	}
	resp, err := readUntilPrompt(c.conn, c.cfg.ExecTimeout)
	if err != nil {
		c.lost(err)
		return "", err
	}
	return resp, nil
}

// lost marks the session dead after an I/O failure. Requires c.mu held.
func (c *Client) lost(err error) {
	c.cfg.Logger.Printf("Monitor connection lost: %v", err)
	c.connected = false
}

// ReadMemory dumps n bytes at addr through the monitor's embedded python
// command. The response is not parsed inline; the command writes the bytes
// to a side-effect file which is read back after a short settle.
func (c *Client) ReadMemory(addr uint64, n int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cmd := fmt.Sprintf(
		`python "from System.IO import File; `+
			`data = self.Machine.SystemBus.ReadBytes(long(%d), int(%d)); `+
			`File.WriteAllBytes(\"%s\", data)"`,
		addr, n, c.cfg.DumpPath)

	resp, err := c.exec(cmd)
	if err != nil {
		return nil, err
	}
	if strings.Contains(strings.ToLower(resp), "error executing") {
		return nil, fmt.Errorf("memory read failed: %s", firstLine(resp))
	}

	time.Sleep(50 * time.Millisecond)
	data, err := os.ReadFile(c.cfg.DumpPath)
	if err != nil {
		return nil, err
	}
	if len(data) != n {
		return nil, fmt.Errorf("memory dump is %d bytes, expected %d", len(data), n)
	}
	return data, nil
}

// ReadRegister reads a 32-bit register via sysbus and returns the value as
// the hex token the monitor printed. The echoed command also contains the
// address, so the last hex token in the response is the result.
func (c *Client) ReadRegister(addr uint32) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	resp, err := c.exec(fmt.Sprintf("sysbus ReadDoubleWord 0x%08X", addr))
	if err != nil {
		return "", err
	}
	matches := hexToken.FindAllString(resp, -1)
	if len(matches) == 0 {
		return "", fmt.Errorf("no value in response: %s", firstLine(resp))
	}
	return matches[len(matches)-1], nil
}

// WriteLine injects text into the simulated UART one character at a time,
// followed by a carriage return. The lock is held for the whole line so a
// concurrent poll cannot split the keystroke sequence.
func (c *Client) WriteLine(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range text {
		if _, err := c.exec(fmt.Sprintf("uart WriteChar %d", r)); err != nil {
			return err
		}
	}
	_, err := c.exec("uart WriteChar 13")
	return err
}

// drain discards whatever the peer has already sent (banner, echo noise).
func drain(conn net.Conn) {
	buf := make([]byte, 4096)
	for {
		conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		n, err := conn.Read(buf)
		if err != nil || n == 0 {
			break
		}
	}
	conn.SetReadDeadline(time.Time{})
}

// readUntilPrompt accumulates response bytes until the prompt marker ")"
// appears or the deadline passes.
func readUntilPrompt(conn net.Conn, timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	conn.SetReadDeadline(deadline)
	defer conn.SetReadDeadline(time.Time{})

	var sb strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			sb.Write(buf[:n])
			if strings.ContainsRune(string(buf[:n]), ')') {
				return sb.String(), nil
			}
		}
		if err != nil {
			return sb.String(), fmt.Errorf("waiting for prompt: %w", err)
		}
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
