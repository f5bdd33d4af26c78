package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"time"
)

// session is a persistent connection to the simulated UART console. With
// console=tty0 console=ttyS0 the shell only echoes on the serial port, so
// anything meant for the framebuffer console must be redirected to
// /dev/tty0 explicitly.
type session struct {
	conn net.Conn
}

func dialSession(addr string) (*session, error) {
	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return nil, err
	}
	s := &session{conn: conn}
	time.Sleep(200 * time.Millisecond)
	s.drain()
	return s, nil
}

func (s *session) send(cmd string, delay time.Duration) error {
	if _, err := s.conn.Write([]byte(cmd + "\n")); err != nil {
		return err
	}
	time.Sleep(delay)
	s.drain()
	return nil
}

func (s *session) drain() {
	buf := make([]byte, 4096)
	for {
		s.conn.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
		n, err := s.conn.Read(buf)
		if err != nil || n == 0 {
			break
		}
	}
	s.conn.SetReadDeadline(time.Time{})
}

func (s *session) tty0(cmd string, delay time.Duration) error {
	return s.send(cmd+" > /dev/tty0 2>&1", delay)
}

func (s *session) tty0Echo(text string) error {
	return s.send(fmt.Sprintf(`echo "%s" > /dev/tty0`, text), 200*time.Millisecond)
}

func (s *session) clear() error {
	return s.send(`printf "\033c" > /dev/tty0`, 500*time.Millisecond)
}

func (s *session) close() {
	s.conn.Close()
}

func demoHello(s *session) error {
	fmt.Println("Demo: Hello World")
	if err := s.clear(); err != nil {
		return err
	}
	lines := []string{
		"",
		"  ==========================",
		"      HELLO, FRAMEBUFFER",
		"  ==========================",
		"",
	}
	for _, l := range lines {
		if err := s.tty0Echo(l); err != nil {
			return err
		}
	}
	return s.tty0("date", 300*time.Millisecond)
}

func demoColors(s *session) error {
	fmt.Println("Demo: ANSI colors")
	if err := s.clear(); err != nil {
		return err
	}
	for _, code := range []int{31, 32, 33, 34, 35, 36, 37} {
		cmd := fmt.Sprintf(`printf "\033[%dm########  color %d  ########\033[0m\n" > /dev/tty0`, code, code)
		if err := s.send(cmd, 200*time.Millisecond); err != nil {
			return err
		}
	}
	return nil
}

func demoSysinfo(s *session) error {
	fmt.Println("Demo: system info")
	if err := s.clear(); err != nil {
		return err
	}
	for _, cmd := range []string{"uname -a", "uptime", "cat /proc/meminfo | head -3"} {
		if err := s.tty0(cmd, 400*time.Millisecond); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	var (
		uart = flag.String("uart", "localhost:4321", "UART telnet host:port")
		demo = flag.String("demo", "hello", "Demo to run: hello, colors, sysinfo, clear, all")
		help = flag.Bool("help", false, "Show this help message")
	)
	flag.Parse()

	if *help {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "fbdemo - paint the simulated framebuffer console with canned demos\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
		os.Exit(0)
	}

	s, err := dialSession(*uart)
	if err != nil {
		log.Fatalf("Cannot reach UART at %s: %v", *uart, err)
	}
	defer s.close()

	demos := map[string]func(*session) error{
		"hello":   demoHello,
		"colors":  demoColors,
		"sysinfo": demoSysinfo,
		"clear":   func(s *session) error { return s.clear() },
	}

	run := func(name string) {
		fn, ok := demos[name]
		if !ok {
			log.Fatalf("Unknown demo %q", name)
		}
		if err := fn(s); err != nil {
			log.Fatalf("Demo %s failed: %v", name, err)
		}
	}

	if *demo == "all" {
		for _, name := range []string{"hello", "colors", "sysinfo"} {
			run(name)
			time.Sleep(2 * time.Second)
		}
	} else {
		run(*demo)
	}
	fmt.Println("Done.")
}
