// Package transport ships encoded command streams to printers over the
// links receipt printers actually hang off: raw TCP (JetDirect port 9100),
// serial lines, and USB printer-class devices.
//
// Senders deliberately stay dumb byte pipes; framing, chunking and
// backpressure live in the encoder's streaming API.
package transport

import (
	"fmt"
	"net"
	"strings"
	"time"
)

// Sender is an open byte pipe to a printer.
type Sender interface {
	// Open establishes the connection.
	Open() error

	// Write sends data to the printer.
	Write(p []byte) (int, error)

	// Close releases the connection.
	Close() error
}

// dialTimeout bounds TCP connection establishment.
const dialTimeout = 5 * time.Second

// New parses a destination URI and returns the matching sender:
//
//	tcp://192.168.1.50:9100
//	serial:///dev/ttyUSB0?baud=115200
//	usb:                      (first printer-class device)
//	usb:04b8:0202             (explicit vendor:product)
func New(dest string) (Sender, error) {
	switch {
	case strings.HasPrefix(dest, "tcp://"):
		addr := strings.TrimPrefix(dest, "tcp://")
		if addr == "" {
			return nil, fmt.Errorf("transport: missing tcp address")
		}
		if !strings.Contains(addr, ":") {
			addr += ":9100"
		}
		return &TCPSender{Addr: addr}, nil

	case strings.HasPrefix(dest, "serial://"):
		rest := strings.TrimPrefix(dest, "serial://")
		port, baud, err := parseSerialDest(rest)
		if err != nil {
			return nil, err
		}
		return &SerialSender{Port: port, Baud: baud}, nil

	case strings.HasPrefix(dest, "usb:"):
		vid, pid, err := parseUSBDest(strings.TrimPrefix(dest, "usb:"))
		if err != nil {
			return nil, err
		}
		return &USBSender{VendorID: vid, ProductID: pid}, nil
	}
	return nil, fmt.Errorf("transport: unsupported destination %q", dest)
}

func parseSerialDest(rest string) (port string, baud int, err error) {
	baud = 9600
	port = rest
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		port = rest[:i]
		query := rest[i+1:]
		for _, kv := range strings.Split(query, "&") {
			k, v, _ := strings.Cut(kv, "=")
			if k == "baud" {
				if _, err := fmt.Sscanf(v, "%d", &baud); err != nil {
					return "", 0, fmt.Errorf("transport: bad baud rate %q", v)
				}
			}
		}
	}
	if port == "" {
		return "", 0, fmt.Errorf("transport: missing serial port")
	}
	return port, baud, nil
}

func parseUSBDest(rest string) (vid, pid uint16, err error) {
	if rest == "" {
		return 0, 0, nil
	}
	var v, p uint32
	if _, err := fmt.Sscanf(rest, "%04x:%04x", &v, &p); err != nil {
		return 0, 0, fmt.Errorf("transport: bad usb id %q, want vvvv:pppp", rest)
	}
	return uint16(v), uint16(p), nil
}

// TCPSender writes to a network printer, typically on port 9100.
type TCPSender struct {
	Addr string
	conn net.Conn
}

func (s *TCPSender) Open() error {
	conn, err := net.DialTimeout("tcp", s.Addr, dialTimeout)
	if err != nil {
		return fmt.Errorf("transport: dial %s: %w", s.Addr, err)
	}
	s.conn = conn
	return nil
}

func (s *TCPSender) Write(p []byte) (int, error) {
	if s.conn == nil {
		return 0, fmt.Errorf("transport: tcp sender not open")
	}
	return s.conn.Write(p)
}

func (s *TCPSender) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
