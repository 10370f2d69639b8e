package transport

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParsesDestinations(t *testing.T) {
	tests := []struct {
		name string
		dest string
		want any
	}{
		{"tcp with port", "tcp://10.0.0.5:9100", &TCPSender{Addr: "10.0.0.5:9100"}},
		{"tcp default port", "tcp://10.0.0.5", &TCPSender{Addr: "10.0.0.5:9100"}},
		{"serial default baud", "serial:///dev/ttyUSB0", &SerialSender{Port: "/dev/ttyUSB0", Baud: 9600}},
		{"serial explicit baud", "serial:///dev/ttyUSB0?baud=115200", &SerialSender{Port: "/dev/ttyUSB0", Baud: 115200}},
		{"usb auto", "usb:", &USBSender{}},
		{"usb explicit", "usb:04b8:0202", &USBSender{VendorID: 0x04B8, ProductID: 0x0202}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.dest)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRejectsBadDestinations(t *testing.T) {
	for _, dest := range []string{
		"",
		"lpd://host/queue",
		"tcp://",
		"serial://",
		"serial:///dev/ttyUSB0?baud=fast",
		"usb:nope",
	} {
		t.Run(dest, func(t *testing.T) {
			_, err := New(dest)
			assert.Error(t, err)
		})
	}
}

func TestTCPSenderRoundTrip(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 64)
		n, _ := conn.Read(buf)
		received <- buf[:n]
	}()

	s := &TCPSender{Addr: ln.Addr().String()}
	require.NoError(t, s.Open())
	defer s.Close()

	payload := []byte{0x1B, 0x40, 'H', 'i', 0x0A}
	n, err := s.Write(payload)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)
	assert.Equal(t, payload, <-received)
}

func TestSendersRejectWriteBeforeOpen(t *testing.T) {
	_, err := (&TCPSender{Addr: "127.0.0.1:9100"}).Write([]byte{0x00})
	assert.Error(t, err)
	_, err = (&SerialSender{Port: "/dev/null"}).Write([]byte{0x00})
	assert.Error(t, err)
	_, err = (&USBSender{}).Write([]byte{0x00})
	assert.Error(t, err)
}

func TestTCPSenderCloseIdempotent(t *testing.T) {
	s := &TCPSender{Addr: "127.0.0.1:1"}
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}
