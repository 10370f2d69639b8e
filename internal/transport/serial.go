package transport

import (
	"fmt"

	"go.bug.st/serial"
)

// SerialSender writes to a printer on a serial line.
type SerialSender struct {
	Port string
	Baud int
	port serial.Port
}

func (s *SerialSender) Open() error {
	mode := &serial.Mode{
		BaudRate: s.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(s.Port, mode)
	if err != nil {
		return fmt.Errorf("transport: open %s: %w", s.Port, err)
	}
	s.port = port
	return nil
}

func (s *SerialSender) Write(p []byte) (int, error) {
	if s.port == nil {
		return 0, fmt.Errorf("transport: serial sender not open")
	}
	return s.port.Write(p)
}

func (s *SerialSender) Close() error {
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	return err
}
