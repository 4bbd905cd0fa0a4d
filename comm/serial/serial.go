package serial

import (
	"go.bug.st/serial"
	"io"
	"time"
)

const (
	DefaultBaud        = 115200
	DefaultReadTimeout = time.Second
)

// Port is the part of a serial port the command path uses.
type Port interface {
	io.Writer
	io.Closer
}

// Opener opens the named port.
type Opener func(name string, baud int, readTimeout time.Duration) (Port, error)

// OpenPort opens name as 8N1 at the given baud rate.
func OpenPort(name string, baud int, readTimeout time.Duration) (Port, error) {
	p, err := serial.Open(name, &serial.Mode{
		BaudRate: baud,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, err
	}

	err = p.SetReadTimeout(readTimeout)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return p, nil
}
