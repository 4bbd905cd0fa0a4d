package serial

import (
	"go.bug.st/serial/enumerator"
	"time"
)

// MockPort implements Port for testing
type MockPort struct {
	Name        string
	WrittenData []byte
	Writes      int
	WriteError  error
	ShortWrite  bool
	CloseError  error
	Closed      bool
}

func (m *MockPort) Write(p []byte) (n int, err error) {
	m.Writes++
	if m.WriteError != nil {
		return 0, m.WriteError
	}
	if m.ShortWrite && len(p) > 1 {
		m.WrittenData = append(m.WrittenData, p[:len(p)/2]...)
		return len(p) / 2, nil
	}
	m.WrittenData = append(m.WrittenData, p...)
	return len(p), nil
}

func (m *MockPort) Close() error {
	m.Closed = true
	return m.CloseError
}

// MockOpener returns an Opener that hands out port, or err when set. Every
// requested name is appended to opened.
func MockOpener(port *MockPort, err error, opened *[]string) Opener {
	return func(name string, baud int, readTimeout time.Duration) (Port, error) {
		if opened != nil {
			*opened = append(*opened, name)
		}
		if err != nil {
			return nil, err
		}
		port.Name = name
		return port, nil
	}
}

// MockLister returns a Lister reporting ports.
func MockLister(ports ...*enumerator.PortDetails) Lister {
	return func() ([]*enumerator.PortDetails, error) {
		return ports, nil
	}
}

// USBPort describes an enumerated USB serial device.
func USBPort(name, vid, pid string) *enumerator.PortDetails {
	return &enumerator.PortDetails{Name: name, IsUSB: true, VID: vid, PID: pid}
}
