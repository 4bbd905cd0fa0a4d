package serial

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"io"
	"sync"
	"time"
)

var (
	ErrNotConnected = errors.New("serial not connected")
	ErrOpenFailed   = errors.New("failed to open serial port")
	ErrWriteFailed  = errors.New("serial write failed")
)

// OpenError is returned by Connect when the device was found but its port
// could not be opened.
type OpenError struct {
	Port string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Port, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

func (e *OpenError) Is(target error) bool {
	return target == ErrOpenFailed
}

type State int

const (
	Disconnected State = iota
	Connected
)

func (s State) String() string {
	if s == Connected {
		return "connected"
	}
	return "disconnected"
}

type Config struct {
	Identity Identity
	// PortName skips discovery when set.
	PortName    string
	Baud        int
	ReadTimeout time.Duration
}

// DefaultConfig targets the syringe pump controller.
func DefaultConfig() Config {
	return Config{
		Identity:    DefaultIdentity,
		Baud:        DefaultBaud,
		ReadTimeout: DefaultReadTimeout,
	}
}

// Manager owns the single serial session to the controller. Writes are
// fire-and-forget; nothing is read back.
type Manager struct {
	mu      sync.Mutex
	cfg     Config
	locator *Locator
	open    Opener
	port    Port
	name    string
	session string
	logger  *zap.Logger
}

// NewManager returns a disconnected manager. A nil locator or opener falls
// back to the host enumerator and OpenPort.
func NewManager(cfg Config, locator *Locator, open Opener, logger *zap.Logger) *Manager {
	if cfg.Baud == 0 {
		cfg.Baud = DefaultBaud
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if locator == nil {
		locator = NewLocator(nil)
	}
	if open == nil {
		open = OpenPort
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		cfg:     cfg,
		locator: locator,
		open:    open,
		logger:  logger,
	}
}

func (m *Manager) Config() Config {
	return m.cfg
}

// Connect locates the controller and opens it. found is false, with a nil
// error, when no matching device is attached. Calling Connect while
// connected does nothing.
func (m *Manager) Connect() (found bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.port != nil {
		return true, nil
	}
	name := m.cfg.PortName
	if name == "" {
		name, found, err = m.locator.Locate(m.cfg.Identity)
		if err != nil {
			m.logger.Error("Failed to enumerate serial ports", zap.Error(err))
			return false, err
		}
		if !found {
			m.logger.Warn("No device found", zap.Stringer("identity", m.cfg.Identity))
			return false, nil
		}
	}
	p, err := m.open(name, m.cfg.Baud, m.cfg.ReadTimeout)
	if err != nil {
		m.logger.Error("Failed to open port", zap.String("port", name), zap.Error(err))
		return true, &OpenError{Port: name, Err: err}
	}
	m.port = p
	m.name = name
	m.session = uuid.NewString()
	m.logger.Info("Connected",
		zap.String("port", name),
		zap.String("session", m.session),
		zap.Int("baud", m.cfg.Baud),
	)
	return true, nil
}

// Send writes lines, each newline terminated, in a single write. A failed
// write drops the connection; lines already accepted by the port are not
// undone.
func (m *Manager) Send(lines []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.port == nil {
		m.logger.Warn("Serial not connected", zap.Strings("dropped", lines))
		return ErrNotConnected
	}
	if len(lines) == 0 {
		return nil
	}
	buf := new(bytes.Buffer)
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	n, err := m.port.Write(buf.Bytes())
	if err == nil && n < buf.Len() {
		err = io.ErrShortWrite
	}
	if err != nil {
		m.logger.Error("Failed to write",
			zap.String("port", m.name),
			zap.String("session", m.session),
			zap.Int("written", n),
			zap.Error(err),
		)
		name := m.name
		if cerr := m.closeLocked(); cerr != nil {
			m.logger.Error("Failed to close port", zap.String("port", name), zap.Error(cerr))
		}
		return fmt.Errorf("%w on %s: %w", ErrWriteFailed, name, err)
	}
	m.logger.Debug("Sent", zap.String("session", m.session), zap.Strings("lines", lines))
	return nil
}

// Close releases the port. It is safe to call when disconnected.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeLocked()
}

func (m *Manager) closeLocked() error {
	if m.port == nil {
		return nil
	}
	err := m.port.Close()
	m.logger.Info("Disconnected", zap.String("port", m.name), zap.String("session", m.session))
	m.port = nil
	m.name = ""
	m.session = ""
	return err
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.port == nil {
		return Disconnected
	}
	return Connected
}

// PortName is the open port, or "" when disconnected.
func (m *Manager) PortName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.name
}

// Locator exposes the discovery used by Connect.
func (m *Manager) Locator() *Locator {
	return m.locator
}
