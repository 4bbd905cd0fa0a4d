package serial

import (
	"fmt"
	"go.bug.st/serial/enumerator"
	"strconv"
	"strings"
)

// Identity is the USB vendor/product pair of the target controller.
type Identity struct {
	VendorID  uint16
	ProductID uint16
}

// DefaultIdentity matches the Maple-based motion board.
var DefaultIdentity = Identity{VendorID: 0x1EAF, ProductID: 0x0004}

func (i Identity) String() string {
	return fmt.Sprintf("VID=%04X PID=%04X", i.VendorID, i.ProductID)
}

// ParseIdentity reads a "VID:PID" pair of hex numbers, e.g. "1eaf:0004".
func ParseIdentity(s string) (Identity, error) {
	vid, pid, ok := strings.Cut(s, ":")
	if !ok {
		return Identity{}, fmt.Errorf("identity %q: expected VID:PID", s)
	}
	v, err := ParseID(vid)
	if err != nil {
		return Identity{}, fmt.Errorf("identity %q: vendor: %w", s, err)
	}
	p, err := ParseID(pid)
	if err != nil {
		return Identity{}, fmt.Errorf("identity %q: product: %w", s, err)
	}
	return Identity{VendorID: v, ProductID: p}, nil
}

// ParseID reads a 16-bit USB id in hex, with or without a 0x prefix.
func ParseID(s string) (uint16, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	n, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, err
	}
	return uint16(n), nil
}

// Matches reports whether the enumerated port carries this identity. The
// enumerator reports ids as hex strings whose case depends on the OS.
func (i Identity) Matches(p *enumerator.PortDetails) bool {
	if p == nil || !p.IsUSB {
		return false
	}
	vid, err := ParseID(p.VID)
	if err != nil {
		return false
	}
	pid, err := ParseID(p.PID)
	if err != nil {
		return false
	}
	return vid == i.VendorID && pid == i.ProductID
}

// Lister enumerates the serial ports on the host.
type Lister func() ([]*enumerator.PortDetails, error)

type Locator struct {
	list Lister
}

func NewLocator(list Lister) *Locator {
	if list == nil {
		list = enumerator.GetDetailedPortsList
	}
	return &Locator{list: list}
}

// ListPorts returns every port the enumerator reports.
func (l *Locator) ListPorts() ([]*enumerator.PortDetails, error) {
	ports, err := l.list()
	if err != nil {
		return nil, fmt.Errorf("enumerate serial ports: %w", err)
	}
	return ports, nil
}

// Locate returns the name of the first port matching id. A missing device is
// reported with found == false and a nil error.
func (l *Locator) Locate(id Identity) (name string, found bool, err error) {
	ports, err := l.ListPorts()
	if err != nil {
		return "", false, err
	}
	for _, port := range ports {
		if id.Matches(port) {
			return port.Name, true, nil
		}
	}
	return "", false, nil
}
