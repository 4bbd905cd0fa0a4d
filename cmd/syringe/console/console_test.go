package console_test

import (
	"bytes"
	"context"
	"github.com/jt05610/syringe/cmd/syringe/console"
	"github.com/jt05610/syringe/comm/serial"
	"github.com/jt05610/syringe/pump"
	"github.com/jt05610/syringe/syringe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"io"
	"strings"
	"testing"
	"time"
)

func newConsole(t *testing.T) (*console.Console, *serial.MockPort, *bytes.Buffer) {
	t.Helper()
	port := &serial.MockPort{}
	logger := zaptest.NewLogger(t)
	m := serial.NewManager(
		serial.DefaultConfig(),
		serial.NewLocator(serial.MockLister(serial.USBPort("/dev/ttyACM0", "1eaf", "0004"))),
		serial.MockOpener(port, nil, nil),
		logger,
	)
	c := console.New(pump.New(m, logger, nil), syringe.Geometry{DiameterMM: 20}, syringe.DispenseRequest{VolumeML: 1, FlowRateMLPerMin: 5})
	out := new(bytes.Buffer)
	c.SetOutput(out)
	return c, port, out
}

func TestSessionFlow(t *testing.T) {
	c, port, out := newConsole(t)

	assert.False(t, c.Exec("start"))
	assert.Contains(t, out.String(), "[WARN] Serial not connected!")
	assert.Zero(t, port.Writes)

	assert.False(t, c.Exec("connect"))
	assert.Contains(t, out.String(), "[OK] Connected to /dev/ttyACM0")

	out.Reset()
	assert.False(t, c.Exec("set volume 2"))
	assert.Contains(t, out.String(), "6.37mm in 24.0s")

	assert.False(t, c.Exec("start"))
	assert.Equal(t, "G92 Z0\nG91\nG1 Z6.366 F954.9\nG90\n", string(port.WrittenData))

	port.WrittenData = nil
	assert.False(t, c.Exec("-"))
	assert.False(t, c.Exec("stop"))
	assert.Equal(t, "G92 Z0\nG91\nG1 Z-10.000 F1000\nG90\nM410\nM18\n", string(port.WrittenData))

	assert.False(t, c.Exec("disconnect"))
	assert.True(t, port.Closed)
	assert.True(t, c.Exec("exit"))
}

func TestInvalidDiameterSendsNothing(t *testing.T) {
	c, port, out := newConsole(t)
	require.False(t, c.Exec("connect"))
	require.False(t, c.Exec("set diameter 0"))
	assert.Contains(t, out.String(), "[ERROR] Invalid parameters")
	require.False(t, c.Exec("start"))
	assert.Zero(t, port.Writes)
}

func TestCalibrateNeedsConfirmation(t *testing.T) {
	c, port, out := newConsole(t)
	require.False(t, c.Exec("connect"))
	require.False(t, c.Exec("calibrate"))
	assert.Zero(t, port.Writes)
	assert.Contains(t, out.String(), "calibrate yes")

	require.False(t, c.Exec("calibrate yes"))
	assert.Equal(t, "M906 X400 Y400 Z400 E400 H20\nM92 Z400\nM500\n", string(port.WrittenData))
}

func TestPresetAndErrors(t *testing.T) {
	c, _, out := newConsole(t)
	require.False(t, c.Exec("preset bd-60ml"))
	assert.Contains(t, out.String(), "diameter 26.70 mm")

	for _, line := range []string{"preset nope", "set flow fast", "set color 3", "jog", "jog up", "bogus"} {
		out.Reset()
		require.False(t, c.Exec(line))
		assert.NotEmpty(t, out.String(), line)
	}
	assert.False(t, c.Exec("   "))
}

func runAsync(c *console.Console, ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	return done
}

func TestRunStopsWhenCancelled(t *testing.T) {
	c, _, _ := newConsole(t)
	in, w := io.Pipe()
	defer w.Close()
	c.SetInput(in)

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(c, ctx)
	time.AfterFunc(50*time.Millisecond, cancel)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("console kept waiting for input after cancel")
	}
}

func TestRunPipedCommands(t *testing.T) {
	c, port, out := newConsole(t)
	c.SetInput(io.NopCloser(strings.NewReader("connect\nset volume 2\nstart\nexit\n")))

	select {
	case err := <-runAsync(c, context.Background()):
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("console did not exit")
	}
	assert.Contains(t, out.String(), "6.37mm in 24.0s")
	assert.Equal(t, "G92 Z0\nG91\nG1 Z6.366 F954.9\nG90\n", string(port.WrittenData))
}
