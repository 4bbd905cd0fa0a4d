package pump

import "fmt"

type Level int

const (
	Info Level = iota
	OK
	Warn
	Error
	Stop
)

var levels = []string{
	Info:  "INFO",
	OK:    "OK",
	Warn:  "WARN",
	Error: "ERROR",
	Stop:  "STOP",
}

func (l Level) String() string {
	if l < 0 || int(l) >= len(levels) {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levels[l]
}

// Event is a status line for the operator.
type Event struct {
	Level   Level
	Message string
}

func (e Event) String() string {
	return fmt.Sprintf("[%s] %s", e.Level, e.Message)
}

// Observer receives every Event a Pump emits.
type Observer func(Event)
