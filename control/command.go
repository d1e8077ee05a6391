// Package control defines lightweight command messages used by the UI, the
// tick sources and the host lifecycle to request actions from the
// application command loop. The command loop is the only goroutine that
// touches the dial engine.
package control

import (
	"time"

	"DialTimer/geometry"
)

// CommandType enumerates supported command operations.
type CommandType int

const (
	CmdDragStart CommandType = iota
	CmdDragMove
	CmdDragEnd
	CmdTick
	CmdSuspend
	CmdResume
	CmdPause
	CmdReset
)

func (t CommandType) String() string {
	switch t {
	case CmdDragStart:
		return "drag-start"
	case CmdDragMove:
		return "drag-move"
	case CmdDragEnd:
		return "drag-end"
	case CmdTick:
		return "tick"
	case CmdSuspend:
		return "suspend"
	case CmdResume:
		return "resume"
	case CmdPause:
		return "pause"
	case CmdReset:
		return "reset"
	}
	return "unknown"
}

// Command is the message sent to AppManager.commandLoop. Point is set for
// pointer commands, At for lifecycle commands and Tick for tick callbacks.
// The optional Reply channel confirms completion back to the sender.
type Command struct {
	Type  CommandType
	Point geometry.Point
	At    time.Time
	Tick  func()
	Reply chan error // optional reply channel
}
