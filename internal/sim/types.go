package sim

import (
	"fmt"

	"github.com/san-kum/chaoseq/internal/chaos"
)

// Command is a discrete user action consumed by Tick.
type Command int

const (
	CmdNone Command = iota
	CmdTogglePause
	CmdSpeedSlow
	CmdSpeedNormal
	CmdSpeedFast
	CmdCenter
	CmdResetView
	CmdShuffle
	CmdQuit
	CmdCyclePalette
)

var commandNames = [...]string{
	CmdNone:         "none",
	CmdTogglePause:  "pause",
	CmdSpeedSlow:    "slow",
	CmdSpeedNormal:  "normal",
	CmdSpeedFast:    "fast",
	CmdCenter:       "center",
	CmdResetView:    "reset-view",
	CmdShuffle:      "shuffle",
	CmdQuit:         "quit",
	CmdCyclePalette: "palette",
}

func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return fmt.Sprintf("command(%d)", int(c))
	}
	return commandNames[c]
}

// FrameReport describes what one Frame call did.
type FrameReport struct {
	Frame     int
	T         float64
	Paused    bool
	Restarted bool
	Code      string
	Stats     chaos.BatchStats
}

// Observer is notified after every frame, paused or not.
type Observer interface {
	OnFrame(r FrameReport)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(FrameReport)

func (f ObserverFunc) OnFrame(r FrameReport) { f(r) }

// Fade asks the sink to subtract Level from every color channel of the
// accumulated image before drawing the new points (reverse-subtract
// blending). Level 0 keeps the image, 255 clears it.
type Fade struct {
	Level uint8
}
