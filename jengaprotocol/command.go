package jengaprotocol

import (
	"fmt"
	"strconv"
	"strings"
)

// CommandType represents the kind of command sent to the host.
type CommandType int

const (
	// Tower
	CmdRemove CommandType = iota
	CmdReset
	CmdIsFallen
	CmdRevertStep

	// Physics
	CmdTimescale
	CmdStaticFriction
	CmdDynamicFriction
	CmdFallDetectDistance

	// Observation
	CmdScreenshotResolution
	CmdBlocksInLevel
	CmdAverageMaxTilt
	CmdMostMaxTilt

	// Game flow
	CmdPlayerTurn
	CmdToggleMenu
)

// Wire verbs understood by the host.
const (
	VerbRemove               = "remove"
	VerbReset                = "reset"
	VerbIsFallen             = "isfallen"
	VerbRevertStep           = "revert_step"
	VerbTimescale            = "timescale"
	VerbStaticFriction       = "staticfriction"
	VerbDynamicFriction      = "dynamicfriction"
	VerbFallDetectDistance   = "set_fall_detect_distance"
	VerbScreenshotResolution = "set_screenshot_res"
	VerbBlocksInLevel        = "get_num_of_blocks_in_level"
	VerbAverageMaxTilt       = "get_average_max_tilt_angle"
	VerbMostMaxTilt          = "get_most_max_tilt_angle"
	VerbPlayerTurn           = "player_turn"
	VerbToggleMenu           = "toggle_menu"
)

var commandVerbs = map[CommandType]string{
	CmdRemove:               VerbRemove,
	CmdReset:                VerbReset,
	CmdIsFallen:             VerbIsFallen,
	CmdRevertStep:           VerbRevertStep,
	CmdTimescale:            VerbTimescale,
	CmdStaticFriction:       VerbStaticFriction,
	CmdDynamicFriction:      VerbDynamicFriction,
	CmdFallDetectDistance:   VerbFallDetectDistance,
	CmdScreenshotResolution: VerbScreenshotResolution,
	CmdBlocksInLevel:        VerbBlocksInLevel,
	CmdAverageMaxTilt:       VerbAverageMaxTilt,
	CmdMostMaxTilt:          VerbMostMaxTilt,
	CmdPlayerTurn:           VerbPlayerTurn,
	CmdToggleMenu:           VerbToggleMenu,
}

// Verb returns the wire verb for the command type.
func (t CommandType) Verb() string {
	if v, ok := commandVerbs[t]; ok {
		return v
	}
	return "unknown"
}

// String implements fmt.Stringer.
func (t CommandType) String() string {
	return t.Verb()
}

// Color identifies one of the three pieces in a tower level.
type Color byte

const (
	ColorYellow Color = 'y'
	ColorGreen  Color = 'g'
	ColorBlue   Color = 'b'
)

// Colors lists the valid piece colors in tower order.
var Colors = []Color{ColorYellow, ColorGreen, ColorBlue}

// ParseColor accepts a single-letter tag or the full color name,
// case-insensitively.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yellow":
		return ColorYellow, nil
	case "g", "green":
		return ColorGreen, nil
	case "b", "blue":
		return ColorBlue, nil
	default:
		return 0, newInvalidColorError(s)
	}
}

// String returns the single-letter wire tag.
func (c Color) String() string {
	return string(rune(c))
}

// Name returns the human readable color name.
func (c Color) Name() string {
	switch c {
	case ColorYellow:
		return "yellow"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	default:
		return "unknown"
	}
}

// Valid reports whether c is one of the known piece colors.
func (c Color) Valid() bool {
	return c == ColorYellow || c == ColorGreen || c == ColorBlue
}

// Command represents a single request to the host.
// Use the constructor functions (NewRemoveCommand, NewResetCommand, etc.)
// to create Command instances.
type Command struct {
	Type CommandType

	// Fields used by various commands (only relevant fields are populated)
	Level       int     // For remove, blocksInLevel
	Color       Color   // For remove
	Value       float64 // For timescale, friction, fall detect distance
	Width       int     // For screenshot resolution
	PlayerType  int     // For playerTurn
	PlayerIndex int     // For playerTurn
	Round       int     // For playerTurn
}

// NewRemoveCommand creates a command that pulls the piece of the given
// color out of the given level.
func NewRemoveCommand(level int, color Color) Command {
	return Command{Type: CmdRemove, Level: level, Color: color}
}

// NewResetCommand creates a command that rebuilds the tower.
func NewResetCommand() Command {
	return Command{Type: CmdReset}
}

// NewIsFallenCommand creates a command that asks whether the tower has fallen.
func NewIsFallenCommand() Command {
	return Command{Type: CmdIsFallen}
}

// NewRevertStepCommand creates a command that undoes the last removal.
func NewRevertStepCommand() Command {
	return Command{Type: CmdRevertStep}
}

// NewTimescaleCommand creates a command that sets the simulation speed.
// The host does not persist it; it must be re-sent for every session.
func NewTimescaleCommand(scale float64) Command {
	return Command{Type: CmdTimescale, Value: scale}
}

// NewStaticFrictionCommand creates a command that sets the static friction
// of the pieces.
func NewStaticFrictionCommand(value float64) Command {
	return Command{Type: CmdStaticFriction, Value: value}
}

// NewDynamicFrictionCommand creates a command that sets the dynamic friction
// of the pieces.
func NewDynamicFrictionCommand(value float64) Command {
	return Command{Type: CmdDynamicFriction, Value: value}
}

// NewFallDetectDistanceCommand creates a command that moves the fall
// detection colliders.
func NewFallDetectDistanceCommand(distance float64) Command {
	return Command{Type: CmdFallDetectDistance, Value: distance}
}

// NewScreenshotResolutionCommand creates a command that sets the screenshot
// width in pixels. The host derives the height from a 16:9 ratio.
func NewScreenshotResolutionCommand(width int) Command {
	return Command{Type: CmdScreenshotResolution, Width: width}
}

// NewBlocksInLevelCommand creates a command that counts the pieces left in a level.
func NewBlocksInLevelCommand(level int) Command {
	return Command{Type: CmdBlocksInLevel, Level: level}
}

// NewAverageMaxTiltCommand creates a command that queries the average of the
// per-piece maximum tilt angles.
func NewAverageMaxTiltCommand() Command {
	return Command{Type: CmdAverageMaxTilt}
}

// NewMostMaxTiltCommand creates a command that queries the largest
// per-piece maximum tilt angle.
func NewMostMaxTiltCommand() Command {
	return Command{Type: CmdMostMaxTilt}
}

// NewPlayerTurnCommand creates a command that hands the turn to a player.
func NewPlayerTurnCommand(playerType, playerIndex, round int) Command {
	return Command{Type: CmdPlayerTurn, PlayerType: playerType, PlayerIndex: playerIndex, Round: round}
}

// NewToggleMenuCommand creates a command that shows or hides the host menu.
func NewToggleMenuCommand() Command {
	return Command{Type: CmdToggleMenu}
}

// Format returns the command as it is written on the wire.
func (c Command) Format() string {
	verb := c.Type.Verb()

	switch c.Type {
	case CmdRemove:
		return fmt.Sprintf("%s %d %s", verb, c.Level, c.Color)

	case CmdTimescale, CmdStaticFriction, CmdDynamicFriction, CmdFallDetectDistance:
		return fmt.Sprintf("%s %s", verb, formatReal(c.Value))

	case CmdScreenshotResolution:
		return fmt.Sprintf("%s %d", verb, c.Width)

	case CmdBlocksInLevel:
		return fmt.Sprintf("%s %d", verb, c.Level)

	case CmdPlayerTurn:
		return fmt.Sprintf("%s %d %d %d", verb, c.PlayerType, c.PlayerIndex, c.Round)

	default:
		return verb
	}
}

// String implements fmt.Stringer.
func (c Command) String() string {
	return c.Format()
}

// formatReal renders v in plain decimal with at least one fractional digit,
// so 2 becomes "2.0" and 1.25 stays "1.25".
func formatReal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
