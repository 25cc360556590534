package jengaprotocol

import (
	"math"
	"strconv"
	"strings"
)

// CommandParser parses command text, as typed by a user, into a Command.
type CommandParser struct{}

// NewCommandParser creates a new command parser.
func NewCommandParser() *CommandParser {
	return &CommandParser{}
}

// Parse parses a command line into a Command. Verbs are matched
// case-insensitively and extra whitespace between tokens is ignored.
func (p *CommandParser) Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, newInvalidCommandError("")
	}

	command := strings.ToLower(fields[0])
	args := fields[1:]

	switch command {
	case VerbRemove:
		return p.parseRemove(args)
	case VerbReset:
		return p.noArgs(command, args, NewResetCommand())
	case VerbIsFallen:
		return p.noArgs(command, args, NewIsFallenCommand())
	case VerbRevertStep:
		return p.noArgs(command, args, NewRevertStepCommand())

	case VerbTimescale:
		return p.parseReal(command, args, NewTimescaleCommand)
	case VerbStaticFriction:
		return p.parseReal(command, args, NewStaticFrictionCommand)
	case VerbDynamicFriction:
		return p.parseReal(command, args, NewDynamicFrictionCommand)
	case VerbFallDetectDistance:
		return p.parseReal(command, args, NewFallDetectDistanceCommand)

	case VerbScreenshotResolution:
		if len(args) != 1 {
			return Command{}, newMissingArgumentError("usage: " + VerbScreenshotResolution + " <width>")
		}
		width, err := strconv.Atoi(args[0])
		if err != nil || width <= 0 {
			return Command{}, newInvalidValueError(args[0])
		}
		return NewScreenshotResolutionCommand(width), nil

	case VerbBlocksInLevel:
		if len(args) != 1 {
			return Command{}, newMissingArgumentError("usage: " + VerbBlocksInLevel + " <level>")
		}
		level, err := ParseLevel(args[0])
		if err != nil {
			return Command{}, err
		}
		return NewBlocksInLevelCommand(level), nil

	case VerbAverageMaxTilt:
		return p.noArgs(command, args, NewAverageMaxTiltCommand())
	case VerbMostMaxTilt:
		return p.noArgs(command, args, NewMostMaxTiltCommand())

	case VerbPlayerTurn:
		return p.parsePlayerTurn(args)
	case VerbToggleMenu:
		return p.noArgs(command, args, NewToggleMenuCommand())

	default:
		return Command{}, newInvalidCommandError(command)
	}
}

func (p *CommandParser) noArgs(command string, args []string, cmd Command) (Command, error) {
	if len(args) != 0 {
		return Command{}, newInvalidCommandError(command + " " + strings.Join(args, " "))
	}
	return cmd, nil
}

func (p *CommandParser) parseRemove(args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, newMissingArgumentError("usage: remove <level> <color>")
	}
	level, err := ParseLevel(args[0])
	if err != nil {
		return Command{}, err
	}
	color, err := ParseColor(args[1])
	if err != nil {
		return Command{}, err
	}
	return NewRemoveCommand(level, color), nil
}

func (p *CommandParser) parseReal(command string, args []string, build func(float64) Command) (Command, error) {
	if len(args) != 1 {
		return Command{}, newMissingArgumentError("usage: " + command + " <value>")
	}
	value, err := ParseReal(args[0])
	if err != nil {
		return Command{}, err
	}
	return build(value), nil
}

func (p *CommandParser) parsePlayerTurn(args []string) (Command, error) {
	if len(args) != 3 {
		return Command{}, newMissingArgumentError("usage: player_turn <type> <index> <round>")
	}
	values := make([]int, 3)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return Command{}, newInvalidValueError(a)
		}
		values[i] = v
	}
	return NewPlayerTurnCommand(values[0], values[1], values[2]), nil
}

// ParseLevel parses a tower level, which must be a non-negative integer.
func ParseLevel(s string) (int, error) {
	level, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || level < 0 {
		return 0, newInvalidLevelError(s)
	}
	return level, nil
}

// ParseReal parses a finite decimal value such as a timescale or friction.
func ParseReal(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, newInvalidValueError(s)
	}
	return v, nil
}
