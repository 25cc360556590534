package main

import (
	"strings"

	"github.com/jenga/jenga-go/jengaprotocol"
)

// stepVerb is handled locally by the REPL rather than sent to the host.
const stepVerb = "step"

// commandAliases maps REPL shorthand to protocol verbs.
var commandAliases = map[string]string{
	"rm":      jengaprotocol.VerbRemove,
	"pull":    jengaprotocol.VerbRemove,
	"f":       jengaprotocol.VerbIsFallen,
	"fallen":  jengaprotocol.VerbIsFallen,
	"ts":      jengaprotocol.VerbTimescale,
	"speed":   jengaprotocol.VerbTimescale,
	"sf":      jengaprotocol.VerbStaticFriction,
	"df":      jengaprotocol.VerbDynamicFriction,
	"fdd":     jengaprotocol.VerbFallDetectDistance,
	"res":     jengaprotocol.VerbScreenshotResolution,
	"blocks":  jengaprotocol.VerbBlocksInLevel,
	"tilt":    jengaprotocol.VerbAverageMaxTilt,
	"maxtilt": jengaprotocol.VerbMostMaxTilt,
	"undo":    jengaprotocol.VerbRevertStep,
	"revert":  jengaprotocol.VerbRevertStep,
	"menu":    jengaprotocol.VerbToggleMenu,
	"turn":    jengaprotocol.VerbPlayerTurn,
	"s":       stepVerb,
}

// translateLine rewrites a REPL line into canonical form: the verb is
// lowercased and aliases are expanded. "friction static|dynamic <v>" becomes
// the matching friction verb. Arguments are passed through unchanged.
func translateLine(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}

	verb := strings.ToLower(fields[0])
	args := fields[1:]

	if verb == "friction" && len(args) > 0 {
		switch strings.ToLower(args[0]) {
		case "static", "s":
			verb, args = jengaprotocol.VerbStaticFriction, args[1:]
		case "dynamic", "d":
			verb, args = jengaprotocol.VerbDynamicFriction, args[1:]
		}
	}

	if canonical, ok := commandAliases[verb]; ok {
		verb = canonical
	}

	return strings.Join(append([]string{verb}, args...), " ")
}
