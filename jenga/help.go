package main

import (
	"fmt"
	"io"
	"strings"
)

// commandHelp holds detailed help per topic. Keys are lowercase without a
// leading dot.
var commandHelp = map[string]string{
	"remove": `remove <level> <color>
  Remove the piece of the given color from a level.
  Levels count from 0 at the bottom. Colors: y (yellow), g (green), b (blue).
  Aliases: rm, pull
  Example: remove 3 g`,

	"step": `step <level> <color> [settle]
  Remove a piece, wait for the tower to settle, then report whether it
  fell and which screenshot the host wrote.
  settle is seconds (0.5) or a duration (750ms); it defaults to .settle.
  Alias: s
  Example: step 4 b 1.5`,

	"reset": `reset
  Rebuild the tower. Speed and friction settings are kept.`,

	"isfallen": `isfallen
  Ask whether the tower has fallen. Anything but "true" counts as standing.
  Aliases: f, fallen`,

	"timescale": `timescale <value>
  Set the simulation speed. 1 is real time, 2 runs twice as fast.
  Aliases: ts, speed`,

	"staticfriction": `staticfriction <value>
  Set the static friction of all pieces.
  Alias: sf, friction static <value>`,

	"dynamicfriction": `dynamicfriction <value>
  Set the dynamic friction of all pieces.
  Alias: df, friction dynamic <value>`,

	"set_fall_detect_distance": `set_fall_detect_distance <distance>
  Move the colliders that decide when the tower counts as fallen.
  Alias: fdd`,

	"set_screenshot_res": `set_screenshot_res <width>
  Set the width in pixels of future screenshots.
  Alias: res`,

	"get_num_of_blocks_in_level": `get_num_of_blocks_in_level <level>
  Show how many pieces remain in a level.
  Alias: blocks`,

	"get_average_max_tilt_angle": `get_average_max_tilt_angle
  Show the average of the largest tilt each piece reached.
  Alias: tilt`,

	"get_most_max_tilt_angle": `get_most_max_tilt_angle
  Show the largest tilt any piece reached.
  Alias: maxtilt`,

	"player_turn": `player_turn <type> <index> <round>
  Hand the turn to a player.
  Alias: turn`,

	"revert_step": `revert_step
  Undo the last removal.
  Aliases: undo, revert`,

	"toggle_menu": `toggle_menu
  Show or hide the host's menu.
  Alias: menu`,

	"help": `.help [topic]
  Show all commands, or details for one.`,

	"settle": `.settle [time]
  Show or set the default settle time used by step.`,

	"screenshot": `.screenshot
  Show the screenshot currently in the screenshot directory.`,

	"endpoint": `.endpoint
  Show the host address.`,

	"quit": `.quit
  Leave the REPL. Ctrl-D works too.`,
}

// helpAliases lets users ask for help by shorthand.
var helpAliases = map[string]string{
	"exit": "quit",
}

// printHelp writes the overview, or the help for one topic.
func printHelp(out io.Writer, topic string) error {
	if topic == "" {
		printHelpOverview(out)
		return nil
	}

	key := strings.TrimPrefix(strings.ToLower(topic), ".")
	if alias, ok := helpAliases[key]; ok {
		key = alias
	}
	if text, ok := commandHelp[key]; ok {
		fmt.Fprintln(out, text)
		return nil
	}
	if verb := translateLine(key); verb != key {
		if text, ok := commandHelp[verb]; ok {
			fmt.Fprintln(out, text)
			return nil
		}
	}
	return fmt.Errorf("no help for '%s'. Type .help to see available commands", topic)
}

func printHelpOverview(out io.Writer) {
	fmt.Fprint(out, `Tower Commands:
  step <level> <color> [settle]   Remove, wait, check and find the screenshot
  remove <level> <color>          Remove a piece (colors: y, g, b)
  reset                           Rebuild the tower
  isfallen                        Check whether the tower fell
  revert_step                     Undo the last removal

Simulation Settings:
  timescale <value>               Simulation speed
  staticfriction <value>          Static friction of the pieces
  dynamicfriction <value>         Dynamic friction of the pieces
  set_fall_detect_distance <d>    Distance that counts as fallen
  set_screenshot_res <width>      Screenshot width in pixels

Queries:
  get_num_of_blocks_in_level <l>  Pieces left in a level
  get_average_max_tilt_angle      Average of the largest tilts
  get_most_max_tilt_angle         Largest tilt of any piece

Other:
  player_turn <type> <idx> <rnd>  Hand the turn to a player
  toggle_menu                     Show or hide the host menu

REPL Commands:
  .help [topic]                   Show help
  .settle [time]                  Show or set the default settle time
  .screenshot                     Show the current screenshot
  .endpoint                       Show the host address
  .quit                           Exit
`)
}
