package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jenga/jenga-go/jengaprotocol"
)

// replPrompt is shown before every input line.
const replPrompt = "jenga> "

// lineReader is the input side of the REPL; LineEditor implements it.
type lineReader interface {
	GetLine(prompt string) (string, error)
}

// repl holds the interactive session state.
type repl struct {
	ctx    context.Context
	client *jengaprotocol.Client
	parser *jengaprotocol.CommandParser
	settle time.Duration
	out    io.Writer
	errOut io.Writer
	log    *zap.SugaredLogger
}

func newREPL(ctx context.Context, client *jengaprotocol.Client, settle time.Duration, out, errOut io.Writer, logger *zap.Logger) *repl {
	return &repl{
		ctx:    ctx,
		client: client,
		parser: jengaprotocol.NewCommandParser(),
		settle: settle,
		out:    out,
		errOut: errOut,
		log:    logger.Sugar(),
	}
}

// run reads and executes lines until EOF, .quit or context cancellation.
func (r *repl) run(input lineReader) {
	for {
		if r.ctx.Err() != nil {
			return
		}

		line, err := input.GetLine(replPrompt)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				r.printError(err)
			}
			fmt.Fprintln(r.out)
			return
		}

		if r.execute(line) {
			return
		}
	}
}

// execute runs one line and reports whether the session should end.
// Errors are printed and the session continues.
func (r *repl) execute(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}

	if strings.HasPrefix(trimmed, ".") {
		return r.executeDotCommand(trimmed)
	}

	canonical := translateLine(trimmed)
	fields := strings.Fields(canonical)
	if fields[0] == stepVerb {
		r.step(fields[1:])
		return false
	}

	cmd, err := r.parser.Parse(canonical)
	if err != nil {
		r.printError(err)
		return false
	}

	r.log.Debugw("sending", "command", cmd.Format())
	resp, err := r.client.SendWithContext(r.ctx, cmd)
	if err != nil {
		r.log.Warnw("command failed", "command", cmd.Format(), "error", err)
		r.printError(err)
		return false
	}
	r.printResponse(cmd, resp)
	return false
}

func (r *repl) executeDotCommand(line string) bool {
	fields := strings.Fields(line)
	name := strings.ToLower(fields[0])
	args := fields[1:]

	switch name {
	case ".quit", ".exit":
		return true

	case ".help":
		topic := ""
		if len(args) > 0 {
			topic = args[0]
		}
		if err := printHelp(r.out, topic); err != nil {
			r.printError(err)
		}

	case ".settle":
		if len(args) == 0 {
			fmt.Fprintf(r.out, "Settle time: %v\n", r.settle)
			return false
		}
		d, err := parseSettle(args[0])
		if err != nil {
			r.printError(err)
			return false
		}
		r.settle = d
		fmt.Fprintf(r.out, "Settle time set to %v\n", d)

	case ".screenshot":
		path, err := r.client.Screenshot()
		if err != nil {
			r.printError(err)
			return false
		}
		fmt.Fprintln(r.out, path)

	case ".endpoint":
		fmt.Fprintln(r.out, r.client.Endpoint())

	default:
		fmt.Fprintf(r.errOut, "Error: unknown command '%s'. Type .help to see available commands.\n", name)
	}
	return false
}

// step runs the remove, settle, check, screenshot sequence.
func (r *repl) step(args []string) {
	if len(args) < 2 || len(args) > 3 {
		r.printError(errors.New("usage: step <level> <color> [settle]"))
		return
	}

	level, err := jengaprotocol.ParseLevel(args[0])
	if err != nil {
		r.printError(err)
		return
	}
	color, err := jengaprotocol.ParseColor(args[1])
	if err != nil {
		r.printError(err)
		return
	}
	settle := r.settle
	if len(args) == 3 {
		if settle, err = parseSettle(args[2]); err != nil {
			r.printError(err)
			return
		}
	}

	action := jengaprotocol.RemoveAction{Level: level, Color: color}
	r.log.Infow("step", "action", action.String(), "settle", settle)

	shot, fallen, err := r.client.StepWithContext(r.ctx, action, settle)
	if err != nil {
		r.printError(err)
		return
	}
	printStepResult(r.out, shot, fallen)
}

func (r *repl) printResponse(cmd jengaprotocol.Command, resp jengaprotocol.Response) {
	if resp.IsUnknownCommand() {
		fmt.Fprintf(r.errOut, "Error: host did not recognise '%s'\n", cmd.Format())
		return
	}
	if cmd.Type == jengaprotocol.CmdIsFallen {
		fmt.Fprintln(r.out, fallenText(resp.Bool()))
		return
	}
	if resp.Text != "" {
		fmt.Fprintln(r.out, resp.Text)
	}
}

func (r *repl) printError(err error) {
	fmt.Fprintf(r.errOut, "Error: %v\n", err)
}

func printStepResult(out io.Writer, shot string, fallen bool) {
	fmt.Fprintf(out, "Screenshot: %s\n", shot)
	fmt.Fprintln(out, fallenText(fallen))
}

func fallenText(fallen bool) string {
	if fallen {
		return "Tower has fallen"
	}
	return "Tower is standing"
}
