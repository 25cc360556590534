package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jenga/jenga-go/jengaprotocol"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		// Skips config loading and logger setup.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), fullTitle())
		},
	}
}

func newResetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Rebuild the tower",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.sendAndPrint(cmd, jengaprotocol.NewResetCommand())
		},
	}
}

func newStepCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "step <level> <color>",
		Short: "Remove a piece, wait, check the tower and find the screenshot",
		Long: `step removes the piece of the given color (y, g or b) from a level,
waits for the settle time, asks whether the tower fell and prints the
screenshot the host wrote. The screenshot directory must hold exactly one
image afterwards.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := jengaprotocol.ParseLevel(args[0])
			if err != nil {
				return err
			}
			color, err := jengaprotocol.ParseColor(args[1])
			if err != nil {
				return err
			}

			action := jengaprotocol.RemoveAction{Level: level, Color: color}
			shot, fallen, err := a.client.StepWithContext(cmd.Context(), action, a.cfg.Settle.Duration)
			if err != nil {
				return err
			}
			printStepResult(cmd.OutOrStdout(), shot, fallen)
			return nil
		},
	}
}

func newFallenCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "fallen",
		Aliases: []string{"isfallen"},
		Short:   "Report whether the tower has fallen",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client.SendWithContext(cmd.Context(), jengaprotocol.NewIsFallenCommand())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Bool())
			return nil
		},
	}
}

func newTimescaleCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "timescale <value>",
		Short: "Set the simulation speed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := jengaprotocol.ParseReal(args[0])
			if err != nil {
				return err
			}
			return a.sendAndPrint(cmd, jengaprotocol.NewTimescaleCommand(v))
		},
	}
}

func newFrictionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "friction <static|dynamic> <value>",
		Short:     "Set the static or dynamic friction of the pieces",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"static", "dynamic"},
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := jengaprotocol.ParseReal(args[1])
			if err != nil {
				return err
			}
			switch strings.ToLower(args[0]) {
			case "static":
				return a.sendAndPrint(cmd, jengaprotocol.NewStaticFrictionCommand(v))
			case "dynamic":
				return a.sendAndPrint(cmd, jengaprotocol.NewDynamicFrictionCommand(v))
			default:
				return fmt.Errorf("unknown friction kind %q (expected static or dynamic)", args[0])
			}
		},
	}
}

func newScreenshotCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "screenshot",
		Short: "Print the screenshot currently in the screenshot directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.client.Screenshot()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newSendCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "send <command> [args...]",
		Short: "Send a command line to the host and print the reply",
		Long: `send joins its arguments with spaces, sends them as one command and
prints the trimmed reply. REPL aliases such as rm or ts are expanded first.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line := translateLine(strings.Join(args, " "))
			reply, err := a.client.SendRawWithContext(cmd.Context(), line)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}
}

// sendAndPrint sends cmd and prints the host's reply. An "Unknown command"
// reply is returned as an error.
func (a *app) sendAndPrint(cmd *cobra.Command, command jengaprotocol.Command) error {
	resp, err := a.client.SendWithContext(cmd.Context(), command)
	if err != nil {
		return err
	}
	if resp.IsUnknownCommand() {
		return fmt.Errorf("host did not recognise '%s'", command.Format())
	}
	fmt.Fprintln(cmd.OutOrStdout(), resp.Text)
	return nil
}
