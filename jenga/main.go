// Command jenga drives the Jenga simulation host from the terminal, either
// as an interactive REPL or through one-shot subcommands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jenga/jenga-go/jengaprotocol"
)

const (
	appName = "Jenga"
	version = "0.3.0"
)

func fullTitle() string {
	return fmt.Sprintf("%s v%s", appName, version)
}

func welcomeBanner(endpoint jengaprotocol.Endpoint) string {
	return fmt.Sprintf(`%s - simulation host control
Connected to %s

Type '.help' for available commands.
Type '.quit' to exit.
`, fullTitle(), endpoint)
}

// options holds the values of the persistent flags.
type options struct {
	configPath  string
	host        string
	port        int
	settle      time.Duration
	screenshots string
	dialTimeout time.Duration
	ioTimeout   time.Duration
	logFile     string
	launch      string
	wait        time.Duration
	verbose     bool
}

// app is the state shared by all commands once setup has run.
type app struct {
	opts   options
	cfg    *Config
	logger *zap.Logger
	client *jengaprotocol.Client
	host   *exec.Cmd
	flush  func()
}

// setup loads the configuration, applies flag overrides and builds the
// client. It starts the host when --launch is given.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := LoadConfig(a.opts.configPath)
	if err != nil {
		return err
	}
	a.applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger, flush, err := newLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger, a.flush = logger, flush
	a.logger.Info("starting",
		zap.String("version", version),
		zap.String("endpoint", cfg.Endpoint().String()),
		zap.String("command", cmd.Name()),
	)

	a.client = jengaprotocol.NewClient(cfg.Host, cfg.Port,
		jengaprotocol.WithDialTimeout(cfg.DialTimeout.Duration),
		jengaprotocol.WithIOTimeout(cfg.IOTimeout.Duration),
		jengaprotocol.WithScreenshotDir(cfg.ScreenshotDir),
		jengaprotocol.WithLogger(logger.Named("protocol")),
	)

	ctx := cmd.Context()
	switch {
	case a.opts.launch != "":
		a.host, err = launchHost(ctx, a.opts.launch, cfg.Endpoint(), a.opts.wait)
		if err != nil {
			return err
		}
		a.logger.Info("host launched", zap.Int("pid", a.host.Process.Pid))
	case a.opts.wait > 0:
		if err := waitForHost(ctx, cfg.Endpoint(), a.opts.wait); err != nil {
			return err
		}
	}
	return nil
}

// applyFlags copies explicitly set flags over the loaded configuration.
func (a *app) applyFlags(cmd *cobra.Command, cfg *Config) {
	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Host = a.opts.host
	}
	if flags.Changed("port") {
		cfg.Port = a.opts.port
	}
	if flags.Changed("settle") {
		cfg.Settle.Duration = a.opts.settle
	}
	if flags.Changed("screenshots") {
		cfg.ScreenshotDir = a.opts.screenshots
	}
	if flags.Changed("dial-timeout") {
		cfg.DialTimeout.Duration = a.opts.dialTimeout
	}
	if flags.Changed("timeout") {
		cfg.IOTimeout.Duration = a.opts.ioTimeout
	}
	if flags.Changed("log-file") {
		cfg.LogFile = a.opts.logFile
	}
	if a.opts.verbose {
		cfg.LogLevel = "debug"
	}
}

// teardown stops a launched host and flushes the log.
func (a *app) teardown() {
	if a.host != nil {
		a.logger.Info("stopping host", zap.Int("pid", a.host.Process.Pid))
		stopHost(a.host)
		a.host = nil
	}
	if a.flush != nil {
		a.flush()
		a.flush = nil
	}
}

// newRootCommand builds the command tree around a. The root command runs
// the REPL. Callers must call a.teardown once the command has finished.
func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "jenga",
		Short: "Control a Jenga simulation host",
		Long: `jenga sends commands to a running Jenga simulation host over TCP.

Without a subcommand it starts an interactive REPL. Settings come from
jenga.toml or jenga.yaml, the JENGA_* environment variables (a .env file
in the working directory is read too) and the flags below, in that order.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runREPL(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.opts.configPath, "config", "", "config file (.toml or .yaml)")
	pf.StringVar(&a.opts.host, "host", jengaprotocol.DefaultHost, "simulation host address")
	pf.IntVarP(&a.opts.port, "port", "p", jengaprotocol.DefaultPort, "simulation host port")
	pf.DurationVar(&a.opts.settle, "settle", jengaprotocol.DefaultSettleTime, "wait between remove and fall check")
	pf.StringVar(&a.opts.screenshots, "screenshots", jengaprotocol.DefaultScreenshotDir, "directory the host writes screenshots to")
	pf.DurationVar(&a.opts.dialTimeout, "dial-timeout", jengaprotocol.ConnectionTimeout, "connect timeout (0 waits forever)")
	pf.DurationVar(&a.opts.ioTimeout, "timeout", jengaprotocol.CommandTimeout, "per-command reply timeout (0 waits forever)")
	pf.StringVar(&a.opts.logFile, "log-file", "", "log file (\"-\" disables logging)")
	pf.StringVar(&a.opts.launch, "launch", "", "start this host executable before connecting")
	pf.DurationVar(&a.opts.wait, "wait", 0, "wait up to this long for the host to accept connections")
	pf.BoolVarP(&a.opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newVersionCommand(),
		newResetCommand(a),
		newStepCommand(a),
		newFallenCommand(a),
		newTimescaleCommand(a),
		newFrictionCommand(a),
		newScreenshotCommand(a),
		newSendCommand(a),
	)
	return root
}

func (a *app) runREPL(cmd *cobra.Command) error {
	editor := NewLineEditor(a.cfg.HistoryFile)
	defer editor.Close()

	if editor.IsInteractive() {
		fmt.Fprint(cmd.OutOrStdout(), welcomeBanner(a.client.Endpoint()))
	}

	r := newREPL(cmd.Context(), a.client, a.cfg.Settle.Duration, cmd.OutOrStdout(), cmd.ErrOrStderr(), a.logger)
	r.run(editor)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	err := newRootCommand(a).ExecuteContext(ctx)
	a.teardown()
	if err != nil {
		stop()
		os.Exit(1)
	}
}
