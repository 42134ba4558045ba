// Command cellterm-demo is an interactive input and rendering test:
// press keys, click or drag the marker, resize the window. q or Ctrl+C quits
package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lixenwraith/cellterm/input"
	"github.com/lixenwraith/cellterm/service"
	"github.com/lixenwraith/cellterm/session"
	"github.com/lixenwraith/cellterm/terminal"
)

func main() {
	// Panic recovery: the terminal must be usable after a crash
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mCELLTERM CRASHED: %v\x1b[0m\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "cellterm-demo: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cellterm-demo",
		Short:         "Interactive cell grid and input test",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			if !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stdout.Fd()) {
				return input.ErrNotTerminal
			}

			if f := setupLogging(cfg.Debug, cfg.LogFile); f != nil {
				defer f.Close()
			}
			return run(cmd.Context(), cfg)
		},
	}
	addFlags(cmd.Flags())
	return cmd
}

func addFlags(fs *pflag.FlagSet) {
	fs.StringP("mode", "m", "", "input mode: direct, filter, event")
	fs.StringP("binding", "b", "", "unix input binding: raw, tcell")
	fs.String("bell", "", "bell: terminal, audio, off")
	fs.BoolP("debug", "d", false, "write debug log to "+session.DefaultConfig().LogFile)
}

// loadConfig reads CELLTERM_* variables, then applies explicitly set flags on top
func loadConfig(fs *pflag.FlagSet) (session.Config, error) {
	cfg, err := session.LoadConfig()
	if err != nil {
		return cfg, err
	}

	if fs.Changed("mode") {
		v, _ := fs.GetString("mode")
		cfg.Mode = session.Mode(v)
	}
	if fs.Changed("binding") {
		cfg.Binding, _ = fs.GetString("binding")
	}
	if fs.Changed("bell") {
		cfg.Bell, _ = fs.GetString("bell")
	}
	if fs.Changed("debug") {
		cfg.Debug, _ = fs.GetBool("debug")
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg session.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logrus.StandardLogger()

	sess, err := session.New(cfg, session.WithLogger(log))
	if err != nil {
		return err
	}

	// Subscribed before the input worker starts so no event is missed
	d := newDemo(sess)

	group := service.NewGroup(log)
	for _, svc := range sess.Services() {
		if err := group.Register(svc); err != nil {
			return err
		}
	}
	if err := group.StartAll(ctx); err != nil {
		return err
	}
	defer group.StopAll()

	log.WithField("mode", cfg.Mode).Info("demo started")
	return d.run(ctx)
}
