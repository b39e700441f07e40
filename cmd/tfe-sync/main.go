package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/oklog/run"
	"github.com/sirupsen/logrus"

	"github.com/slok/tfe-sync/cmd/tfe-sync/commands"
	"github.com/slok/tfe-sync/internal/info"
	"github.com/slok/tfe-sync/internal/internalerrors"
	"github.com/slok/tfe-sync/internal/log"
	loglogrus "github.com/slok/tfe-sync/internal/log/logrus"
)

// Run runs the main application.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	app := kingpin.New("tfe-sync", "Declarative automation for Terraform cloud and enterprise workspaces.")
	app.DefaultEnvars()
	rootCmd := commands.NewRootCommand(app)

	// Setup commands (registers flags).
	versionCmd := commands.NewVersionCommand(rootCmd, app)
	orgInfoCmd := commands.NewOrganizationInfoCommand(rootCmd, app)
	wkApplyCmd := commands.NewWorkspaceApplyCommand(rootCmd, app)
	wkDeleteCmd := commands.NewWorkspaceDeleteCommand(rootCmd, app)
	wkInfoCmd := commands.NewWorkspaceInfoCommand(rootCmd, app)
	varsSyncCmd := commands.NewVariablesSyncCommand(rootCmd, app)
	varsDeleteCmd := commands.NewVariablesDeleteCommand(rootCmd, app)
	runTriggerCmd := commands.NewRunTriggerCommand(rootCmd, app)
	runApplyCmd := commands.NewRunApplyCommand(rootCmd, app)
	runDiscardCmd := commands.NewRunDiscardCommand(rootCmd, app)
	runCancelCmd := commands.NewRunCancelCommand(rootCmd, app)
	runStatusCmd := commands.NewRunStatusCommand(rootCmd, app)
	controllerCmd := commands.NewControllerCommand(rootCmd, app)

	cmds := map[string]commands.Command{
		versionCmd.Name():    versionCmd,
		orgInfoCmd.Name():    orgInfoCmd,
		wkApplyCmd.Name():    wkApplyCmd,
		wkDeleteCmd.Name():   wkDeleteCmd,
		wkInfoCmd.Name():     wkInfoCmd,
		varsSyncCmd.Name():   varsSyncCmd,
		varsDeleteCmd.Name(): varsDeleteCmd,
		runTriggerCmd.Name(): runTriggerCmd,
		runApplyCmd.Name():   runApplyCmd,
		runDiscardCmd.Name(): runDiscardCmd,
		runCancelCmd.Name():  runCancelCmd,
		runStatusCmd.Name():  runStatusCmd,
		controllerCmd.Name(): controllerCmd,
	}

	// Parse commandline.
	cmdName, err := app.Parse(args[1:])
	if err != nil {
		return fmt.Errorf("invalid command configuration: %w", err)
	}

	// Set standard input/output.
	rootCmd.Stdin = stdin
	rootCmd.Stdout = stdout
	rootCmd.Stderr = stderr

	// Set logger.
	rootCmd.Logger = getLogger(ctx, *rootCmd)

	var g run.Group

	// OS signals.
	{
		sigC := make(chan os.Signal, 1)
		exitC := make(chan struct{})
		signal.Notify(sigC, syscall.SIGTERM, syscall.SIGINT)

		g.Add(
			func() error {
				select {
				case s := <-sigC:
					rootCmd.Logger.Infof("Signal %s received", s)
					return nil
				case <-exitC:
					return nil
				}
			},
			func(_ error) {
				close(exitC)
			},
		)
	}

	// Execute command.
	{
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		g.Add(
			func() error {
				err := cmds[cmdName].Run(ctx)
				if err != nil {
					return fmt.Errorf("%q command failed: %w", cmdName, err)
				}
				return nil
			},
			func(_ error) {
				cancel()
			},
		)
	}

	return g.Run()
}

// getLogger returns the application logger.
func getLogger(ctx context.Context, config commands.RootCommand) log.Logger {
	if config.NoLog {
		return log.Noop
	}

	// If not logger disabled use logrus logger.
	logrusLog := logrus.New()
	logrusLog.Out = config.Stderr // By default logger goes to stderr (so it can split stdout prints).
	logrusLogEntry := logrus.NewEntry(logrusLog)

	if config.Debug {
		logrusLogEntry.Logger.SetLevel(logrus.DebugLevel)
	}

	// Log format.
	switch config.LoggerType {
	case commands.LoggerTypeDefault:
		logrusLogEntry.Logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   !config.NoColor,
			DisableColors: config.NoColor,
		})
	case commands.LoggerTypeJSON:
		logrusLogEntry.Logger.SetFormatter(&logrus.JSONFormatter{})
	}

	logger := loglogrus.NewLogrus(logrusLogEntry).WithValues(log.Kv{
		"version": info.Version,
	})

	logger.Debugf("Debug level is enabled") // Will log only when debug enabled.

	return logger
}

func main() {
	ctx := context.Background()
	err := Run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)

		// Each failure kind gets its own exit code so callers can branch on it.
		switch {
		case errors.Is(err, internalerrors.ErrValidation):
			os.Exit(2)
		case errors.Is(err, internalerrors.ErrAuthentication):
			os.Exit(3)
		case errors.Is(err, internalerrors.ErrNotFound):
			os.Exit(4)
		case errors.Is(err, internalerrors.ErrConflict):
			os.Exit(5)
		case errors.Is(err, internalerrors.ErrTimeout):
			os.Exit(6)
		}

		os.Exit(1)
	}
}
