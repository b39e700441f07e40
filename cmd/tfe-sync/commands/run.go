package commands

import (
	"context"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tfe-sync/internal/model"
	"github.com/slok/tfe-sync/internal/operation"
)

type RunTriggerCommand struct {
	cmd        *kingpin.CmdClause
	rootConfig *RootCommand

	workspace    string
	message      string
	planOnly     bool
	autoApply    bool
	targetAddrs  []string
	replaceAddrs []string
	wait         bool
	waitTimeout  time.Duration
	pollInterval time.Duration
}

// NewRunTriggerCommand returns the run-trigger command.
func NewRunTriggerCommand(rootConfig *RootCommand, app *kingpin.Application) *RunTriggerCommand {
	cmd := app.Command("run-trigger", "Queues a new run on a workspace.")
	c := &RunTriggerCommand{
		cmd:        cmd,
		rootConfig: rootConfig,
	}

	cmd.Flag("workspace", "Name of the workspace.").Short('w').Required().StringVar(&c.workspace)
	cmd.Flag("message", "Message to set on the run.").Short('m').Default(model.DefaultRunMessage).StringVar(&c.message)
	cmd.Flag("plan-only", "Run a speculative plan that can never apply.").BoolVar(&c.planOnly)
	cmd.Flag("auto-apply", "Apply this run automatically after a successful plan.").BoolVar(&c.autoApply)
	cmd.Flag("target", "Resource address to target (can be repeated).").StringsVar(&c.targetAddrs)
	cmd.Flag("replace", "Resource address to replace (can be repeated).").StringsVar(&c.replaceAddrs)
	cmd.Flag("wait", "Block until the run finishes or waits for a confirmation.").BoolVar(&c.wait)
	cmd.Flag("wait-timeout", "Max time duration to wait for the run to finish, must be positive.").Default(model.DefaultWaitTimeout.String()).DurationVar(&c.waitTimeout)
	cmd.Flag("poll-interval", "Pause between run status checks while waiting.").Default(model.DefaultPollInterval.String()).DurationVar(&c.pollInterval)

	return c
}

func (c RunTriggerCommand) Name() string { return c.cmd.FullCommand() }
func (c RunTriggerCommand) Run(ctx context.Context) error {
	svc, err := c.rootConfig.NewService(c.pollInterval)
	if err != nil {
		return err
	}

	config := model.RunConfig{
		Message:      c.message,
		PlanOnly:     c.planOnly,
		TargetAddrs:  c.targetAddrs,
		ReplaceAddrs: c.replaceAddrs,
	}
	if c.autoApply {
		autoApply := true
		config.AutoApply = &autoApply
	}

	report, err := svc.TriggerRun(ctx, c.workspace, config, operation.TriggerRunOptions{
		Wait:    c.wait,
		Timeout: c.waitTimeout,
	})
	if err != nil {
		return err
	}

	return c.rootConfig.writeReport(report)
}

type RunApplyCommand struct {
	cmd        *kingpin.CmdClause
	rootConfig *RootCommand

	runID   string
	comment string
}

// NewRunApplyCommand returns the run-apply command.
func NewRunApplyCommand(rootConfig *RootCommand, app *kingpin.Application) *RunApplyCommand {
	cmd := app.Command("run-apply", "Confirms a run waiting at the manual gate.")
	c := &RunApplyCommand{
		cmd:        cmd,
		rootConfig: rootConfig,
	}

	cmd.Flag("run-id", "ID of the run.").Required().StringVar(&c.runID)
	cmd.Flag("comment", "Comment to attach to the confirmation.").Default("Applied by tfe-sync").StringVar(&c.comment)

	return c
}

func (c RunApplyCommand) Name() string { return c.cmd.FullCommand() }
func (c RunApplyCommand) Run(ctx context.Context) error {
	svc, err := c.rootConfig.NewService(0)
	if err != nil {
		return err
	}

	report, err := svc.ApplyRun(ctx, c.runID, c.comment)
	if err != nil {
		return err
	}

	return c.rootConfig.writeReport(report)
}

type RunDiscardCommand struct {
	cmd        *kingpin.CmdClause
	rootConfig *RootCommand

	runID   string
	comment string
}

// NewRunDiscardCommand returns the run-discard command.
func NewRunDiscardCommand(rootConfig *RootCommand, app *kingpin.Application) *RunDiscardCommand {
	cmd := app.Command("run-discard", "Discards a run waiting at the manual gate.")
	c := &RunDiscardCommand{
		cmd:        cmd,
		rootConfig: rootConfig,
	}

	cmd.Flag("run-id", "ID of the run.").Required().StringVar(&c.runID)
	cmd.Flag("comment", "Comment to attach to the discard.").Default("Discarded by tfe-sync").StringVar(&c.comment)

	return c
}

func (c RunDiscardCommand) Name() string { return c.cmd.FullCommand() }
func (c RunDiscardCommand) Run(ctx context.Context) error {
	svc, err := c.rootConfig.NewService(0)
	if err != nil {
		return err
	}

	report, err := svc.DiscardRun(ctx, c.runID, c.comment)
	if err != nil {
		return err
	}

	return c.rootConfig.writeReport(report)
}

type RunCancelCommand struct {
	cmd        *kingpin.CmdClause
	rootConfig *RootCommand

	runID   string
	comment string
}

// NewRunCancelCommand returns the run-cancel command.
func NewRunCancelCommand(rootConfig *RootCommand, app *kingpin.Application) *RunCancelCommand {
	cmd := app.Command("run-cancel", "Cancels an in-flight run.")
	c := &RunCancelCommand{
		cmd:        cmd,
		rootConfig: rootConfig,
	}

	cmd.Flag("run-id", "ID of the run.").Required().StringVar(&c.runID)
	cmd.Flag("comment", "Comment to attach to the cancel.").Default("Canceled by tfe-sync").StringVar(&c.comment)

	return c
}

func (c RunCancelCommand) Name() string { return c.cmd.FullCommand() }
func (c RunCancelCommand) Run(ctx context.Context) error {
	svc, err := c.rootConfig.NewService(0)
	if err != nil {
		return err
	}

	report, err := svc.CancelRun(ctx, c.runID, c.comment)
	if err != nil {
		return err
	}

	return c.rootConfig.writeReport(report)
}

type RunStatusCommand struct {
	cmd        *kingpin.CmdClause
	rootConfig *RootCommand

	runID       string
	includeLogs bool
}

// NewRunStatusCommand returns the run-status command.
func NewRunStatusCommand(rootConfig *RootCommand, app *kingpin.Application) *RunStatusCommand {
	cmd := app.Command("run-status", "Shows the current state of a run.")
	c := &RunStatusCommand{
		cmd:        cmd,
		rootConfig: rootConfig,
	}

	cmd.Flag("run-id", "ID of the run.").Required().StringVar(&c.runID)
	cmd.Flag("include-logs", "Attach the plan and apply logs.").BoolVar(&c.includeLogs)

	return c
}

func (c RunStatusCommand) Name() string { return c.cmd.FullCommand() }
func (c RunStatusCommand) Run(ctx context.Context) error {
	svc, err := c.rootConfig.NewService(0)
	if err != nil {
		return err
	}

	report, err := svc.RunStatus(ctx, c.runID, c.includeLogs)
	if err != nil {
		return err
	}

	return c.rootConfig.writeReport(report)
}
