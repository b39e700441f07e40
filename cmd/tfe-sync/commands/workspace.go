package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tfe-sync/internal/desired"
	"github.com/slok/tfe-sync/internal/model"
	"github.com/slok/tfe-sync/internal/operation"
)

type WorkspaceApplyCommand struct {
	cmd        *kingpin.CmdClause
	rootConfig *RootCommand

	file                string
	name                string
	description         string
	terraformVersion    string
	workingDirectory    string
	autoApply           bool
	fileTriggersEnabled bool
	queueAllRuns        bool
	speculativeEnabled  bool
	triggerPrefixes     []string
	executionMode       string
	tagNames            []string
}

// NewWorkspaceApplyCommand returns the workspace-apply command.
func NewWorkspaceApplyCommand(rootConfig *RootCommand, app *kingpin.Application) *WorkspaceApplyCommand {
	cmd := app.Command("workspace-apply", "Creates the workspace or converges it to the desired state.")
	c := &WorkspaceApplyCommand{
		cmd:        cmd,
		rootConfig: rootConfig,
	}

	cmd.Flag("file", "Desired workspace state file (YAML or JSON), flags are ignored when set. VCS bindings and the project assignment can only be set through a file.").Short('f').StringVar(&c.file)
	cmd.Flag("name", "Name of the workspace.").StringVar(&c.name)
	cmd.Flag("description", "Description of the workspace.").StringVar(&c.description)
	cmd.Flag("terraform-version", "Terraform version of the workspace, organization default when missing.").StringVar(&c.terraformVersion)
	cmd.Flag("working-directory", "Relative directory Terraform runs in.").StringVar(&c.workingDirectory)
	cmd.Flag("auto-apply", "Apply runs automatically after a successful plan.").BoolVar(&c.autoApply)
	cmd.Flag("file-triggers-enabled", "Trigger runs on VCS changes.").Default("true").BoolVar(&c.fileTriggersEnabled)
	cmd.Flag("queue-all-runs", "Queue runs for every VCS event.").BoolVar(&c.queueAllRuns)
	cmd.Flag("speculative-enabled", "Allow speculative plans.").Default("true").BoolVar(&c.speculativeEnabled)
	cmd.Flag("trigger-prefix", "Directory prefix that triggers runs (can be repeated).").StringsVar(&c.triggerPrefixes)
	cmd.Flag("execution-mode", "Where runs execute.").Default(model.DefaultExecutionMode).EnumVar(&c.executionMode, "remote", "local", "agent")
	cmd.Flag("tag", "Tag of the workspace (can be repeated).").StringsVar(&c.tagNames)

	return c
}

func (c WorkspaceApplyCommand) Name() string { return c.cmd.FullCommand() }
func (c WorkspaceApplyCommand) Run(ctx context.Context) error {
	wk, err := c.desiredWorkspace()
	if err != nil {
		return err
	}

	svc, err := c.rootConfig.NewService(0)
	if err != nil {
		return err
	}

	report, err := svc.EnsureWorkspace(ctx, *wk)
	if err != nil {
		return err
	}

	return c.rootConfig.writeReport(report)
}

func (c WorkspaceApplyCommand) desiredWorkspace() (*model.Workspace, error) {
	if c.file != "" {
		return desired.LoadWorkspace(c.file)
	}

	if c.name == "" {
		return nil, fmt.Errorf("either a desired state file or a workspace name is required")
	}

	return &model.Workspace{
		Name:                c.name,
		Description:         c.description,
		TerraformVersion:    c.terraformVersion,
		WorkingDirectory:    c.workingDirectory,
		AutoApply:           c.autoApply,
		FileTriggersEnabled: c.fileTriggersEnabled,
		QueueAllRuns:        c.queueAllRuns,
		SpeculativeEnabled:  c.speculativeEnabled,
		TriggerPrefixes:     c.triggerPrefixes,
		ExecutionMode:       c.executionMode,
		TagNames:            c.tagNames,
	}, nil
}

type WorkspaceDeleteCommand struct {
	cmd        *kingpin.CmdClause
	rootConfig *RootCommand

	name string
}

// NewWorkspaceDeleteCommand returns the workspace-delete command.
func NewWorkspaceDeleteCommand(rootConfig *RootCommand, app *kingpin.Application) *WorkspaceDeleteCommand {
	cmd := app.Command("workspace-delete", "Deletes a workspace, deleting a missing workspace is a no-op.")
	c := &WorkspaceDeleteCommand{
		cmd:        cmd,
		rootConfig: rootConfig,
	}

	cmd.Flag("name", "Name of the workspace.").Required().StringVar(&c.name)

	return c
}

func (c WorkspaceDeleteCommand) Name() string { return c.cmd.FullCommand() }
func (c WorkspaceDeleteCommand) Run(ctx context.Context) error {
	svc, err := c.rootConfig.NewService(0)
	if err != nil {
		return err
	}

	report, err := svc.DeleteWorkspace(ctx, c.name)
	if err != nil {
		return err
	}

	return c.rootConfig.writeReport(report)
}

type WorkspaceInfoCommand struct {
	cmd        *kingpin.CmdClause
	rootConfig *RootCommand

	name             string
	includeVariables bool
	includeRuns      bool
	runsLimit        int
}

// NewWorkspaceInfoCommand returns the workspace-info command.
func NewWorkspaceInfoCommand(rootConfig *RootCommand, app *kingpin.Application) *WorkspaceInfoCommand {
	cmd := app.Command("workspace-info", "Shows one workspace, or all the workspaces of the organization.")
	c := &WorkspaceInfoCommand{
		cmd:        cmd,
		rootConfig: rootConfig,
	}

	cmd.Flag("name", "Name of the workspace, all workspaces when missing.").StringVar(&c.name)
	cmd.Flag("include-variables", "Attach the variables of each workspace.").BoolVar(&c.includeVariables)
	cmd.Flag("include-runs", "Attach the latest runs of each workspace.").BoolVar(&c.includeRuns)
	cmd.Flag("runs-limit", "Maximum runs attached per workspace.").Default("10").IntVar(&c.runsLimit)

	return c
}

func (c WorkspaceInfoCommand) Name() string { return c.cmd.FullCommand() }
func (c WorkspaceInfoCommand) Run(ctx context.Context) error {
	svc, err := c.rootConfig.NewService(0)
	if err != nil {
		return err
	}

	report, err := svc.WorkspaceInfo(ctx, c.name, operation.WorkspaceInfoOptions{
		IncludeVariables: c.includeVariables,
		IncludeRuns:      c.includeRuns,
		RunsLimit:        c.runsLimit,
	})
	if err != nil {
		return err
	}

	return c.rootConfig.writeReport(report)
}
