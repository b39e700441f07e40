package commands

import (
	"context"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tfe-sync/internal/desired"
)

type VariablesSyncCommand struct {
	cmd        *kingpin.CmdClause
	rootConfig *RootCommand

	workspace string
	file      string
	purge     bool
}

// NewVariablesSyncCommand returns the variables-sync command.
func NewVariablesSyncCommand(rootConfig *RootCommand, app *kingpin.Application) *VariablesSyncCommand {
	cmd := app.Command("variables-sync", "Converges the variable set of a workspace to a desired list.")
	c := &VariablesSyncCommand{
		cmd:        cmd,
		rootConfig: rootConfig,
	}

	cmd.Flag("workspace", "Name of the workspace.").Short('w').Required().StringVar(&c.workspace)
	cmd.Flag("file", "Desired variables file (YAML or JSON).").Short('f').Required().StringVar(&c.file)
	cmd.Flag("purge", "Delete current variables absent from the desired list.").BoolVar(&c.purge)

	return c
}

func (c VariablesSyncCommand) Name() string { return c.cmd.FullCommand() }
func (c VariablesSyncCommand) Run(ctx context.Context) error {
	vars, err := desired.LoadVariables(c.file)
	if err != nil {
		return err
	}

	svc, err := c.rootConfig.NewService(0)
	if err != nil {
		return err
	}

	report, err := svc.SyncVariables(ctx, c.workspace, vars, c.purge)
	if err != nil {
		return err
	}

	return c.rootConfig.writeReport(report)
}

type VariablesDeleteCommand struct {
	cmd        *kingpin.CmdClause
	rootConfig *RootCommand

	workspace string
	keys      []string
}

// NewVariablesDeleteCommand returns the variables-delete command.
func NewVariablesDeleteCommand(rootConfig *RootCommand, app *kingpin.Application) *VariablesDeleteCommand {
	cmd := app.Command("variables-delete", "Deletes variables from a workspace by key.")
	c := &VariablesDeleteCommand{
		cmd:        cmd,
		rootConfig: rootConfig,
	}

	cmd.Flag("workspace", "Name of the workspace.").Short('w').Required().StringVar(&c.workspace)
	cmd.Flag("key", "Key of the variable to delete (can be repeated).").Short('k').Required().StringsVar(&c.keys)

	return c
}

func (c VariablesDeleteCommand) Name() string { return c.cmd.FullCommand() }
func (c VariablesDeleteCommand) Run(ctx context.Context) error {
	svc, err := c.rootConfig.NewService(0)
	if err != nil {
		return err
	}

	report, err := svc.DeleteVariables(ctx, c.workspace, c.keys)
	if err != nil {
		return err
	}

	return c.rootConfig.writeReport(report)
}
