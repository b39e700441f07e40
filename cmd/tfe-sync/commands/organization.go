package commands

import (
	"context"

	"github.com/alecthomas/kingpin/v2"
)

type OrganizationInfoCommand struct {
	cmd        *kingpin.CmdClause
	rootConfig *RootCommand

	name string
}

// NewOrganizationInfoCommand returns the organization-info command.
func NewOrganizationInfoCommand(rootConfig *RootCommand, app *kingpin.Application) *OrganizationInfoCommand {
	cmd := app.Command("organization-info", "Shows one organization, or all the organizations the token can see.")
	c := &OrganizationInfoCommand{
		cmd:        cmd,
		rootConfig: rootConfig,
	}

	cmd.Flag("name", "Name of the organization, all visible organizations when missing.").StringVar(&c.name)

	return c
}

func (c OrganizationInfoCommand) Name() string { return c.cmd.FullCommand() }
func (c OrganizationInfoCommand) Run(ctx context.Context) error {
	svc, err := c.rootConfig.NewService(0)
	if err != nil {
		return err
	}

	report, err := svc.OrganizationInfo(ctx, c.name)
	if err != nil {
		return err
	}

	return c.rootConfig.writeReport(report)
}
