package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/hashicorp/go-tfe"

	"github.com/slok/tfe-sync/internal/internalerrors"
	"github.com/slok/tfe-sync/internal/log"
	"github.com/slok/tfe-sync/internal/operation"
	"github.com/slok/tfe-sync/internal/storage/fake"
	tfestorage "github.com/slok/tfe-sync/internal/storage/tfe"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug      bool
	NoLog      bool
	NoColor    bool
	LoggerType string
	TFEOrg     string
	TFEToken   string
	TFEAddress string
	DryRun     bool

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)
	app.Flag("tfe-organization", "The Terraform cloud or enterprise organization.").Required().StringVar(&c.TFEOrg)
	app.Flag("tfe-token", "The Terraform cloud or enterprise API token.").StringVar(&c.TFEToken)
	app.Flag("tfe-address", "The address of the Terraform Enterprise API.").Default(tfe.DefaultAddress).StringVar(&c.TFEAddress)
	app.Flag("dry-run", "Run against an in-memory API instead of the real one, nothing remote is touched.").BoolVar(&c.DryRun)

	return c
}

// NewRepository returns the storage repository the commands act on: the real API
// client, or the seeded in-memory one on dry runs.
func (c RootCommand) NewRepository() (tfestorage.Repository, error) {
	if c.DryRun {
		c.Logger.Warningf("Dry run mode, using in-memory API")
		return fake.NewRepository(c.TFEOrg), nil
	}

	if c.TFEToken == "" {
		return nil, fmt.Errorf("a TFE token is required unless running in dry run mode: %w", internalerrors.ErrValidation)
	}

	client, err := tfe.NewClient(&tfe.Config{
		Token:   c.TFEToken,
		Address: c.TFEAddress,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create TFE API client: %w", err)
	}

	return tfestorage.NewRepository(tfestorage.NewClient(client), c.TFEOrg)
}

// NewService returns the operations service the commands call.
func (c RootCommand) NewService(pollInterval time.Duration) (*operation.Service, error) {
	repo, err := c.NewRepository()
	if err != nil {
		return nil, err
	}

	return operation.NewService(operation.ServiceConfig{
		Repository:   repo,
		Organization: c.TFEOrg,
		Logger:       c.Logger,
		PollInterval: pollInterval,
	})
}

// writeReport prints an operation report as indented JSON on stdout. Logs go to
// stderr, the report is the only thing commands write on stdout.
func (c RootCommand) writeReport(report *operation.Report) error {
	enc := json.NewEncoder(c.Stdout)
	enc.SetIndent("", "  ")
	err := enc.Encode(report)
	if err != nil {
		return fmt.Errorf("could not encode report: %w", err)
	}

	return nil
}
