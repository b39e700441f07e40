// Package operation implements the operations the tool exposes. Every operation
// follows the same protocol: validate the static inputs, resolve the organization (and
// workspace when one is involved), fetch current state, compute the minimal change
// set, execute it, and report what changed. Validation failures never reach the
// network; remote failures are already classified by the storage layer and abort the
// operation with whatever had been applied so far left in place.
package operation

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/tfe-sync/internal/log"
	"github.com/slok/tfe-sync/internal/model"
	"github.com/slok/tfe-sync/internal/run"
	tfestorage "github.com/slok/tfe-sync/internal/storage/tfe"
)

// VariableOperationResult is one executed step of a variable sync, for the report.
type VariableOperationResult struct {
	Operation string `json:"operation"`
	Variable  string `json:"variable"`
}

// WorkspaceInfo is a workspace with its optional best-effort attachments.
type WorkspaceInfo struct {
	model.Workspace
	Variables []model.Variable `json:"variables,omitempty"`
	Runs      []model.Run      `json:"runs,omitempty"`
}

// Report is the result of any operation.
type Report struct {
	Changed       bool                      `json:"changed"`
	Message       string                    `json:"msg"`
	Operation     string                    `json:"operation,omitempty"`
	Organization  *model.Organization       `json:"organization,omitempty"`
	Organizations []model.Organization      `json:"organizations,omitempty"`
	Workspace     *WorkspaceInfo            `json:"workspace,omitempty"`
	Workspaces    []WorkspaceInfo           `json:"workspaces,omitempty"`
	Changes       map[string]interface{}    `json:"changes,omitempty"`
	Variables     map[string]model.Variable `json:"variables,omitempty"`
	Operations    []VariableOperationResult `json:"operations,omitempty"`
	Run           *model.Run                `json:"run,omitempty"`
	Logs          map[string]string         `json:"logs,omitempty"`
}

// ServiceConfig is the configuration of the operations service.
type ServiceConfig struct {
	Repository   tfestorage.Repository
	Organization string
	Logger       log.Logger
	PollInterval time.Duration
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Organization == "" {
		return fmt.Errorf("organization is required")
	}

	if c.PollInterval == 0 {
		c.PollInterval = model.DefaultPollInterval
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "operation.Service"})

	return nil
}

// Service executes the operations against a single organization.
type Service struct {
	repo   tfestorage.Repository
	org    string
	logger log.Logger
	waiter run.Waiter
}

// NewService returns an operations service.
func NewService(config ServiceConfig) (*Service, error) {
	err := config.defaults()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &Service{
		repo:   config.Repository,
		org:    config.Organization,
		logger: config.Logger,
		waiter: run.NewWaiter(config.Logger, config.Repository, config.PollInterval),
	}, nil
}

func (s Service) resolveOrganization(ctx context.Context) (*model.Organization, error) {
	org, err := s.repo.GetOrganization(ctx, s.org)
	if err != nil {
		return nil, fmt.Errorf("could not resolve organization %q: %w", s.org, err)
	}

	return org, nil
}
