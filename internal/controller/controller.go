// Package controller implements the continuous sync mode: the desired state file is
// re-applied on an interval so the remote organization converges back after any
// out-of-band change.
package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/tfe-sync/internal/desired"
	"github.com/slok/tfe-sync/internal/log"
	"github.com/slok/tfe-sync/internal/metrics"
	"github.com/slok/tfe-sync/internal/model"
	"github.com/slok/tfe-sync/internal/operation"
)

// Applier is the part of the operations service the syncer uses.
type Applier interface {
	EnsureWorkspace(ctx context.Context, desired model.Workspace) (*operation.Report, error)
	SyncVariables(ctx context.Context, workspaceName string, desired []model.VariableConfig, purge bool) (*operation.Report, error)
}

type SyncerConfig struct {
	Logger   log.Logger
	Metrics  metrics.Recorder
	Applier  Applier
	State    *desired.State
	Interval time.Duration
}

func (c *SyncerConfig) defaults() error {
	if c.Interval == 0 {
		return fmt.Errorf("interval can't be 0")
	}

	if c.Applier == nil {
		return fmt.Errorf("applier is required")
	}

	if c.State == nil || len(c.State.Workspaces) == 0 {
		return fmt.Errorf("desired state with at least one workspace is required")
	}

	if c.Metrics == nil {
		c.Metrics = metrics.Noop
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "controller.Syncer"})

	return nil
}

type Syncer struct {
	logger   log.Logger
	metrics  metrics.Recorder
	applier  Applier
	state    *desired.State
	interval time.Duration
}

func NewSyncer(config SyncerConfig) (*Syncer, error) {
	err := config.defaults()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &Syncer{
		logger:   config.Logger,
		metrics:  config.Metrics,
		applier:  config.Applier,
		state:    config.State,
		interval: config.Interval,
	}, nil
}

func (s Syncer) Run(ctx context.Context) error {
	t := time.NewTicker(s.interval)
	defer t.Stop()

	// We run this once outside the loop so we don't wait for the first tick.
	s.logger.Infof("Sync started")
	s.run(ctx)
	s.logger.Infof("Sync finished")

	for {
		select {
		case <-ctx.Done():
			s.logger.Infof("Stopping controller...")
			return ctx.Err()
		case <-t.C:
			s.logger.Infof("Sync started")
			s.run(ctx)
			s.logger.Infof("Sync finished")
		}
	}
}

// run applies the whole desired state once. A workspace failing does not stop the
// others, each one reports its own outcome.
func (s Syncer) run(ctx context.Context) {
	for _, wk := range s.state.Workspaces {
		logger := s.logger.WithValues(log.Kv{"workspace": wk.Workspace.Name})

		start := time.Now()
		changed, err := s.syncWorkspace(ctx, wk)
		s.metrics.ObserveWorkspaceSync(wk.Workspace.Name, err == nil, changed, time.Since(start))

		if err != nil {
			logger.Errorf("Workspace sync failed: %s", err)
			continue
		}

		if changed {
			logger.Infof("Workspace converged")
		} else {
			logger.Debugf("Workspace already in desired state")
		}
	}
}

func (s Syncer) syncWorkspace(ctx context.Context, wk desired.WorkspaceState) (changed bool, err error) {
	report, err := s.applier.EnsureWorkspace(ctx, wk.Workspace)
	if err != nil {
		return false, fmt.Errorf("could not ensure workspace: %w", err)
	}
	changed = report.Changed

	if len(wk.Variables) == 0 && !wk.PurgeVariables {
		return changed, nil
	}

	report, err = s.applier.SyncVariables(ctx, wk.Workspace.Name, wk.Variables, wk.PurgeVariables)
	if err != nil {
		return changed, fmt.Errorf("could not sync variables: %w", err)
	}

	return changed || report.Changed, nil
}
