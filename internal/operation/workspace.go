package operation

import (
	"context"
	"errors"
	"fmt"

	"github.com/slok/tfe-sync/internal/internalerrors"
	"github.com/slok/tfe-sync/internal/log"
	"github.com/slok/tfe-sync/internal/model"
	"github.com/slok/tfe-sync/internal/reconcile"
)

// EnsureWorkspace converges a workspace to the received desired state. Missing
// workspaces are created, existing ones are updated only when their managed attributes
// drift from the desired value, and a workspace already in the desired state is a
// no-change success.
func (s Service) EnsureWorkspace(ctx context.Context, desired model.Workspace) (*Report, error) {
	desired = desired.WithDefaults()
	err := desired.ValidateDesired()
	if err != nil {
		return nil, err
	}

	_, err = s.resolveOrganization(ctx)
	if err != nil {
		return nil, err
	}

	logger := s.logger.WithValues(log.Kv{"workspace": desired.Name})

	current, err := s.repo.GetWorkspace(ctx, desired.Name)
	switch {
	case errors.Is(err, internalerrors.ErrNotFound):
		created, err := s.repo.CreateWorkspace(ctx, desired)
		if err != nil {
			return nil, fmt.Errorf("could not create workspace %q: %w", desired.Name, err)
		}
		logger.Infof("Workspace created")

		return &Report{
			Changed:   true,
			Message:   fmt.Sprintf("Created workspace %q in organization %q", created.Name, s.org),
			Operation: "create",
			Workspace: &WorkspaceInfo{Workspace: *created},
		}, nil

	case err != nil:
		return nil, fmt.Errorf("could not get workspace %q: %w", desired.Name, err)
	}

	changes := reconcile.WorkspaceDiff(*current, desired)
	if len(changes) == 0 {
		return &Report{
			Changed:   false,
			Message:   fmt.Sprintf("Workspace %q already in desired state", current.Name),
			Operation: "none",
			Workspace: &WorkspaceInfo{Workspace: *current},
		}, nil
	}

	updated, err := s.repo.UpdateWorkspace(ctx, *current, changes)
	if err != nil {
		return nil, fmt.Errorf("could not update workspace %q: %w", current.Name, err)
	}
	logger.Infof("Workspace updated (%d attributes)", len(changes))

	return &Report{
		Changed:   true,
		Message:   fmt.Sprintf("Updated workspace %q (%d attributes)", updated.Name, len(changes)),
		Operation: "update",
		Changes:   changes,
		Workspace: &WorkspaceInfo{Workspace: *updated},
	}, nil
}

// DeleteWorkspace deletes a workspace. Deleting a workspace that does not exist is a
// no-change success, not an error.
func (s Service) DeleteWorkspace(ctx context.Context, name string) (*Report, error) {
	err := model.ValidateWorkspaceName(name)
	if err != nil {
		return nil, err
	}

	_, err = s.resolveOrganization(ctx)
	if err != nil {
		return nil, err
	}

	_, err = s.repo.GetWorkspace(ctx, name)
	switch {
	case errors.Is(err, internalerrors.ErrNotFound):
		return &Report{
			Changed:   false,
			Message:   fmt.Sprintf("Workspace %q does not exist", name),
			Operation: "none",
		}, nil
	case err != nil:
		return nil, fmt.Errorf("could not get workspace %q: %w", name, err)
	}

	err = s.repo.DeleteWorkspace(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("could not delete workspace %q: %w", name, err)
	}
	s.logger.WithValues(log.Kv{"workspace": name}).Infof("Workspace deleted")

	return &Report{
		Changed:   true,
		Message:   fmt.Sprintf("Deleted workspace %q from organization %q", name, s.org),
		Operation: "delete",
	}, nil
}

// WorkspaceInfoOptions selects what a workspace info query attaches to each workspace.
type WorkspaceInfoOptions struct {
	IncludeVariables bool
	IncludeRuns      bool
	RunsLimit        int
}

// WorkspaceInfo reads one workspace by name, or lists every workspace of the
// organization when the name is empty. Attachment fetches (variables, runs) are best
// effort: a failure there degrades to an empty attachment instead of failing the whole
// query.
func (s Service) WorkspaceInfo(ctx context.Context, name string, opts WorkspaceInfoOptions) (*Report, error) {
	_, err := s.resolveOrganization(ctx)
	if err != nil {
		return nil, err
	}

	if name != "" {
		wk, err := s.repo.GetWorkspace(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("could not get workspace %q: %w", name, err)
		}

		info := s.attach(ctx, *wk, opts)

		return &Report{
			Changed:   false,
			Message:   fmt.Sprintf("Retrieved workspace %q", wk.Name),
			Workspace: &info,
		}, nil
	}

	wks, err := s.repo.ListWorkspaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list workspaces: %w", err)
	}

	infos := make([]WorkspaceInfo, 0, len(wks))
	for _, wk := range wks {
		infos = append(infos, s.attach(ctx, wk, opts))
	}

	return &Report{
		Changed:    false,
		Message:    fmt.Sprintf("Retrieved %d workspaces from organization %q", len(infos), s.org),
		Workspaces: infos,
	}, nil
}

func (s Service) attach(ctx context.Context, wk model.Workspace, opts WorkspaceInfoOptions) WorkspaceInfo {
	info := WorkspaceInfo{Workspace: wk}
	logger := s.logger.WithValues(log.Kv{"workspace": wk.Name})

	if opts.IncludeVariables {
		vars, err := s.repo.ListVariables(ctx, wk.ID)
		if err != nil {
			logger.Warningf("Could not list variables: %s", err)
		} else {
			info.Variables = vars
		}
	}

	if opts.IncludeRuns {
		runs, err := s.repo.ListRuns(ctx, wk.ID, opts.RunsLimit)
		if err != nil {
			logger.Warningf("Could not list runs: %s", err)
		} else {
			info.Runs = runs
		}
	}

	return info
}
