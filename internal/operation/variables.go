package operation

import (
	"context"
	"fmt"

	"github.com/slok/tfe-sync/internal/internalerrors"
	"github.com/slok/tfe-sync/internal/log"
	"github.com/slok/tfe-sync/internal/model"
	"github.com/slok/tfe-sync/internal/reconcile"
)

// SyncVariables converges the variable set of a workspace to the desired list.
// Operations execute in plan order and the first failure aborts the sync, leaving the
// already applied operations in place. With purge, current variables absent from the
// desired list are deleted.
func (s Service) SyncVariables(ctx context.Context, workspaceName string, desired []model.VariableConfig, purge bool) (*Report, error) {
	// All configs must be valid before anything touches the API.
	for _, cfg := range desired {
		err := cfg.Validate()
		if err != nil {
			return nil, err
		}
	}

	_, err := s.resolveOrganization(ctx)
	if err != nil {
		return nil, err
	}

	wk, err := s.repo.GetWorkspace(ctx, workspaceName)
	if err != nil {
		return nil, fmt.Errorf("could not get workspace %q: %w", workspaceName, err)
	}

	currentList, err := s.repo.ListVariables(ctx, wk.ID)
	if err != nil {
		return nil, fmt.Errorf("could not list variables of workspace %q: %w", workspaceName, err)
	}

	current := map[string]model.Variable{}
	for _, v := range currentList {
		current[v.Key] = v
	}

	plan := reconcile.PlanVariables(current, desired, purge)
	logger := s.logger.WithValues(log.Kv{"workspace": workspaceName})

	changed := false
	results := make([]VariableOperationResult, 0, len(plan))
	final := map[string]model.Variable{}

	for _, op := range plan {
		switch op.Kind {
		case reconcile.OperationCreate:
			v, err := s.repo.CreateVariable(ctx, wk.ID, op.Config)
			if err != nil {
				return nil, fmt.Errorf("could not create variable %q: %w", op.Key, err)
			}
			final[op.Key] = *v
			changed = true
			logger.Infof("Variable %q created", op.Key)

		case reconcile.OperationUpdate:
			v, err := s.repo.UpdateVariable(ctx, wk.ID, op.VariableID, op.Config)
			if err != nil {
				return nil, fmt.Errorf("could not update variable %q: %w", op.Key, err)
			}
			final[op.Key] = *v
			changed = true
			logger.Infof("Variable %q updated", op.Key)

		case reconcile.OperationDelete:
			err := s.repo.DeleteVariable(ctx, wk.ID, op.VariableID)
			if err != nil {
				return nil, fmt.Errorf("could not delete variable %q: %w", op.Key, err)
			}
			changed = true
			logger.Infof("Variable %q deleted", op.Key)

		case reconcile.OperationUnchanged:
			final[op.Key] = current[op.Key]
		}

		results = append(results, VariableOperationResult{Operation: string(op.Kind), Variable: op.Key})
	}

	return &Report{
		Changed:    changed,
		Message:    fmt.Sprintf("Managed %d variables for workspace %q", len(desired), workspaceName),
		Variables:  final,
		Operations: results,
	}, nil
}

// DeleteVariables deletes the received variable keys from a workspace. Keys that do
// not exist are reported as not found without failing the operation.
func (s Service) DeleteVariables(ctx context.Context, workspaceName string, keys []string) (*Report, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("at least one variable key is required: %w", internalerrors.ErrValidation)
	}

	_, err := s.resolveOrganization(ctx)
	if err != nil {
		return nil, err
	}

	wk, err := s.repo.GetWorkspace(ctx, workspaceName)
	if err != nil {
		return nil, fmt.Errorf("could not get workspace %q: %w", workspaceName, err)
	}

	currentList, err := s.repo.ListVariables(ctx, wk.ID)
	if err != nil {
		return nil, fmt.Errorf("could not list variables of workspace %q: %w", workspaceName, err)
	}

	current := map[string]model.Variable{}
	for _, v := range currentList {
		current[v.Key] = v
	}

	logger := s.logger.WithValues(log.Kv{"workspace": workspaceName})

	changed := false
	results := make([]VariableOperationResult, 0, len(keys))
	for _, key := range keys {
		v, ok := current[key]
		if !ok {
			results = append(results, VariableOperationResult{Operation: "not_found", Variable: key})
			continue
		}

		err := s.repo.DeleteVariable(ctx, wk.ID, v.ID)
		if err != nil {
			return nil, fmt.Errorf("could not delete variable %q: %w", key, err)
		}
		changed = true
		logger.Infof("Variable %q deleted", key)
		results = append(results, VariableOperationResult{Operation: "delete", Variable: key})
	}

	return &Report{
		Changed:    changed,
		Message:    fmt.Sprintf("Deleted variables from workspace %q", workspaceName),
		Operations: results,
	}, nil
}
