package operation

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/tfe-sync/internal/internalerrors"
	"github.com/slok/tfe-sync/internal/log"
	"github.com/slok/tfe-sync/internal/model"
	runpkg "github.com/slok/tfe-sync/internal/run"
)

// TriggerRunOptions controls the wait behavior of a run trigger.
type TriggerRunOptions struct {
	Wait    bool
	Timeout time.Duration
}

// TriggerRun queues a new run on a workspace. With wait enabled it blocks polling the
// run until it reaches a terminal status or stops at a manual confirmation gate; past
// the timeout the operation fails but the run keeps going server side.
func (s Service) TriggerRun(ctx context.Context, workspaceName string, config model.RunConfig, opts TriggerRunOptions) (*Report, error) {
	for _, addr := range append(append([]string{}, config.TargetAddrs...), config.ReplaceAddrs...) {
		if addr == "" {
			return nil, fmt.Errorf("resource addresses cannot be empty: %w", internalerrors.ErrValidation)
		}
	}

	if opts.Wait && opts.Timeout <= 0 {
		return nil, fmt.Errorf("wait timeout must be positive: %w", internalerrors.ErrValidation)
	}

	_, err := s.resolveOrganization(ctx)
	if err != nil {
		return nil, err
	}

	wk, err := s.repo.GetWorkspace(ctx, workspaceName)
	if err != nil {
		return nil, fmt.Errorf("could not get workspace %q: %w", workspaceName, err)
	}

	r, err := s.repo.CreateRun(ctx, *wk, config)
	if err != nil {
		return nil, fmt.Errorf("could not create run on workspace %q: %w", workspaceName, err)
	}

	logger := s.logger.WithValues(log.Kv{"workspace": workspaceName, "run-id": r.ID})
	logger.Infof("Run triggered")

	if !opts.Wait {
		return &Report{
			Changed:   true,
			Message:   fmt.Sprintf("Triggered run %q on workspace %q", r.ID, workspaceName),
			Operation: "trigger",
			Run:       r,
		}, nil
	}

	final, err := s.waiter.Wait(ctx, r.ID, opts.Timeout)
	if err != nil {
		return nil, err
	}
	logger.Infof("Run finished waiting with status %q", final.Status)

	return &Report{
		Changed:   true,
		Message:   fmt.Sprintf("Triggered run %q on workspace %q, finished with status %q", final.ID, workspaceName, final.Status),
		Operation: "trigger",
		Run:       final,
	}, nil
}

// ApplyRun confirms a run sitting at a manual gate. Confirming a run in any other
// status is a validation error naming the current status.
func (s Service) ApplyRun(ctx context.Context, runID, comment string) (*Report, error) {
	return s.confirmRun(ctx, runID, comment, "apply")
}

// DiscardRun discards a run sitting at a manual gate.
func (s Service) DiscardRun(ctx context.Context, runID, comment string) (*Report, error) {
	return s.confirmRun(ctx, runID, comment, "discard")
}

func (s Service) confirmRun(ctx context.Context, runID, comment, action string) (*Report, error) {
	if runID == "" {
		return nil, fmt.Errorf("run id is required: %w", internalerrors.ErrValidation)
	}

	r, err := s.repo.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("could not get run %q: %w", runID, err)
	}

	if !runpkg.CanConfirm(r.Status) {
		return nil, fmt.Errorf("run %q has status %q, only runs waiting for confirmation accept %s: %w", runID, r.Status, action, internalerrors.ErrValidation)
	}

	switch action {
	case "apply":
		err = s.repo.ApplyRun(ctx, runID, comment)
	case "discard":
		err = s.repo.DiscardRun(ctx, runID, comment)
	}
	if err != nil {
		return nil, fmt.Errorf("could not %s run %q: %w", action, runID, err)
	}

	final, err := s.repo.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("could not get run %q: %w", runID, err)
	}
	s.logger.WithValues(log.Kv{"run-id": runID}).Infof("Run %s requested", action)

	return &Report{
		Changed:   true,
		Message:   fmt.Sprintf("Requested %s of run %q, status is now %q", action, runID, final.Status),
		Operation: action,
		Run:       final,
	}, nil
}

// CancelRun cancels an in-flight run. Cancelling a run in a non-cancellable status is
// a validation error naming the current status.
func (s Service) CancelRun(ctx context.Context, runID, comment string) (*Report, error) {
	if runID == "" {
		return nil, fmt.Errorf("run id is required: %w", internalerrors.ErrValidation)
	}

	r, err := s.repo.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("could not get run %q: %w", runID, err)
	}

	if !runpkg.CanCancel(r.Status) {
		return nil, fmt.Errorf("run %q has status %q and cannot be canceled: %w", runID, r.Status, internalerrors.ErrValidation)
	}

	err = s.repo.CancelRun(ctx, runID, comment)
	if err != nil {
		return nil, fmt.Errorf("could not cancel run %q: %w", runID, err)
	}

	final, err := s.repo.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("could not get run %q: %w", runID, err)
	}
	s.logger.WithValues(log.Kv{"run-id": runID}).Infof("Run cancel requested")

	return &Report{
		Changed:   true,
		Message:   fmt.Sprintf("Requested cancel of run %q, status is now %q", runID, final.Status),
		Operation: "cancel",
		Run:       final,
	}, nil
}

// RunStatus reads the current state of a run, optionally with its plan and apply logs.
// Log retrieval is best effort.
func (s Service) RunStatus(ctx context.Context, runID string, includeLogs bool) (*Report, error) {
	if runID == "" {
		return nil, fmt.Errorf("run id is required: %w", internalerrors.ErrValidation)
	}

	r, err := s.repo.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("could not get run %q: %w", runID, err)
	}

	report := &Report{
		Changed: false,
		Message: fmt.Sprintf("Run %q has status %q", runID, r.Status),
		Run:     r,
	}

	if includeLogs {
		logs, err := s.repo.GetRunLogs(ctx, runID)
		if err != nil {
			s.logger.WithValues(log.Kv{"run-id": runID}).Warningf("Could not get run logs: %s", err)
		} else {
			report.Logs = logs
		}
	}

	return report, nil
}
