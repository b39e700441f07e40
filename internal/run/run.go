// Package run knows the TFE run state machine: which statuses are final, which wait
// for a human, and which transitions each run action accepts. It also implements the
// bounded wait loop used after triggering a run.
package run

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/tfe-sync/internal/internalerrors"
	"github.com/slok/tfe-sync/internal/log"
	"github.com/slok/tfe-sync/internal/model"
)

var terminalStatuses = map[model.RunStatus]bool{
	model.RunApplied:            true,
	model.RunDiscarded:          true,
	model.RunErrored:            true,
	model.RunCanceled:           true,
	model.RunForceCanceled:      true,
	model.RunPlannedAndFinished: true,
}

// manualGateStatuses are the statuses where a run sits waiting for confirmation.
var manualGateStatuses = map[model.RunStatus]bool{
	model.RunPlanned:       true,
	model.RunCostEstimated: true,
	model.RunPolicyChecked: true,
}

var cancellableStatuses = map[model.RunStatus]bool{
	model.RunPending:        true,
	model.RunPlanning:       true,
	model.RunPlanned:        true,
	model.RunCostEstimating: true,
	model.RunCostEstimated:  true,
	model.RunPolicyChecking: true,
	model.RunPolicyChecked:  true,
	model.RunApplying:       true,
	model.RunConfirmed:      true,
}

// IsTerminal returns true when the run can't transition anymore.
func IsTerminal(s model.RunStatus) bool { return terminalStatuses[s] }

// IsManualGate returns true when the run waits for a confirmation to continue.
func IsManualGate(s model.RunStatus) bool { return manualGateStatuses[s] }

// CanConfirm returns true when the run accepts an apply or a discard.
func CanConfirm(s model.RunStatus) bool { return manualGateStatuses[s] }

// CanCancel returns true when the run accepts a cancel.
func CanCancel(s model.RunStatus) bool { return cancellableStatuses[s] }

// Getter gets the fresh state of a run.
type Getter interface {
	GetRun(ctx context.Context, id string) (*model.Run, error)
}

// Waiter polls a run until it reaches a terminal status, stops at a manual gate the
// workspace won't auto-apply through, or runs out of time.
type Waiter struct {
	getter   Getter
	interval time.Duration
	logger   log.Logger
}

// NewWaiter returns a run waiter polling at the received interval.
func NewWaiter(logger log.Logger, g Getter, interval time.Duration) Waiter {
	if interval == 0 {
		interval = model.DefaultPollInterval
	}

	return Waiter{
		getter:   g,
		interval: interval,
		logger:   logger.WithValues(log.Kv{"svc": "run.Waiter"}),
	}
}

// Wait blocks until the run finishes, one status check every poll interval. It returns
// the run untouched (not an error) the moment it hits a manual-gate status on a
// workspace without auto-apply: approving is the caller's business, not ours. Past the
// timeout it fails with the timeout error kind naming the run.
//
// A run payload without the embedded workspace auto-apply attribute is treated as
// auto-apply disabled.
func (w Waiter) Wait(ctx context.Context, runID string, timeout time.Duration) (*model.Run, error) {
	logger := w.logger.WithValues(log.Kv{"run-id": runID})

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Check once before the first tick.
	r, err := w.getter.GetRun(ctx, runID)
	if err != nil {
		// Checks racing the deadline fail as timeouts, not as remote errors.
		if ctx.Err() != nil {
			return nil, fmt.Errorf("waiting for run %q to finish: %w", runID, internalerrors.ErrTimeout)
		}
		return nil, fmt.Errorf("could not get run %q: %w", runID, err)
	}
	if finished, r := w.settled(r); finished {
		return r, nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for run %q to finish: %w", runID, internalerrors.ErrTimeout)
		case <-ticker.C:
			r, err := w.getter.GetRun(ctx, runID)
			if err != nil {
				if ctx.Err() != nil {
					return nil, fmt.Errorf("waiting for run %q to finish: %w", runID, internalerrors.ErrTimeout)
				}
				return nil, fmt.Errorf("could not get run %q: %w", runID, err)
			}

			if finished, r := w.settled(r); finished {
				return r, nil
			}

			logger.Debugf("Run not finished (status %q), still waiting...", r.Status)
		}
	}
}

// settled tells whether the wait is over for the received run state.
func (w Waiter) settled(r *model.Run) (bool, *model.Run) {
	if IsTerminal(r.Status) {
		return true, r
	}

	if IsManualGate(r.Status) {
		autoApply := r.WorkspaceAutoApply != nil && *r.WorkspaceAutoApply
		if !autoApply {
			// Waiting for a human, nothing more to poll for.
			return true, r
		}
	}

	return false, r
}
