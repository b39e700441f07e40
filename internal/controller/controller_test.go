package controller_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/tfe-sync/internal/controller"
	"github.com/slok/tfe-sync/internal/desired"
	"github.com/slok/tfe-sync/internal/model"
	"github.com/slok/tfe-sync/internal/operation"
)

type applierFunc struct {
	mu        sync.Mutex
	ensured   []string
	synced    []string
	ensureErr map[string]error
}

func (a *applierFunc) EnsureWorkspace(_ context.Context, wk model.Workspace) (*operation.Report, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ensured = append(a.ensured, wk.Name)
	if err := a.ensureErr[wk.Name]; err != nil {
		return nil, err
	}
	return &operation.Report{Changed: true}, nil
}

func (a *applierFunc) SyncVariables(_ context.Context, workspaceName string, _ []model.VariableConfig, _ bool) (*operation.Report, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.synced = append(a.synced, workspaceName)
	return &operation.Report{Changed: false}, nil
}

func TestSyncerRun(t *testing.T) {
	assert := assert.New(t)

	state := &desired.State{
		Workspaces: []desired.WorkspaceState{
			{Workspace: model.Workspace{Name: "wk-broken"}},
			{Workspace: model.Workspace{Name: "wk-ok"}, Variables: []model.VariableConfig{{Key: "region", Value: "eu-west-1"}}},
		},
	}

	applier := &applierFunc{ensureErr: map[string]error{"wk-broken": fmt.Errorf("something")}}
	syncer, err := controller.NewSyncer(controller.SyncerConfig{
		Applier:  applier,
		State:    state,
		Interval: 1 * time.Hour,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = syncer.Run(ctx)
	assert.ErrorIs(err, context.DeadlineExceeded)

	// The first pass runs before the first tick: a failing workspace does not stop
	// the one after it, and only workspaces with variables get a variable sync.
	assert.Equal([]string{"wk-broken", "wk-ok"}, applier.ensured)
	assert.Equal([]string{"wk-ok"}, applier.synced)
}

func TestSyncerConfigValidation(t *testing.T) {
	tests := map[string]struct {
		config controller.SyncerConfig
		expErr bool
	}{
		"A config without interval should be invalid.": {
			config: controller.SyncerConfig{
				Applier: &applierFunc{},
				State:   &desired.State{Workspaces: []desired.WorkspaceState{{}}},
			},
			expErr: true,
		},

		"A config without applier should be invalid.": {
			config: controller.SyncerConfig{
				State:    &desired.State{Workspaces: []desired.WorkspaceState{{}}},
				Interval: time.Minute,
			},
			expErr: true,
		},

		"A config without workspaces should be invalid.": {
			config: controller.SyncerConfig{
				Applier:  &applierFunc{},
				State:    &desired.State{},
				Interval: time.Minute,
			},
			expErr: true,
		},

		"A complete config should be valid.": {
			config: controller.SyncerConfig{
				Applier:  &applierFunc{},
				State:    &desired.State{Workspaces: []desired.WorkspaceState{{}}},
				Interval: time.Minute,
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := controller.NewSyncer(test.config)

			if test.expErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
		})
	}
}
