package operation_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/slok/tfe-sync/internal/internalerrors"
	"github.com/slok/tfe-sync/internal/model"
	"github.com/slok/tfe-sync/internal/operation"
	"github.com/slok/tfe-sync/internal/storage/tfe/tfemock"
)

func TestSyncVariables(t *testing.T) {
	org := &model.Organization{Name: "my-org"}
	wk := &model.Workspace{ID: "ws-1", Name: "wk1"}

	tests := map[string]struct {
		desired    []model.VariableConfig
		purge      bool
		mock       func(mr *tfemock.Repository)
		expChanged bool
		expOps     []operation.VariableOperationResult
		expErr     error
	}{
		"An invalid config should fail before any remote call.": {
			desired: []model.VariableConfig{
				{Key: "region", Value: "eu-west-1"},
				{Key: "", Value: "oops"},
			},
			mock:   func(mr *tfemock.Repository) {},
			expErr: internalerrors.ErrValidation,
		},

		"A desired list matching the current state should change nothing.": {
			desired: []model.VariableConfig{
				{Key: "region", Value: "eu-west-1"},
			},
			mock: func(mr *tfemock.Repository) {
				mr.On("GetOrganization", mock.Anything, "my-org").Once().Return(org, nil)
				mr.On("GetWorkspace", mock.Anything, "wk1").Once().Return(wk, nil)
				mr.On("ListVariables", mock.Anything, "ws-1").Once().Return([]model.Variable{
					{ID: "var-1", Key: "region", Value: "eu-west-1", Category: model.CategoryTerraform},
				}, nil)
			},
			expChanged: false,
			expOps: []operation.VariableOperationResult{
				{Operation: "unchanged", Variable: "region"},
			},
		},

		"Creates, updates and purge deletes should execute in plan order.": {
			desired: []model.VariableConfig{
				{Key: "b", Value: "2"},
				{Key: "d", Value: "4"},
			},
			purge: true,
			mock: func(mr *tfemock.Repository) {
				mr.On("GetOrganization", mock.Anything, "my-org").Once().Return(org, nil)
				mr.On("GetWorkspace", mock.Anything, "wk1").Once().Return(wk, nil)
				mr.On("ListVariables", mock.Anything, "ws-1").Once().Return([]model.Variable{
					{ID: "var-a", Key: "a", Value: "1", Category: model.CategoryTerraform},
					{ID: "var-b", Key: "b", Value: "old", Category: model.CategoryTerraform},
					{ID: "var-c", Key: "c", Value: "3", Category: model.CategoryTerraform},
				}, nil)
				mr.On("UpdateVariable", mock.Anything, "ws-1", "var-b", mock.Anything).Once().Return(&model.Variable{ID: "var-b", Key: "b", Value: "2"}, nil)
				mr.On("CreateVariable", mock.Anything, "ws-1", mock.Anything).Once().Return(&model.Variable{ID: "var-d", Key: "d", Value: "4"}, nil)
				mr.On("DeleteVariable", mock.Anything, "ws-1", "var-a").Once().Return(nil)
				mr.On("DeleteVariable", mock.Anything, "ws-1", "var-c").Once().Return(nil)
			},
			expChanged: true,
			expOps: []operation.VariableOperationResult{
				{Operation: "update", Variable: "b"},
				{Operation: "create", Variable: "d"},
				{Operation: "delete", Variable: "a"},
				{Operation: "delete", Variable: "c"},
			},
		},

		"A failing operation should abort the sync and propagate the error.": {
			desired: []model.VariableConfig{
				{Key: "region", Value: "us-east-1"},
			},
			mock: func(mr *tfemock.Repository) {
				mr.On("GetOrganization", mock.Anything, "my-org").Once().Return(org, nil)
				mr.On("GetWorkspace", mock.Anything, "wk1").Once().Return(wk, nil)
				mr.On("ListVariables", mock.Anything, "ws-1").Once().Return([]model.Variable{
					{ID: "var-1", Key: "region", Value: "eu-west-1", Category: model.CategoryTerraform},
				}, nil)
				mr.On("UpdateVariable", mock.Anything, "ws-1", "var-1", mock.Anything).Once().Return(nil, fmt.Errorf("conflict: %w", internalerrors.ErrConflict))
			},
			expErr: internalerrors.ErrConflict,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			mr := tfemock.NewRepository(t)
			test.mock(mr)
			svc := newTestService(t, mr)

			gotReport, err := svc.SyncVariables(context.Background(), "wk1", test.desired, test.purge)

			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
			} else if assert.NoError(err) {
				assert.Equal(test.expChanged, gotReport.Changed)
				assert.Equal(test.expOps, gotReport.Operations)
			}
		})
	}
}

func TestDeleteVariables(t *testing.T) {
	org := &model.Organization{Name: "my-org"}
	wk := &model.Workspace{ID: "ws-1", Name: "wk1"}

	tests := map[string]struct {
		keys       []string
		mock       func(mr *tfemock.Repository)
		expChanged bool
		expOps     []operation.VariableOperationResult
		expErr     error
	}{
		"No keys should fail validation.": {
			keys:   []string{},
			mock:   func(mr *tfemock.Repository) {},
			expErr: internalerrors.ErrValidation,
		},

		"Existing keys should be deleted and missing ones reported as not found.": {
			keys: []string{"region", "ghost"},
			mock: func(mr *tfemock.Repository) {
				mr.On("GetOrganization", mock.Anything, "my-org").Once().Return(org, nil)
				mr.On("GetWorkspace", mock.Anything, "wk1").Once().Return(wk, nil)
				mr.On("ListVariables", mock.Anything, "ws-1").Once().Return([]model.Variable{
					{ID: "var-1", Key: "region", Value: "eu-west-1"},
				}, nil)
				mr.On("DeleteVariable", mock.Anything, "ws-1", "var-1").Once().Return(nil)
			},
			expChanged: true,
			expOps: []operation.VariableOperationResult{
				{Operation: "delete", Variable: "region"},
				{Operation: "not_found", Variable: "ghost"},
			},
		},

		"Only missing keys should be a no-change success.": {
			keys: []string{"ghost"},
			mock: func(mr *tfemock.Repository) {
				mr.On("GetOrganization", mock.Anything, "my-org").Once().Return(org, nil)
				mr.On("GetWorkspace", mock.Anything, "wk1").Once().Return(wk, nil)
				mr.On("ListVariables", mock.Anything, "ws-1").Once().Return([]model.Variable{}, nil)
			},
			expChanged: false,
			expOps: []operation.VariableOperationResult{
				{Operation: "not_found", Variable: "ghost"},
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			mr := tfemock.NewRepository(t)
			test.mock(mr)
			svc := newTestService(t, mr)

			gotReport, err := svc.DeleteVariables(context.Background(), "wk1", test.keys)

			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
			} else if assert.NoError(err) {
				assert.Equal(test.expChanged, gotReport.Changed)
				assert.Equal(test.expOps, gotReport.Operations)
			}
		})
	}
}
