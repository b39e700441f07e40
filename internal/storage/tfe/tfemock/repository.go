package tfemock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/slok/tfe-sync/internal/model"
)

// Repository is a mock type for the storage tfe.Repository interface.
type Repository struct {
	mock.Mock
}

// NewRepository creates a new Repository mock registering test cleanup expectations check.
func NewRepository(t mockConstructorTestingT) *Repository {
	m := &Repository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *Repository) ListOrganizations(ctx context.Context) ([]model.Organization, error) {
	ret := _m.Called(ctx)
	var r0 []model.Organization
	if v := ret.Get(0); v != nil {
		r0 = v.([]model.Organization)
	}
	return r0, ret.Error(1)
}

func (_m *Repository) GetOrganization(ctx context.Context, name string) (*model.Organization, error) {
	ret := _m.Called(ctx, name)
	var r0 *model.Organization
	if v := ret.Get(0); v != nil {
		r0 = v.(*model.Organization)
	}
	return r0, ret.Error(1)
}

func (_m *Repository) ListWorkspaces(ctx context.Context) ([]model.Workspace, error) {
	ret := _m.Called(ctx)
	var r0 []model.Workspace
	if v := ret.Get(0); v != nil {
		r0 = v.([]model.Workspace)
	}
	return r0, ret.Error(1)
}

func (_m *Repository) GetWorkspace(ctx context.Context, name string) (*model.Workspace, error) {
	ret := _m.Called(ctx, name)
	var r0 *model.Workspace
	if v := ret.Get(0); v != nil {
		r0 = v.(*model.Workspace)
	}
	return r0, ret.Error(1)
}

func (_m *Repository) CreateWorkspace(ctx context.Context, desired model.Workspace) (*model.Workspace, error) {
	ret := _m.Called(ctx, desired)
	var r0 *model.Workspace
	if v := ret.Get(0); v != nil {
		r0 = v.(*model.Workspace)
	}
	return r0, ret.Error(1)
}

func (_m *Repository) UpdateWorkspace(ctx context.Context, current model.Workspace, changes map[string]interface{}) (*model.Workspace, error) {
	ret := _m.Called(ctx, current, changes)
	var r0 *model.Workspace
	if v := ret.Get(0); v != nil {
		r0 = v.(*model.Workspace)
	}
	return r0, ret.Error(1)
}

func (_m *Repository) DeleteWorkspace(ctx context.Context, name string) error {
	ret := _m.Called(ctx, name)
	return ret.Error(0)
}

func (_m *Repository) ListVariables(ctx context.Context, workspaceID string) ([]model.Variable, error) {
	ret := _m.Called(ctx, workspaceID)
	var r0 []model.Variable
	if v := ret.Get(0); v != nil {
		r0 = v.([]model.Variable)
	}
	return r0, ret.Error(1)
}

func (_m *Repository) CreateVariable(ctx context.Context, workspaceID string, config model.VariableConfig) (*model.Variable, error) {
	ret := _m.Called(ctx, workspaceID, config)
	var r0 *model.Variable
	if v := ret.Get(0); v != nil {
		r0 = v.(*model.Variable)
	}
	return r0, ret.Error(1)
}

func (_m *Repository) UpdateVariable(ctx context.Context, workspaceID, variableID string, config model.VariableConfig) (*model.Variable, error) {
	ret := _m.Called(ctx, workspaceID, variableID, config)
	var r0 *model.Variable
	if v := ret.Get(0); v != nil {
		r0 = v.(*model.Variable)
	}
	return r0, ret.Error(1)
}

func (_m *Repository) DeleteVariable(ctx context.Context, workspaceID, variableID string) error {
	ret := _m.Called(ctx, workspaceID, variableID)
	return ret.Error(0)
}

func (_m *Repository) CreateRun(ctx context.Context, wk model.Workspace, config model.RunConfig) (*model.Run, error) {
	ret := _m.Called(ctx, wk, config)
	var r0 *model.Run
	if v := ret.Get(0); v != nil {
		r0 = v.(*model.Run)
	}
	return r0, ret.Error(1)
}

func (_m *Repository) GetRun(ctx context.Context, id string) (*model.Run, error) {
	ret := _m.Called(ctx, id)
	var r0 *model.Run
	if v := ret.Get(0); v != nil {
		r0 = v.(*model.Run)
	}
	return r0, ret.Error(1)
}

func (_m *Repository) ListRuns(ctx context.Context, workspaceID string, limit int) ([]model.Run, error) {
	ret := _m.Called(ctx, workspaceID, limit)
	var r0 []model.Run
	if v := ret.Get(0); v != nil {
		r0 = v.([]model.Run)
	}
	return r0, ret.Error(1)
}

func (_m *Repository) ApplyRun(ctx context.Context, id, comment string) error {
	ret := _m.Called(ctx, id, comment)
	return ret.Error(0)
}

func (_m *Repository) DiscardRun(ctx context.Context, id, comment string) error {
	ret := _m.Called(ctx, id, comment)
	return ret.Error(0)
}

func (_m *Repository) CancelRun(ctx context.Context, id, comment string) error {
	ret := _m.Called(ctx, id, comment)
	return ret.Error(0)
}

func (_m *Repository) GetRunLogs(ctx context.Context, id string) (map[string]string, error) {
	ret := _m.Called(ctx, id)
	var r0 map[string]string
	if v := ret.Get(0); v != nil {
		r0 = v.(map[string]string)
	}
	return r0, ret.Error(1)
}
