// Package tfemock has hand maintained testify mocks for the storage interfaces.
package tfemock

import (
	"context"
	"io"

	"github.com/hashicorp/go-tfe"
	"github.com/stretchr/testify/mock"
)

// Client is a mock type for the storage tfe.Client interface.
type Client struct {
	mock.Mock
}

type mockConstructorTestingT interface {
	mock.TestingT
	Cleanup(func())
}

// NewClient creates a new Client mock registering test cleanup expectations check.
func NewClient(t mockConstructorTestingT) *Client {
	m := &Client{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *Client) ListOrganizations(ctx context.Context, options *tfe.OrganizationListOptions) (*tfe.OrganizationList, error) {
	ret := _m.Called(ctx, options)
	var r0 *tfe.OrganizationList
	if v := ret.Get(0); v != nil {
		r0 = v.(*tfe.OrganizationList)
	}
	return r0, ret.Error(1)
}

func (_m *Client) ReadOrganization(ctx context.Context, name string) (*tfe.Organization, error) {
	ret := _m.Called(ctx, name)
	var r0 *tfe.Organization
	if v := ret.Get(0); v != nil {
		r0 = v.(*tfe.Organization)
	}
	return r0, ret.Error(1)
}

func (_m *Client) ListWorkspaces(ctx context.Context, organization string, options *tfe.WorkspaceListOptions) (*tfe.WorkspaceList, error) {
	ret := _m.Called(ctx, organization, options)
	var r0 *tfe.WorkspaceList
	if v := ret.Get(0); v != nil {
		r0 = v.(*tfe.WorkspaceList)
	}
	return r0, ret.Error(1)
}

func (_m *Client) ReadWorkspace(ctx context.Context, organization, name string) (*tfe.Workspace, error) {
	ret := _m.Called(ctx, organization, name)
	var r0 *tfe.Workspace
	if v := ret.Get(0); v != nil {
		r0 = v.(*tfe.Workspace)
	}
	return r0, ret.Error(1)
}

func (_m *Client) CreateWorkspace(ctx context.Context, organization string, options tfe.WorkspaceCreateOptions) (*tfe.Workspace, error) {
	ret := _m.Called(ctx, organization, options)
	var r0 *tfe.Workspace
	if v := ret.Get(0); v != nil {
		r0 = v.(*tfe.Workspace)
	}
	return r0, ret.Error(1)
}

func (_m *Client) UpdateWorkspace(ctx context.Context, organization, name string, options tfe.WorkspaceUpdateOptions) (*tfe.Workspace, error) {
	ret := _m.Called(ctx, organization, name, options)
	var r0 *tfe.Workspace
	if v := ret.Get(0); v != nil {
		r0 = v.(*tfe.Workspace)
	}
	return r0, ret.Error(1)
}

func (_m *Client) DeleteWorkspace(ctx context.Context, organization, name string) error {
	ret := _m.Called(ctx, organization, name)
	return ret.Error(0)
}

func (_m *Client) AddWorkspaceTags(ctx context.Context, workspaceID string, options tfe.WorkspaceAddTagsOptions) error {
	ret := _m.Called(ctx, workspaceID, options)
	return ret.Error(0)
}

func (_m *Client) RemoveWorkspaceTags(ctx context.Context, workspaceID string, options tfe.WorkspaceRemoveTagsOptions) error {
	ret := _m.Called(ctx, workspaceID, options)
	return ret.Error(0)
}

func (_m *Client) ListVariables(ctx context.Context, workspaceID string, options *tfe.VariableListOptions) (*tfe.VariableList, error) {
	ret := _m.Called(ctx, workspaceID, options)
	var r0 *tfe.VariableList
	if v := ret.Get(0); v != nil {
		r0 = v.(*tfe.VariableList)
	}
	return r0, ret.Error(1)
}

func (_m *Client) CreateVariable(ctx context.Context, workspaceID string, options tfe.VariableCreateOptions) (*tfe.Variable, error) {
	ret := _m.Called(ctx, workspaceID, options)
	var r0 *tfe.Variable
	if v := ret.Get(0); v != nil {
		r0 = v.(*tfe.Variable)
	}
	return r0, ret.Error(1)
}

func (_m *Client) UpdateVariable(ctx context.Context, workspaceID, variableID string, options tfe.VariableUpdateOptions) (*tfe.Variable, error) {
	ret := _m.Called(ctx, workspaceID, variableID, options)
	var r0 *tfe.Variable
	if v := ret.Get(0); v != nil {
		r0 = v.(*tfe.Variable)
	}
	return r0, ret.Error(1)
}

func (_m *Client) DeleteVariable(ctx context.Context, workspaceID, variableID string) error {
	ret := _m.Called(ctx, workspaceID, variableID)
	return ret.Error(0)
}

func (_m *Client) CreateRun(ctx context.Context, options tfe.RunCreateOptions) (*tfe.Run, error) {
	ret := _m.Called(ctx, options)
	var r0 *tfe.Run
	if v := ret.Get(0); v != nil {
		r0 = v.(*tfe.Run)
	}
	return r0, ret.Error(1)
}

func (_m *Client) ReadRun(ctx context.Context, runID string, options *tfe.RunReadOptions) (*tfe.Run, error) {
	ret := _m.Called(ctx, runID, options)
	var r0 *tfe.Run
	if v := ret.Get(0); v != nil {
		r0 = v.(*tfe.Run)
	}
	return r0, ret.Error(1)
}

func (_m *Client) ListRuns(ctx context.Context, workspaceID string, options *tfe.RunListOptions) (*tfe.RunList, error) {
	ret := _m.Called(ctx, workspaceID, options)
	var r0 *tfe.RunList
	if v := ret.Get(0); v != nil {
		r0 = v.(*tfe.RunList)
	}
	return r0, ret.Error(1)
}

func (_m *Client) ApplyRun(ctx context.Context, runID string, options tfe.RunApplyOptions) error {
	ret := _m.Called(ctx, runID, options)
	return ret.Error(0)
}

func (_m *Client) DiscardRun(ctx context.Context, runID string, options tfe.RunDiscardOptions) error {
	ret := _m.Called(ctx, runID, options)
	return ret.Error(0)
}

func (_m *Client) CancelRun(ctx context.Context, runID string, options tfe.RunCancelOptions) error {
	ret := _m.Called(ctx, runID, options)
	return ret.Error(0)
}

func (_m *Client) ReadPlanLogs(ctx context.Context, planID string) (io.Reader, error) {
	ret := _m.Called(ctx, planID)
	var r0 io.Reader
	if v := ret.Get(0); v != nil {
		r0 = v.(io.Reader)
	}
	return r0, ret.Error(1)
}

func (_m *Client) ReadApplyLogs(ctx context.Context, applyID string) (io.Reader, error) {
	ret := _m.Called(ctx, applyID)
	var r0 io.Reader
	if v := ret.Get(0); v != nil {
		r0 = v.(io.Reader)
	}
	return r0, ret.Error(1)
}
