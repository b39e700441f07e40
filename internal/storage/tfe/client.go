package tfe

import (
	"context"
	"io"

	"github.com/hashicorp/go-tfe"
)

// Client is a helper interface to be able to manage in a simpler way the TFE official client.
type Client interface {
	ListOrganizations(ctx context.Context, options *tfe.OrganizationListOptions) (*tfe.OrganizationList, error)
	ReadOrganization(ctx context.Context, name string) (*tfe.Organization, error)
	ListWorkspaces(ctx context.Context, organization string, options *tfe.WorkspaceListOptions) (*tfe.WorkspaceList, error)
	ReadWorkspace(ctx context.Context, organization, name string) (*tfe.Workspace, error)
	CreateWorkspace(ctx context.Context, organization string, options tfe.WorkspaceCreateOptions) (*tfe.Workspace, error)
	UpdateWorkspace(ctx context.Context, organization, name string, options tfe.WorkspaceUpdateOptions) (*tfe.Workspace, error)
	DeleteWorkspace(ctx context.Context, organization, name string) error
	AddWorkspaceTags(ctx context.Context, workspaceID string, options tfe.WorkspaceAddTagsOptions) error
	RemoveWorkspaceTags(ctx context.Context, workspaceID string, options tfe.WorkspaceRemoveTagsOptions) error
	ListVariables(ctx context.Context, workspaceID string, options *tfe.VariableListOptions) (*tfe.VariableList, error)
	CreateVariable(ctx context.Context, workspaceID string, options tfe.VariableCreateOptions) (*tfe.Variable, error)
	UpdateVariable(ctx context.Context, workspaceID, variableID string, options tfe.VariableUpdateOptions) (*tfe.Variable, error)
	DeleteVariable(ctx context.Context, workspaceID, variableID string) error
	CreateRun(ctx context.Context, options tfe.RunCreateOptions) (*tfe.Run, error)
	ReadRun(ctx context.Context, runID string, options *tfe.RunReadOptions) (*tfe.Run, error)
	ListRuns(ctx context.Context, workspaceID string, options *tfe.RunListOptions) (*tfe.RunList, error)
	ApplyRun(ctx context.Context, runID string, options tfe.RunApplyOptions) error
	DiscardRun(ctx context.Context, runID string, options tfe.RunDiscardOptions) error
	CancelRun(ctx context.Context, runID string, options tfe.RunCancelOptions) error
	ReadPlanLogs(ctx context.Context, planID string) (io.Reader, error)
	ReadApplyLogs(ctx context.Context, applyID string) (io.Reader, error)
}

func NewClient(c *tfe.Client) Client {
	return tfeClient{c: c}
}

type tfeClient struct {
	c *tfe.Client
}

func (t tfeClient) ListOrganizations(ctx context.Context, options *tfe.OrganizationListOptions) (*tfe.OrganizationList, error) {
	return t.c.Organizations.List(ctx, options)
}

func (t tfeClient) ReadOrganization(ctx context.Context, name string) (*tfe.Organization, error) {
	return t.c.Organizations.Read(ctx, name)
}

func (t tfeClient) ListWorkspaces(ctx context.Context, organization string, options *tfe.WorkspaceListOptions) (*tfe.WorkspaceList, error) {
	return t.c.Workspaces.List(ctx, organization, options)
}

func (t tfeClient) ReadWorkspace(ctx context.Context, organization, name string) (*tfe.Workspace, error) {
	return t.c.Workspaces.Read(ctx, organization, name)
}

func (t tfeClient) CreateWorkspace(ctx context.Context, organization string, options tfe.WorkspaceCreateOptions) (*tfe.Workspace, error) {
	return t.c.Workspaces.Create(ctx, organization, options)
}

func (t tfeClient) UpdateWorkspace(ctx context.Context, organization, name string, options tfe.WorkspaceUpdateOptions) (*tfe.Workspace, error) {
	return t.c.Workspaces.Update(ctx, organization, name, options)
}

func (t tfeClient) DeleteWorkspace(ctx context.Context, organization, name string) error {
	return t.c.Workspaces.Delete(ctx, organization, name)
}

func (t tfeClient) AddWorkspaceTags(ctx context.Context, workspaceID string, options tfe.WorkspaceAddTagsOptions) error {
	return t.c.Workspaces.AddTags(ctx, workspaceID, options)
}

func (t tfeClient) RemoveWorkspaceTags(ctx context.Context, workspaceID string, options tfe.WorkspaceRemoveTagsOptions) error {
	return t.c.Workspaces.RemoveTags(ctx, workspaceID, options)
}

func (t tfeClient) ListVariables(ctx context.Context, workspaceID string, options *tfe.VariableListOptions) (*tfe.VariableList, error) {
	return t.c.Variables.List(ctx, workspaceID, options)
}

func (t tfeClient) CreateVariable(ctx context.Context, workspaceID string, options tfe.VariableCreateOptions) (*tfe.Variable, error) {
	return t.c.Variables.Create(ctx, workspaceID, options)
}

func (t tfeClient) UpdateVariable(ctx context.Context, workspaceID, variableID string, options tfe.VariableUpdateOptions) (*tfe.Variable, error) {
	return t.c.Variables.Update(ctx, workspaceID, variableID, options)
}

func (t tfeClient) DeleteVariable(ctx context.Context, workspaceID, variableID string) error {
	return t.c.Variables.Delete(ctx, workspaceID, variableID)
}

func (t tfeClient) CreateRun(ctx context.Context, options tfe.RunCreateOptions) (*tfe.Run, error) {
	return t.c.Runs.Create(ctx, options)
}

func (t tfeClient) ReadRun(ctx context.Context, runID string, options *tfe.RunReadOptions) (*tfe.Run, error) {
	return t.c.Runs.ReadWithOptions(ctx, runID, options)
}

func (t tfeClient) ListRuns(ctx context.Context, workspaceID string, options *tfe.RunListOptions) (*tfe.RunList, error) {
	return t.c.Runs.List(ctx, workspaceID, options)
}

func (t tfeClient) ApplyRun(ctx context.Context, runID string, options tfe.RunApplyOptions) error {
	return t.c.Runs.Apply(ctx, runID, options)
}

func (t tfeClient) DiscardRun(ctx context.Context, runID string, options tfe.RunDiscardOptions) error {
	return t.c.Runs.Discard(ctx, runID, options)
}

func (t tfeClient) CancelRun(ctx context.Context, runID string, options tfe.RunCancelOptions) error {
	return t.c.Runs.Cancel(ctx, runID, options)
}

func (t tfeClient) ReadPlanLogs(ctx context.Context, planID string) (io.Reader, error) {
	return t.c.Plans.Logs(ctx, planID)
}

func (t tfeClient) ReadApplyLogs(ctx context.Context, applyID string) (io.Reader, error) {
	return t.c.Applies.Logs(ctx, applyID)
}
