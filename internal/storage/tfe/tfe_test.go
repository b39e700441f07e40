package tfe_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	gotfe "github.com/hashicorp/go-tfe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/tfe-sync/internal/internalerrors"
	"github.com/slok/tfe-sync/internal/model"
	tfestorage "github.com/slok/tfe-sync/internal/storage/tfe"
	"github.com/slok/tfe-sync/internal/storage/tfe/tfemock"
)

func TestRepositoryListWorkspaces(t *testing.T) {
	tests := map[string]struct {
		mock    func(mc *tfemock.Client)
		expWks  []string
		expErr  bool
		expKind error
	}{
		"Listing workspaces over several pages should get them all.": {
			mock: func(mc *tfemock.Client) {
				mc.On("ListWorkspaces", mock.Anything, "my-org", &gotfe.WorkspaceListOptions{ListOptions: gotfe.ListOptions{PageNumber: 0}}).Once().Return(&gotfe.WorkspaceList{
					Pagination: &gotfe.Pagination{NextPage: 2},
					Items: []*gotfe.Workspace{
						{ID: "ws-1", Name: "wk1"},
						{ID: "ws-2", Name: "wk2"},
					},
				}, nil)
				mc.On("ListWorkspaces", mock.Anything, "my-org", &gotfe.WorkspaceListOptions{ListOptions: gotfe.ListOptions{PageNumber: 2}}).Once().Return(&gotfe.WorkspaceList{
					Pagination: &gotfe.Pagination{NextPage: 2},
					Items: []*gotfe.Workspace{
						{ID: "ws-3", Name: "wk3"},
					},
				}, nil)
			},
			expWks: []string{"wk1", "wk2", "wk3"},
		},

		"A failing list should classify the remote error.": {
			mock: func(mc *tfemock.Client) {
				mc.On("ListWorkspaces", mock.Anything, "my-org", mock.Anything).Once().Return(nil, fmt.Errorf("unauthorized"))
			},
			expErr:  true,
			expKind: internalerrors.ErrAuthentication,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			mc := tfemock.NewClient(t)
			test.mock(mc)

			repo, err := tfestorage.NewRepository(mc, "my-org")
			require.NoError(t, err)

			gotWks, err := repo.ListWorkspaces(context.Background())

			if test.expErr {
				if assert.Error(err) && test.expKind != nil {
					assert.ErrorIs(err, test.expKind)
				}
			} else if assert.NoError(err) {
				names := []string{}
				for _, wk := range gotWks {
					names = append(names, wk.Name)
				}
				assert.Equal(test.expWks, names)
			}
		})
	}
}

func TestRepositoryGetWorkspace(t *testing.T) {
	tests := map[string]struct {
		mock         func(mc *tfemock.Client)
		expWorkspace *model.Workspace
		expErr       error
	}{
		"A workspace should map every managed attribute.": {
			mock: func(mc *tfemock.Client) {
				wk := &gotfe.Workspace{
					ID:                  "ws-1",
					Name:                "wk1",
					Description:         "A workspace",
					TerraformVersion:    "1.5.7",
					WorkingDirectory:    "infra/",
					AutoApply:           true,
					FileTriggersEnabled: true,
					SpeculativeEnabled:  true,
					TriggerPrefixes:     []string{"modules/"},
					ExecutionMode:       "remote",
					TagNames:            []string{"team-a"},
					Project:             &gotfe.Project{ID: "prj-1"},
					VCSRepo: &gotfe.VCSRepo{
						Identifier:   "org/repo",
						Branch:       "main",
						OAuthTokenID: "ot-123",
					},
				}
				mc.On("ReadWorkspace", mock.Anything, "my-org", "wk1").Once().Return(wk, nil)
			},
			expWorkspace: &model.Workspace{
				ID:                  "ws-1",
				Name:                "wk1",
				Organization:        "my-org",
				Project:             "prj-1",
				Description:         "A workspace",
				TerraformVersion:    "1.5.7",
				WorkingDirectory:    "infra/",
				AutoApply:           true,
				FileTriggersEnabled: true,
				SpeculativeEnabled:  true,
				TriggerPrefixes:     []string{"modules/"},
				ExecutionMode:       "remote",
				TagNames:            []string{"team-a"},
				VCSRepo: &model.VCSRepo{
					Identifier:   "org/repo",
					Branch:       "main",
					OAuthTokenID: "ot-123",
				},
			},
		},

		"A missing workspace should classify as not found.": {
			mock: func(mc *tfemock.Client) {
				mc.On("ReadWorkspace", mock.Anything, "my-org", "wk1").Once().Return(nil, gotfe.ErrResourceNotFound)
			},
			expErr: internalerrors.ErrNotFound,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			mc := tfemock.NewClient(t)
			test.mock(mc)

			repo, err := tfestorage.NewRepository(mc, "my-org")
			require.NoError(t, err)

			gotWk, err := repo.GetWorkspace(context.Background(), "wk1")

			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
			} else if assert.NoError(err) {
				// The original API object is an opaque attachment.
				gotWk.OriginalObject = nil
				assert.Equal(test.expWorkspace, gotWk)
			}
		})
	}
}

func TestRepositoryUpdateWorkspace(t *testing.T) {
	tests := map[string]struct {
		current model.Workspace
		changes map[string]interface{}
		mock    func(mc *tfemock.Client)
		expErr  error
	}{
		"Attribute changes should travel in a single update call and re-read the workspace.": {
			current: model.Workspace{ID: "ws-1", Name: "wk1"},
			changes: map[string]interface{}{
				"description": "New description",
				"auto_apply":  true,
			},
			mock: func(mc *tfemock.Client) {
				mc.On("UpdateWorkspace", mock.Anything, "my-org", "wk1", gotfe.WorkspaceUpdateOptions{
					Description: gotfe.String("New description"),
					AutoApply:   gotfe.Bool(true),
				}).Once().Return(&gotfe.Workspace{ID: "ws-1", Name: "wk1"}, nil)
				mc.On("ReadWorkspace", mock.Anything, "my-org", "wk1").Once().Return(&gotfe.Workspace{ID: "ws-1", Name: "wk1", Description: "New description", AutoApply: true}, nil)
			},
		},

		"Tag changes should travel through the tag calls, not the update payload.": {
			current: model.Workspace{ID: "ws-1", Name: "wk1", TagNames: []string{"old", "kept"}},
			changes: map[string]interface{}{
				"tag_names": []string{"kept", "new"},
			},
			mock: func(mc *tfemock.Client) {
				mc.On("AddWorkspaceTags", mock.Anything, "ws-1", gotfe.WorkspaceAddTagsOptions{
					Tags: []*gotfe.Tag{{Name: "new"}},
				}).Once().Return(nil)
				mc.On("RemoveWorkspaceTags", mock.Anything, "ws-1", gotfe.WorkspaceRemoveTagsOptions{
					Tags: []*gotfe.Tag{{Name: "old"}},
				}).Once().Return(nil)
				mc.On("ReadWorkspace", mock.Anything, "my-org", "wk1").Once().Return(&gotfe.Workspace{ID: "ws-1", Name: "wk1", TagNames: []string{"kept", "new"}}, nil)
			},
		},

		"An unknown attribute should fail validation without touching the API.": {
			current: model.Workspace{ID: "ws-1", Name: "wk1"},
			changes: map[string]interface{}{
				"locked": true,
			},
			mock:   func(mc *tfemock.Client) {},
			expErr: internalerrors.ErrValidation,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			mc := tfemock.NewClient(t)
			test.mock(mc)

			repo, err := tfestorage.NewRepository(mc, "my-org")
			require.NoError(t, err)

			_, err = repo.UpdateWorkspace(context.Background(), test.current, test.changes)

			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
			} else {
				assert.NoError(err)
			}
		})
	}
}

func TestRepositoryCreateRun(t *testing.T) {
	tests := map[string]struct {
		workspace  model.Workspace
		config     model.RunConfig
		mock       func(mc *tfemock.Client)
		expMessage string
	}{
		"A run without a message should use the default one.": {
			workspace: model.Workspace{ID: "ws-1", Name: "wk1", OriginalObject: &gotfe.Workspace{ID: "ws-1"}},
			config:    model.RunConfig{},
			mock: func(mc *tfemock.Client) {
				mc.On("CreateRun", mock.Anything, gotfe.RunCreateOptions{
					Workspace: &gotfe.Workspace{ID: "ws-1"},
					Message:   gotfe.String(model.DefaultRunMessage),
					PlanOnly:  gotfe.Bool(false),
				}).Once().Return(&gotfe.Run{ID: "run-1", Message: model.DefaultRunMessage, Status: gotfe.RunPending}, nil)
			},
			expMessage: model.DefaultRunMessage,
		},

		"A run with targets should forward them.": {
			workspace: model.Workspace{ID: "ws-1", Name: "wk1", OriginalObject: &gotfe.Workspace{ID: "ws-1"}},
			config: model.RunConfig{
				Message:     "Replace the web server",
				TargetAddrs: []string{"aws_instance.web"},
			},
			mock: func(mc *tfemock.Client) {
				mc.On("CreateRun", mock.Anything, gotfe.RunCreateOptions{
					Workspace:   &gotfe.Workspace{ID: "ws-1"},
					Message:     gotfe.String("Replace the web server"),
					PlanOnly:    gotfe.Bool(false),
					TargetAddrs: []string{"aws_instance.web"},
				}).Once().Return(&gotfe.Run{ID: "run-1", Message: "Replace the web server", Status: gotfe.RunPending}, nil)
			},
			expMessage: "Replace the web server",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			mc := tfemock.NewClient(t)
			test.mock(mc)

			repo, err := tfestorage.NewRepository(mc, "my-org")
			require.NoError(t, err)

			gotRun, err := repo.CreateRun(context.Background(), test.workspace, test.config)

			if assert.NoError(err) {
				assert.Equal(test.expMessage, gotRun.Message)
			}
		})
	}
}

func TestRepositoryGetRun(t *testing.T) {
	tests := map[string]struct {
		mock   func(mc *tfemock.Client)
		expRun *model.Run
	}{
		"A run should map every attribute, the workspace relationship and the permissions.": {
			mock: func(mc *tfemock.Client) {
				mc.On("ReadRun", mock.Anything, "run-1", &gotfe.RunReadOptions{Include: []gotfe.RunIncludeOpt{gotfe.RunWorkspace}}).Once().Return(&gotfe.Run{
					ID:          "run-1",
					Status:      gotfe.RunPlanned,
					Message:     "Deploy",
					PlanOnly:    false,
					AutoApply:   true,
					TargetAddrs: []string{"aws_instance.web"},
					HasChanges:  true,
					Workspace:   &gotfe.Workspace{ID: "ws-1", Name: "wk1", AutoApply: true},
					Permissions: &gotfe.RunPermissions{
						CanApply:   true,
						CanCancel:  true,
						CanDiscard: true,
					},
				}, nil)
			},
			expRun: &model.Run{
				ID:                 "run-1",
				Status:             model.RunPlanned,
				Message:            "Deploy",
				AutoApply:          boolPointer(true),
				TargetAddrs:        []string{"aws_instance.web"},
				HasChanges:         true,
				WorkspaceID:        "ws-1",
				WorkspaceAutoApply: boolPointer(true),
				Permissions: model.RunPermissions{
					CanApply:   true,
					CanCancel:  true,
					CanDiscard: true,
				},
			},
		},

		"A run whose workspace relationship carries no attributes should leave the workspace auto-apply unknown.": {
			mock: func(mc *tfemock.Client) {
				mc.On("ReadRun", mock.Anything, "run-1", mock.Anything).Once().Return(&gotfe.Run{
					ID:        "run-1",
					Status:    gotfe.RunPending,
					Workspace: &gotfe.Workspace{ID: "ws-1"},
				}, nil)
			},
			expRun: &model.Run{
				ID:          "run-1",
				Status:      model.RunPending,
				AutoApply:   boolPointer(false),
				WorkspaceID: "ws-1",
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			mc := tfemock.NewClient(t)
			test.mock(mc)

			repo, err := tfestorage.NewRepository(mc, "my-org")
			require.NoError(t, err)

			gotRun, err := repo.GetRun(context.Background(), "run-1")

			if assert.NoError(err) {
				gotRun.OriginalObject = nil
				assert.Equal(test.expRun, gotRun)
			}
		})
	}
}

func boolPointer(b bool) *bool { return &b }

func TestRepositoryGetRunLogs(t *testing.T) {
	tests := map[string]struct {
		mock    func(mc *tfemock.Client)
		expLogs map[string]string
	}{
		"A run with plan and apply should get both logs.": {
			mock: func(mc *tfemock.Client) {
				mc.On("ReadRun", mock.Anything, "run-1", &gotfe.RunReadOptions{Include: []gotfe.RunIncludeOpt{gotfe.RunPlan, gotfe.RunApply}}).Once().Return(&gotfe.Run{
					ID:    "run-1",
					Plan:  &gotfe.Plan{ID: "plan-1"},
					Apply: &gotfe.Apply{ID: "apply-1"},
				}, nil)
				mc.On("ReadPlanLogs", mock.Anything, "plan-1").Once().Return(strings.NewReader("plan output"), nil)
				mc.On("ReadApplyLogs", mock.Anything, "apply-1").Once().Return(strings.NewReader("apply output"), nil)
			},
			expLogs: map[string]string{
				"plan":  "plan output",
				"apply": "apply output",
			},
		},

		"A failing apply log fetch should leave the entry out instead of failing.": {
			mock: func(mc *tfemock.Client) {
				mc.On("ReadRun", mock.Anything, "run-1", mock.Anything).Once().Return(&gotfe.Run{
					ID:    "run-1",
					Plan:  &gotfe.Plan{ID: "plan-1"},
					Apply: &gotfe.Apply{ID: "apply-1"},
				}, nil)
				mc.On("ReadPlanLogs", mock.Anything, "plan-1").Once().Return(strings.NewReader("plan output"), nil)
				mc.On("ReadApplyLogs", mock.Anything, "apply-1").Once().Return(nil, fmt.Errorf("something"))
			},
			expLogs: map[string]string{
				"plan": "plan output",
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			mc := tfemock.NewClient(t)
			test.mock(mc)

			repo, err := tfestorage.NewRepository(mc, "my-org")
			require.NoError(t, err)

			gotLogs, err := repo.GetRunLogs(context.Background(), "run-1")

			if assert.NoError(err) {
				assert.Equal(test.expLogs, gotLogs)
			}
		})
	}
}

func TestErrorClassification(t *testing.T) {
	tests := map[string]struct {
		err     error
		expKind error
	}{
		"A 404 style message should classify as not found.": {
			err:     fmt.Errorf("request failed: 404"),
			expKind: internalerrors.ErrNotFound,
		},

		"A forbidden message should classify as authentication.": {
			err:     fmt.Errorf("403 forbidden"),
			expKind: internalerrors.ErrAuthentication,
		},

		"A locked workspace message should classify as conflict.": {
			err:     fmt.Errorf("workspace is locked"),
			expKind: internalerrors.ErrConflict,
		},

		"An invalid attribute message should classify as validation.": {
			err:     fmt.Errorf("invalid attribute: name"),
			expKind: internalerrors.ErrValidation,
		},

		"Anything else should classify as a generic operation failure.": {
			err:     fmt.Errorf("something broke"),
			expKind: internalerrors.ErrOperation,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			mc := tfemock.NewClient(t)
			mc.On("ReadOrganization", mock.Anything, "my-org").Once().Return(nil, test.err)

			repo, err := tfestorage.NewRepository(mc, "my-org")
			require.NoError(t, err)

			_, err = repo.GetOrganization(context.Background(), "my-org")

			assert.ErrorIs(err, test.expKind)
		})
	}
}
