package normalize_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/slok/tfe-sync/internal/model"
	"github.com/slok/tfe-sync/internal/normalize"
)

func TestWorkspace(t *testing.T) {
	tests := map[string]struct {
		raw          map[string]interface{}
		expWorkspace model.Workspace
	}{
		"An envelope document should map its nested hyphenated attributes.": {
			raw: map[string]interface{}{
				"id": "ws-1",
				"attributes": map[string]interface{}{
					"name":                  "wk1",
					"description":           "A workspace",
					"terraform-version":     "1.5.7",
					"auto-apply":            true,
					"file-triggers-enabled": false,
					"execution-mode":        "local",
					"trigger-prefixes":      []interface{}{"modules/"},
					"tag-names":             []interface{}{"team-a"},
					"resource-count":        7,
					"created-at":            "2023-02-01T09:00:00Z",
					"vcs-repo": map[string]interface{}{
						"identifier":     "org/repo",
						"branch":         "main",
						"oauth-token-id": "ot-123",
					},
					"permissions": map[string]interface{}{
						"can-destroy": true,
					},
				},
				"relationships": map[string]interface{}{
					"organization": map[string]interface{}{
						"data": map[string]interface{}{"id": "my-org"},
					},
					"project": map[string]interface{}{
						"data": map[string]interface{}{"id": "prj-1"},
					},
				},
			},
			expWorkspace: model.Workspace{
				ID:                  "ws-1",
				Name:                "wk1",
				Organization:        "my-org",
				Project:             "prj-1",
				Description:         "A workspace",
				TerraformVersion:    "1.5.7",
				AutoApply:           true,
				FileTriggersEnabled: false,
				QueueAllRuns:        false,
				SpeculativeEnabled:  true,
				TriggerPrefixes:     []string{"modules/"},
				ExecutionMode:       "local",
				TagNames:            []string{"team-a"},
				VCSRepo: &model.VCSRepo{
					Identifier:   "org/repo",
					Branch:       "main",
					OAuthTokenID: "ot-123",
				},
				ResourceCount: 7,
				CreatedAt:     time.Date(2023, 2, 1, 9, 0, 0, 0, time.UTC),
				Permissions:   map[string]bool{"can_destroy": true},
			},
		},

		"A flat document should map its underscore attributes.": {
			raw: map[string]interface{}{
				"id":                "ws-2",
				"name":              "wk2",
				"organization":      "my-org",
				"terraform_version": "1.6.0",
				"auto_apply":        true,
				"execution_mode":    "remote",
				"tag_names":         []interface{}{"staging"},
				"vcs_repo": map[string]interface{}{
					"identifier":     "org/repo2",
					"oauth_token_id": "ot-456",
				},
			},
			expWorkspace: model.Workspace{
				ID:                  "ws-2",
				Name:                "wk2",
				Organization:        "my-org",
				TerraformVersion:    "1.6.0",
				AutoApply:           true,
				FileTriggersEnabled: true,
				SpeculativeEnabled:  true,
				ExecutionMode:       "remote",
				TagNames:            []string{"staging"},
				VCSRepo: &model.VCSRepo{
					Identifier:   "org/repo2",
					OAuthTokenID: "ot-456",
				},
			},
		},

		"Absent optional attributes should resolve against the defaults table.": {
			raw: map[string]interface{}{
				"name": "wk3",
			},
			expWorkspace: model.Workspace{
				Name:                "wk3",
				AutoApply:           false,
				FileTriggersEnabled: true,
				QueueAllRuns:        false,
				SpeculativeEnabled:  true,
				ExecutionMode:       "remote",
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			got := normalize.Workspace(test.raw)

			assert.Equal(test.expWorkspace, got)
		})
	}
}

func TestVariable(t *testing.T) {
	tests := map[string]struct {
		raw         map[string]interface{}
		expVariable model.Variable
	}{
		"A sensitive variable should come out masked whatever the document says.": {
			raw: map[string]interface{}{
				"id": "var-1",
				"attributes": map[string]interface{}{
					"key":       "token",
					"value":     "leaked-value",
					"category":  "env",
					"sensitive": true,
				},
			},
			expVariable: model.Variable{
				ID:        "var-1",
				Key:       "token",
				Value:     model.SensitiveValueMask,
				Category:  model.CategoryEnv,
				Sensitive: true,
			},
		},

		"A flat regular variable should keep its value and default its category.": {
			raw: map[string]interface{}{
				"id":    "var-2",
				"key":   "region",
				"value": "eu-west-1",
			},
			expVariable: model.Variable{
				ID:       "var-2",
				Key:      "region",
				Value:    "eu-west-1",
				Category: model.CategoryTerraform,
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			got := normalize.Variable(test.raw)

			assert.Equal(test.expVariable, got)
		})
	}
}

func TestRun(t *testing.T) {
	boolPtr := func(b bool) *bool { return &b }

	tests := map[string]struct {
		raw    map[string]interface{}
		expRun model.Run
	}{
		"An envelope run should map its workspace relationship and embedded auto-apply.": {
			raw: map[string]interface{}{
				"id": "run-1",
				"attributes": map[string]interface{}{
					"status":      "planned",
					"message":     "Triggered",
					"has-changes": true,
					"status-timestamps": map[string]interface{}{
						"planned-at": "2023-04-01T08:05:00Z",
					},
					"permissions": map[string]interface{}{
						"can-apply": true,
					},
				},
				"relationships": map[string]interface{}{
					"workspace": map[string]interface{}{
						"data": map[string]interface{}{"id": "ws-1"},
						"attributes": map[string]interface{}{
							"auto-apply": true,
						},
					},
				},
			},
			expRun: model.Run{
				ID:                 "run-1",
				WorkspaceID:        "ws-1",
				Status:             model.RunPlanned,
				Message:            "Triggered",
				HasChanges:         true,
				WorkspaceAutoApply: boolPtr(true),
				StatusTimestamps: map[string]time.Time{
					"planned_at": time.Date(2023, 4, 1, 8, 5, 0, 0, time.UTC),
				},
				Permissions: model.RunPermissions{CanApply: true},
			},
		},

		"A flat run without the workspace auto-apply attribute should leave it absent.": {
			raw: map[string]interface{}{
				"id":           "run-2",
				"workspace_id": "ws-2",
				"status":       "applied",
				"plan_only":    true,
				"target_addrs": []interface{}{"aws_instance.web"},
			},
			expRun: model.Run{
				ID:          "run-2",
				WorkspaceID: "ws-2",
				Status:      model.RunApplied,
				PlanOnly:    true,
				TargetAddrs: []string{"aws_instance.web"},
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			got := normalize.Run(test.raw)

			assert.Equal(test.expRun, got)
		})
	}
}

func TestOrganization(t *testing.T) {
	tests := map[string]struct {
		raw    map[string]interface{}
		expOrg model.Organization
	}{
		"An envelope organization should map the plan identifier.": {
			raw: map[string]interface{}{
				"id": "my-org",
				"attributes": map[string]interface{}{
					"name":                    "my-org",
					"email":                   "ops@my-org.test",
					"plan":                    map[string]interface{}{"identifier": "business"},
					"cost-estimation-enabled": true,
				},
			},
			expOrg: model.Organization{
				Name:                  "my-org",
				Email:                 "ops@my-org.test",
				Plan:                  "business",
				CostEstimationEnabled: true,
			},
		},

		"A flat organization with a plain plan string should map it directly.": {
			raw: map[string]interface{}{
				"name": "my-org",
				"plan": "free",
			},
			expOrg: model.Organization{
				Name: "my-org",
				Plan: "free",
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			got := normalize.Organization(test.raw)

			assert.Equal(test.expOrg, got)
		})
	}
}
