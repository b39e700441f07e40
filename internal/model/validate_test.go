package model_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/tfe-sync/internal/internalerrors"
	"github.com/slok/tfe-sync/internal/model"
)

func TestValidateWorkspaceName(t *testing.T) {
	tests := map[string]struct {
		name   string
		expErr bool
	}{
		"A regular name should be valid.": {
			name: "my-workspace_1",
		},

		"A name of exactly 90 characters should be valid.": {
			name: strings.Repeat("a", 90),
		},

		"A name over 90 characters should be invalid.": {
			name:   strings.Repeat("a", 91),
			expErr: true,
		},

		"An empty name should be invalid.": {
			name:   "",
			expErr: true,
		},

		"A name with spaces should be invalid.": {
			name:   "my workspace",
			expErr: true,
		},

		"A name with a dot should be invalid.": {
			name:   "my.workspace",
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			err := model.ValidateWorkspaceName(test.name)

			if test.expErr {
				assert.ErrorIs(err, internalerrors.ErrValidation)
			} else {
				assert.NoError(err)
			}
		})
	}
}

func TestValidateTerraformVersion(t *testing.T) {
	tests := map[string]struct {
		version string
		expErr  bool
	}{
		"A MAJOR.MINOR.PATCH version should be valid.": {
			version: "1.5.7",
		},

		"An empty version means the organization default and should be valid.": {
			version: "",
		},

		"A version without patch should be invalid.": {
			version: "1.5",
			expErr:  true,
		},

		"A version with a pre-release suffix should be invalid.": {
			version: "1.5.7-beta1",
			expErr:  true,
		},

		"A version with a leading v should be invalid.": {
			version: "v1.5.7",
			expErr:  true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			err := model.ValidateTerraformVersion(test.version)

			if test.expErr {
				assert.ErrorIs(err, internalerrors.ErrValidation)
			} else {
				assert.NoError(err)
			}
		})
	}
}

func TestWorkspaceValidateDesired(t *testing.T) {
	tests := map[string]struct {
		workspace model.Workspace
		expErr    bool
	}{
		"A minimal workspace should be valid.": {
			workspace: model.Workspace{Name: "wk1"},
		},

		"A workspace with a known execution mode should be valid.": {
			workspace: model.Workspace{Name: "wk1", ExecutionMode: "agent"},
		},

		"A workspace with an unknown execution mode should be invalid.": {
			workspace: model.Workspace{Name: "wk1", ExecutionMode: "somewhere"},
			expErr:    true,
		},

		"A workspace with a full VCS binding should be valid.": {
			workspace: model.Workspace{Name: "wk1", VCSRepo: &model.VCSRepo{
				Identifier:   "org/repo",
				OAuthTokenID: "ot-123",
			}},
		},

		"A VCS binding without a slash in the identifier should be invalid.": {
			workspace: model.Workspace{Name: "wk1", VCSRepo: &model.VCSRepo{
				Identifier:   "repo",
				OAuthTokenID: "ot-123",
			}},
			expErr: true,
		},

		"A VCS binding without an oauth token should be invalid.": {
			workspace: model.Workspace{Name: "wk1", VCSRepo: &model.VCSRepo{
				Identifier: "org/repo",
			}},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			err := test.workspace.ValidateDesired()

			if test.expErr {
				assert.ErrorIs(err, internalerrors.ErrValidation)
			} else {
				assert.NoError(err)
			}
		})
	}
}

func TestVariableConfigValidate(t *testing.T) {
	tests := map[string]struct {
		config model.VariableConfig
		expErr bool
	}{
		"A minimal config should be valid and default to the terraform category.": {
			config: model.VariableConfig{Key: "region", Value: "eu-west-1"},
		},

		"An env variable should be valid.": {
			config: model.VariableConfig{Key: "TOKEN", Category: model.CategoryEnv},
		},

		"A config without a key should be invalid.": {
			config: model.VariableConfig{Value: "something"},
			expErr: true,
		},

		"An unknown category should be invalid.": {
			config: model.VariableConfig{Key: "region", Category: "policy"},
			expErr: true,
		},

		"HCL format on an env variable should be invalid.": {
			config: model.VariableConfig{Key: "TOKEN", Category: model.CategoryEnv, HCL: true},
			expErr: true,
		},

		"HCL format on a terraform variable should be valid.": {
			config: model.VariableConfig{Key: "cidrs", HCL: true},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			err := test.config.Validate()

			if test.expErr {
				assert.ErrorIs(err, internalerrors.ErrValidation)
			} else {
				assert.NoError(err)
			}
		})
	}
}

func TestVariableMasked(t *testing.T) {
	tests := map[string]struct {
		variable model.Variable
		expValue string
	}{
		"A sensitive variable should get its value masked.": {
			variable: model.Variable{Key: "token", Value: "hunter2", Sensitive: true},
			expValue: model.SensitiveValueMask,
		},

		"A regular variable should keep its value.": {
			variable: model.Variable{Key: "region", Value: "eu-west-1"},
			expValue: "eu-west-1",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			got := test.variable.Masked()

			assert.Equal(test.expValue, got.Value)
		})
	}
}
