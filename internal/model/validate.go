package model

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/slok/tfe-sync/internal/internalerrors"
)

var (
	workspaceNameRegexp    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,90}$`)
	terraformVersionRegexp = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
)

var validExecutionModes = map[string]bool{
	"remote": true,
	"local":  true,
	"agent":  true,
}

// ValidateWorkspaceName checks the TFE workspace naming rules (letters, numbers,
// hyphens and underscores, at most 90 characters).
func ValidateWorkspaceName(name string) error {
	if name == "" {
		return fmt.Errorf("workspace name cannot be empty: %w", internalerrors.ErrValidation)
	}

	if !workspaceNameRegexp.MatchString(name) {
		return fmt.Errorf("workspace name %q must match %s: %w", name, workspaceNameRegexp, internalerrors.ErrValidation)
	}

	return nil
}

// ValidateTerraformVersion checks the MAJOR.MINOR.PATCH format. Empty means "use the
// organization default" and is valid.
func ValidateTerraformVersion(version string) error {
	if version == "" {
		return nil
	}

	if !terraformVersionRegexp.MatchString(version) {
		return fmt.Errorf("terraform version %q must be in MAJOR.MINOR.PATCH format: %w", version, internalerrors.ErrValidation)
	}

	return nil
}

// Validate checks the required fields of a VCS binding.
func (v VCSRepo) Validate() error {
	if v.Identifier == "" {
		return fmt.Errorf("vcs repo identifier is required: %w", internalerrors.ErrValidation)
	}

	if !strings.Contains(v.Identifier, "/") {
		return fmt.Errorf("vcs repo identifier %q must be in 'organization/repository' format: %w", v.Identifier, internalerrors.ErrValidation)
	}

	if v.OAuthTokenID == "" {
		return fmt.Errorf("vcs repo oauth token id is required: %w", internalerrors.ErrValidation)
	}

	return nil
}

// ValidateDesired checks a desired workspace state before any remote call is made.
func (w Workspace) ValidateDesired() error {
	err := ValidateWorkspaceName(w.Name)
	if err != nil {
		return err
	}

	err = ValidateTerraformVersion(w.TerraformVersion)
	if err != nil {
		return err
	}

	if w.ExecutionMode != "" && !validExecutionModes[w.ExecutionMode] {
		return fmt.Errorf("execution mode %q is not one of remote, local, agent: %w", w.ExecutionMode, internalerrors.ErrValidation)
	}

	if w.VCSRepo != nil {
		err := w.VCSRepo.Validate()
		if err != nil {
			return err
		}
	}

	return nil
}

// Validate checks a desired variable configuration.
func (c VariableConfig) Validate() error {
	if c.Key == "" {
		return fmt.Errorf("variable key is required: %w", internalerrors.ErrValidation)
	}

	category := c.Category
	if category == "" {
		category = DefaultVariableCategory
	}

	if category != CategoryTerraform && category != CategoryEnv {
		return fmt.Errorf("variable %q category must be 'terraform' or 'env', got %q: %w", c.Key, category, internalerrors.ErrValidation)
	}

	if c.HCL && category != CategoryTerraform {
		return fmt.Errorf("variable %q can only use HCL format with 'terraform' category: %w", c.Key, internalerrors.ErrValidation)
	}

	return nil
}
