package model

import (
	"time"

	"github.com/hashicorp/go-tfe"
)

// Organization is a TFE/TFC organization. Read-only from this app's point of view.
type Organization struct {
	Name                  string          `json:"name"`
	Email                 string          `json:"email,omitempty"`
	Plan                  string          `json:"plan,omitempty"`
	CostEstimationEnabled bool            `json:"cost_estimation_enabled"`
	CreatedAt             time.Time       `json:"created_at,omitempty"`
	Permissions           map[string]bool `json:"permissions,omitempty"`

	// OriginalObject is the object from the original APIs (e.g go-tfe).
	OriginalObject *tfe.Organization `json:"-"`
}

// VCSRepo is the VCS binding of a workspace.
type VCSRepo struct {
	Identifier        string `json:"identifier" yaml:"identifier"`
	Branch            string `json:"branch,omitempty" yaml:"branch"`
	OAuthTokenID      string `json:"oauth_token_id" yaml:"oauth_token_id"`
	IngressSubmodules bool   `json:"ingress_submodules" yaml:"ingress_submodules"`
}

// Workspace is the canonical workspace record. It is used both for the current remote
// state and for the desired state loaded from the caller's input, so the reconciler
// diffs two values of the same shape.
type Workspace struct {
	ID                  string          `json:"id,omitempty"`
	Name                string          `json:"name"`
	Organization        string          `json:"organization,omitempty"`
	Project             string          `json:"project,omitempty"`
	Description         string          `json:"description"`
	TerraformVersion    string          `json:"terraform_version,omitempty"`
	WorkingDirectory    string          `json:"working_directory"`
	AutoApply           bool            `json:"auto_apply"`
	FileTriggersEnabled bool            `json:"file_triggers_enabled"`
	QueueAllRuns        bool            `json:"queue_all_runs"`
	SpeculativeEnabled  bool            `json:"speculative_enabled"`
	TriggerPrefixes     []string        `json:"trigger_prefixes,omitempty"`
	ExecutionMode       string          `json:"execution_mode"`
	TagNames            []string        `json:"tag_names,omitempty"`
	VCSRepo             *VCSRepo        `json:"vcs_repo,omitempty"`
	Locked              bool            `json:"locked"`
	ResourceCount       int             `json:"resource_count"`
	CreatedAt           time.Time       `json:"created_at,omitempty"`
	UpdatedAt           time.Time       `json:"updated_at,omitempty"`
	Permissions         map[string]bool `json:"permissions,omitempty"`

	// OriginalObject is the object from the original APIs (e.g go-tfe).
	OriginalObject *tfe.Workspace `json:"-"`
}

// VariableCategory is the kind of a workspace variable.
type VariableCategory string

const (
	CategoryTerraform VariableCategory = "terraform"
	CategoryEnv       VariableCategory = "env"
)

// Variable is the canonical workspace variable record. Sensitive values are always
// masked, the real value never travels through this type once sensitive is set.
type Variable struct {
	ID          string           `json:"id,omitempty"`
	Key         string           `json:"key"`
	Value       string           `json:"value"`
	Category    VariableCategory `json:"category"`
	Sensitive   bool             `json:"sensitive"`
	HCL         bool             `json:"hcl"`
	Description string           `json:"description"`

	// OriginalObject is the object from the original APIs (e.g go-tfe).
	OriginalObject *tfe.Variable `json:"-"`
}

// Masked returns a copy with the value replaced by the sensitive mask when the
// variable is sensitive. The transform is one way, there is no unmasking.
func (v Variable) Masked() Variable {
	if v.Sensitive {
		v.Value = SensitiveValueMask
	}
	return v
}

// VariableConfig is the desired state of one variable. Order of a []VariableConfig is
// meaningful: operations are planned in the order variables were declared.
type VariableConfig struct {
	Key         string           `json:"key" yaml:"key"`
	Value       string           `json:"value" yaml:"value"`
	Category    VariableCategory `json:"category,omitempty" yaml:"category"`
	Sensitive   bool             `json:"sensitive,omitempty" yaml:"sensitive"`
	HCL         bool             `json:"hcl,omitempty" yaml:"hcl"`
	Description string           `json:"description,omitempty" yaml:"description"`
}

// WithDefaults returns the config with absent fields replaced by the defaults table.
func (c VariableConfig) WithDefaults() VariableConfig {
	if c.Category == "" {
		c.Category = DefaultVariableCategory
	}
	return c
}

// RunStatus is a TFE run status as exposed by the API.
type RunStatus string

const (
	RunPending            RunStatus = "pending"
	RunPlanning           RunStatus = "planning"
	RunPlanned            RunStatus = "planned"
	RunPlannedAndFinished RunStatus = "planned_and_finished"
	RunConfirmed          RunStatus = "confirmed"
	RunCostEstimating     RunStatus = "cost_estimating"
	RunCostEstimated      RunStatus = "cost_estimated"
	RunPolicyChecking     RunStatus = "policy_checking"
	RunPolicyChecked      RunStatus = "policy_checked"
	RunApplying           RunStatus = "applying"
	RunApplied            RunStatus = "applied"
	RunDiscarded          RunStatus = "discarded"
	RunErrored            RunStatus = "errored"
	RunCanceled           RunStatus = "canceled"
	RunForceCanceled      RunStatus = "force_canceled"
)

// RunConfig is the desired input for triggering a run.
type RunConfig struct {
	Message      string   `json:"message" yaml:"message"`
	PlanOnly     bool     `json:"plan_only" yaml:"plan_only"`
	AutoApply    *bool    `json:"auto_apply,omitempty" yaml:"auto_apply"`
	TargetAddrs  []string `json:"target_addrs,omitempty" yaml:"target_addrs"`
	ReplaceAddrs []string `json:"replace_addrs,omitempty" yaml:"replace_addrs"`
}

// RunPermissions are the actions the token is allowed to take on a run.
type RunPermissions struct {
	CanApply        bool `json:"can_apply"`
	CanCancel       bool `json:"can_cancel"`
	CanDiscard      bool `json:"can_discard"`
	CanForceExecute bool `json:"can_force_execute"`
}

// Run is the canonical run record.
type Run struct {
	ID           string    `json:"id"`
	WorkspaceID  string    `json:"workspace_id,omitempty"`
	Status       RunStatus `json:"status"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	PlanOnly     bool      `json:"plan_only"`
	AutoApply    *bool     `json:"auto_apply,omitempty"`
	TargetAddrs  []string  `json:"target_addrs,omitempty"`
	ReplaceAddrs []string  `json:"replace_addrs,omitempty"`
	HasChanges   bool      `json:"has_changes"`

	// WorkspaceAutoApply is the auto-apply setting of the run's workspace when the
	// payload embeds it. Absence (nil) is treated as false by the wait loop.
	WorkspaceAutoApply *bool `json:"workspace_auto_apply,omitempty"`

	StatusTimestamps map[string]time.Time `json:"status_timestamps,omitempty"`
	Permissions      RunPermissions       `json:"permissions"`

	// OriginalObject is the object from the original APIs (e.g go-tfe).
	OriginalObject *tfe.Run `json:"-"`
}
