package tfe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-tfe"

	"github.com/slok/tfe-sync/internal/internalerrors"
	"github.com/slok/tfe-sync/internal/model"
)

// Repository knows how to manage data on Terraform enterprise or cloud.
type Repository interface {
	ListOrganizations(ctx context.Context) ([]model.Organization, error)
	GetOrganization(ctx context.Context, name string) (*model.Organization, error)
	ListWorkspaces(ctx context.Context) ([]model.Workspace, error)
	GetWorkspace(ctx context.Context, name string) (*model.Workspace, error)
	CreateWorkspace(ctx context.Context, desired model.Workspace) (*model.Workspace, error)
	UpdateWorkspace(ctx context.Context, current model.Workspace, changes map[string]interface{}) (*model.Workspace, error)
	DeleteWorkspace(ctx context.Context, name string) error
	ListVariables(ctx context.Context, workspaceID string) ([]model.Variable, error)
	CreateVariable(ctx context.Context, workspaceID string, config model.VariableConfig) (*model.Variable, error)
	UpdateVariable(ctx context.Context, workspaceID, variableID string, config model.VariableConfig) (*model.Variable, error)
	DeleteVariable(ctx context.Context, workspaceID, variableID string) error
	CreateRun(ctx context.Context, wk model.Workspace, config model.RunConfig) (*model.Run, error)
	GetRun(ctx context.Context, id string) (*model.Run, error)
	ListRuns(ctx context.Context, workspaceID string, limit int) ([]model.Run, error)
	ApplyRun(ctx context.Context, id, comment string) error
	DiscardRun(ctx context.Context, id, comment string) error
	CancelRun(ctx context.Context, id, comment string) error
	GetRunLogs(ctx context.Context, id string) (map[string]string, error)
}

func NewRepository(c Client, org string) (Repository, error) {
	if org == "" {
		return nil, fmt.Errorf("organization is required")
	}

	return repository{
		c:   c,
		org: org,
	}, nil
}

type repository struct {
	c   Client
	org string
}

func (r repository) ListOrganizations(ctx context.Context) ([]model.Organization, error) {
	allOrgs := []*tfe.Organization{}

	// Get all organizations using client pagination.
	page := 0
	for {
		orgs, err := r.c.ListOrganizations(ctx, &tfe.OrganizationListOptions{ListOptions: tfe.ListOptions{PageNumber: page}})
		if err != nil {
			return nil, classify("could not get all organizations", err)
		}

		allOrgs = append(allOrgs, orgs.Items...)

		// Nothing more to get.
		if orgs.Pagination == nil || orgs.NextPage == 0 || orgs.NextPage == page {
			break
		}
		page = orgs.NextPage
	}

	orgs := make([]model.Organization, 0, len(allOrgs))
	for _, org := range allOrgs {
		orgs = append(orgs, *mapOrganizationTFE2Model(org))
	}

	return orgs, nil
}

func (r repository) GetOrganization(ctx context.Context, name string) (*model.Organization, error) {
	org, err := r.c.ReadOrganization(ctx, name)
	if err != nil {
		return nil, classify(fmt.Sprintf("could not get organization %q", name), err)
	}

	return mapOrganizationTFE2Model(org), nil
}

func (r repository) ListWorkspaces(ctx context.Context) ([]model.Workspace, error) {
	allWks := []*tfe.Workspace{}

	// Get all workspaces using client pagination.
	page := 0
	for {
		wks, err := r.c.ListWorkspaces(ctx, r.org, &tfe.WorkspaceListOptions{ListOptions: tfe.ListOptions{PageNumber: page}})
		if err != nil {
			return nil, classify("could not get all workspaces", err)
		}

		allWks = append(allWks, wks.Items...)

		// Nothing more to get.
		if wks.Pagination == nil || wks.NextPage == 0 || wks.NextPage == page {
			break
		}
		page = wks.NextPage
	}

	wks := make([]model.Workspace, 0, len(allWks))
	for _, wk := range allWks {
		wks = append(wks, *r.mapWorkspaceTFE2Model(wk))
	}

	return wks, nil
}

func (r repository) GetWorkspace(ctx context.Context, name string) (*model.Workspace, error) {
	wk, err := r.c.ReadWorkspace(ctx, r.org, name)
	if err != nil {
		return nil, classify(fmt.Sprintf("could not get workspace %q", name), err)
	}

	return r.mapWorkspaceTFE2Model(wk), nil
}

func (r repository) CreateWorkspace(ctx context.Context, desired model.Workspace) (*model.Workspace, error) {
	desired = desired.WithDefaults()

	opts := tfe.WorkspaceCreateOptions{
		Name:                tfe.String(desired.Name),
		Description:         tfe.String(desired.Description),
		WorkingDirectory:    tfe.String(desired.WorkingDirectory),
		AutoApply:           tfe.Bool(desired.AutoApply),
		FileTriggersEnabled: tfe.Bool(desired.FileTriggersEnabled),
		QueueAllRuns:        tfe.Bool(desired.QueueAllRuns),
		SpeculativeEnabled:  tfe.Bool(desired.SpeculativeEnabled),
		TriggerPrefixes:     desired.TriggerPrefixes,
		ExecutionMode:       tfe.String(desired.ExecutionMode),
	}

	if desired.TerraformVersion != "" {
		opts.TerraformVersion = tfe.String(desired.TerraformVersion)
	}

	if desired.Project != "" {
		opts.Project = &tfe.Project{ID: desired.Project}
	}

	if desired.VCSRepo != nil {
		opts.VCSRepo = &tfe.VCSRepoOptions{
			Identifier:        tfe.String(desired.VCSRepo.Identifier),
			OAuthTokenID:      tfe.String(desired.VCSRepo.OAuthTokenID),
			IngressSubmodules: tfe.Bool(desired.VCSRepo.IngressSubmodules),
		}
		if desired.VCSRepo.Branch != "" {
			opts.VCSRepo.Branch = tfe.String(desired.VCSRepo.Branch)
		}
	}

	for _, tag := range desired.TagNames {
		opts.Tags = append(opts.Tags, &tfe.Tag{Name: tag})
	}

	wk, err := r.c.CreateWorkspace(ctx, r.org, opts)
	if err != nil {
		return nil, classify(fmt.Sprintf("could not create workspace %q", desired.Name), err)
	}

	return r.mapWorkspaceTFE2Model(wk), nil
}

func (r repository) UpdateWorkspace(ctx context.Context, current model.Workspace, changes map[string]interface{}) (*model.Workspace, error) {
	opts := tfe.WorkspaceUpdateOptions{}
	attrChanges := false

	for attr, value := range changes {
		switch attr {
		case "description":
			opts.Description = tfe.String(value.(string))
		case "terraform_version":
			opts.TerraformVersion = tfe.String(value.(string))
		case "working_directory":
			opts.WorkingDirectory = tfe.String(value.(string))
		case "auto_apply":
			opts.AutoApply = tfe.Bool(value.(bool))
		case "file_triggers_enabled":
			opts.FileTriggersEnabled = tfe.Bool(value.(bool))
		case "queue_all_runs":
			opts.QueueAllRuns = tfe.Bool(value.(bool))
		case "speculative_enabled":
			opts.SpeculativeEnabled = tfe.Bool(value.(bool))
		case "trigger_prefixes":
			opts.TriggerPrefixes = value.([]string)
		case "execution_mode":
			opts.ExecutionMode = tfe.String(value.(string))
		case "tag_names":
			// Tags travel through their own API calls, not the update payload.
			continue
		default:
			return nil, fmt.Errorf("attribute %q is not updatable: %w", attr, internalerrors.ErrValidation)
		}
		attrChanges = true
	}

	if attrChanges {
		_, err := r.c.UpdateWorkspace(ctx, r.org, current.Name, opts)
		if err != nil {
			return nil, classify(fmt.Sprintf("could not update workspace %q", current.Name), err)
		}
	}

	if tags, ok := changes["tag_names"]; ok {
		err := r.reconcileTags(ctx, current, tags.([]string))
		if err != nil {
			return nil, err
		}
	}

	// Re-read so the returned state includes every applied change.
	return r.GetWorkspace(ctx, current.Name)
}

func (r repository) reconcileTags(ctx context.Context, current model.Workspace, desired []string) error {
	currentTags := map[string]bool{}
	for _, t := range current.TagNames {
		currentTags[t] = true
	}
	desiredTags := map[string]bool{}
	for _, t := range desired {
		desiredTags[t] = true
	}

	add := []*tfe.Tag{}
	for _, t := range desired {
		if !currentTags[t] {
			add = append(add, &tfe.Tag{Name: t})
		}
	}

	remove := []*tfe.Tag{}
	for _, t := range current.TagNames {
		if !desiredTags[t] {
			remove = append(remove, &tfe.Tag{Name: t})
		}
	}

	if len(add) > 0 {
		err := r.c.AddWorkspaceTags(ctx, current.ID, tfe.WorkspaceAddTagsOptions{Tags: add})
		if err != nil {
			return classify(fmt.Sprintf("could not add tags to workspace %q", current.Name), err)
		}
	}

	if len(remove) > 0 {
		err := r.c.RemoveWorkspaceTags(ctx, current.ID, tfe.WorkspaceRemoveTagsOptions{Tags: remove})
		if err != nil {
			return classify(fmt.Sprintf("could not remove tags from workspace %q", current.Name), err)
		}
	}

	return nil
}

func (r repository) DeleteWorkspace(ctx context.Context, name string) error {
	err := r.c.DeleteWorkspace(ctx, r.org, name)
	if err != nil {
		return classify(fmt.Sprintf("could not delete workspace %q", name), err)
	}

	return nil
}

func (r repository) ListVariables(ctx context.Context, workspaceID string) ([]model.Variable, error) {
	allVars := []*tfe.Variable{}

	page := 0
	for {
		vars, err := r.c.ListVariables(ctx, workspaceID, &tfe.VariableListOptions{ListOptions: tfe.ListOptions{PageNumber: page}})
		if err != nil {
			return nil, classify("could not get all variables", err)
		}

		allVars = append(allVars, vars.Items...)

		if vars.Pagination == nil || vars.NextPage == 0 || vars.NextPage == page {
			break
		}
		page = vars.NextPage
	}

	vars := make([]model.Variable, 0, len(allVars))
	for _, v := range allVars {
		vars = append(vars, *mapVariableTFE2Model(v))
	}

	return vars, nil
}

func (r repository) CreateVariable(ctx context.Context, workspaceID string, config model.VariableConfig) (*model.Variable, error) {
	config = config.WithDefaults()

	v, err := r.c.CreateVariable(ctx, workspaceID, tfe.VariableCreateOptions{
		Key:         tfe.String(config.Key),
		Value:       tfe.String(config.Value),
		Category:    tfe.Category(tfe.CategoryType(config.Category)),
		HCL:         tfe.Bool(config.HCL),
		Sensitive:   tfe.Bool(config.Sensitive),
		Description: tfe.String(config.Description),
	})
	if err != nil {
		return nil, classify(fmt.Sprintf("could not create variable %q", config.Key), err)
	}

	return mapVariableTFE2Model(v), nil
}

func (r repository) UpdateVariable(ctx context.Context, workspaceID, variableID string, config model.VariableConfig) (*model.Variable, error) {
	config = config.WithDefaults()

	v, err := r.c.UpdateVariable(ctx, workspaceID, variableID, tfe.VariableUpdateOptions{
		Key:         tfe.String(config.Key),
		Value:       tfe.String(config.Value),
		HCL:         tfe.Bool(config.HCL),
		Sensitive:   tfe.Bool(config.Sensitive),
		Description: tfe.String(config.Description),
	})
	if err != nil {
		return nil, classify(fmt.Sprintf("could not update variable %q", config.Key), err)
	}

	return mapVariableTFE2Model(v), nil
}

func (r repository) DeleteVariable(ctx context.Context, workspaceID, variableID string) error {
	err := r.c.DeleteVariable(ctx, workspaceID, variableID)
	if err != nil {
		return classify(fmt.Sprintf("could not delete variable %q", variableID), err)
	}

	return nil
}

func (r repository) CreateRun(ctx context.Context, wk model.Workspace, config model.RunConfig) (*model.Run, error) {
	message := config.Message
	if message == "" {
		message = model.DefaultRunMessage
	}

	opts := tfe.RunCreateOptions{
		Workspace:    wk.OriginalObject,
		Message:      tfe.String(message),
		PlanOnly:     tfe.Bool(config.PlanOnly),
		TargetAddrs:  config.TargetAddrs,
		ReplaceAddrs: config.ReplaceAddrs,
		AutoApply:    config.AutoApply,
	}

	run, err := r.c.CreateRun(ctx, opts)
	if err != nil {
		return nil, classify(fmt.Sprintf("could not create run on workspace %q", wk.Name), err)
	}

	return mapRunTFE2Model(run), nil
}

func (r repository) GetRun(ctx context.Context, id string) (*model.Run, error) {
	// Include the workspace so the wait loop can see its auto-apply setting.
	run, err := r.c.ReadRun(ctx, id, &tfe.RunReadOptions{Include: []tfe.RunIncludeOpt{tfe.RunWorkspace}})
	if err != nil {
		return nil, classify(fmt.Sprintf("could not get run %q", id), err)
	}

	return mapRunTFE2Model(run), nil
}

func (r repository) ListRuns(ctx context.Context, workspaceID string, limit int) ([]model.Run, error) {
	opts := &tfe.RunListOptions{ListOptions: tfe.ListOptions{PageSize: limit}}
	runs, err := r.c.ListRuns(ctx, workspaceID, opts)
	if err != nil {
		return nil, classify("could not list runs", err)
	}

	res := make([]model.Run, 0, len(runs.Items))
	for _, run := range runs.Items {
		res = append(res, *mapRunTFE2Model(run))
	}

	return res, nil
}

func (r repository) ApplyRun(ctx context.Context, id, comment string) error {
	err := r.c.ApplyRun(ctx, id, tfe.RunApplyOptions{Comment: tfe.String(comment)})
	if err != nil {
		return classify(fmt.Sprintf("could not apply run %q", id), err)
	}

	return nil
}

func (r repository) DiscardRun(ctx context.Context, id, comment string) error {
	err := r.c.DiscardRun(ctx, id, tfe.RunDiscardOptions{Comment: tfe.String(comment)})
	if err != nil {
		return classify(fmt.Sprintf("could not discard run %q", id), err)
	}

	return nil
}

func (r repository) CancelRun(ctx context.Context, id, comment string) error {
	err := r.c.CancelRun(ctx, id, tfe.RunCancelOptions{Comment: tfe.String(comment)})
	if err != nil {
		return classify(fmt.Sprintf("could not cancel run %q", id), err)
	}

	return nil
}

// GetRunLogs gets the plan and apply logs of a run. Each log is best effort: a failing
// sub-fetch leaves its entry out instead of failing the call.
func (r repository) GetRunLogs(ctx context.Context, id string) (map[string]string, error) {
	run, err := r.c.ReadRun(ctx, id, &tfe.RunReadOptions{Include: []tfe.RunIncludeOpt{tfe.RunPlan, tfe.RunApply}})
	if err != nil {
		return nil, classify(fmt.Sprintf("could not get run %q", id), err)
	}

	logs := map[string]string{}

	if run.Plan != nil {
		reader, err := r.c.ReadPlanLogs(ctx, run.Plan.ID)
		if err == nil {
			if data, err := io.ReadAll(reader); err == nil {
				logs["plan"] = string(data)
			}
		}
	}

	if run.Apply != nil {
		reader, err := r.c.ReadApplyLogs(ctx, run.Apply.ID)
		if err == nil {
			if data, err := io.ReadAll(reader); err == nil {
				logs["apply"] = string(data)
			}
		}
	}

	return logs, nil
}

func mapOrganizationTFE2Model(o *tfe.Organization) *model.Organization {
	return &model.Organization{
		Name:                  o.Name,
		Email:                 o.Email,
		CostEstimationEnabled: o.CostEstimationEnabled,
		CreatedAt:             o.CreatedAt,
		OriginalObject:        o,
	}
}

func (r repository) mapWorkspaceTFE2Model(w *tfe.Workspace) *model.Workspace {
	wk := &model.Workspace{
		ID:                  w.ID,
		Name:                w.Name,
		Organization:        r.org,
		Description:         w.Description,
		TerraformVersion:    w.TerraformVersion,
		WorkingDirectory:    w.WorkingDirectory,
		AutoApply:           w.AutoApply,
		FileTriggersEnabled: w.FileTriggersEnabled,
		QueueAllRuns:        w.QueueAllRuns,
		SpeculativeEnabled:  w.SpeculativeEnabled,
		TriggerPrefixes:     w.TriggerPrefixes,
		ExecutionMode:       w.ExecutionMode,
		TagNames:            w.TagNames,
		Locked:              w.Locked,
		ResourceCount:       w.ResourceCount,
		CreatedAt:           w.CreatedAt,
		UpdatedAt:           w.UpdatedAt,
		OriginalObject:      w,
	}

	if w.Project != nil {
		wk.Project = w.Project.ID
	}

	if w.VCSRepo != nil {
		wk.VCSRepo = &model.VCSRepo{
			Identifier:        w.VCSRepo.Identifier,
			Branch:            w.VCSRepo.Branch,
			OAuthTokenID:      w.VCSRepo.OAuthTokenID,
			IngressSubmodules: w.VCSRepo.IngressSubmodules,
		}
	}

	return wk
}

func mapVariableTFE2Model(v *tfe.Variable) *model.Variable {
	mv := model.Variable{
		ID:             v.ID,
		Key:            v.Key,
		Value:          v.Value,
		Category:       model.VariableCategory(v.Category),
		Sensitive:      v.Sensitive,
		HCL:            v.HCL,
		Description:    v.Description,
		OriginalObject: v,
	}

	mv = mv.Masked()

	return &mv
}

func mapRunTFE2Model(r *tfe.Run) *model.Run {
	autoApply := r.AutoApply
	run := &model.Run{
		ID:             r.ID,
		Status:         model.RunStatus(r.Status),
		Message:        r.Message,
		CreatedAt:      r.CreatedAt,
		PlanOnly:       r.PlanOnly,
		AutoApply:      &autoApply,
		TargetAddrs:    r.TargetAddrs,
		ReplaceAddrs:   r.ReplaceAddrs,
		HasChanges:     r.HasChanges,
		OriginalObject: r,
	}

	if r.Workspace != nil {
		run.WorkspaceID = r.Workspace.ID
		// The workspace relationship only carries its attributes when the read
		// included them, absence means "unknown" and the waiter treats it as false.
		if r.Workspace.Name != "" {
			wkAutoApply := r.Workspace.AutoApply
			run.WorkspaceAutoApply = &wkAutoApply
		}
	}

	if r.Permissions != nil {
		run.Permissions = model.RunPermissions{
			CanApply:        r.Permissions.CanApply,
			CanCancel:       r.Permissions.CanCancel,
			CanDiscard:      r.Permissions.CanDiscard,
			CanForceExecute: r.Permissions.CanForceExecute,
		}
	}

	return run
}

// classify converts a remote call failure into one of the internal error kinds,
// keeping the original message. Everything unclassifiable becomes the generic
// operation kind.
func classify(op string, err error) error {
	kind := internalerrors.ErrOperation

	msg := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, tfe.ErrResourceNotFound),
		strings.Contains(msg, "404"), strings.Contains(msg, "not found"):
		kind = internalerrors.ErrNotFound
	case errors.Is(err, tfe.ErrUnauthorized),
		strings.Contains(msg, "401"), strings.Contains(msg, "unauthorized"),
		strings.Contains(msg, "403"), strings.Contains(msg, "forbidden"):
		kind = internalerrors.ErrAuthentication
	case strings.Contains(msg, "409"), strings.Contains(msg, "conflict"), strings.Contains(msg, "locked"):
		kind = internalerrors.ErrConflict
	case strings.Contains(msg, "422"), strings.Contains(msg, "invalid"):
		kind = internalerrors.ErrValidation
	}

	return fmt.Errorf("%s: %v: %w", op, err, kind)
}
