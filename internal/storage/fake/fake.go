// Package fake implements an in-memory repository used on dry runs. It is seeded from
// recorded API documents in both historical shapes so the normalization path gets
// exercised exactly like against a real server, and every mutation touches only the
// in-memory state.
package fake

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/slok/tfe-sync/internal/internalerrors"
	"github.com/slok/tfe-sync/internal/model"
	"github.com/slok/tfe-sync/internal/normalize"
	tfestorage "github.com/slok/tfe-sync/internal/storage/tfe"
)

// Seed documents. One workspace in the raw API envelope shape, one flat, the runs and
// the organization split the same way.
var (
	seedOrganization = map[string]interface{}{
		"id": "fake-org",
		"attributes": map[string]interface{}{
			"name":                    "fake-org",
			"email":                   "ops@fake-org.test",
			"plan":                    map[string]interface{}{"identifier": "free"},
			"cost-estimation-enabled": false,
			"created-at":              "2023-01-10T10:00:00Z",
			"permissions": map[string]interface{}{
				"can-create-workspace": true,
				"can-destroy":          true,
			},
		},
	}

	seedWorkspaces = []map[string]interface{}{
		{
			"id": "ws-fake00000001",
			"attributes": map[string]interface{}{
				"name":                  "networking-production",
				"description":           "Production networking stack",
				"terraform-version":     "1.5.7",
				"auto-apply":            false,
				"file-triggers-enabled": true,
				"speculative-enabled":   true,
				"execution-mode":        "remote",
				"tag-names":             []interface{}{"production", "networking"},
				"created-at":            "2023-02-01T09:00:00Z",
			},
			"relationships": map[string]interface{}{
				"organization": map[string]interface{}{
					"data": map[string]interface{}{"id": "fake-org"},
				},
			},
		},
		{
			"id":                "ws-fake00000002",
			"name":              "compute-staging",
			"organization":      "fake-org",
			"description":       "Staging compute stack",
			"terraform_version": "1.5.7",
			"auto_apply":        true,
			"execution_mode":    "remote",
			"tag_names":         []interface{}{"staging"},
			"created_at":        "2023-03-15T12:30:00Z",
		},
	}

	seedVariables = map[string][]map[string]interface{}{
		"ws-fake00000001": {
			{
				"id": "var-fake00000001",
				"attributes": map[string]interface{}{
					"key":      "region",
					"value":    "eu-west-1",
					"category": "terraform",
				},
			},
			{
				"id":        "var-fake00000002",
				"key":       "TFE_TOKEN",
				"value":     "super-secret",
				"category":  "env",
				"sensitive": true,
			},
		},
	}

	seedRuns = []map[string]interface{}{
		{
			"id": "run-fake00000001",
			"attributes": map[string]interface{}{
				"status":      "applied",
				"message":     "Seeded historical run",
				"has-changes": true,
				"created-at":  "2023-04-01T08:00:00Z",
				"status-timestamps": map[string]interface{}{
					"applied-at": "2023-04-01T08:10:00Z",
				},
				"permissions": map[string]interface{}{
					"can-apply":  true,
					"can-cancel": true,
				},
			},
			"relationships": map[string]interface{}{
				"workspace": map[string]interface{}{
					"data": map[string]interface{}{"id": "ws-fake00000001"},
				},
			},
		},
		{
			"id":           "run-fake00000002",
			"workspace_id": "ws-fake00000002",
			"status":       "planned",
			"message":      "Seeded pending run",
			"has_changes":  true,
			"created_at":   "2023-04-02T08:00:00Z",
			"permissions": map[string]interface{}{
				"can_apply":  true,
				"can_cancel": true,
			},
		},
	}
)

// Repository is the in-memory implementation of the storage repository.
type Repository struct {
	mu         sync.Mutex
	org        model.Organization
	workspaces map[string]model.Workspace // By name.
	variables  map[string][]model.Variable
	runs       map[string]model.Run
	seq        int
}

var _ tfestorage.Repository = &Repository{}

// NewRepository returns a seeded in-memory repository scoped to the received
// organization name.
func NewRepository(org string) *Repository {
	r := &Repository{
		org:        normalize.Organization(seedOrganization),
		workspaces: map[string]model.Workspace{},
		variables:  map[string][]model.Variable{},
		runs:       map[string]model.Run{},
	}
	r.org.Name = org

	for _, raw := range seedWorkspaces {
		wk := normalize.Workspace(raw)
		wk.Organization = org
		r.workspaces[wk.Name] = wk
	}

	for wkID, raws := range seedVariables {
		for _, raw := range raws {
			r.variables[wkID] = append(r.variables[wkID], normalize.Variable(raw))
		}
	}

	for _, raw := range seedRuns {
		run := normalize.Run(raw)
		r.runs[run.ID] = run
	}

	return r
}

func (r *Repository) nextID(prefix string) string {
	r.seq++
	return fmt.Sprintf("%s-dryrun%08d", prefix, r.seq)
}

func (r *Repository) ListOrganizations(_ context.Context) ([]model.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return []model.Organization{r.org}, nil
}

func (r *Repository) GetOrganization(_ context.Context, name string) (*model.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name != r.org.Name {
		return nil, fmt.Errorf("organization %q: %w", name, internalerrors.ErrNotFound)
	}
	org := r.org
	return &org, nil
}

func (r *Repository) ListWorkspaces(_ context.Context) ([]model.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.workspaces))
	for name := range r.workspaces {
		names = append(names, name)
	}
	sort.Strings(names)

	wks := make([]model.Workspace, 0, len(names))
	for _, name := range names {
		wks = append(wks, r.workspaces[name])
	}
	return wks, nil
}

func (r *Repository) GetWorkspace(_ context.Context, name string) (*model.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wk, ok := r.workspaces[name]
	if !ok {
		return nil, fmt.Errorf("workspace %q: %w", name, internalerrors.ErrNotFound)
	}
	return &wk, nil
}

func (r *Repository) CreateWorkspace(_ context.Context, desired model.Workspace) (*model.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.workspaces[desired.Name]; ok {
		return nil, fmt.Errorf("workspace %q already exists: %w", desired.Name, internalerrors.ErrConflict)
	}

	wk := desired.WithDefaults()
	wk.ID = r.nextID("ws")
	wk.Organization = r.org.Name
	wk.CreatedAt = time.Now().UTC()
	wk.UpdatedAt = wk.CreatedAt
	r.workspaces[wk.Name] = wk

	return &wk, nil
}

func (r *Repository) UpdateWorkspace(_ context.Context, current model.Workspace, changes map[string]interface{}) (*model.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wk, ok := r.workspaces[current.Name]
	if !ok {
		return nil, fmt.Errorf("workspace %q: %w", current.Name, internalerrors.ErrNotFound)
	}

	for attr, value := range changes {
		switch attr {
		case "description":
			wk.Description = value.(string)
		case "terraform_version":
			wk.TerraformVersion = value.(string)
		case "working_directory":
			wk.WorkingDirectory = value.(string)
		case "auto_apply":
			wk.AutoApply = value.(bool)
		case "file_triggers_enabled":
			wk.FileTriggersEnabled = value.(bool)
		case "queue_all_runs":
			wk.QueueAllRuns = value.(bool)
		case "speculative_enabled":
			wk.SpeculativeEnabled = value.(bool)
		case "trigger_prefixes":
			wk.TriggerPrefixes = value.([]string)
		case "execution_mode":
			wk.ExecutionMode = value.(string)
		case "tag_names":
			wk.TagNames = value.([]string)
		default:
			return nil, fmt.Errorf("unknown workspace attribute %q: %w", attr, internalerrors.ErrValidation)
		}
	}
	wk.UpdatedAt = time.Now().UTC()
	r.workspaces[wk.Name] = wk

	return &wk, nil
}

func (r *Repository) DeleteWorkspace(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	wk, ok := r.workspaces[name]
	if !ok {
		return fmt.Errorf("workspace %q: %w", name, internalerrors.ErrNotFound)
	}

	delete(r.workspaces, name)
	delete(r.variables, wk.ID)
	return nil
}

func (r *Repository) ListVariables(_ context.Context, workspaceID string) ([]model.Variable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	vars := make([]model.Variable, len(r.variables[workspaceID]))
	copy(vars, r.variables[workspaceID])
	return vars, nil
}

func (r *Repository) CreateVariable(_ context.Context, workspaceID string, config model.VariableConfig) (*model.Variable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	config = config.WithDefaults()
	for _, v := range r.variables[workspaceID] {
		if v.Key == config.Key {
			return nil, fmt.Errorf("variable %q already exists: %w", config.Key, internalerrors.ErrConflict)
		}
	}

	v := model.Variable{
		ID:          r.nextID("var"),
		Key:         config.Key,
		Value:       config.Value,
		Category:    config.Category,
		Sensitive:   config.Sensitive,
		HCL:         config.HCL,
		Description: config.Description,
	}.Masked()
	r.variables[workspaceID] = append(r.variables[workspaceID], v)

	return &v, nil
}

func (r *Repository) UpdateVariable(_ context.Context, workspaceID, variableID string, config model.VariableConfig) (*model.Variable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	config = config.WithDefaults()
	for i, v := range r.variables[workspaceID] {
		if v.ID != variableID {
			continue
		}

		v.Value = config.Value
		v.Category = config.Category
		v.Sensitive = config.Sensitive
		v.HCL = config.HCL
		v.Description = config.Description
		v = v.Masked()
		r.variables[workspaceID][i] = v
		return &v, nil
	}

	return nil, fmt.Errorf("variable %q: %w", variableID, internalerrors.ErrNotFound)
}

func (r *Repository) DeleteVariable(_ context.Context, workspaceID, variableID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	vars := r.variables[workspaceID]
	for i, v := range vars {
		if v.ID == variableID {
			r.variables[workspaceID] = append(vars[:i], vars[i+1:]...)
			return nil
		}
	}

	return fmt.Errorf("variable %q: %w", variableID, internalerrors.ErrNotFound)
}

func (r *Repository) CreateRun(_ context.Context, wk model.Workspace, config model.RunConfig) (*model.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	message := config.Message
	if message == "" {
		message = model.DefaultRunMessage
	}

	// A dry run settles immediately: plan-only and auto-apply runs go terminal, the
	// rest sit at the confirmation gate.
	status := model.RunPlanned
	switch {
	case config.PlanOnly:
		status = model.RunPlannedAndFinished
	case wk.AutoApply:
		status = model.RunApplied
	}

	autoApply := wk.AutoApply
	run := model.Run{
		ID:                 r.nextID("run"),
		WorkspaceID:        wk.ID,
		Status:             status,
		Message:            message,
		CreatedAt:          time.Now().UTC(),
		PlanOnly:           config.PlanOnly,
		AutoApply:          config.AutoApply,
		TargetAddrs:        config.TargetAddrs,
		ReplaceAddrs:       config.ReplaceAddrs,
		HasChanges:         true,
		WorkspaceAutoApply: &autoApply,
		Permissions:        model.RunPermissions{CanApply: true, CanCancel: true, CanDiscard: true},
	}
	r.runs[run.ID] = run

	return &run, nil
}

func (r *Repository) GetRun(_ context.Context, id string) (*model.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.runs[id]
	if !ok {
		return nil, fmt.Errorf("run %q: %w", id, internalerrors.ErrNotFound)
	}
	return &run, nil
}

func (r *Repository) ListRuns(_ context.Context, workspaceID string, limit int) ([]model.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runs := []model.Run{}
	for _, run := range r.runs {
		if run.WorkspaceID == workspaceID {
			runs = append(runs, run)
		}
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].CreatedAt.After(runs[j].CreatedAt) })

	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (r *Repository) ApplyRun(_ context.Context, id, _ string) error {
	return r.setRunStatus(id, model.RunApplied)
}

func (r *Repository) DiscardRun(_ context.Context, id, _ string) error {
	return r.setRunStatus(id, model.RunDiscarded)
}

func (r *Repository) CancelRun(_ context.Context, id, _ string) error {
	return r.setRunStatus(id, model.RunCanceled)
}

func (r *Repository) setRunStatus(id string, status model.RunStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.runs[id]
	if !ok {
		return fmt.Errorf("run %q: %w", id, internalerrors.ErrNotFound)
	}

	run.Status = status
	r.runs[id] = run
	return nil
}

func (r *Repository) GetRunLogs(_ context.Context, id string) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.runs[id]
	if !ok {
		return nil, fmt.Errorf("run %q: %w", id, internalerrors.ErrNotFound)
	}

	logs := map[string]string{
		"plan": fmt.Sprintf("Plan output for run %s (dry run)", run.ID),
	}
	if run.Status == model.RunApplied {
		logs["apply"] = fmt.Sprintf("Apply output for run %s (dry run)", run.ID)
	}
	return logs, nil
}
