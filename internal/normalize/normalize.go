// Package normalize maps raw API documents into the canonical model records. Two
// historical shapes are accepted: the legacy JSON:API envelope (nested `attributes`
// and `relationships`, hyphenated keys) and the flat record (underscore keys). Shape
// detection happens once per document, every field mapping lives here and nowhere
// else, so a third shape means touching this package only.
package normalize

import (
	"time"

	"github.com/slok/tfe-sync/internal/model"
)

// Workspace maps a raw workspace document into the canonical record. Missing fields
// resolve against the defaults table, null optional fields end up absent.
func Workspace(raw map[string]interface{}) model.Workspace {
	if isEnvelope(raw) {
		return workspaceFromEnvelope(raw)
	}
	return workspaceFromFlat(raw)
}

// Variable maps a raw variable document into the canonical record, masking the value
// whenever the variable is sensitive. The masking is unconditional and one way.
func Variable(raw map[string]interface{}) model.Variable {
	var v model.Variable
	if isEnvelope(raw) {
		attrs := subMap(raw, "attributes")
		v = model.Variable{
			ID:          str(raw, "id"),
			Key:         str(attrs, "key"),
			Value:       str(attrs, "value"),
			Category:    model.VariableCategory(strDefault(attrs, "category", string(model.DefaultVariableCategory))),
			Sensitive:   boolDefault(attrs, "sensitive", model.DefaultSensitive),
			HCL:         boolDefault(attrs, "hcl", model.DefaultHCL),
			Description: str(attrs, "description"),
		}
	} else {
		v = model.Variable{
			ID:          str(raw, "id"),
			Key:         str(raw, "key"),
			Value:       str(raw, "value"),
			Category:    model.VariableCategory(strDefault(raw, "category", string(model.DefaultVariableCategory))),
			Sensitive:   boolDefault(raw, "sensitive", model.DefaultSensitive),
			HCL:         boolDefault(raw, "hcl", model.DefaultHCL),
			Description: str(raw, "description"),
		}
	}

	return v.Masked()
}

// Run maps a raw run document into the canonical record.
func Run(raw map[string]interface{}) model.Run {
	if isEnvelope(raw) {
		return runFromEnvelope(raw)
	}
	return runFromFlat(raw)
}

// Organization maps a raw organization document into the canonical record.
func Organization(raw map[string]interface{}) model.Organization {
	attrs := raw
	if isEnvelope(raw) {
		attrs = subMap(raw, "attributes")
	}

	return model.Organization{
		Name:                  firstStr(attrs, "name", str(raw, "id")),
		Email:                 str(attrs, "email"),
		Plan:                  planName(attrs),
		CostEstimationEnabled: boolDefault(attrs, "cost-estimation-enabled", boolDefault(attrs, "cost_estimation_enabled", false)),
		CreatedAt:             timeVal(attrs, "created-at", "created_at"),
		Permissions:           boolMap(attrs, "permissions"),
	}
}

func isEnvelope(raw map[string]interface{}) bool {
	_, ok := raw["attributes"]
	return ok
}

func workspaceFromEnvelope(raw map[string]interface{}) model.Workspace {
	attrs := subMap(raw, "attributes")
	rels := subMap(raw, "relationships")

	return model.Workspace{
		ID:                  str(raw, "id"),
		Name:                str(attrs, "name"),
		Organization:        relationshipID(rels, "organization"),
		Project:             relationshipID(rels, "project"),
		Description:         str(attrs, "description"),
		TerraformVersion:    str(attrs, "terraform-version"),
		WorkingDirectory:    str(attrs, "working-directory"),
		AutoApply:           boolDefault(attrs, "auto-apply", model.DefaultAutoApply),
		FileTriggersEnabled: boolDefault(attrs, "file-triggers-enabled", model.DefaultFileTriggersEnabled),
		QueueAllRuns:        boolDefault(attrs, "queue-all-runs", model.DefaultQueueAllRuns),
		SpeculativeEnabled:  boolDefault(attrs, "speculative-enabled", model.DefaultSpeculativeEnabled),
		TriggerPrefixes:     strSlice(attrs, "trigger-prefixes"),
		ExecutionMode:       strDefault(attrs, "execution-mode", model.DefaultExecutionMode),
		TagNames:            strSlice(attrs, "tag-names"),
		VCSRepo:             vcsRepo(subMap(attrs, "vcs-repo"), true),
		Locked:              boolDefault(attrs, "locked", false),
		ResourceCount:       intVal(attrs, "resource-count"),
		CreatedAt:           timeVal(attrs, "created-at"),
		UpdatedAt:           timeVal(attrs, "updated-at"),
		Permissions:         boolMap(attrs, "permissions"),
	}
}

func workspaceFromFlat(raw map[string]interface{}) model.Workspace {
	return model.Workspace{
		ID:                  str(raw, "id"),
		Name:                str(raw, "name"),
		Organization:        str(raw, "organization"),
		Project:             str(raw, "project"),
		Description:         str(raw, "description"),
		TerraformVersion:    str(raw, "terraform_version"),
		WorkingDirectory:    str(raw, "working_directory"),
		AutoApply:           boolDefault(raw, "auto_apply", model.DefaultAutoApply),
		FileTriggersEnabled: boolDefault(raw, "file_triggers_enabled", model.DefaultFileTriggersEnabled),
		QueueAllRuns:        boolDefault(raw, "queue_all_runs", model.DefaultQueueAllRuns),
		SpeculativeEnabled:  boolDefault(raw, "speculative_enabled", model.DefaultSpeculativeEnabled),
		TriggerPrefixes:     strSlice(raw, "trigger_prefixes"),
		ExecutionMode:       strDefault(raw, "execution_mode", model.DefaultExecutionMode),
		TagNames:            strSlice(raw, "tag_names"),
		VCSRepo:             vcsRepo(subMap(raw, "vcs_repo"), false),
		Locked:              boolDefault(raw, "locked", false),
		ResourceCount:       intVal(raw, "resource_count"),
		CreatedAt:           timeVal(raw, "created_at"),
		UpdatedAt:           timeVal(raw, "updated_at"),
		Permissions:         boolMap(raw, "permissions"),
	}
}

func runFromEnvelope(raw map[string]interface{}) model.Run {
	attrs := subMap(raw, "attributes")
	rels := subMap(raw, "relationships")
	wk := subMap(rels, "workspace")

	return model.Run{
		ID:                 str(raw, "id"),
		WorkspaceID:        relationshipID(rels, "workspace"),
		Status:             model.RunStatus(str(attrs, "status")),
		Message:            str(attrs, "message"),
		CreatedAt:          timeVal(attrs, "created-at"),
		PlanOnly:           boolDefault(attrs, "plan-only", false),
		AutoApply:          boolPtr(attrs, "auto-apply"),
		TargetAddrs:        strSlice(attrs, "target-addrs"),
		ReplaceAddrs:       strSlice(attrs, "replace-addrs"),
		HasChanges:         boolDefault(attrs, "has-changes", false),
		WorkspaceAutoApply: boolPtr(subMap(wk, "attributes"), "auto-apply"),
		StatusTimestamps:   timeMap(attrs, "status-timestamps"),
		Permissions:        runPermissions(subMap(attrs, "permissions")),
	}
}

func runFromFlat(raw map[string]interface{}) model.Run {
	return model.Run{
		ID:                 str(raw, "id"),
		WorkspaceID:        str(raw, "workspace_id"),
		Status:             model.RunStatus(str(raw, "status")),
		Message:            str(raw, "message"),
		CreatedAt:          timeVal(raw, "created_at"),
		PlanOnly:           boolDefault(raw, "plan_only", false),
		AutoApply:          boolPtr(raw, "auto_apply"),
		TargetAddrs:        strSlice(raw, "target_addrs"),
		ReplaceAddrs:       strSlice(raw, "replace_addrs"),
		HasChanges:         boolDefault(raw, "has_changes", false),
		WorkspaceAutoApply: boolPtr(raw, "workspace_auto_apply"),
		StatusTimestamps:   timeMap(raw, "status_timestamps"),
		Permissions:        runPermissions(subMap(raw, "permissions")),
	}
}

func vcsRepo(raw map[string]interface{}, hyphenated bool) *model.VCSRepo {
	if len(raw) == 0 {
		return nil
	}

	if hyphenated {
		return &model.VCSRepo{
			Identifier:        str(raw, "identifier"),
			Branch:            str(raw, "branch"),
			OAuthTokenID:      str(raw, "oauth-token-id"),
			IngressSubmodules: boolDefault(raw, "ingress-submodules", false),
		}
	}

	return &model.VCSRepo{
		Identifier:        str(raw, "identifier"),
		Branch:            str(raw, "branch"),
		OAuthTokenID:      str(raw, "oauth_token_id"),
		IngressSubmodules: boolDefault(raw, "ingress_submodules", false),
	}
}

func runPermissions(raw map[string]interface{}) model.RunPermissions {
	return model.RunPermissions{
		CanApply:        boolDefault(raw, "can-apply", boolDefault(raw, "can_apply", false)),
		CanCancel:       boolDefault(raw, "can-cancel", boolDefault(raw, "can_cancel", false)),
		CanDiscard:      boolDefault(raw, "can-discard", boolDefault(raw, "can_discard", false)),
		CanForceExecute: boolDefault(raw, "can-force-execute", boolDefault(raw, "can_force_execute", false)),
	}
}

func relationshipID(rels map[string]interface{}, name string) string {
	return str(subMap(subMap(rels, name), "data"), "id")
}

func planName(attrs map[string]interface{}) string {
	switch v := attrs["plan"].(type) {
	case string:
		return v
	case map[string]interface{}:
		return firstStr(v, "identifier", str(v, "name"))
	default:
		return ""
	}
}

func subMap(m map[string]interface{}, key string) map[string]interface{} {
	v, _ := m[key].(map[string]interface{})
	return v
}

func str(m map[string]interface{}, key string) string {
	v, _ := m[key].(string)
	return v
}

func strDefault(m map[string]interface{}, key, def string) string {
	v, ok := m[key].(string)
	if !ok || v == "" {
		return def
	}
	return v
}

func firstStr(m map[string]interface{}, key, fallback string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func boolDefault(m map[string]interface{}, key string, def bool) bool {
	v, ok := m[key].(bool)
	if !ok {
		return def
	}
	return v
}

func boolPtr(m map[string]interface{}, key string) *bool {
	v, ok := m[key].(bool)
	if !ok {
		return nil
	}
	return &v
}

func intVal(m map[string]interface{}, key string) int {
	// JSON decodes numbers as float64, YAML as int.
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func strSlice(m map[string]interface{}, key string) []string {
	raw, ok := m[key].([]interface{})
	if !ok {
		return nil
	}

	res := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			res = append(res, s)
		}
	}

	return res
}

func boolMap(m map[string]interface{}, key string) map[string]bool {
	raw := subMap(m, key)
	if len(raw) == 0 {
		return nil
	}

	res := make(map[string]bool, len(raw))
	for k, v := range raw {
		if b, ok := v.(bool); ok {
			res[underscored(k)] = b
		}
	}

	return res
}

func timeMap(m map[string]interface{}, key string) map[string]time.Time {
	raw := subMap(m, key)
	if len(raw) == 0 {
		return nil
	}

	res := make(map[string]time.Time, len(raw))
	for k, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			continue
		}
		res[underscored(k)] = t
	}

	return res
}

func timeVal(m map[string]interface{}, keys ...string) time.Time {
	for _, key := range keys {
		s, ok := m[key].(string)
		if !ok {
			continue
		}
		t, err := time.Parse(time.RFC3339, s)
		if err == nil {
			return t
		}
	}
	return time.Time{}
}

func underscored(s string) string {
	res := []rune(s)
	for i, r := range res {
		if r == '-' {
			res[i] = '_'
		}
	}
	return string(res)
}
