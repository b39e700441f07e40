// Package reconcile computes the minimal change sets between current remote state and
// desired state. It never talks to the API, callers execute the returned plans.
package reconcile

import "github.com/slok/tfe-sync/internal/model"

// WorkspaceDiff compares the updatable attributes of a workspace and returns the
// attribute -> new value map of what must change. An empty map means the workspace is
// already in the desired state and no update call should be made.
//
// Only the fixed allow-list of updatable attributes is compared, with plain value
// equality (list order matters). An empty desired terraform version means "keep
// whatever is set remotely" and is never diffed.
func WorkspaceDiff(current, desired model.Workspace) map[string]interface{} {
	current = current.WithDefaults()
	desired = desired.WithDefaults()

	changes := map[string]interface{}{}

	if desired.Description != current.Description {
		changes["description"] = desired.Description
	}

	if desired.TerraformVersion != "" && desired.TerraformVersion != current.TerraformVersion {
		changes["terraform_version"] = desired.TerraformVersion
	}

	if desired.WorkingDirectory != current.WorkingDirectory {
		changes["working_directory"] = desired.WorkingDirectory
	}

	if desired.AutoApply != current.AutoApply {
		changes["auto_apply"] = desired.AutoApply
	}

	if desired.FileTriggersEnabled != current.FileTriggersEnabled {
		changes["file_triggers_enabled"] = desired.FileTriggersEnabled
	}

	if desired.QueueAllRuns != current.QueueAllRuns {
		changes["queue_all_runs"] = desired.QueueAllRuns
	}

	if desired.SpeculativeEnabled != current.SpeculativeEnabled {
		changes["speculative_enabled"] = desired.SpeculativeEnabled
	}

	if !stringSlicesEqual(desired.TriggerPrefixes, current.TriggerPrefixes) {
		changes["trigger_prefixes"] = desired.TriggerPrefixes
	}

	if desired.ExecutionMode != current.ExecutionMode {
		changes["execution_mode"] = desired.ExecutionMode
	}

	if !stringSlicesEqual(desired.TagNames, current.TagNames) {
		changes["tag_names"] = desired.TagNames
	}

	return changes
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
