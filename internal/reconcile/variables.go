package reconcile

import (
	"sort"

	"github.com/slok/tfe-sync/internal/model"
)

// OperationKind is the kind of a planned variable operation.
type OperationKind string

const (
	OperationCreate    OperationKind = "create"
	OperationUpdate    OperationKind = "update"
	OperationDelete    OperationKind = "delete"
	OperationUnchanged OperationKind = "unchanged"
)

// VariableOperation is one planned step of a variable reconciliation.
type VariableOperation struct {
	Kind       OperationKind
	Key        string
	VariableID string               // Set for update, delete and unchanged.
	Config     model.VariableConfig // Set for create and update.
}

// PlanVariables computes the ordered operation list that moves the current variable
// set to the desired one. Creates and updates keep the declaration order of the
// desired list. When purge is set, every current key absent from the desired list is
// deleted; deletes are appended after creates and updates, in sorted key order so the
// plan is deterministic.
func PlanVariables(current map[string]model.Variable, desired []model.VariableConfig, purge bool) []VariableOperation {
	ops := []VariableOperation{}
	desiredKeys := map[string]bool{}

	for _, cfg := range desired {
		cfg = cfg.WithDefaults()
		desiredKeys[cfg.Key] = true

		cur, ok := current[cfg.Key]
		switch {
		case !ok:
			ops = append(ops, VariableOperation{Kind: OperationCreate, Key: cfg.Key, Config: cfg})
		case variableNeedsUpdate(cur, cfg):
			ops = append(ops, VariableOperation{Kind: OperationUpdate, Key: cfg.Key, VariableID: cur.ID, Config: cfg})
		default:
			ops = append(ops, VariableOperation{Kind: OperationUnchanged, Key: cfg.Key, VariableID: cur.ID})
		}
	}

	if !purge {
		return ops
	}

	purged := []string{}
	for key := range current {
		if !desiredKeys[key] {
			purged = append(purged, key)
		}
	}
	sort.Strings(purged)

	for _, key := range purged {
		ops = append(ops, VariableOperation{Kind: OperationDelete, Key: key, VariableID: current[key].ID})
	}

	return ops
}

// variableNeedsUpdate compares a current variable against a desired config with the
// defaults already applied. Sensitive variables always need an update: the API never
// returns their value, so there is nothing to compare the desired value against.
func variableNeedsUpdate(current model.Variable, desired model.VariableConfig) bool {
	if desired.Sensitive || current.Sensitive {
		return true
	}

	return current.Value != desired.Value ||
		current.Category != desired.Category ||
		current.HCL != desired.HCL ||
		current.Description != desired.Description
}
