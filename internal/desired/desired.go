// Package desired loads desired state files. Files are YAML (JSON parses too, YAML is
// a superset) and workspace documents are accepted in both historical shapes: the flat
// underscore-keyed attribute map and the raw API envelope with nested attributes.
package desired

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/slok/tfe-sync/internal/internalerrors"
	"github.com/slok/tfe-sync/internal/model"
	"github.com/slok/tfe-sync/internal/normalize"
)

// WorkspaceState is the full desired state of one workspace: its attributes and,
// optionally, its variable set.
type WorkspaceState struct {
	Workspace      model.Workspace
	Variables      []model.VariableConfig
	PurgeVariables bool
}

// State is the desired state of a set of workspaces, as the controller consumes it.
type State struct {
	Workspaces []WorkspaceState
}

type rawWorkspaceState struct {
	Workspace      map[string]interface{} `yaml:"workspace"`
	Variables      []model.VariableConfig `yaml:"variables"`
	PurgeVariables bool                   `yaml:"purge_variables"`
}

type rawState struct {
	Workspaces []rawWorkspaceState `yaml:"workspaces"`
}

// LoadState reads a full desired state file.
func LoadState(path string) (*State, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open desired state file: %w", err)
	}
	defer f.Close()

	return ReadState(f)
}

// ReadState decodes a full desired state document.
func ReadState(r io.Reader) (*State, error) {
	raw := rawState{}
	err := yaml.NewDecoder(r).Decode(&raw)
	if err != nil {
		return nil, fmt.Errorf("could not decode desired state: %s: %w", err, internalerrors.ErrValidation)
	}

	if len(raw.Workspaces) == 0 {
		return nil, fmt.Errorf("desired state declares no workspaces: %w", internalerrors.ErrValidation)
	}

	st := &State{}
	for i, rw := range raw.Workspaces {
		if len(rw.Workspace) == 0 {
			return nil, fmt.Errorf("workspace entry %d has no workspace document: %w", i, internalerrors.ErrValidation)
		}

		wk := normalize.Workspace(rw.Workspace)
		err := wk.ValidateDesired()
		if err != nil {
			return nil, err
		}

		for _, cfg := range rw.Variables {
			err := cfg.Validate()
			if err != nil {
				return nil, err
			}
		}

		st.Workspaces = append(st.Workspaces, WorkspaceState{
			Workspace:      wk,
			Variables:      rw.Variables,
			PurgeVariables: rw.PurgeVariables,
		})
	}

	return st, nil
}

// LoadWorkspace reads a single workspace document in either shape.
func LoadWorkspace(path string) (*model.Workspace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open workspace file: %w", err)
	}
	defer f.Close()

	raw := map[string]interface{}{}
	err = yaml.NewDecoder(f).Decode(&raw)
	if err != nil {
		return nil, fmt.Errorf("could not decode workspace document: %s: %w", err, internalerrors.ErrValidation)
	}

	wk := normalize.Workspace(raw)
	err = wk.ValidateDesired()
	if err != nil {
		return nil, err
	}

	return &wk, nil
}

// LoadVariables reads a variable config list. The list order is preserved, it is the
// order operations will be planned in.
func LoadVariables(path string) ([]model.VariableConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open variables file: %w", err)
	}
	defer f.Close()

	doc := struct {
		Variables []model.VariableConfig `yaml:"variables"`
	}{}
	err = yaml.NewDecoder(f).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("could not decode variables document: %s: %w", err, internalerrors.ErrValidation)
	}

	if len(doc.Variables) == 0 {
		return nil, fmt.Errorf("variables file declares no variables: %w", internalerrors.ErrValidation)
	}

	for _, cfg := range doc.Variables {
		err := cfg.Validate()
		if err != nil {
			return nil, err
		}
	}

	return doc.Variables, nil
}
