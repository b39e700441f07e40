package model

import "time"

// Single defaults table shared by validation, diffing and normalization. Absent fields
// anywhere in the app resolve against these values and nothing else.
const (
	DefaultExecutionMode       = "remote"
	DefaultAutoApply           = false
	DefaultFileTriggersEnabled = true
	DefaultQueueAllRuns        = false
	DefaultSpeculativeEnabled  = true

	DefaultVariableCategory = CategoryTerraform
	DefaultSensitive        = false
	DefaultHCL              = false

	// SensitiveValueMask replaces any sensitive variable value on normalization.
	SensitiveValueMask = "***SENSITIVE***"

	DefaultRunMessage = "Triggered by tfe-sync"
)

const (
	// DefaultWaitTimeout bounds the run completion wait.
	DefaultWaitTimeout = 30 * time.Minute

	// DefaultPollInterval is the pause between run status checks while waiting.
	DefaultPollInterval = 10 * time.Second
)

// WithDefaults returns the workspace with absent fields replaced by the defaults
// table. Only fields whose default is not the Go zero value need filling.
func (w Workspace) WithDefaults() Workspace {
	if w.ExecutionMode == "" {
		w.ExecutionMode = DefaultExecutionMode
	}
	return w
}
