package metrics

import "time"

// Recorder knows how to record the measurements of the app.
type Recorder interface {
	ObserveWorkspaceSync(workspaceName string, success, changed bool, duration time.Duration)
}

// Noop is a no-op recorder.
const Noop = noop(false)

type noop bool

func (noop) ObserveWorkspaceSync(string, bool, bool, time.Duration) {}
