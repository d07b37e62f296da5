package models

import "time"

// Labels stamped onto every container helmsman creates. All list/stop
// operations filter on these so unmanaged workloads are never touched.
const (
	LabelManaged      = "helmsman.managed"
	LabelManagedValue = "true"
	LabelApp          = "helmsman.app"
)

// ManagedLabels returns the label set for containers owned by the named
// application.
func ManagedLabels(appName string) map[string]string {
	return map[string]string{
		LabelManaged: LabelManagedValue,
		LabelApp:     appName,
	}
}

type ContainerStatus string

const (
	StatusPending ContainerStatus = "pending"
	StatusRunning ContainerStatus = "running"
	StatusStopped ContainerStatus = "stopped"
	StatusFailed  ContainerStatus = "failed"
)

// ManagedContainer is the core's read-only view of one container owned by the
// runtime. The core observes it and requests transitions; it never mutates
// fields directly.
type ManagedContainer struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Image     string            `json:"image"`
	Status    ContainerStatus   `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
	Labels    map[string]string `json:"labels,omitempty"`
}

// AppName returns the owning application name from the container's labels.
func (c ManagedContainer) AppName() string {
	return c.Labels[LabelApp]
}
