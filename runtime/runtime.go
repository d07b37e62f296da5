// Package runtime defines the container-runtime boundary the reconciler
// drives, plus the adapters that implement it.
package runtime

import (
	"context"

	"github.com/helmsman-run/helmsman/models"
)

// ContainerRuntime is the set of operations the core needs from whatever
// engine actually runs containers. Implementations must scope List to the
// given label filter so callers never see unmanaged workloads.
type ContainerRuntime interface {
	// Create starts a container from image under the given name and labels
	// and returns its id.
	Create(ctx context.Context, image, name string, labels map[string]string) (string, error)

	// Stop stops and removes the container.
	Stop(ctx context.Context, id string) error

	// List returns every container matching all labels in the filter,
	// regardless of state.
	List(ctx context.Context, labelFilter map[string]string) ([]models.ManagedContainer, error)

	// Logs returns the container's collected log output.
	Logs(ctx context.Context, id string) (string, error)
}
