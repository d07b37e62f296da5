package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/helmsman-run/helmsman/models"
)

// MemoryRuntime is an in-process ContainerRuntime used by tests and by the
// `--runtime memory` dry-run mode. Creation timestamps increase strictly
// monotonically so oldest-first selection is deterministic.
type MemoryRuntime struct {
	mu         sync.Mutex
	seq        int
	base       time.Time
	containers map[string]models.ManagedContainer
	logs       map[string]string
	createErr  error
}

func NewMemoryRuntime() *MemoryRuntime {
	return &MemoryRuntime{
		base:       time.Now(),
		containers: make(map[string]models.ManagedContainer),
		logs:       make(map[string]string),
	}
}

func (m *MemoryRuntime) Create(ctx context.Context, image, name string, labels map[string]string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return "", m.createErr
	}

	m.seq++
	id := fmt.Sprintf("mem-%s", uuid.New().String()[:12])
	copied := make(map[string]string, len(labels))
	for k, v := range labels {
		copied[k] = v
	}
	m.containers[id] = models.ManagedContainer{
		ID:        id,
		Name:      name,
		Image:     image,
		Status:    models.StatusRunning,
		CreatedAt: m.base.Add(time.Duration(m.seq) * time.Second),
		Labels:    copied,
	}
	return id, nil
}

func (m *MemoryRuntime) Stop(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.containers[id]; !ok {
		return fmt.Errorf("%w: %s", models.ErrContainerNotFound, id)
	}
	delete(m.containers, id)
	delete(m.logs, id)
	return nil
}

func (m *MemoryRuntime) List(ctx context.Context, labelFilter map[string]string) ([]models.ManagedContainer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []models.ManagedContainer
	for _, c := range m.containers {
		if matchLabels(c.Labels, labelFilter) {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *MemoryRuntime) Logs(ctx context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.containers[id]; !ok {
		return "", fmt.Errorf("%w: %s", models.ErrContainerNotFound, id)
	}
	return m.logs[id], nil
}

// MarkFailed flips a container into the failed state with the given log
// output. Used to simulate crashes.
func (m *MemoryRuntime) MarkFailed(id, logs string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.containers[id]; ok {
		c.Status = models.StatusFailed
		m.containers[id] = c
		m.logs[id] = logs
	}
}

// SetCreateError makes subsequent Create calls fail with err; nil clears it.
func (m *MemoryRuntime) SetCreateError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createErr = err
}

func matchLabels(labels, selector map[string]string) bool {
	for k, v := range selector {
		if labels[k] != v {
			return false
		}
	}
	return true
}
