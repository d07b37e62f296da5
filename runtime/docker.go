package runtime

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"

	"github.com/helmsman-run/helmsman/models"
)

// DockerRuntime implements ContainerRuntime against the local Docker daemon.
type DockerRuntime struct {
	cli *client.Client
}

// NewDockerRuntime connects to the daemon using the standard DOCKER_HOST
// environment handling.
func NewDockerRuntime() (*DockerRuntime, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}
	return &DockerRuntime{cli: cli}, nil
}

func (d *DockerRuntime) Create(ctx context.Context, image, name string, labels map[string]string) (string, error) {
	reader, err := d.cli.ImagePull(ctx, image, types.ImagePullOptions{})
	if err != nil {
		return "", fmt.Errorf("pull image %q: %w", image, err)
	}
	// Drain so the pull completes; progress output is not interesting here.
	io.Copy(io.Discard, reader)
	reader.Close()

	resp, err := d.cli.ContainerCreate(ctx, &container.Config{
		Image:  image,
		Labels: labels,
	}, nil, nil, nil, name)
	if err != nil {
		return "", fmt.Errorf("create container %q: %w", name, err)
	}

	if err := d.cli.ContainerStart(ctx, resp.ID, types.ContainerStartOptions{}); err != nil {
		return "", fmt.Errorf("start container %q: %w", name, err)
	}
	return resp.ID, nil
}

func (d *DockerRuntime) Stop(ctx context.Context, id string) error {
	stopCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := d.cli.ContainerStop(stopCtx, id, container.StopOptions{}); err != nil {
		return fmt.Errorf("stop container %q: %w", id, err)
	}
	if err := d.cli.ContainerRemove(ctx, id, types.ContainerRemoveOptions{Force: true}); err != nil {
		return fmt.Errorf("remove container %q: %w", id, err)
	}
	return nil
}

func (d *DockerRuntime) List(ctx context.Context, labelFilter map[string]string) ([]models.ManagedContainer, error) {
	args := filters.NewArgs()
	for k, v := range labelFilter {
		args.Add("label", k+"="+v)
	}

	containers, err := d.cli.ContainerList(ctx, types.ContainerListOptions{
		All:     true,
		Filters: args,
	})
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}

	result := make([]models.ManagedContainer, 0, len(containers))
	for _, c := range containers {
		name := ""
		if len(c.Names) > 0 {
			name = strings.TrimPrefix(c.Names[0], "/")
		}
		result = append(result, models.ManagedContainer{
			ID:        c.ID,
			Name:      name,
			Image:     c.Image,
			Status:    mapDockerState(c.State, c.Status),
			CreatedAt: time.Unix(c.Created, 0),
			Labels:    c.Labels,
		})
	}
	return result, nil
}

func (d *DockerRuntime) Logs(ctx context.Context, id string) (string, error) {
	reader, err := d.cli.ContainerLogs(ctx, id, types.ContainerLogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       "200",
	})
	if err != nil {
		return "", fmt.Errorf("fetch logs for %q: %w", id, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read logs for %q: %w", id, err)
	}
	return string(data), nil
}

// mapDockerState folds Docker's state/status strings into the four statuses
// the core understands. A non-zero exit is a failure.
func mapDockerState(state, status string) models.ContainerStatus {
	switch state {
	case "created", "restarting":
		return models.StatusPending
	case "running", "paused":
		return models.StatusRunning
	case "exited":
		if strings.Contains(status, "(0)") {
			return models.StatusStopped
		}
		return models.StatusFailed
	case "dead":
		return models.StatusFailed
	default:
		return models.StatusPending
	}
}
