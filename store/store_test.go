package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmsman-run/helmsman/manifest"
	"github.com/helmsman-run/helmsman/models"
)

func intPtr(n int) *int { return &n }

func deployCmd(name, image string, replicas *int) models.Command {
	return models.Command{
		Intent:     models.IntentDeploy,
		AppName:    name,
		Image:      image,
		Replicas:   replicas,
		Confidence: 1,
	}
}

func TestDeployStoresApplication(t *testing.T) {
	s := New()

	res := s.ApplyCommand(deployCmd("web", "nginx:latest", intPtr(3)))
	require.True(t, res.Success, res.Message)

	app, ok := s.GetApplication("web")
	require.True(t, ok)
	assert.Equal(t, "nginx:latest", app.Image)
	assert.Equal(t, 3, app.Replicas)
}

func TestDeployDefaultsToOneReplica(t *testing.T) {
	s := New()

	res := s.ApplyCommand(deployCmd("web", "nginx:latest", nil))
	require.True(t, res.Success, res.Message)

	app, _ := s.GetApplication("web")
	assert.Equal(t, 1, app.Replicas)
}

func TestDeployOverwritesExistingSpec(t *testing.T) {
	s := New()
	cmd := deployCmd("web", "nginx:1.25", intPtr(3))
	cmd.Ports = []int{80, 443}
	s.ApplyCommand(cmd)

	// Second deploy fully replaces the spec, ports included.
	res := s.ApplyCommand(deployCmd("web", "nginx:latest", nil))
	require.True(t, res.Success, res.Message)

	app, _ := s.GetApplication("web")
	assert.Equal(t, "nginx:latest", app.Image)
	assert.Equal(t, 1, app.Replicas)
	assert.Empty(t, app.Ports)
}

func TestDeployRequiresNameAndImage(t *testing.T) {
	s := New()

	res := s.ApplyCommand(models.Command{Intent: models.IntentDeploy, Image: "nginx"})
	assert.False(t, res.Success)

	res = s.ApplyCommand(models.Command{Intent: models.IntentDeploy, AppName: "web"})
	assert.False(t, res.Success)
	assert.False(t, s.HasApplication("web"))
}

func TestScale(t *testing.T) {
	s := New()
	s.ApplyCommand(deployCmd("web", "nginx:latest", intPtr(2)))

	res := s.ApplyCommand(models.Command{Intent: models.IntentScale, AppName: "web", Replicas: intPtr(5)})
	require.True(t, res.Success, res.Message)
	assert.Contains(t, res.Message, "up from 2 to 5")

	res = s.ApplyCommand(models.Command{Intent: models.IntentScale, AppName: "web", Replicas: intPtr(1)})
	require.True(t, res.Success)
	assert.Contains(t, res.Message, "down from 5 to 1")

	res = s.ApplyCommand(models.Command{Intent: models.IntentScale, AppName: "web", Replicas: intPtr(1)})
	require.True(t, res.Success)
	assert.Equal(t, "'web' already at 1 replica(s), nothing to change", res.Message)

	app, _ := s.GetApplication("web")
	assert.Equal(t, 1, app.Replicas)
}

func TestScaleUnknownApplicationFails(t *testing.T) {
	s := New()

	res := s.ApplyCommand(models.Command{Intent: models.IntentScale, AppName: "ghost", Replicas: intPtr(2)})
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "application not found")
}

func TestDelete(t *testing.T) {
	s := New()
	s.ApplyCommand(deployCmd("web", "nginx:latest", nil))

	res := s.ApplyCommand(models.Command{Intent: models.IntentDelete, AppName: "web"})
	require.True(t, res.Success)
	assert.False(t, s.HasApplication("web"))

	res = s.ApplyCommand(models.Command{Intent: models.IntentDelete, AppName: "web"})
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "application not found")
}

func TestStatusMessage(t *testing.T) {
	s := New()
	assert.Equal(t, "No applications deployed.", s.FormatStatus())

	s.ApplyCommand(deployCmd("web", "nginx:latest", intPtr(2)))
	s.ApplyCommand(deployCmd("api", "api:v1", nil))

	status := s.FormatStatus()
	assert.Contains(t, status, "2 application(s)")
	assert.Contains(t, status, "web: image=nginx:latest replicas=2")
	assert.Contains(t, status, "api: image=api:v1 replicas=1")
}

func TestToManifestRoundTrips(t *testing.T) {
	s := New()
	cmd := deployCmd("web", "nginx:latest", intPtr(2))
	cmd.Ports = []int{80}
	s.ApplyCommand(cmd)

	text, err := s.ToManifest("web")
	require.NoError(t, err)

	parsed, err := manifest.Parse([]byte(text))
	require.NoError(t, err)
	app, _ := s.GetApplication("web")
	assert.Equal(t, app, parsed)

	_, err = s.ToManifest("ghost")
	require.ErrorIs(t, err, models.ErrApplicationNotFound)
}
