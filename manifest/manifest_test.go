package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmsman-run/helmsman/models"
)

const webManifest = `
apiVersion: helmsman.run/v1
kind: Application
metadata:
  name: web
spec:
  replicas: 2
  container:
    image: nginx:latest
    ports:
      - containerPort: 80
        protocol: TCP
`

func TestParse(t *testing.T) {
	app, err := Parse([]byte(webManifest))
	require.NoError(t, err)

	assert.Equal(t, "web", app.Name)
	assert.Equal(t, "nginx:latest", app.Image)
	assert.Equal(t, 2, app.Replicas)
	assert.Equal(t, []int{80}, app.Ports)
}

func TestParseDefaultsReplicasToOne(t *testing.T) {
	app, err := Parse([]byte(`
apiVersion: helmsman.run/v1
kind: Application
metadata:
  name: worker
spec:
  container:
    image: busybox
`))
	require.NoError(t, err)
	assert.Equal(t, 1, app.Replicas)
	assert.Empty(t, app.Ports)
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"wrong kind", "apiVersion: helmsman.run/v1\nkind: Pod\nmetadata:\n  name: web\nspec:\n  container:\n    image: nginx"},
		{"missing name", "apiVersion: helmsman.run/v1\nkind: Application\nspec:\n  container:\n    image: nginx"},
		{"missing image", "apiVersion: helmsman.run/v1\nkind: Application\nmetadata:\n  name: web\nspec: {}"},
		{"negative replicas", "apiVersion: helmsman.run/v1\nkind: Application\nmetadata:\n  name: web\nspec:\n  replicas: -1\n  container:\n    image: nginx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.ErrorIs(t, err, models.ErrManifestInvalid)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	original := models.Application{
		Name:     "web",
		Image:    "nginx:latest",
		Replicas: 2,
		Ports:    []int{80},
	}

	text, err := Render(original)
	require.NoError(t, err)

	parsed, err := Parse([]byte(text))
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func TestRoundTripCarriesAutoscaling(t *testing.T) {
	original := models.Application{
		Name:     "api",
		Image:    "api:v3",
		Replicas: 3,
		Autoscaling: &models.AutoscalingPolicy{
			Enabled:              true,
			MinReplicas:          2,
			MaxReplicas:          10,
			TargetCPUUtilization: 75,
		},
	}

	text, err := Render(original)
	require.NoError(t, err)

	parsed, err := Parse([]byte(text))
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}
