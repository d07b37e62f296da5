package client

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmsman-run/helmsman/controller"
	"github.com/helmsman-run/helmsman/diagnose"
	"github.com/helmsman-run/helmsman/engine"
	"github.com/helmsman-run/helmsman/models"
	"github.com/helmsman-run/helmsman/runtime"
	"github.com/helmsman-run/helmsman/server"
	"github.com/helmsman-run/helmsman/store"
	"github.com/helmsman-run/helmsman/translate"
)

const webManifest = `apiVersion: helmsman.run/v1
kind: Application
metadata:
  name: web
spec:
  replicas: 2
  container:
    image: nginx:latest
`

func newTestClient(t *testing.T) (*Client, *runtime.MemoryRuntime) {
	t.Helper()
	rt := runtime.NewMemoryRuntime()
	s := store.New()
	rec := controller.New(s, rt, controller.WithInterval(10*time.Millisecond))
	e := engine.New(s, translate.New(nil, nil), diagnose.New(rt, nil, nil), rec, nil)
	t.Cleanup(func() { e.Stop() })

	srv := httptest.NewServer(server.NewAPIServer(e, ":0", nil).Handler())
	t.Cleanup(srv.Close)
	return New(srv.URL), rt
}

func TestClientDeployStatusDelete(t *testing.T) {
	c, rt := newTestClient(t)
	ctx := context.Background()

	res, err := c.Deploy(ctx, []byte(webManifest))
	require.NoError(t, err)
	assert.True(t, res.Success, res.Message)

	containers, err := rt.List(ctx, models.ManagedLabels("web"))
	require.NoError(t, err)
	assert.Len(t, containers, 2)

	apps, err := c.ListApplications(ctx)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "web", apps[0].Name)
	assert.Equal(t, 2, apps[0].Replicas)

	status, err := c.Status(ctx)
	require.NoError(t, err)
	require.Len(t, status.Status, 1)
	assert.Equal(t, 2, status.Status[0].Replicas)

	text, err := c.Manifest(ctx, "web")
	require.NoError(t, err)
	assert.Contains(t, text, "nginx:latest")

	res, err = c.DeleteApplication(ctx, "web")
	require.NoError(t, err)
	assert.True(t, res.Success, res.Message)

	apps, err = c.ListApplications(ctx)
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestClientTranslate(t *testing.T) {
	c, rt := newTestClient(t)
	ctx := context.Background()

	res, err := c.Translate(ctx, "deploy nginx:latest named web with 3 replicas")
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	require.NotNil(t, res.Command)
	assert.Equal(t, models.IntentDeploy, res.Command.Intent)

	containers, err := rt.List(ctx, models.ManagedLabels("web"))
	require.NoError(t, err)
	assert.Len(t, containers, 3)
}

func TestClientTranslateFailureIsNotAnError(t *testing.T) {
	c, _ := newTestClient(t)

	// A vague instruction comes back as a clarification request: HTTP 400
	// with a structured body, not a transport error.
	res, err := c.Translate(context.Background(), "do the thing")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Message)
}

func TestClientDiagnoseAndHeal(t *testing.T) {
	c, rt := newTestClient(t)
	ctx := context.Background()

	res, err := c.Deploy(ctx, []byte(webManifest))
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)

	containers, err := rt.List(ctx, models.ManagedLabels("web"))
	require.NoError(t, err)
	require.Len(t, containers, 2)
	rt.MarkFailed(containers[0].ID, "exec format error: permission denied")

	res, err = c.Diagnose(ctx, containers[0].ID)
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	require.Len(t, res.Analyses, 1)
	assert.Equal(t, "Permission Denied", res.Analyses[0].RootCause)

	report, err := c.Report(ctx)
	require.NoError(t, err)
	assert.True(t, report.Success)

	res, err = c.Heal(ctx, "web")
	require.NoError(t, err)
	assert.True(t, res.Success, res.Message)

	remaining, err := rt.List(ctx, models.ManagedLabels("web"))
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}
