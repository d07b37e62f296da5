package translate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmsman-run/helmsman/models"
)

type fakeGenerator struct {
	output string
	err    error
}

func (f fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return f.output, f.err
}

func TestKeywordTier(t *testing.T) {
	tr := New(nil, nil)

	tests := []struct {
		name     string
		input    string
		intent   models.Intent
		appName  string
		image    string
		replicas *int
	}{
		{
			name:     "deploy with name and replicas",
			input:    "deploy nginx:latest as web with 2 replicas",
			intent:   models.IntentDeploy,
			appName:  "web",
			image:    "nginx:latest",
			replicas: intPtr(2),
		},
		{
			name:     "scale names app and count",
			input:    "scale web to 5",
			intent:   models.IntentScale,
			appName:  "web",
			replicas: intPtr(5),
		},
		{
			name:    "delete",
			input:   "delete web",
			intent:  models.IntentDelete,
			appName: "web",
		},
		{
			name:   "status",
			input:  "show status",
			intent: models.IntentStatus,
		},
		{
			name:   "gibberish falls back to help",
			input:  "make me a sandwich",
			intent: models.IntentHelp,
		},
		{
			name:    "bare known image",
			input:   "create a redis instance called cache",
			intent:  models.IntentDeploy,
			appName: "cache",
			image:   "redis",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := tr.Translate(context.Background(), tt.input)
			assert.Equal(t, tt.intent, cmd.Intent)
			assert.Equal(t, tt.appName, cmd.AppName)
			assert.Equal(t, tt.image, cmd.Image)
			if tt.replicas != nil {
				require.NotNil(t, cmd.Replicas)
				assert.Equal(t, *tt.replicas, *cmd.Replicas)
			}
			assert.GreaterOrEqual(t, cmd.Confidence, 0.0)
			assert.LessOrEqual(t, cmd.Confidence, 1.0)
		})
	}
}

func TestNameSynthesizedFromImage(t *testing.T) {
	tr := New(nil, nil)

	cmd := tr.Translate(context.Background(), "deploy nginx:latest")
	assert.Equal(t, models.IntentDeploy, cmd.Intent)
	assert.Equal(t, "nginxlatest-app", cmd.AppName)
	assert.Contains(t, cmd.Reasoning, "synthesized from image")
}

func TestNamingKeywordNeedsWordBoundary(t *testing.T) {
	tr := New(nil, nil)

	// The "as" inside "has" must not be read as a naming keyword; with no
	// explicit name the translator synthesizes one from the image.
	cmd := tr.Translate(context.Background(), "deploy nginx:latest, it has webby traffic")
	assert.Equal(t, models.IntentDeploy, cmd.Intent)
	assert.Equal(t, "nginxlatest-app", cmd.AppName)
}

func TestSynthesizeAppNameIsDeterministic(t *testing.T) {
	assert.Equal(t, "nginxlatest-app", SynthesizeAppName("nginx:latest"))
	assert.Equal(t, "myorgapiv21-app", SynthesizeAppName("MyOrg/api:v2.1"))
	assert.Equal(t, SynthesizeAppName("redis"), SynthesizeAppName("redis"))
}

func TestModelTierParsesJSON(t *testing.T) {
	gen := fakeGenerator{output: `Here is the parsed command:
{"intent":"deploy","appName":"web","image":"nginx:latest","replicas":3,"confidence":0.95,"reasoning":"explicit deploy request"}`}
	tr := New(gen, nil)

	cmd := tr.Translate(context.Background(), "please run three nginx web servers")
	assert.Equal(t, models.IntentDeploy, cmd.Intent)
	assert.Equal(t, "web", cmd.AppName)
	assert.Equal(t, "nginx:latest", cmd.Image)
	require.NotNil(t, cmd.Replicas)
	assert.Equal(t, 3, *cmd.Replicas)
	assert.InDelta(t, 0.95, cmd.Confidence, 1e-9)
}

func TestConfidenceClamped(t *testing.T) {
	over := fakeGenerator{output: `{"intent":"deploy","appName":"web","image":"nginx","confidence":5}`}
	cmd := New(over, nil).Translate(context.Background(), "deploy nginx as web")
	assert.Equal(t, 1.0, cmd.Confidence)

	under := fakeGenerator{output: `{"intent":"help","confidence":-1}`}
	cmd = New(under, nil).Translate(context.Background(), "???")
	assert.Equal(t, 0.0, cmd.Confidence)
}

func TestModelFailureFallsBackToRules(t *testing.T) {
	tests := []struct {
		name string
		gen  fakeGenerator
	}{
		{"generator error", fakeGenerator{err: errors.New("model offline")}},
		{"no json in output", fakeGenerator{output: "I cannot help with that."}},
		{"broken json", fakeGenerator{output: `{"intent":"deploy",`}},
		{"unknown intent", fakeGenerator{output: `{"intent":"launch","confidence":0.9}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(tt.gen, nil)
			cmd := tr.Translate(context.Background(), "scale web to 4")
			assert.Equal(t, models.IntentScale, cmd.Intent)
			assert.Equal(t, "web", cmd.AppName)
			require.NotNil(t, cmd.Replicas)
			assert.Equal(t, 4, *cmd.Replicas)
		})
	}
}

func TestExplain(t *testing.T) {
	tr := New(nil, nil)

	confident := models.Command{
		Intent:     models.IntentDeploy,
		AppName:    "web",
		Image:      "nginx:latest",
		Replicas:   intPtr(2),
		Confidence: 0.9,
	}
	text := tr.Explain(confident)
	assert.Contains(t, text, "deploy 2 replica(s) of 'nginx:latest'")
	assert.NotContains(t, text, "rephrase")

	confident.Confidence = 0.4
	assert.Contains(t, tr.Explain(confident), "rephrase or confirm")
}

func intPtr(n int) *int { return &n }
