package translate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/helmsman-run/helmsman/llm"
	"github.com/helmsman-run/helmsman/models"
)

const promptTemplate = `Parse the user request below into a container orchestration command.

Respond with a single JSON object and nothing else:
{
  "intent": "deploy" | "scale" | "delete" | "status" | "help",
  "appName": "<application name or empty>",
  "image": "<container image or empty>",
  "replicas": <number or null>,
  "ports": [<numbers>],
  "confidence": <0.0-1.0>,
  "reasoning": "<one sentence on how you read the request>"
}

Use "help" with a low confidence when the request is not about deploying,
scaling, deleting or inspecting applications.

User request: %q`

// modelCommand is the JSON shape the model is asked to produce.
type modelCommand struct {
	Intent     string  `json:"intent"`
	AppName    string  `json:"appName"`
	Image      string  `json:"image"`
	Replicas   *int    `json:"replicas"`
	Ports      []int   `json:"ports"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

func (t *Translator) translateWithModel(ctx context.Context, input string) (models.Command, error) {
	raw, err := t.gen.Generate(ctx, fmt.Sprintf(promptTemplate, input))
	if err != nil {
		return models.Command{}, fmt.Errorf("generate: %w", err)
	}

	obj, ok := llm.ExtractJSON(raw)
	if !ok {
		return models.Command{}, fmt.Errorf("no JSON object in model output")
	}

	var parsed modelCommand
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		return models.Command{}, fmt.Errorf("decode model output: %w", err)
	}
	if !models.KnownIntent(parsed.Intent) {
		return models.Command{}, fmt.Errorf("%w: model produced unknown intent %q", models.ErrIntentAmbiguous, parsed.Intent)
	}

	return models.Command{
		Intent:     models.Intent(parsed.Intent),
		AppName:    parsed.AppName,
		Image:      parsed.Image,
		Replicas:   parsed.Replicas,
		Ports:      parsed.Ports,
		Confidence: parsed.Confidence,
		Reasoning:  parsed.Reasoning,
	}, nil
}
